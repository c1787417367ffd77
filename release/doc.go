// Package release creates version-tagged releases on GitHub and GitLab.
//
// The version is read from a VERSION file at the repository root and
// published under the tag "v<version>". Creating a release is idempotent:
// if a release for the tag already exists nothing is changed.
//
// Basic usage:
//
//	provider, err := release.ProviderFromEnv(remoteURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	version, _ := release.ReadVersion(repoRoot)
//	rel, err := release.Ensure(ctx, provider, version, "main")
package release
