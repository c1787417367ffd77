package main

import (
	"fmt"

	"github.com/spf13/cobra"

	ioerrors "github.com/utilitywarehouse/iolib/errors"
	"github.com/utilitywarehouse/iolib/git"
	"github.com/utilitywarehouse/iolib/release"
)

func newReleaseCmd(opts *rootOptions) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Create a release for the version in the VERSION file",
		Long: `Reads the VERSION file at the repository root and makes sure a
release tagged v<version> exists on the hosting provider. The provider
and credentials are detected from the origin remote and environment.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			version, err := release.ReadVersion(opts.repoRoot)
			if err != nil {
				return err
			}

			repo, err := git.NewContext(ctx, opts.repoRoot)
			if err != nil {
				return err
			}
			remoteURL, err := repo.RemoteURL(ctx, remote)
			if err != nil {
				return err
			}

			provider, err := release.ProviderFromEnv(remoteURL)
			if err != nil {
				return ioerrors.WrapCredentialError(err)
			}

			rel, err := release.Ensure(ctx, provider, version, cfg.MainBranch)
			if err != nil {
				return ioerrors.WrapCredentialError(err)
			}

			if rel.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "created release %s\n", rel.Tag)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "release %s already exists\n", rel.Tag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "origin", "git remote to publish the release on")
	return cmd
}
