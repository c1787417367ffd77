package release

import (
	"fmt"
	"os"
	"strings"

	"github.com/utilitywarehouse/iolib/auth"
)

// DetectProvider attempts to detect the release provider from a remote URL.
func DetectProvider(remoteURL string) (string, error) {
	remoteURL = strings.ToLower(remoteURL)

	if strings.Contains(remoteURL, "github.com") {
		return "github", nil
	}
	if strings.Contains(remoteURL, "gitlab.com") || strings.Contains(remoteURL, "gitlab") {
		return "gitlab", nil
	}

	return "", ErrUnknownProvider
}

// ParseRepoFromURL extracts owner and repo from a git remote URL.
func ParseRepoFromURL(remoteURL string) (owner, repo string, err error) {
	// Handle SSH URLs: git@github.com:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.Split(remoteURL, ":")
		if len(parts) != 2 {
			return "", "", fmt.Errorf("invalid SSH URL format")
		}
		path := strings.TrimSuffix(parts[1], ".git")
		pathParts := strings.Split(path, "/")
		if len(pathParts) != 2 {
			return "", "", fmt.Errorf("invalid repository path")
		}
		return pathParts[0], pathParts[1], nil
	}

	// Handle HTTPS URLs: https://github.com/owner/repo.git
	remoteURL = strings.TrimPrefix(remoteURL, "https://")
	remoteURL = strings.TrimPrefix(remoteURL, "http://")
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	parts := strings.Split(remoteURL, "/")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("invalid URL format")
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// ProviderFromEnv creates a provider based on remote URL and environment.
//
// Environment variables checked:
//   - GITHUB_TOKEN for GitHub
//   - GITLAB_TOKEN for GitLab
//   - GIT_TOKEN as fallback for either
//   - GITHUB_APP_ID and GITHUB_APP_PRIVATE_KEY to authenticate as a
//     GitHub App when no personal token is set
func ProviderFromEnv(remoteURL string) (Provider, error) {
	platform, err := DetectProvider(remoteURL)
	if err != nil {
		return nil, err
	}

	switch platform {
	case "github":
		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			token = os.Getenv("GIT_TOKEN")
		}
		if token == "" {
			if appID := os.Getenv("GITHUB_APP_ID"); appID != "" {
				cfg, err := auth.LoadAppConfig(appID, os.Getenv("GITHUB_APP_PRIVATE_KEY"))
				if err != nil {
					return nil, fmt.Errorf("load github app credentials: %w", err)
				}
				token, err = auth.AppToken(cfg)
				if err != nil {
					return nil, err
				}
			}
		}
		if token == "" {
			return nil, fmt.Errorf("GITHUB_TOKEN or GIT_TOKEN not set; set one of these environment variables with a valid personal access token")
		}
		return NewGitHubProviderFromURL(token, remoteURL)

	case "gitlab":
		token := os.Getenv("GITLAB_TOKEN")
		if token == "" {
			token = os.Getenv("GIT_TOKEN")
		}
		if token == "" {
			return nil, fmt.Errorf("GITLAB_TOKEN or GIT_TOKEN not set; set one of these environment variables with a valid personal access token")
		}
		return NewGitLabProviderFromURL(token, remoteURL)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, platform)
	}
}
