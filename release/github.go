package release

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubProvider implements Provider for GitHub repositories.
type GitHubProvider struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubProvider creates a new GitHub provider.
// token is a personal access token with repo scope.
func NewGitHubProvider(token, owner, repo string) (*GitHubProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubProvider{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// NewGitHubProviderFromURL creates a GitHub provider from a remote URL.
// Example: "https://github.com/owner/repo.git"
func NewGitHubProviderFromURL(token, remoteURL string) (*GitHubProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return NewGitHubProvider(token, owner, repo)
}

// GetRelease returns the release for tag, or ErrNotFound.
func (p *GitHubProvider) GetRelease(ctx context.Context, tag string) (*Release, error) {
	rel, resp, err := p.client.Repositories.GetReleaseByTag(ctx, p.owner, p.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get release by tag: %w", err)
	}
	return &Release{
		Tag:  rel.GetTagName(),
		Name: rel.GetName(),
		URL:  rel.GetHTMLURL(),
	}, nil
}

// CreateRelease publishes a release for tag pointing at ref.
func (p *GitHubProvider) CreateRelease(ctx context.Context, tag, name, ref string) (*Release, error) {
	rel, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName:         github.String(tag),
		Name:            github.String(name),
		TargetCommitish: github.String(ref),
	})
	if err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}
	return &Release{
		Tag:  rel.GetTagName(),
		Name: rel.GetName(),
		URL:  rel.GetHTMLURL(),
	}, nil
}
