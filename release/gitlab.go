package release

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements Provider for GitLab repositories.
type GitLabProvider struct {
	client    *gitlab.Client
	projectID string // Can be numeric ID or "namespace/project"
}

// NewGitLabProvider creates a new GitLab provider.
// token is a personal access token.
// baseURL is the GitLab instance URL (empty for gitlab.com).
// projectID can be numeric ID or "namespace/project" path.
func NewGitLabProvider(token, baseURL, projectID string) (*GitLabProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	var client *gitlab.Client
	var err error

	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}

	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLabProvider{
		client:    client,
		projectID: projectID,
	}, nil
}

// NewGitLabProviderFromURL creates a GitLab provider from a remote URL.
// Example: "https://gitlab.com/namespace/project.git"
func NewGitLabProviderFromURL(token, remoteURL string) (*GitLabProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}

	// Extract base URL for self-hosted instances
	var baseURL string
	if !strings.Contains(remoteURL, "gitlab.com") {
		remoteURL = strings.TrimPrefix(remoteURL, "https://")
		remoteURL = strings.TrimPrefix(remoteURL, "http://")
		parts := strings.Split(remoteURL, "/")
		if len(parts) > 0 {
			baseURL = "https://" + parts[0]
		}
	}

	projectID := owner + "/" + repo
	return NewGitLabProvider(token, baseURL, projectID)
}

// GetRelease returns the release for tag, or ErrNotFound.
func (p *GitLabProvider) GetRelease(ctx context.Context, tag string) (*Release, error) {
	rel, resp, err := p.client.Releases.GetRelease(p.projectID, tag, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get release: %w", err)
	}
	return &Release{
		Tag:  rel.TagName,
		Name: rel.Name,
		URL:  rel.Links.Self,
	}, nil
}

// CreateRelease publishes a release for tag pointing at ref.
func (p *GitLabProvider) CreateRelease(ctx context.Context, tag, name, ref string) (*Release, error) {
	rel, _, err := p.client.Releases.CreateRelease(p.projectID, &gitlab.CreateReleaseOptions{
		Name:    gitlab.Ptr(name),
		TagName: gitlab.Ptr(tag),
		Ref:     gitlab.Ptr(ref),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("create release: %w", err)
	}
	return &Release{
		Tag:  rel.TagName,
		Name: rel.Name,
		URL:  rel.Links.Self,
	}, nil
}
