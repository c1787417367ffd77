package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VersionFile is the name of the file holding the project version.
const VersionFile = "VERSION"

// Release errors
var (
	// ErrUnknownProvider indicates the git remote uses an unknown provider.
	ErrUnknownProvider = errors.New("unknown git provider")

	// ErrNotFound indicates no release exists for the tag.
	ErrNotFound = errors.New("release not found")

	// ErrEmptyVersion indicates the VERSION file is empty.
	ErrEmptyVersion = errors.New("version is empty")
)

// Release describes a published release.
type Release struct {
	Tag     string
	Name    string
	URL     string
	Created bool // true if Ensure created it on this call
}

// Provider abstracts a release host (GitHub, GitLab).
type Provider interface {
	// GetRelease returns the release for tag, or ErrNotFound.
	GetRelease(ctx context.Context, tag string) (*Release, error)

	// CreateRelease publishes a release for tag pointing at ref.
	CreateRelease(ctx context.Context, tag, name, ref string) (*Release, error)
}

// ReadVersion reads the VERSION file at the repository root.
// Surrounding whitespace is trimmed.
func ReadVersion(repoRoot string) (string, error) {
	data, err := os.ReadFile(filepath.Join(repoRoot, VersionFile))
	if err != nil {
		return "", fmt.Errorf("read version file: %w", err)
	}
	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", ErrEmptyVersion
	}
	return version, nil
}

// Tag returns the git tag for a version, e.g. "1.2.0" -> "v1.2.0".
func Tag(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}

// Ensure makes sure a release exists for version, creating it when missing
// pointing at ref. An empty ref defaults to "main". The returned Release
// reports whether this call created it.
func Ensure(ctx context.Context, p Provider, version, ref string) (*Release, error) {
	if strings.TrimSpace(version) == "" {
		return nil, ErrEmptyVersion
	}
	if ref == "" {
		ref = "main"
	}
	tag := Tag(version)

	rel, err := p.GetRelease(ctx, tag)
	if err == nil {
		return rel, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get release %s: %w", tag, err)
	}

	rel, err = p.CreateRelease(ctx, tag, tag, ref)
	if err != nil {
		return nil, fmt.Errorf("create release %s: %w", tag, err)
	}
	rel.Created = true
	return rel, nil
}
