package release

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	releases map[string]*Release
	created  []string
	refs     []string
	getErr   error
}

func (m *mockProvider) GetRelease(ctx context.Context, tag string) (*Release, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rel, ok := m.releases[tag]
	if !ok {
		return nil, ErrNotFound
	}
	return rel, nil
}

func (m *mockProvider) CreateRelease(ctx context.Context, tag, name, ref string) (*Release, error) {
	m.created = append(m.created, tag)
	m.refs = append(m.refs, ref)
	rel := &Release{Tag: tag, Name: name}
	if m.releases == nil {
		m.releases = make(map[string]*Release)
	}
	m.releases[tag] = rel
	return rel, nil
}

func TestReadVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFile), []byte("1.4.2\n"), 0o644))

	version, err := ReadVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", version)
}

func TestReadVersionMissing(t *testing.T) {
	_, err := ReadVersion(t.TempDir())
	assert.Error(t, err)
}

func TestReadVersionEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFile), []byte("  \n"), 0o644))

	_, err := ReadVersion(dir)
	assert.ErrorIs(t, err, ErrEmptyVersion)
}

func TestTag(t *testing.T) {
	assert.Equal(t, "v1.2.0", Tag("1.2.0"))
	assert.Equal(t, "v1.2.0", Tag("v1.2.0"))
}

func TestEnsureCreatesMissingRelease(t *testing.T) {
	m := &mockProvider{}

	rel, err := Ensure(context.Background(), m, "1.2.0", "main")
	require.NoError(t, err)
	assert.True(t, rel.Created)
	assert.Equal(t, "v1.2.0", rel.Tag)
	assert.Equal(t, []string{"v1.2.0"}, m.created)
}

func TestEnsureIsIdempotent(t *testing.T) {
	m := &mockProvider{releases: map[string]*Release{
		"v1.2.0": {Tag: "v1.2.0", Name: "v1.2.0"},
	}}

	rel, err := Ensure(context.Background(), m, "1.2.0", "main")
	require.NoError(t, err)
	assert.False(t, rel.Created)
	assert.Empty(t, m.created)
}

func TestEnsurePropagatesLookupError(t *testing.T) {
	m := &mockProvider{getErr: errors.New("boom")}

	_, err := Ensure(context.Background(), m, "1.2.0", "main")
	assert.Error(t, err)
	assert.Empty(t, m.created)
}

func TestEnsureEmptyVersion(t *testing.T) {
	_, err := Ensure(context.Background(), &mockProvider{}, " ", "main")
	assert.ErrorIs(t, err, ErrEmptyVersion)
}

func TestEnsureUsesConfiguredRef(t *testing.T) {
	m := &mockProvider{}

	_, err := Ensure(context.Background(), m, "1.2.0", "trunk")
	require.NoError(t, err)
	assert.Equal(t, []string{"trunk"}, m.refs)
}

func TestEnsureDefaultsRefToMain(t *testing.T) {
	m := &mockProvider{}

	_, err := Ensure(context.Background(), m, "1.2.0", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, m.refs)
}

func TestProviderFromEnvGitHubAppCredentials(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	keyPath := filepath.Join(t.TempDir(), "app.pem")
	require.NoError(t, os.WriteFile(keyPath, pemData, 0o600))

	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GIT_TOKEN", "")
	t.Setenv("GITHUB_APP_ID", "12345")
	t.Setenv("GITHUB_APP_PRIVATE_KEY", keyPath)

	p, err := ProviderFromEnv("https://github.com/utilitywarehouse/iolib.git")
	require.NoError(t, err)
	assert.IsType(t, &GitHubProvider{}, p)
}

func TestProviderFromEnvNoCredentials(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GIT_TOKEN", "")
	t.Setenv("GITHUB_APP_ID", "")

	_, err := ProviderFromEnv("https://github.com/utilitywarehouse/iolib.git")
	assert.Error(t, err)
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://github.com/utilitywarehouse/iolib.git", "github", false},
		{"git@github.com:utilitywarehouse/iolib.git", "github", false},
		{"https://gitlab.com/group/project.git", "gitlab", false},
		{"https://gitlab.example.com/group/project.git", "gitlab", false},
		{"https://example.com/owner/repo.git", "", true},
	}

	for _, tt := range tests {
		got, err := DetectProvider(tt.url)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownProvider, tt.url)
			continue
		}
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestParseRepoFromURL(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
	}{
		{"https://github.com/utilitywarehouse/iolib.git", "utilitywarehouse", "iolib"},
		{"git@github.com:utilitywarehouse/iolib.git", "utilitywarehouse", "iolib"},
		{"https://gitlab.com/group/project", "group", "project"},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRepoFromURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.owner, owner)
		assert.Equal(t, tt.repo, repo)
	}
}
