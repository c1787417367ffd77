package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func writeRSAKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}
	path := filepath.Join(t.TempDir(), "app.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path, key
}

func TestLoadAppConfig(t *testing.T) {
	path, _ := writeRSAKey(t)

	cfg, err := LoadAppConfig("12345", path)
	require.NoError(t, err)
	assert.Equal(t, "12345", cfg.AppID)
	assert.NotNil(t, cfg.PrivateKey)
}

func TestLoadAppConfigMissingID(t *testing.T) {
	path, _ := writeRSAKey(t)

	_, err := LoadAppConfig("", path)
	assert.ErrorIs(t, err, ErrMissingAppID)
}

func TestLoadAppConfigBadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	_, err := LoadAppConfig("12345", path)
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestAppToken(t *testing.T) {
	path, key := writeRSAKey(t)

	cfg, err := LoadAppConfig("12345", path)
	require.NoError(t, err)

	signed, err := AppToken(cfg)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "12345", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestAppTokenMissingKey(t *testing.T) {
	_, err := AppToken(AppConfig{AppID: "12345"})
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func writeDeployKey(t *testing.T, dir, name string) {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), pem.EncodeToMemory(block), 0o600))
}

func TestLoadDeployKey(t *testing.T) {
	dir := t.TempDir()
	writeDeployKey(t, dir, "id_ed25519")

	key, err := LoadDeployKey(filepath.Join(dir, "id_ed25519"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key.Fingerprint, "SHA256:"))
	assert.NotNil(t, key.Signer)
}

func TestGitSSHCommand(t *testing.T) {
	dir := t.TempDir()
	writeDeployKey(t, dir, "id_ed25519")

	key, err := LoadDeployKey(filepath.Join(dir, "id_ed25519"))
	require.NoError(t, err)

	cmd := key.GitSSHCommand()
	assert.True(t, strings.HasPrefix(cmd, "GIT_SSH_COMMAND=ssh -i "))
	assert.Contains(t, cmd, key.Path)
	assert.Contains(t, cmd, "IdentitiesOnly=yes")
}

func TestFindDeployKeyPrefersEd25519(t *testing.T) {
	dir := t.TempDir()
	writeDeployKey(t, dir, "id_rsa")
	writeDeployKey(t, dir, "id_ed25519")

	key, err := FindDeployKey(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "id_ed25519"), key.Path)
}

func TestFindDeployKeyNone(t *testing.T) {
	_, err := FindDeployKey(t.TempDir())
	assert.ErrorIs(t, err, ErrNoDeployKey)
}
