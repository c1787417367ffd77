package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestDeployKeyRunner(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	runner, err := deployKeyRunner(path)
	require.NoError(t, err)
	require.Len(t, runner.Env, 1)
	assert.Contains(t, runner.Env[0], "GIT_SSH_COMMAND=ssh -i "+path)
}

func TestDeployKeyRunnerMissingKey(t *testing.T) {
	_, err := deployKeyRunner(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
