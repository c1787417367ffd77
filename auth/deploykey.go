package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
)

// DefaultDeployKeyNames is the lookup order for deploy key files.
var DefaultDeployKeyNames = []string{
	"id_ed25519",
	"id_ecdsa",
	"id_rsa",
}

// DeployKey is an SSH key used to push documentation to the wiki remote.
type DeployKey struct {
	// Path is the private key file.
	Path string

	// Signer performs SSH signatures with the key.
	Signer ssh.Signer

	// Fingerprint is the SHA256 fingerprint of the public key.
	Fingerprint string
}

// LoadDeployKey reads and parses an unencrypted SSH private key file.
func LoadDeployKey(path string) (*DeployKey, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path expected
	if err != nil {
		return nil, fmt.Errorf("read deploy key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse deploy key: %w", err)
	}

	return &DeployKey{
		Path:        path,
		Signer:      signer,
		Fingerprint: ssh.FingerprintSHA256(signer.PublicKey()),
	}, nil
}

// GitSSHCommand returns a GIT_SSH_COMMAND environment entry that makes
// git authenticate with this key and no other identity.
func (k *DeployKey) GitSSHCommand() string {
	return "GIT_SSH_COMMAND=ssh -i " + k.Path + " -o IdentitiesOnly=yes"
}

// FindDeployKey locates a deploy key in dir, trying DefaultDeployKeyNames
// in order. dir defaults to ~/.ssh when empty.
func FindDeployKey(dir string) (*DeployKey, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".ssh")
	}

	for _, name := range DefaultDeployKeyNames {
		key, err := LoadDeployKey(filepath.Join(dir, name))
		if err == nil {
			return key, nil
		}
	}

	return nil, ErrNoDeployKey
}
