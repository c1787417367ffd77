package auth

import "errors"

// Authentication errors.
var (
	// ErrMissingAppID indicates no GitHub App ID was provided.
	ErrMissingAppID = errors.New("GitHub App ID is required")

	// ErrInvalidPrivateKey indicates the private key could not be parsed.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrNoDeployKey indicates no deploy key was found.
	ErrNoDeployKey = errors.New("no deploy key found")
)
