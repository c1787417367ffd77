package auth

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppTokenTTL is the lifetime of an app JWT. GitHub rejects tokens
// valid for more than ten minutes, so stay comfortably under.
const AppTokenTTL = 9 * time.Minute

// clockSkew is subtracted from the issued-at claim to tolerate clock
// drift between this host and the API.
const clockSkew = 60 * time.Second

// AppConfig holds a GitHub App identity.
type AppConfig struct {
	// AppID is the numeric application ID shown in the app settings.
	AppID string

	// PrivateKey is the app's RSA signing key.
	PrivateKey *rsa.PrivateKey
}

// LoadAppConfig reads an app's PEM private key from disk.
func LoadAppConfig(appID, keyPath string) (AppConfig, error) {
	if appID == "" {
		return AppConfig{}, ErrMissingAppID
	}

	data, err := os.ReadFile(keyPath) //nolint:gosec // user-provided path expected
	if err != nil {
		return AppConfig{}, fmt.Errorf("read private key: %w", err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return AppConfig{}, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return AppConfig{AppID: appID, PrivateKey: key}, nil
}

// AppToken generates a short-lived JWT identifying the app itself.
// Exchange it for an installation token via the GitHub API.
func AppToken(cfg AppConfig) (string, error) {
	if cfg.AppID == "" {
		return "", ErrMissingAppID
	}
	if cfg.PrivateKey == nil {
		return "", ErrInvalidPrivateKey
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.AppID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-clockSkew)),
		ExpiresAt: jwt.NewNumericDate(now.Add(AppTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign app token: %w", err)
	}
	return signed, nil
}
