// Package googleauth builds client options shared by the Google API adapters.
//
// Credentials come from an explicit service account file or, when none is
// given, from the GOOGLE_APPLICATION_CREDENTIALS environment variable. When
// neither is present the client libraries fall back to application default
// credentials.
package googleauth

import (
	"os"

	"google.golang.org/api/option"
)

// EnvCredentials is the environment variable holding the default service
// account file path.
const EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

// Options returns client options for the given service account file and
// scopes. serviceAccountJSON may be empty; scopes may be empty for clients
// whose scopes are fixed by the API (BigQuery, Storage).
func Options(serviceAccountJSON string, scopes ...string) []option.ClientOption {
	var opts []option.ClientOption
	if path := CredentialsFile(serviceAccountJSON); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	if len(scopes) > 0 {
		opts = append(opts, option.WithScopes(scopes...))
	}
	return opts
}

// CredentialsFile resolves the service account file path, preferring the
// explicit argument over the environment.
func CredentialsFile(serviceAccountJSON string) string {
	if serviceAccountJSON != "" {
		return serviceAccountJSON
	}
	return os.Getenv(EnvCredentials)
}
