package googleauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsFileExplicit(t *testing.T) {
	t.Setenv(EnvCredentials, "/env/sa.json")
	assert.Equal(t, "/explicit/sa.json", CredentialsFile("/explicit/sa.json"))
}

func TestCredentialsFileFromEnv(t *testing.T) {
	t.Setenv(EnvCredentials, "/env/sa.json")
	assert.Equal(t, "/env/sa.json", CredentialsFile(""))
}

func TestCredentialsFileUnset(t *testing.T) {
	t.Setenv(EnvCredentials, "")
	assert.Equal(t, "", CredentialsFile(""))
}

func TestOptions(t *testing.T) {
	t.Setenv(EnvCredentials, "")

	assert.Empty(t, Options(""))
	assert.Len(t, Options("/sa.json"), 1)
	assert.Len(t, Options("/sa.json", "scope-a", "scope-b"), 2)
}
