package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOAuthClientJSON = `{
	"installed": {
		"client_id": "12345.apps.googleusercontent.com",
		"project_id": "yi-connect",
		"auth_uri": "https://accounts.google.com/o/oauth2/auth",
		"token_uri": "https://oauth2.googleapis.com/token",
		"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
		"client_secret": "secret",
		"redirect_uris": ["http://localhost"]
	}
}`

func writeOAuthFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oauthClient.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadOAuthClient_Valid(t *testing.T) {
	path := writeOAuthFile(t, validOAuthClientJSON)

	cfg, err := ReadOAuthClient(path)
	require.NoError(t, err)
	assert.Equal(t, "12345.apps.googleusercontent.com", cfg.Installed.ClientID)
	assert.Equal(t, "secret", cfg.Installed.ClientSecret)
}

func TestReadOAuthClient_MalformedJSON(t *testing.T) {
	path := writeOAuthFile(t, "{not json")

	_, err := ReadOAuthClient(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestReadOAuthClient_MissingClientSecret(t *testing.T) {
	path := writeOAuthFile(t, `{
		"installed": {
			"client_id": "12345.apps.googleusercontent.com",
			"project_id": "yi-connect",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
			"redirect_uris": ["http://localhost"]
		}
	}`)

	_, err := ReadOAuthClient(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadOAuthClient_NotFound(t *testing.T) {
	_, err := LoadOAuthClient("no-such-environment")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oauthClient.no-such-environment.json not found")
}
