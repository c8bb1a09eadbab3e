package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OAuthClientConfig mirrors the credentials JSON downloaded from the Google
// Cloud console for an installed application.
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadOAuthClient reads the OAuth credentials for env, checking the working
// directory first and then the user's home. A non-empty env selects an
// environment-specific file, so env "test" resolves "oauthClient.test.json"
// and an empty env resolves plain "oauthClient.json".
func LoadOAuthClient(env string) (*OAuthClientConfig, error) {
	name := "oauthClient.json"
	if env != "" {
		name = "oauthClient." + env + ".json"
	}

	candidates := []string{name}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, name))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return ReadOAuthClient(path)
		}
	}

	return nil, fmt.Errorf("%s not found in current directory or home directory", name)
}

// ReadOAuthClient parses and validates the credentials file at path.
func ReadOAuthClient(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var cfg OAuthClientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("oauth client validation failed: %w", err)
	}

	return &cfg, nil
}
