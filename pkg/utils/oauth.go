package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/JKKN-Institutions/yi-connect-sub000/internal/config"
)

// calendarScope is the only Google permission the application asks for.
// Publishing chapter events needs write access to calendar events and
// nothing else.
const calendarScope = "https://www.googleapis.com/auth/calendar.events"

const (
	authPort     = 3000
	callbackPath = "/oauth/callback"
	authTimeout  = 5 * time.Minute
	tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

var (
	cachedToken *oauth2.Token
	cachedMu    sync.Mutex
)

// BuildOAuthConfig turns the downloaded client credentials into an oauth2
// config requesting the calendar scope, with the redirect pointed at the
// local callback server.
func BuildOAuthConfig(oauthCfg *config.OAuthClientConfig) (*oauth2.Config, error) {
	raw, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth client config: %w", err)
	}

	conf, err := google.ConfigFromJSON(raw, calendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to build oauth config: %w", err)
	}
	conf.RedirectURL = fmt.Sprintf("http://localhost:%d%s", authPort, callbackPath)

	return conf, nil
}

// Authorize returns a token holding the calendar scope, running the browser
// consent flow only when no usable token exists. Tokens are cached in memory
// for the process and on disk per environment, and refreshed when expired.
// Safe for concurrent use.
func Authorize(ctx context.Context, oauthConfig *oauth2.Config, env string) (*oauth2.Token, error) {
	cachedMu.Lock()
	defer cachedMu.Unlock()

	if cachedToken != nil && cachedToken.Valid() {
		return cachedToken, nil
	}

	store, err := NewTokenStore()
	if err != nil {
		return nil, err
	}

	if token := reuseStoredToken(ctx, oauthConfig, store, env); token != nil {
		cachedToken = token
		return token, nil
	}

	token, err := browserFlow(ctx, oauthConfig)
	if err != nil {
		return nil, err
	}

	if err := holdsCalendarScope(ctx, token); err != nil {
		return nil, fmt.Errorf("authorization did not grant the calendar scope: %w", err)
	}

	if err := store.Save(env, token); err != nil {
		fmt.Printf("Warning: failed to store token: %v\n", err)
	}

	cachedToken = token
	return token, nil
}

// ClearToken drops the process-level token cache. The next Authorize call
// falls back to the stored token or the consent flow.
func ClearToken() {
	cachedMu.Lock()
	defer cachedMu.Unlock()
	cachedToken = nil
}

// reuseStoredToken tries the on-disk token for env, refreshing it when
// expired. Returns nil when no stored token can serve, deleting the file if
// the token no longer carries the calendar scope.
func reuseStoredToken(ctx context.Context, oauthConfig *oauth2.Config, store *TokenStore, env string) *oauth2.Token {
	token, err := store.Load(env)
	if err != nil {
		fmt.Printf("Warning: failed to read stored token: %v\n", err)
		return nil
	}
	if token == nil {
		return nil
	}

	refreshed := false
	if !token.Valid() {
		if token.RefreshToken == "" {
			return nil
		}
		newToken, err := oauthConfig.TokenSource(ctx, token).Token()
		if err != nil {
			return nil
		}
		token = newToken
		refreshed = true
	}

	if err := holdsCalendarScope(ctx, token); err != nil {
		fmt.Printf("Stored token is no longer usable: %v\n", err)
		store.Delete(env)
		return nil
	}

	if refreshed {
		fmt.Println("Token refreshed successfully")
		if err := store.Save(env, token); err != nil {
			fmt.Printf("Warning: failed to store refreshed token: %v\n", err)
		}
	}

	return token
}

// holdsCalendarScope asks Google's tokeninfo endpoint which scopes the token
// carries and confirms the calendar scope is among them.
func holdsCalendarScope(ctx context.Context, token *oauth2.Token) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenInfoURL+"?access_token="+token.AccessToken, nil)
	if err != nil {
		return fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call tokeninfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tokeninfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	for _, granted := range strings.Fields(info.Scope) {
		if granted == calendarScope {
			return nil
		}
	}

	return fmt.Errorf("token grants %q", info.Scope)
}

// browserFlow prints the consent URL, waits for Google to redirect the
// browser back to the local callback server, and exchanges the returned code
// for a token.
func browserFlow(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	fmt.Println("No valid token found - starting OAuth flow")

	authURL := oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)
	fmt.Printf("\nVisit this URL to authorize the application:\n%s\n\n", authURL)

	code, err := waitForCallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	return token, nil
}

// waitForCallback serves the OAuth redirect on its own mux until a code
// arrives or the timeout elapses.
func waitForCallback(ctx context.Context) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			errCh <- fmt.Errorf("callback carried no authorization code")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authorization successful</h1><p>You can close this window and return to the application.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", authPort),
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback server: %w", err)
		}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var code string
	var waitErr error
	select {
	case code = <-codeCh:
	case waitErr = <-errCh:
	case <-waitCtx.Done():
		waitErr = fmt.Errorf("authorization timeout after %v", authTimeout)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	return code, waitErr
}

const (
	tokenDirName  = ".yi-connect/tokens"
	tokenDirPerm  = 0700 // Owner only
	tokenFilePerm = 0600 // Owner read/write only
)

// TokenStore keeps OAuth tokens on disk, one JSON file per environment,
// readable only by the owner.
type TokenStore struct {
	dir string
}

// NewTokenStore returns a store rooted at ~/.yi-connect/tokens.
func NewTokenStore() (*TokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return &TokenStore{dir: filepath.Join(home, tokenDirName)}, nil
}

func (s *TokenStore) path(env string) string {
	return filepath.Join(s.dir, fmt.Sprintf("token-%s.json", env))
}

// Load returns the stored token for env, or nil when none has been saved.
func (s *TokenStore) Load(env string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path(env))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// Save writes the token for env, creating the store directory on first use.
func (s *TokenStore) Save(env string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, tokenDirPerm); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path(env), data, tokenFilePerm); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Delete removes the stored token for env. A missing file is not an error.
func (s *TokenStore) Delete(env string) error {
	if err := os.Remove(s.path(env)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}

	return nil
}
