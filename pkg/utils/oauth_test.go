package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenStore_SaveAndLoad(t *testing.T) {
	store := &TokenStore{dir: filepath.Join(t.TempDir(), "tokens")}

	token := &oauth2.Token{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}

	err := store.Save("test", token)
	require.NoError(t, err)

	loaded, err := store.Load("test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestTokenStore_LoadMissingReturnsNil(t *testing.T) {
	store := &TokenStore{dir: t.TempDir()}

	loaded, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestTokenStore_EnvironmentsAreIsolated(t *testing.T) {
	store := &TokenStore{dir: t.TempDir()}

	err := store.Save("prod", &oauth2.Token{AccessToken: "prod-token"})
	require.NoError(t, err)

	loaded, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	loaded, err = store.Load("prod")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "prod-token", loaded.AccessToken)
}

func TestTokenStore_Delete(t *testing.T) {
	store := &TokenStore{dir: t.TempDir()}

	err := store.Save("test", &oauth2.Token{AccessToken: "short-lived"})
	require.NoError(t, err)

	err = store.Delete("test")
	require.NoError(t, err)

	loaded, err := store.Load("test")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting again is a no-op
	err = store.Delete("test")
	assert.NoError(t, err)
}

func TestTokenStore_FilePermissions(t *testing.T) {
	store := &TokenStore{dir: filepath.Join(t.TempDir(), "tokens")}

	err := store.Save("test", &oauth2.Token{AccessToken: "secret"})
	require.NoError(t, err)

	info, err := os.Stat(store.path("test"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerm), info.Mode().Perm())
}
