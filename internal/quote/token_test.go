package quote

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "schwab_tokens.json")
	s := &FileTokenStore{Path: path}

	tok := Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(29 * time.Minute).Truncate(time.Second),
	}
	require.NoError(t, s.Save(tok))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, loaded.AccessToken)
	assert.Equal(t, tok.RefreshToken, loaded.RefreshToken)
	assert.True(t, tok.Expiry.Equal(loaded.Expiry))
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestFileTokenStore_MissingFileIsEmptyToken(t *testing.T) {
	s := &FileTokenStore{Path: filepath.Join(t.TempDir(), "nope.json")}
	tok, err := s.Load()
	require.NoError(t, err)
	assert.Zero(t, tok)
}

func TestEnvTokenStore(t *testing.T) {
	s := &EnvTokenStore{RefreshToken: "refresh-env"}
	tok, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "refresh-env", tok.RefreshToken)
	assert.Empty(t, tok.AccessToken)
	assert.NoError(t, s.Save(Token{AccessToken: "whatever"}))
}

func TestTokenValid(t *testing.T) {
	now := time.Now()
	assert.True(t, Token{AccessToken: "a", Expiry: now.Add(time.Minute)}.Valid(now))
	assert.False(t, Token{AccessToken: "a", Expiry: now.Add(-time.Minute)}.Valid(now))
	assert.False(t, Token{Expiry: now.Add(time.Minute)}.Valid(now))
}
