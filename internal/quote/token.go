package quote

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Token is an OAuth2 token pair with its access-token expiry.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"token_expiry"`
	SavedAt      time.Time `json:"saved_at"`
}

// Valid reports whether the access token can still be used.
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.Expiry)
}

// TokenStore persists the token pair between runs.
type TokenStore interface {
	Load() (Token, error)
	Save(Token) error
}

// FileTokenStore keeps tokens in a local JSON cache for interactive use.
type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load() (Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Token{}, nil
		}
		return Token{}, fmt.Errorf("read token cache: %w", err)
	}
	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		return Token{}, fmt.Errorf("parse token cache: %w", err)
	}
	return t, nil
}

func (s *FileTokenStore) Save(t Token) error {
	t.SavedAt = time.Now()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}

// EnvTokenStore carries a refresh token supplied by the environment, for
// unattended runs without writable token storage (a CI runner). Save is a
// no-op: the rotated refresh token lives only for the current process.
type EnvTokenStore struct {
	RefreshToken string
}

func (s *EnvTokenStore) Load() (Token, error) {
	return Token{RefreshToken: s.RefreshToken}, nil
}

func (s *EnvTokenStore) Save(Token) error { return nil }
