package session

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/amishk599/cvbuilder/internal/model"
)

// TokenKey is the storage key holding the bearer token.
const TokenKey = "token"

// Session is the signed-in user's credential, persisted in client storage so
// it survives restarts. It is safe for concurrent use as long as the storage is.
type Session struct {
	storage model.Storage
}

// New returns a session backed by storage.
func New(storage model.Storage) *Session {
	return &Session{storage: storage}
}

// Token returns the current bearer token, or nil when signed out.
// Unreadable storage counts as signed out.
func (s *Session) Token() *oauth2.Token {
	v, ok, err := s.storage.Get(TokenKey)
	if err != nil || !ok || v == "" {
		return nil
	}
	return &oauth2.Token{AccessToken: v, TokenType: "Bearer"}
}

// Active reports whether a token is present.
func (s *Session) Active() bool {
	return s.Token() != nil
}

// Set stores tok. A nil or empty token signs the user out.
func (s *Session) Set(tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return s.Clear()
	}
	if err := s.storage.Set(TokenKey, tok.AccessToken); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	return nil
}

// Clear signs the user out. Clearing an empty session is a no-op.
func (s *Session) Clear() error {
	if err := s.storage.Delete(TokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// Authorize adds the bearer header to req when a session is active.
func (s *Session) Authorize(req *http.Request) {
	if tok := s.Token(); tok != nil {
		tok.SetAuthHeader(req)
	}
}
