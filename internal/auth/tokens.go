// ABOUTME: In-memory store of bearer tokens issued by the OAuth stub.
// ABOUTME: Records issuance only; nothing here validates incoming requests.

package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenTTL is the fixed lifetime reported with every issued token.
const TokenTTL = 3600

// IssuedToken describes one token minted by the stub.
type IssuedToken struct {
	Token     string
	ClientID  string
	IssuedAt  time.Time
	ExpiresIn int
}

// TokenStore tracks issued tokens in memory. Tokens are never persisted and
// never expire out of the map; the store exists so a wrapping deployment can
// check issuance if it wants to.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]IssuedToken
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]IssuedToken)}
}

// Issue mints a new opaque bearer token for a client and records it.
func (s *TokenStore) Issue(clientID string) IssuedToken {
	tok := IssuedToken{
		Token:     fmt.Sprintf("mcp_%d_%s", time.Now().Unix(), uuid.New().String()),
		ClientID:  clientID,
		IssuedAt:  time.Now(),
		ExpiresIn: TokenTTL,
	}

	s.mu.Lock()
	s.tokens[tok.Token] = tok
	s.mu.Unlock()

	return tok
}

// Issued reports whether a token was minted by this store.
func (s *TokenStore) Issued(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// TokenCount returns the number of issued tokens.
func (s *TokenStore) TokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
