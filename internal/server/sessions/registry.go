// Package sessions keeps the process-lifetime map from issued session tokens
// to account ids. Nothing is persisted: a restart invalidates every token.
package sessions

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/accountd/internal/common"
)

// maxIssueAttempts bounds regeneration on token collision.
const maxIssueAttempts = 3

// Registry is safe for concurrent use. The zero value is not usable; call New.
type Registry struct {
	mu       sync.RWMutex
	tokens   map[string]int64
	newToken func() (string, error)
}

func New() *Registry {
	return &Registry{
		tokens:   make(map[string]int64),
		newToken: randomToken,
	}
}

func randomToken() (string, error) {
	return common.MakeRandHexString(common.SessionTokenBytes)
}

// Issue creates a new token for accountID. Tokens never expire and earlier
// tokens for the same account stay valid.
func (r *Registry) Issue(accountID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxIssueAttempts; i++ {
		token, err := r.newToken()
		if err != nil {
			return "", fmt.Errorf("generate session token: %w", err)
		}
		if _, taken := r.tokens[token]; taken {
			continue
		}
		r.tokens[token] = accountID
		return token, nil
	}
	return "", fmt.Errorf("generate session token: %d collisions in a row", maxIssueAttempts)
}

// Authorize returns the account id the token was issued for, or
// common.ErrInvalidToken.
func (r *Registry) Authorize(token string) (int64, error) {
	if token == "" {
		return 0, common.ErrInvalidToken
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	accountID, ok := r.tokens[token]
	if !ok {
		return 0, common.ErrInvalidToken
	}
	return accountID, nil
}

// Len returns the number of active tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}

// Clear drops every token. Called on shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.tokens)
}
