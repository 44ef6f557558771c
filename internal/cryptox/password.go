// Package cryptox implements password credential digests.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported hashing schemes.
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// PasswordHasher turns a plaintext password into a storable digest and checks
// candidates against it. Digests are plain strings so they fit a TEXT column.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// NewPasswordHasher returns the hasher for scheme. bcryptCost is ignored for
// sha256 and clamped to bcrypt's supported range otherwise.
func NewPasswordHasher(scheme string, bcryptCost int) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	default:
		return nil, fmt.Errorf("unsupported password hash scheme %q (supported: %s, %s)", scheme, SchemeSHA256, SchemeBcrypt)
	}
}

// DetectScheme guesses which scheme produced digest. It returns "" when the
// digest matches neither.
func DetectScheme(digest string) string {
	switch {
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return SchemeBcrypt
	case len(digest) == sha256.Size*2 && strings.Trim(digest, "0123456789abcdef") == "":
		return SchemeSHA256
	default:
		return ""
	}
}

// SHA256Hasher is a deterministic, unsalted digest: lowercase hex of
// SHA-256(plaintext). Identical passwords produce identical digests.
// It exists to read databases written by the legacy service; prefer bcrypt.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(plaintext, digest string) bool {
	candidate, _ := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// BcryptHasher is a salted, slow digest backed by golang.org/x/crypto/bcrypt.
// The plaintext is first reduced to its hex SHA-256 so inputs of any length
// fit bcrypt's 72-byte limit without truncation.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher clamps cost into [bcrypt.MinCost, bcrypt.MaxCost];
// zero or negative means bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(plaintext)) == nil
}

func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	dst := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(dst, sum[:])
	return dst
}
