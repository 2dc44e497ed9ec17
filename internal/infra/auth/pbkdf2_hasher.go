// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"remu/internal/domain/service"
)

// Key-derivation parameters. Stored digests are only comparable when these
// stay fixed, so changing any of them invalidates every persisted credential.
const (
	saltBytes  = 10
	keyBytes   = 10
	iterations = 10000
)

// pbkdf2Hasher is a concrete implementation of the PasswordHasher interface
// using PBKDF2 with SHA-512 and a per-user random salt.
type pbkdf2Hasher struct{}

// NewPBKDF2Hasher is the constructor for pbkdf2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewPBKDF2Hasher() service.PasswordHasher {
	return &pbkdf2Hasher{}
}

// GenerateSalt produces a fresh random salt, base64-encoded for storage.
func (h *pbkdf2Hasher) GenerateSalt() (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generate salt")
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

// Hash derives a base64-encoded digest from a plaintext password and a stored salt.
// The salt string is consumed as-is, so the same (password, salt) pair always
// yields the same digest.
func (h *pbkdf2Hasher) Hash(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyBytes, sha512.New)

	return base64.StdEncoding.EncodeToString(key)
}

// Verify compares a plaintext password against a stored salt and digest.
func (h *pbkdf2Hasher) Verify(password, salt, digest string) bool {
	derived := h.Hash(password, salt)

	return subtle.ConstantTimeCompare([]byte(derived), []byte(digest)) == 1
}
