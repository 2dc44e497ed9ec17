// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for salted password key derivation.
// Hashing is deterministic: the same (plaintext, salt) pair always yields the
// same digest, so verification is a digest recomputation plus a constant-time
// comparison.
type PasswordHasher interface {
	// GenerateSalt produces a fresh random salt from a cryptographically
	// secure source. A new salt is drawn on every password set.
	GenerateSalt() (string, error)

	// Hash derives the digest for a plaintext password and salt.
	Hash(password, salt string) string

	// Verify recomputes the digest for (password, salt) and compares it with
	// the stored digest in constant time.
	Verify(password, salt, digest string) bool
}
