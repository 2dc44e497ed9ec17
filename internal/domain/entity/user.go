// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is a registered account. Email and nickname are globally unique.
// PasswordDigest and Salt always change together: a password set (initial or
// changed) generates a fresh salt and derives a new digest from it.
type User struct {
	ID             int64     // Stable numeric identifier, primary key.
	Email          string    // Login identifier, unique across all users.
	Nickname       string    // Display name, unique across all users.
	PasswordDigest string    // Base64 output of the key-derivation function. Never plaintext.
	Salt           string    // Base64 per-user random salt, regenerated on every password set.
	RefreshToken   *string   // The currently valid refresh token, nil when logged out.
	CreatedAt      time.Time // Timestamp of registration.
}
