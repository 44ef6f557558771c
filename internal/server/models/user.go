// Package models holds the server's persisted records.
package models

// User is a registered account. ID and UserName never change after creation;
// PasswordHash is the credential digest, never the plaintext.
type User struct {
	ID           int64  `db:"id"`
	UserName     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}
