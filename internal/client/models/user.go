// Package models holds the client-side view of server resources.
package models

import "fmt"

// User is an account as listed by the server. Password hashes are never sent.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u User) String() string {
	return fmt.Sprintf("%d\t%s", u.ID, u.Username)
}
