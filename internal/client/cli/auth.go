package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountd/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// readCredentials prompts for a username and a password. The caller wipes
// the password.
func (a *App) readCredentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Register prompts for credentials and creates a new account. It does not
// log in.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.client.Register(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %q with id %d\n", u.Username, u.ID)
	return nil
}

// Login prompts for credentials and, on success, keeps the session token
// for later commands. A failed login leaves any previous session intact.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, userName, password)
	if err != nil {
		return err
	}

	a.token = token
	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the session token locally. The server has no logout call,
// so the token itself stays valid there until the server restarts.
func (a *App) Logout(_ context.Context) error {
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	a.token = ""
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
