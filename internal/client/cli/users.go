package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/accountd/internal/client/client"
)

// List prints every account as an id/username table.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}

	users, err := a.client.ListUsers(ctx, a.token)
	if err != nil {
		return a.checkSession(err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME")
	for _, u := range users {
		fmt.Fprintln(tw, u.String())
	}
	return tw.Flush()
}

// Delete removes the account whose id is given as arg, prompting for it
// when arg is empty.
func (a *App) Delete(ctx context.Context, arg string) error {
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}

	if arg == "" {
		var err error
		arg, err = getSimpleText(a.reader, "Enter user id to delete", a.out)
		if err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", arg)
	}

	if err := a.client.DeleteUser(ctx, a.token, id); err != nil {
		return a.checkSession(err)
	}

	fmt.Fprintf(a.out, "User %d deleted\n", id)
	return nil
}

// checkSession drops the local token once the server stops accepting it,
// which happens after a server restart.
func (a *App) checkSession(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.token = ""
		a.userName = ""
		return fmt.Errorf("%w; please log in again", err)
	}
	return err
}
