package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/accountd/internal/client/client"
	"github.com/dmitrijs2005/accountd/internal/client/config"
)

// ErrNotLoggedIn is returned by commands that need a session token.
var ErrNotLoggedIn = errors.New("not logged in, use 'login' first")

type App struct {
	config   *config.Config
	client   client.Client
	token    string
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Run prints a greeting, warns when the server does not answer, and runs
// the REPL until exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to accountd CLI (type 'help' for commands)")

	if err := a.client.Health(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable: %v\n", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
