// Package cli provides the interactive accountd command-line client.
//
// It wires configuration, the HTTP API client and a small REPL. The session
// token returned by login is kept in memory only; logout just forgets it.
//
// Commands:
//   - register, login, logout
//   - list            show every account
//   - delete <id>     delete an account
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
