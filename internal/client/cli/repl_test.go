package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls   []string
	arg     string
	listErr error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return f.listErr
}
func (f *fakeExec) Delete(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "delete")
	f.arg = arg
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"register",
		"login",
		"help",
		"",
		"list",
		"l",
		"delete 42",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{"register", "login", "list", "list", "delete", "logout"}, exec.calls)
	assert.Equal(t, "42", exec.arg)
	assert.Contains(t, *out, "Available commands: register, login, exit")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Equal(t, "accountd status> ", (*out)[0])
}

func TestRunREPL_StopsOnEOFAndPrintsErrors(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{listErr: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list")))

	assert.Equal(t, []string{"list"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
	assert.NotContains(t, *out, "Bye!")
}
