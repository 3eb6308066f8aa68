package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Me(ctx context.Context) error      { return f.record("me", nil) }
func (f *fakeExec) Cleanup(ctx context.Context) error { return f.record("cleanup", nil) }
func (f *fakeExec) Health(ctx context.Context) error  { return f.record("health", nil) }
func (f *fakeExec) List(ctx context.Context) error    { return f.record("list", nil) }
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) Add(ctx context.Context) error { return f.record("add", nil) }
func (f *fakeExec) Edit(ctx context.Context, args []string) error {
	return f.record("edit", args)
}
func (f *fakeExec) Status(ctx context.Context, args []string) error {
	return f.record("status", args)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Notify(ctx context.Context, args []string) error {
	return f.record("notify", args)
}
func (f *fakeExec) NotifyCustom(ctx context.Context, args []string) error {
	return f.record("notify-custom", args)
}
func (f *fakeExec) Draft(ctx context.Context, args []string) error {
	return f.record("draft", args)
}
func (f *fakeExec) Watch(ctx context.Context) error { return f.record("watch", nil) }

func capturePrints(t *testing.T) *[]string {
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

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrints(t)

	input := strings.Join([]string{
		"help",
		"login",
		"l",
		"show v1",
		"add",
		"edit v1",
		"status v1 completed",
		"notify v1 Fresh Water Request",
		"notify-custom v1",
		"draft v1 pilotage",
		"watch",
		"me",
		"health",
		"cleanup",
		"delete v1",
		"logout",
		"register",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "list", "show", "add", "edit", "status", "notify", "notify-custom", "draft",
		"watch", "me", "health", "cleanup", "delete", "logout", "register",
	}, exec.calls)
	assert.Equal(t, []string{"v1", "completed"}, exec.args[5])
	assert.Equal(t, []string{"v1", "Fresh", "Water", "Request"}, exec.args[6])
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\n")))

	assert.Contains(t, *lines, helpLoggedOut)
	assert.Contains(t, *lines, helpLoggedIn)
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "(agent)" }, bufio.NewReader(strings.NewReader("list\nfoobar\nlist")))

	require.Equal(t, []string{"list", "list"}, exec.calls)
	assert.Contains(t, *lines, "Error: boom")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "agency(agent)> ")
}

func TestRunREPL_QuitStopsImmediately(t *testing.T) {
	lines := capturePrints(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("\n  \nquit\nlist\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Bye!")
}
