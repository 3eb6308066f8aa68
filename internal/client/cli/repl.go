package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Cleanup(ctx context.Context) error
	Health(ctx context.Context) error

	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Notify(ctx context.Context, args []string) error
	NotifyCustom(ctx context.Context, args []string) error
	Draft(ctx context.Context, args []string) error
	Watch(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, health, exit"
	helpLoggedIn  = "Available commands: (l)ist, show <id>, add, edit <id>, status <id> [status], delete <id>,\n" +
		"  notify <id> [type], notify-custom <id>, draft <id> [type], watch, me, health, cleanup, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("agency%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "cleanup":
			cmdErr = a.Cleanup(ctx)
		case "health":
			cmdErr = a.Health(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "add":
			cmdErr = a.Add(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "status":
			cmdErr = a.Status(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)

		case "notify":
			cmdErr = a.Notify(ctx, args)
		case "notify-custom":
			cmdErr = a.NotifyCustom(ctx, args)
		case "draft":
			cmdErr = a.Draft(ctx, args)
		case "watch":
			cmdErr = a.Watch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}
