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

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	ForgotPassword(ctx context.Context) error

	Menu(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	Burger(ctx context.Context) error
	Clear(ctx context.Context) error

	Order(ctx context.Context) error
	Feed(ctx context.Context) error
	MyOrders(ctx context.Context) error
	Show(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: menu, add <n>, remove <n>, move <from> <to>, burger, clear, feed, show <number>, register, login, forgot, exit"
	helpUser  = "Available commands: menu, add <n>, remove <n>, move <from> <to>, burger, clear, order, feed, orders, show <number>, profile, logout, exit"
)

// runREPL starts a simple read–eval–print loop over the store.
//
// It reads a line from reader, parses the first token as the command and the
// rest as its arguments, and dispatches to methods on 'a'. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Command errors are printed and the loop carries on; the state itself
// already records what went wrong.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("burger %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "m", "menu":
			cmdErr = a.Menu(ctx)
		case "add":
			cmdErr = a.Add(ctx, args)
		case "rm", "remove":
			cmdErr = a.Remove(ctx, args)
		case "mv", "move":
			cmdErr = a.Move(ctx, args)
		case "b", "burger":
			cmdErr = a.Burger(ctx)
		case "clear":
			cmdErr = a.Clear(ctx)

		case "order":
			cmdErr = a.Order(ctx)
		case "feed":
			cmdErr = a.Feed(ctx)
		case "orders":
			cmdErr = a.MyOrders(ctx)
		case "show":
			cmdErr = a.Show(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("error:", cmdErr)
		}
	}
}
