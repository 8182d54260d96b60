package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to
// operate. The real App type satisfies this interface; tests can provide
// a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	AddEvent(ctx context.Context) error
	SetStatus(ctx context.Context) error
	Cancel(ctx context.Context) error
	Attach(ctx context.Context) error
	History(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	Scan(ctx context.Context) error
	Orgs(ctx context.Context) error
	AddOrg(ctx context.Context) error
}

// runREPL starts a read-eval-print loop over the node's commands.
//
// It reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF, on ctx
// cancellation, or when the user types "exit" or "quit".
//
// Command handler errors are ignored here; handlers report their own
// errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("es> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: list, add, status, cancel, attach, history," +
					" export, import, scan, orgs, addorg, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "exit", "quit":
			return
		case "register":
			if !a.isLoggedIn() {
				_ = a.Register(ctx)
			}
		case "login":
			if !a.isLoggedIn() {
				_ = a.Login(ctx)
			}
		case "logout":
			if a.isLoggedIn() {
				_ = a.Logout(ctx)
			}
		case "list", "l":
			if a.isLoggedIn() {
				_ = a.List(ctx)
			}
		case "add":
			if a.isLoggedIn() {
				_ = a.AddEvent(ctx)
			}
		case "status":
			if a.isLoggedIn() {
				_ = a.SetStatus(ctx)
			}
		case "cancel":
			if a.isLoggedIn() {
				_ = a.Cancel(ctx)
			}
		case "attach":
			if a.isLoggedIn() {
				_ = a.Attach(ctx)
			}
		case "history":
			if a.isLoggedIn() {
				_ = a.History(ctx)
			}
		case "export":
			if a.isLoggedIn() {
				_ = a.Export(ctx)
			}
		case "import":
			if a.isLoggedIn() {
				_ = a.Import(ctx)
			}
		case "scan":
			if a.isLoggedIn() {
				_ = a.Scan(ctx)
			}
		case "orgs":
			if a.isLoggedIn() {
				_ = a.Orgs(ctx)
			}
		case "addorg":
			if a.isLoggedIn() {
				_ = a.AddOrg(ctx)
			}
		default:
			printlnFn(fmt.Sprintf("Unknown command: %s (try help)", cmd))
		}
	}
}
