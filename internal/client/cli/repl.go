package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Trash(ctx context.Context) error
	Restore(ctx context.Context) error
	Purge(ctx context.Context) error
	EditSettings(ctx context.Context) error
	ConnectFolder(ctx context.Context) error
	ConnectAPI(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SaveFolder(ctx context.Context) error
	LoadFolder(ctx context.Context) error
	Push(ctx context.Context) error
	Pull(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	Asset(ctx context.Context) error
	Resolve(ctx context.Context) error
	View(ctx context.Context) error
	Stats(ctx context.Context) error
	Volume(ctx context.Context) error
	Theme(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the kiosk admin console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kioskd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Catalogue: (l)ist, add, edit, trash, restore, purge, settings, asset, resolve, view, stats, volume, theme")
				printlnFn("Storage:   connect-folder, connect-api, disconnect, save, load, push, pull, export, import")
				printlnFn("Session:   logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "trash":
			_ = a.Trash(ctx)

		case "restore":
			_ = a.Restore(ctx)

		case "purge":
			_ = a.Purge(ctx)

		case "settings":
			_ = a.EditSettings(ctx)

		case "connect-folder":
			_ = a.ConnectFolder(ctx)

		case "connect-api":
			_ = a.ConnectAPI(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "save":
			_ = a.SaveFolder(ctx)

		case "load":
			_ = a.LoadFolder(ctx)

		case "push":
			_ = a.Push(ctx)

		case "pull":
			_ = a.Pull(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "asset":
			_ = a.Asset(ctx)

		case "resolve":
			_ = a.Resolve(ctx)

		case "view":
			_ = a.View(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "volume":
			_ = a.Volume(ctx)

		case "theme":
			_ = a.Theme(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
