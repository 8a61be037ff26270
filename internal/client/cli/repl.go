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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Decks(ctx context.Context) error
	Cards(ctx context.Context) error
	Select(ctx context.Context, arg string) error
	Upload(ctx context.Context, arg string) error
	Edit(ctx context.Context, arg string) error
	DeleteCard(ctx context.Context, arg string) error
	DeleteDeck(ctx context.Context, arg string) error
	Dismiss(ctx context.Context, arg string) error
	Export(ctx context.Context, arg string) error
	Refresh(ctx context.Context) error
	ClearError()
}

// runREPL starts a simple read-eval-print loop for the flashdeck CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - login            authenticate
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - decks            list decks and in-flight uploads
//	  - cards | l        list cards under the current filter
//	  - select <id|all>  filter cards by deck
//	  - upload <file>    submit a PDF for card generation
//	  - edit <card-id>   edit a card's question/answer
//	  - delcard <id>     delete a card (run twice to confirm)
//	  - deldeck <id>     delete a deck (run twice to confirm)
//	  - dismiss <id>     remove a failed upload entry
//	  - export [deck-id] save cards to a text file
//	  - refresh          re-fetch decks and cards
//	  - clearerr         dismiss the error banner
//	  - logout           log out
//	  - exit | quit      leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fd> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: decks, cards (l), select <id|all>, upload <file>, edit <id>, delcard <id>, deldeck <id>, dismiss <id>, export [deck-id], refresh, clearerr, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "decks":
			_ = a.Decks(ctx)

		case "l", "cards", "list":
			_ = a.Cards(ctx)

		case "select":
			if arg == "" {
				printlnFn("Usage: select <deck-id|all>")
				continue
			}
			_ = a.Select(ctx, arg)

		case "upload":
			if arg == "" {
				printlnFn("Usage: upload <file.pdf>")
				continue
			}
			_ = a.Upload(ctx, arg)

		case "edit":
			if arg == "" {
				printlnFn("Usage: edit <card-id>")
				continue
			}
			_ = a.Edit(ctx, arg)

		case "delcard":
			if arg == "" {
				printlnFn("Usage: delcard <card-id>")
				continue
			}
			_ = a.DeleteCard(ctx, arg)

		case "deldeck":
			if arg == "" {
				printlnFn("Usage: deldeck <deck-id>")
				continue
			}
			_ = a.DeleteDeck(ctx, arg)

		case "dismiss":
			if arg == "" {
				printlnFn("Usage: dismiss <upload-id>")
				continue
			}
			_ = a.Dismiss(ctx, arg)

		case "export":
			_ = a.Export(ctx, arg)

		case "refresh":
			_ = a.Refresh(ctx)

		case "clearerr":
			a.ClearError()

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
