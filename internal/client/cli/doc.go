// Package cli is the terminal presentation layer of flashdeck: a REPL that
// renders dashboard snapshots and forwards user intents to the controller.
// It contains no business logic of its own.
package cli
