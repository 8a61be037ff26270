package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

// getStatus renders the prompt status: the active scope (deck name or all
// cards) and the number of cards in view.
func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "(guest)"
	}

	s := a.board.Snapshot()
	scope := "all cards"
	if s.SelectedDeckID != nil {
		scope = fmt.Sprintf("deck %d", *s.SelectedDeckID)
		for _, d := range s.Decks {
			if d.ID == *s.SelectedDeckID {
				scope = d.Name
				break
			}
		}
	}
	status := fmt.Sprintf("(%s, %d cards", scope, len(s.Cards))
	if s.LastError != "" {
		status += ", error"
	}
	return status + ")"
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to flashdeck CLI (type 'help' for commands)")

	// A persisted token resumes the previous session straight into the
	// dashboard.
	if a.isLoggedIn() {
		a.board.Load(ctx)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
