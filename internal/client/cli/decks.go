package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/flashdeck/flashdeck/internal/client/dashboard"
)

func (a *App) Decks(ctx context.Context) error {
	s := a.waitFor(func(s dashboard.Snapshot) bool { return !s.DecksLoading }, a.config.RequestTimeout)
	a.printBanner(s)

	for _, p := range s.PendingUploads {
		switch p.Status {
		case dashboard.StatusUploading:
			fmt.Printf("  ~ %s (generating...)\n", p.Name)
		case dashboard.StatusError:
			fmt.Printf("  ! %s (failed), remove with 'dismiss %s'\n", p.Name, p.ID)
		}
	}

	for _, d := range s.Decks {
		marker := " "
		if s.SelectedDeckID != nil && *s.SelectedDeckID == d.ID {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s (%d cards)\n", marker, d.ID, d.Name, d.CardCount)
	}

	if len(s.Decks) == 0 && len(s.PendingUploads) == 0 {
		fmt.Println("No decks yet. Upload a PDF to create your first deck.")
	}
	return nil
}

func (a *App) DeleteDeck(ctx context.Context, arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("Deck id must be a number")
		return err
	}

	confirmed, err := a.board.DeleteDeck(ctx, id)
	if !confirmed {
		fmt.Printf("Run 'deldeck %d' again within 3 seconds to confirm\n", id)
		return nil
	}
	if err != nil {
		fmt.Printf("Delete failed: %s\n", err.Error())
		return err
	}
	fmt.Printf("Deck %d deleted\n", id)
	return nil
}

func (a *App) Export(ctx context.Context, arg string) error {
	var path string
	var err error

	if arg == "" {
		path, err = a.board.ExportAll(ctx)
	} else {
		var id int
		id, err = strconv.Atoi(arg)
		if err != nil {
			fmt.Println("Deck id must be a number")
			return err
		}
		path, err = a.board.ExportDeck(ctx, id)
	}

	if err != nil {
		fmt.Printf("Export failed: %s\n", err.Error())
		return err
	}
	fmt.Printf("Saved to %s\n", path)
	return nil
}

// printBanner shows the dismissible page-level error, if any.
func (a *App) printBanner(s dashboard.Snapshot) {
	if s.LastError != "" {
		fmt.Printf("! %s (dismiss with 'clearerr')\n", s.LastError)
	}
}
