package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/flashdeck/flashdeck/internal/client/dashboard"
)

func (a *App) Cards(ctx context.Context) error {
	s := a.waitFor(func(s dashboard.Snapshot) bool { return !s.CardsLoading }, a.config.RequestTimeout)
	a.printBanner(s)

	if len(s.Cards) == 0 {
		if s.SelectedDeckID != nil {
			fmt.Println("No cards in this deck")
		} else {
			fmt.Println("No cards yet. Upload a PDF to generate your first flashcards.")
		}
		return nil
	}

	for _, card := range s.Cards {
		fmt.Printf("[%d] (deck %d)\n  Q: %s\n  A: %s\n", card.ID, card.DeckID, card.Question, card.Answer)
	}
	return nil
}

func (a *App) Select(ctx context.Context, arg string) error {
	if strings.EqualFold(arg, "all") {
		a.board.SelectDeck(ctx, nil)
	} else {
		id, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Println("Deck id must be a number (or 'all')")
			return err
		}
		a.board.SelectDeck(ctx, &id)
	}

	return a.Cards(ctx)
}

func (a *App) Edit(ctx context.Context, arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("Card id must be a number")
		return err
	}

	card, err := a.board.Card(id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	question, err := GetSimpleText(a.reader, fmt.Sprintf("Question [%s] (empty keeps current)", card.Question), os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if question == "" {
		question = card.Question
	}

	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Answer [%s] (empty keeps current)", card.Answer), os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if answer == "" {
		answer = card.Answer
	}

	if err := a.board.UpdateCard(ctx, id, question, answer); err != nil {
		fmt.Printf("Update failed: %s\n", err.Error())
		return err
	}
	fmt.Printf("Card %d updated\n", id)
	return nil
}

func (a *App) DeleteCard(ctx context.Context, arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Println("Card id must be a number")
		return err
	}

	confirmed, err := a.board.DeleteCard(ctx, id)
	if !confirmed {
		fmt.Printf("Run 'delcard %d' again within 3 seconds to confirm\n", id)
		return nil
	}
	if err != nil {
		fmt.Printf("Delete failed: %s\n", err.Error())
		return err
	}
	fmt.Printf("Card %d deleted\n", id)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	a.board.Load(ctx)
	a.waitFor(func(s dashboard.Snapshot) bool { return !s.CardsLoading && !s.DecksLoading }, a.config.RequestTimeout)
	return nil
}

func (a *App) ClearError() {
	a.board.DismissError()
}
