package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/flashdeck/flashdeck/internal/common"
)

func (a *App) Upload(ctx context.Context, arg string) error {
	id, err := a.board.UploadPDF(ctx, arg)
	if err != nil {
		if errors.Is(err, common.ErrNotPDF) {
			fmt.Printf("Only PDF files can be uploaded: %s\n", filepath.Base(arg))
		} else {
			log.Printf("error: %v", err)
		}
		return err
	}

	fmt.Printf("Upload started: %s (%s). Run 'decks' to watch progress.\n", filepath.Base(arg), id)
	return nil
}

func (a *App) Dismiss(ctx context.Context, arg string) error {
	if err := a.board.DismissUpload(arg); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Upload entry removed")
	return nil
}
