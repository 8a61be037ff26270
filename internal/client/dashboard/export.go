package dashboard

import (
	"context"
	"os"
	"path/filepath"
)

// writeFile is a test seam for saving export payloads.
var writeFile = os.WriteFile

// ExportDeck fetches one deck's cards as text and saves them to
// "{deck name}_cards.txt" in the export directory ("deck" when the name is
// unknown locally). The saved path is returned. Exporting never mutates
// view state.
func (c *Controller) ExportDeck(ctx context.Context, id int) (string, error) {
	data, err := c.api.ExportDeck(ctx, id)
	if err != nil {
		c.reportError(ctx, "failed to export deck", err)
		return "", err
	}

	name := "deck"
	c.mu.Lock()
	for _, d := range c.decks {
		if d.ID == id && d.Name != "" {
			name = d.Name
			break
		}
	}
	c.mu.Unlock()

	path := filepath.Join(c.exportDir, name+"_cards.txt")
	if err := writeFile(path, data, 0o644); err != nil {
		c.reportError(ctx, "failed to save export", err)
		return "", err
	}
	return path, nil
}

// ExportAll fetches every card as text and saves them to "anki_cards.txt"
// in the export directory, returning the saved path.
func (c *Controller) ExportAll(ctx context.Context) (string, error) {
	data, err := c.api.ExportAllCards(ctx)
	if err != nil {
		c.reportError(ctx, "failed to export cards", err)
		return "", err
	}

	path := filepath.Join(c.exportDir, "anki_cards.txt")
	if err := writeFile(path, data, 0o644); err != nil {
		c.reportError(ctx, "failed to save export", err)
		return "", err
	}
	return path, nil
}
