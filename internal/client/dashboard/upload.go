package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flashdeck/flashdeck/internal/client/models"
	"github.com/flashdeck/flashdeck/internal/common"
	"github.com/google/uuid"
)

// PendingStatus is the lifecycle state of an in-flight upload. The only
// transitions are uploading→removed (success), uploading→error, and
// error→removed (dismiss).
type PendingStatus string

const (
	StatusUploading PendingStatus = "uploading"
	StatusError     PendingStatus = "error"
)

// PendingUpload tracks one PDF submitted for card generation. It exists only
// in controller state and is never persisted. IDs are client-generated UUIDs,
// so they can never collide with the server's integer ids.
type PendingUpload struct {
	ID     string
	Name   string
	Status PendingStatus
}

// UploadPDF validates and submits the file at path for card generation.
// A file without a .pdf extension is rejected locally with common.ErrNotPDF
// and no request is made. Otherwise a PendingUpload becomes visible
// immediately and the upload proceeds in the background; the returned id
// identifies it. Multiple uploads may run concurrently, each tracked
// independently.
func (c *Controller) UploadPDF(ctx context.Context, path string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", fmt.Errorf("%w: %s", common.ErrNotPDF, filepath.Base(path))
	}

	p := PendingUpload{
		ID:     uuid.NewString(),
		Name:   filepath.Base(path),
		Status: StatusUploading,
	}

	c.mu.Lock()
	c.pending = append(c.pending, p)
	c.mu.Unlock()
	c.notify()

	go c.runUpload(ctx, p.ID, path)
	return p.ID, nil
}

func (c *Controller) runUpload(ctx context.Context, id, path string) {
	cards, err := c.api.UploadPDF(ctx, path)
	if err != nil {
		c.log.Error(ctx, "upload failed", "file", filepath.Base(path), "error", err)
		c.mu.Lock()
		for i := range c.pending {
			if c.pending[i].ID == id {
				c.pending[i].Status = StatusError
				break
			}
		}
		c.mu.Unlock()
		c.notify()
		return
	}

	c.mu.Lock()
	c.removePendingLocked(id)
	c.cards = append(append([]models.Card(nil), cards...), c.cards...)
	c.mu.Unlock()
	c.notify()

	// Counts changed and the upload may have created a new deck.
	c.RefreshDecks(ctx)
}

// DismissUpload removes a failed upload entry from view. Entries still
// uploading cannot be dismissed.
func (c *Controller) DismissUpload(id string) error {
	c.mu.Lock()
	var found *PendingUpload
	for i := range c.pending {
		if c.pending[i].ID == id {
			found = &c.pending[i]
			break
		}
	}
	if found == nil {
		c.mu.Unlock()
		return common.ErrUploadNotFound
	}
	if found.Status != StatusError {
		c.mu.Unlock()
		return fmt.Errorf("upload %s is still running", id)
	}
	c.removePendingLocked(id)
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) removePendingLocked(id string) {
	for i, p := range c.pending {
		if p.ID == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}
