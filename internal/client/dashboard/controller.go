// Package dashboard owns the client-side view state: the card list, the deck
// list, in-flight uploads, and the selected-deck filter. It reconciles server
// responses into that state as the user issues overlapping asynchronous
// actions; the presentation layer only reads snapshots and forwards intents.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flashdeck/flashdeck/internal/client/api"
	"github.com/flashdeck/flashdeck/internal/client/models"
	"github.com/flashdeck/flashdeck/internal/common"
	"github.com/flashdeck/flashdeck/internal/logging"
)

// Controller maintains an eventually-correct view of decks, cards and pending
// uploads without server-side coordination. All state mutation happens under
// one mutex; reads go through Snapshot.
type Controller struct {
	mu  sync.Mutex
	api api.Client
	log logging.Logger

	// now is the clock used by the delete-confirmation window. Tests replace
	// it to avoid real waits.
	now func() time.Time

	exportDir string

	cards   []models.Card
	decks   []models.Deck
	pending []PendingUpload

	selectedDeckID *int
	cardsLoading   bool
	decksLoading   bool
	lastError      string

	// cardsFetchSeq orders card fetches: only the completion matching the
	// latest started fetch may touch the card list (last-selected-wins).
	cardsFetchSeq uint64

	confirm confirmState

	onChange func()
}

// Snapshot is an immutable copy of the controller state for rendering.
type Snapshot struct {
	Cards          []models.Card
	Decks          []models.Deck
	PendingUploads []PendingUpload
	SelectedDeckID *int
	CardsLoading   bool
	DecksLoading   bool
	LastError      string
}

// NewController builds a controller over the given API client. Exported
// files are written into exportDir.
func NewController(client api.Client, exportDir string, log logging.Logger) *Controller {
	return &Controller{api: client, exportDir: exportDir, log: log, now: time.Now}
}

// SetOnChange installs a callback invoked after every state change. The
// presentation layer uses it to re-render or to wait for async completions.
func (c *Controller) SetOnChange(f func()) {
	c.mu.Lock()
	c.onChange = f
	c.mu.Unlock()
}

func (c *Controller) notify() {
	c.mu.Lock()
	f := c.onChange
	c.mu.Unlock()
	if f != nil {
		f()
	}
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Cards:          append([]models.Card(nil), c.cards...),
		Decks:          append([]models.Deck(nil), c.decks...),
		PendingUploads: append([]PendingUpload(nil), c.pending...),
		CardsLoading:   c.cardsLoading,
		DecksLoading:   c.decksLoading,
		LastError:      c.lastError,
	}
	if c.selectedDeckID != nil {
		v := *c.selectedDeckID
		s.SelectedDeckID = &v
	}
	return s
}

// Load populates the dashboard after login: decks synchronously, cards in
// the background.
func (c *Controller) Load(ctx context.Context) {
	c.RefreshDecks(ctx)
	c.RefreshCards(ctx)
}

// Reset drops all view state, e.g. after logout or session expiry.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cards = nil
	c.decks = nil
	c.pending = nil
	c.selectedDeckID = nil
	c.cardsLoading = false
	c.decksLoading = false
	c.lastError = ""
	c.cardsFetchSeq++
	c.confirm = confirmState{}
	c.mu.Unlock()
	c.notify()
}

// SelectDeck sets the deck filter (nil means all cards) and starts an
// asynchronous re-fetch of the scoped card list. When selections change
// rapidly, responses for superseded selections are discarded, so the
// displayed list always corresponds to the most recent selection rather
// than the most recent arrival.
func (c *Controller) SelectDeck(ctx context.Context, deckID *int) {
	c.mu.Lock()
	if deckID != nil {
		v := *deckID
		c.selectedDeckID = &v
	} else {
		c.selectedDeckID = nil
	}
	seq, target := c.beginCardsFetchLocked()
	c.mu.Unlock()
	c.notify()

	go c.fetchCards(ctx, seq, target)
}

// RefreshCards re-fetches the card list under the current filter. It is the
// recovery mechanism for any local staleness.
func (c *Controller) RefreshCards(ctx context.Context) {
	c.mu.Lock()
	seq, target := c.beginCardsFetchLocked()
	c.mu.Unlock()
	c.notify()

	go c.fetchCards(ctx, seq, target)
}

// beginCardsFetchLocked bumps the fetch generation and marks the list as
// loading. Callers hold the lock.
func (c *Controller) beginCardsFetchLocked() (uint64, *int) {
	c.cardsLoading = true
	c.cardsFetchSeq++

	var target *int
	if c.selectedDeckID != nil {
		v := *c.selectedDeckID
		target = &v
	}
	return c.cardsFetchSeq, target
}

func (c *Controller) fetchCards(ctx context.Context, seq uint64, deckID *int) {
	cards, err := c.api.ListCards(ctx, deckID)

	c.mu.Lock()
	if seq != c.cardsFetchSeq {
		c.mu.Unlock()
		c.log.Debug(ctx, "discarding stale card fetch", "seq", seq)
		return
	}
	c.cardsLoading = false
	if err == nil {
		c.cards = cards
	}
	c.mu.Unlock()

	if err != nil {
		c.reportError(ctx, "failed to load cards", err)
		return
	}
	c.notify()
}

// RefreshDecks re-fetches the deck list, synchronously. Deck counts are
// server-derived, so this is how the client picks up count changes after
// card mutations and uploads.
func (c *Controller) RefreshDecks(ctx context.Context) {
	c.mu.Lock()
	c.decksLoading = true
	c.mu.Unlock()
	c.notify()

	decks, err := c.api.ListDecks(ctx)

	c.mu.Lock()
	c.decksLoading = false
	if err == nil {
		c.decks = decks
	}
	c.mu.Unlock()

	if err != nil {
		c.reportError(ctx, "failed to load decks", err)
		return
	}
	c.notify()
}

// DeleteDeck arms or executes the two-step deck deletion. The first call
// arms the target; a second call within the confirmation window dispatches
// the delete and returns true. The removal is optimistic: the deck leaves
// local state before the server answers, and a server failure is surfaced
// without rolling back (the next refresh resolves any staleness).
func (c *Controller) DeleteDeck(ctx context.Context, id int) (bool, error) {
	c.mu.Lock()
	if !c.confirm.armed(targetDeck, id, c.now()) {
		c.armLocked(targetDeck, id)
		c.mu.Unlock()
		c.notify()
		return false, nil
	}
	c.confirm = confirmState{}

	idx := -1
	for i, d := range c.decks {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return true, common.ErrDeckNotFound
	}
	c.decks = append(c.decks[:idx], c.decks[idx+1:]...)
	if c.selectedDeckID != nil && *c.selectedDeckID == id {
		c.selectedDeckID = nil
	}
	c.mu.Unlock()
	c.notify()

	if err := c.api.DeleteDeck(ctx, id); err != nil {
		c.reportError(ctx, "failed to delete deck", err)
		return true, err
	}

	c.RefreshCards(ctx)
	return true, nil
}

// UpdateCard sends new question/answer text for a card and replaces the
// matching card in place on success. On failure local state is unchanged.
func (c *Controller) UpdateCard(ctx context.Context, id int, question, answer string) error {
	updated, err := c.api.UpdateCard(ctx, id, question, answer)
	if err != nil {
		c.reportError(ctx, "failed to update card", err)
		return err
	}

	c.mu.Lock()
	for i, card := range c.cards {
		if card.ID == id {
			c.cards[i] = *updated
			break
		}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// DeleteCard arms or executes the two-step card deletion. On success the
// card is removed locally and the deck list is re-fetched so card counts
// stay current.
func (c *Controller) DeleteCard(ctx context.Context, id int) (bool, error) {
	c.mu.Lock()
	if !c.confirm.armed(targetCard, id, c.now()) {
		c.armLocked(targetCard, id)
		c.mu.Unlock()
		c.notify()
		return false, nil
	}
	c.confirm = confirmState{}
	c.mu.Unlock()

	if err := c.api.DeleteCard(ctx, id); err != nil {
		c.reportError(ctx, "failed to delete card", err)
		return true, err
	}

	c.mu.Lock()
	for i, card := range c.cards {
		if card.ID == id {
			c.cards = append(c.cards[:i], c.cards[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.notify()

	c.RefreshDecks(ctx)
	return true, nil
}

// Card looks up a card in the current view state by id.
func (c *Controller) Card(id int) (models.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, card := range c.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return models.Card{}, common.ErrCardNotFound
}

// DismissError clears the page-level error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
	c.notify()
}

// reportError records an operation-scoped error message. Authentication
// expiry is excluded: it is handled globally by the session expiry hook, not
// by the banner.
func (c *Controller) reportError(ctx context.Context, op string, err error) {
	if errors.Is(err, common.ErrUnauthorized) {
		return
	}
	c.log.Error(ctx, op, "error", err)
	c.mu.Lock()
	c.lastError = op + ": " + err.Error()
	c.mu.Unlock()
	c.notify()
}
