package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flashdeck/flashdeck/internal/client/models"
	"github.com/flashdeck/flashdeck/internal/common"
	"github.com/flashdeck/flashdeck/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fake API ----

// fakeAPI implements api.Client with overridable behavior per method and
// call counters for the fetch-counting properties.
type fakeAPI struct {
	listCardsFn  func(ctx context.Context, deckID *int) ([]models.Card, error)
	listDecksFn  func(ctx context.Context) ([]models.Deck, error)
	uploadFn     func(ctx context.Context, path string) ([]models.Card, error)
	deleteDeckFn func(ctx context.Context, id int) error
	deleteCardFn func(ctx context.Context, id int) error
	updateCardFn func(ctx context.Context, id int, question, answer string) (*models.Card, error)
	exportDeckFn func(ctx context.Context, id int) ([]byte, error)
	exportAllFn  func(ctx context.Context) ([]byte, error)

	listCardsCalls atomic.Int32
	listDecksCalls atomic.Int32
	uploadCalls    atomic.Int32
	deleteDeckIDs  []int
	deleteCardIDs  []int
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) error { return nil }
func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	return "", nil
}

func (f *fakeAPI) ListDecks(ctx context.Context) ([]models.Deck, error) {
	f.listDecksCalls.Add(1)
	if f.listDecksFn != nil {
		return f.listDecksFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) DeleteDeck(ctx context.Context, id int) error {
	f.deleteDeckIDs = append(f.deleteDeckIDs, id)
	if f.deleteDeckFn != nil {
		return f.deleteDeckFn(ctx, id)
	}
	return nil
}

func (f *fakeAPI) ExportDeck(ctx context.Context, id int) ([]byte, error) {
	if f.exportDeckFn != nil {
		return f.exportDeckFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeAPI) ListCards(ctx context.Context, deckID *int) ([]models.Card, error) {
	f.listCardsCalls.Add(1)
	if f.listCardsFn != nil {
		return f.listCardsFn(ctx, deckID)
	}
	return nil, nil
}

func (f *fakeAPI) UpdateCard(ctx context.Context, id int, question, answer string) (*models.Card, error) {
	if f.updateCardFn != nil {
		return f.updateCardFn(ctx, id, question, answer)
	}
	return &models.Card{ID: id, Question: question, Answer: answer}, nil
}

func (f *fakeAPI) DeleteCard(ctx context.Context, id int) error {
	f.deleteCardIDs = append(f.deleteCardIDs, id)
	if f.deleteCardFn != nil {
		return f.deleteCardFn(ctx, id)
	}
	return nil
}

func (f *fakeAPI) UploadPDF(ctx context.Context, path string) ([]models.Card, error) {
	f.uploadCalls.Add(1)
	if f.uploadFn != nil {
		return f.uploadFn(ctx, path)
	}
	return nil, nil
}

func (f *fakeAPI) ExportAllCards(ctx context.Context) ([]byte, error) {
	if f.exportAllFn != nil {
		return f.exportAllFn(ctx)
	}
	return nil, nil
}

// ---- helpers ----

func newTestController(t *testing.T) (*Controller, *fakeAPI, chan struct{}) {
	t.Helper()
	f := &fakeAPI{}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c := NewController(f, t.TempDir(), log)

	changed := make(chan struct{}, 1)
	c.SetOnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	return c, f, changed
}

// waitState blocks until cond holds for a snapshot, failing the test after a
// bounded wait.
func waitState(t *testing.T, c *Controller, changed chan struct{}, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		s := c.Snapshot()
		if cond(s) {
			return s
		}
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("state condition not reached, last snapshot: %+v", s)
		}
	}
}

// ---- deck selection ----

func TestSelectDeck_LastSelectedWins(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	releaseStale := make(chan struct{})
	releaseFresh := make(chan struct{})

	f.listCardsFn = func(ctx context.Context, deckID *int) ([]models.Card, error) {
		if deckID != nil && *deckID == 1 {
			<-releaseStale
			return []models.Card{{ID: 101, DeckID: 1}}, nil
		}
		<-releaseFresh
		return []models.Card{{ID: 202, DeckID: 2}}, nil
	}

	deck1, deck2 := 1, 2
	c.SelectDeck(ctx, &deck1)
	c.SelectDeck(ctx, &deck2)

	// The fetch for the current selection answers first.
	close(releaseFresh)
	s := waitState(t, c, changed, func(s Snapshot) bool { return !s.CardsLoading && len(s.Cards) == 1 })
	require.Equal(t, 202, s.Cards[0].ID)

	// The stale fetch answers afterwards and must be discarded.
	close(releaseStale)
	time.Sleep(50 * time.Millisecond)

	s = c.Snapshot()
	require.Len(t, s.Cards, 1)
	require.Equal(t, 202, s.Cards[0].ID)
	require.NotNil(t, s.SelectedDeckID)
	require.Equal(t, 2, *s.SelectedDeckID)
	require.False(t, s.CardsLoading)
}

func TestSelectDeck_NilMeansAllCards(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	var gotFilter atomic.Value
	f.listCardsFn = func(ctx context.Context, deckID *int) ([]models.Card, error) {
		gotFilter.Store(deckID == nil)
		return []models.Card{{ID: 1}}, nil
	}

	c.SelectDeck(ctx, nil)
	s := waitState(t, c, changed, func(s Snapshot) bool { return !s.CardsLoading && len(s.Cards) == 1 })

	require.Nil(t, s.SelectedDeckID)
	require.Equal(t, true, gotFilter.Load())
}

// ---- deck deletion ----

func TestDeleteDeck_TwoStepConfirm(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	deck3 := 3
	c.decks = []models.Deck{{ID: 3, Name: "Biology"}, {ID: 4, Name: "Chemistry"}}
	c.selectedDeckID = &deck3

	// First call arms only: nothing is deleted, no request goes out.
	confirmed, err := c.DeleteDeck(ctx, 3)
	require.NoError(t, err)
	require.False(t, confirmed)
	require.Len(t, c.Snapshot().Decks, 2)
	require.Empty(t, f.deleteDeckIDs)

	// Second call inside the window executes the delete.
	now = now.Add(time.Second)
	confirmed, err = c.DeleteDeck(ctx, 3)
	require.NoError(t, err)
	require.True(t, confirmed)
	require.Equal(t, []int{3}, f.deleteDeckIDs)

	s := waitState(t, c, changed, func(s Snapshot) bool {
		return !s.CardsLoading && len(s.Decks) == 1 && f.listCardsCalls.Load() == 1
	})
	require.Equal(t, 4, s.Decks[0].ID)
	// deleting the selected deck clears the filter
	require.Nil(t, s.SelectedDeckID)
}

func TestDeleteDeck_ConfirmExpires(t *testing.T) {
	c, f, _ := newTestController(t)
	ctx := context.Background()

	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.decks = []models.Deck{{ID: 3, Name: "Biology"}}

	confirmed, err := c.DeleteDeck(ctx, 3)
	require.NoError(t, err)
	require.False(t, confirmed)

	// No second click inside the window: the affordance reverts to unarmed,
	// so the next call arms again instead of deleting.
	now = now.Add(4 * time.Second)
	confirmed, err = c.DeleteDeck(ctx, 3)
	require.NoError(t, err)
	require.False(t, confirmed)

	require.Empty(t, f.deleteDeckIDs)
	require.Len(t, c.Snapshot().Decks, 1)
}

func TestDeleteDeck_ArmingIsPerTarget(t *testing.T) {
	c, f, _ := newTestController(t)
	ctx := context.Background()

	c.now = func() time.Time { return time.Unix(1000, 0) }
	c.decks = []models.Deck{{ID: 3}, {ID: 4}}

	confirmed, _ := c.DeleteDeck(ctx, 3)
	require.False(t, confirmed)

	// A click on a different deck re-arms to that deck instead of confirming.
	confirmed, _ = c.DeleteDeck(ctx, 4)
	require.False(t, confirmed)
	require.Empty(t, f.deleteDeckIDs)

	confirmed, _ = c.DeleteDeck(ctx, 4)
	require.True(t, confirmed)
	require.Equal(t, []int{4}, f.deleteDeckIDs)
}

func TestDeleteDeck_ServerFailureNoRollback(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	c.now = func() time.Time { return time.Unix(1000, 0) }
	c.decks = []models.Deck{{ID: 3, Name: "Biology"}}
	f.deleteDeckFn = func(ctx context.Context, id int) error {
		return errors.New("boom")
	}

	_, _ = c.DeleteDeck(ctx, 3)
	_, err := c.DeleteDeck(ctx, 3)
	require.Error(t, err)

	s := waitState(t, c, changed, func(s Snapshot) bool { return s.LastError != "" })
	// the optimistic removal is not rolled back; the next refresh recovers
	require.Empty(t, s.Decks)
	require.Contains(t, s.LastError, "failed to delete deck")
	// the card re-fetch only follows a successful delete
	require.Equal(t, int32(0), f.listCardsCalls.Load())
}

// ---- card edit / delete ----

func TestUpdateCard_ReplacesInPlace(t *testing.T) {
	c, f, _ := newTestController(t)
	ctx := context.Background()

	c.cards = []models.Card{{ID: 1, Question: "old", DeckID: 2}, {ID: 2, Question: "other"}}
	f.updateCardFn = func(ctx context.Context, id int, question, answer string) (*models.Card, error) {
		return &models.Card{ID: id, Question: question, Answer: answer, DeckID: 2}, nil
	}

	require.NoError(t, c.UpdateCard(ctx, 1, "new q", "new a"))

	s := c.Snapshot()
	require.Equal(t, []models.Card{
		{ID: 1, Question: "new q", Answer: "new a", DeckID: 2},
		{ID: 2, Question: "other"},
	}, s.Cards)
}

func TestUpdateCard_FailureLeavesStateUnchanged(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	c.cards = []models.Card{{ID: 1, Question: "old"}}
	f.updateCardFn = func(ctx context.Context, id int, question, answer string) (*models.Card, error) {
		return nil, errors.New("boom")
	}

	require.Error(t, c.UpdateCard(ctx, 1, "new q", "new a"))

	s := waitState(t, c, changed, func(s Snapshot) bool { return s.LastError != "" })
	require.Equal(t, "old", s.Cards[0].Question)
	require.Contains(t, s.LastError, "failed to update card")
}

func TestDeleteCard_RemovesAndRefreshesDecks(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	c.now = func() time.Time { return time.Unix(1000, 0) }
	c.cards = []models.Card{{ID: 1, DeckID: 3}, {ID: 2, DeckID: 3}}
	c.decks = []models.Deck{{ID: 3, Name: "Biology", CardCount: 2}}
	f.listDecksFn = func(ctx context.Context) ([]models.Deck, error) {
		return []models.Deck{{ID: 3, Name: "Biology", CardCount: 1}}, nil
	}

	confirmed, err := c.DeleteCard(ctx, 1)
	require.NoError(t, err)
	require.False(t, confirmed)
	require.Empty(t, f.deleteCardIDs)

	confirmed, err = c.DeleteCard(ctx, 1)
	require.NoError(t, err)
	require.True(t, confirmed)

	s := waitState(t, c, changed, func(s Snapshot) bool {
		return !s.DecksLoading && len(s.Decks) == 1 && s.Decks[0].CardCount == 1
	})
	require.Equal(t, []models.Card{{ID: 2, DeckID: 3}}, s.Cards)
	require.Equal(t, []int{1}, f.deleteCardIDs)
	require.Equal(t, int32(1), f.listDecksCalls.Load())
}

// ---- errors ----

func TestDismissError(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	f.listDecksFn = func(ctx context.Context) ([]models.Deck, error) {
		return nil, errors.New("boom")
	}
	c.RefreshDecks(ctx)

	s := waitState(t, c, changed, func(s Snapshot) bool { return s.LastError != "" })
	require.Contains(t, s.LastError, "failed to load decks")

	c.DismissError()
	require.Empty(t, c.Snapshot().LastError)
}

func TestUnauthorizedIsNotBannered(t *testing.T) {
	c, f, changed := newTestController(t)
	ctx := context.Background()

	f.listDecksFn = func(ctx context.Context) ([]models.Deck, error) {
		return nil, common.ErrUnauthorized
	}
	c.RefreshDecks(ctx)

	waitState(t, c, changed, func(s Snapshot) bool { return !s.DecksLoading })
	// session expiry is handled by the global hook, never by the banner
	require.Empty(t, c.Snapshot().LastError)
}

func TestReset(t *testing.T) {
	c, _, _ := newTestController(t)

	c.cards = []models.Card{{ID: 1}}
	c.decks = []models.Deck{{ID: 3}}
	c.pending = []PendingUpload{{ID: "u1", Status: StatusError}}
	c.lastError = "old"

	c.Reset()

	s := c.Snapshot()
	require.Empty(t, s.Cards)
	require.Empty(t, s.Decks)
	require.Empty(t, s.PendingUploads)
	require.Empty(t, s.LastError)
	require.Nil(t, s.SelectedDeckID)
}
