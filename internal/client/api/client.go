package api

import (
	"context"

	"github.com/flashdeck/flashdeck/internal/client/models"
)

// Client is the remote operation surface of the flashdeck backend. Each
// method maps to exactly one HTTP call; there are no retries and no caching.
// Failures surface the server's error payload unchanged via *RequestError.
type Client interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)

	ListDecks(ctx context.Context) ([]models.Deck, error)
	DeleteDeck(ctx context.Context, id int) error
	ExportDeck(ctx context.Context, id int) ([]byte, error)

	ListCards(ctx context.Context, deckID *int) ([]models.Card, error)
	UpdateCard(ctx context.Context, id int, question, answer string) (*models.Card, error)
	DeleteCard(ctx context.Context, id int) error
	UploadPDF(ctx context.Context, path string) ([]models.Card, error)
	ExportAllCards(ctx context.Context) ([]byte, error)
}

// TokenSource supplies the bearer token for outgoing requests and accepts
// the expiry signal when the server rejects it. *session.Store satisfies it.
type TokenSource interface {
	Token() string
	Expire()
}
