// Package models defines the wire models exchanged with the flashdeck
// backend. Field tags match the server's JSON payloads.
package models

// Deck is a named collection of flashcards. CardCount is server-derived and
// cached client-side; it may lag behind the card set until the next refresh.
type Deck struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
}
