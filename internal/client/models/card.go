package models

// Card is a question/answer flashcard belonging to exactly one deck.
type Card struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	DeckID   int    `json:"deck_id"`
}
