package supabase

import "fmt"

// Card is a single question/answer content unit.
type Card struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ItemRef points at a card from a deck or quiz template, with its position
// in the collection.
type ItemRef struct {
	CardID   string `json:"card_id"`
	Position int    `json:"position"`
}

// ItemList is the JSON envelope the backend stores collection members in.
type ItemList struct {
	Items []ItemRef `json:"items"`
}

// Deck is an ordered collection of flashcards identified by title.
type Deck struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Items ItemList `json:"items"`
}

// Quiz is an ordered collection of quiz cards identified by title.
type Quiz struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Items       ItemList `json:"items"`
}

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
	Code       string `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.StatusCode)
}
