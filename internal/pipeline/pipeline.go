// Package pipeline runs the batch jobs that enrich flashcard decks and quiz
// templates with generated artifacts: knowledge graphs, atlas map references
// and question images. Each processor walks the cards of one collection,
// reuses locally cached artifacts, generates the missing ones and uploads
// results to object storage. A single failing card logs a warning and never
// aborts the batch.
package pipeline

import (
	"context"

	"github.com/quizit-app/quizit-tools/internal/supabase"
)

// TextGenerator produces model text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator renders an image for a description within a school subject.
type ImageGenerator interface {
	Generate(ctx context.Context, description, subject string) ([]byte, string, error)
}

// ObjectStore uploads artifacts. *supabase.Client satisfies it.
type ObjectStore interface {
	UploadObject(ctx context.Context, bucket, path string, content []byte, contentType string) (string, error)
}

// DeckCardSource resolves a deck title to its ordered cards.
type DeckCardSource interface {
	CardsByDeckTitle(ctx context.Context, title string) ([]supabase.Card, error)
}

// QuizCardSource resolves a quiz template title to its ordered cards.
type QuizCardSource interface {
	CardsByQuizTitle(ctx context.Context, title string) ([]supabase.Card, error)
}

// Report summarizes one batch run.
type Report struct {
	Title    string `json:"title"`
	Count    int    `json:"count"`
	Uploaded int    `json:"uploaded"`
	Skipped  int    `json:"skipped"`
}
