package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/quizit-app/quizit-tools/internal/cache"
)

// ErrNotGeography rejects map-reference runs on decks outside the geography
// subject.
var ErrNotGeography = errors.New("deck title must contain 地理")

// MapRef is one atlas image reference attached to a card.
type MapRef struct {
	MapFile  string `json:"map_file"`
	Name     string `json:"name"`
	Page     int    `json:"page"`
	Position string `json:"position"`
}

// mapRefSchema validates a single reference object from the model response.
var mapRefSchema = mustResolve(&jsonschema.Schema{
	Type:     "object",
	Required: []string{"map_file", "name", "page", "position"},
	Properties: map[string]*jsonschema.Schema{
		"map_file": {Type: "string"},
		"name":     {Type: "string"},
		"page":     {Type: "integer"},
		"position": {Type: "string"},
	},
})

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	resolved, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("resolving map ref schema: %v", err))
	}
	return resolved
}

// MapRefs picks atlas images for each card of a geography deck and uploads
// them as individual reference files. Text may be nil, in which case only
// locally cached responses are used.
type MapRefs struct {
	Cards  DeckCardSource
	Text   TextGenerator
	Store  ObjectStore
	Cache  *cache.Cache
	Bucket string
	Logger *slog.Logger
}

// Run processes every card of the geography deck with the given title.
func (p *MapRefs) Run(ctx context.Context, title string) (*Report, error) {
	if !strings.Contains(title, "地理") {
		return nil, fmt.Errorf("%w: %s", ErrNotGeography, title)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cards, err := p.Cards.CardsByDeckTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("loading deck %q: %w", title, err)
	}

	report := &Report{Title: title, Count: len(cards)}
	for _, card := range cards {
		if card.Front == "" {
			report.Skipped++
			continue
		}
		logger.Info("processing card", "front", card.Front, "card", card.ID)

		cacheKey := card.ID + ".map"
		raw, cached, err := p.Cache.Get(cacheKey)
		if err != nil {
			logger.Warn("cache read failed", "card", card.ID, "error", err)
		}

		if !cached {
			if p.Text == nil {
				logger.Warn("no generator configured and no cached refs, skipping", "card", card.ID)
				report.Skipped++
				continue
			}
			text, err := p.Text.GenerateText(ctx, MapRefPrompt(card.Front+":"+card.Back))
			if err != nil {
				logger.Warn("map ref generation failed", "card", card.ID, "error", err)
				report.Skipped++
				continue
			}
			if text == "" {
				report.Skipped++
				continue
			}
			raw = []byte(text)
			if err := p.Cache.Put(cacheKey, raw); err != nil {
				logger.Warn("caching refs failed", "card", card.ID, "error", err)
			}
		} else {
			logger.Info("found cached map refs", "card", card.ID)
		}

		uploaded, err := p.uploadRefs(ctx, card.ID, raw, logger)
		if err != nil {
			logger.Warn("upload failed", "card", card.ID, "error", err)
			report.Skipped++
			continue
		}
		if uploaded == 0 {
			logger.Warn("no valid map refs", "card", card.ID)
			report.Skipped++
			continue
		}
		report.Uploaded++
	}
	return report, nil
}

// uploadRefs validates a model response and uploads the references it
// contains. A JSON array yields one object per valid element; anything else
// is stored verbatim as a single reference file.
func (p *MapRefs) uploadRefs(ctx context.Context, cardID string, raw []byte, logger *slog.Logger) (int, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		parsed = nil
	}

	elements, ok := parsed.([]any)
	if !ok {
		path := cardID + "/back.map"
		if _, err := p.Store.UploadObject(ctx, p.Bucket, path, raw, "application/octet-stream"); err != nil {
			return 0, err
		}
		return 1, nil
	}

	uploaded := 0
	for idx, element := range elements {
		if err := mapRefSchema.Validate(element); err != nil {
			logger.Warn("invalid map ref, skipping", "card", cardID, "index", idx, "error", err)
			continue
		}
		content, err := json.MarshalIndent(element, "", "  ")
		if err != nil {
			logger.Warn("encoding map ref failed", "card", cardID, "index", idx, "error", err)
			continue
		}
		path := fmt.Sprintf("%s/back%d.map", cardID, idx)
		if _, err := p.Store.UploadObject(ctx, p.Bucket, path, content, "application/json"); err != nil {
			return uploaded, err
		}
		uploaded++
	}
	return uploaded, nil
}
