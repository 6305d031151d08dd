package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizit-app/quizit-tools/internal/cache"
)

const (
	graphObjectName = "back.dot"
	dotContentType  = "text/dot"
)

// DeckGraphs generates one GraphViz DOT knowledge graph per deck card and
// uploads it next to the card. The graph keyword is the last non-empty line
// of the card front; cards without one are skipped. Text may be nil, in
// which case only locally cached graphs are uploaded.
type DeckGraphs struct {
	Cards  DeckCardSource
	Text   TextGenerator
	Store  ObjectStore
	Cache  *cache.Cache
	Bucket string
	Logger *slog.Logger
}

// Run processes every card of the deck with the given title.
func (p *DeckGraphs) Run(ctx context.Context, title string) (*Report, error) {
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
		keyword := lastLine(card.Front)
		if keyword == "" {
			report.Skipped++
			continue
		}
		logger.Info("processing knowledge point", "keyword", keyword, "card", card.ID)

		cacheKey := card.ID + ".dot"
		graph, cached, err := p.Cache.Get(cacheKey)
		if err != nil {
			logger.Warn("cache read failed", "card", card.ID, "error", err)
		}

		if !cached {
			if p.Text == nil {
				logger.Warn("no generator configured and no cached graph, skipping", "card", card.ID)
				report.Skipped++
				continue
			}
			text, err := p.Text.GenerateText(ctx, GraphPrompt(keyword+":"+card.Back))
			if err != nil {
				logger.Warn("graph generation failed", "keyword", keyword, "error", err)
				report.Skipped++
				continue
			}
			if text == "" {
				report.Skipped++
				continue
			}
			graph = []byte(text)
			if err := p.Cache.Put(cacheKey, graph); err != nil {
				logger.Warn("caching graph failed", "card", card.ID, "error", err)
			}
		} else {
			logger.Info("found cached graph", "card", card.ID)
		}

		path := card.ID + "/" + graphObjectName
		if _, err := p.Store.UploadObject(ctx, p.Bucket, path, graph, dotContentType); err != nil {
			logger.Warn("upload failed", "path", path, "error", err)
			report.Skipped++
			continue
		}
		logger.Info("graph saved", "card", card.ID)
		report.Uploaded++
	}
	return report, nil
}
