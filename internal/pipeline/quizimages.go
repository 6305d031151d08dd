package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizit-app/quizit-tools/internal/cache"
	"github.com/quizit-app/quizit-tools/internal/imaging"
)

// QuizImages finds the image placeholders in a quiz template's question
// fronts and uploads a generated picture for each one. Without Generate set
// (the dry default) only previously cached images are uploaded; placeholders
// with no cache entry are reported and left alone.
type QuizImages struct {
	Cards    QuizCardSource
	Generate ImageGenerator
	Store    ObjectStore
	Cache    *cache.Cache
	Bucket   string
	Subject  string
	Logger   *slog.Logger
}

// Run processes every card of the quiz template with the given title.
func (p *QuizImages) Run(ctx context.Context, title string) (*Report, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cards, err := p.Cards.CardsByQuizTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("loading quiz template %q: %w", title, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("quiz template not found or empty: %s", title)
	}

	report := &Report{Title: title, Count: len(cards)}
	for _, card := range cards {
		prompt, refs := ExtractFront(card.Front)
		if len(refs) == 0 {
			continue
		}
		logger.Info("card has image placeholders", "card", card.ID, "count", len(refs))

		for idx, ref := range refs {
			description := ref.Alt
			if description == "" {
				description = prompt
			}
			if description == "" {
				description = "image"
			}

			filename := fmt.Sprintf("front%d.jpg", idx+1)
			cacheKey := card.ID + "-" + filename

			img, cached, err := p.Cache.Get(cacheKey)
			if err != nil {
				logger.Warn("cache read failed", "card", card.ID, "error", err)
			}
			mime := imaging.MIMEJPEG

			switch {
			case cached:
				logger.Info("cache found", "key", cacheKey)
			case p.Generate != nil:
				img, mime, err = p.Generate.Generate(ctx, description, p.Subject)
				if err != nil {
					logger.Warn("image generation failed", "card", card.ID, "index", idx+1, "prompt", description, "error", err)
					report.Skipped++
					continue
				}
				if err := p.Cache.Put(cacheKey, img); err != nil {
					logger.Warn("caching image failed", "key", cacheKey, "error", err)
				}
				logger.Info("image generated and cached", "key", cacheKey)
			default:
				logger.Info("skip, no cache and generation disabled", "card", card.ID, "index", idx+1)
				report.Skipped++
				continue
			}

			path := card.ID + "/" + filename
			if _, err := p.Store.UploadObject(ctx, p.Bucket, path, img, mime); err != nil {
				logger.Warn("upload failed", "path", path, "error", err)
				report.Skipped++
				continue
			}
			logger.Info("image uploaded", "path", path)
			report.Uploaded++
		}
	}
	return report, nil
}
