package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/pipeline"
)

// runMapRefs picks atlas references for every card of a geography deck and
// uploads them next to their cards. When the Responses API key is missing
// only locally cached responses are used.
func runMapRefs(args []string) error {
	flags := flag.NewFlagSet("map-refs", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	title := flags.String("title", "", "deck title, exact match, must contain 地理 (required)")
	model := flags.String("model", "", "model name (default from config)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing map-refs flags: %w", err)
	}
	if *title == "" {
		return errors.New("--title is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyAnswerOverrides(cfg, *model, 0)

	logger := slog.Default()

	sb, err := newSupabaseClient(cfg, logger)
	if err != nil {
		return err
	}

	// Missing credential degrades to cache-only processing here instead of
	// aborting, matching how this batch was always operated.
	var text pipeline.TextGenerator
	if client, err := newOpenAIClient(cfg, logger); err == nil {
		text = &responder{
			client:    client,
			model:     cfg.AnswerModel,
			maxTokens: cfg.MaxTokens,
		}
	} else {
		logger.Warn("responses api unavailable, using cached refs only", "error", err)
	}

	maps, err := newPipelineCache(cfg, "maps", logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p := &pipeline.MapRefs{
		Cards:  sb,
		Text:   text,
		Store:  sb,
		Cache:  maps,
		Bucket: cfg.StorageBucket,
		Logger: logger,
	}

	report, err := p.Run(ctx, *title)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}
