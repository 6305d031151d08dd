package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/pipeline"
	"github.com/quizit-app/quizit-tools/internal/ui"
)

// runDeckGraphs generates a knowledge graph per deck card and uploads each
// one next to its card. Without --store-id no model calls are made; only
// locally cached graphs are uploaded.
func runDeckGraphs(args []string) error {
	flags := flag.NewFlagSet("deck-graphs", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	title := flags.String("title", "", "deck title, exact match (required)")
	storeID := flags.String("store-id", "", "vector store id grounding the graph generation; omit to use cache only")
	model := flags.String("model", "", "model name (default from config)")
	maxTokens := flags.Int("max-tokens", 0, "maximum output tokens (default from config)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing deck-graphs flags: %w", err)
	}
	if *title == "" {
		return errors.New("--title is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyAnswerOverrides(cfg, *model, *maxTokens)

	logger := slog.Default()

	sb, err := newSupabaseClient(cfg, logger)
	if err != nil {
		return err
	}

	var text pipeline.TextGenerator
	if *storeID != "" {
		client, err := newOpenAIClient(cfg, logger)
		if err != nil {
			return err
		}
		text = &responder{
			client:    client,
			model:     cfg.AnswerModel,
			maxTokens: cfg.MaxTokens,
			storeIDs:  []string{*storeID},
		}
	}

	dots, err := newPipelineCache(cfg, "dots", logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p := &pipeline.DeckGraphs{
		Cards:  sb,
		Text:   text,
		Store:  sb,
		Cache:  dots,
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

// printReport summarizes a batch run on stdout.
func printReport(report *pipeline.Report) {
	console := ui.NewConsole(os.Stdout)
	console.Title("%s", report.Title)
	console.Plain("cards    : %d", report.Count)
	console.OK("uploaded : %d", report.Uploaded)
	if report.Skipped > 0 {
		console.Warn("skipped  : %d", report.Skipped)
	}
}
