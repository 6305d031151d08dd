package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/openai"
	"github.com/quizit-app/quizit-tools/internal/pipeline"
)

// runSummary extracts the core knowledge points of one textbook chapter and
// prints them as a JSON array. A non-JSON model answer is wrapped into a
// {"summary": ..., "keywords": []} envelope so the output stays parseable.
func runSummary(args []string) error {
	flags := flag.NewFlagSet("summary", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	storeID := flags.String("store-id", "", "vector store id, e.g. vs_xxx (required)")
	keyword := flags.String("keyword", "", "chapter keyword (required)")
	model := flags.String("model", "", "model name (default from config)")
	maxTokens := flags.Int("max-tokens", 0, "maximum output tokens (default from config)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing summary flags: %w", err)
	}
	if *storeID == "" {
		return errors.New("--store-id is required")
	}
	if *keyword == "" {
		return errors.New("--keyword is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyAnswerOverrides(cfg, *model, *maxTokens)

	client, err := newOpenAIClient(cfg, slog.Default())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	resp, err := client.Respond(ctx, openai.RespondRequest{
		Model:           cfg.AnswerModel,
		Input:           pipeline.SummaryPrompt(*keyword),
		MaxOutputTokens: cfg.MaxTokens,
		VectorStoreIDs:  []string{*storeID},
	})
	if err != nil {
		return fmt.Errorf("calling responses api: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return fmt.Errorf("no text in response (status %s)", resp.Status)
	}

	fmt.Println(formatSummary(text))
	return nil
}

// formatSummary re-indents a JSON answer, or wraps plain text into the
// expected envelope.
func formatSummary(text string) string {
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if pretty, err := json.MarshalIndent(parsed, "", "  "); err == nil {
			return string(pretty)
		}
	}

	wrapped, err := json.MarshalIndent(map[string]any{
		"summary":  text,
		"keywords": []string{},
	}, "", "  ")
	if err != nil {
		return text
	}
	return string(wrapped)
}
