package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/gemini"
	"github.com/quizit-app/quizit-tools/internal/ui"
)

// runGenImage generates one image from a description and writes the
// re-encoded JPEG to a file.
//
//	quizit gen-image --subject P "串联电路示意图" out/circuit.jpg
func runGenImage(args []string) error {
	flags := flag.NewFlagSet("gen-image", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	subject := flags.String("subject", "", "subject prompt template: B(biology)/H(history)/P(physics); empty uses the raw description")
	model := flags.String("model", "", "image model (default from config)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing gen-image flags: %w", err)
	}
	if flags.NArg() != 2 {
		return errors.New("usage: quizit gen-image [--subject B|H|P] DESCRIPTION OUTPUT.jpg")
	}
	description := flags.Arg(0)
	outPath := flags.Arg(1)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *model != "" {
		cfg.ImageModel = *model
	}
	if err := cfg.RequireGoogle(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gen, err := gemini.New(ctx, gemini.Config{
		APIKey:       cfg.GoogleAPIKey,
		Model:        cfg.ImageModel,
		AspectRatio:  cfg.AspectRatio,
		TargetKB:     cfg.TargetKB,
		MaxDimension: cfg.MaxDimension,
	}, slog.Default())
	if err != nil {
		return err
	}

	data, mime, err := gen.Generate(ctx, description, *subject)
	if err != nil {
		return fmt.Errorf("generating image: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	console := ui.NewConsole(os.Stdout)
	console.OK("saved to %s (%s, %d KB)", outPath, mime, len(data)/1024)
	return nil
}
