package cmd

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/gemini"
	"github.com/quizit-app/quizit-tools/internal/pipeline"
)

// imageRequestsPerMinute throttles live generation during batch runs.
const imageRequestsPerMinute = 10

// runQuizImages uploads a generated image for every markdown image
// placeholder in a quiz template's questions.
//
//	quizit quiz-images 物理第三章小测            (cached images only)
//	quizit quiz-images --doit --subject P 物理第三章小测
func runQuizImages(args []string) error {
	flags := flag.NewFlagSet("quiz-images", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	doit := flags.Bool("doit", false, "call the image model for uncached placeholders; default uses cache only")
	subject := flags.String("subject", "", "subject prompt template: B(biology)/H(history)/P(physics); required with --doit")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing quiz-images flags: %w", err)
	}
	if flags.NArg() != 1 {
		return errors.New("usage: quizit quiz-images [--doit --subject B|H|P] TITLE")
	}
	title := flags.Arg(0)

	if *doit && *subject == "" {
		return errors.New("--subject (B/H/P) is required with --doit")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	sb, err := newSupabaseClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var images pipeline.ImageGenerator
	if *doit {
		if err := cfg.RequireGoogle(); err != nil {
			return err
		}
		gen, err := gemini.New(ctx, gemini.Config{
			APIKey:            cfg.GoogleAPIKey,
			Model:             cfg.ImageModel,
			AspectRatio:       cfg.AspectRatio,
			TargetKB:          cfg.TargetKB,
			MaxDimension:      cfg.MaxDimension,
			RequestsPerMinute: imageRequestsPerMinute,
		}, logger)
		if err != nil {
			return err
		}
		images = gen
	}

	imgCache, err := newPipelineCache(cfg, "quiz_images_cache", logger)
	if err != nil {
		return err
	}

	p := &pipeline.QuizImages{
		Cards:    sb,
		Generate: images,
		Store:    sb,
		Cache:    imgCache,
		Bucket:   cfg.StorageBucket,
		Subject:  *subject,
		Logger:   logger,
	}

	report, err := p.Run(ctx, title)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}
