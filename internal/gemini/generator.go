// Package gemini generates illustrative images for flashcards and quiz
// questions through the Gemini image models, then re-encodes every result to
// the product's JPEG size budget.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/quizit-app/quizit-tools/internal/imaging"
)

// ErrNoImageData indicates the model response carried no usable image part,
// typically because the candidate was safety-filtered or empty. It is a
// terminal failure for that single call.
var ErrNoImageData = fmt.Errorf("no image data in model response")

// contentGenerator is the slice of the genai SDK the Generator consumes.
// *genai.Models satisfies it; tests substitute a fake.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config controls a Generator.
type Config struct {
	APIKey      string
	Model       string
	AspectRatio string

	// TargetKB and MaxDimension parameterize the JPEG re-encoding applied
	// to every generated image.
	TargetKB     int
	MaxDimension int

	// RequestsPerMinute throttles outbound generation calls (paid API).
	// Zero means no throttling.
	RequestsPerMinute int
}

// Generator produces budget-sized JPEG images from text descriptions.
type Generator struct {
	gen     contentGenerator
	encoder *imaging.Encoder
	limiter *rate.Limiter
	model   string
	aspect  string
	logger  *slog.Logger
}

// New creates a Generator backed by the hosted Gemini API.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return newGenerator(client.Models, cfg, logger)
}

func newGenerator(gen contentGenerator, cfg Config, logger *slog.Logger) (*Generator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("image model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	encoder, err := imaging.NewEncoder(cfg.TargetKB, cfg.MaxDimension, logger)
	if err != nil {
		return nil, fmt.Errorf("configuring re-encoder: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 1)
	}

	aspect := cfg.AspectRatio
	if aspect == "" {
		aspect = "4:3"
	}

	return &Generator{
		gen:     gen,
		encoder: encoder,
		limiter: limiter,
		model:   cfg.Model,
		aspect:  aspect,
		logger:  logger,
	}, nil
}

// Generate produces one image for description, optionally framed by a
// subject template (see BuildPrompt), and returns re-encoded JPEG bytes with
// their MIME type.
func (g *Generator) Generate(ctx context.Context, description, subject string) ([]byte, string, error) {
	prompt, err := BuildPrompt(description, subject)
	if err != nil {
		return nil, "", err
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: g.aspect},
	})
	if err != nil {
		return nil, "", fmt.Errorf("calling image model: %w", err)
	}

	raw, mime, err := g.extractImage(resp)
	if err != nil {
		return nil, "", err
	}
	g.logger.Debug("image generated", "model", g.model, "mime", mime, "bytes", len(raw))

	result, err := g.encoder.Reencode(raw)
	if err != nil {
		return nil, "", fmt.Errorf("re-encoding generated image: %w", err)
	}
	return result.Data, result.MIME, nil
}

// extractImage walks candidates and content parts for inline image data.
// The response shape is loose: parts may carry raw bytes or base64 text, and
// candidates may be terminated early. Early termination is logged, absence
// of data is ErrNoImageData.
func (g *Generator) extractImage(resp *genai.GenerateContentResponse) ([]byte, string, error) {
	if resp == nil {
		return nil, "", ErrNoImageData
	}

	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		if cand.FinishReason != "" &&
			cand.FinishReason != genai.FinishReasonStop &&
			cand.FinishReason != genai.FinishReasonMaxTokens {
			g.logger.Warn("candidate terminated early", "finish_reason", cand.FinishReason)
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return part.InlineData.Data, mime, nil
			}
			// Some responses smuggle base64 bytes through a text part. The
			// length floor keeps short answer text from decoding by accident.
			if len(part.Text) >= 256 {
				if decoded, err := base64.StdEncoding.DecodeString(part.Text); err == nil && len(decoded) > 0 {
					return decoded, "image/png", nil
				}
			}
		}
	}
	return nil, "", ErrNoImageData
}
