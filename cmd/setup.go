package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/quizit-app/quizit-tools/internal/cache"
	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/openai"
	"github.com/quizit-app/quizit-tools/internal/pipeline"
	"github.com/quizit-app/quizit-tools/internal/supabase"
)

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newOpenAIClient builds the Responses API client from configuration.
func newOpenAIClient(cfg *config.Config, logger *slog.Logger) (*openai.Client, error) {
	if err := cfg.RequireOpenAI(); err != nil {
		return nil, err
	}
	return openai.New(cfg.OpenAIAPIKey, logger)
}

// newSupabaseClient builds the backend client from configuration.
func newSupabaseClient(cfg *config.Config, logger *slog.Logger) (*supabase.Client, error) {
	if err := cfg.RequireSupabase(); err != nil {
		return nil, err
	}
	return supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)
}

// newPipelineCache opens one cache subdirectory under the configured root.
func newPipelineCache(cfg *config.Config, sub string, logger *slog.Logger) (*cache.Cache, error) {
	c, err := cache.New(filepath.Join(cfg.CacheDir, sub), logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s cache: %w", sub, err)
	}
	return c, nil
}

// responder adapts the Responses API client to pipeline.TextGenerator,
// fixing the model, token budget and vector store scope for a batch run.
type responder struct {
	client    *openai.Client
	model     string
	maxTokens int
	storeIDs  []string
}

var _ pipeline.TextGenerator = (*responder)(nil)

func (r *responder) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.Respond(ctx, openai.RespondRequest{
		Model:           r.model,
		Input:           prompt,
		MaxOutputTokens: r.maxTokens,
		VectorStoreIDs:  r.storeIDs,
	})
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}
