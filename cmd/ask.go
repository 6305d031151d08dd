package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/quizit-app/quizit-tools/internal/config"
	"github.com/quizit-app/quizit-tools/internal/openai"
	"github.com/quizit-app/quizit-tools/internal/ui"
)

// runAsk starts an interactive question loop against one vector store.
// Each answer is grounded by the file_search tool and rendered as markdown.
func runAsk(args []string) error {
	flags := flag.NewFlagSet("ask", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	storeID := flags.String("store-id", "", "vector store id, e.g. vs_xxx (required)")
	model := flags.String("model", "", "model name (default from config)")
	maxTokens := flags.Int("max-tokens", 0, "maximum output tokens (default from config)")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing ask flags: %w", err)
	}
	if *storeID == "" {
		return errors.New("--store-id is required")
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

	console := ui.NewConsole(os.Stdout)
	renderer := ui.NewMarkdownRenderer(100)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("请输入问题（或 Ctrl+C / Ctrl+D 退出）：")
		if !scanner.Scan() {
			fmt.Println()
			console.Plain("已退出。")
			break
		}
		if err := ctx.Err(); err != nil {
			console.Plain("已退出。")
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		if err := askOnce(ctx, client, cfg, *storeID, question, console, renderer); err != nil {
			if errors.Is(err, context.Canceled) {
				console.Plain("已退出。")
				break
			}
			console.Fail("request failed: %v", err)
		}
		console.Plain("%s", strings.Repeat("-", 40))
	}
	return scanner.Err()
}

func askOnce(ctx context.Context, client *openai.Client, cfg *config.Config, storeID, question string, console *ui.Console, renderer *ui.MarkdownRenderer) error {
	resp, err := client.Respond(ctx, openai.RespondRequest{
		Model:           cfg.AnswerModel,
		Input:           question,
		MaxOutputTokens: cfg.MaxTokens,
		VectorStoreIDs:  []string{storeID},
	})
	if err != nil {
		return err
	}

	text := resp.OutputText()
	if text == "" {
		console.Warn("no text in response (status %s)", resp.Status)
		return nil
	}
	console.Plain("%s", renderer.Render(text))
	return nil
}

// applyAnswerOverrides lets per-invocation flags win over configured values.
func applyAnswerOverrides(cfg *config.Config, model string, maxTokens int) {
	if model != "" {
		cfg.AnswerModel = model
	}
	if maxTokens > 0 {
		cfg.MaxTokens = maxTokens
	}
}
