package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizit-app/quizit-tools/internal/config"
)

func TestFormatSummary_ValidJSON(t *testing.T) {
	t.Parallel()

	out := formatSummary(`[{"name":"洋务运动","type":"历史因素"}]`)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "洋务运动", parsed[0]["name"])
}

func TestFormatSummary_PlainTextWrapped(t *testing.T) {
	t.Parallel()

	out := formatSummary("这不是 JSON")

	var wrapped struct {
		Summary  string   `json:"summary"`
		Keywords []string `json:"keywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &wrapped))
	assert.Equal(t, "这不是 JSON", wrapped.Summary)
	assert.Empty(t, wrapped.Keywords)
}

func TestApplyAnswerOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		model     string
		maxTokens int
		wantModel string
		wantMax   int
	}{
		{"no overrides", "", 0, config.DefaultAnswerModel, config.DefaultMaxTokens},
		{"model only", "gpt-5", 0, "gpt-5", config.DefaultMaxTokens},
		{"tokens only", "", 4000, config.DefaultAnswerModel, 4000},
		{"negative tokens ignored", "", -1, config.DefaultAnswerModel, config.DefaultMaxTokens},
		{"both", "gpt-5", 2000, "gpt-5", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{
				AnswerModel: config.DefaultAnswerModel,
				MaxTokens:   config.DefaultMaxTokens,
			}
			applyAnswerOverrides(cfg, tt.model, tt.maxTokens)
			assert.Equal(t, tt.wantModel, cfg.AnswerModel)
			assert.Equal(t, tt.wantMax, cfg.MaxTokens)
		})
	}
}
