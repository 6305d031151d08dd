package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleMarkers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Title("run %s", "歷史八上")
	c.OK("uploaded %d", 3)
	c.Warn("skipped %d", 1)
	c.Fail("failed: %v", "boom")
	c.Plain("done")

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "歷史八上")
	assert.Contains(t, lines[1], "✓")
	assert.Contains(t, lines[1], "uploaded 3")
	assert.Contains(t, lines[2], "⚠")
	assert.Contains(t, lines[3], "✗")
	assert.Equal(t, "done", lines[4])
}

func TestMarkdownRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewMarkdownRenderer(80)
	out := r.Render("# Heading\n\nbody text")
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "body text")
}

func TestMarkdownRenderer_NilDegradesToPlain(t *testing.T) {
	t.Parallel()

	var r *MarkdownRenderer
	assert.Equal(t, "**raw**", r.Render("**raw**"))

	empty := &MarkdownRenderer{}
	assert.Equal(t, "**raw**", empty.Render("**raw**"))
}
