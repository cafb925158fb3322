package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/MurphyLo/flux"
	bt "github.com/MurphyLo/flux/bubbletea"
	"github.com/MurphyLo/flux/goldmark"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestAssistantTextBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("hello **world**")
		view := block.View(80)
		assert.Contains(t, view, "hello")
		assert.Contains(t, view, "world")
	})

	t.Run("append accumulates fragments", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("hello ")
		block.Append("world")
		view := block.View(80)
		assert.Contains(t, view, "hello world")
	})

	t.Run("wraps paragraphs to width", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("short words that keep going and going beyond thirty columns easily")
		view := block.View(30)
		assert.Contains(t, view, "easily")
	})

	t.Run("finalized paragraph stays while trailing text streams", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("first paragraph\n\n")
		block.Append("trailing")
		view := block.View(80)
		assert.Contains(t, view, "first paragraph")
		assert.Contains(t, view, "trailing")
	})

	t.Run("width change re-renders cached finalized content", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("word1 word2 word3 word4 word5 word6\n\ntail")
		narrow := block.View(20)
		wide := block.View(80)
		assert.NotEqual(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	})

	t.Run("content ending at paragraph boundary has no spurious whitespace", func(t *testing.T) {
		t.Parallel()
		theme := flux.DefaultTheme()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("complete paragraph\n\n")
		view := block.View(80)
		assert.Contains(t, view, "complete paragraph")
		// promoteFinalized strips the "\n\n" delimiter, so the finalized
		// fragment matches what the renderer produces for the bare text.
		trimmed := strings.TrimRight(view, "\n")
		assert.Equal(t, trimmed, strings.TrimRight(
			goldmark.Render("complete paragraph", 80, theme), "\n",
		))
	})

	t.Run("unclosed fenced code block renders safely", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("```go\nfmt.Println(\"x\")")
		view := block.View(80)
		assert.Contains(t, view, "fmt.Println")
	})

	t.Run("blank line inside code fence does not split finalization", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("text\n\n```go\nfunc() {\n\ncode")
		view := block.View(80)
		assert.Contains(t, view, "code")
		assert.Contains(t, view, "text")
	})

	t.Run("text accessor returns full accumulated text", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("one ")
		block.Append("two")
		assert.Equal(t, "one two", block.Text())
	})

	t.Run("update returns self with no command", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("hello")
		updated, cmd := block.Update(tea.KeyMsg{})
		assert.Equal(t, block, updated)
		assert.Nil(t, cmd)
	})

	t.Run("empty content renders empty string", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		assert.Empty(t, block.View(80))
	})

	t.Run("zero width renders gracefully", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(flux.DefaultTheme())
		block.Append("hello world")
		assert.NotPanics(t, func() { block.View(0) })
	})
}
