package bubbletea_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/ragchat"
	bt "github.com/fwojciec/ragchat/bubbletea"
	"github.com/fwojciec/ragchat/markdown"
	"github.com/stretchr/testify/assert"
)

func TestAssistantTextBlock_View(t *testing.T) {
	t.Parallel()

	theme := ragchat.DefaultTheme()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello **world**")
		view := block.View(80)
		assert.Contains(t, view, "hello")
		assert.Contains(t, view, "world")
	})

	t.Run("append accumulates tokens", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello ")
		block.Append("world")
		assert.Equal(t, "hello world", block.Content())
		assert.Contains(t, block.View(80), "hello world")
	})

	t.Run("wraps paragraphs to width", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("short words that keep going and going beyond thirty columns easily")
		view := block.View(30)
		assert.Contains(t, view, "easily")
		assert.Greater(t, strings.Count(view, "\n"), 0)
	})

	t.Run("finalized paragraph stays while trailing text streams", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("first paragraph\n\n")
		block.Append("trailing")
		view := block.View(80)
		assert.Contains(t, view, "first paragraph")
		assert.Contains(t, view, "trailing")
	})

	t.Run("width change re-renders cached finalized content", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("word1 word2 word3 word4 word5 word6\n\ntail")
		narrow := block.View(20)
		wide := block.View(80)
		assert.NotEqual(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	})

	t.Run("content ending at paragraph boundary has no spurious whitespace", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("complete paragraph\n\n")
		view := block.View(80)
		assert.Equal(t, strings.TrimRight(markdown.Render("complete paragraph", 80, theme), "\n"), strings.TrimRight(view, "\n"))
	})

	t.Run("citation references survive rendering", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("The fee is 4% [Source: ")
		block.Append("terms.pdf, Page 2].")
		assert.Contains(t, block.View(80), "[Source: terms.pdf, Page 2]")
	})

	t.Run("unclosed fenced code block renders safely", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("```sql\nSELECT 1")
		assert.Contains(t, block.View(80), "SELECT 1")
	})

	t.Run("blank line inside code fence does not split finalization", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("text\n\n```sql\nSELECT\n\nfrom_table")
		view := block.View(80)
		assert.Contains(t, view, "from_table")
		assert.Contains(t, view, "text")
	})

	t.Run("update returns self with no command", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello")
		updated, cmd := block.Update(tea.KeyMsg{})
		assert.Equal(t, block, updated)
		assert.Nil(t, cmd)
	})

	t.Run("empty content renders empty string", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, bt.NewAssistantTextBlock(theme).View(80))
	})

	t.Run("zero width renders gracefully", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(theme)
		block.Append("hello world")
		assert.NotPanics(t, func() { block.View(0) })
	})
}
