package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/ragchat"
	bt "github.com/fwojciec/ragchat/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestSourcesBlock_View(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(ragchat.DefaultTheme())

	t.Run("lists citations in order", func(t *testing.T) {
		t.Parallel()
		block := bt.NewSourcesBlock([]ragchat.Citation{
			{SourceFile: "terms.pdf", PageNumber: 2},
			{SourceFile: "faq.pdf", PageNumber: 11},
		}, styles)
		lines := strings.Split(block.View(80), "\n")
		assert.Equal(t, []string{"Sources", "  • terms.pdf p.2", "  • faq.pdf p.11"}, lines)
	})

	t.Run("long file names are truncated", func(t *testing.T) {
		t.Parallel()
		block := bt.NewSourcesBlock([]ragchat.Citation{
			{SourceFile: strings.Repeat("annual-report-", 10) + ".pdf", PageNumber: 120},
		}, styles)
		view := block.View(40)
		for _, line := range strings.Split(view, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 40)
		}
		assert.Contains(t, view, "… p.120")
	})
}
