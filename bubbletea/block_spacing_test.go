package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ragchat"
	bt "github.com/fwojciec/ragchat/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBlockSeparator(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(ragchat.DefaultTheme())
	text := bt.NewAssistantTextBlock(ragchat.DefaultTheme())
	user := bt.NewUserMessageBlock("hi", styles)
	sources := bt.NewSourcesBlock([]ragchat.Citation{{SourceFile: "a.pdf", PageNumber: 1}}, styles)
	errBlock := bt.NewErrorBlock(ragchat.FailurePrefix+"boom", styles)

	tests := []struct {
		name       string
		prev, curr bt.MessageBlock
		want       string
	}{
		{name: "text then sources", prev: text, curr: sources, want: "\n"},
		{name: "sources then user", prev: sources, curr: user, want: "\n\n"},
		{name: "user then text", prev: user, curr: text, want: "\n\n"},
		{name: "user then sources", prev: user, curr: sources, want: "\n\n"},
		{name: "text then user", prev: text, curr: user, want: "\n\n"},
		{name: "user then error", prev: user, curr: errBlock, want: "\n\n"},
		{name: "error then user", prev: errBlock, curr: user, want: "\n\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bt.BlockSeparator(tt.prev, tt.curr))
		})
	}
}

func TestModel_BlockSpacing(t *testing.T) {
	t.Parallel()

	t.Run("sources hang under the answer", func(t *testing.T) {
		t.Parallel()
		m := initModel(t)
		m = updateModel(t, m, snapshot(1, false,
			ragchat.UserTurn("q"),
			assistant("answer", ragchat.Citation{SourceFile: "a.pdf", PageNumber: 3}),
		))
		lines := strings.Split(bt.RenderContent(m), "\n")
		for i, l := range lines {
			if strings.TrimSpace(l) == "answer" {
				if assert.Greater(t, len(lines), i+1) {
					assert.Equal(t, "Sources", lines[i+1])
				}
				return
			}
		}
		t.Fatalf("answer line not found in:\n%s", strings.Join(lines, "\n"))
	})

	t.Run("turns are separated by a blank line", func(t *testing.T) {
		t.Parallel()
		m := initModel(t)
		m = updateModel(t, m, snapshot(1, false,
			ragchat.UserTurn("first question"),
			assistant("first answer"),
			ragchat.UserTurn("second question"),
		))
		lines := strings.Split(bt.RenderContent(m), "\n")
		var answerLine int
		for i, l := range lines {
			if strings.Contains(l, "first answer") {
				answerLine = i
			}
		}
		if assert.Greater(t, len(lines), answerLine+2) {
			assert.Empty(t, strings.TrimSpace(lines[answerLine+1]))
			assert.Contains(t, lines[answerLine+2], "second question")
		}
	})
}
