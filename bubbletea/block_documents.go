package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/ragchat"
)

var _ MessageBlock = (*DocumentsBlock)(nil)

// DocumentsBlock renders the numbered document listing with selection
// marks. Numbers are the positions accepted by /select.
type DocumentsBlock struct {
	docs     []ragchat.Document
	selected map[string]bool
	err      error
	styles   Styles
}

// NewDocumentsBlock creates a DocumentsBlock.
func NewDocumentsBlock(docs []ragchat.Document, selected map[string]bool, err error, styles Styles) *DocumentsBlock {
	return &DocumentsBlock{docs: docs, selected: selected, err: err, styles: styles}
}

func (b *DocumentsBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

const statusColumnWidth = 12

func (b *DocumentsBlock) View(width int) string {
	var out strings.Builder
	out.WriteString(b.styles.Accent.Render("Documents"))
	if b.err != nil {
		out.WriteString("\n")
		out.WriteString(b.styles.Error.Render(truncate("Could not load documents: "+b.err.Error(), width)))
		return out.String()
	}
	if len(b.docs) == 0 {
		out.WriteString("\n")
		out.WriteString(b.styles.Muted.Render("No documents uploaded."))
		return out.String()
	}
	numWidth := len(fmt.Sprint(len(b.docs)))
	for i, d := range b.docs {
		mark := "[ ]"
		if b.selected[d.ID] {
			mark = "[x]"
		}
		prefix := fmt.Sprintf("%s %*d. ", mark, numWidth, i+1)
		status := b.status(d)
		nameWidth := width - len(prefix) - statusColumnWidth
		name := padRight(truncate(d.Filename, nameWidth), nameWidth)

		line := prefix + name
		if b.selected[d.ID] {
			line = b.styles.Selected.Render(line)
		}
		out.WriteString("\n")
		out.WriteString(line + " " + status)
	}
	out.WriteString("\n")
	out.WriteString(b.styles.Muted.Render(truncate("Only ready documents are searched. /select N to toggle, /select none to search all.", width)))
	return out.String()
}

func (b *DocumentsBlock) status(d ragchat.Document) string {
	switch d.Status {
	case ragchat.DocumentReady:
		return b.styles.Success.Render(fmt.Sprintf("ready %3dp", d.PageCount))
	case ragchat.DocumentError:
		return b.styles.Error.Render("error")
	default:
		return b.styles.Muted.Render(string(d.Status))
	}
}
