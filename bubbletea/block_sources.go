package bubbletea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/ragchat"
)

var _ MessageBlock = (*SourcesBlock)(nil)

// SourcesBlock lists the citations attached to an answer, one per line, in
// the order the service sent them.
type SourcesBlock struct {
	citations []ragchat.Citation
	styles    Styles
}

// NewSourcesBlock creates a SourcesBlock.
func NewSourcesBlock(citations []ragchat.Citation, styles Styles) *SourcesBlock {
	return &SourcesBlock{citations: citations, styles: styles}
}

func (b *SourcesBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *SourcesBlock) View(width int) string {
	var out strings.Builder
	out.WriteString(b.styles.Muted.Render("Sources"))
	for _, c := range b.citations {
		page := fmt.Sprintf(" p.%d", c.PageNumber)
		name := truncate(c.SourceFile, width-len(page)-4)
		out.WriteString("\n")
		out.WriteString(b.styles.Citation.Render("  • " + name + page))
	}
	return out.String()
}
