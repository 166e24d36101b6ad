package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// MessageBlock is a renderable element in the conversation.
// Unlike tea.Model, View takes a width parameter so the root model
// controls layout and blocks are testable in isolation.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}

// blockSeparator returns the spacing placed between two adjacent blocks.
// A sources list hangs directly under the answer it belongs to.
func blockSeparator(prev, curr MessageBlock) string {
	if _, ok := curr.(*SourcesBlock); ok {
		if _, ok := prev.(*AssistantTextBlock); ok {
			return "\n"
		}
	}
	return "\n\n"
}
