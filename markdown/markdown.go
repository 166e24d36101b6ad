// Package markdown renders answer text to ANSI-styled terminal output
// using goldmark for parsing and lipgloss for styling.
//
// Inline citation references of the form [Source: file, Page N] are
// rendered in the theme's citation color so they recede behind the prose.
package markdown

import "github.com/fwojciec/ragchat"

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme ragchat.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := newRenderer(theme)
	return r.render([]byte(source), width)
}
