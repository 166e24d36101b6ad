// Package command parses the slash commands typed into the chat input.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknown indicates an input that starts with "/" but names no command.
var ErrUnknown = errors.New("unknown command")

// Command is a sealed interface for parsed slash commands.
type Command interface {
	command()
}

// Clear empties the conversation.
type Clear struct{}

// Docs toggles the document panel.
type Docs struct{}

// Refresh reloads the document listing.
type Refresh struct{}

// Select toggles the selection of documents by their 1-based position in
// the listing. An empty Positions clears the selection.
type Select struct {
	Positions []int
}

// Help lists the available commands.
type Help struct{}

// Quit exits the program.
type Quit struct{}

func (Clear) command()   {}
func (Docs) command()    {}
func (Refresh) command() {}
func (Select) command()  {}
func (Help) command()    {}
func (Quit) command()    {}

// Usage is the one-line summary shown by Help.
const Usage = "/docs  /select N…|none  /refresh  /clear  /help  /quit"

// IsCommand reports whether input should be parsed as a command rather than
// sent as a query.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// Parse parses a slash command.
func Parse(input string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, input)
	}
	name, args := strings.ToLower(fields[0][1:]), fields[1:]
	switch name {
	case "clear":
		return Clear{}, nil
	case "docs", "documents":
		return Docs{}, nil
	case "refresh":
		return Refresh{}, nil
	case "help", "?":
		return Help{}, nil
	case "quit", "exit":
		return Quit{}, nil
	case "select", "sel":
		return parseSelect(args)
	default:
		return nil, fmt.Errorf("%w: /%s", ErrUnknown, name)
	}
}

// parseSelect accepts positions separated by spaces or commas. "none"
// clears the selection.
func parseSelect(args []string) (Command, error) {
	if len(args) == 1 && strings.EqualFold(args[0], "none") {
		return Select{}, nil
	}
	if len(args) == 0 {
		return nil, errors.New("usage: /select N… or /select none")
	}
	var positions []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid document number %q", part)
			}
			positions = append(positions, n)
		}
	}
	if len(positions) == 0 {
		return nil, errors.New("usage: /select N… or /select none")
	}
	return Select{Positions: positions}, nil
}
