package ragchat

import (
	"slices"
	"strings"
)

// ErrorMarker prefixes in-band service errors folded into answer content.
const ErrorMarker = "\n\n⚠️ Error: "

// Accumulator folds decoded events into the in-flight assistant turn.
// It is not safe for concurrent use; one accumulator serves one stream.
type Accumulator struct {
	content   strings.Builder
	citations []Citation
}

// NewAccumulator returns an Accumulator for an empty assistant turn.
func NewAccumulator() *Accumulator {
	return &Accumulator{citations: []Citation{}}
}

// Apply folds evt into the turn and returns the updated turn.
func (a *Accumulator) Apply(evt Event) Turn {
	switch e := evt.(type) {
	case EventToken:
		a.content.WriteString(e.Text)
	case EventCitations:
		// Last set wins; the service sends one authoritative set per answer.
		a.citations = slices.Clone(e.Sources)
		if a.citations == nil {
			a.citations = []Citation{}
		}
	case EventError:
		a.content.WriteString(ErrorMarker)
		a.content.WriteString(e.Message)
	case EventDone:
	}
	return a.Turn()
}

// Turn returns a snapshot of the turn built so far.
func (a *Accumulator) Turn() Turn {
	return Turn{
		Role:      RoleAssistant,
		Content:   a.content.String(),
		Citations: slices.Clone(a.citations),
	}
}
