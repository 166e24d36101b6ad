package ragchat_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/ragchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_Apply(t *testing.T) {
	t.Parallel()

	a := ragchat.Citation{SourceFile: "a.pdf", PageNumber: 1}
	b := ragchat.Citation{SourceFile: "b.pdf", PageNumber: 7}

	tests := []struct {
		name          string
		events        []ragchat.Event
		wantContent   string
		wantCitations []ragchat.Citation
	}{
		{
			name:          "no events",
			wantContent:   "",
			wantCitations: []ragchat.Citation{},
		},
		{
			name: "tokens concatenate verbatim",
			events: []ragchat.Event{
				ragchat.EventToken{Text: "Hello"},
				ragchat.EventToken{Text: ", "},
				ragchat.EventToken{Text: " world\n"},
			},
			wantContent:   "Hello,  world\n",
			wantCitations: []ragchat.Citation{},
		},
		{
			name: "last citations event wins",
			events: []ragchat.Event{
				ragchat.EventCitations{Sources: []ragchat.Citation{a, a}},
				ragchat.EventToken{Text: "x"},
				ragchat.EventCitations{Sources: []ragchat.Citation{b}},
			},
			wantContent:   "x",
			wantCitations: []ragchat.Citation{b},
		},
		{
			name: "citations before tokens",
			events: []ragchat.Event{
				ragchat.EventCitations{Sources: []ragchat.Citation{a, b}},
				ragchat.EventToken{Text: "answer"},
			},
			wantContent:   "answer",
			wantCitations: []ragchat.Citation{a, b},
		},
		{
			name: "empty citations event clears",
			events: []ragchat.Event{
				ragchat.EventCitations{Sources: []ragchat.Citation{a}},
				ragchat.EventCitations{Sources: []ragchat.Citation{}},
			},
			wantContent:   "",
			wantCitations: []ragchat.Citation{},
		},
		{
			name: "error is appended inline and keeps prior state",
			events: []ragchat.Event{
				ragchat.EventToken{Text: "partial"},
				ragchat.EventCitations{Sources: []ragchat.Citation{a}},
				ragchat.EventError{Message: "model overloaded"},
				ragchat.EventToken{Text: " more"},
			},
			wantContent:   "partial" + ragchat.ErrorMarker + "model overloaded more",
			wantCitations: []ragchat.Citation{a},
		},
		{
			name: "done does not mutate",
			events: []ragchat.Event{
				ragchat.EventToken{Text: "x"},
				ragchat.EventDone{},
			},
			wantContent:   "x",
			wantCitations: []ragchat.Citation{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			acc := ragchat.NewAccumulator()
			for _, evt := range tt.events {
				acc.Apply(evt)
			}
			turn := acc.Turn()
			assert.Equal(t, ragchat.RoleAssistant, turn.Role)
			assert.Equal(t, tt.wantContent, turn.Content)
			assert.Equal(t, tt.wantCitations, turn.Citations)
		})
	}
}

func TestAccumulator_ApplyReturnsSnapshotAfterEachEvent(t *testing.T) {
	t.Parallel()
	acc := ragchat.NewAccumulator()
	words := []string{"The", " answer", " is", " 42."}

	var b strings.Builder
	for _, w := range words {
		b.WriteString(w)
		turn := acc.Apply(ragchat.EventToken{Text: w})
		assert.Equal(t, b.String(), turn.Content)
	}
}

func TestAccumulator_SnapshotIsIndependent(t *testing.T) {
	t.Parallel()
	acc := ragchat.NewAccumulator()
	sources := []ragchat.Citation{{SourceFile: "a.pdf", PageNumber: 1}}
	turn := acc.Apply(ragchat.EventCitations{Sources: sources})
	require.Len(t, turn.Citations, 1)

	turn.Citations[0].PageNumber = 2
	sources[0].PageNumber = 3

	assert.Equal(t, 1, acc.Turn().Citations[0].PageNumber)
}
