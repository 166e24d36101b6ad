package ragchat_test

import (
	"testing"

	"github.com/fwojciec/ragchat"
	"github.com/stretchr/testify/assert"
)

func TestEventToken_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e ragchat.Event = ragchat.EventToken{Text: "hello"}
	assert.NotNil(t, e)
}

func TestEventCitations_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e ragchat.Event = ragchat.EventCitations{
		Sources: []ragchat.Citation{{SourceFile: "report.pdf", PageNumber: 3}},
	}
	assert.NotNil(t, e)
}

func TestEventError_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e ragchat.Event = ragchat.EventError{Message: "rate limited"}
	assert.NotNil(t, e)
}

func TestEventDone_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e ragchat.Event = ragchat.EventDone{}
	assert.NotNil(t, e)
}

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []ragchat.Event{
		ragchat.EventToken{Text: "hello"},
		ragchat.EventCitations{Sources: []ragchat.Citation{{SourceFile: "a.pdf", PageNumber: 1}}},
		ragchat.EventError{Message: "boom"},
		ragchat.EventDone{},
	}
	assert.Len(t, events, 4, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case ragchat.EventToken:
		case ragchat.EventCitations:
		case ragchat.EventError:
		case ragchat.EventDone:
		default:
			t.Fatalf("unexpected event type: %T", e)
		}
	}
}
