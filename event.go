package ragchat

// Event is a sealed interface representing a decoded protocol event.
// Events are purely semantic. Transport failures come from Next()'s error
// return, not from events; EventError carries an in-band application error
// reported by the answering service.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventToken is an incremental content fragment.
type EventToken struct {
	Text string
}

func (EventToken) event() {}

// EventCitations carries the full citation set for the current answer.
// It replaces any set received earlier in the same stream.
type EventCitations struct {
	Sources []Citation
}

func (EventCitations) event() {}

// EventError is a recoverable mid-stream error surfaced inline.
type EventError struct {
	Message string
}

func (EventError) event() {}

// EventDone marks the end of the answer.
type EventDone struct{}

func (EventDone) event() {}

// Interface compliance checks.
var (
	_ Event = EventToken{}
	_ Event = EventCitations{}
	_ Event = EventError{}
	_ Event = EventDone{}
)
