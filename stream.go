package ragchat

import "context"

// Stream uses a pull-based iterator pattern over decoded protocol events.
// Next returns io.EOF once the underlying transport stream is exhausted.
// Any other error is a transport-level failure; malformed frames are never
// reported here. Cancellation flows through the context passed to
// Transport.Stream.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// Transport opens a streaming query against the answering service.
//
// Stream returns an error without a Stream when the request cannot be
// opened or the service answers with a non-success status; no events are
// decoded in that case.
type Transport interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}
