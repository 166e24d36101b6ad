package mock

import "github.com/fwojciec/ragchat"

// Stream is a test double for ragchat.Stream.
// Set the function fields for the methods you need.
type Stream struct {
	NextFn  func() (ragchat.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (ragchat.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn.
func (s *Stream) Close() error {
	return s.CloseFn()
}
