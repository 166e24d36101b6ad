package ragchat

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or query failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreaming indicates a query was submitted while another is in flight.
	ErrStreaming = errors.New("session is streaming")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)
