// Package mock provides test doubles for ragchat interfaces using function fields.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/ragchat"
)

// Interface compliance checks.
var (
	_ ragchat.Transport       = (*Transport)(nil)
	_ ragchat.Stream          = (*Stream)(nil)
	_ ragchat.DocumentService = (*DocumentService)(nil)
)

// Transport is a test double for ragchat.Transport.
// Set StreamFn before calling Stream.
type Transport struct {
	StreamFn func(ctx context.Context, req ragchat.Request) (ragchat.Stream, error)
}

// Stream delegates to StreamFn.
func (t *Transport) Stream(ctx context.Context, req ragchat.Request) (ragchat.Stream, error) {
	return t.StreamFn(ctx, req)
}

// DocumentService is a test double for ragchat.DocumentService.
// Set the function fields for the methods you need.
type DocumentService struct {
	ListDocumentsFn   func(ctx context.Context, opts ragchat.ListOptions) (ragchat.DocumentPage, error)
	UploadDocumentsFn func(ctx context.Context, uploads []ragchat.Upload) ([]ragchat.Document, error)
	DeleteDocumentFn  func(ctx context.Context, id string) error
}

// ListDocuments delegates to ListDocumentsFn.
func (s *DocumentService) ListDocuments(ctx context.Context, opts ragchat.ListOptions) (ragchat.DocumentPage, error) {
	return s.ListDocumentsFn(ctx, opts)
}

// UploadDocuments delegates to UploadDocumentsFn.
func (s *DocumentService) UploadDocuments(ctx context.Context, uploads []ragchat.Upload) ([]ragchat.Document, error) {
	return s.UploadDocumentsFn(ctx, uploads)
}

// DeleteDocument delegates to DeleteDocumentFn.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

// EventsTransport returns a Transport whose streams replay events in order
// and then report io.EOF.
func EventsTransport(events ...ragchat.Event) *Transport {
	return &Transport{
		StreamFn: func(ctx context.Context, req ragchat.Request) (ragchat.Stream, error) {
			return Events(events...), nil
		},
	}
}

// Events returns a Stream that yields events in order and then io.EOF.
func Events(events ...ragchat.Event) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (ragchat.Event, error) {
			if i >= len(events) {
				return nil, io.EOF
			}
			evt := events[i]
			i++
			return evt, nil
		},
		CloseFn: func() error { return nil },
	}
}
