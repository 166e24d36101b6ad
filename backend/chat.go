package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/fwojciec/ragchat"
	ragjson "github.com/fwojciec/ragchat/json"
	"github.com/fwojciec/ragchat/sse"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Stream posts a query to the chat endpoint and returns a [ragchat.Stream]
// of answer events. A non-success status is returned as a [*StatusError]
// before any stream exists.
func (c *Client) Stream(ctx context.Context, req ragchat.Request) (ragchat.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	body, err := ragjson.MarshalRequest(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, "ragchat.chat",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("ragchat.query.length", len(req.Query)),
			attribute.Int("ragchat.documents", len(req.DocumentIDs)),
			attribute.Int("ragchat.history", len(req.History)),
		),
	)
	ctx, cancel := c.withTimeout(ctx)
	fail := func(err error) (ragchat.Stream, error) {
		cancel()
		endSpan(span, err)
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("backend: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.do(ctx, httpReq)
	if err != nil {
		return fail(fmt.Errorf("backend: %w", err))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return fail(parseHTTPError(resp))
	}

	return &stream{
		body:    resp.Body,
		decoder: sse.NewDecoder(resp.Body, sse.WithLogger(c.logger)),
		span:    span,
		cancel:  cancel,
		logger:  c.logger,
	}, nil
}

// stream implements [ragchat.Stream] over an HTTP response body.
type stream struct {
	body    io.ReadCloser
	decoder *sse.Decoder
	span    trace.Span
	cancel  func()
	logger  *zap.Logger

	events  int
	closed  bool
	endOnce sync.Once
}

// Interface compliance check.
var _ ragchat.Stream = (*stream)(nil)

// Next returns the next decoded event. It returns io.EOF when the body is
// exhausted.
func (s *stream) Next() (ragchat.Event, error) {
	if s.closed {
		return nil, ragchat.ErrStreamClosed
	}
	evt, err := s.decoder.Next()
	if err == io.EOF {
		s.end(nil)
		return nil, io.EOF
	}
	if err != nil {
		err = fmt.Errorf("backend: %w", err)
		s.end(err)
		return nil, err
	}
	s.events++
	return evt, nil
}

// Close releases the response body. It is safe to call more than once.
func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.body.Close()
	s.cancel()
	s.end(nil)
	return err
}

func (s *stream) end(err error) {
	s.endOnce.Do(func() {
		s.span.SetAttributes(
			attribute.Int("ragchat.events", s.events),
			attribute.Int("ragchat.frames.skipped", s.decoder.Skipped()),
		)
		endSpan(s.span, err)
		if skipped := s.decoder.Skipped(); skipped > 0 {
			s.logger.Warn("stream contained unparseable frames", zap.Int("skipped", skipped))
		}
	})
}
