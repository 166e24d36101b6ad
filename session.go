package ragchat

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHistoryWindow is the number of prior turns sent with each query.
const DefaultHistoryWindow = 6

// FailurePrefix starts the assistant turn that replaces an answer lost to a
// transport failure.
const FailurePrefix = "⚠️ Failed to get response: "

// Snapshot is a read-only view of the session published to observers.
// Version increases with every published change, so consumers receiving
// snapshots out of order can discard stale ones.
type Snapshot struct {
	Turns     []Turn
	Streaming bool
	Version   uint64
}

// Session owns a single conversation transcript and drives one streaming
// exchange at a time against a Transport.
//
// The transcript is only mutated by Session. At most one assistant turn is
// in progress, and while Streaming reports true it is the trailing turn.
type Session struct {
	transport     Transport
	logger        *zap.Logger
	observer      func(Snapshot)
	historyWindow int
	stopOnError   bool

	mu        sync.Mutex
	turns     []Turn
	streaming bool
	token     uuid.UUID // identity of the current exchange
	cancel    context.CancelFunc
	version   uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets a callback that receives a snapshot after every
// transcript change, including each applied event. It is called
// synchronously from the goroutine that made the change and must not block
// for long.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Session) { s.observer = fn }
}

// WithHistoryWindow sets how many prior turns are sent with each query.
// Zero sends no history.
func WithHistoryWindow(n int) Option {
	return func(s *Session) { s.historyWindow = max(n, 0) }
}

// WithStopOnError makes an in-band EventError end the exchange after it has
// been folded into the answer. By default the stream continues.
func WithStopOnError(stop bool) Option {
	return func(s *Session) { s.stopOnError = stop }
}

// NewSession creates an idle Session with an empty transcript.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		transport:     transport,
		logger:        zap.NewNop(),
		historyWindow: DefaultHistoryWindow,
		token:         uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage submits a query and blocks until its answer stream ends.
//
// An empty query returns an error wrapping ErrValidation and a call made
// while another exchange is in flight returns ErrStreaming; neither changes
// the session. A nil or empty documentIDs searches all documents.
//
// Transport failures replace the in-progress answer with a failure notice
// and are returned. In-band service errors are folded into the answer and
// do not produce an error.
func (s *Session) SendMessage(ctx context.Context, query string, documentIDs []string) error {
	req := Request{Query: strings.TrimSpace(query)}
	if len(documentIDs) > 0 {
		req.DocumentIDs = slices.Clone(documentIDs)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.streaming {
		s.mu.Unlock()
		return ErrStreaming
	}
	req.History = historyOf(s.turns, s.historyWindow)
	s.turns = append(s.turns, UserTurn(req.Query), AssistantTurn(""))
	s.streaming = true
	token := uuid.New()
	s.token = token
	s.cancel = cancel
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)

	defer s.finish(token)

	log := s.logger.With(zap.Stringer("exchange", token))
	log.Info("sending query",
		zap.Int("query_len", len(req.Query)),
		zap.Int("documents", len(req.DocumentIDs)),
		zap.Int("history", len(req.History)),
	)

	stream, err := s.transport.Stream(ctx, req)
	if err != nil {
		return s.fail(log, token, err)
	}
	defer stream.Close()

	acc := NewAccumulator()
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			log.Info("answer complete")
			return nil
		}
		if err != nil {
			return s.fail(log, token, err)
		}
		if !s.apply(token, acc.Apply(evt)) {
			log.Debug("dropping event from abandoned exchange")
			return context.Canceled
		}
		switch e := evt.(type) {
		case EventDone:
			log.Info("answer complete")
			return nil
		case EventError:
			log.Warn("service reported error", zap.String("message", e.Message))
			if s.stopOnError {
				return nil
			}
		}
	}
}

// ClearMessages empties the transcript. An in-flight exchange is cancelled
// and any of its late events are dropped.
func (s *Session) ClearMessages() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.turns = nil
	s.streaming = false
	s.token = uuid.New()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// Transcript returns a copy of the transcript.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTurns(s.turns)
}

// Streaming reports whether an exchange is in flight.
func (s *Session) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Snapshot returns the current transcript and streaming state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Turns: cloneTurns(s.turns), Streaming: s.streaming, Version: s.version}
}

// apply writes turn into the trailing transcript slot if token still
// identifies the in-flight exchange.
func (s *Session) apply(token uuid.UUID, turn Turn) bool {
	s.mu.Lock()
	if !s.currentLocked(token) {
		s.mu.Unlock()
		return false
	}
	s.turns[len(s.turns)-1] = turn
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return true
}

// fail replaces the in-progress answer with a failure notice. Failures of
// an abandoned exchange leave the transcript untouched.
func (s *Session) fail(log *zap.Logger, token uuid.UUID, err error) error {
	s.mu.Lock()
	if !s.currentLocked(token) {
		s.mu.Unlock()
		log.Debug("ignoring failure of abandoned exchange", zap.Error(err))
		return context.Canceled
	}
	s.turns[len(s.turns)-1] = AssistantTurn(FailurePrefix + err.Error())
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	log.Error("transport failure", zap.Error(err))
	return fmt.Errorf("send message: %w", err)
}

// finish returns the session to idle. It runs on every exit path of
// SendMessage.
func (s *Session) finish(token uuid.UUID) {
	s.mu.Lock()
	if !s.currentLocked(token) {
		s.mu.Unlock()
		return
	}
	s.streaming = false
	s.cancel = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

func (s *Session) currentLocked(token uuid.UUID) bool {
	return s.streaming && s.token == token && len(s.turns) > 0
}

func (s *Session) snapshotLocked() Snapshot {
	s.version++
	return Snapshot{Turns: cloneTurns(s.turns), Streaming: s.streaming, Version: s.version}
}

func (s *Session) publish(snap Snapshot) {
	if s.observer != nil {
		s.observer(snap)
	}
}

func cloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	for i, t := range turns {
		out[i] = t.Clone()
	}
	return out
}
