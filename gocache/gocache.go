// Package gocache caches document listings in memory using go-cache.
package gocache

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/ragchat"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DefaultTTL matches the interval at which the TUI polls the listing.
const DefaultTTL = 5 * time.Second

// Interface compliance check.
var _ ragchat.DocumentService = (*DocumentService)(nil)

// DocumentService wraps a [ragchat.DocumentService] and serves repeated
// listings from memory until they expire. Uploads and deletes drop every
// cached listing.
type DocumentService struct {
	next   ragchat.DocumentService
	cache  *cache.Cache
	logger *zap.Logger
}

// Option configures a [DocumentService].
type Option func(*options)

type options struct {
	ttl    time.Duration
	logger *zap.Logger
}

// WithTTL sets how long a listing is served from memory.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithLogger sets the logger for cache hits and misses.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New wraps next with a listing cache.
func New(next ragchat.DocumentService, opts ...Option) *DocumentService {
	o := options{ttl: DefaultTTL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &DocumentService{
		next:   next,
		cache:  cache.New(o.ttl, 2*o.ttl),
		logger: o.logger,
	}
}

// ListDocuments returns a cached listing for opts, fetching it on a miss.
// Failed fetches are not cached.
func (s *DocumentService) ListDocuments(ctx context.Context, opts ragchat.ListOptions) (ragchat.DocumentPage, error) {
	key := listKey(opts)
	if x, found := s.cache.Get(key); found {
		s.logger.Debug("document listing cache hit", zap.String("key", key))
		return clonePage(x.(ragchat.DocumentPage)), nil
	}
	s.logger.Debug("document listing cache miss", zap.String("key", key))

	page, err := s.next.ListDocuments(ctx, opts)
	if err != nil {
		return ragchat.DocumentPage{}, err
	}
	s.cache.Set(key, clonePage(page), cache.DefaultExpiration)
	return page, nil
}

// UploadDocuments uploads through the wrapped service and invalidates the
// cache.
func (s *DocumentService) UploadDocuments(ctx context.Context, uploads []ragchat.Upload) ([]ragchat.Document, error) {
	defer s.Invalidate()
	return s.next.UploadDocuments(ctx, uploads)
}

// DeleteDocument deletes through the wrapped service and invalidates the
// cache.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	defer s.Invalidate()
	return s.next.DeleteDocument(ctx, id)
}

// Invalidate drops every cached listing.
func (s *DocumentService) Invalidate() {
	s.cache.Flush()
}

func listKey(opts ragchat.ListOptions) string {
	return fmt.Sprintf("documents:%s:%d:%d", opts.Status, opts.Page, opts.Limit)
}

func clonePage(p ragchat.DocumentPage) ragchat.DocumentPage {
	p.Documents = append([]ragchat.Document(nil), p.Documents...)
	return p
}
