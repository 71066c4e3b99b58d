// Package gallery holds the client state of the order image gallery:
// the current page, delete confirmation and the lightbox viewer.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/domain"
	"github.com/almaghboub/FixerUpper/internal/notify"
)

var (
	ErrFetchFailure  = errors.New("failed to fetch images")
	ErrDeleteFailure = errors.New("failed to delete image")
)

// API is the part of the backend the gallery reads from and deletes through.
type API interface {
	ListOrderImages(ctx context.Context, page, limit int) (domain.PageResult, error)
	DeleteOrderImage(ctx context.Context, imageID string) error
}

type Gallery struct {
	api      API
	cache    *QueryCache
	notifier notify.Notifier
	log      *zap.Logger

	mu            sync.Mutex
	page          int
	limit         int
	current       *domain.PageResult
	err           error
	pendingDelete string
}

type Option func(*Gallery)

func WithNotifier(n notify.Notifier) Option {
	return func(g *Gallery) { g.notifier = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Gallery) { g.log = log }
}

// WithPage sets the starting page.
func WithPage(page int) Option {
	return func(g *Gallery) { g.page = page }
}

func New(api API, limit int, opts ...Option) *Gallery {
	g := &Gallery{
		api:   api,
		page:  1,
		limit: limit,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.notifier == nil {
		g.notifier = notify.NewZap(g.log)
	}
	g.cache = NewQueryCache(api.ListOrderImages)
	return g
}

// Load fetches the current page through the cache. Failures are not
// retried; the previous page data stays visible.
func (g *Gallery) Load(ctx context.Context) (domain.PageResult, error) {
	g.mu.Lock()
	page, limit := g.page, g.limit
	g.mu.Unlock()

	res, err := g.cache.Get(ctx, page, limit)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.err = fmt.Errorf("%w: %w", ErrFetchFailure, err)
		g.log.Warn("Failed to fetch images", zap.Int("page", page), zap.Error(err))
		return domain.PageResult{}, g.err
	}
	// A page change while this fetch was in flight wins.
	if g.page == page {
		g.current = &res
		g.err = nil
	}
	return res, nil
}

func (g *Gallery) Page() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.page
}

func (g *Gallery) Limit() int {
	return g.limit
}

// Err is the last fetch error, cleared by the next successful load.
func (g *Gallery) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Images returns the records of the loaded page.
func (g *Gallery) Images() []domain.ImageRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	return g.current.Images
}

func (g *Gallery) Pagination() (domain.Pagination, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return domain.Pagination{}, false
	}
	return g.current.Pagination, true
}

// CanPrevious and CanNext trust only the server's flags.
func (g *Gallery) CanPrevious() bool {
	p, ok := g.Pagination()
	return ok && p.HasPrevious
}

func (g *Gallery) CanNext() bool {
	p, ok := g.Pagination()
	return ok && p.HasNext
}

// Previous moves back one page and loads it. It reports false without doing
// anything when the control is disabled.
func (g *Gallery) Previous(ctx context.Context) (bool, error) {
	if !g.CanPrevious() {
		return false, nil
	}
	g.mu.Lock()
	g.page--
	g.mu.Unlock()
	_, err := g.Load(ctx)
	return true, err
}

func (g *Gallery) Next(ctx context.Context) (bool, error) {
	if !g.CanNext() {
		return false, nil
	}
	g.mu.Lock()
	g.page++
	g.mu.Unlock()
	_, err := g.Load(ctx)
	return true, err
}

// RequestDelete opens the confirmation for imageID. Nothing is sent until
// ConfirmDelete.
func (g *Gallery) RequestDelete(imageID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingDelete = imageID
}

// PendingDelete is the image awaiting confirmation, or empty.
func (g *Gallery) PendingDelete() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pendingDelete
}

func (g *Gallery) CancelDelete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingDelete = ""
}

// ConfirmDelete deletes the pending image, then drops the cache and reloads
// the current page.
func (g *Gallery) ConfirmDelete(ctx context.Context) error {
	g.mu.Lock()
	id := g.pendingDelete
	g.pendingDelete = ""
	g.mu.Unlock()

	if id == "" {
		return nil
	}

	if err := g.api.DeleteOrderImage(ctx, id); err != nil {
		g.log.Warn("Failed to delete image", zap.String("id", id), zap.Error(err))
		g.notifier.Notify(notify.Notification{
			Title:       "Delete failed",
			Description: "The image could not be deleted. Please try again.",
			Severity:    notify.SeverityError,
		})
		return fmt.Errorf("%w %s: %w", ErrDeleteFailure, id, err)
	}

	g.cache.Invalidate()
	g.notifier.Notify(notify.Notification{
		Title:       "Image deleted",
		Description: "The image was deleted successfully.",
		Severity:    notify.SeveritySuccess,
	})
	g.log.Info("Image deleted", zap.String("id", id))

	_, err := g.Load(ctx)
	return err
}
