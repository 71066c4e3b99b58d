package gallery

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/almaghboub/FixerUpper/internal/domain"
)

type FetchFunc func(ctx context.Context, page, limit int) (domain.PageResult, error)

type pageKey struct {
	page, limit int
}

// QueryCache holds fetched pages keyed by their query parameters. Entries
// are never patched; Invalidate drops them and the next read refetches.
type QueryCache struct {
	fetch FetchFunc
	group singleflight.Group

	mu         sync.Mutex
	entries    map[pageKey]domain.PageResult
	generation uint64
}

func NewQueryCache(fetch FetchFunc) *QueryCache {
	return &QueryCache{
		fetch:   fetch,
		entries: make(map[pageKey]domain.PageResult),
	}
}

// Get returns the cached page or fetches it. Concurrent reads of the same
// page share one request.
func (c *QueryCache) Get(ctx context.Context, page, limit int) (domain.PageResult, error) {
	key := pageKey{page, limit}

	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return res, nil
	}
	gen := c.generation
	c.mu.Unlock()

	// The generation keeps a fetch started after Invalidate from joining
	// one that began before it.
	flight := fmt.Sprintf("%d/%d/%d", gen, page, limit)
	v, err, _ := c.group.Do(flight, func() (interface{}, error) {
		res, err := c.fetch(ctx, page, limit)
		if err != nil {
			return domain.PageResult{}, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.entries[key] = res
		}
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return domain.PageResult{}, err
	}
	return v.(domain.PageResult), nil
}

func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[pageKey]domain.PageResult)
}
