package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almaghboub/FixerUpper/internal/domain"
	"github.com/almaghboub/FixerUpper/internal/notify"
)

// fakeAPI serves a fixed set of image ids split into pages.
type fakeAPI struct {
	mu        sync.Mutex
	ids       []string
	listCalls []int
	deletes   []string
	listErr   error
	deleteErr error
}

func newFakeAPI(n int) *fakeAPI {
	api := &fakeAPI{}
	for i := 1; i <= n; i++ {
		api.ids = append(api.ids, fmt.Sprintf("img-%d", i))
	}
	return api
}

func (a *fakeAPI) ListOrderImages(_ context.Context, page, limit int) (domain.PageResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls = append(a.listCalls, page)
	if a.listErr != nil {
		return domain.PageResult{}, a.listErr
	}

	start := (page - 1) * limit
	end := start + limit
	if start > len(a.ids) {
		start = len(a.ids)
	}
	if end > len(a.ids) {
		end = len(a.ids)
	}
	images := make([]domain.ImageRecord, 0, end-start)
	for _, id := range a.ids[start:end] {
		images = append(images, domain.ImageRecord{ID: id, URL: "https://x/" + id + ".png"})
	}
	return domain.PageResult{Images: images, Pagination: domain.NewPagination(page, limit, len(a.ids))}, nil
}

func (a *fakeAPI) DeleteOrderImage(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deletes = append(a.deletes, id)
	if a.deleteErr != nil {
		return a.deleteErr
	}
	for i, v := range a.ids {
		if v == id {
			a.ids = append(a.ids[:i], a.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (a *fakeAPI) networkCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.listCalls) + len(a.deletes)
}

func TestPaginationControlsFollowServerFlags(t *testing.T) {
	api := newFakeAPI(15)
	g := New(api, 10, WithPage(2))

	_, err := g.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, g.CanPrevious())
	assert.False(t, g.CanNext())

	moved, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 2, g.Page())

	moved, err = g.Previous(context.Background())
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 1, g.Page())
	assert.Equal(t, []int{2, 1}, api.listCalls)
	assert.False(t, g.CanPrevious())
	assert.True(t, g.CanNext())
}

func TestControlsDisabledBeforeFirstLoad(t *testing.T) {
	g := New(newFakeAPI(30), 10)
	assert.False(t, g.CanNext())
	assert.False(t, g.CanPrevious())
	assert.Nil(t, g.Images())
}

func TestPageIsNotClampedLocally(t *testing.T) {
	api := newFakeAPI(5)
	g := New(api, 10, WithPage(7))

	res, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Images)
	assert.Equal(t, 7, g.Page())
	assert.True(t, g.CanPrevious())

	_, err = g.Previous(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, g.Page())
}

func TestLoadUsesCache(t *testing.T) {
	api := newFakeAPI(25)
	g := New(api, 10)

	_, err := g.Load(context.Background())
	require.NoError(t, err)
	_, err = g.Next(context.Background())
	require.NoError(t, err)
	_, err = g.Previous(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, api.listCalls)
}

func TestFetchFailureSurfacedWithoutRetry(t *testing.T) {
	api := newFakeAPI(5)
	api.listErr = errors.New("503")
	g := New(api, 10)

	_, err := g.Load(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.ErrorIs(t, g.Err(), ErrFetchFailure)
	assert.Len(t, api.listCalls, 1)

	api.listErr = nil
	_, err = g.Load(context.Background())
	require.NoError(t, err)
	assert.NoError(t, g.Err())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := newFakeAPI(50)
	notes := &notify.Recorder{}
	g := New(api, 10, WithNotifier(notes))
	_, err := g.Load(context.Background())
	require.NoError(t, err)
	before := api.networkCalls()

	g.RequestDelete("img-42")
	assert.Equal(t, "img-42", g.PendingDelete())
	g.CancelDelete()

	assert.Empty(t, g.PendingDelete())
	assert.Equal(t, before, api.networkCalls())
	assert.Empty(t, notes.All())

	// Confirming with nothing pending sends nothing either.
	require.NoError(t, g.ConfirmDelete(context.Background()))
	assert.Equal(t, before, api.networkCalls())
}

func TestConfirmDeleteRefetchesCurrentPage(t *testing.T) {
	api := newFakeAPI(50)
	notes := &notify.Recorder{}
	g := New(api, 10, WithNotifier(notes), WithPage(5))
	_, err := g.Load(context.Background())
	require.NoError(t, err)

	g.RequestDelete("img-42")
	require.NoError(t, g.ConfirmDelete(context.Background()))

	assert.Equal(t, []string{"img-42"}, api.deletes)
	assert.Equal(t, []int{5, 5}, api.listCalls)
	assert.Empty(t, g.PendingDelete())
	assert.NotContains(t, ids(g.Images()), "img-42")

	last, ok := notes.Last()
	require.True(t, ok)
	assert.Equal(t, notify.SeveritySuccess, last.Severity)
}

func TestConfirmDeleteFailure(t *testing.T) {
	api := newFakeAPI(10)
	api.deleteErr = errors.New("500")
	notes := &notify.Recorder{}
	g := New(api, 10, WithNotifier(notes))
	_, err := g.Load(context.Background())
	require.NoError(t, err)

	g.RequestDelete("img-3")
	err = g.ConfirmDelete(context.Background())

	assert.ErrorIs(t, err, ErrDeleteFailure)
	assert.Empty(t, g.PendingDelete())
	assert.Equal(t, []int{1}, api.listCalls)

	last, _ := notes.Last()
	assert.Equal(t, notify.SeverityError, last.Severity)
}

func TestQueryCacheInvalidate(t *testing.T) {
	var calls int
	c := NewQueryCache(func(_ context.Context, page, limit int) (domain.PageResult, error) {
		calls++
		return domain.PageResult{Pagination: domain.NewPagination(page, limit, 100)}, nil
	})

	_, err := c.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = c.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = c.Get(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	c.Invalidate()
	_, err = c.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestQueryCacheDoesNotCacheErrors(t *testing.T) {
	var calls int
	c := NewQueryCache(func(context.Context, int, int) (domain.PageResult, error) {
		calls++
		return domain.PageResult{}, errors.New("boom")
	})

	_, err := c.Get(context.Background(), 1, 10)
	assert.Error(t, err)
	_, err = c.Get(context.Background(), 1, 10)
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func ids(images []domain.ImageRecord) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.ID
	}
	return out
}
