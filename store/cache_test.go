package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bluesky-social/apbridge/activitypub/lookup"
	"github.com/bluesky-social/apbridge/activitypub/mapping"

	"github.com/stretchr/testify/assert"
)

type countingLoader struct {
	inner lookup.EntityLoader
	calls atomic.Int64
	delay time.Duration
}

func (l *countingLoader) LoadEntity(ctx context.Context, typeID, id string) (mapping.Entity, error) {
	l.calls.Add(1)
	time.Sleep(l.delay)
	return l.inner.LoadEntity(ctx, typeID, id)
}

func TestCachedLoader(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mock := lookup.NewMockLoader()
	mock.Insert(mapping.NewMockEntity(mapping.NewRef("post", "1"), "post"))
	inner := &countingLoader{inner: &mock}
	c := NewCachedLoader(inner, 100, time.Hour, time.Hour)

	for i := 0; i < 3; i++ {
		ent, err := c.LoadEntity(ctx, "post", "1")
		assert.NoError(err)
		assert.Equal(mapping.NewRef("post", "1"), ent.Ref())
	}
	assert.Equal(int64(1), inner.calls.Load())

	// negative results are cached as well
	for i := 0; i < 2; i++ {
		_, err := c.LoadEntity(ctx, "post", "2")
		assert.True(errors.Is(err, lookup.ErrNotFound))
	}
	assert.Equal(int64(2), inner.calls.Load())

	c.Purge(mapping.NewRef("post", "1"))
	_, err := c.LoadEntity(ctx, "post", "1")
	assert.NoError(err)
	assert.Equal(int64(3), inner.calls.Load())
}

func TestCachedLoaderErrorTTL(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mock := lookup.NewMockLoader()
	inner := &countingLoader{inner: &mock}
	c := NewCachedLoader(inner, 100, time.Hour, time.Millisecond)

	_, err := c.LoadEntity(ctx, "post", "1")
	assert.Error(err)
	time.Sleep(5 * time.Millisecond)

	mock.Insert(mapping.NewMockEntity(mapping.NewRef("post", "1"), "post"))
	ent, err := c.LoadEntity(ctx, "post", "1")
	assert.NoError(err)
	assert.NotNil(ent)
	assert.Equal(int64(2), inner.calls.Load())
}

func TestCachedLoaderCoalesce(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mock := lookup.NewMockLoader()
	mock.Insert(mapping.NewMockEntity(mapping.NewRef("post", "1"), "post"))
	inner := &countingLoader{inner: &mock, delay: 50 * time.Millisecond}
	c := NewCachedLoader(inner, 100, time.Hour, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.LoadEntity(ctx, "post", "1")
			assert.NoError(err)
		}()
	}
	wg.Wait()
	assert.Less(inner.calls.Load(), int64(10))
}

// fails with the context's error once it is done, and with errs[n] on the n-th call if set
type contextLoader struct {
	inner lookup.EntityLoader
	errs  []error
	calls int
}

func (l *contextLoader) LoadEntity(ctx context.Context, typeID, id string) (mapping.Entity, error) {
	n := l.calls
	l.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < len(l.errs) && l.errs[n] != nil {
		return nil, l.errs[n]
	}
	return l.inner.LoadEntity(ctx, typeID, id)
}

func TestCachedLoaderCancelledCaller(t *testing.T) {
	assert := assert.New(t)

	mock := lookup.NewMockLoader()
	mock.Insert(mapping.NewMockEntity(mapping.NewRef("post", "1"), "post"))
	inner := &contextLoader{inner: &mock}
	c := NewCachedLoader(inner, 100, time.Hour, time.Hour)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ent, err := c.LoadEntity(cancelled, "post", "1")
	assert.NoError(err)
	assert.NotNil(ent)

	ent, err = c.LoadEntity(context.Background(), "post", "1")
	assert.NoError(err)
	assert.NotNil(ent)
	assert.Equal(1, inner.calls)
}

func TestCachedLoaderTimeoutNotCached(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	mock := lookup.NewMockLoader()
	mock.Insert(mapping.NewMockEntity(mapping.NewRef("post", "1"), "post"))
	inner := &contextLoader{inner: &mock, errs: []error{
		fmt.Errorf("loading post 1: %w", context.DeadlineExceeded),
		context.Canceled,
	}}
	c := NewCachedLoader(inner, 100, time.Hour, time.Hour)

	_, err := c.LoadEntity(ctx, "post", "1")
	assert.True(errors.Is(err, context.DeadlineExceeded))
	_, err = c.LoadEntity(ctx, "post", "1")
	assert.True(errors.Is(err, context.Canceled))

	ent, err := c.LoadEntity(ctx, "post", "1")
	assert.NoError(err)
	assert.NotNil(ent)
	assert.Equal(3, inner.calls)
}
