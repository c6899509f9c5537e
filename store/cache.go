package store

import (
	"context"
	"errors"
	"time"

	"github.com/bluesky-social/apbridge/activitypub/lookup"
	"github.com/bluesky-social/apbridge/activitypub/mapping"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// In-process LRU cache in front of another entity loader. Failed lookups are cached too, but only for ErrTTL; cancellations and timeouts are never cached. Concurrent misses for the same entity are coalesced in to a single inner lookup.
type CachedLoader struct {
	Inner  lookup.EntityLoader
	ErrTTL time.Duration
	cache  *expirable.LRU[mapping.Ref, EntityEntry]
	group  singleflight.Group
}

type EntityEntry struct {
	Updated time.Time
	Entity  mapping.Entity
	Err     error
}

var _ lookup.EntityLoader = (*CachedLoader)(nil)

// Capacity of zero means unlimited size. Similarly, ttl of zero means unlimited duration.
func NewCachedLoader(inner lookup.EntityLoader, capacity int, hitTTL, errTTL time.Duration) *CachedLoader {
	return &CachedLoader{
		Inner:  inner,
		ErrTTL: errTTL,
		cache:  expirable.NewLRU[mapping.Ref, EntityEntry](capacity, nil, hitTTL),
	}
}

func (c *CachedLoader) isStale(e *EntityEntry) bool {
	return e.Err != nil && time.Since(e.Updated) > c.ErrTTL
}

func (c *CachedLoader) LoadEntity(ctx context.Context, typeID, id string) (mapping.Entity, error) {
	ref := mapping.NewRef(typeID, id)
	entry, ok := c.cache.Get(ref)
	if ok && !c.isStale(&entry) {
		entityCacheHits.Inc()
		return entry.Entity, entry.Err
	}
	entityCacheMisses.Inc()

	// the shared load must not fail because the first caller went away
	loadCtx := context.WithoutCancel(ctx)
	v, _, shared := c.group.Do(ref.String(), func() (any, error) {
		ent, err := c.Inner.LoadEntity(loadCtx, typeID, id)
		e := EntityEntry{
			Updated: time.Now(),
			Entity:  ent,
			Err:     err,
		}
		if !isContextError(err) {
			c.cache.Add(ref, e)
		}
		return e, nil
	})
	if shared {
		entityRequestsCoalesced.Inc()
	}
	e := v.(EntityEntry)
	return e.Entity, e.Err
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Drops any cached result for the entity, eg after it was edited.
func (c *CachedLoader) Purge(ref mapping.Ref) {
	c.cache.Remove(ref)
}
