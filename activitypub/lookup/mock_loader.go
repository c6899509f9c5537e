package lookup

import (
	"context"
	"fmt"
	"sync"

	"github.com/bluesky-social/apbridge/activitypub/mapping"
)

// A fake entity store, for use in tests
type MockLoader struct {
	mu       *sync.RWMutex
	Entities map[mapping.Ref]mapping.Entity
	// Returned for every lookup, if set
	Err error
}

var _ EntityLoader = (*MockLoader)(nil)

func NewMockLoader() MockLoader {
	return MockLoader{
		mu:       &sync.RWMutex{},
		Entities: make(map[mapping.Ref]mapping.Entity),
	}
}

func (l *MockLoader) Insert(ent mapping.Entity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entities[ent.Ref()] = ent
}

func (l *MockLoader) LoadEntity(ctx context.Context, typeID, id string) (mapping.Entity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.Err != nil {
		return nil, l.Err
	}
	ent, ok := l.Entities[mapping.NewRef(typeID, id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, typeID, id)
	}
	return ent, nil
}
