package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. A zero TTL keeps entries until they are
// deleted.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]entry
	ttl         time.Duration
	loadTimeout time.Duration
	generation  uint64
	flight      singleflight.Group
	now         func() time.Time
}

// NewStore builds a Store. Shared loads are detached from the caller that
// started them and bounded by loadTimeout; zero leaves them unbounded.
func NewStore(ttl, loadTimeout time.Duration) *Store {
	return &Store{
		entries:     make(map[string]entry),
		ttl:         ttl,
		loadTimeout: loadTimeout,
		now:         time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	var forgotten []string
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			forgotten = append(forgotten, key)
		}
	}
	s.generation++
	s.mu.Unlock()

	for _, key := range forgotten {
		s.flight.Forget(key)
	}
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers. A load that overlaps a delete is returned to its
// callers but not stored. A caller whose ctx ends stops waiting without
// failing the load for the others.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	ch := s.flight.DoChan(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		s.mu.RLock()
		generation := s.generation
		s.mu.RUnlock()

		loadCtx := context.WithoutCancel(ctx)
		if s.loadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, s.loadTimeout)
			defer cancel()
		}

		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}

		s.mu.Lock()
		if s.generation == generation {
			s.entries[key] = s.newEntry(loaded)
		}
		s.mu.Unlock()
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

func (s *Store) newEntry(value any) entry {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}
