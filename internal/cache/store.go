package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

const (
	defaultTTL         = time.Hour
	defaultCapacity    = 1000
	shards             = 8
	evictionPercentage = 10
)

// Config controls the content cache.
type Config struct {
	Enabled  bool
	TTL      time.Duration
	Capacity int
}

// Store is a tag-indexed read-through cache. Each key belongs to one tag and
// invalidating a tag drops every key registered under it.
type Store struct {
	enabled bool
	backend *sturdyc.Client[any]
	flights singleflight.Group
	logger  interfaces.Logger

	mu     sync.Mutex
	epochs map[string]uint64
	index  map[string]map[string]struct{}
}

// New builds a store. A disabled store still deduplicates concurrent loads
// but never keeps results.
func New(cfg Config, logger interfaces.Logger) *Store {
	if logger == nil {
		logger = logging.NoOp()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{
		enabled: cfg.Enabled,
		backend: sturdyc.New[any](capacity, shards, ttl, evictionPercentage),
		logger:  logger,
		epochs:  map[string]uint64{},
		index:   map[string]map[string]struct{}{},
	}
}

// Fetch returns the cached value for key or runs load once for all
// concurrent callers. Errors are returned but never cached. A result whose
// tag was invalidated while load was running is handed to the callers that
// asked for it and then dropped.
func Fetch[T any](ctx context.Context, s *Store, tag, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.enabled {
		if cached, ok := s.backend.Get(key); ok {
			if cached == nil {
				return zero, nil
			}
			if value, ok := cached.(T); ok {
				return value, nil
			}
		}
	}

	epoch := s.Epoch(tag)
	flight := key + "#" + strconv.FormatUint(epoch, 10)
	ch := s.flights.DoChan(flight, func() (any, error) {
		value, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.store(tag, key, epoch, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Val == nil {
			return zero, nil
		}
		value, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: unexpected value type %T for key %s", res.Val, key)
		}
		return value, nil
	}
}

func (s *Store) store(tag, key string, epoch uint64, value any) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochs[tag] != epoch {
		s.logger.Debug("cache.write.discarded", "tag", tag, "cache_key", key)
		return
	}
	keys, ok := s.index[tag]
	if !ok {
		keys = map[string]struct{}{}
		s.index[tag] = keys
	}
	keys[key] = struct{}{}
	s.backend.Set(key, value)
}

// Invalidate drops every key stored under tags and returns how many keys
// were removed.
func (s *Store) Invalidate(tags ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, tag := range tags {
		s.epochs[tag]++
		for key := range s.index[tag] {
			s.backend.Delete(key)
			removed++
		}
		delete(s.index, tag)
	}
	return removed
}

// Epoch reports how many times tag was invalidated.
func (s *Store) Epoch(tag string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs[tag]
}

// Keys lists the keys currently registered under tag.
func (s *Store) Keys(tag string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.index[tag]))
	for key := range s.index[tag] {
		out = append(out, key)
	}
	return out
}
