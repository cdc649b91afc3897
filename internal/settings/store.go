package settings

import (
	"context"
	"fmt"
	"sync"
)

// KV is a flat key-value backend.
type KV interface {
	// Get returns every stored value. Missing keys are simply absent.
	Get(ctx context.Context) (map[string]string, error)
	// Set writes the given values, replacing existing ones.
	Set(ctx context.Context, values map[string]string) error
}

// Store reads and writes Settings through a KV backend and caches the last
// loaded value until the next Save.
type Store struct {
	kv KV

	mu     sync.RWMutex
	cached *Settings
	// gen is bumped by every Save and Invalidate. A Load only caches what
	// it read when no write happened in between.
	gen uint64
}

// NewStore creates a settings store on top of kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns persisted settings merged over Defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	if s.cached != nil {
		cur := *s.cached
		s.mu.RUnlock()
		return cur, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	values, err := s.kv.Get(ctx)
	if err != nil {
		return Defaults(), fmt.Errorf("%w: reading settings: %w", ErrStorage, err)
	}

	loaded, err := Defaults().Merge(values)
	if err != nil {
		return Defaults(), fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cached = &loaded
	}
	s.mu.Unlock()

	return loaded, nil
}

// Save validates and persists settings. When validation fails nothing is
// written and the reverted settings are returned with the error.
func (s *Store) Save(ctx context.Context, next Settings) (Settings, error) {
	next, err := next.Validate()
	if err != nil {
		return next, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.gen++
	if err := s.kv.Set(ctx, next.Values()); err != nil {
		return next, fmt.Errorf("%w: writing settings: %w", ErrStorage, err)
	}
	return next, nil
}

// Invalidate drops the cached settings so the next Load reads the backend.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}
