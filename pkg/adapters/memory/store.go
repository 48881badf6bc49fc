// Package memory provides a map-backed store, optionally bounded by a byte
// quota the way a browser's local storage is.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/hearth/pkg/core"
)

// Store keeps every key in memory. The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	quota  int
	writes int
}

// Option configures a Store.
type Option func(*Store)

// WithQuota bounds the total size (keys plus values, in bytes).
// Zero disables the limit.
func WithQuota(bytes int) Option {
	return func(s *Store) {
		s.quota = bytes
	}
}

// WithData seeds the store.
func WithData(data map[string]string) Option {
	return func(s *Store) {
		for k, v := range data {
			s.data[k] = v
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{data: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, &core.StorageError{Op: "get", Key: key, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "set", Key: key, Err: err}
	}
	if key == "" {
		return &core.StorageError{Op: "set", Key: key, Err: core.ErrInvalidKey}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		size := s.sizeLocked() + len(key) + len(value)
		if old, ok := s.data[key]; ok {
			size -= len(key) + len(old)
		}
		if size > s.quota {
			return &core.StorageError{
				Op:  "set",
				Key: key,
				Err: fmt.Errorf("%w: %d of %d bytes", core.ErrQuotaExceeded, size, s.quota),
			}
		}
	}

	s.data[key] = value
	s.writes++
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "remove", Key: key, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Keys returns the stored keys in lexical order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Writes returns how many Set calls succeeded.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) sizeLocked() int {
	n := 0
	for k, v := range s.data {
		n += len(k) + len(v)
	}
	return n
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Keys   []string `json:"keys"`
	Bytes  int      `json:"bytes"`
	Quota  int      `json:"quota,omitempty"`
	Writes int      `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	keys := s.Keys()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Keys:   keys,
		Bytes:  s.sizeLocked(),
		Quota:  s.quota,
		Writes: s.writes,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var (
	_ core.Store                   = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
