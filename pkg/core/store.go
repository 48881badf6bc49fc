package core

import "context"

// Store is the contract for a durable key -> text store.
// Callers always write a whole serialized collection under one key.
type Store interface {
	// Get returns the value stored under key. ok is false when nothing is
	// stored yet, which is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Watchable is implemented by stores that can report changes made by other
// processes (e.g. a second CLI invocation or a manual edit).
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by stores holding resources (files, connections).
type Closer interface {
	Close() error
}
