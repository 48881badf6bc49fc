package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly       = errors.New("store is in read-only mode")
	ErrQuotaExceeded  = errors.New("store quota exceeded")
	ErrInvalidKey     = errors.New("invalid store key")
	ErrUnknownField   = errors.New("unknown field")
	ErrNotWatchable   = errors.New("store does not support watching")
	ErrUnknownAdapter = errors.New("unknown store adapter")
)

// StorageError reports a failed store operation.
// It is surfaced to the caller and never retried.
type StorageError struct {
	Op  string // "get", "set" or "remove"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError reports text that is not valid JSON for a whole collection or
// an imported backup.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
