// Package core holds the storage contracts shared by every layer of hearth.
package core

import "fmt"

// EventType represents the type of change observed on a store key.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
	EventReorder EventType = "REORDER"
	EventReload  EventType = "RELOAD"
)

// Event represents a change to a store key or to a repository collection.
type Event struct {
	Type      EventType
	Key       string
	ID        string // Entity ID, empty for whole-collection events
	Timestamp int64  // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s", e.Type, e.Key)
	}
	return fmt.Sprintf("%s %s/%s", e.Type, e.Key, e.ID)
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit message)
// to stores that keep history.
const ChangeReasonKey contextKey = "change_reason"
