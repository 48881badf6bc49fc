package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/hearth/pkg/core"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	Versioning    bool       `json:"versioning"`
	ReadOnly      bool       `json:"read_only"`
	Keys          []string   `json:"keys"`
	WatcherActive bool       `json:"watcher_active"`
	LastReconcile *time.Time `json:"last_reconcile,omitempty"`
	LastCommit    string     `json:"last_commit,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.known))
	for k := range s.known {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return StoreState{
		Path:          s.Path,
		Versioning:    s.git != nil,
		ReadOnly:      s.config.ReadOnly,
		Keys:          keys,
		WatcherActive: s.watcherActive,
		LastReconcile: s.lastReconcile,
		LastCommit:    s.lastCommit,
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

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
