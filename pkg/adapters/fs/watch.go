package fs

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/hearth/pkg/core"
)

// Watch reports changes made to matching keys by anything other than this
// store: another process, an editor or a git checkout. pattern is a
// doublestar glob over keys; empty matches everything. The channel is
// closed once ctx is done and the watcher has drained.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	// Baseline so that only later changes are reported.
	s.reconcile(pattern)

	events := make(chan core.Event, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		<-w.done
		close(events)
		return nil
	})

	return events, nil
}

// reconcile compares every matching file with the content last seen and
// returns an event per difference.
func (s *Store) reconcile(pattern string) []core.Event {
	now := time.Now()

	keys, err := s.Keys()
	if err != nil {
		if s.config.Logger != nil {
			s.config.Logger.Error("reconcile failed", "error", err)
		}
		return nil
	}

	present := make(map[string]bool, len(keys))
	var events []core.Event
	for _, key := range keys {
		if !matches(pattern, key) {
			continue
		}
		present[key] = true

		s.mu.RLock()
		_, known := s.known[key]
		s.mu.RUnlock()

		if s.changed(key) {
			t := core.EventModify
			if !known {
				t = core.EventCreate
			}
			events = append(events, core.Event{Type: t, Key: key, Timestamp: now.Unix()})
		}
	}

	s.mu.Lock()
	for key := range s.known {
		if matches(pattern, key) && !present[key] {
			delete(s.known, key)
			events = append(events, core.Event{Type: core.EventDelete, Key: key, Timestamp: now.Unix()})
		}
	}
	s.lastReconcile = &now
	s.mu.Unlock()

	return events
}

func matches(pattern, key string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, key)
	return err == nil && ok
}

var _ core.Watchable = (*Store)(nil)
