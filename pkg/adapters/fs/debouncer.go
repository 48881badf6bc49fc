package fs

import (
	"sync"
	"time"

	"github.com/aretw0/hearth/pkg/core"
)

// debouncer coalesces bursts of events per key: only the last event of a
// burst is emitted, delay after the burst ends.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[e.Key]; ok {
		e = merge(prev, e)
	}
	d.pending[e.Key] = e

	if t, ok := d.timers[e.Key]; ok && t.Stop() {
		t.Reset(d.delay)
		return
	}

	key := e.Key
	var t *time.Timer
	d.wg.Add(1)
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[key] != t {
			// superseded by a newer timer or dropped by stopAndWait
			d.mu.Unlock()
			return
		}
		ev := d.pending[key]
		delete(d.pending, key)
		delete(d.timers, key)
		d.mu.Unlock()

		emit(ev)
	})
	d.timers[key] = t
}

// merge folds a burst: a file created then written is still new, and a
// file deleted then recreated was modified.
func merge(prev, next core.Event) core.Event {
	switch {
	case prev.Type == core.EventCreate && next.Type == core.EventModify:
		next.Type = core.EventCreate
	case prev.Type == core.EventDelete && next.Type == core.EventCreate:
		next.Type = core.EventModify
	}
	return next
}

// stopAndWait drops pending events and waits for in-flight emits, up to
// timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	clear(d.pending)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
