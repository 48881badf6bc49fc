// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/hearth/pkg/core"
)

// Filter decides whether an event is forwarded. A nil Filter forwards all.
type Filter func(core.Event) bool

type changeSource struct {
	events <-chan core.Event
	filter Filter
	out    chan lifecycle.Event
}

// NewSource bridges a channel of store events to a lifecycle.Source.
// The source's channel closes when events closes or the context passed to
// Start is done.
func NewSource(events <-chan core.Event, filter Filter) lifecycle.Source {
	return &changeSource{
		events: events,
		filter: filter,
		out:    make(chan lifecycle.Event),
	}
}

// Types returns a Filter matching only the given event types.
func Types(types ...core.EventType) Filter {
	return func(e core.Event) bool {
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
		return false
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.filter != nil && !s.filter(e) {
					continue
				}
				// core.Event implements lifecycle.Event.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
