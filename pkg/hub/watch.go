package hub

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/hearth/pkg/core"
)

// WatchPattern matches every collection key.
const WatchPattern = "productivity-*"

// Watch reloads a repository whenever its key is changed by another
// process, then forwards the change. The channel closes when ctx is done.
// Stores without change notification return core.ErrNotWatchable.
func (h *Hub) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := h.store.(core.Watchable)
	if !ok {
		return nil, core.ErrNotWatchable
	}
	events, err := w.Watch(ctx, WatchPattern)
	if err != nil {
		return nil, err
	}

	out := make(chan core.Event)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				h.reloadOnChange(ctx, e)
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if h.logger != nil {
			h.logger.Error("watch loop failed", "error", err)
		}
	}))

	return out, nil
}

func (h *Hub) reloadOnChange(ctx context.Context, e core.Event) {
	report, err := h.Reload(ctx, e.Key)
	if h.logger == nil {
		return
	}
	if err != nil {
		h.logger.Error("reload failed", "key", e.Key, "error", err)
		return
	}
	h.logger.Debug("reloaded after external change",
		"key", e.Key,
		"type", e.Type,
		"items", report.Loaded,
		"dropped", len(report.Dropped),
	)
}
