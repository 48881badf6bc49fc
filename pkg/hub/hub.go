// Package hub wires the five entity repositories to one store and offers
// the whole-dataset operations: load, export, import, clear and the
// dashboard summary.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/hearth/pkg/backup"
	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/model"
	"github.com/aretw0/hearth/pkg/repository"
	"github.com/aretw0/hearth/pkg/views"
)

type (
	NoteRepository      = repository.Repository[model.Note, model.NotePatch]
	EventRepository     = repository.Repository[model.CalendarEvent, model.CalendarEventPatch]
	ReminderRepository  = repository.Repository[model.Reminder, model.ReminderPatch]
	InventoryRepository = repository.Repository[model.InventoryItem, model.InventoryItemPatch]
	LendingRepository   = repository.Repository[model.LendingItem, model.LendingItemPatch]
)

// Hub owns one repository per entity kind, all backed by the same store.
type Hub struct {
	Notes     *NoteRepository
	Events    *EventRepository
	Reminders *ReminderRepository
	Inventory *InventoryRepository
	Lending   *LendingRepository

	store  core.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type options struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Hub.
type Option func(*options)

// WithLogger sets the logger shared by the hub and its repositories.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source (timestamps, toggles, exports).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides the id source for entities and todos.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// New builds the repositories over store. Call Load before reading.
func New(store core.Store, opts ...Option) *Hub {
	o := &options{
		now:   func() time.Time { return time.Now().Round(0) },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}

	repoOpts := []repository.Option{
		repository.WithLogger(o.logger),
		repository.WithClock(o.now),
		repository.WithIDGenerator(o.newID),
	}

	return &Hub{
		Notes:     repository.New[model.Note, model.NotePatch](store, noteKind(o.newID), repoOpts...),
		Events:    repository.New[model.CalendarEvent, model.CalendarEventPatch](store, eventKind(), repoOpts...),
		Reminders: repository.New[model.Reminder, model.ReminderPatch](store, reminderKind(), repoOpts...),
		Inventory: repository.New[model.InventoryItem, model.InventoryItemPatch](store, inventoryKind(), repoOpts...),
		Lending:   repository.New[model.LendingItem, model.LendingItemPatch](store, lendingKind(), repoOpts...),
		store:     store,
		logger:    o.logger,
		now:       o.now,
		newID:     o.newID,
	}
}

// Store returns the backing store.
func (h *Hub) Store() core.Store {
	return h.store
}

// collection is the part of a repository the hub drives generically.
type collection interface {
	Load(ctx context.Context) (repository.LoadReport, error)
	Records() ([]map[string]any, error)
	Subscribe(fn repository.Observer) func()
	State() any
}

func (h *Hub) collections() []collection {
	return []collection{h.Notes, h.Events, h.Reminders, h.Inventory, h.Lending}
}

func (h *Hub) byKey(key string) collection {
	for i, k := range model.Keys {
		if k == key {
			return h.collections()[i]
		}
	}
	return nil
}

// Load reads every repository from the store. Parse and decode problems
// are reported per key; store failures are joined into the error.
func (h *Hub) Load(ctx context.Context) ([]repository.LoadReport, error) {
	var errs []error
	reports := make([]repository.LoadReport, 0, len(model.Keys))
	for _, c := range h.collections() {
		report, err := c.Load(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

// Reload re-reads the repository stored under key.
func (h *Hub) Reload(ctx context.Context, key string) (repository.LoadReport, error) {
	c := h.byKey(key)
	if c == nil {
		return repository.LoadReport{}, fmt.Errorf("%w: %s", core.ErrInvalidKey, key)
	}
	return c.Load(ctx)
}

// Export renders every collection as a backup document.
func (h *Hub) Export() ([]byte, error) {
	raw := make(map[string]json.RawMessage, len(model.Keys))
	for i, c := range h.collections() {
		records, err := c.Records()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", model.Keys[i], err)
		}
		raw[model.Keys[i]] = data
	}
	return backup.Encode(backup.New(raw, h.now()))
}

// Import overwrites each collection present in the backup with its stored
// text. Nothing is written unless the whole file parses. Repositories keep
// their current items until reloaded.
func (h *Hub) Import(ctx context.Context, data []byte) ([]string, error) {
	doc, err := backup.Decode(data)
	if err != nil {
		return nil, err
	}
	collections, err := doc.Collections()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, key := range model.Keys {
		text, ok := collections[key]
		if !ok {
			continue
		}
		if err := h.store.Set(ctx, key, text); err != nil {
			return written, err
		}
		written = append(written, key)
	}
	if h.logger != nil {
		h.logger.Info("backup imported", "keys", written)
	}
	return written, nil
}

// Clear removes every collection from the store. Repositories keep their
// current items until reloaded.
func (h *Hub) Clear(ctx context.Context) error {
	for _, key := range model.Keys {
		if err := h.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	if h.logger != nil {
		h.logger.Info("all data cleared")
	}
	return nil
}

// Snapshot copies every collection.
func (h *Hub) Snapshot() views.Collections {
	return views.Collections{
		Notes:     h.Notes.Items(),
		Events:    h.Events.Items(),
		Reminders: h.Reminders.Items(),
		Inventory: h.Inventory.Items(),
		Lending:   h.Lending.Items(),
	}
}

// Summary computes the dashboard overview at the hub's current time.
func (h *Hub) Summary() views.Summary {
	return views.Summarize(h.Snapshot(), h.now())
}

// Subscribe registers fn on every repository.
func (h *Hub) Subscribe(fn repository.Observer) (cancel func()) {
	cancels := make([]func(), 0, len(model.Keys))
	for _, c := range h.collections() {
		cancels = append(cancels, c.Subscribe(fn))
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

// HubState exposes internal state for observability.
type HubState struct {
	Repositories []any `json:"repositories"`
	Store        any   `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (h *Hub) State() any {
	st := HubState{}
	for _, c := range h.collections() {
		st.Repositories = append(st.Repositories, c.State())
	}
	if s, ok := h.store.(introspection.Introspectable); ok {
		st.Store = s.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (h *Hub) ComponentType() string {
	return "hub"
}

var (
	_ introspection.Introspectable = (*Hub)(nil)
	_ introspection.Component      = (*Hub)(nil)
)
