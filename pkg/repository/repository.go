// Package repository keeps one entity kind as an ordered in-memory
// collection mirrored, whole, under a single store key.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/hearth/pkg/codec"
	"github.com/aretw0/hearth/pkg/core"
)

var (
	errMissingID   = errors.New("missing id")
	errDuplicateID = errors.New("duplicate id")
)

// Patch is a typed partial update of T.
type Patch[T any] interface {
	Apply(*T)
}

// Kind describes how a repository handles one entity type.
type Kind[T any] struct {
	Name   string
	Key    string // Store key holding the whole collection
	Schema codec.Schema

	// ID returns a pointer to the identifier field of an item.
	ID func(*T) *string

	// OnCreate runs after the id is assigned, before validation.
	OnCreate func(item *T, now time.Time)
	// OnUpdate runs after the patch is applied, before validation.
	OnUpdate func(prev T, item *T, now time.Time)
	// Clone deep-copies an item. Needed when T holds slices.
	Clone func(T) T
	// Validate rejects invalid items on create and update.
	Validate func(any) error
}

// Observer is notified after a mutation has been persisted.
type Observer func(core.Event)

// LoadReport summarizes a Load.
type LoadReport struct {
	Key        string
	Loaded     int
	Dropped    []*codec.DecodeError
	ParseError error
}

// Repository is the in-memory collection of one entity kind.
// Every mutation persists the full collection before it becomes visible.
type Repository[T any, P Patch[T]] struct {
	kind   Kind[T]
	store  core.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	mu    sync.RWMutex
	items []T

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

type options struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Repository.
type Option func(*options)

// WithLogger sets the logger used to report dropped records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides the id source (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// New creates an empty repository. Call Load to read the store.
func New[T any, P Patch[T]](store core.Store, kind Kind[T], opts ...Option) *Repository[T, P] {
	o := &options{
		now:   func() time.Time { return time.Now().Round(0) },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Repository[T, P]{
		kind:      kind,
		store:     store,
		logger:    o.logger,
		now:       o.now,
		newID:     o.newID,
		observers: make(map[int]Observer),
	}
}

// Kind returns the descriptor of the repository.
func (r *Repository[T, P]) Kind() Kind[T] {
	return r.kind
}

// Load replaces the collection with the one stored under the kind's key.
//
// Malformed JSON leaves the collection empty and is reported in
// LoadReport.ParseError. Records with undecodable dates are dropped and
// reported individually; the rest still load. Only store failures are
// returned as errors.
func (r *Repository[T, P]) Load(ctx context.Context) (LoadReport, error) {
	report := LoadReport{Key: r.kind.Key}

	raw, ok, err := r.store.Get(ctx, r.kind.Key)
	if err != nil {
		return report, err
	}

	var items []T
	if ok {
		items, report = r.decodeAll(raw, report)
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()

	report.Loaded = len(items)
	r.notify(core.Event{Type: core.EventReload, Key: r.kind.Key})
	return report, nil
}

func (r *Repository[T, P]) decodeAll(raw string, report LoadReport) ([]T, LoadReport) {
	records, err := codec.ParseRecords([]byte(raw))
	if err != nil {
		report.ParseError = &core.ParseError{Source: r.kind.Key, Err: err}
		if r.logger != nil {
			r.logger.Error("collection is not valid JSON, starting empty", "key", r.kind.Key, "error", err)
		}
		return nil, report
	}

	items := make([]T, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		item, err := r.decode(rec)
		if err == nil {
			id := *r.kind.ID(&item)
			switch {
			case id == "":
				err = &codec.DecodeError{Kind: r.kind.Schema.Kind, Field: "id", Err: errMissingID}
			case seen[id]:
				err = &codec.DecodeError{Kind: r.kind.Schema.Kind, Field: "id", Raw: id, Err: errDuplicateID}
			default:
				seen[id] = true
			}
		}
		if err != nil {
			var de *codec.DecodeError
			if !errors.As(err, &de) {
				de = &codec.DecodeError{Kind: r.kind.Schema.Kind, Err: err}
			}
			report.Dropped = append(report.Dropped, de)
			if r.logger != nil {
				r.logger.Warn("dropping undecodable record", "key", r.kind.Key, "index", i, "field", de.Field, "error", de.Err)
			}
			continue
		}
		items = append(items, item)
	}
	return items, report
}

func (r *Repository[T, P]) decode(raw json.RawMessage) (T, error) {
	var zero T
	record, err := codec.ParseRecord(raw)
	if err != nil {
		return zero, &codec.DecodeError{Kind: r.kind.Schema.Kind, Err: err}
	}
	if record == nil {
		return zero, &codec.DecodeError{Kind: r.kind.Schema.Kind, Err: fmt.Errorf("record is null")}
	}
	return codec.Unmarshal[T](r.kind.Schema, record, false)
}

// Items returns a copy of the collection in its visible order.
func (r *Repository[T, P]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, len(r.items))
	for i, it := range r.items {
		out[i] = r.clone(it)
	}
	return out
}

// Get returns the item with the given id.
func (r *Repository[T, P]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(id); i >= 0 {
		return r.clone(r.items[i]), true
	}
	var zero T
	return zero, false
}

// Len returns the number of items.
func (r *Repository[T, P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Create assigns a fresh id to item, appends it and persists.
// Any id already set on item is replaced.
func (r *Repository[T, P]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	r.mu.Lock()
	now := r.now()
	item = r.clone(item)
	*r.kind.ID(&item) = r.newIDLocked()
	if r.kind.OnCreate != nil {
		r.kind.OnCreate(&item, now)
	}
	if err := r.validate(&item); err != nil {
		r.mu.Unlock()
		return zero, err
	}

	next := append(slices.Clone(r.items), item)
	if err := r.persistLocked(ctx, next); err != nil {
		r.mu.Unlock()
		return zero, err
	}
	r.items = next
	r.mu.Unlock()

	id := *r.kind.ID(&item)
	r.notify(core.Event{Type: core.EventCreate, Key: r.kind.Key, ID: id, Timestamp: now.Unix()})
	return r.clone(item), nil
}

// Update shallow-merges patch into the item with the given id, keeping its
// position. An unknown id is a silent no-op: ok is false and nothing is
// persisted.
func (r *Repository[T, P]) Update(ctx context.Context, id string, patch P) (item T, ok bool, err error) {
	var zero T

	r.mu.Lock()
	idx := r.indexLocked(id)
	if idx < 0 {
		r.mu.Unlock()
		return zero, false, nil
	}

	now := r.now()
	prev := r.items[idx]
	item = r.clone(prev)
	patch.Apply(&item)
	*r.kind.ID(&item) = id
	if r.kind.OnUpdate != nil {
		r.kind.OnUpdate(prev, &item, now)
	}
	if err := r.validate(&item); err != nil {
		r.mu.Unlock()
		return zero, false, err
	}

	next := slices.Clone(r.items)
	next[idx] = item
	if err := r.persistLocked(ctx, next); err != nil {
		r.mu.Unlock()
		return zero, false, err
	}
	r.items = next
	r.mu.Unlock()

	r.notify(core.Event{Type: core.EventModify, Key: r.kind.Key, ID: id, Timestamp: now.Unix()})
	return r.clone(item), true, nil
}

// Delete removes the item with the given id and persists the resulting
// collection. An unknown id leaves the collection as is (it is still
// written), so Delete is idempotent.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	next := slices.Clone(r.items)
	idx := r.indexLocked(id)
	if idx >= 0 {
		next = slices.Delete(next, idx, idx+1)
	}
	if err := r.persistLocked(ctx, next); err != nil {
		r.mu.Unlock()
		return false, err
	}
	r.items = next
	r.mu.Unlock()

	if idx < 0 {
		return false, nil
	}
	r.notify(core.Event{Type: core.EventDelete, Key: r.kind.Key, ID: id, Timestamp: r.now().Unix()})
	return true, nil
}

// Reorder puts the listed ids first, in the given order, and keeps every
// unlisted item afterwards in its previous relative order. Unknown and
// repeated ids are ignored.
func (r *Repository[T, P]) Reorder(ctx context.Context, ids []string) error {
	r.mu.Lock()
	pos := make(map[string]int, len(r.items))
	for i := range r.items {
		pos[*r.kind.ID(&r.items[i])] = i
	}

	used := make([]bool, len(r.items))
	next := make([]T, 0, len(r.items))
	for _, id := range ids {
		if i, ok := pos[id]; ok && !used[i] {
			used[i] = true
			next = append(next, r.items[i])
		}
	}
	for i, it := range r.items {
		if !used[i] {
			next = append(next, it)
		}
	}

	if err := r.persistLocked(ctx, next); err != nil {
		r.mu.Unlock()
		return err
	}
	r.items = next
	r.mu.Unlock()

	r.notify(core.Event{Type: core.EventReorder, Key: r.kind.Key, Timestamp: r.now().Unix()})
	return nil
}

// Persist writes the whole collection to the store.
func (r *Repository[T, P]) Persist(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked(ctx, r.items)
}

// Records returns the collection as loose records with dates rendered as
// text, the shape used for persistence and backups.
func (r *Repository[T, P]) Records() ([]map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.encodeAll(r.items)
}

func (r *Repository[T, P]) encodeAll(items []T) ([]map[string]any, error) {
	records := make([]map[string]any, 0, len(items))
	for _, it := range items {
		rec, err := codec.Marshal(r.kind.Schema, it)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Repository[T, P]) persistLocked(ctx context.Context, items []T) error {
	records, err := r.encodeAll(items)
	if err != nil {
		return err
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.kind.Key, err)
	}
	return r.store.Set(ctx, r.kind.Key, string(data))
}

// Subscribe registers an observer. The returned function removes it.
func (r *Repository[T, P]) Subscribe(fn Observer) (cancel func()) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()

	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	return func() {
		r.obsMu.Lock()
		defer r.obsMu.Unlock()
		delete(r.observers, id)
	}
}

func (r *Repository[T, P]) notify(e core.Event) {
	r.obsMu.Lock()
	observers := make([]Observer, 0, len(r.observers))
	for i := 0; i < r.nextObs; i++ {
		if fn, ok := r.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	r.obsMu.Unlock()

	for _, fn := range observers {
		fn(e)
	}
}

func (r *Repository[T, P]) indexLocked(id string) int {
	for i := range r.items {
		if *r.kind.ID(&r.items[i]) == id {
			return i
		}
	}
	return -1
}

func (r *Repository[T, P]) newIDLocked() string {
	for {
		id := r.newID()
		if id != "" && r.indexLocked(id) < 0 {
			return id
		}
	}
}

func (r *Repository[T, P]) clone(item T) T {
	if r.kind.Clone != nil {
		return r.kind.Clone(item)
	}
	return item
}

func (r *Repository[T, P]) validate(item *T) error {
	if r.kind.Validate == nil {
		return nil
	}
	return r.kind.Validate(item)
}

// State exposes internal state for observability.
type State struct {
	Kind      string `json:"kind"`
	Key       string `json:"key"`
	Items     int    `json:"items"`
	Observers int    `json:"observers"`
}

// State implements introspection.Introspectable.
func (r *Repository[T, P]) State() any {
	r.mu.RLock()
	items := len(r.items)
	r.mu.RUnlock()

	r.obsMu.Lock()
	observers := len(r.observers)
	r.obsMu.Unlock()

	return State{
		Kind:      r.kind.Name,
		Key:       r.kind.Key,
		Items:     items,
		Observers: observers,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository[T, P]) ComponentType() string {
	return "repository"
}
