package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/codec"
	"github.com/aretw0/hearth/pkg/core"
)

type task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Due       time.Time  `json:"due"`
	DoneAt    *time.Time `json:"doneAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type taskPatch struct {
	Title *string
	Due   *time.Time
}

func (p taskPatch) Apply(t *task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Due != nil {
		t.Due = *p.Due
	}
}

const taskKey = "test-tasks"

var taskKind = Kind[task]{
	Name:   "task",
	Key:    taskKey,
	Schema: codec.Schema{Kind: "task", Dates: []string{"due", "doneAt", "createdAt", "updatedAt"}},
	ID:     func(t *task) *string { return &t.ID },
	OnCreate: func(t *task, now time.Time) {
		t.CreatedAt = now
		t.UpdatedAt = now
	},
	OnUpdate: func(prev task, t *task, now time.Time) {
		t.CreatedAt = prev.CreatedAt
		t.UpdatedAt = now
	},
	Validate: func(v any) error {
		if v.(*task).Title == "" {
			return errors.New("title required")
		}
		return nil
	},
}

// failingStore fails every Set once armed.
type failingStore struct {
	*memory.Store
	fail bool
}

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.fail {
		return &core.StorageError{Op: "set", Key: key, Err: errors.New("disk full")}
	}
	return s.Store.Set(ctx, key, value)
}

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTaskRepo(store core.Store) *Repository[task, taskPatch] {
	return New[task, taskPatch](store, taskKind,
		WithClock(fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
		WithIDGenerator(sequentialIDs()),
	)
}

func ids(items []task) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRepository_CreatePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := newTaskRepo(store)

	due := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, task{ID: "ignored", Title: "pay rent", Due: due})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID, "create must assign its own id")
	assert.False(t, created.CreatedAt.IsZero())

	raw, ok, err := store.Get(ctx, taskKey)
	require.NoError(t, err)
	require.True(t, ok)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "2024-06-10T08:00:00Z", records[0]["due"])
	_, hasDone := records[0]["doneAt"]
	assert.False(t, hasDone, "absent optional date must be omitted, never null")

	other := newTaskRepo(store)
	report, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	got, ok := other.Get("id-1")
	require.True(t, ok)
	assert.True(t, got.Due.Equal(due))
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestRepository_LoadColdStart(t *testing.T) {
	repo := newTaskRepo(memory.New())
	report, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Loaded)
	assert.Nil(t, report.ParseError)
	assert.Empty(t, repo.Items())
}

func TestRepository_LoadMalformedJSON(t *testing.T) {
	store := memory.New(memory.WithData(map[string]string{taskKey: "{not json"}))
	repo := newTaskRepo(store)

	report, err := repo.Load(context.Background())
	require.NoError(t, err, "parse failure must not be returned as an error")
	var pe *core.ParseError
	require.True(t, errors.As(report.ParseError, &pe))
	assert.Equal(t, taskKey, pe.Source)
	assert.Equal(t, 0, repo.Len())
}

func TestRepository_LoadDropsBadRecords(t *testing.T) {
	data := `[
		{"id":"a","title":"ok","due":"2024-01-15"},
		{"id":"b","title":"bad","due":"not-a-date"},
		{"id":"a","title":"dup","due":"2024-01-16"},
		{"title":"no id","due":"2024-01-16"},
		{"id":"c","title":"ok too","due":"2024-01-17T09:30"}
	]`
	repo := newTaskRepo(memory.New(memory.WithData(map[string]string{taskKey: data})))

	report, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, []string{"a", "c"}, ids(repo.Items()))

	require.Len(t, report.Dropped, 3)
	assert.Equal(t, "due", report.Dropped[0].Field)
	assert.Equal(t, "not-a-date", report.Dropped[0].Raw)
	assert.Equal(t, "id", report.Dropped[1].Field)
	assert.Equal(t, "id", report.Dropped[2].Field)
}

func TestRepository_LoadStorageError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := newTaskRepo(memory.New())
	_, err := repo.Load(ctx)
	var se *core.StorageError
	assert.True(t, errors.As(err, &se))
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := newTaskRepo(store)

	a, err := repo.Create(ctx, task{Title: "a"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, task{Title: "b"})
	require.NoError(t, err)

	title := "a2"
	updated, ok, err := repo.Update(ctx, a.ID, taskPatch{Title: &title})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a2", updated.Title)
	assert.Equal(t, a.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(a.CreatedAt), "createdAt is immutable")
	assert.True(t, updated.UpdatedAt.After(a.UpdatedAt))
	assert.Equal(t, []string{"id-1", "id-2"}, ids(repo.Items()), "update keeps position")

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		before, _, _ := store.Get(ctx, taskKey)
		writes := store.Writes()

		_, ok, err := repo.Update(ctx, "missing", taskPatch{Title: &title})
		require.NoError(t, err)
		assert.False(t, ok)

		after, _, _ := store.Get(ctx, taskKey)
		assert.Equal(t, before, after)
		assert.Equal(t, writes, store.Writes())
	})

	t.Run("invalid result is rejected", func(t *testing.T) {
		empty := ""
		_, _, err := repo.Update(ctx, a.ID, taskPatch{Title: &empty})
		require.Error(t, err)
		got, _ := repo.Get(a.ID)
		assert.Equal(t, "a2", got.Title)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(memory.New())

	for _, title := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, task{Title: title})
		require.NoError(t, err)
	}

	ok, err := repo.Delete(ctx, "id-2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"id-1", "id-3"}, ids(repo.Items()))

	ok, err = repo.Delete(ctx, "id-2")
	require.NoError(t, err)
	assert.False(t, ok, "second delete is a no-op")
	assert.Equal(t, []string{"id-1", "id-3"}, ids(repo.Items()))
}

func TestRepository_Reorder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := newTaskRepo(store)

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := repo.Create(ctx, task{Title: title})
		require.NoError(t, err)
	}

	err := repo.Reorder(ctx, []string{"id-3", "ghost", "id-1", "id-3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-3", "id-1", "id-2", "id-4"}, ids(repo.Items()))

	reloaded := newTaskRepo(store)
	_, err = reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-3", "id-1", "id-2", "id-4"}, ids(reloaded.Items()), "order must survive reload")
}

func TestRepository_RollbackOnPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.New()}
	repo := newTaskRepo(store)

	a, err := repo.Create(ctx, task{Title: "a"})
	require.NoError(t, err)

	store.fail = true

	_, err = repo.Create(ctx, task{Title: "b"})
	var se *core.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, repo.Len())

	title := "changed"
	_, _, err = repo.Update(ctx, a.ID, taskPatch{Title: &title})
	require.Error(t, err)
	got, _ := repo.Get(a.ID)
	assert.Equal(t, "a", got.Title)

	_, err = repo.Delete(ctx, a.ID)
	require.Error(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestRepository_IDsAreUnique(t *testing.T) {
	ctx := context.Background()
	calls := 0
	repo := New[task, taskPatch](memory.New(), taskKind, WithIDGenerator(func() string {
		calls++
		if calls <= 3 {
			return "same"
		}
		return fmt.Sprintf("fresh-%d", calls)
	}))

	first, err := repo.Create(ctx, task{Title: "a"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, task{Title: "b"})
	require.NoError(t, err)

	assert.Equal(t, "same", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRepository_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Store: memory.New()}
	repo := newTaskRepo(store)

	var got []core.Event
	cancel := repo.Subscribe(func(e core.Event) {
		got = append(got, e)
	})

	a, err := repo.Create(ctx, task{Title: "a"})
	require.NoError(t, err)
	require.NoError(t, repo.Reorder(ctx, nil))

	store.fail = true
	_, _ = repo.Create(ctx, task{Title: "b"})
	store.fail = false

	_, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)

	cancel()
	_, err = repo.Create(ctx, task{Title: "c"})
	require.NoError(t, err)

	require.Len(t, got, 3, "failed persists and cancelled observers must not notify")
	assert.Equal(t, core.EventCreate, got[0].Type)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, core.EventReorder, got[1].Type)
	assert.Equal(t, core.EventDelete, got[2].Type)
}
