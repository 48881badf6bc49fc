package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hearth/pkg/adapters/fs"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/adapters/sqlite"
	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/model"
)

func TestOpen_Adapters(t *testing.T) {
	ctx := context.Background()

	t.Run("fs", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Open(ctx, dir, WithAutoInit(true), WithVersioning(false))
		require.NoError(t, err)
		assert.IsType(t, &fs.Store{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		dir := t.TempDir()
		store, err := Open(ctx, dir, WithAdapter(AdapterSQLite))
		require.NoError(t, err)
		defer store.(core.Closer).Close()
		assert.IsType(t, &sqlite.Store{}, store)
		_, err = os.Stat(filepath.Join(dir, DefaultDBName))
		assert.NoError(t, err)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, "", WithAdapter(AdapterMemory))
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, "", WithAdapter("s3"))
		assert.ErrorIs(t, err, core.ErrUnknownAdapter)
	})

	t.Run("injected", func(t *testing.T) {
		injected := memory.New()
		store, err := Open(ctx, "ignored", WithAdapter("s3"), WithStore(injected))
		require.NoError(t, err)
		assert.Same(t, injected, store)
	})
}

func TestOpen_FSMissingDirWithoutAutoInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := Open(context.Background(), dir, WithVersioning(false))
	assert.Error(t, err)
}

func TestOpen_VersioningAutoDetect(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))

	store, err := Open(context.Background(), dir)
	require.NoError(t, err)

	state := store.(*fs.Store).State().(fs.StoreState)
	assert.True(t, state.Versioning)
}

func TestNew_LoadsExistingData(t *testing.T) {
	ctx := context.Background()
	store := memory.New(memory.WithData(map[string]string{
		model.KeyNotes: `[{"id":"n1","title":"Groceries","content":"","category":"home","color":"","type":"note","createdAt":"2024-01-15T10:00:00Z","updatedAt":"2024-01-15T10:00:00Z"}]`,
	}))

	h, err := New(ctx, "", WithStore(store))
	require.NoError(t, err)

	note, ok := h.Notes.Get("n1")
	require.True(t, ok)
	assert.Equal(t, "Groceries", note.Title)
}
