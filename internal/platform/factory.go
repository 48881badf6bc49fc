package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/hearth/pkg/adapters/fs"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	"github.com/aretw0/hearth/pkg/adapters/sqlite"
	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/hub"
)

// DefaultDBName is the sqlite file used when no database path is given.
const DefaultDBName = "hearth.db"

// New opens the store at uri, builds the hub over it and loads every
// collection. Load problems other than store failures are logged by the
// repositories and do not fail New.
//
// The uri is adapter-specific: a directory for "fs" and "sqlite", ignored
// for "memory".
func New(ctx context.Context, uri string, opts ...Option) (*hub.Hub, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := open(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	hubOpts := append([]hub.Option{hub.WithLogger(o.logger)}, o.hubOptions...)
	h := hub.New(store, hubOpts...)
	if _, err := h.Load(ctx); err != nil {
		if c, ok := store.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return h, nil
}

// Open opens only the store at uri.
func Open(ctx context.Context, uri string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(ctx, uri, o)
}

func open(ctx context.Context, uri string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case AdapterFS:
		return openFS(ctx, uri, o)
	case AdapterSQLite:
		return openSQLite(uri, o)
	case AdapterMemory:
		return memory.New(memory.WithQuota(o.memoryQuota)), nil
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAdapter, o.adapter)
	}
}

func openFS(ctx context.Context, uri string, o *options) (core.Store, error) {
	path := resolvePath(uri, o)

	versioning := false
	if o.versioning != nil {
		versioning = *o.versioning
	} else if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		versioning = true
		if o.logger != nil {
			o.logger.Debug("auto-detected versioning", "reason", ".git present")
		}
	}

	store := fs.New(fs.Config{
		Path:         path,
		AutoInit:     o.autoInit,
		Versioning:   versioning,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func openSQLite(uri string, o *options) (core.Store, error) {
	dbPath := o.dbPath
	if dbPath == "" {
		dbPath = filepath.Join(resolvePath(uri, o), DefaultDBName)
	} else if dbPath != ":memory:" {
		dbPath = resolvePath(dbPath, o)
	}
	store, err := sqlite.Open(dbPath, sqlite.WithReadOnly(o.readOnly))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// resolvePath applies the dev sandbox to a user path.
func resolvePath(path string, o *options) string {
	// Read-only access cannot damage the host workspace.
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	resolved := ResolveDataPath(path, useTemp)

	if useTemp && o.logger != nil && resolved != filepath.Clean(path) {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}
