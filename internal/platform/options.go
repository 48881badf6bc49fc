package platform

import (
	"log/slog"

	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/hub"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// options holds the internal configuration used to open a data store.
type options struct {
	store        core.Store
	logger       *slog.Logger
	adapter      string
	autoInit     bool
	versioning   *bool
	readOnly     bool
	forceTemp    bool
	devSafety    bool
	dbPath       string
	memoryQuota  int
	errorHandler func(error)
	hubOptions   []hub.Option
}

// Option defines a functional option for opening a data store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStore injects a ready store; the adapter settings are then ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLogger sets the logger shared by the store and the hub.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAutoInit creates the data directory (and git repository) when missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithVersioning enables or disables git history for the fs adapter.
// When not set it is enabled only if the data directory is already a git
// repository.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = &enabled
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) {
		o.readOnly = readOnly
	}
}

// WithForceTemp re-roots the data path into the temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`.
// Enabled by default.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithDBPath sets the database file of the sqlite adapter. Defaults to
// hearth.db inside the data path.
func WithDBPath(path string) Option {
	return func(o *options) {
		o.dbPath = path
	}
}

// WithMemoryQuota bounds the memory adapter, in bytes.
func WithMemoryQuota(bytes int) Option {
	return func(o *options) {
		o.memoryQuota = bytes
	}
}

// WithWatcherErrorHandler receives errors raised while watching.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithHubOptions forwards options to hub.New.
func WithHubOptions(opts ...hub.Option) Option {
	return func(o *options) {
		o.hubOptions = append(o.hubOptions, opts...)
	}
}
