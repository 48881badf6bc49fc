package hearth

import (
	"context"
	"log/slog"

	"github.com/aretw0/hearth/internal/platform"
	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/git"
	"github.com/aretw0/hearth/pkg/hub"
)

// --- Types ---

// Hub is a public alias for the repository hub.
type Hub = hub.Hub

// --- Configuration ---

// Option defines a functional option for opening a hub.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore injects a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAutoInit creates the data directory (and git repository) when missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git history for the fs adapter.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithReadOnly opens the store in read-only mode.
func WithReadOnly(readOnly bool) Option {
	return platform.WithReadOnly(readOnly)
}

// WithForceTemp forces the data into the temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDBPath sets the SQLite database file.
func WithDBPath(path string) Option {
	return platform.WithDBPath(path)
}

// WithLogger sets the logger for the store and the hub.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithHubOptions forwards options (clock, id generator) to the hub.
func WithHubOptions(opts ...hub.Option) Option {
	return platform.WithHubOptions(opts...)
}

// --- Factory ---

// New opens the store at path and returns a loaded hub.
func New(ctx context.Context, path string, opts ...Option) (*Hub, error) {
	return platform.New(ctx, path, opts...)
}

// Open opens only the store at path.
func Open(ctx context.Context, path string, opts ...Option) (core.Store, error) {
	return platform.Open(ctx, path, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data path based on safety rules.
func ResolveDataPath(userPath string, sandbox bool) string {
	return platform.ResolveDataPath(userPath, sandbox)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a .hearth directory or hearth.yaml file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Change reasons ---

// WithChangeReason attaches a commit message to ctx for versioned stores.
func WithChangeReason(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, core.ChangeReasonKey, msg)
}

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return git.FormatCommitMessage(ctype, scope, subject, body)
}
