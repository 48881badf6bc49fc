// Package fs stores each key as a JSON file in a data directory, with
// optional git history and change watching.
package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/git"
)

// Ext is the extension of every stored file.
const Ext = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path       string
	AutoInit   bool // Create the directory (and the git repository) when missing
	Versioning bool // Commit every change with git
	ReadOnly   bool
	Logger     *slog.Logger
	// ErrorHandler receives errors from background work (watching).
	ErrorHandler func(error)
	// DebounceDelay coalesces bursts of file events. Defaults to 50ms.
	DebounceDelay time.Duration
}

// Store implements core.Store over a directory.
type Store struct {
	Path   string
	config Config
	git    *git.Client

	mu            sync.RWMutex
	known         map[string][sha256.Size]byte // last content this store wrote or read, per key
	watcherActive bool
	lastReconcile *time.Time
	lastCommit    string
}

// New creates a store rooted at cfg.Path. Call Initialize before use.
func New(cfg Config) *Store {
	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = 50 * time.Millisecond
	}
	s := &Store{
		Path:   cfg.Path,
		config: cfg,
		known:  make(map[string][sha256.Size]byte),
	}
	if cfg.Versioning {
		s.git = git.NewClient(cfg.Path, cfg.Logger)
	}
	return s
}

// Initialize checks the data directory, creating it (and the git
// repository when versioning) if AutoInit is set.
func (s *Store) Initialize(ctx context.Context) error {
	info, err := os.Stat(s.Path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("data path %s is not a directory", s.Path)
	case os.IsNotExist(err):
		if !s.config.AutoInit {
			return fmt.Errorf("data directory %s does not exist", s.Path)
		}
		if s.config.ReadOnly {
			return fmt.Errorf("data directory %s does not exist: %w", s.Path, core.ErrReadOnly)
		}
		if err := os.MkdirAll(s.Path, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat data directory: %w", err)
	}

	if s.git != nil && !s.git.IsRepo() {
		if !s.config.AutoInit || s.config.ReadOnly {
			return fmt.Errorf("versioning enabled but %s is not a git repository", s.Path)
		}
		if err := s.git.Init(ctx); err != nil {
			return err
		}
		if err := s.ignoreScratchFiles(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ignoreScratchFiles() error {
	content := TempFilePrefix + "*\n" + git.LockFile + "\n"
	return os.WriteFile(filepath.Join(s.Path, ".gitignore"), []byte(content), 0o644)
}

// ValidateKey rejects keys that cannot name a plain file in the data
// directory.
func ValidateKey(key string) error {
	switch {
	case key == "",
		strings.ContainsAny(key, `/\`),
		strings.HasPrefix(key, "."),
		key != filepath.Base(key):
		return fmt.Errorf("%w: %q", core.ErrInvalidKey, key)
	}
	return nil
}

func (s *Store) filename(key string) string {
	return filepath.Join(s.Path, key+Ext)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ValidateKey(key); err != nil {
		return "", false, &core.StorageError{Op: "get", Key: key, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", false, &core.StorageError{Op: "get", Key: key, Err: err}
	}

	data, err := os.ReadFile(s.filename(key))
	if errors.Is(err, os.ErrNotExist) {
		s.remember(key, nil)
		return "", false, nil
	}
	if err != nil {
		return "", false, &core.StorageError{Op: "get", Key: key, Err: err}
	}
	s.remember(key, data)
	return string(data), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.checkWritable("set", key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "set", Key: key, Err: err}
	}

	return s.versioned(ctx, "set", key, func() error {
		data := []byte(value)
		if err := writeFileAtomic(s.filename(key), data, 0o644); err != nil {
			return err
		}
		s.remember(key, data)
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.checkWritable("remove", key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &core.StorageError{Op: "remove", Key: key, Err: err}
	}

	return s.versioned(ctx, "remove", key, func() error {
		err := os.Remove(s.filename(key))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		s.remember(key, nil)
		return nil
	})
}

func (s *Store) checkWritable(op, key string) error {
	if err := ValidateKey(key); err != nil {
		return &core.StorageError{Op: op, Key: key, Err: err}
	}
	if s.config.ReadOnly {
		return &core.StorageError{Op: op, Key: key, Err: core.ErrReadOnly}
	}
	return nil
}

// versioned runs change and, when versioning, commits the result under the
// git lock. The commit message is taken from core.ChangeReasonKey when the
// context carries one.
func (s *Store) versioned(ctx context.Context, op, key string, change func() error) error {
	if s.git == nil {
		if err := change(); err != nil {
			return &core.StorageError{Op: op, Key: key, Err: err}
		}
		return nil
	}

	unlock, err := s.git.Lock(ctx)
	if err != nil {
		return &core.StorageError{Op: op, Key: key, Err: err}
	}
	defer unlock()

	if err := change(); err != nil {
		return &core.StorageError{Op: op, Key: key, Err: err}
	}
	if err := s.commit(ctx, op, key); err != nil {
		return &core.StorageError{Op: op, Key: key, Err: err}
	}
	return nil
}

func (s *Store) commit(ctx context.Context, op, key string) error {
	if err := s.git.Stage(ctx, key+Ext); err != nil {
		return err
	}
	changed, err := s.git.HasStagedChanges(ctx)
	if err != nil || !changed {
		return err
	}

	var msg string
	if reason, ok := ctx.Value(core.ChangeReasonKey).(string); ok && reason != "" {
		msg = git.AppendFooter(reason)
	} else {
		verb := "update"
		if op == "remove" {
			verb = "clear"
		}
		msg = git.FormatCommitMessage(git.CommitTypeChore, key, verb+" "+key, "")
	}
	if err := s.git.Commit(ctx, msg); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastCommit = strings.SplitN(msg, "\n", 2)[0]
	s.mu.Unlock()
	return nil
}

// Keys lists the keys currently stored.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isTempFile(name) || filepath.Ext(name) != Ext {
			continue
		}
		key := strings.TrimSuffix(name, Ext)
		if ValidateKey(key) == nil {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// remember records the content last seen for key. nil means absent.
func (s *Store) remember(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data == nil {
		delete(s.known, key)
		return
	}
	s.known[key] = sha256.Sum256(data)
}

// changed reports whether the file for key differs from what this store
// last wrote or read, and records the new content.
func (s *Store) changed(key string) bool {
	data, err := os.ReadFile(s.filename(key))
	exists := err == nil

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, known := s.known[key]
	if !exists {
		delete(s.known, key)
		return known
	}
	sum := sha256.Sum256(data)
	s.known[key] = sum
	return !known || prev != sum
}
