package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/hearth/internal/config"
	"github.com/aretw0/hearth/internal/platform"
	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/hub"
)

// app carries the resolved settings shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	verbose    bool
	logFormat  string
	dataDir    string
	adapter    string
	dbPath     string
	versioning bool
	readOnly   bool
	jsonOut    bool
	yamlOut    bool

	// hubOptions lets tests pin the clock and ids.
	hubOptions []hub.Option
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state out of package globals.
func newRootCmd(hubOpts ...hub.Option) *cobra.Command {
	a := &app{hubOptions: hubOpts}

	rootCmd := &cobra.Command{
		Use:   "hearth",
		Short: "A personal productivity hub: notes, calendar, reminders, inventory and lending",
		Long: `Hearth keeps five collections (notes, calendar events, reminders,
inventory and lending records) as JSON in a local store and computes a
dashboard over them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVarP(&a.dataDir, "data-dir", "d", "", "Data directory (default: project root or working directory)")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	flags.StringVar(&a.dbPath, "db-path", "", "SQLite database file")
	flags.BoolVar(&a.versioning, "versioning", false, "Commit every change with git (fs adapter)")
	flags.BoolVar(&a.readOnly, "read-only", false, "Reject every write")
	flags.BoolVar(&a.jsonOut, "json", false, "Output JSON")
	flags.BoolVar(&a.yamlOut, "yaml", false, "Output YAML")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(
		a.initCmd(),
		notesCmd(a),
		eventsCmd(a),
		remindersCmd(a),
		inventoryCmd(a),
		lendingCmd(a),
		a.dashboardCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.clearCmd(),
		a.watchCmd(),
		a.stateCmd(),
		versionCmd(),
	)
	return rootCmd
}

// configure resolves config sources, then applies flags that were set.
func (a *app) configure(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := platform.FindRoot(wd)
	if err != nil {
		root = wd
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	} else if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(root, cfg.DataDir)
	}
	if flags.Changed("adapter") {
		cfg.Adapter = a.adapter
	}
	if flags.Changed("db-path") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("versioning") {
		cfg.Versioning = &a.versioning
	}
	if flags.Changed("read-only") {
		cfg.ReadOnly = a.readOnly
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.Logger(os.Stderr)
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) platformOptions(extra ...platform.Option) []platform.Option {
	opts := []platform.Option{
		platform.WithAdapter(a.cfg.Adapter),
		platform.WithLogger(a.logger),
		platform.WithReadOnly(a.cfg.ReadOnly),
		platform.WithDBPath(a.cfg.DBPath),
		platform.WithHubOptions(a.hubOptions...),
	}
	if a.cfg.Versioning != nil {
		opts = append(opts, platform.WithVersioning(*a.cfg.Versioning))
	}
	return append(opts, extra...)
}

// openHub opens the configured store and loads every collection.
func (a *app) openHub(ctx context.Context) (*hub.Hub, func(), error) {
	h, err := platform.New(ctx, a.cfg.DataDir, a.platformOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data at %s: %w", a.cfg.DataDir, err)
	}
	closeFn := func() {
		if c, ok := h.Store().(core.Closer); ok {
			if err := c.Close(); err != nil {
				a.logger.Warn("failed to close store", "error", err)
			}
		}
	}
	return h, closeFn, nil
}
