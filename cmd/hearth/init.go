package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/hearth/internal/platform"
	"github.com/aretw0/hearth/pkg/core"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a hearth data directory",
		Long: `Init creates the data directory and marks the working directory as a
hearth root. With the fs adapter the directory is also a git repository
unless --versioning=false is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			if err := os.MkdirAll(filepath.Join(wd, platform.MarkerDir), 0o755); err != nil {
				return fmt.Errorf("failed to create marker: %w", err)
			}

			opts := a.platformOptions(platform.WithAutoInit(true))
			if a.cfg.Versioning == nil && a.cfg.Adapter == platform.AdapterFS {
				opts = append(opts, platform.WithVersioning(true))
			}
			store, err := platform.Open(cmd.Context(), a.cfg.DataDir, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			if c, ok := store.(core.Closer); ok {
				_ = c.Close()
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized hearth data in", a.cfg.DataDir)
			return nil
		},
	}
}
