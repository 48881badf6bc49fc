package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/hearth/pkg/backup"
	"github.com/aretw0/hearth/pkg/core"
	"github.com/aretw0/hearth/pkg/git"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"summary"},
		Short:   "Show the overview of every collection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			s := h.Summary()
			t := table{rows: [][]string{
				{"Total revenue", strconv.FormatFloat(s.TotalRevenue, 'f', 2, 64)},
				{"Notes", strconv.Itoa(s.Notes)},
				{"Active reminders", fmt.Sprintf("%d (%d overdue, %d due today)", s.ActiveReminders, s.Reminders.Overdue, s.Reminders.DueToday)},
				{"Active lending", fmt.Sprintf("%d (%d overdue)", s.ActiveLending, s.Lending.Overdue)},
				{"Upcoming events", strconv.Itoa(s.UpcomingEvents)},
				{"Expiring inventory", strconv.Itoa(s.ExpiringInventory)},
			}}
			return a.render(cmd.OutOrStdout(), s, t)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to a backup file",
		Long: `Export writes a JSON backup of every collection. Without --out the file
is named productivity-hub-backup-YYYY-MM-DD.json in the working directory;
"-" writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			data, err := h.Export()
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if out == "" {
				out = backup.FileName(time.Now())
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `Backup file ("-" for stdout)`)
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Overwrite collections with the ones in a backup file",
		Long: `Import replaces every collection present in the backup. Collections the
backup does not mention are kept. Nothing is written if the file is not a
valid backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			reason := git.FormatCommitMessage(git.CommitTypeFeat, "backup", "import "+args[0], "")
			ctx := context.WithValue(cmd.Context(), core.ChangeReasonKey, reason)
			written, err := h.Import(ctx, data)
			if err != nil {
				var pe *core.ParseError
				if errors.As(err, &pe) || errors.Is(err, backup.ErrIncompatibleVersion) {
					return fmt.Errorf("invalid backup file: %w", err)
				}
				return err
			}
			if _, err := h.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d collection(s): %s\n", len(written), strings.Join(written, ", "))
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "Delete ALL data? [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}

			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			reason := git.FormatCommitMessage(git.CommitTypeChore, "data", "clear all data", "")
			ctx := context.WithValue(cmd.Context(), core.ChangeReasonKey, reason)
			if err := h.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
