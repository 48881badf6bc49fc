package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	lifecycleadapter "github.com/aretw0/hearth/pkg/adapters/lifecycle"
	"github.com/aretw0/hearth/pkg/core"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		types    []string
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload and report changes made by other processes",
		Long: `Watch follows the data directory (fs adapter only). Every change made
outside this process reloads the affected collection and is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			h, done, err := a.openHub(ctx)
			if err != nil {
				return err
			}
			defer done()

			events, err := h.Watch(ctx)
			if err != nil {
				return err
			}

			var filter lifecycleadapter.Filter
			if len(types) > 0 {
				wanted := make([]core.EventType, 0, len(types))
				for _, t := range types {
					wanted = append(wanted, core.EventType(strings.ToUpper(t)))
				}
				filter = lifecycleadapter.Types(wanted...)
			}

			src := lifecycleadapter.NewSource(events, filter)
			if err := src.Start(ctx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", a.cfg.DataDir)
			for e := range src.Events() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", time.Now().Format(time.TimeOnly), e)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&types, "types", nil, "Only report these event types (create, modify, delete)")
	cmd.Flags().DurationVar(&duration, "for", 0, "Stop after this long (default: until interrupted)")
	return cmd
}
