package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/hearth/pkg/codec"
	"github.com/aretw0/hearth/pkg/hub"
	"github.com/aretw0/hearth/pkg/repository"
)

// resource describes the CRUD commands of one entity kind.
type resource[T any, P repository.Patch[T]] struct {
	use     string
	aliases []string
	short   string
	repo    func(*hub.Hub) *repository.Repository[T, P]
	header  []string
	row     func(T) []string
	// listFlags registers list-only flags and returns the filter they drive.
	listFlags func(cmd *cobra.Command) func(items []T, now time.Time) ([]T, error)
}

func (r resource[T, P]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     r.use,
		Aliases: r.aliases,
		Short:   r.short,
	}
	cmd.AddCommand(
		r.listCmd(a),
		r.getCmd(a),
		r.addCmd(a),
		r.updateCmd(a),
		r.deleteCmd(a),
		r.reorderCmd(a),
	)
	return cmd
}

func (r resource[T, P]) table(items ...T) table {
	t := table{header: r.header}
	for _, it := range items {
		t.rows = append(t.rows, r.row(it))
	}
	return t
}

func (r resource[T, P]) listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.use,
		Args:  cobra.NoArgs,
	}
	var filter func([]T, time.Time) ([]T, error)
	if r.listFlags != nil {
		filter = r.listFlags(cmd)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		h, done, err := a.openHub(cmd.Context())
		if err != nil {
			return err
		}
		defer done()

		items := r.repo(h).Items()
		if filter != nil {
			if items, err = filter(items, time.Now()); err != nil {
				return err
			}
		}
		if items == nil {
			items = []T{}
		}
		return a.render(cmd.OutOrStdout(), items, r.table(items...))
	}
	return cmd
}

func (r resource[T, P]) getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			item, ok := r.repo(h).Get(args[0])
			if !ok {
				return fmt.Errorf("%s not found", args[0])
			}
			return a.render(cmd.OutOrStdout(), item, r.table(item))
		},
	}
}

func (r resource[T, P]) addCmd(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an item from JSON or YAML",
		Example: `  hearth reminders add --data '{"title":"Pay rent","dueDate":"2024-07-01","priority":"high"}'
  hearth inventory add --data @laptop.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			repo := r.repo(h)
			item, err := decodeInput[T](cmd, repo.Kind().Schema, data)
			if err != nil {
				return err
			}
			created, err := repo.Create(cmd.Context(), item)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), created, r.table(created))
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `Item as JSON or YAML ("@file" reads a file, "-" reads stdin)`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (r resource[T, P]) updateCmd(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Merge the given fields into an item",
		Long: `Update applies a shallow partial update: fields present in --data replace
the stored ones, absent fields are kept. For optional dates, null clears
the value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			repo := r.repo(h)
			patch, err := decodeInput[P](cmd, repo.Kind().Schema, data)
			if err != nil {
				return err
			}
			updated, ok, err := repo.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s not found", args[0])
			}
			return a.render(cmd.OutOrStdout(), updated, r.table(updated))
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `Fields as JSON or YAML ("@file" reads a file, "-" reads stdin)`)
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (r resource[T, P]) deleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, fmt.Sprintf("Delete %s? [y/N] ", args[0])) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}

			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			removed, err := r.repo(h).Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to delete: %s\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (r resource[T, P]) reorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Move the given items to the front, in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			repo := r.repo(h)
			if err := repo.Reorder(cmd.Context(), args); err != nil {
				return err
			}
			items := repo.Items()
			return a.render(cmd.OutOrStdout(), items, r.table(items...))
		},
	}
}

// decodeInput reads --data into V, accepting any ISO-8601 date form.
func decodeInput[V any](cmd *cobra.Command, schema codec.Schema, data string) (V, error) {
	var v V
	raw, err := readInput(cmd.InOrStdin(), data)
	if err != nil {
		return v, err
	}
	record, err := codec.ParseRecord(raw)
	if err != nil {
		return v, fmt.Errorf("input must be a single object: %w", err)
	}
	return codec.Unmarshal[V](schema, record, true)
}
