package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/hearth/pkg/codec"
	"github.com/aretw0/hearth/pkg/hub"
	"github.com/aretw0/hearth/pkg/model"
	"github.com/aretw0/hearth/pkg/repository"
	"github.com/aretw0/hearth/pkg/views"
)

func searchFlags(cmd *cobra.Command) (term, category *string) {
	term = cmd.Flags().StringP("search", "s", "", "Case-insensitive text search")
	category = cmd.Flags().StringP("category", "c", views.CategoryAll, "Category to show")
	return term, category
}

func notesCmd(a *app) *cobra.Command {
	r := resource[model.Note, model.NotePatch]{
		use:     "notes",
		aliases: []string{"note"},
		short:   "Manage notes and todo lists",
		repo:    func(h *hub.Hub) *hub.NoteRepository { return h.Notes },
		header:  []string{"ID", "TITLE", "TYPE", "CATEGORY", "TODOS", "UPDATED"},
		row: func(n model.Note) []string {
			todos := ""
			if n.Type == model.NoteTypeTodo {
				done := 0
				for _, t := range n.Todos {
					if t.Completed {
						done++
					}
				}
				todos = fmt.Sprintf("%d/%d", done, len(n.Todos))
			}
			return []string{n.ID, n.Title, string(n.Type), n.Category, todos, formatDate(n.UpdatedAt)}
		},
		listFlags: func(cmd *cobra.Command) func([]model.Note, time.Time) ([]model.Note, error) {
			term, category := searchFlags(cmd)
			return func(items []model.Note, _ time.Time) ([]model.Note, error) {
				return views.SearchNotes(items, *term, *category), nil
			}
		},
	}
	cmd := r.command(a)
	cmd.AddCommand(todoCmd(a))
	return cmd
}

func todoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Edit the checklist of a todo note",
	}

	run := func(op func(*hub.Hub, *cobra.Command, []string) (model.Note, bool, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			note, ok, err := op(h, cmd, args)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			return a.render(cmd.OutOrStdout(), note, todoTable(note))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <note-id> <text>",
			Short: "Append a todo",
			Args:  cobra.MinimumNArgs(2),
			RunE: run(func(h *hub.Hub, cmd *cobra.Command, args []string) (model.Note, bool, error) {
				return h.AddTodo(cmd.Context(), args[0], strings.Join(args[1:], " "))
			}),
		},
		&cobra.Command{
			Use:   "toggle <note-id> <todo-id>",
			Short: "Flip the completion of a todo",
			Args:  cobra.ExactArgs(2),
			RunE: run(func(h *hub.Hub, cmd *cobra.Command, args []string) (model.Note, bool, error) {
				return h.ToggleTodo(cmd.Context(), args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:     "delete <note-id> <todo-id>",
			Aliases: []string{"rm"},
			Short:   "Remove a todo",
			Args:    cobra.ExactArgs(2),
			RunE: run(func(h *hub.Hub, cmd *cobra.Command, args []string) (model.Note, bool, error) {
				return h.DeleteTodo(cmd.Context(), args[0], args[1])
			}),
		},
	)
	return cmd
}

func todoTable(n model.Note) table {
	t := table{header: []string{"ID", "DONE", "TEXT"}}
	for _, todo := range n.Todos {
		t.rows = append(t.rows, []string{todo.ID, "[" + check(todo.Completed) + "]", todo.Text})
	}
	return t
}

func eventsCmd(a *app) *cobra.Command {
	r := resource[model.CalendarEvent, model.CalendarEventPatch]{
		use:     "events",
		aliases: []string{"event", "calendar"},
		short:   "Manage calendar events",
		repo:    func(h *hub.Hub) *hub.EventRepository { return h.Events },
		header:  []string{"ID", "DATE", "TIME", "TITLE", "CATEGORY"},
		row: func(e model.CalendarEvent) []string {
			return []string{e.ID, formatDate(e.Date), e.Time, e.Title, e.Category}
		},
		listFlags: func(cmd *cobra.Command) func([]model.CalendarEvent, time.Time) ([]model.CalendarEvent, error) {
			on := cmd.Flags().String("on", "", "Only events on this day (YYYY-MM-DD)")
			upcoming := cmd.Flags().Bool("upcoming", false, "Only events in the next 7 days")
			return func(items []model.CalendarEvent, now time.Time) ([]model.CalendarEvent, error) {
				if *on != "" {
					day, err := codec.Parse(*on)
					if err != nil {
						return nil, fmt.Errorf("invalid --on date: %w", err)
					}
					items = views.EventsOn(items, day)
				}
				if *upcoming {
					items = views.UpcomingEvents(items, now, views.UpcomingWindow)
				}
				return items, nil
			}
		},
	}
	return r.command(a)
}

func remindersCmd(a *app) *cobra.Command {
	r := resource[model.Reminder, model.ReminderPatch]{
		use:     "reminders",
		aliases: []string{"reminder"},
		short:   "Manage reminders",
		repo:    func(h *hub.Hub) *hub.ReminderRepository { return h.Reminders },
		header:  []string{"ID", "DONE", "DUE", "PRIORITY", "TITLE", "STATUS"},
		row: func(r model.Reminder) []string {
			now := time.Now()
			status := ""
			switch {
			case views.ReminderOverdue(r, now):
				status = "overdue"
			case views.ReminderDueToday(r, now):
				status = "today"
			}
			return []string{r.ID, "[" + check(r.Completed) + "]", formatDate(r.DueDate), string(r.Priority), r.Title, status}
		},
		listFlags: func(cmd *cobra.Command) func([]model.Reminder, time.Time) ([]model.Reminder, error) {
			status := cmd.Flags().String("status", string(views.RemindersAll), "all, pending or completed")
			return func(items []model.Reminder, _ time.Time) ([]model.Reminder, error) {
				switch s := views.ReminderStatus(*status); s {
				case views.RemindersAll, views.RemindersPending, views.RemindersCompleted:
					return views.FilterReminders(items, s), nil
				default:
					return nil, fmt.Errorf("unknown status %q", *status)
				}
			}
		},
	}
	cmd := r.command(a)
	cmd.AddCommand(toggleCmd(a, "Flip the completion of a reminder",
		func(h *hub.Hub, cmd *cobra.Command, id string) (model.Reminder, bool, error) {
			return h.ToggleReminder(cmd.Context(), id)
		}, r))
	return cmd
}

func inventoryCmd(a *app) *cobra.Command {
	r := resource[model.InventoryItem, model.InventoryItemPatch]{
		use:     "inventory",
		aliases: []string{"items"},
		short:   "Manage purchased items, warranties and return deadlines",
		repo:    func(h *hub.Hub) *hub.InventoryRepository { return h.Inventory },
		header:  []string{"ID", "NAME", "CATEGORY", "PURCHASED", "PRICE", "WARRANTY", "RETURN BY", "STATUS"},
		row: func(i model.InventoryItem) []string {
			status := ""
			if views.InventoryExpiring(i, time.Now()) {
				status = "expiring"
			}
			return []string{
				i.ID, i.Name, i.Category, formatDate(i.PurchaseDate),
				strconv.FormatFloat(i.PurchasePrice, 'f', 2, 64),
				formatDatePtr(i.WarrantyExpiry), formatDatePtr(i.ReturnDeadline), status,
			}
		},
		listFlags: func(cmd *cobra.Command) func([]model.InventoryItem, time.Time) ([]model.InventoryItem, error) {
			term, category := searchFlags(cmd)
			expiring := cmd.Flags().Bool("expiring", false, "Only items with a deadline in the next 30 days")
			return func(items []model.InventoryItem, now time.Time) ([]model.InventoryItem, error) {
				items = views.SearchInventory(items, *term, *category)
				if *expiring {
					var out []model.InventoryItem
					for _, it := range items {
						if views.InventoryExpiring(it, now) {
							out = append(out, it)
						}
					}
					items = out
				}
				return items, nil
			}
		},
	}
	return r.command(a)
}

func lendingCmd(a *app) *cobra.Command {
	r := resource[model.LendingItem, model.LendingItemPatch]{
		use:     "lending",
		aliases: []string{"lend"},
		short:   "Track items lent to and borrowed from people",
		repo:    func(h *hub.Hub) *hub.LendingRepository { return h.Lending },
		header:  []string{"ID", "TYPE", "ITEM", "PERSON", "LENT", "EXPECTED", "RETURNED", "STATUS"},
		row: func(l model.LendingItem) []string {
			now := time.Now()
			status := ""
			switch {
			case views.LendingOverdue(l, now):
				status = "overdue"
			case views.LendingDueSoon(l, now):
				status = "due soon"
			}
			return []string{
				l.ID, string(l.Type), l.ItemName, l.PersonName,
				formatDate(l.LentDate), formatDate(l.ExpectedReturnDate), formatDatePtr(l.ReturnDate), status,
			}
		},
		listFlags: func(cmd *cobra.Command) func([]model.LendingItem, time.Time) ([]model.LendingItem, error) {
			f := cmd.Flags().String("filter", string(views.LendingAll), "all, lent, borrowed, active or returned")
			return func(items []model.LendingItem, _ time.Time) ([]model.LendingItem, error) {
				switch lf := views.LendingFilter(*f); lf {
				case views.LendingAll, views.LendingLent, views.LendingBorrowed, views.LendingActive, views.LendingReturned:
					return views.FilterLending(items, lf), nil
				default:
					return nil, fmt.Errorf("unknown filter %q", *f)
				}
			}
		},
	}
	cmd := r.command(a)
	cmd.AddCommand(toggleCmd(a, "Flip whether an item was returned",
		func(h *hub.Hub, cmd *cobra.Command, id string) (model.LendingItem, bool, error) {
			return h.ToggleReturned(cmd.Context(), id)
		}, r))
	return cmd
}

func toggleCmd[T any, P repository.Patch[T]](a *app, short string, op func(*hub.Hub, *cobra.Command, string) (T, bool, error), r resource[T, P]) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, done, err := a.openHub(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			item, ok, err := op(h, cmd, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s not found", args[0])
			}
			return a.render(cmd.OutOrStdout(), item, r.table(item))
		},
	}
}
