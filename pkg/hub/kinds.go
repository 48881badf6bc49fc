package hub

import (
	"slices"
	"time"

	"github.com/aretw0/hearth/pkg/model"
	"github.com/aretw0/hearth/pkg/repository"
)

func noteKind(newID func() string) repository.Kind[model.Note] {
	return repository.Kind[model.Note]{
		Name:   "note",
		Key:    model.KeyNotes,
		Schema: model.NoteSchema,
		ID:     func(n *model.Note) *string { return &n.ID },
		OnCreate: func(n *model.Note, now time.Time) {
			n.CreatedAt = now
			n.UpdatedAt = now
			n.Normalize()
			stampTodos(n.Todos, now, newID)
		},
		OnUpdate: func(prev model.Note, n *model.Note, now time.Time) {
			n.CreatedAt = prev.CreatedAt
			// updatedAt must move forward even when the clock has not.
			if !now.After(prev.UpdatedAt) {
				now = prev.UpdatedAt.Add(time.Nanosecond)
			}
			n.UpdatedAt = now
			n.Normalize()
			stampTodos(n.Todos, now, newID)
		},
		Clone: func(n model.Note) model.Note {
			n.Todos = slices.Clone(n.Todos)
			return n
		},
		Validate: model.Validate,
	}
}

// stampTodos gives todos added without an id their id and creation time.
func stampTodos(todos []model.TodoItem, now time.Time, newID func() string) {
	for i := range todos {
		if todos[i].ID == "" {
			todos[i].ID = uniqueTodoID(todos, newID)
		}
		if todos[i].CreatedAt.IsZero() {
			todos[i].CreatedAt = now
		}
	}
}

func uniqueTodoID(todos []model.TodoItem, newID func() string) string {
	for {
		id := newID()
		if id != "" && !slices.ContainsFunc(todos, func(t model.TodoItem) bool { return t.ID == id }) {
			return id
		}
	}
}

func eventKind() repository.Kind[model.CalendarEvent] {
	return repository.Kind[model.CalendarEvent]{
		Name:     "calendarEvent",
		Key:      model.KeyEvents,
		Schema:   model.CalendarEventSchema,
		ID:       func(e *model.CalendarEvent) *string { return &e.ID },
		Validate: model.Validate,
	}
}

func reminderKind() repository.Kind[model.Reminder] {
	return repository.Kind[model.Reminder]{
		Name:   "reminder",
		Key:    model.KeyReminders,
		Schema: model.ReminderSchema,
		ID:     func(r *model.Reminder) *string { return &r.ID },
		OnCreate: func(r *model.Reminder, now time.Time) {
			r.CreatedAt = now
			r.Normalize()
		},
		OnUpdate: func(prev model.Reminder, r *model.Reminder, _ time.Time) {
			r.CreatedAt = prev.CreatedAt
		},
		Validate: model.Validate,
	}
}

func inventoryKind() repository.Kind[model.InventoryItem] {
	return repository.Kind[model.InventoryItem]{
		Name:   "inventoryItem",
		Key:    model.KeyInventory,
		Schema: model.InventoryItemSchema,
		ID:     func(i *model.InventoryItem) *string { return &i.ID },
		Clone: func(i model.InventoryItem) model.InventoryItem {
			i.WarrantyExpiry = clonePtr(i.WarrantyExpiry)
			i.ReturnDeadline = clonePtr(i.ReturnDeadline)
			i.ReceiptImage = clonePtr(i.ReceiptImage)
			return i
		},
		Validate: model.Validate,
	}
}

func lendingKind() repository.Kind[model.LendingItem] {
	return repository.Kind[model.LendingItem]{
		Name:   "lendingItem",
		Key:    model.KeyLending,
		Schema: model.LendingItemSchema,
		ID:     func(l *model.LendingItem) *string { return &l.ID },
		OnCreate: func(l *model.LendingItem, now time.Time) {
			l.Normalize(now)
		},
		OnUpdate: func(_ model.LendingItem, l *model.LendingItem, now time.Time) {
			l.Normalize(now)
		},
		Clone: func(l model.LendingItem) model.LendingItem {
			l.ReturnDate = clonePtr(l.ReturnDate)
			return l
		},
		Validate: model.Validate,
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
