package hub

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/hearth/pkg/model"
)

// ErrNotTodoList is returned when a todo operation targets a plain note.
var ErrNotTodoList = errors.New("note is not a todo list")

// AddTodo appends a new todo to the note. ok is false when the note does
// not exist.
func (h *Hub) AddTodo(ctx context.Context, noteID, text string) (note model.Note, ok bool, err error) {
	return h.editTodos(ctx, noteID, func(todos []model.TodoItem) []model.TodoItem {
		return append(todos, model.TodoItem{
			Text:      strings.TrimSpace(text),
			CreatedAt: h.now(),
		})
	})
}

// ToggleTodo flips the completion of one todo. An unknown todo id leaves
// the note unchanged.
func (h *Hub) ToggleTodo(ctx context.Context, noteID, todoID string) (model.Note, bool, error) {
	return h.editTodos(ctx, noteID, func(todos []model.TodoItem) []model.TodoItem {
		for i := range todos {
			if todos[i].ID == todoID {
				todos[i].Completed = !todos[i].Completed
			}
		}
		return todos
	})
}

// DeleteTodo removes one todo from the note.
func (h *Hub) DeleteTodo(ctx context.Context, noteID, todoID string) (model.Note, bool, error) {
	return h.editTodos(ctx, noteID, func(todos []model.TodoItem) []model.TodoItem {
		return slices.DeleteFunc(todos, func(t model.TodoItem) bool { return t.ID == todoID })
	})
}

func (h *Hub) editTodos(ctx context.Context, noteID string, edit func([]model.TodoItem) []model.TodoItem) (model.Note, bool, error) {
	note, ok := h.Notes.Get(noteID)
	if !ok {
		return model.Note{}, false, nil
	}
	if note.Type != model.NoteTypeTodo {
		return model.Note{}, false, ErrNotTodoList
	}
	todos := edit(slices.Clone(note.Todos))
	return h.Notes.Update(ctx, noteID, model.NotePatch{Todos: &todos})
}

// ToggleReminder flips the completion of a reminder.
func (h *Hub) ToggleReminder(ctx context.Context, id string) (model.Reminder, bool, error) {
	r, ok := h.Reminders.Get(id)
	if !ok {
		return model.Reminder{}, false, nil
	}
	completed := !r.Completed
	return h.Reminders.Update(ctx, id, model.ReminderPatch{Completed: &completed})
}

// ToggleReturned flips whether a lending item came back, stamping the
// return date when it did and clearing it otherwise.
func (h *Hub) ToggleReturned(ctx context.Context, id string) (model.LendingItem, bool, error) {
	l, ok := h.Lending.Get(id)
	if !ok {
		return model.LendingItem{}, false, nil
	}
	returned := !l.Returned
	patch := model.LendingItemPatch{Returned: &returned, ReturnDate: model.Clear[time.Time]()}
	if returned {
		patch.ReturnDate = model.Value(h.now())
	}
	return h.Lending.Update(ctx, id, patch)
}
