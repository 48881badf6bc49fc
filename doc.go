// Package hearth is the composition root of the hearth personal
// productivity hub.
//
// It connects the entity repositories (notes, calendar events, reminders,
// inventory and lending records) with a storage adapter chosen at runtime.
// Every collection is persisted as one JSON array under a fixed key, so any
// key -> text store can back it: a directory of JSON files (optionally
// versioned with git), a SQLite database or process memory.
//
// Usage:
//
//	h, err := hearth.New(ctx, "./data",
//		hearth.WithAutoInit(true),
//		hearth.WithLogger(logger),
//	)
//
//	note, err := h.Notes.Create(ctx, model.Note{Title: "Groceries", Type: model.NoteTypeTodo})
//	_, _, err = h.AddTodo(ctx, note.ID, "milk")
//
//	summary := h.Summary()
package hearth
