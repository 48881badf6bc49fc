package model

import "time"

// Normalize applies defaults and drops todos from plain notes.
func (n *Note) Normalize() {
	if n.Type == "" {
		n.Type = NoteTypeNote
	}
	if n.Type == NoteTypeNote {
		n.Todos = nil
	}
}

// Normalize applies the default priority.
func (r *Reminder) Normalize() {
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
}

// Normalize applies the default type and keeps ReturnDate consistent with
// Returned: a returned item without a date is stamped with now, an
// outstanding item never carries one.
func (l *LendingItem) Normalize(now time.Time) {
	if l.Type == "" {
		l.Type = LendingLent
	}
	switch {
	case !l.Returned:
		l.ReturnDate = nil
	case l.ReturnDate == nil:
		t := now
		l.ReturnDate = &t
	}
}
