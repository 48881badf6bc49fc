// Package model defines the entity kinds persisted by hearth and the typed
// partial updates applied to them.
package model

import "time"

// NoteType distinguishes free-text notes from checklists.
type NoteType string

const (
	NoteTypeNote NoteType = "note"
	NoteTypeTodo NoteType = "todo"
)

// Priority of a reminder.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// LendingType tells whether an item left (lent) or arrived (borrowed).
type LendingType string

const (
	LendingLent     LendingType = "lent"
	LendingBorrowed LendingType = "borrowed"
)

// Note is a free-text note or a todo list. Todos are owned by the note and
// only present when Type is NoteTypeTodo.
type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" validate:"required"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	Color     string     `json:"color"`
	Type      NoteType   `json:"type" validate:"oneof=note todo"`
	Todos     []TodoItem `json:"todos,omitempty" validate:"dive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// TodoItem is a checklist entry of a Note.
type TodoItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text" validate:"required"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// CalendarEvent is a single dated event. Time is free-form ("14:30").
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
}

type Reminder struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority" validate:"oneof=low medium high"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InventoryItem tracks a purchase with its optional warranty and return
// deadlines.
type InventoryItem struct {
	ID             string     `json:"id"`
	Name           string     `json:"name" validate:"required"`
	Category       string     `json:"category"`
	PurchaseDate   time.Time  `json:"purchaseDate"`
	PurchasePrice  float64    `json:"purchasePrice" validate:"gte=0"`
	WarrantyExpiry *time.Time `json:"warrantyExpiry,omitempty"`
	ReturnDeadline *time.Time `json:"returnDeadline,omitempty"`
	ReceiptImage   *string    `json:"receiptImage,omitempty"`
	Notes          string     `json:"notes"`
	Location       string     `json:"location"`
}

// LendingItem records something lent to or borrowed from a person.
// ReturnDate is only set once Returned is true.
type LendingItem struct {
	ID                 string      `json:"id"`
	ItemName           string      `json:"itemName" validate:"required"`
	PersonName         string      `json:"personName" validate:"required"`
	Type               LendingType `json:"type" validate:"oneof=lent borrowed"`
	LentDate           time.Time   `json:"lentDate"`
	ExpectedReturnDate time.Time   `json:"expectedReturnDate"`
	ReturnDate         *time.Time  `json:"returnDate,omitempty"`
	Notes              string      `json:"notes"`
	Returned           bool        `json:"returned"`
}
