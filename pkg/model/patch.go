package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Nullable is a patch field for optional values that can be cleared.
// Absent in the input leaves the entity untouched, null clears it and any
// other value replaces it.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Clear returns a Nullable that removes the value.
func Clear[T any]() Nullable[T] { return Nullable[T]{Set: true} }

// Value returns a Nullable that replaces the value with v.
func Value[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Value: &v} }

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// IsZero reports whether the field was left out, so omitzero skips it.
func (n Nullable[T]) IsZero() bool { return !n.Set }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

func (n Nullable[T]) apply(dst **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*dst = nil
		return
	}
	v := *n.Value
	*dst = &v
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// NotePatch is a shallow partial update of a Note.
type NotePatch struct {
	Title    *string     `json:"title,omitempty"`
	Content  *string     `json:"content,omitempty"`
	Category *string     `json:"category,omitempty"`
	Color    *string     `json:"color,omitempty"`
	Type     *NoteType   `json:"type,omitempty"`
	Todos    *[]TodoItem `json:"todos,omitempty"`
}

func (p NotePatch) Apply(n *Note) {
	set(&n.Title, p.Title)
	set(&n.Content, p.Content)
	set(&n.Category, p.Category)
	set(&n.Color, p.Color)
	set(&n.Type, p.Type)
	if p.Todos != nil {
		n.Todos = append([]TodoItem(nil), (*p.Todos)...)
	}
}

type CalendarEventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Time        *string    `json:"time,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

func (p CalendarEventPatch) Apply(e *CalendarEvent) {
	set(&e.Title, p.Title)
	set(&e.Description, p.Description)
	set(&e.Date, p.Date)
	set(&e.Time, p.Time)
	set(&e.Category, p.Category)
	set(&e.Color, p.Color)
}

type ReminderPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

func (p ReminderPatch) Apply(r *Reminder) {
	set(&r.Title, p.Title)
	set(&r.Description, p.Description)
	set(&r.DueDate, p.DueDate)
	set(&r.Priority, p.Priority)
	set(&r.Completed, p.Completed)
}

type InventoryItemPatch struct {
	Name           *string             `json:"name,omitempty"`
	Category       *string             `json:"category,omitempty"`
	PurchaseDate   *time.Time          `json:"purchaseDate,omitempty"`
	PurchasePrice  *float64            `json:"purchasePrice,omitempty"`
	WarrantyExpiry Nullable[time.Time] `json:"warrantyExpiry,omitzero"`
	ReturnDeadline Nullable[time.Time] `json:"returnDeadline,omitzero"`
	ReceiptImage   Nullable[string]    `json:"receiptImage,omitzero"`
	Notes          *string             `json:"notes,omitempty"`
	Location       *string             `json:"location,omitempty"`
}

func (p InventoryItemPatch) Apply(i *InventoryItem) {
	set(&i.Name, p.Name)
	set(&i.Category, p.Category)
	set(&i.PurchaseDate, p.PurchaseDate)
	set(&i.PurchasePrice, p.PurchasePrice)
	p.WarrantyExpiry.apply(&i.WarrantyExpiry)
	p.ReturnDeadline.apply(&i.ReturnDeadline)
	p.ReceiptImage.apply(&i.ReceiptImage)
	set(&i.Notes, p.Notes)
	set(&i.Location, p.Location)
}

type LendingItemPatch struct {
	ItemName           *string             `json:"itemName,omitempty"`
	PersonName         *string             `json:"personName,omitempty"`
	Type               *LendingType        `json:"type,omitempty"`
	LentDate           *time.Time          `json:"lentDate,omitempty"`
	ExpectedReturnDate *time.Time          `json:"expectedReturnDate,omitempty"`
	ReturnDate         Nullable[time.Time] `json:"returnDate,omitzero"`
	Notes              *string             `json:"notes,omitempty"`
	Returned           *bool               `json:"returned,omitempty"`
}

func (p LendingItemPatch) Apply(l *LendingItem) {
	set(&l.ItemName, p.ItemName)
	set(&l.PersonName, p.PersonName)
	set(&l.Type, p.Type)
	set(&l.LentDate, p.LentDate)
	set(&l.ExpectedReturnDate, p.ExpectedReturnDate)
	p.ReturnDate.apply(&l.ReturnDate)
	set(&l.Notes, p.Notes)
	set(&l.Returned, p.Returned)
}
