package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hearth/pkg/core"
)

func ptr[T any](v T) *T { return &v }

func TestNotePatch_ShallowMerge(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	note := Note{
		ID:        "n1",
		Title:     "old",
		Content:   "body",
		Category:  "Personal",
		Type:      NoteTypeTodo,
		Todos:     []TodoItem{{ID: "t1", Text: "milk"}},
		CreatedAt: created,
	}

	NotePatch{Title: ptr("x")}.Apply(&note)

	assert.Equal(t, "x", note.Title)
	assert.Equal(t, "body", note.Content)
	assert.Equal(t, "Personal", note.Category)
	assert.Len(t, note.Todos, 1)
	assert.Equal(t, "n1", note.ID)
	assert.True(t, note.CreatedAt.Equal(created))
}

func TestNotePatch_TodosAreCopied(t *testing.T) {
	todos := []TodoItem{{ID: "t1", Text: "a"}}
	var note Note
	NotePatch{Todos: &todos}.Apply(&note)
	todos[0].Text = "changed"
	assert.Equal(t, "a", note.Todos[0].Text)
}

func TestNullable(t *testing.T) {
	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	item := InventoryItem{WarrantyExpiry: &expiry, ReceiptImage: ptr("r.png")}

	t.Run("absent leaves value", func(t *testing.T) {
		it := item
		InventoryItemPatch{}.Apply(&it)
		require.NotNil(t, it.WarrantyExpiry)
		require.NotNil(t, it.ReceiptImage)
	})

	t.Run("clear removes value", func(t *testing.T) {
		it := item
		InventoryItemPatch{WarrantyExpiry: Clear[time.Time]()}.Apply(&it)
		assert.Nil(t, it.WarrantyExpiry)
		assert.NotNil(t, it.ReceiptImage)
	})

	t.Run("value replaces", func(t *testing.T) {
		it := item
		next := expiry.AddDate(1, 0, 0)
		InventoryItemPatch{WarrantyExpiry: Value(next)}.Apply(&it)
		require.NotNil(t, it.WarrantyExpiry)
		assert.True(t, it.WarrantyExpiry.Equal(next))
	})
}

func TestDecode_Patch(t *testing.T) {
	t.Run("null clears and dates parse", func(t *testing.T) {
		p, err := Decode[InventoryItemPatch](InventoryItemSchema, []byte(`{"warrantyExpiry":null,"purchaseDate":"2024-01-15","name":"Laptop"}`))
		require.NoError(t, err)
		assert.True(t, p.WarrantyExpiry.Set)
		assert.Nil(t, p.WarrantyExpiry.Value)
		assert.False(t, p.ReturnDeadline.Set)
		require.NotNil(t, p.PurchaseDate)
		assert.Equal(t, time.January, p.PurchaseDate.Month())
		assert.Equal(t, "Laptop", *p.Name)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := Decode[NotePatch](NoteSchema, []byte(`{"title":"x","colour":"red"}`))
		assert.ErrorIs(t, err, core.ErrUnknownField)
	})

	t.Run("immutable fields rejected", func(t *testing.T) {
		_, err := Decode[NotePatch](NoteSchema, []byte(`{"id":"other"}`))
		assert.ErrorIs(t, err, core.ErrUnknownField)
		_, err = Decode[NotePatch](NoteSchema, []byte(`{"createdAt":"2024-01-01"}`))
		assert.ErrorIs(t, err, core.ErrUnknownField)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Decode[ReminderPatch](ReminderSchema, []byte(`{"title":`))
		var pe *core.ParseError
		assert.True(t, errors.As(err, &pe))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		v         any
		wantField string
	}{
		{"valid note", &Note{Title: "a", Type: NoteTypeNote}, ""},
		{"blank title", &Note{Type: NoteTypeNote}, "title"},
		{"bad note type", &Note{Title: "a", Type: "memo"}, "type"},
		{"bad todo", &Note{Title: "a", Type: NoteTypeTodo, Todos: []TodoItem{{ID: "t"}}}, "todos[0].text"},
		{"bad priority", &Reminder{Title: "a", Priority: "urgent"}, "priority"},
		{"negative price", &InventoryItem{Name: "a", PurchasePrice: -1}, "purchasePrice"},
		{"missing person", &LendingItem{ItemName: "drill", Type: LendingLent}, "personName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.v)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	n := Note{Title: "a", Todos: []TodoItem{{ID: "t"}}}
	n.Normalize()
	assert.Equal(t, NoteTypeNote, n.Type)
	assert.Nil(t, n.Todos)

	r := Reminder{Title: "a"}
	r.Normalize()
	assert.Equal(t, PriorityMedium, r.Priority)

	l := LendingItem{Returned: true}
	l.Normalize(now)
	assert.Equal(t, LendingLent, l.Type)
	require.NotNil(t, l.ReturnDate)
	assert.True(t, l.ReturnDate.Equal(now))

	l.Returned = false
	l.Normalize(now)
	assert.Nil(t, l.ReturnDate)
}
