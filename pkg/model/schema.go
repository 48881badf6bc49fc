package model

import "github.com/aretw0/hearth/pkg/codec"

// Date schemas per entity kind. The field names are the JSON names.
var (
	TodoSchema = codec.Schema{Kind: "todo", Dates: []string{"createdAt"}}

	NoteSchema = codec.Schema{
		Kind:   "note",
		Dates:  []string{"createdAt", "updatedAt"},
		Nested: map[string]codec.Schema{"todos": TodoSchema},
	}

	CalendarEventSchema = codec.Schema{Kind: "calendarEvent", Dates: []string{"date"}}

	ReminderSchema = codec.Schema{Kind: "reminder", Dates: []string{"dueDate", "createdAt"}}

	InventoryItemSchema = codec.Schema{
		Kind:  "inventoryItem",
		Dates: []string{"purchaseDate", "warrantyExpiry", "returnDeadline"},
	}

	LendingItemSchema = codec.Schema{
		Kind:  "lendingItem",
		Dates: []string{"lentDate", "expectedReturnDate", "returnDate"},
	}
)
