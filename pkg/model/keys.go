package model

// Store keys, one per entity kind. They match the localStorage layout of
// the productivity hub web app so its data and backups stay readable.
const (
	KeyNotes     = "productivity-notes"
	KeyEvents    = "productivity-events"
	KeyReminders = "productivity-reminders"
	KeyInventory = "productivity-inventory"
	KeyLending   = "productivity-lending"
)

// Keys lists every store key in backup order.
var Keys = []string{KeyNotes, KeyEvents, KeyReminders, KeyInventory, KeyLending}
