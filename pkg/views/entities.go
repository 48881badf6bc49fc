package views

import (
	"time"

	"github.com/aretw0/hearth/pkg/model"
)

// ReminderStatus selects reminders by completion.
type ReminderStatus string

const (
	RemindersAll       ReminderStatus = "all"
	RemindersPending   ReminderStatus = "pending"
	RemindersCompleted ReminderStatus = "completed"
)

// LendingFilter selects lending items by direction or state.
type LendingFilter string

const (
	LendingAll      LendingFilter = "all"
	LendingLent     LendingFilter = "lent"
	LendingBorrowed LendingFilter = "borrowed"
	LendingActive   LendingFilter = "active"
	LendingReturned LendingFilter = "returned"
)

// ReminderOverdue reports an open reminder whose due date has passed on an
// earlier day. A reminder due later today is due today, not overdue.
func ReminderOverdue(r model.Reminder, now time.Time) bool {
	return IsOverdue(r.DueDate, r.Completed, now) && !IsSameDay(r.DueDate, now)
}

// ReminderDueToday reports an open reminder due on now's calendar day.
func ReminderDueToday(r model.Reminder, now time.Time) bool {
	return !r.Completed && IsSameDay(r.DueDate, now)
}

func LendingOverdue(l model.LendingItem, now time.Time) bool {
	return IsOverdue(l.ExpectedReturnDate, l.Returned, now)
}

func LendingDueSoon(l model.LendingItem, now time.Time) bool {
	return IsDueSoon(l.ExpectedReturnDate, l.Returned, now, LendingDueSoonWindow)
}

// ExpiringSoon reports whether an optional deadline falls within
// ExpiryWindow of now. Past deadlines count; a missing one never does.
func ExpiringSoon(date *time.Time, now time.Time) bool {
	if date == nil {
		return false
	}
	return IsDueSoon(*date, false, now, ExpiryWindow)
}

// InventoryExpiring reports an item whose warranty or return deadline is
// expiring soon.
func InventoryExpiring(i model.InventoryItem, now time.Time) bool {
	return ExpiringSoon(i.WarrantyExpiry, now) || ExpiringSoon(i.ReturnDeadline, now)
}

// SearchNotes filters notes by category and by a case-insensitive term
// matched against title and content.
func SearchNotes(notes []model.Note, term, category string) []model.Note {
	out := FilterByCategory(notes, category, func(n model.Note) string { return n.Category })
	return FilterBySearch(out, term, true,
		func(n model.Note) string { return n.Title },
		func(n model.Note) string { return n.Content },
	)
}

// SearchInventory filters items by category and by a case-insensitive term
// matched against name and notes.
func SearchInventory(items []model.InventoryItem, term, category string) []model.InventoryItem {
	out := FilterByCategory(items, category, func(i model.InventoryItem) string { return i.Category })
	return FilterBySearch(out, term, true,
		func(i model.InventoryItem) string { return i.Name },
		func(i model.InventoryItem) string { return i.Notes },
	)
}

// FilterReminders selects by status and sorts pending first by due date.
func FilterReminders(reminders []model.Reminder, status ReminderStatus) []model.Reminder {
	out := filter(reminders, func(r model.Reminder) bool {
		switch status {
		case RemindersPending:
			return !r.Completed
		case RemindersCompleted:
			return r.Completed
		default:
			return true
		}
	})
	return SortByDueDateThenCompletion(out,
		func(r model.Reminder) time.Time { return r.DueDate },
		func(r model.Reminder) bool { return r.Completed },
	)
}

// FilterLending selects by filter and sorts open items first by expected
// return date.
func FilterLending(items []model.LendingItem, f LendingFilter) []model.LendingItem {
	out := filter(items, func(l model.LendingItem) bool {
		switch f {
		case LendingLent:
			return l.Type == model.LendingLent
		case LendingBorrowed:
			return l.Type == model.LendingBorrowed
		case LendingActive:
			return !l.Returned
		case LendingReturned:
			return l.Returned
		default:
			return true
		}
	})
	return SortByDueDateThenCompletion(out,
		func(l model.LendingItem) time.Time { return l.ExpectedReturnDate },
		func(l model.LendingItem) bool { return l.Returned },
	)
}

// EventsOn returns the events on day's calendar day, in collection order.
func EventsOn(events []model.CalendarEvent, day time.Time) []model.CalendarEvent {
	return filter(events, func(e model.CalendarEvent) bool { return IsSameDay(e.Date, day) })
}

// UpcomingEvents returns the events dated within [now, now+window].
func UpcomingEvents(events []model.CalendarEvent, now time.Time, window time.Duration) []model.CalendarEvent {
	end := now.Add(window)
	return filter(events, func(e model.CalendarEvent) bool {
		return !e.Date.Before(now) && !e.Date.After(end)
	})
}

// TotalPurchasePrice sums the purchase prices of items.
func TotalPurchasePrice(items []model.InventoryItem) float64 {
	var total float64
	for _, i := range items {
		total += i.PurchasePrice
	}
	return total
}

// ReminderCounts aggregates reminders by state.
type ReminderCounts struct {
	Total     int `json:"total" yaml:"total"`
	Pending   int `json:"pending" yaml:"pending"`
	Completed int `json:"completed" yaml:"completed"`
	Overdue   int `json:"overdue" yaml:"overdue"`
	DueToday  int `json:"dueToday" yaml:"dueToday"`
}

func CountReminders(reminders []model.Reminder, now time.Time) ReminderCounts {
	return ReminderCounts{
		Total:     len(reminders),
		Pending:   count(reminders, func(r model.Reminder) bool { return !r.Completed }),
		Completed: count(reminders, func(r model.Reminder) bool { return r.Completed }),
		Overdue:   count(reminders, func(r model.Reminder) bool { return ReminderOverdue(r, now) }),
		DueToday:  count(reminders, func(r model.Reminder) bool { return ReminderDueToday(r, now) }),
	}
}

// LendingCounts aggregates lending items.
type LendingCounts struct {
	Total    int `json:"total" yaml:"total"`
	Lent     int `json:"lent" yaml:"lent"`
	Borrowed int `json:"borrowed" yaml:"borrowed"`
	Active   int `json:"active" yaml:"active"`
	Overdue  int `json:"overdue" yaml:"overdue"`
}

func LendingStats(items []model.LendingItem, now time.Time) LendingCounts {
	return LendingCounts{
		Total:    len(items),
		Lent:     count(items, func(l model.LendingItem) bool { return l.Type == model.LendingLent }),
		Borrowed: count(items, func(l model.LendingItem) bool { return l.Type == model.LendingBorrowed }),
		Active:   count(items, func(l model.LendingItem) bool { return !l.Returned }),
		Overdue:  count(items, func(l model.LendingItem) bool { return LendingOverdue(l, now) }),
	}
}

// Collections is a snapshot of every repository.
type Collections struct {
	Notes     []model.Note
	Events    []model.CalendarEvent
	Reminders []model.Reminder
	Inventory []model.InventoryItem
	Lending   []model.LendingItem
}

// Summary is the dashboard overview.
type Summary struct {
	TotalRevenue      float64        `json:"totalRevenue" yaml:"totalRevenue"`
	Notes             int            `json:"notes" yaml:"notes"`
	ActiveReminders   int            `json:"activeReminders" yaml:"activeReminders"`
	ActiveLending     int            `json:"activeLending" yaml:"activeLending"`
	UpcomingEvents    int            `json:"upcomingEvents" yaml:"upcomingEvents"`
	ExpiringInventory int            `json:"expiringInventory" yaml:"expiringInventory"`
	Reminders         ReminderCounts `json:"reminders" yaml:"reminders"`
	Lending           LendingCounts  `json:"lending" yaml:"lending"`
}

// Summarize computes the dashboard overview.
func Summarize(c Collections, now time.Time) Summary {
	reminders := CountReminders(c.Reminders, now)
	lending := LendingStats(c.Lending, now)
	return Summary{
		TotalRevenue:      TotalPurchasePrice(c.Inventory),
		Notes:             len(c.Notes),
		ActiveReminders:   reminders.Pending,
		ActiveLending:     lending.Active,
		UpcomingEvents:    len(UpcomingEvents(c.Events, now, UpcomingWindow)),
		ExpiringInventory: count(c.Inventory, func(i model.InventoryItem) bool { return InventoryExpiring(i, now) }),
		Reminders:         reminders,
		Lending:           lending,
	}
}
