package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/hearth/pkg/model"
)

var now = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func TestReminderDueTodayIsNotOverdue(t *testing.T) {
	r := model.Reminder{DueDate: date("2024-06-10T08:00:00Z")}

	assert.True(t, ReminderDueToday(r, now))
	assert.False(t, ReminderOverdue(r, now))

	t.Run("earlier today is still not overdue", func(t *testing.T) {
		noon := date("2024-06-10T12:00:00Z")
		assert.False(t, ReminderOverdue(r, noon))
		assert.True(t, ReminderDueToday(r, noon))
	})

	t.Run("yesterday is overdue", func(t *testing.T) {
		r := model.Reminder{DueDate: date("2024-06-09T23:00:00Z")}
		assert.True(t, ReminderOverdue(r, now))
		assert.False(t, ReminderDueToday(r, now))
	})

	t.Run("completed is neither", func(t *testing.T) {
		r := model.Reminder{DueDate: date("2024-06-01T00:00:00Z"), Completed: true}
		assert.False(t, ReminderOverdue(r, now))
		assert.False(t, ReminderDueToday(model.Reminder{DueDate: now, Completed: true}, now))
	})
}

func TestLendingOverdue(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		returned bool
		overdue  bool
		dueSoon  bool
	}{
		{"one second late", "2024-06-09T23:59:59Z", false, true, true},
		{"exactly now", "2024-06-10T00:00:00Z", false, false, true},
		{"three days out", "2024-06-13T00:00:00Z", false, false, true},
		{"just past window", "2024-06-13T00:00:01Z", false, false, false},
		{"returned", "2024-06-01T00:00:00Z", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := model.LendingItem{ExpectedReturnDate: date(tt.expected), Returned: tt.returned}
			assert.Equal(t, tt.overdue, LendingOverdue(l, now))
			assert.Equal(t, tt.dueSoon, LendingDueSoon(l, now))
		})
	}
}

func TestExpiringSoon(t *testing.T) {
	purchase := date("2024-01-20T00:00:00Z")

	assert.False(t, ExpiringSoon(nil, purchase), "missing deadline never expires")
	assert.True(t, ExpiringSoon(ptr(date("2024-02-01T00:00:00Z")), purchase))
	assert.True(t, ExpiringSoon(ptr(date("2024-02-19T00:00:00Z")), purchase), "window end is inclusive")
	assert.False(t, ExpiringSoon(ptr(date("2024-02-19T00:00:01Z")), purchase))
	assert.True(t, ExpiringSoon(ptr(date("2023-12-01T00:00:00Z")), purchase), "already expired counts")

	laptop := model.InventoryItem{
		Name:           "Laptop",
		PurchasePrice:  1200,
		PurchaseDate:   date("2024-01-15T00:00:00Z"),
		WarrantyExpiry: ptr(date("2024-02-01T00:00:00Z")),
	}
	assert.True(t, InventoryExpiring(laptop, purchase))

	laptop.WarrantyExpiry = nil
	laptop.ReturnDeadline = ptr(date("2025-01-01T00:00:00Z"))
	assert.False(t, InventoryExpiring(laptop, purchase))
}

func TestSearch(t *testing.T) {
	notes := []model.Note{
		{ID: "1", Title: "Groceries", Content: "milk", Category: "home"},
		{ID: "2", Title: "Standup", Content: "Ship the MILK feature", Category: "work"},
		{ID: "3", Title: "Ideas", Content: "", Category: "work"},
	}

	got := SearchNotes(notes, "milk", "")
	assert.Len(t, got, 2)

	got = SearchNotes(notes, "milk", "work")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}

	assert.Len(t, SearchNotes(notes, "", CategoryAll), 3)

	sensitive := FilterBySearch(notes, "MILK", false, func(n model.Note) string { return n.Content })
	if assert.Len(t, sensitive, 1) {
		assert.Equal(t, "2", sensitive[0].ID)
	}

	items := []model.InventoryItem{
		{ID: "a", Name: "Laptop", Notes: "work machine", Category: "electronics"},
		{ID: "b", Name: "Chair", Notes: "", Category: "furniture"},
	}
	assert.Len(t, SearchInventory(items, "WORK", ""), 1)
	assert.Len(t, SearchInventory(items, "", "furniture"), 1)
}

func TestFilterReminders(t *testing.T) {
	reminders := []model.Reminder{
		{ID: "done-early", DueDate: date("2024-06-01T00:00:00Z"), Completed: true},
		{ID: "late", DueDate: date("2024-06-20T00:00:00Z")},
		{ID: "soon", DueDate: date("2024-06-11T00:00:00Z")},
		{ID: "tie", DueDate: date("2024-06-20T00:00:00Z")},
	}

	ids := func(rs []model.Reminder) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	assert.Equal(t, []string{"soon", "late", "tie", "done-early"}, ids(FilterReminders(reminders, RemindersAll)))
	assert.Equal(t, []string{"soon", "late", "tie"}, ids(FilterReminders(reminders, RemindersPending)))
	assert.Equal(t, []string{"done-early"}, ids(FilterReminders(reminders, RemindersCompleted)))
	assert.Equal(t, "done-early", reminders[0].ID, "input must not be reordered")
}

func TestFilterLendingAndStats(t *testing.T) {
	items := []model.LendingItem{
		{ID: "a", Type: model.LendingLent, ExpectedReturnDate: date("2024-06-05T00:00:00Z")},
		{ID: "b", Type: model.LendingBorrowed, ExpectedReturnDate: date("2024-06-01T00:00:00Z"), Returned: true},
		{ID: "c", Type: model.LendingLent, ExpectedReturnDate: date("2024-06-12T00:00:00Z")},
	}

	assert.Len(t, FilterLending(items, LendingLent), 2)
	assert.Len(t, FilterLending(items, LendingBorrowed), 1)
	assert.Len(t, FilterLending(items, LendingActive), 2)
	assert.Len(t, FilterLending(items, LendingReturned), 1)

	all := FilterLending(items, LendingAll)
	assert.Equal(t, "b", all[2].ID, "returned items sort last")

	assert.Equal(t, LendingCounts{Total: 3, Lent: 2, Borrowed: 1, Active: 2, Overdue: 1}, LendingStats(items, now))
}

func TestEvents(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "past", Date: date("2024-06-09T10:00:00Z")},
		{ID: "today", Date: date("2024-06-10T10:00:00Z")},
		{ID: "week", Date: date("2024-06-17T00:00:00Z")},
		{ID: "later", Date: date("2024-06-17T00:00:01Z")},
	}

	on := EventsOn(events, date("2024-06-10T23:00:00Z"))
	if assert.Len(t, on, 1) {
		assert.Equal(t, "today", on[0].ID)
	}

	up := UpcomingEvents(events, now, UpcomingWindow)
	assert.Len(t, up, 2)
}

func TestSummarize(t *testing.T) {
	c := Collections{
		Notes: []model.Note{{ID: "n"}},
		Events: []model.CalendarEvent{
			{Date: date("2024-06-12T00:00:00Z")},
		},
		Reminders: []model.Reminder{
			{DueDate: date("2024-06-10T08:00:00Z")},
			{DueDate: date("2024-06-01T08:00:00Z")},
			{DueDate: date("2024-06-01T08:00:00Z"), Completed: true},
		},
		Inventory: []model.InventoryItem{
			{PurchasePrice: 1200, WarrantyExpiry: ptr(date("2024-06-20T00:00:00Z"))},
			{PurchasePrice: 19.5},
		},
		Lending: []model.LendingItem{
			{Type: model.LendingLent, ExpectedReturnDate: date("2024-06-11T00:00:00Z")},
		},
	}

	s := Summarize(c, now)
	assert.Equal(t, 1219.5, s.TotalRevenue)
	assert.Equal(t, 1, s.Notes)
	assert.Equal(t, 2, s.ActiveReminders)
	assert.Equal(t, 1, s.ActiveLending)
	assert.Equal(t, 1, s.UpcomingEvents)
	assert.Equal(t, 1, s.ExpiringInventory)
	assert.Equal(t, ReminderCounts{Total: 3, Pending: 2, Completed: 1, Overdue: 1, DueToday: 1}, s.Reminders)
}
