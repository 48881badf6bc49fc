// Package views computes filters, sorts and aggregates over collection
// snapshots. Every function is pure and takes "now" explicitly.
package views

import (
	"slices"
	"strings"
	"time"
)

const (
	// LendingDueSoonWindow is how far ahead a lending return counts as due soon.
	LendingDueSoonWindow = 3 * 24 * time.Hour
	// ExpiryWindow is how far ahead a warranty or return deadline counts as expiring.
	ExpiryWindow = 30 * 24 * time.Hour
	// UpcomingWindow bounds the dashboard's upcoming events.
	UpcomingWindow = 7 * 24 * time.Hour
)

// CategoryAll matches every category.
const CategoryAll = "all"

// IsOverdue reports whether date lies strictly before now and the item is
// still open.
func IsOverdue(date time.Time, done bool, now time.Time) bool {
	return !done && date.Before(now)
}

// IsDueSoon reports whether an open item is due at or before now+window.
// Overdue items are due soon as well.
func IsDueSoon(date time.Time, done bool, now time.Time, window time.Duration) bool {
	return !done && !date.After(now.Add(window))
}

// IsSameDay reports whether a and b fall on the same calendar day in b's
// location.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FilterByCategory keeps items whose category equals category.
// An empty category or CategoryAll keeps everything.
func FilterByCategory[T any](items []T, category string, categoryOf func(T) string) []T {
	if category == "" || category == CategoryAll {
		return slices.Clone(items)
	}
	return filter(items, func(it T) bool { return categoryOf(it) == category })
}

// FilterBySearch keeps items where any of fields contains term.
// An empty term keeps everything.
func FilterBySearch[T any](items []T, term string, caseInsensitive bool, fields ...func(T) string) []T {
	if term == "" {
		return slices.Clone(items)
	}
	if caseInsensitive {
		term = strings.ToLower(term)
	}
	return filter(items, func(it T) bool {
		for _, field := range fields {
			v := field(it)
			if caseInsensitive {
				v = strings.ToLower(v)
			}
			if strings.Contains(v, term) {
				return true
			}
		}
		return false
	})
}

// SortByDueDateThenCompletion returns a copy with open items first, each
// group in ascending date order. Ties keep their collection order.
func SortByDueDateThenCompletion[T any](items []T, date func(T) time.Time, done func(T) bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		da, db := done(a), done(b)
		if da != db {
			if da {
				return 1
			}
			return -1
		}
		return date(a).Compare(date(b))
	})
	return out
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func count[T any](items []T, keep func(T) bool) int {
	n := 0
	for _, it := range items {
		if keep(it) {
			n++
		}
	}
	return n
}
