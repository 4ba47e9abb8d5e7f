// Package daterange narrows dated collections to the named ranges offered by the attendance
// and leave screens (today, this week, last month, a custom span, ...).
//
// All bounds are inclusive calendar days. "now" is always passed in by the caller and its own
// location decides which calendar day it is.
package daterange

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
)

// Key names a range selector.
type Key string

const (
	All       Key = "all"
	Today     Key = "today"
	Yesterday Key = "yesterday"
	ThisWeek  Key = "this-week"
	LastWeek  Key = "last-week"
	ThisMonth Key = "this-month"
	LastMonth Key = "last-month"
	Custom    Key = "custom"
)

// Keys lists every selector in the order screens present them.
var Keys = []Key{All, Today, Yesterday, ThisWeek, LastWeek, ThisMonth, LastMonth, Custom}

// ParseKey accepts a selector name, case-insensitively.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return All, nil
	}
	for _, known := range Keys {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// Selection is a selector plus the caller-supplied bounds used by Custom.
type Selection struct {
	Key   Key
	Start *date.Date
	End   *date.Date
}

// Day returns the calendar day of t in t's own location.
func Day(t time.Time) date.Date {
	y, m, d := t.Date()
	return date.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// AddDays shifts a calendar day.
func AddDays(d date.Date, n int) date.Date {
	return date.Date{Time: d.AddDate(0, 0, n)}
}

func firstOfMonth(d date.Date) date.Date {
	return date.Date{Time: time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// Bounds resolves sel against now. ok is false when the selection does not filter at all:
// All, unknown keys, and a Custom range missing either bound.
func Bounds(sel Selection, now time.Time) (from, to date.Date, ok bool) {
	today := Day(now)
	weekday := int(now.Weekday())

	switch sel.Key {
	case Today:
		return today, today, true
	case Yesterday:
		y := AddDays(today, -1)
		return y, y, true
	case ThisWeek:
		return AddDays(today, -weekday), today, true
	case LastWeek:
		return AddDays(today, -weekday-7), AddDays(today, -weekday-1), true
	case ThisMonth:
		return firstOfMonth(today), today, true
	case LastMonth:
		lastPrev := AddDays(firstOfMonth(today), -1)
		return firstOfMonth(lastPrev), lastPrev, true
	case Custom:
		if sel.Start == nil || sel.End == nil {
			return date.Date{}, date.Date{}, false
		}
		from, to = Day(sel.Start.Time), Day(sel.End.Time)
		if from.After(to.Time) {
			from, to = to, from
		}
		return from, to, true
	default:
		return date.Date{}, date.Date{}, false
	}
}

// Contains reports whether d lies in [from, to].
func Contains(from, to, d date.Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}

// Filter returns the items whose date falls in the selected range, preserving order.
// Items whose date cannot be read are dropped; a non-filtering selection returns a copy of items.
func Filter[T any](items []T, dateOf func(T) (date.Date, bool), sel Selection, now time.Time) []T {
	from, to, ok := Bounds(sel, now)
	if !ok {
		return slices.Clone(items)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		d, ok := dateOf(it)
		if !ok {
			continue
		}
		if Contains(from, to, Day(d.Time)) {
			out = append(out, it)
		}
	}
	return out
}
