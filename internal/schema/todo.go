// Package schema provides the data structures stored in the weekly todo file.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// Day names in week order, Monday first. Stored values are always lowercase.
var Days = []string{
	"понедельник",
	"вторник",
	"среда",
	"четверг",
	"пятница",
	"суббота",
	"воскресенье",
}

// Priority values accepted on create and update.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// TimestampLayout matches the UTC millisecond format used for createdAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Todo is a single task planned for a day of the week.
type Todo struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Day         string `json:"day" yaml:"day"`
	Priority    string `json:"priority" yaml:"priority"`
	Completed   bool   `json:"completed" yaml:"completed"`
	CreatedAt   string `json:"createdAt" yaml:"createdAt"`
}

// Document is the whole backing file: {"todos": [...]}.
type Document struct {
	Todos []Todo `json:"todos" yaml:"todos"`
}

// NormalizeDay lowercases a day name for storage and comparison.
func NormalizeDay(day string) string {
	return strings.ToLower(day)
}

// IsValidDay reports whether day, once normalized, is one of Days.
func IsValidDay(day string) bool {
	day = NormalizeDay(day)
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// DayForWeekday maps a time.Weekday onto the stored day name.
func DayForWeekday(wd time.Weekday) string {
	// time.Weekday starts at Sunday, Days starts at Monday.
	return Days[(int(wd)+6)%7]
}

// DayIndex returns the position of day in Days, or -1.
func DayIndex(day string) int {
	day = NormalizeDay(day)
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// IsValidPriority reports whether p is exactly one of Priorities.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PriorityOrDefault returns p when valid and PriorityMedium otherwise.
func PriorityOrDefault(p string) string {
	if IsValidPriority(p) {
		return p
	}
	return PriorityMedium
}

// Timestamp formats t the way createdAt is stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Validate checks that a stored record is well formed.
func (t *Todo) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("id must be positive (got %d)", t.ID)
	}
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !IsValidDay(t.Day) {
		return fmt.Errorf("day %q is not a day of the week", t.Day)
	}
	if !IsValidPriority(t.Priority) {
		return fmt.Errorf("priority must be one of %s (got %q)", strings.Join(Priorities, ", "), t.Priority)
	}
	if t.CreatedAt == "" {
		return fmt.Errorf("createdAt is required")
	}
	return nil
}

// MatchesDay compares the todo's day with day, ignoring case.
func (t *Todo) MatchesDay(day string) bool {
	return NormalizeDay(t.Day) == NormalizeDay(day)
}

// NextID returns one more than the largest id in the document, or 1 when empty.
func (d *Document) NextID() int {
	maxID := 0
	for _, t := range d.Todos {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// IndexOf returns the position of the todo with the given id, or -1.
func (d *Document) IndexOf(id int) int {
	for i := range d.Todos {
		if d.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks every record and that ids are unique.
func (d *Document) Validate() error {
	seen := make(map[int]bool, len(d.Todos))
	for i := range d.Todos {
		t := &d.Todos[i]
		if err := t.Validate(); err != nil {
			return fmt.Errorf("todo %d: %w", i, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
