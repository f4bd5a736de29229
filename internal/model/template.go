package model

import (
	"strconv"
	"strings"
	"time"
)

// RecurrenceKind names the variants of a template's recurrence rule.  The
// values correspond to the `recurrence_kind` enum column on the
// session_templates table.
type RecurrenceKind string

const (
	// RecurrenceWeekly repeats on a fixed set of weekdays.
	RecurrenceWeekly RecurrenceKind = "WEEKLY"
	// RecurrenceMonthly repeats on a fixed day of the month.
	RecurrenceMonthly RecurrenceKind = "MONTHLY"
)

// RecurrenceRule describes when a template spawns sessions.  It is a tagged
// variant: Kind selects which of the remaining fields are meaningful.  For
// WEEKLY rules only DaysOfWeek is used; for MONTHLY rules only DayOfMonth.
// New kinds extend the Matches switch without touching the materializer loop.
type RecurrenceRule struct {
	Kind       RecurrenceKind // which variant this rule is
	DaysOfWeek []time.Weekday // WEEKLY: weekdays the template runs on
	DayOfMonth int            // MONTHLY: calendar day (1..31)
}

// Matches reports whether the rule is due on the given calendar date.  Only
// the date portion of d is considered.  A MONTHLY rule with day 29..31 only
// matches months that actually contain that day.
func (r RecurrenceRule) Matches(d time.Time) bool {
	switch r.Kind {
	case RecurrenceWeekly:
		for _, wd := range r.DaysOfWeek {
			if d.Weekday() == wd {
				return true
			}
		}
		return false
	case RecurrenceMonthly:
		return r.DayOfMonth >= 1 && d.Day() == r.DayOfMonth
	default:
		return false
	}
}

// EncodeWeekdays serializes a weekday set to the CSV form stored in the
// days_of_week column, e.g. "1,3" for Monday and Wednesday.  Numbering
// follows time.Weekday (0 = Sunday).
func EncodeWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

// ParseWeekdays parses the CSV weekday form produced by EncodeWeekdays.
// Blank input yields an empty set; out-of-range entries are rejected.
func ParseWeekdays(s string) ([]time.Weekday, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	var days []time.Weekday
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 6 {
			return nil, false
		}
		days = append(days, time.Weekday(n))
	}
	return days, true
}

// SessionTemplate is a recurrence definition owned by a hall.  Active
// templates are expanded by the materializer into concrete sessions; the
// materializer never mutates them.  BranchID is denormalized from the hall
// so that spawned sessions inherit both references without a second lookup.
//
// NOTE: StartTime uses the DB TIME format "15:04:05"; timestamps use
// "2006-01-02 15:04:05" (UTC), matching the storage layer.
type SessionTemplate struct {
	ID              uint64         // session_templates.id
	HallID          uint64         // session_templates.hall_id
	BranchID        uint64         // halls.branch_id (joined on load)
	Title           string         // session_templates.title
	Rule            RecurrenceRule // recurrence_kind + days_of_week / day_of_month
	StartTime       string         // session_templates.start_time ("HH:MM:SS")
	DurationMin     uint32         // session_templates.duration_min
	PriceCents      uint32         // session_templates.price_cents
	MaxParticipants uint32         // session_templates.max_participants
	IsActive        bool           // session_templates.is_active
	CreatedAt       string         // session_templates.created_at
	UpdatedAt       string         // session_templates.updated_at
}
