package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeeklyRuleMatchesOnlyListedDays(t *testing.T) {
	rule := RecurrenceRule{Kind: RecurrenceWeekly, DaysOfWeek: []time.Weekday{time.Monday, time.Wednesday}}

	assert.True(t, rule.Matches(date(2025, time.June, 2)))  // Monday
	assert.True(t, rule.Matches(date(2025, time.June, 4)))  // Wednesday
	assert.False(t, rule.Matches(date(2025, time.June, 3))) // Tuesday
	assert.False(t, rule.Matches(date(2025, time.June, 8))) // Sunday
}

func TestWeeklyRuleEmptySetNeverMatches(t *testing.T) {
	rule := RecurrenceRule{Kind: RecurrenceWeekly}
	for d := date(2025, time.June, 1); d.Month() == time.June; d = d.AddDate(0, 0, 1) {
		assert.False(t, rule.Matches(d))
	}
}

func TestMonthlyRuleMatchesDayOfMonth(t *testing.T) {
	rule := RecurrenceRule{Kind: RecurrenceMonthly, DayOfMonth: 15}

	assert.True(t, rule.Matches(date(2025, time.June, 15)))
	assert.False(t, rule.Matches(date(2025, time.June, 14)))
	assert.False(t, rule.Matches(date(2025, time.July, 16)))
}

func TestMonthlyRuleSkipsShortMonths(t *testing.T) {
	rule := RecurrenceRule{Kind: RecurrenceMonthly, DayOfMonth: 31}

	assert.True(t, rule.Matches(date(2025, time.July, 31)))
	// June has 30 days; no date in June can carry Day()==31.
	for d := date(2025, time.June, 1); d.Month() == time.June; d = d.AddDate(0, 0, 1) {
		assert.False(t, rule.Matches(d))
	}
}

func TestUnknownKindNeverMatches(t *testing.T) {
	rule := RecurrenceRule{Kind: RecurrenceKind("YEARLY"), DayOfMonth: 1}
	assert.False(t, rule.Matches(date(2025, time.January, 1)))
}

func TestWeekdayCSVRoundTrip(t *testing.T) {
	days := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}
	encoded := EncodeWeekdays(days)
	assert.Equal(t, "0,3,6", encoded)

	parsed, ok := ParseWeekdays(encoded)
	assert.True(t, ok)
	assert.Equal(t, days, parsed)
}

func TestParseWeekdaysRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"7", "-1", "mon", "1,,2"} {
		_, ok := ParseWeekdays(bad)
		assert.False(t, ok, "input %q", bad)
	}

	parsed, ok := ParseWeekdays("")
	assert.True(t, ok)
	assert.Empty(t, parsed)
}
