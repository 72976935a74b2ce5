package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func activeRule(frequency Frequency, startDate time.Time) Rule {
	return Rule{
		Uid:       "test-rule",
		Frequency: frequency,
		StartDate: startDate,
		IsActive:  true,
	}
}

func TestOccursInMonth(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		year  int
		month time.Month
		want  bool
	}{
		{
			name:  "inactive rule never occurs",
			rule:  Rule{Frequency: FrequencyMonthly, StartDate: date(2024, time.January, 1)},
			year:  2024,
			month: time.March,
			want:  false,
		},
		{
			name:  "period before start date",
			rule:  activeRule(FrequencyMonthly, date(2024, time.March, 15)),
			year:  2024,
			month: time.February,
			want:  false,
		},
		{
			name:  "start month itself counts even mid-month",
			rule:  activeRule(FrequencyMonthly, date(2024, time.March, 15)),
			year:  2024,
			month: time.March,
			want:  true,
		},
		{
			name: "end month itself still counts",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2024, time.January, 1))
				r.EndDate = date(2024, time.June, 30)
				return r
			}(),
			year:  2024,
			month: time.June,
			want:  true,
		},
		{
			name: "month after end date does not count",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2024, time.January, 1))
				r.EndDate = date(2024, time.June, 30)
				return r
			}(),
			year:  2024,
			month: time.July,
			want:  false,
		},
		{
			name:  "daily rule occurs every covered month",
			rule:  activeRule(FrequencyDaily, date(2024, time.January, 1)),
			year:  2025,
			month: time.September,
			want:  true,
		},
		{
			name:  "weekly rule occurs every covered month",
			rule:  activeRule(FrequencyWeekly, date(2024, time.January, 1)),
			year:  2024,
			month: time.December,
			want:  true,
		},
		{
			name:  "biweekly rule occurs every covered month",
			rule:  activeRule(FrequencyBiweekly, date(2024, time.January, 1)),
			year:  2024,
			month: time.February,
			want:  true,
		},
		{
			name:  "yearly rule occurs on anniversary month",
			rule:  activeRule(FrequencyYearly, date(2023, time.April, 10)),
			year:  2025,
			month: time.April,
			want:  true,
		},
		{
			name:  "yearly rule silent between anniversaries",
			rule:  activeRule(FrequencyYearly, date(2023, time.April, 10)),
			year:  2025,
			month: time.May,
			want:  false,
		},
		{
			name:  "unknown frequency occurs nowhere",
			rule:  activeRule("quarterly", date(2024, time.January, 1)),
			year:  2024,
			month: time.April,
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccursInMonth(tt.rule, tt.year, tt.month))
		})
	}
}

func TestOccursInMonth_EndDateBoundary(t *testing.T) {
	// A monthly rule running January through June 2024 must fire in exactly
	// those six months and none after.
	rule := activeRule(FrequencyMonthly, date(2024, time.January, 1))
	rule.EndDate = date(2024, time.June, 30)

	for month := time.January; month <= time.June; month++ {
		assert.True(t, OccursInMonth(rule, 2024, month), "expected occurrence in %s", month)
	}
	for month := time.July; month <= time.December; month++ {
		assert.False(t, OccursInMonth(rule, 2024, month), "expected no occurrence in %s", month)
	}
}

func TestOccurrenceDate(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		year  int
		month time.Month
		want  time.Time
	}{
		{
			name:  "defaults to first of the month",
			rule:  activeRule(FrequencyMonthly, date(2024, time.January, 1)),
			year:  2024,
			month: time.March,
			want:  date(2024, time.March, 1),
		},
		{
			name: "uses configured day of month",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2024, time.January, 1))
				r.DayOfMonth = 15
				return r
			}(),
			year:  2024,
			month: time.March,
			want:  date(2024, time.March, 15),
		},
		{
			name: "day 31 clamps to leap February",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2024, time.January, 1))
				r.DayOfMonth = 31
				return r
			}(),
			year:  2024,
			month: time.February,
			want:  date(2024, time.February, 29),
		},
		{
			name: "day 31 clamps to non-leap February",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2023, time.January, 1))
				r.DayOfMonth = 31
				return r
			}(),
			year:  2023,
			month: time.February,
			want:  date(2023, time.February, 28),
		},
		{
			name: "day 31 clamps to 30-day month",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2024, time.January, 1))
				r.DayOfMonth = 31
				return r
			}(),
			year:  2024,
			month: time.April,
			want:  date(2024, time.April, 30),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OccurrenceDate(tt.rule, tt.year, tt.month))
		})
	}
}

func TestNextOccurrenceOnOrAfter(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		from     time.Time
		want     time.Time
		wantNone bool
	}{
		{
			name:     "inactive rule has no next occurrence",
			rule:     Rule{Frequency: FrequencyDaily, StartDate: date(2024, time.January, 1)},
			from:     date(2025, time.January, 1),
			wantNone: true,
		},
		{
			name: "future start date is the next occurrence",
			rule: activeRule(FrequencyMonthly, date(2025, time.March, 10)),
			from: date(2025, time.January, 1),
			want: date(2025, time.March, 10),
		},
		{
			name: "lapsed rule has no next occurrence",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2024, time.January, 1))
				r.EndDate = date(2024, time.June, 30)
				return r
			}(),
			from:     date(2025, time.January, 1),
			wantNone: true,
		},
		{
			name: "daily rule is due immediately",
			rule: activeRule(FrequencyDaily, date(2024, time.January, 1)),
			from: date(2025, time.August, 14),
			want: date(2025, time.August, 14),
		},
		{
			name: "weekly rule lands on the cycle day",
			rule: activeRule(FrequencyWeekly, date(2025, time.August, 4)), // a Monday
			from: date(2025, time.August, 13),                            // a Wednesday
			want: date(2025, time.August, 18),                            // next Monday
		},
		{
			name: "weekly rule due today stays today",
			rule: activeRule(FrequencyWeekly, date(2025, time.August, 4)),
			from: date(2025, time.August, 18),
			want: date(2025, time.August, 18),
		},
		{
			name: "biweekly rule skips the off week",
			rule: activeRule(FrequencyBiweekly, date(2025, time.August, 4)),
			from: date(2025, time.August, 12),
			want: date(2025, time.August, 18),
		},
		{
			name: "monthly rule anchored to start day",
			rule: activeRule(FrequencyMonthly, date(2025, time.January, 20)),
			from: date(2025, time.August, 25),
			want: date(2025, time.September, 20),
		},
		{
			name: "monthly rule due later this month",
			rule: activeRule(FrequencyMonthly, date(2025, time.January, 20)),
			from: date(2025, time.August, 10),
			want: date(2025, time.August, 20),
		},
		{
			name: "monthly day of month override wins over anchor",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2025, time.January, 20))
				r.DayOfMonth = 5
				return r
			}(),
			from: date(2025, time.August, 10),
			want: date(2025, time.September, 5),
		},
		{
			name: "monthly day 31 clamps across short months",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2025, time.January, 31))
				r.DayOfMonth = 31
				return r
			}(),
			from: date(2025, time.February, 1),
			want: date(2025, time.February, 28),
		},
		{
			name: "yearly rule before anniversary this year",
			rule: activeRule(FrequencyYearly, date(2023, time.April, 10)),
			from: date(2025, time.February, 1),
			want: date(2025, time.April, 10),
		},
		{
			name: "yearly rule after anniversary rolls to next year",
			rule: activeRule(FrequencyYearly, date(2023, time.April, 10)),
			from: date(2025, time.May, 1),
			want: date(2026, time.April, 10),
		},
		{
			name: "next occurrence past end date is none",
			rule: func() Rule {
				r := activeRule(FrequencyMonthly, date(2025, time.January, 20))
				r.EndDate = date(2025, time.September, 10)
				return r
			}(),
			from:     date(2025, time.August, 25),
			wantNone: true,
		},
		{
			name:     "unknown frequency yields none",
			rule:     activeRule("quarterly", date(2024, time.January, 1)),
			from:     date(2025, time.January, 1),
			wantNone: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrenceOnOrAfter(tt.rule, tt.from)
			if tt.wantNone {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextOccurrenceOnOrAfter_MonthlyMonotonic(t *testing.T) {
	// Scanning forward day by day must never move the next occurrence
	// backwards, including across the February clamp.
	rule := activeRule(FrequencyMonthly, date(2025, time.January, 31))
	rule.DayOfMonth = 31

	prev, ok := NextOccurrenceOnOrAfter(rule, date(2025, time.January, 1))
	assert.True(t, ok)
	for from := date(2025, time.January, 2); from.Year() == 2025; from = from.AddDate(0, 0, 1) {
		next, ok := NextOccurrenceOnOrAfter(rule, from)
		assert.True(t, ok)
		assert.False(t, next.Before(prev), "next occurrence moved backwards at %s", from)
		assert.False(t, next.Before(from), "next occurrence %s precedes from %s", next, from)
		prev = next
	}
}
