package recurring

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// The occurrence engine is pure calendar arithmetic over a Rule: no I/O and
// no mutation. All dates are normalized to midnight UTC before comparison.

// OccursInMonth reports whether the rule is eligible to produce an occurrence
// within the given calendar month. Eligibility is period-granular: for daily,
// weekly and biweekly rules every month touched by the rule's active window
// counts once, monthly rules fire every covered month, and yearly rules only
// in months a whole number of years after the start month.
func OccursInMonth(r Rule, year int, month time.Month) bool {
	if !r.IsActive {
		return false
	}
	monthsSinceStart := monthsFrom(r.StartDate, year, month)
	if monthsSinceStart < 0 {
		return false
	}
	if !r.EndDate.IsZero() && monthsFrom(r.EndDate, year, month) > 0 {
		return false
	}

	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	case FrequencyYearly:
		return monthsSinceStart%12 == 0
	default:
		log.Warnf("rule %s has unsupported frequency %q, treating as no occurrence", r.Uid, r.Frequency)
		return false
	}
}

// OccurrenceDate returns the concrete date a rule occurrence falls on within
// an eligible month: the rule's DayOfMonth when set, otherwise the 1st,
// clamped to the month's last day.
func OccurrenceDate(r Rule, year int, month time.Month) time.Time {
	day := 1
	if r.DayOfMonth > 0 {
		day = r.DayOfMonth
	}
	return time.Date(year, month, clampDay(day, year, month), 0, 0, 0, 0, time.UTC)
}

// NextOccurrenceOnOrAfter returns the first occurrence falling on or after
// the given date, typically "today" for upcoming-payment views. The second
// return value is false when the rule is inactive, when it has lapsed (its
// end date is in the past), when the next occurrence would fall past the end
// date, or when the frequency is unknown.
func NextOccurrenceOnOrAfter(r Rule, from time.Time) (time.Time, bool) {
	if !r.IsActive {
		return time.Time{}, false
	}
	from = startOfDay(from)
	if !r.EndDate.IsZero() && startOfDay(r.EndDate).Before(from) {
		return time.Time{}, false
	}
	start := startOfDay(r.StartDate)
	if start.After(from) {
		return start, true
	}

	var next time.Time
	switch r.Frequency {
	case FrequencyDaily:
		next = from
	case FrequencyWeekly:
		next = stepDays(start, from, 7)
	case FrequencyBiweekly:
		next = stepDays(start, from, 14)
	case FrequencyMonthly:
		months := monthsFrom(start, from.Year(), from.Month())
		next = monthlyOccurrence(r, start, months)
		if next.Before(from) {
			next = monthlyOccurrence(r, start, months+1)
		}
	case FrequencyYearly:
		years := from.Year() - start.Year()
		next = yearlyOccurrence(start, years)
		if next.Before(from) {
			next = yearlyOccurrence(start, years+1)
		}
	default:
		log.Warnf("rule %s has unsupported frequency %q, treating as no occurrence", r.Uid, r.Frequency)
		return time.Time{}, false
	}

	if !r.EndDate.IsZero() && next.After(startOfDay(r.EndDate)) {
		return time.Time{}, false
	}
	return next, true
}

// stepDays lands on the first multiple of step days from start that is not
// before from. Direct division instead of walking one step at a time keeps
// this O(1) even for rules anchored years in the past.
func stepDays(start, from time.Time, step int) time.Time {
	elapsed := int(from.Sub(start).Hours()) / 24
	periods := (elapsed + step - 1) / step
	return start.AddDate(0, 0, periods*step)
}

func monthlyOccurrence(r Rule, start time.Time, months int) time.Time {
	total := int(start.Month()) - 1 + months
	year := start.Year() + total/12
	month := time.Month(total%12 + 1)

	day := start.Day()
	if r.DayOfMonth > 0 {
		day = r.DayOfMonth
	}
	return time.Date(year, month, clampDay(day, year, month), 0, 0, 0, 0, time.UTC)
}

func yearlyOccurrence(start time.Time, years int) time.Time {
	year := start.Year() + years
	return time.Date(year, start.Month(), clampDay(start.Day(), year, start.Month()), 0, 0, 0, 0, time.UTC)
}

// monthsFrom counts calendar months between the month containing from and
// the (year, month) period; negative when the period precedes from's month.
func monthsFrom(from time.Time, year int, month time.Month) int {
	return (year-from.Year())*12 + int(month) - int(from.Month())
}

func clampDay(day int, year int, month time.Month) int {
	// day zero of the next month is the last day of this one
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
