package types

import (
	"time"

	ierr "github.com/subtally/subtally/internal/errors"
)

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysBetween returns the number of calendar days from a to b, negative when
// b is before a. Both dates are normalized to UTC midnights first so the
// result is not affected by clock times or DST transitions.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// MonthsBetween returns the whole-month distance from a's month to b's month,
// ignoring days. Negative when b's month precedes a's.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// AddClampedDate adds year, month and day offsets to t. Unlike time.AddDate,
// a day-of-month that does not exist in the resulting month is clamped to the
// month's last day instead of spilling into the next month, so Jan 31 + one
// month is Feb 29 in a leap year rather than Mar 2. The day offset is applied
// after clamping with plain calendar addition.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	hour, min, sec := t.Clock()

	total := int(m) - 1 + months
	newY := y + years + total/12
	newM := time.Month(total%12 + 1)
	if newM < 1 {
		// Go integer division truncates toward zero, so negative month
		// offsets can land one year high with a negative month remainder
		newM += 12
		newY--
	}

	newD := d
	if last := DaysInMonth(newY, newM); newD > last {
		newD = last
	}

	out := time.Date(newY, newM, newD, hour, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		out = out.AddDate(0, 0, days)
	}
	return out
}

// NextOccurrence advances from one occurrence date to the next under the
// given period. Month-stepped periods preserve from's day where the target
// month allows it and clamp otherwise. Stepping is strictly monotonic for
// every period except CUSTOM, which has no automatic step and returns from
// unchanged along with an ErrInvalidRecurrence-marked error.
//
// Note that chaining NextOccurrence across a clamped month loses the
// original day-of-month (Jan 31 -> Feb 29 -> Mar 29). Callers that need an
// anchor-faithful sequence should derive occurrences by cycle index via
// schedule.Generator instead of chaining steps.
func NextOccurrence(period RecurrencePeriod, from time.Time) (time.Time, error) {
	switch period {
	case RECURRENCE_PERIOD_MONTHLY:
		return AddClampedDate(from, 0, 1, 0), nil
	case RECURRENCE_PERIOD_SEMIMONTHLY:
		return from.AddDate(0, 0, 15), nil
	case RECURRENCE_PERIOD_BIMONTHLY:
		return AddClampedDate(from, 0, 2, 0), nil
	case RECURRENCE_PERIOD_QUARTERLY:
		return AddClampedDate(from, 0, 3, 0), nil
	case RECURRENCE_PERIOD_SEMIANNUAL:
		return AddClampedDate(from, 0, 6, 0), nil
	case RECURRENCE_PERIOD_ANNUAL:
		return AddClampedDate(from, 1, 0, 0), nil
	case RECURRENCE_PERIOD_BIENNIAL:
		return AddClampedDate(from, 2, 0, 0), nil
	case RECURRENCE_PERIOD_CUSTOM:
		return from, ierr.NewError("custom period has no automatic step").
			WithHint("Custom subscriptions never advance automatically; supply an explicit rule").
			Mark(ierr.ErrInvalidRecurrence)
	default:
		return from, ierr.NewError("invalid recurrence period").
			WithReportableDetails(map[string]any{
				"provided_value": period,
			}).
			Mark(ierr.ErrValidation)
	}
}
