package schedule

import (
	"context"
	"time"

	ierr "github.com/subtally/subtally/internal/errors"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/types"
)

// DefaultMaxSteps caps occurrence iteration so an anchor absurdly far from
// the queried range surfaces ErrOutOfRange instead of spinning.
const DefaultMaxSteps = 10000

// Generator derives occurrence dates from (anchor, period, cycle index).
// It is stateless and safe for concurrent use.
//
// Every other billing-date computation in the engine goes through this type;
// the calendar projector, the schedule cache and the reminder calculator are
// all consumers of the same sequence.
type Generator struct {
	maxSteps int
}

func NewGenerator() *Generator {
	return &Generator{maxSteps: DefaultMaxSteps}
}

// NewGeneratorWithCap overrides the iteration cap, mainly for tests and for
// hosts that want a tighter bound.
func NewGeneratorWithCap(maxSteps int) *Generator {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Generator{maxSteps: maxSteps}
}

// Occurrence returns the date of the cycle-th occurrence, cycle 0 being the
// anchor itself. Month-stepped occurrences are always derived from the
// anchor, not from the previous occurrence, so an anchor on Jan 31 yields
// Feb 29 (clamped) and then Mar 31, not Mar 29.
func (g *Generator) Occurrence(period types.RecurrencePeriod, anchor time.Time, cycle int) (time.Time, error) {
	if cycle < 0 {
		return time.Time{}, ierr.NewError("cycle index cannot be negative").
			WithReportableDetails(map[string]any{"cycle": cycle}).
			Mark(ierr.ErrValidation)
	}
	if cycle == 0 {
		return anchor, nil
	}

	if step, ok := period.MonthStep(); ok {
		return types.AddClampedDate(anchor, 0, step*cycle, 0), nil
	}

	switch period {
	case types.RECURRENCE_PERIOD_SEMIMONTHLY:
		return anchor.AddDate(0, 0, 15*cycle), nil
	case types.RECURRENCE_PERIOD_CUSTOM:
		return time.Time{}, ierr.NewError("custom period has no automatic step").
			WithHint("Custom subscriptions bill on the anchor date only").
			Mark(ierr.ErrInvalidRecurrence)
	default:
		return time.Time{}, ierr.NewError("invalid recurrence period").
			WithReportableDetails(map[string]any{"provided_value": period}).
			Mark(ierr.ErrValidation)
	}
}

// Occurrences returns the first n occurrence dates starting at the anchor.
func (g *Generator) Occurrences(period types.RecurrencePeriod, anchor time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, ierr.NewError("occurrence count must be positive").
			WithReportableDetails(map[string]any{"count": n}).
			Mark(ierr.ErrValidation)
	}
	if n > g.maxSteps {
		return nil, ierr.NewError("occurrence count exceeds iteration cap").
			WithReportableDetails(map[string]any{
				"count":     n,
				"max_steps": g.maxSteps,
			}).
			Mark(ierr.ErrOutOfRange)
	}

	out := make([]time.Time, 0, n)
	for cycle := 0; cycle < n; cycle++ {
		occ, err := g.Occurrence(period, anchor, cycle)
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, nil
}

// NextOccurrenceOnOrAfter returns the least occurrence date >= target. An
// anchor in the future relative to target is its own answer. Iteration is
// capped; hitting the cap surfaces ErrOutOfRange.
func (g *Generator) NextOccurrenceOnOrAfter(period types.RecurrencePeriod, anchor, target time.Time) (time.Time, error) {
	targetDay := types.StartOfDay(target)
	if !types.StartOfDay(anchor).Before(targetDay) {
		return anchor, nil
	}

	if period == types.RECURRENCE_PERIOD_CUSTOM {
		return time.Time{}, ierr.NewError("custom period has no occurrences past the anchor").
			WithHint("Custom subscriptions bill on the anchor date only").
			Mark(ierr.ErrInvalidRecurrence)
	}

	for cycle := 1; cycle <= g.maxSteps; cycle++ {
		occ, err := g.Occurrence(period, anchor, cycle)
		if err != nil {
			return time.Time{}, err
		}
		if !types.StartOfDay(occ).Before(targetDay) {
			return occ, nil
		}
	}

	return time.Time{}, ierr.NewError("occurrence iteration exceeded cap").
		WithHintf("No occurrence found within %d steps of the anchor", g.maxSteps).
		WithReportableDetails(map[string]any{
			"period": period,
			"anchor": anchor,
			"target": target,
		}).
		Mark(ierr.ErrOutOfRange)
}

// OccursOn reports whether date is reachable from the anchor by a whole
// number of steps. Month-stepped periods reduce to modular month arithmetic
// plus a clamped day comparison; semimonthly reduces to elapsed days modulo
// 15. No iteration happens here.
func (g *Generator) OccursOn(period types.RecurrencePeriod, anchor, date time.Time) (bool, error) {
	if step, ok := period.MonthStep(); ok {
		monthsDiff := types.MonthsBetween(anchor, date)
		if monthsDiff < 0 || monthsDiff%step != 0 {
			return false, nil
		}
		if monthsDiff == 0 {
			return anchor.Day() == date.Day(), nil
		}
		want := anchor.Day()
		if last := types.DaysInMonth(date.Year(), date.Month()); want > last {
			// the literal anchor day does not exist in this month;
			// the occurrence is the clamped last day
			want = last
		}
		return date.Day() == want, nil
	}

	switch period {
	case types.RECURRENCE_PERIOD_SEMIMONTHLY:
		days := types.DaysBetween(anchor, date)
		return days >= 0 && days%15 == 0, nil
	case types.RECURRENCE_PERIOD_CUSTOM:
		// never auto-advances: the anchor is the only occurrence
		return types.SameDay(anchor, date), nil
	default:
		return false, ierr.NewError("invalid recurrence period").
			WithReportableDetails(map[string]any{"provided_value": period}).
			Mark(ierr.ErrValidation)
	}
}

// Matches is the subscription-level convenience over OccursOn used by the
// calendar projector.
func (g *Generator) Matches(_ context.Context, sub *subscription.Subscription, date time.Time) (bool, error) {
	return g.OccursOn(sub.Period, sub.AnchorDate, date)
}

// NextBillingDate returns the subscription's first occurrence on or after
// now. For custom periods the anchor is the only candidate: a past anchor
// means the subscription never bills again, surfaced as ErrInvalidRecurrence
// by NextOccurrenceOnOrAfter.
func (g *Generator) NextBillingDate(sub *subscription.Subscription, now time.Time) (time.Time, error) {
	return g.NextOccurrenceOnOrAfter(sub.Period, sub.AnchorDate, now)
}
