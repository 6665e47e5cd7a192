package calendar

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	ierr "github.com/subtally/subtally/internal/errors"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/types"
)

// Matcher answers whether a subscription bills on a given day. The schedule
// generator is the canonical implementation; the schedule cache wraps it with
// a memoized (month, day) pre-filter.
type Matcher interface {
	Matches(ctx context.Context, sub *subscription.Subscription, date time.Time) (bool, error)
}

// Projector expands subscriptions over displayed month grids.
type Projector struct {
	matcher   Matcher
	clock     types.Clock
	weekStart time.Weekday
}

func NewProjector(matcher Matcher, clock types.Clock, weekStart time.Weekday) *Projector {
	return &Projector{
		matcher:   matcher,
		clock:     clock,
		weekStart: weekStart,
	}
}

// Project returns the full displayed grid for the month containing the given
// instant: the month's days plus the adjacent-month days needed to complete
// 7-day week rows. Each day carries the active subscriptions billing on it.
func (p *Projector) Project(ctx context.Context, month time.Time, subs []*subscription.Subscription) ([]Date, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := time.Date(month.Year(), month.Month(), types.DaysInMonth(month.Year(), month.Month()), 0, 0, 0, 0, month.Location())

	// walk back to the week start before (or on) the 1st, forward to the
	// week end after (or on) the last day
	gridStart := first.AddDate(0, 0, -p.leadingDays(first))
	gridEnd := last.AddDate(0, 0, p.trailingDays(last))

	today := p.clock.Now()

	var dates []Date
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		cell := Date{
			Date:    day,
			InMonth: day.Month() == month.Month(),
			IsToday: types.SameDay(day, today),
		}
		for _, sub := range subs {
			if !sub.Active {
				continue
			}
			ok, err := p.matcher.Matches(ctx, sub, day)
			if err != nil {
				return nil, ierr.WithError(err).
					WithHintf("projecting %s onto %s", sub.ID, day.Format(time.DateOnly)).
					Mark(ierr.ErrSystem)
			}
			if ok {
				cell.Subscriptions = append(cell.Subscriptions, sub)
			}
		}
		dates = append(dates, cell)
	}

	return dates, nil
}

// ProjectWindow eagerly projects the previous, current and next months in
// parallel. The three projections share no mutable state, so the fan-out is
// safe without coordination beyond the join.
func (p *Projector) ProjectWindow(ctx context.Context, month time.Time, subs []*subscription.Subscription) (*Window, error) {
	window := &Window{}
	errs := make([]error, 3)

	// normalize to the 1st so month offsets cannot spill over short months
	base := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())

	var wg conc.WaitGroup
	wg.Go(func() {
		window.Previous, errs[0] = p.Project(ctx, base.AddDate(0, -1, 0), subs)
	})
	wg.Go(func() {
		window.Current, errs[1] = p.Project(ctx, base, subs)
	})
	wg.Go(func() {
		window.Next, errs[2] = p.Project(ctx, base.AddDate(0, 1, 0), subs)
	})
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return window, nil
}

// TodayIndex returns the index of the first cell flagged as today, or -1
// when the projected month does not contain the current day. Drives the
// initial selection when the calendar opens.
func TodayIndex(dates []Date) int {
	for i, d := range dates {
		if d.IsToday {
			return i
		}
	}
	return -1
}

// leadingDays is how many cells to borrow from the previous month so the
// grid begins on the configured week start.
func (p *Projector) leadingDays(first time.Time) int {
	return (int(first.Weekday()) - int(p.weekStart) + 7) % 7
}

// trailingDays is how many cells to borrow from the next month so the grid
// ends a full week after the month's last day.
func (p *Projector) trailingDays(last time.Time) int {
	weekEnd := (int(p.weekStart) + 6) % 7
	return (weekEnd - int(last.Weekday()) + 7) % 7
}
