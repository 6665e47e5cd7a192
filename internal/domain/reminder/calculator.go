package reminder

import (
	"time"

	"github.com/samber/lo"

	ierr "github.com/subtally/subtally/internal/errors"
	"github.com/subtally/subtally/internal/domain/schedule"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/types"
)

// SupportedOffsets are the reminder lead times the product offers.
var SupportedOffsets = []int{1, 3, 7}

// Calculator computes concrete reminder timestamps ahead of upcoming billing
// dates. It only computes; scheduling OS notifications is the host's job.
type Calculator struct {
	generator *schedule.Generator
	clock     types.Clock
	hour      int
}

// NewCalculator builds a Calculator pinning reminders to the given local
// hour of day.
func NewCalculator(generator *schedule.Generator, clock types.Clock, hour int) *Calculator {
	return &Calculator{
		generator: generator,
		clock:     clock,
		hour:      hour,
	}
}

// UpcomingReminderDates returns the reminder timestamps for the next
// cycleCount billing cycles: each is offsetDays before the billing date, at
// the configured hour. Reminders already in the past are omitted, never
// shifted, so the result may be shorter than cycleCount and is always
// strictly in the future.
func (c *Calculator) UpcomingReminderDates(sub *subscription.Subscription, offsetDays, cycleCount int) ([]time.Time, error) {
	if !lo.Contains(SupportedOffsets, offsetDays) {
		return nil, ierr.NewError("unsupported reminder offset").
			WithHint("Reminders are supported 1, 3 or 7 days before billing").
			WithReportableDetails(map[string]any{
				"offset_days":    offsetDays,
				"allowed_values": SupportedOffsets,
			}).
			Mark(ierr.ErrValidation)
	}
	if cycleCount <= 0 {
		return nil, ierr.NewError("cycle count must be positive").
			WithReportableDetails(map[string]any{"cycle_count": cycleCount}).
			Mark(ierr.ErrValidation)
	}

	now := c.clock.Now()
	billingDate, err := c.generator.NextBillingDate(sub, now)
	if err != nil {
		return nil, err
	}

	if sub.Period == types.RECURRENCE_PERIOD_CUSTOM {
		// the anchor is the only occurrence a custom subscription has
		cycleCount = 1
	}

	reminders := make([]time.Time, 0, cycleCount)
	for cycle := 0; cycle < cycleCount; cycle++ {
		target := billingDate.AddDate(0, 0, -offsetDays)
		at := time.Date(target.Year(), target.Month(), target.Day(), c.hour, 0, 0, 0, target.Location())
		if at.After(now) {
			reminders = append(reminders, at)
		}

		if cycle+1 == cycleCount {
			break
		}
		next, err := c.generator.NextOccurrenceOnOrAfter(sub.Period, sub.AnchorDate, billingDate.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		billingDate = next
	}

	return reminders, nil
}
