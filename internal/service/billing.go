package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/subtally/subtally/internal/errors"
	"github.com/subtally/subtally/internal/domain/aggregation"
	"github.com/subtally/subtally/internal/domain/calendar"
	"github.com/subtally/subtally/internal/domain/reminder"
)

// BillingScheduleService is the engine's facade: calendar projection, spend
// aggregation and reminder computation over the read-only subscription
// source. All operations are pure over the repository snapshot; the service
// owns no state beyond the schedule cache.
type BillingScheduleService interface {
	// GetCalendarMonth projects the month containing the given instant
	// onto a full week-aligned grid.
	GetCalendarMonth(ctx context.Context, month time.Time) ([]calendar.Date, error)

	// GetCalendarWindow eagerly projects the previous, current and next
	// months for swipe paging.
	GetCalendarWindow(ctx context.Context, month time.Time) (*calendar.Window, error)

	// GetDueThisMonth is the headline figure: monthly-period actives only.
	GetDueThisMonth(ctx context.Context, month time.Time) (decimal.Decimal, error)

	// GetAverageMonthlySpend normalizes every active subscription to its
	// monthly equivalent and sums them.
	GetAverageMonthlySpend(ctx context.Context) (decimal.Decimal, error)

	// GetTagBreakdown groups monthly-equivalent spend by tag.
	GetTagBreakdown(ctx context.Context) ([]aggregation.TagCost, error)

	// GetNextBillingDate returns the subscription's first occurrence on or
	// after now.
	GetNextBillingDate(ctx context.Context, subscriptionID string) (time.Time, error)

	// GetUpcomingReminders computes reminder timestamps for the next
	// cycleCount billing cycles, offsetDays before each.
	GetUpcomingReminders(ctx context.Context, subscriptionID string, offsetDays, cycleCount int) ([]time.Time, error)

	// BillsOnDay reports whether the subscription bills on the given date.
	BillsOnDay(ctx context.Context, subscriptionID string, date time.Time) (bool, error)

	// InvalidateSchedule drops the cached schedule for a subscription,
	// required after its period or anchor changed.
	InvalidateSchedule(ctx context.Context, subscriptionID string)
}

type billingScheduleService struct {
	ServiceParams
	projector  *calendar.Projector
	aggregator *aggregation.Engine
	reminders  *reminder.Calculator
}

func NewBillingScheduleService(params ServiceParams) BillingScheduleService {
	var matcher calendar.Matcher = params.Generator
	if params.ScheduleCache != nil {
		matcher = params.ScheduleCache
	}

	return &billingScheduleService{
		ServiceParams: params,
		projector:     calendar.NewProjector(matcher, params.Clock, params.Config.Calendar.FirstWeekday()),
		aggregator:    aggregation.NewEngine(params.RateConverter, params.Config.Currency.Display),
		reminders:     reminder.NewCalculator(params.Generator, params.Clock, params.Config.Reminder.Hour),
	}
}

func (s *billingScheduleService) GetCalendarMonth(ctx context.Context, month time.Time) ([]calendar.Date, error) {
	subs, err := s.SubRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	dates, err := s.projector.Project(ctx, month, subs)
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("projected calendar month",
		"month", month.Format("2006-01"),
		"days", len(dates),
		"subscriptions", len(subs))
	return dates, nil
}

func (s *billingScheduleService) GetCalendarWindow(ctx context.Context, month time.Time) (*calendar.Window, error) {
	subs, err := s.SubRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.projector.ProjectWindow(ctx, month, subs)
}

func (s *billingScheduleService) GetDueThisMonth(ctx context.Context, month time.Time) (decimal.Decimal, error) {
	subs, err := s.SubRepo.ListActive(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.aggregator.TotalForMonth(subs, month), nil
}

func (s *billingScheduleService) GetAverageMonthlySpend(ctx context.Context) (decimal.Decimal, error) {
	subs, err := s.SubRepo.ListActive(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.aggregator.AverageMonthlyCost(subs), nil
}

func (s *billingScheduleService) GetTagBreakdown(ctx context.Context) ([]aggregation.TagCost, error) {
	subs, err := s.SubRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.TagBreakdown(subs), nil
}

func (s *billingScheduleService) GetNextBillingDate(ctx context.Context, subscriptionID string) (time.Time, error) {
	sub, err := s.SubRepo.Get(ctx, subscriptionID)
	if err != nil {
		return time.Time{}, err
	}
	if !sub.Active {
		return time.Time{}, ierr.NewError("subscription is not active").
			WithHint("Inactive subscriptions have no upcoming billing date").
			WithReportableDetails(map[string]any{
				"subscription_id": subscriptionID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return s.Generator.NextBillingDate(sub, s.Clock.Now())
}

func (s *billingScheduleService) GetUpcomingReminders(ctx context.Context, subscriptionID string, offsetDays, cycleCount int) ([]time.Time, error) {
	sub, err := s.SubRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	dates, err := s.reminders.UpcomingReminderDates(sub, offsetDays, cycleCount)
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("computed upcoming reminders",
		"subscription_id", subscriptionID,
		"offset_days", offsetDays,
		"cycles", cycleCount,
		"reminders", len(dates))
	return dates, nil
}

func (s *billingScheduleService) BillsOnDay(ctx context.Context, subscriptionID string, date time.Time) (bool, error) {
	sub, err := s.SubRepo.Get(ctx, subscriptionID)
	if err != nil {
		return false, err
	}
	if !sub.Active {
		return false, nil
	}
	if s.ScheduleCache != nil {
		return s.ScheduleCache.Matches(ctx, sub, date)
	}
	return s.Generator.Matches(ctx, sub, date)
}

func (s *billingScheduleService) InvalidateSchedule(ctx context.Context, subscriptionID string) {
	if s.ScheduleCache != nil {
		s.ScheduleCache.Invalidate(ctx, subscriptionID)
	}
}
