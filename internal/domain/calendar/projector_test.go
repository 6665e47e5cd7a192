package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtally/subtally/internal/domain/schedule"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/testutil"
	"github.com/subtally/subtally/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newSub(id string, period types.RecurrencePeriod, anchor time.Time) *subscription.Subscription {
	return &subscription.Subscription{
		ID:         id,
		Name:       id,
		Price:      decimal.NewFromInt(10),
		Currency:   "USD",
		Period:     period,
		AnchorDate: anchor,
		Active:     true,
	}
}

func newProjector(now time.Time, weekStart time.Weekday) *Projector {
	clock := testutil.NewMockClock(now)
	return NewProjector(schedule.NewGenerator(), clock, weekStart)
}

func TestProjector_GridShape(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Sunday)

	dates, err := p.Project(context.Background(), date(2024, time.March, 1), nil)
	require.NoError(t, err)

	// March 2024: Fri Mar 1 through Sun Mar 31, padded Feb 25..29 and Apr 1..6
	assert.Len(t, dates, 42)
	assert.Equal(t, 0, len(dates)%7)
	assert.Equal(t, time.Sunday, dates[0].Date.Weekday())
	assert.Equal(t, time.Saturday, dates[len(dates)-1].Date.Weekday())
	assert.True(t, dates[0].Date.Equal(date(2024, time.February, 25)))
	assert.True(t, dates[len(dates)-1].Date.Equal(date(2024, time.April, 6)))
}

func TestProjector_GridShape_MondayStart(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Monday)

	dates, err := p.Project(context.Background(), date(2024, time.March, 1), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, len(dates)%7)
	assert.Equal(t, time.Monday, dates[0].Date.Weekday())
	assert.Equal(t, time.Sunday, dates[len(dates)-1].Date.Weekday())
	assert.True(t, dates[0].Date.Equal(date(2024, time.February, 26)))
}

func TestProjector_InMonthFlags(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Sunday)

	dates, err := p.Project(context.Background(), date(2024, time.March, 1), nil)
	require.NoError(t, err)

	for _, d := range dates {
		assert.Equal(t, d.Date.Month() == time.March, d.InMonth, "day %v", d.Date)
	}
}

func TestProjector_TodayIndex(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Sunday)

	dates, err := p.Project(context.Background(), date(2024, time.March, 1), nil)
	require.NoError(t, err)

	idx := TodayIndex(dates)
	require.NotEqual(t, -1, idx)
	assert.True(t, dates[idx].Date.Equal(date(2024, time.March, 5)))
	assert.True(t, dates[idx].IsToday)

	// a different month has no today cell
	other, err := p.Project(context.Background(), date(2024, time.June, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, -1, TodayIndex(other))
}

func TestProjector_SubscriptionBucketing(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Sunday)

	subs := []*subscription.Subscription{
		newSub("monthly-15", types.RECURRENCE_PERIOD_MONTHLY, date(2024, time.January, 15)),
		newSub("monthly-31", types.RECURRENCE_PERIOD_MONTHLY, date(2024, time.January, 31)),
		newSub("annual", types.RECURRENCE_PERIOD_ANNUAL, date(2023, time.March, 20)),
	}

	dates, err := p.Project(context.Background(), date(2024, time.March, 1), subs)
	require.NoError(t, err)

	byDay := make(map[string][]string)
	for _, d := range dates {
		for _, s := range d.Subscriptions {
			key := d.Date.Format(time.DateOnly)
			byDay[key] = append(byDay[key], s.ID)
		}
	}

	assert.Equal(t, []string{"monthly-31"}, byDay["2024-02-29"], "clamped leap occurrence in the leading pad")
	assert.Equal(t, []string{"monthly-15"}, byDay["2024-03-15"])
	assert.Equal(t, []string{"annual"}, byDay["2024-03-20"])
	assert.Equal(t, []string{"monthly-31"}, byDay["2024-03-31"])
	assert.NotContains(t, byDay, "2024-03-29", "anchor day does not drift after a clamped month")
}

func TestProjector_InactiveExcluded(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Sunday)

	inactive := newSub("cancelled", types.RECURRENCE_PERIOD_MONTHLY, date(2024, time.January, 15))
	inactive.Active = false

	dates, err := p.Project(context.Background(), date(2024, time.March, 1), []*subscription.Subscription{inactive})
	require.NoError(t, err)

	for _, d := range dates {
		assert.Empty(t, d.Subscriptions, "inactive subscriptions never appear, day %v", d.Date)
	}
}

func TestProjector_Idempotent(t *testing.T) {
	p := newProjector(date(2024, time.March, 5), time.Sunday)
	subs := []*subscription.Subscription{
		newSub("monthly-15", types.RECURRENCE_PERIOD_MONTHLY, date(2024, time.January, 15)),
	}

	first, err := p.Project(context.Background(), date(2024, time.March, 1), subs)
	require.NoError(t, err)
	second, err := p.Project(context.Background(), date(2024, time.March, 1), subs)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Date.Equal(second[i].Date))
		assert.Equal(t, len(first[i].Subscriptions), len(second[i].Subscriptions), "day %v", first[i].Date)
	}
}

func TestProjector_ProjectWindow(t *testing.T) {
	p := newProjector(date(2024, time.March, 31), time.Sunday)
	subs := []*subscription.Subscription{
		newSub("monthly-15", types.RECURRENCE_PERIOD_MONTHLY, date(2024, time.January, 15)),
	}

	// 31st exercises the short-month offset: the window around March must be
	// February and April, not a spillover month
	window, err := p.ProjectWindow(context.Background(), date(2024, time.March, 31), subs)
	require.NoError(t, err)

	monthOf := func(dates []Date) time.Month {
		for _, d := range dates {
			if d.InMonth {
				return d.Date.Month()
			}
		}
		return 0
	}
	assert.Equal(t, time.February, monthOf(window.Previous))
	assert.Equal(t, time.March, monthOf(window.Current))
	assert.Equal(t, time.April, monthOf(window.Next))
}
