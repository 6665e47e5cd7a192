package cache

import (
	"context"
	"sync"
	"time"

	goCache "github.com/patrickmn/go-cache"

	"github.com/subtally/subtally/internal/domain/schedule"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/logger"
	"github.com/subtally/subtally/internal/types"
)

// PrefixSchedule namespaces schedule entries in the backing store.
const PrefixSchedule = "schedule:v1:"

// DefaultExpiration is the default expiration time for cache entries
const DefaultExpiration = 30 * time.Minute

// DefaultCleanupInterval is how often expired items are removed from the cache
const DefaultCleanupInterval = 1 * time.Hour

// MonthDay is a year-agnostic calendar position.
type MonthDay struct {
	Month time.Month
	Day   int
}

// entry is the memoized schedule of one subscription: every (month, day)
// position an occurrence can land on within the horizon, plus the rule and
// anchor it was built from so a changed subscription never reads a stale set.
type entry struct {
	period     types.RecurrencePeriod
	anchor     time.Time
	horizonEnd time.Time
	days       map[MonthDay]struct{}
}

// ScheduleCache memoizes per-subscription (month, day) occurrence sets so
// repeated "does this bill on day X" checks avoid regenerating the sequence.
//
// It is strictly a performance layer: a cache hit still confirms through the
// generator, and a miss on the (month, day) set is only treated as definitive
// within the materialized horizon. Correctness is identical whether the cache
// is warm, cold or disabled.
type ScheduleCache struct {
	store        *goCache.Cache
	generator    *schedule.Generator
	log          *logger.Logger
	enabled      bool
	horizonYears int

	// build locks are per subscription id so concurrent readers of one
	// subscription never observe a half-built entry while builds of
	// different subscriptions proceed independently
	mu       sync.Mutex
	building map[string]*sync.Mutex
}

func NewScheduleCache(generator *schedule.Generator, log *logger.Logger, enabled bool, horizonYears int) *ScheduleCache {
	if horizonYears <= 0 {
		horizonYears = 5
	}
	return &ScheduleCache{
		store:        goCache.New(DefaultExpiration, DefaultCleanupInterval),
		generator:    generator,
		log:          log,
		enabled:      enabled,
		horizonYears: horizonYears,
	}
}

// Matches reports whether the subscription bills on the given date, using
// the memoized (month, day) set as a fast negative filter before confirming
// with the generator.
func (c *ScheduleCache) Matches(ctx context.Context, sub *subscription.Subscription, date time.Time) (bool, error) {
	if !c.enabled {
		return c.generator.OccursOn(sub.Period, sub.AnchorDate, date)
	}

	e, err := c.entryFor(ctx, sub)
	if err != nil {
		return false, err
	}

	if date.Before(e.horizonEnd) {
		if _, ok := e.days[MonthDay{Month: date.Month(), Day: date.Day()}]; !ok {
			return false, nil
		}
	}
	// a set hit is necessary but not sufficient (other years may not
	// match), so confirm with the O(1) arithmetic check
	return c.generator.OccursOn(sub.Period, sub.AnchorDate, date)
}

// MonthDays returns a copy of the subscription's memoized (month, day) set,
// for callers rendering year-agnostic billing markers.
func (c *ScheduleCache) MonthDays(ctx context.Context, sub *subscription.Subscription) (map[MonthDay]struct{}, error) {
	e, err := c.entryFor(ctx, sub)
	if err != nil {
		return nil, err
	}
	out := make(map[MonthDay]struct{}, len(e.days))
	for md := range e.days {
		out[md] = struct{}{}
	}
	return out, nil
}

// Invalidate drops the memoized schedule for a subscription id. Callers
// invoke it whenever a subscription's period or anchor changes; entries are
// rebuilt in full on next use, never patched incrementally.
func (c *ScheduleCache) Invalidate(_ context.Context, subscriptionID string) {
	c.store.Delete(PrefixSchedule + subscriptionID)
}

// Flush drops every memoized schedule.
func (c *ScheduleCache) Flush(_ context.Context) {
	c.store.Flush()
}

func (c *ScheduleCache) entryFor(ctx context.Context, sub *subscription.Subscription) (*entry, error) {
	key := PrefixSchedule + sub.ID

	if cached, found := c.store.Get(key); found {
		e := cached.(*entry)
		if e.period == sub.Period && e.anchor.Equal(sub.AnchorDate) {
			return e, nil
		}
		// rule or anchor changed under us; treat as invalidated
		c.store.Delete(key)
	}

	lock := c.buildLock(sub.ID)
	lock.Lock()
	defer lock.Unlock()

	// another goroutine may have built the entry while we waited
	if cached, found := c.store.Get(key); found {
		e := cached.(*entry)
		if e.period == sub.Period && e.anchor.Equal(sub.AnchorDate) {
			return e, nil
		}
	}

	e, err := c.build(sub)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, e, DefaultExpiration)
	if c.log != nil {
		c.log.Debugw("built schedule cache entry",
			"subscription_id", sub.ID,
			"period", sub.Period,
			"positions", len(e.days))
	}
	return e, nil
}

func (c *ScheduleCache) build(sub *subscription.Subscription) (*entry, error) {
	e := &entry{
		period:     sub.Period,
		anchor:     sub.AnchorDate,
		horizonEnd: sub.AnchorDate.AddDate(c.horizonYears, 0, 0),
		days:       make(map[MonthDay]struct{}),
	}

	if sub.Period == types.RECURRENCE_PERIOD_CUSTOM {
		e.days[MonthDay{Month: sub.AnchorDate.Month(), Day: sub.AnchorDate.Day()}] = struct{}{}
		return e, nil
	}

	for cycle := 0; ; cycle++ {
		occ, err := c.generator.Occurrence(sub.Period, sub.AnchorDate, cycle)
		if err != nil {
			return nil, err
		}
		if !occ.Before(e.horizonEnd) {
			break
		}
		e.days[MonthDay{Month: occ.Month(), Day: occ.Day()}] = struct{}{}
	}

	return e, nil
}

func (c *ScheduleCache) buildLock(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.building == nil {
		c.building = make(map[string]*sync.Mutex)
	}
	lock, ok := c.building[id]
	if !ok {
		lock = &sync.Mutex{}
		c.building[id] = lock
	}
	return lock
}
