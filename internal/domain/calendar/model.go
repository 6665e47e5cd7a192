package calendar

import (
	"time"

	"github.com/subtally/subtally/internal/domain/subscription"
)

// Date is one cell of a projected month grid. Instances are built fresh per
// projection call and never mutated afterwards, so they are safe to cache
// keyed by (year, month).
type Date struct {
	// Date is the calendar day this cell represents, at midnight
	Date time.Time `json:"date"`

	// InMonth is false for the leading/trailing days borrowed from the
	// adjacent months to complete week rows
	InMonth bool `json:"in_month"`

	// IsToday flags the cell matching the injected clock's current day
	IsToday bool `json:"is_today"`

	// Subscriptions lists the active subscriptions billing on this day
	Subscriptions []*subscription.Subscription `json:"subscriptions,omitempty"`
}

// Window holds the eagerly projected previous/current/next months backing
// swipe paging between adjacent months.
type Window struct {
	Previous []Date `json:"previous"`
	Current  []Date `json:"current"`
	Next     []Date `json:"next"`
}
