package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/subtally/subtally/internal/errors"
	"github.com/subtally/subtally/internal/types"
)

// Tag is an opaque user-assigned label on a subscription.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subscription is the read-only projection of a tracked subscription as
// consumed by the schedule engine. The storage layer owns the full record;
// the engine never mutates or persists one.
type Subscription struct {
	// ID is the unique identifier for the subscription
	ID string `json:"id"`

	// Name is the display name ex "Netflix"
	Name string `json:"name"`

	// Price is the amount charged per billing cycle
	Price decimal.Decimal `json:"price"`

	// Currency is the 3 letter ISO code of the price
	Currency string `json:"currency"`

	// Period is the recurrence cadence of the subscription
	Period types.RecurrencePeriod `json:"period"`

	// AnchorDate is the first billing date and the origin for all
	// occurrence computation. Immutable: changing it means a new schedule,
	// since cached occurrence sets key off it.
	AnchorDate time.Time `json:"anchor_date"`

	// Active indicates whether the subscription still bills
	Active bool `json:"active"`

	// Tags are the user-assigned labels used for spend breakdowns
	Tags []Tag `json:"tags,omitempty"`
}

func (s *Subscription) Validate() error {
	if s.ID == "" {
		return ierr.NewError("subscription id is required").
			WithHint("Subscription id is required").
			Mark(ierr.ErrValidation)
	}
	if s.Price.IsNegative() {
		return ierr.NewError("subscription price cannot be negative").
			WithHint("Price must be zero or positive").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
				"price":           s.Price,
			}).
			Mark(ierr.ErrValidation)
	}
	if len(s.Currency) != 3 {
		return ierr.NewError("invalid currency code").
			WithHint("Currency must be a 3 letter ISO code").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
				"currency":        s.Currency,
			}).
			Mark(ierr.ErrValidation)
	}
	if err := s.Period.Validate(); err != nil {
		return err
	}
	if s.AnchorDate.IsZero() {
		return ierr.NewError("anchor date is required").
			WithHint("First billing date is required").
			WithReportableDetails(map[string]any{
				"subscription_id": s.ID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
