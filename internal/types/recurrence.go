package types

import (
	"github.com/samber/lo"

	ierr "github.com/subtally/subtally/internal/errors"
)

// RecurrencePeriod is the billing cadence of a subscription ex MONTHLY, QUARTERLY
type RecurrencePeriod string

const (
	RECURRENCE_PERIOD_MONTHLY     RecurrencePeriod = "MONTHLY"
	RECURRENCE_PERIOD_SEMIMONTHLY RecurrencePeriod = "SEMIMONTHLY"
	RECURRENCE_PERIOD_BIMONTHLY   RecurrencePeriod = "BIMONTHLY"
	RECURRENCE_PERIOD_QUARTERLY   RecurrencePeriod = "QUARTERLY"
	RECURRENCE_PERIOD_SEMIANNUAL  RecurrencePeriod = "SEMIANNUALLY"
	RECURRENCE_PERIOD_ANNUAL      RecurrencePeriod = "ANNUALLY"
	RECURRENCE_PERIOD_BIENNIAL    RecurrencePeriod = "BIENNIALLY"

	// RECURRENCE_PERIOD_CUSTOM carries no automatic step. A custom
	// subscription bills on its anchor date and never advances on its own;
	// callers that need stepping get ErrInvalidRecurrence instead of a
	// silent monthly fallback.
	RECURRENCE_PERIOD_CUSTOM RecurrencePeriod = "CUSTOM"
)

var RecurrencePeriodValues = []RecurrencePeriod{
	RECURRENCE_PERIOD_MONTHLY,
	RECURRENCE_PERIOD_SEMIMONTHLY,
	RECURRENCE_PERIOD_BIMONTHLY,
	RECURRENCE_PERIOD_QUARTERLY,
	RECURRENCE_PERIOD_SEMIANNUAL,
	RECURRENCE_PERIOD_ANNUAL,
	RECURRENCE_PERIOD_BIENNIAL,
	RECURRENCE_PERIOD_CUSTOM,
}

func (p RecurrencePeriod) String() string {
	return string(p)
}

func (p RecurrencePeriod) Validate() error {
	if !lo.Contains(RecurrencePeriodValues, p) {
		return ierr.NewError("invalid recurrence period").
			WithHint("Invalid recurrence period").
			WithReportableDetails(map[string]any{
				"allowed_values": RecurrencePeriodValues,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MonthStep returns the number of calendar months a single step advances,
// for periods that step in whole months. The second return is false for
// day-stepped (semimonthly) and custom periods.
func (p RecurrencePeriod) MonthStep() (int, bool) {
	switch p {
	case RECURRENCE_PERIOD_MONTHLY:
		return 1, true
	case RECURRENCE_PERIOD_BIMONTHLY:
		return 2, true
	case RECURRENCE_PERIOD_QUARTERLY:
		return 3, true
	case RECURRENCE_PERIOD_SEMIANNUAL:
		return 6, true
	case RECURRENCE_PERIOD_ANNUAL:
		return 12, true
	case RECURRENCE_PERIOD_BIENNIAL:
		return 24, true
	default:
		return 0, false
	}
}

// MonthCount returns the divisor used to normalize a price to a monthly
// equivalent. Only periods spanning a whole number of months that divide a
// year cleanly are normalized; semimonthly, bimonthly, biennial and custom
// prices are reported as-is, so the second return is false for them.
func (p RecurrencePeriod) MonthCount() (int64, bool) {
	switch p {
	case RECURRENCE_PERIOD_MONTHLY:
		return 1, true
	case RECURRENCE_PERIOD_QUARTERLY:
		return 3, true
	case RECURRENCE_PERIOD_SEMIANNUAL:
		return 6, true
	case RECURRENCE_PERIOD_ANNUAL:
		return 12, true
	default:
		return 0, false
	}
}
