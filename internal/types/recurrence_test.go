package types

import (
	"testing"

	ierr "github.com/subtally/subtally/internal/errors"
)

func TestRecurrencePeriod_Validate(t *testing.T) {
	for _, period := range RecurrencePeriodValues {
		if err := period.Validate(); err != nil {
			t.Errorf("%s: unexpected error: %v", period, err)
		}
	}

	err := RecurrencePeriod("WEEKLY").Validate()
	if err == nil {
		t.Fatal("expected error for unknown period")
	}
	if !ierr.IsValidation(err) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRecurrencePeriod_MonthStep(t *testing.T) {
	want := map[RecurrencePeriod]int{
		RECURRENCE_PERIOD_MONTHLY:    1,
		RECURRENCE_PERIOD_BIMONTHLY:  2,
		RECURRENCE_PERIOD_QUARTERLY:  3,
		RECURRENCE_PERIOD_SEMIANNUAL: 6,
		RECURRENCE_PERIOD_ANNUAL:     12,
		RECURRENCE_PERIOD_BIENNIAL:   24,
	}
	for period, step := range want {
		got, ok := period.MonthStep()
		if !ok || got != step {
			t.Errorf("%s: got (%d, %v), want (%d, true)", period, got, ok, step)
		}
	}

	for _, period := range []RecurrencePeriod{RECURRENCE_PERIOD_SEMIMONTHLY, RECURRENCE_PERIOD_CUSTOM} {
		if _, ok := period.MonthStep(); ok {
			t.Errorf("%s: expected no month step", period)
		}
	}
}

func TestRecurrencePeriod_MonthCount(t *testing.T) {
	want := map[RecurrencePeriod]int64{
		RECURRENCE_PERIOD_MONTHLY:    1,
		RECURRENCE_PERIOD_QUARTERLY:  3,
		RECURRENCE_PERIOD_SEMIANNUAL: 6,
		RECURRENCE_PERIOD_ANNUAL:     12,
	}
	for period, months := range want {
		got, ok := period.MonthCount()
		if !ok || got != months {
			t.Errorf("%s: got (%d, %v), want (%d, true)", period, got, ok, months)
		}
	}

	// periods without a clean monthly equivalent are reported as-is
	unnormalized := []RecurrencePeriod{
		RECURRENCE_PERIOD_SEMIMONTHLY,
		RECURRENCE_PERIOD_BIMONTHLY,
		RECURRENCE_PERIOD_BIENNIAL,
		RECURRENCE_PERIOD_CUSTOM,
	}
	for _, period := range unnormalized {
		if _, ok := period.MonthCount(); ok {
			t.Errorf("%s: expected no month count", period)
		}
	}
}
