package types

import (
	"testing"
	"time"

	ierr "github.com/subtally/subtally/internal/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		days   int
		want   time.Time
	}{
		{
			name:   "simple month",
			start:  date(2024, time.January, 15),
			months: 1,
			want:   date(2024, time.February, 15),
		},
		{
			name:   "31st into leap February clamps to 29",
			start:  date(2024, time.January, 31),
			months: 1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "31st into non-leap February clamps to 28",
			start:  date(2023, time.January, 31),
			months: 1,
			want:   date(2023, time.February, 28),
		},
		{
			name:   "cross year boundary with clamp",
			start:  date(2024, time.December, 31),
			months: 2,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "two calendar months",
			start:  date(2024, time.November, 10),
			months: 2,
			want:   date(2025, time.January, 10),
		},
		{
			name:  "leap day plus one year clamps to Feb 28",
			start: date(2024, time.February, 29),
			years: 1,
			want:  date(2025, time.February, 28),
		},
		{
			name:  "leap day plus four years stays Feb 29",
			start: date(2024, time.February, 29),
			years: 4,
			want:  date(2028, time.February, 29),
		},
		{
			name:   "negative month offset",
			start:  date(2024, time.March, 31),
			months: -1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "negative offset across year boundary",
			start:  date(2024, time.January, 15),
			months: -2,
			want:   date(2023, time.November, 15),
		},
		{
			name:  "day offset applied after clamp",
			start: date(2024, time.January, 31),
			days:  15,
			want:  date(2024, time.February, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months, tt.days)
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddClampedDate_PreservesClock(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	start := time.Date(2024, time.January, 31, 22, 30, 45, 0, ist)
	got := AddClampedDate(start, 0, 1, 0)
	want := time.Date(2024, time.February, 29, 22, 30, 45, 0, ist)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		period RecurrencePeriod
		from   time.Time
		want   time.Time
	}{
		{
			name:   "monthly",
			period: RECURRENCE_PERIOD_MONTHLY,
			from:   date(2024, time.January, 15),
			want:   date(2024, time.February, 15),
		},
		{
			name:   "monthly clamped",
			period: RECURRENCE_PERIOD_MONTHLY,
			from:   date(2024, time.January, 31),
			want:   date(2024, time.February, 29),
		},
		{
			name:   "semimonthly is plain 15 days",
			period: RECURRENCE_PERIOD_SEMIMONTHLY,
			from:   date(2024, time.January, 16),
			want:   date(2024, time.January, 31),
		},
		{
			name:   "semimonthly drifts across month boundary",
			period: RECURRENCE_PERIOD_SEMIMONTHLY,
			from:   date(2024, time.February, 15),
			want:   date(2024, time.March, 1),
		},
		{
			name:   "bimonthly",
			period: RECURRENCE_PERIOD_BIMONTHLY,
			from:   date(2024, time.May, 10),
			want:   date(2024, time.July, 10),
		},
		{
			name:   "quarterly",
			period: RECURRENCE_PERIOD_QUARTERLY,
			from:   date(2024, time.January, 15),
			want:   date(2024, time.April, 15),
		},
		{
			name:   "semiannual",
			period: RECURRENCE_PERIOD_SEMIANNUAL,
			from:   date(2024, time.August, 31),
			want:   date(2025, time.February, 28),
		},
		{
			name:   "annual",
			period: RECURRENCE_PERIOD_ANNUAL,
			from:   date(2024, time.June, 10),
			want:   date(2025, time.June, 10),
		},
		{
			name:   "biennial",
			period: RECURRENCE_PERIOD_BIENNIAL,
			from:   date(2023, time.June, 10),
			want:   date(2025, time.June, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.period, tt.from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrence_Monotonic(t *testing.T) {
	starts := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2023, time.December, 31),
	}

	for _, period := range RecurrencePeriodValues {
		if period == RECURRENCE_PERIOD_CUSTOM {
			continue
		}
		for _, start := range starts {
			current := start
			for i := 0; i < 48; i++ {
				next, err := NextOccurrence(period, current)
				if err != nil {
					t.Fatalf("%s: unexpected error: %v", period, err)
				}
				if !next.After(current) {
					t.Fatalf("%s: step from %v produced non-increasing %v", period, current, next)
				}
				current = next
			}
		}
	}
}

func TestNextOccurrence_Custom(t *testing.T) {
	from := date(2024, time.January, 1)
	got, err := NextOccurrence(RECURRENCE_PERIOD_CUSTOM, from)
	if err == nil {
		t.Fatal("expected error for custom period")
	}
	if !ierr.IsInvalidRecurrence(err) {
		t.Errorf("expected ErrInvalidRecurrence, got %v", err)
	}
	if !got.Equal(from) {
		t.Errorf("custom step should return from unchanged, got %v", got)
	}
}

func TestNextOccurrence_InvalidPeriod(t *testing.T) {
	_, err := NextOccurrence(RecurrencePeriod("WEEKLY"), date(2024, time.January, 1))
	if err == nil {
		t.Fatal("expected error for unknown period")
	}
	if !ierr.IsValidation(err) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same day", date(2024, time.March, 10), date(2024, time.March, 10), 0},
		{"forward across month", date(2024, time.January, 31), date(2024, time.February, 15), 15},
		{"backward", date(2024, time.March, 1), date(2024, time.February, 15), -15},
		{"leap day span", date(2024, time.February, 28), date(2024, time.March, 1), 2},
		{"ignores clock times", time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC), time.Date(2024, time.March, 11, 0, 1, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	if got := MonthsBetween(date(2023, time.June, 10), date(2025, time.June, 10)); got != 24 {
		t.Errorf("got %d, want 24", got)
	}
	if got := MonthsBetween(date(2024, time.November, 1), date(2025, time.January, 31)); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if got := MonthsBetween(date(2024, time.March, 1), date(2024, time.January, 1)); got != -2 {
		t.Errorf("got %d, want -2", got)
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(2024, time.February); got != 29 {
		t.Errorf("leap February: got %d, want 29", got)
	}
	if got := DaysInMonth(2023, time.February); got != 28 {
		t.Errorf("February: got %d, want 28", got)
	}
	if got := DaysInMonth(2024, time.December); got != 31 {
		t.Errorf("December: got %d, want 31", got)
	}
}
