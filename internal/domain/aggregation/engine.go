package aggregation

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/subtally/subtally/internal/domain/rates"
	"github.com/subtally/subtally/internal/domain/subscription"
	"github.com/subtally/subtally/internal/types"
)

// UncategorizedTag is the synthetic bucket for subscriptions without tags.
const UncategorizedTag = "Uncategorized"

var oneHundred = decimal.NewFromInt(100)

// TagCost is one row of a spend breakdown, sorted descending by cost.
type TagCost struct {
	TagID      string          `json:"tag_id"`
	TagName    string          `json:"tag_name"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Engine normalizes heterogeneous subscriptions into comparable monthly
// figures in a single display currency. All arithmetic stays in exact
// decimals; rounding is the caller's display concern.
type Engine struct {
	converter       rates.Converter
	displayCurrency string
}

func NewEngine(converter rates.Converter, displayCurrency string) *Engine {
	if converter == nil {
		converter = rates.Identity()
	}
	return &Engine{
		converter:       converter,
		displayCurrency: displayCurrency,
	}
}

// MonthlyEquivalent converts the subscription's price into the display
// currency (keeping the original amount when no rate is available) and
// normalizes it by the period's month count. Only whole-month-dividing
// periods are normalized; semimonthly, bimonthly, biennial and custom prices
// come back unmodified, since fractional-month periods have no clean monthly
// equivalent.
func (e *Engine) MonthlyEquivalent(sub *subscription.Subscription) decimal.Decimal {
	amount := sub.Price
	if converted, ok := e.converter.Convert(sub.Price, sub.Currency, e.displayCurrency); ok {
		amount = converted
	}

	if months, ok := sub.Period.MonthCount(); ok {
		return amount.Div(decimal.NewFromInt(months))
	}
	return amount
}

// TotalForMonth is the "due this month" headline figure: the sum of monthly
// equivalents over active MONTHLY subscriptions whose anchor falls on or
// before the month's end. It deliberately excludes other periods; use
// AverageMonthlyCost for the all-periods normalization.
func (e *Engine) TotalForMonth(subs []*subscription.Subscription, month time.Time) decimal.Decimal {
	endOfMonth := time.Date(month.Year(), month.Month(), types.DaysInMonth(month.Year(), month.Month()), 23, 59, 59, 0, month.Location())

	total := decimal.Zero
	for _, sub := range subs {
		if !sub.Active || sub.Period != types.RECURRENCE_PERIOD_MONTHLY {
			continue
		}
		if sub.AnchorDate.After(endOfMonth) {
			continue
		}
		total = total.Add(e.MonthlyEquivalent(sub))
	}
	return total
}

// AverageMonthlyCost sums the monthly equivalents of ALL active
// subscriptions regardless of period. Distinct from TotalForMonth by design.
func (e *Engine) AverageMonthlyCost(subs []*subscription.Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		total = total.Add(e.MonthlyEquivalent(sub))
	}
	return total
}

// TagBreakdown groups active subscriptions' monthly-equivalent costs by tag.
// Untagged subscriptions land in the synthetic Uncategorized bucket. A
// subscription with several tags contributes its full cost to each of them;
// costs are not split across tags. Rows come back sorted descending by cost,
// ties broken by tag name.
func (e *Engine) TagBreakdown(subs []*subscription.Subscription) []TagCost {
	byTag := make(map[string]*TagCost)

	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		cost := e.MonthlyEquivalent(sub)

		tags := sub.Tags
		if len(tags) == 0 {
			tags = []subscription.Tag{{ID: UncategorizedTag, Name: UncategorizedTag}}
		}
		for _, tag := range tags {
			row, ok := byTag[tag.ID]
			if !ok {
				row = &TagCost{TagID: tag.ID, TagName: tag.Name, Total: decimal.Zero}
				byTag[tag.ID] = row
			}
			row.Total = row.Total.Add(cost)
		}
	}

	rows := lo.Map(lo.Values(byTag), func(row *TagCost, _ int) TagCost {
		return *row
	})

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.Total)
	}
	if grandTotal.IsPositive() {
		for i := range rows {
			rows[i].Percentage = rows[i].Total.Div(grandTotal).Mul(oneHundred)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].TagName < rows[j].TagName
	})

	return rows
}
