package testutil

import (
	"github.com/shopspring/decimal"
)

type ratePair struct {
	from string
	to   string
}

// StaticRateProvider implements rates.Converter over a fixed rate table.
// Pairs not in the table report no rate, exercising the caller-side
// original-amount fallback.
type StaticRateProvider struct {
	table map[ratePair]decimal.Decimal
}

func NewStaticRateProvider() *StaticRateProvider {
	return &StaticRateProvider{table: make(map[ratePair]decimal.Decimal)}
}

// WithRate registers a one-directional conversion rate.
func (p *StaticRateProvider) WithRate(from, to string, rate decimal.Decimal) *StaticRateProvider {
	p.table[ratePair{from: from, to: to}] = rate
	return p
}

func (p *StaticRateProvider) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return amount, true
	}
	rate, ok := p.table[ratePair{from: from, to: to}]
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(rate), true
}
