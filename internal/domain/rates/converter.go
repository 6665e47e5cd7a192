package rates

import "github.com/shopspring/decimal"

// Converter turns an amount in one currency into another. It is supplied by
// an external rate repository; the engine never fetches rates itself.
//
// The second return is false when no rate is available. That is not a
// failure: the documented fallback is to keep the unconverted amount, and the
// aggregation engine does exactly that.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(amount decimal.Decimal, from, to string) (decimal.Decimal, bool)

func (f ConverterFunc) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	return f(amount, from, to)
}

// Identity returns a converter that only resolves same-currency conversions.
// Everything else reports no rate, which leaves amounts untouched.
func Identity() Converter {
	return ConverterFunc(func(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
		if from == to {
			return amount, true
		}
		return decimal.Zero, false
	})
}
