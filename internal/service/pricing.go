package service

import "github.com/shopspring/decimal"

var thousand = decimal.NewFromInt(1000)

// RevenueFromThousand converts a unit count priced on a per-thousand basis
// ("perThousand units equal 1000 currency units") into revenue. The result is
// rounded to a whole currency amount, half away from zero. A pricing basis of
// zero or less is a defined zero-revenue case, not an error.
func RevenueFromThousand(units, perThousand int64) decimal.Decimal {
	if perThousand <= 0 || units <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(units).
		Mul(thousand).
		Div(decimal.NewFromInt(perThousand)).
		Round(0)
}
