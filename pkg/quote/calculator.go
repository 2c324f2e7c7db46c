package quote

import (
	"errors"
	"math"

	"github.com/raterudder/solarquote/pkg/types"
	"github.com/raterudder/solarquote/pkg/yield"
	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	wattsPerKW    = decimal.NewFromInt(1000)
	maxPanels     = decimal.NewFromInt(math.MaxInt32)
)

// ErrTooManyPanels is returned when the sizing would not fit in a panel count.
var ErrTooManyPanels = errors.New("system too large to quote")

// Calculate sizes and prices a system for in using the specific yield in y.
// It has no side effects so identical arguments always produce an identical
// Quote. An error is only returned when the panel count overflows, which
// Inputs.Validate already prevents for the default region.
//
// All arithmetic is done in decimal so the panel count is an exact ceiling
// rather than being pushed up a whole panel by float error (e.g. 2.7/0.45).
// Intermediate values are never rounded; only the fields of the returned Quote
// are, using half-to-even rounding.
func Calculate(in types.Inputs, region types.Region, y yield.Result) (types.Quote, error) {
	bill := decimal.NewFromFloat(in.MonthlyBill)
	target := decimal.NewFromFloat(region.TargetFraction)
	panelKWP := decimal.NewFromFloat(region.PanelKWP)

	monthlyKWH := bill.Div(decimal.NewFromFloat(region.PricePerKWH))
	targetKWH := monthlyKWH.Mul(target)

	specific := y.KWHPerKWP
	if !(specific > 0) {
		specific = region.FallbackYield
	}
	requiredKWP := targetKWH.Mul(monthsPerYear).Div(decimal.NewFromFloat(specific))

	panels := requiredKWP.Div(panelKWP).Ceil()
	if panels.GreaterThanOrEqual(maxPanels) {
		return types.Quote{}, ErrTooManyPanels
	}
	actualKWP := panels.Mul(panelKWP)

	priceUSD := actualKWP.Mul(wattsPerKW).Mul(decimal.NewFromFloat(region.CostPerWatt))
	priceLocal := priceUSD.Mul(decimal.NewFromFloat(region.ExchangeRate))

	// both sides are in local currency so the exchange rate only matters for
	// the price fields
	annualSavings := bill.Mul(monthsPerYear).Mul(target)
	payback := decimal.NewFromInt(types.PaybackSentinel)
	if !annualSavings.IsZero() {
		payback = priceLocal.Div(annualSavings)
	}

	return types.Quote{
		MonthlyKWH:       monthlyKWH.RoundBank(0).InexactFloat64(),
		TargetMonthlyKWH: targetKWH.RoundBank(0).InexactFloat64(),
		KWP:              actualKWP.RoundBank(2).InexactFloat64(),
		Panels:           int(panels.IntPart()),
		PriceUSD:         priceUSD.RoundBank(0).InexactFloat64(),
		PriceLocal:       priceLocal.RoundBank(0).InexactFloat64(),
		Currency:         region.Currency,
		PaybackYears:     payback.RoundBank(1).InexactFloat64(),
	}, nil
}
