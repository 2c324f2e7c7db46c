package types

import "encoding/json"

// PaybackSentinel is reported as the payback period when the bill produces no
// savings and the payback cannot be computed.
const PaybackSentinel = 99

// Quote is the sizing and price estimate for a single site.
type Quote struct {
	// MonthlyKWH is the energy the bill pays for each month.
	MonthlyKWH float64 `json:"kwh_month_total"`
	// TargetMonthlyKWH is the share of MonthlyKWH the system should produce.
	TargetMonthlyKWH float64 `json:"kwh_month_target"`
	// KWP is the installed capacity, always a whole number of panels.
	KWP      float64 `json:"kwp"`
	Panels   int     `json:"panels"`
	PriceUSD float64 `json:"price_usd"`
	// PriceLocal is PriceUSD converted into Currency.
	PriceLocal   float64 `json:"price_cop"`
	Currency     string  `json:"currency"`
	PaybackYears float64 `json:"payback_years"`
}

// MarshalIndented renders q the way it is shown to people, two-space indented.
func (q Quote) MarshalIndented() ([]byte, error) {
	return json.MarshalIndent(q, "", "  ")
}
