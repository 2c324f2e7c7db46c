package types

import "fmt"

// Region holds the fixed regional constants a quote is priced with.
type Region struct {
	// Currency is the local currency code written on the quote.
	Currency string `json:"currency"`
	// PricePerKWH is the average residential tariff in local currency.
	PricePerKWH float64 `json:"pricePerKWH"`
	// ExchangeRate converts one unit of the reference currency (USD) into
	// local currency.
	ExchangeRate float64 `json:"exchangeRate"`
	// CostPerWatt is the installed cost in USD per watt-peak.
	CostPerWatt float64 `json:"costPerWatt"`
	// SystemLoss is the DC/AC performance ratio, 0.8 means 20% lost.
	SystemLoss float64 `json:"systemLoss"`
	// TargetFraction is the share of the bill the system should offset.
	TargetFraction float64 `json:"targetFraction"`
	// PanelKWP is the nameplate capacity of a single panel.
	PanelKWP float64 `json:"panelKWP"`
	// FallbackYield is the typical specific yield (kWh/kWp/yr) used when no
	// estimate is available.
	FallbackYield float64 `json:"fallbackYield"`
}

// DefaultRegion returns the constants for residential installs in Colombia.
func DefaultRegion() Region {
	return Region{
		Currency:       "COP",
		PricePerKWH:    890,
		ExchangeRate:   4000,
		CostPerWatt:    0.9,
		SystemLoss:     0.8,
		TargetFraction: 0.7,
		PanelKWP:       0.45,
		FallbackYield:  1350,
	}
}

// Validate makes sure none of the divisors are zero and the fractions make
// sense.
func (r Region) Validate() error {
	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if r.PricePerKWH <= 0 {
		return fmt.Errorf("price per kWh must be positive: %v", r.PricePerKWH)
	}
	if r.ExchangeRate <= 0 {
		return fmt.Errorf("exchange rate must be positive: %v", r.ExchangeRate)
	}
	if r.CostPerWatt < 0 {
		return fmt.Errorf("cost per watt cannot be negative: %v", r.CostPerWatt)
	}
	if r.SystemLoss <= 0 || r.SystemLoss > 1 {
		return fmt.Errorf("system loss must be in (0, 1]: %v", r.SystemLoss)
	}
	if r.TargetFraction <= 0 || r.TargetFraction > 1 {
		return fmt.Errorf("target fraction must be in (0, 1]: %v", r.TargetFraction)
	}
	if r.PanelKWP <= 0 {
		return fmt.Errorf("panel kWp must be positive: %v", r.PanelKWP)
	}
	if r.FallbackYield <= 0 {
		return fmt.Errorf("fallback yield must be positive: %v", r.FallbackYield)
	}
	return nil
}
