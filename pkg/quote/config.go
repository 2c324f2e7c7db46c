package quote

import (
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarquote/pkg/common"
	"github.com/raterudder/solarquote/pkg/types"
)

// ConfiguredRegion registers the regional constant flags, defaulting to
// types.DefaultRegion. The returned Region is filled in by lflag.Configure.
func ConfiguredRegion() *types.Region {
	def := types.DefaultRegion()

	currency := lflag.String("currency", def.Currency, "Local currency code written on the quote")
	pricePerKWH := common.Float64("price-per-kwh", def.PricePerKWH, "Average residential tariff in local currency per kWh")
	exchangeRate := common.Float64("exchange-rate", def.ExchangeRate, "Local currency per USD")
	costPerWatt := common.Float64("cost-per-watt", def.CostPerWatt, "Installed cost in USD per watt-peak")
	systemLoss := common.Float64("system-loss", def.SystemLoss, "DC/AC performance ratio (0.8 means 20% lost)")
	targetFraction := common.Float64("target-fraction", def.TargetFraction, "Fraction of the bill the system should offset")
	panelKWP := common.Float64("panel-kwp", def.PanelKWP, "Nameplate capacity of a single panel in kWp")
	fallbackYield := common.Float64("fallback-yield", def.FallbackYield, "Specific yield in kWh/kWp/yr used when no estimate is available")

	r := &types.Region{}
	lflag.Do(func() {
		*r = types.Region{
			Currency:       *currency,
			PricePerKWH:    *pricePerKWH,
			ExchangeRate:   *exchangeRate,
			CostPerWatt:    *costPerWatt,
			SystemLoss:     *systemLoss,
			TargetFraction: *targetFraction,
			PanelKWP:       *panelKWP,
			FallbackYield:  *fallbackYield,
		}
		if err := r.Validate(); err != nil {
			panic(fmt.Sprintf("region validation failed: %v", err))
		}
	})
	return r
}
