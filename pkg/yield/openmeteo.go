package yield

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
)

// mjPerKWH converts megajoules into kilowatt-hours.
const mjPerKWH = 3.6

// OpenMeteo estimates yield from a year of ERA5 reanalysis irradiance served
// by the Open-Meteo archive API. It is coarser than PVWatts since it ignores
// tilt and temperature.
type OpenMeteo struct {
	apiURL           string
	year             int
	performanceRatio float64
	client           *http.Client
}

// NewOpenMeteo returns an OpenMeteo estimator for the given calendar year.
// performanceRatio is the fraction of irradiance that ends up as AC energy and
// must be in (0, 1].
func NewOpenMeteo(apiURL string, year int, performanceRatio float64, client *http.Client) *OpenMeteo {
	return &OpenMeteo{
		apiURL:           apiURL,
		year:             year,
		performanceRatio: performanceRatio,
		client:           client,
	}
}

// Validate ensures the configuration is valid.
func (o *OpenMeteo) Validate() error {
	if o.apiURL == "" {
		return fmt.Errorf("openmeteo-api-url is required")
	}
	if _, err := url.Parse(o.apiURL); err != nil {
		return fmt.Errorf("failed to parse openmeteo url (%s): %w", o.apiURL, err)
	}
	if o.year < 1940 {
		return fmt.Errorf("openmeteo-year must be 1940 or later: %d", o.year)
	}
	return nil
}

// Name implements Estimator.
func (o *OpenMeteo) Name() string {
	return "openmeteo"
}

type openMeteoResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
	Daily  *struct {
		// MJ/m² per day, null for days without data
		ShortwaveRadiationSum []*float64 `json:"shortwave_radiation_sum"`
	} `json:"daily"`
}

// Estimate implements Estimator.
func (o *OpenMeteo) Estimate(ctx context.Context, in types.Inputs) (float64, error) {
	u, err := url.Parse(o.apiURL)
	if err != nil {
		return 0, fmt.Errorf("invalid api url: %w", err)
	}
	year := strconv.Itoa(o.year)
	params := url.Values{}
	params.Set("latitude", formatFloat(in.Latitude))
	params.Set("longitude", formatFloat(in.Longitude))
	params.Set("start_date", year+"-01-01")
	params.Set("end_date", year+"-12-31")
	params.Set("daily", "shortwave_radiation_sum")
	params.Set("timezone", "auto")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching openmeteo irradiance", slog.String("year", year))

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch openmeteo: %w", err)
	}
	defer resp.Body.Close()

	var data openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode openmeteo response (status %d): %w", resp.StatusCode, err)
	}
	if data.Error || resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("openmeteo api returned status %d: %s", resp.StatusCode, data.Reason)
	}
	if data.Daily == nil {
		return 0, fmt.Errorf("openmeteo response missing daily values")
	}

	var sumMJ float64
	var days int
	for _, v := range data.Daily.ShortwaveRadiationSum {
		if v == nil {
			continue
		}
		sumMJ += *v
		days++
	}
	if days == 0 {
		return 0, fmt.Errorf("openmeteo returned no irradiance values")
	}

	// scale up to a full year in case some days were missing
	annualKWHPerM2 := sumMJ / float64(days) * 365 / mjPerKWH
	// 1 kWp is rated at 1 kW/m² so plane irradiance in kWh/m² maps directly to
	// kWh/kWp before losses
	kwhPerKWP := annualKWHPerM2 * o.performanceRatio
	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched openmeteo irradiance",
		slog.Int("days", days),
		slog.Float64("kwhPerKWP", kwhPerKWP),
	)
	return kwhPerKWP, nil
}
