package yield

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
)

// PVWatts estimates yield with NREL's PVWatts v8 API by modelling a 1 kWp
// reference system and summing its monthly AC output.
type PVWatts struct {
	apiURL string
	apiKey string
	losses float64
	client *http.Client
}

// NewPVWatts returns a PVWatts estimator. losses is the system loss
// percentage PVWatts should model.
func NewPVWatts(apiURL, apiKey string, losses float64, client *http.Client) *PVWatts {
	return &PVWatts{
		apiURL: apiURL,
		apiKey: apiKey,
		losses: losses,
		client: client,
	}
}

// Validate ensures the configuration is valid.
func (p *PVWatts) Validate() error {
	if p.apiURL == "" {
		return fmt.Errorf("pvwatts-api-url is required")
	}
	if _, err := url.Parse(p.apiURL); err != nil {
		return fmt.Errorf("failed to parse pvwatts url (%s): %w", p.apiURL, err)
	}
	if p.apiKey == "" {
		return fmt.Errorf("pvwatts-api-key is required")
	}
	if p.losses < -5 || p.losses > 99 {
		return fmt.Errorf("pvwatts-losses must be between -5 and 99: %v", p.losses)
	}
	return nil
}

// Name implements Estimator.
func (p *PVWatts) Name() string {
	return "pvwatts"
}

type pvwattsResponse struct {
	Errors  []string `json:"errors"`
	Outputs *struct {
		ACMonthly []float64 `json:"ac_monthly"`
	} `json:"outputs"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Estimate implements Estimator.
func (p *PVWatts) Estimate(ctx context.Context, in types.Inputs) (float64, error) {
	u, err := url.Parse(p.apiURL)
	if err != nil {
		return 0, fmt.Errorf("invalid api url: %w", err)
	}
	params := url.Values{}
	params.Set("lat", formatFloat(in.Latitude))
	params.Set("lon", formatFloat(in.Longitude))
	params.Set("system_capacity", "1")
	// facing due south
	params.Set("azimuth", "180")
	params.Set("tilt", formatFloat(in.Tilt()))
	// fixed roof mount, standard module
	params.Set("array_type", "1")
	params.Set("module_type", "0")
	params.Set("losses", formatFloat(p.losses))
	params.Set("timeframe", "monthly")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// the key stays out of the url so transport errors never carry it
	req.Header.Set("X-Api-Key", p.apiKey)
	log.Ctx(ctx).DebugContext(
		ctx,
		"fetching pvwatts yield",
		slog.Float64("lat", in.Latitude),
		slog.Float64("lon", in.Longitude),
	)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pvwatts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pvwatts api returned status: %d", resp.StatusCode)
	}

	var data pvwattsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode pvwatts response: %w", err)
	}
	if len(data.Errors) > 0 {
		return 0, fmt.Errorf("pvwatts errors: %s", strings.Join(data.Errors, "; "))
	}
	if data.Outputs == nil {
		return 0, fmt.Errorf("pvwatts response missing outputs")
	}
	if n := len(data.Outputs.ACMonthly); n != 12 {
		return 0, fmt.Errorf("pvwatts returned %d monthly values, expected 12", n)
	}

	var annual float64
	for _, v := range data.Outputs.ACMonthly {
		annual += v
	}
	if annual <= 0 {
		return 0, fmt.Errorf("pvwatts annual output is not positive: %v", annual)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetched pvwatts yield", slog.Float64("kwhPerKWP", annual))
	// system_capacity is 1 kWp so the annual output is already per kWp
	return annual, nil
}
