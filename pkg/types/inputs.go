package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMissingInput is returned when a required input is blank.
var ErrMissingInput = errors.New("missing required input")

// MaxMonthlyBill is the largest bill accepted, in local currency.
const MaxMonthlyBill = 1e12

// Inputs are the three values a quote is computed from.
type Inputs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// MonthlyBill is in the region's local currency.
	MonthlyBill float64 `json:"monthlyBill"`
}

// ParseInputs parses and validates the raw input strings. Every field is
// required.
func ParseInputs(lat, lon, bill string) (Inputs, error) {
	var in Inputs
	var err error
	if in.Latitude, err = parseField("latitude", lat); err != nil {
		return Inputs{}, err
	}
	if in.Longitude, err = parseField("longitude", lon); err != nil {
		return Inputs{}, err
	}
	if in.MonthlyBill, err = parseField("bill", bill); err != nil {
		return Inputs{}, err
	}
	if err := in.Validate(); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

func parseField(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", name, ErrMissingInput)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number (%q): %w", name, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be finite: %q", name, raw)
	}
	return v, nil
}

// Validate checks that the inputs are within their physical ranges.
func (in Inputs) Validate() error {
	if in.Latitude < -90 || in.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90: %v", in.Latitude)
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180: %v", in.Longitude)
	}
	if in.MonthlyBill < 0 {
		return fmt.Errorf("bill cannot be negative: %v", in.MonthlyBill)
	}
	if in.MonthlyBill > MaxMonthlyBill {
		return fmt.Errorf("bill cannot exceed %v: %v", MaxMonthlyBill, in.MonthlyBill)
	}
	return nil
}

// Tilt is the panel tilt in degrees used for the yield lookup. Panels are
// tilted by the absolute latitude.
func (in Inputs) Tilt() float64 {
	return math.Abs(in.Latitude)
}

// Coordinates formats the location as "lat,lon" using the shortest
// representation of each value.
func (in Inputs) Coordinates() string {
	return strconv.FormatFloat(in.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(in.Longitude, 'f', -1, 64)
}
