package yield

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
)

// Estimator estimates the specific annual yield of a site.
type Estimator interface {
	// Name identifies the estimator in logs and results.
	Name() string

	// Estimate returns the AC energy in kWh produced per year by 1 kWp
	// installed at the given inputs' location.
	Estimate(ctx context.Context, in types.Inputs) (float64, error)
}

// SourceFallback is the Result source when no estimator succeeded.
const SourceFallback = "fallback"

// Result is the outcome of a yield lookup. It is either a successful estimate
// or the fallback constant along with the reason the estimate failed.
type Result struct {
	// KWHPerKWP is the specific annual yield in kWh/kWp/yr.
	KWHPerKWP float64
	// Source is the estimator name, or SourceFallback.
	Source string
	// Cause is nil for a successful estimate.
	Cause error
}

// Success returns a Result for an estimate produced by source.
func Success(source string, kwhPerKWP float64) Result {
	return Result{KWHPerKWP: kwhPerKWP, Source: source}
}

// Fallback returns a Result substituting kwhPerKWP because of cause.
func Fallback(kwhPerKWP float64, cause error) Result {
	if cause == nil {
		cause = errors.New("no estimators configured")
	}
	return Result{KWHPerKWP: kwhPerKWP, Source: SourceFallback, Cause: cause}
}

// Degraded reports whether the fallback constant was used.
func (r Result) Degraded() bool {
	return r.Cause != nil
}

// Lookup tries each estimator in order and falls back to a constant yield.
type Lookup struct {
	estimators []Estimator
	fallback   float64
}

// NewLookup returns a Lookup that falls back to fallback kWh/kWp/yr.
func NewLookup(fallback float64, estimators ...Estimator) *Lookup {
	return &Lookup{
		estimators: estimators,
		fallback:   fallback,
	}
}

// SpecificYield returns the first successful estimate. Every failure is
// collapsed into a Fallback result so the caller always gets a usable yield.
func (l *Lookup) SpecificYield(ctx context.Context, in types.Inputs) Result {
	var errs []error
	for _, e := range l.estimators {
		v, err := e.Estimate(ctx, in)
		if err == nil && !(v > 0) {
			err = fmt.Errorf("non-positive yield: %v", v)
		}
		if err != nil {
			log.Ctx(ctx).DebugContext(
				ctx,
				"yield estimator failed",
				slog.String("estimator", e.Name()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		return Success(e.Name(), v)
	}
	return Fallback(l.fallback, errors.Join(errs...))
}
