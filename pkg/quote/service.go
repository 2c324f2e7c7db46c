package quote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/notify"
	"github.com/raterudder/solarquote/pkg/storage"
	"github.com/raterudder/solarquote/pkg/types"
	"github.com/raterudder/solarquote/pkg/yield"
)

// YieldLookup returns the specific yield for a site. It never fails; a lookup
// that could not reach any estimator returns a degraded yield.Result.
type YieldLookup interface {
	SpecificYield(ctx context.Context, in types.Inputs) yield.Result
}

// Service runs a single quote end to end: yield lookup, calculation, write to
// the sink and then the optional notification.
type Service struct {
	region   types.Region
	yields   YieldLookup
	sink     storage.Sink
	notifier notify.Notifier
}

// NewService returns a Service. notifier may be nil.
func NewService(region types.Region, yields YieldLookup, sink storage.Sink, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		region:   region,
		yields:   yields,
		sink:     sink,
		notifier: notifier,
	}
}

// Run computes the quote for in and writes it to the sink. An error means
// nothing was written. Notification failures are logged and otherwise
// ignored since the quote has already been persisted.
func (s *Service) Run(ctx context.Context, in types.Inputs) (types.Quote, error) {
	if err := s.region.Validate(); err != nil {
		return types.Quote{}, fmt.Errorf("invalid region: %w", err)
	}
	if err := in.Validate(); err != nil {
		return types.Quote{}, fmt.Errorf("invalid inputs: %w", err)
	}
	ctx = log.WithAttrs(
		ctx,
		slog.Float64("lat", in.Latitude),
		slog.Float64("lon", in.Longitude),
	)

	y := s.yields.SpecificYield(ctx, in)
	if y.Degraded() {
		log.Ctx(ctx).WarnContext(
			ctx,
			"yield lookup failed, using fallback",
			slog.Float64("kwhPerKWP", y.KWHPerKWP),
			slog.Any("error", y.Cause),
		)
	} else {
		log.Ctx(ctx).InfoContext(
			ctx,
			"got specific yield",
			slog.String("source", y.Source),
			slog.Float64("kwhPerKWP", y.KWHPerKWP),
		)
	}

	q, err := Calculate(in, s.region, y)
	if err != nil {
		return types.Quote{}, fmt.Errorf("failed to calculate quote: %w", err)
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"calculated quote",
		slog.Float64("kwp", q.KWP),
		slog.Int("panels", q.Panels),
		slog.Float64("priceUSD", q.PriceUSD),
		slog.Float64("paybackYears", q.PaybackYears),
	)

	if err := s.sink.WriteQuote(ctx, in, q); err != nil {
		return types.Quote{}, fmt.Errorf("failed to write quote: %w", err)
	}

	if err := s.notifier.Notify(ctx, in, q); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to notify quote", slog.Any("error", err))
	}
	return q, nil
}
