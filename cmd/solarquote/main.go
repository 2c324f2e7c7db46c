package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/notify"
	"github.com/raterudder/solarquote/pkg/quote"
	"github.com/raterudder/solarquote/pkg/storage"
	"github.com/raterudder/solarquote/pkg/types"
	"github.com/raterudder/solarquote/pkg/yield"
)

func main() {
	// init packages
	region := quote.ConfiguredRegion()
	yields := yield.Configured()
	sink := storage.Configured()
	notifier := notify.Configured()

	// the inputs default to the environment so the binary can run as a CI step
	lat := lflag.String("lat", os.Getenv("INPUT_LAT"), "Latitude of the site in degrees")
	lon := lflag.String("lon", os.Getenv("INPUT_LON"), "Longitude of the site in degrees")
	bill := lflag.String("bill", os.Getenv("INPUT_BILL"), "Monthly electricity bill in local currency")

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	in, err := types.ParseInputs(*lat, *lon, *bill)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid inputs", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(ctx, quote.NewService(*region, yields.Lookup(*region), sink, notifier), in); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "quote failed", slog.Any("error", err))
		closeAll(ctx, sink, yields)
		os.Exit(1)
	}
	closeAll(ctx, sink, yields)
}

func run(ctx context.Context, svc *quote.Service, in types.Inputs) error {
	q, err := svc.Run(ctx, in)
	if err != nil {
		return err
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"quote complete",
		slog.Int("panels", q.Panels),
		slog.Float64("kwp", q.KWP),
		slog.Float64("priceLocal", q.PriceLocal),
		slog.String("currency", q.Currency),
	)
	return nil
}

type closer interface {
	Close() error
}

func closeAll(ctx context.Context, cs ...closer) {
	for _, c := range cs {
		if err := c.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close", slog.Any("error", err))
		}
	}
}
