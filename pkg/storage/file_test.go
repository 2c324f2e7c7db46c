package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

var testQuote = types.Quote{
	MonthlyKWH:       449,
	TargetMonthlyKWH: 315,
	KWP:              3.15,
	Panels:           7,
	PriceUSD:         2835,
	PriceLocal:       11340000,
	Currency:         "COP",
	PaybackYears:     3.4,
}

var testInputs = types.Inputs{Latitude: 4.6, Longitude: -74.08, MonthlyBill: 400000}

func TestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("Validate", func(t *testing.T) {
		assert.ErrorContains(t, NewFile("").Validate(), "quote-output is required")
		assert.NoError(t, NewFile("quote.json").Validate())
	})

	t.Run("WriteQuote", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quote.json")
		f := NewFile(path)
		require.NoError(t, f.WriteQuote(ctx, testInputs, testQuote))
		require.NoError(t, f.Close())

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"kwh_month_total": 449,
			"kwh_month_target": 315,
			"kwp": 3.15,
			"panels": 7,
			"price_usd": 2835,
			"price_cop": 11340000,
			"currency": "COP",
			"payback_years": 3.4
		}`, string(b))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("Overwrites", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "quote.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"stale":true,"padding":"`+strings.Repeat("x", 512)+`"}`), 0o644))

		f := NewFile(path)
		require.NoError(t, f.WriteQuote(ctx, testInputs, testQuote))
		first, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(first), "stale")

		// writing again is byte-for-byte identical
		require.NoError(t, f.WriteQuote(ctx, testInputs, testQuote))
		second, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		// no temp files are left behind
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "quote.json")
		err := NewFile(path).WriteQuote(ctx, testInputs, testQuote)
		assert.ErrorContains(t, err, "failed to create temp file")
	})
}
