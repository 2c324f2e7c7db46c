package yield

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/raterudder/solarquote/pkg/log"
	"github.com/raterudder/solarquote/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetDefaultLogLevel(slog.LevelError)
}

type mockEstimator struct {
	mock.Mock
	name string
}

func (m *mockEstimator) Name() string {
	return m.name
}

func (m *mockEstimator) Estimate(ctx context.Context, in types.Inputs) (float64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(float64), args.Error(1)
}

var bogota = types.Inputs{Latitude: 4.6, Longitude: -74.08, MonthlyBill: 400000}

func TestLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("first success wins", func(t *testing.T) {
		first := &mockEstimator{name: "first"}
		first.On("Estimate", ctx, bogota).Return(1500.5, nil).Once()
		second := &mockEstimator{name: "second"}

		res := NewLookup(1350, first, second).SpecificYield(ctx, bogota)
		assert.False(t, res.Degraded())
		assert.Equal(t, Success("first", 1500.5), res)
		first.AssertExpectations(t)
		second.AssertNotCalled(t, "Estimate", mock.Anything, mock.Anything)
	})

	t.Run("falls through to next estimator", func(t *testing.T) {
		first := &mockEstimator{name: "first"}
		first.On("Estimate", ctx, bogota).Return(0.0, errors.New("timeout")).Once()
		second := &mockEstimator{name: "second"}
		second.On("Estimate", ctx, bogota).Return(1420.0, nil).Once()

		res := NewLookup(1350, first, second).SpecificYield(ctx, bogota)
		assert.Equal(t, "second", res.Source)
		assert.Equal(t, 1420.0, res.KWHPerKWP)
		assert.NoError(t, res.Cause)
	})

	t.Run("all fail uses fallback", func(t *testing.T) {
		first := &mockEstimator{name: "first"}
		first.On("Estimate", ctx, bogota).Return(0.0, errors.New("boom")).Once()
		second := &mockEstimator{name: "second"}
		second.On("Estimate", ctx, bogota).Return(-3.0, nil).Once()

		res := NewLookup(1350, first, second).SpecificYield(ctx, bogota)
		assert.True(t, res.Degraded())
		assert.Equal(t, SourceFallback, res.Source)
		assert.Equal(t, 1350.0, res.KWHPerKWP)
		assert.ErrorContains(t, res.Cause, "first: boom")
		assert.ErrorContains(t, res.Cause, "second: non-positive yield")
	})

	t.Run("no estimators", func(t *testing.T) {
		res := NewLookup(1350).SpecificYield(ctx, bogota)
		assert.True(t, res.Degraded())
		assert.Equal(t, 1350.0, res.KWHPerKWP)
	})
}

func TestFallback(t *testing.T) {
	cause := errors.New("nope")
	res := Fallback(1200, cause)
	require.True(t, res.Degraded())
	assert.ErrorIs(t, res.Cause, cause)

	assert.True(t, Fallback(1200, nil).Degraded(), "a fallback is degraded even without a cause")
	assert.False(t, Success("x", 1).Degraded())
}
