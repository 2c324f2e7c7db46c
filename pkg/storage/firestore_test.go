package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/raterudder/solarquote/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteDocID(t *testing.T) {
	assert.Equal(t, "4.6_-74.08_400000", quoteDocID(testInputs))
	assert.Equal(t, "0_0_0", quoteDocID(types.Inputs{}))
}

func TestFirestore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a random database for isolation
	f := &Firestore{
		projectID: "test-project-id",
		database:  fmt.Sprintf("test-db-%d", time.Now().UnixNano()),
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.GetQuote(ctx, types.Inputs{Latitude: 1, Longitude: 2, MonthlyBill: 3})
		assert.ErrorIs(t, err, ErrQuoteNotFound)
	})

	t.Run("WriteAndRead", func(t *testing.T) {
		require.NoError(t, f.WriteQuote(ctx, testInputs, testQuote))

		got, err := f.GetQuote(ctx, testInputs)
		require.NoError(t, err)
		assert.Equal(t, testQuote, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := testQuote
		updated.Panels = 8
		updated.KWP = 3.6
		require.NoError(t, f.WriteQuote(ctx, testInputs, updated))

		got, err := f.GetQuote(ctx, testInputs)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})
}
