package yield

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMeteo(t *testing.T) {
	ctx := context.Background()

	t.Run("Estimate", func(t *testing.T) {
		// 18 MJ/m²/day for every day of the year with a few days missing
		daily := make([]*float64, 365)
		for i := range daily {
			if i%100 == 0 {
				continue
			}
			v := 18.0
			daily[i] = &v
		}
		body, err := json.Marshal(map[string]any{
			"daily": map[string]any{"shortwave_radiation_sum": daily},
		})
		require.NoError(t, err)

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "4.6", q.Get("latitude"))
			assert.Equal(t, "-74.08", q.Get("longitude"))
			assert.Equal(t, "2022-01-01", q.Get("start_date"))
			assert.Equal(t, "2022-12-31", q.Get("end_date"))
			assert.Equal(t, "shortwave_radiation_sum", q.Get("daily"))
			_, _ = w.Write(body)
		}))
		defer ts.Close()

		o := NewOpenMeteo(ts.URL, 2022, 0.8, ts.Client())
		require.NoError(t, o.Validate())

		v, err := o.Estimate(ctx, bogota)
		require.NoError(t, err)
		// 18 * 365 / 3.6 * 0.8
		assert.InDelta(t, 1460.0, v, 1e-6)
	})

	t.Run("ApiError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
		}))
		defer ts.Close()

		_, err := NewOpenMeteo(ts.URL, 2022, 0.8, ts.Client()).Estimate(ctx, bogota)
		assert.ErrorContains(t, err, "status 400: Latitude must be in range")
	})

	t.Run("NoValues", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"daily":{"shortwave_radiation_sum":[null,null]}}`))
		}))
		defer ts.Close()

		_, err := NewOpenMeteo(ts.URL, 2022, 0.8, ts.Client()).Estimate(ctx, bogota)
		assert.ErrorContains(t, err, "no irradiance values")
	})

	t.Run("MissingDaily", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		_, err := NewOpenMeteo(ts.URL, 2022, 0.8, ts.Client()).Estimate(ctx, bogota)
		assert.ErrorContains(t, err, "missing daily values")
	})

	t.Run("Validate", func(t *testing.T) {
		assert.ErrorContains(t, NewOpenMeteo("", 2022, 0.8, nil).Validate(), "openmeteo-api-url is required")
		assert.ErrorContains(t, NewOpenMeteo("http://x", 1900, 0.8, nil).Validate(), "openmeteo-year")
	})
}
