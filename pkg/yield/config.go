package yield

import (
	"fmt"
	"strings"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarquote/pkg/common"
	"github.com/raterudder/solarquote/pkg/types"
)

// Config holds the flag-configured estimators. Call Lookup once flags have
// been parsed.
type Config struct {
	estimators []Estimator
	openMeteo  *OpenMeteo
	cache      Cache
}

// Configured registers the yield flags and returns a Config that is filled in
// when lflag.Configure runs.
func Configured() *Config {
	names := lflag.String("yield-estimators", "pvwatts", "Comma-delimited yield estimators to try in order (available: pvwatts, openmeteo)")
	timeout := lflag.Duration("yield-timeout", 10*time.Second, "Timeout for each yield estimator request")

	pvURL := lflag.String("pvwatts-api-url", "https://developer.nrel.gov/api/pvwatts/v8.json", "URL for the NREL PVWatts API")
	pvKey := lflag.String("pvwatts-api-key", "DEMO_KEY", "API key for the NREL PVWatts API")
	pvLosses := common.Float64("pvwatts-losses", 14, "System losses percentage modelled by PVWatts")

	omURL := lflag.String("openmeteo-api-url", "https://archive-api.open-meteo.com/v1/era5", "URL for the Open-Meteo ERA5 archive API")
	omYear := common.Int("openmeteo-year", 2022, "Calendar year of irradiance to average")

	redisAddr := lflag.String("yield-cache-redis-addr", "", "Redis address for caching yield estimates (disabled if empty)")
	redisDB := common.Int("yield-cache-redis-db", 0, "Redis database for the yield cache")
	cacheTTL := lflag.Duration("yield-cache-ttl", 30*24*time.Hour, "How long to cache yield estimates")

	c := &Config{}

	lflag.Do(func() {
		client := common.HTTPClient(*timeout)
		if *redisAddr != "" {
			c.cache = NewRedisCache(*redisAddr, *redisDB)
		}
		for _, name := range strings.Split(*names, ",") {
			var e Estimator
			switch strings.TrimSpace(name) {
			case "":
				continue
			case "pvwatts":
				p := NewPVWatts(*pvURL, *pvKey, *pvLosses, client)
				if err := p.Validate(); err != nil {
					panic(fmt.Sprintf("pvwatts validation failed: %v", err))
				}
				e = p
			case "openmeteo":
				o := NewOpenMeteo(*omURL, *omYear, 0, client)
				if err := o.Validate(); err != nil {
					panic(fmt.Sprintf("openmeteo validation failed: %v", err))
				}
				c.openMeteo = o
				e = o
			default:
				panic(fmt.Sprintf("unknown yield estimator: %s", name))
			}
			if c.cache != nil {
				e = NewCached(e, c.cache, *cacheTTL)
			}
			c.estimators = append(c.estimators, e)
		}
	})

	return c
}

// Lookup returns the estimator chain falling back to region.FallbackYield.
// The Open-Meteo estimator takes its performance ratio from region.SystemLoss.
func (c *Config) Lookup(region types.Region) *Lookup {
	if c.openMeteo != nil {
		c.openMeteo.performanceRatio = region.SystemLoss
	}
	return NewLookup(region.FallbackYield, c.estimators...)
}

// Close releases the cache connection, if any.
func (c *Config) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}
