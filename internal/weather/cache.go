// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/observability"
)

// coordPrecision is the precision used to quantize coordinates (0.01 degrees ≈ 1.1 km)
const coordPrecision = 1e-2

type cacheKey struct {
	Provider string
	LatQ     int32
	LonQ     int32
}

type cacheEntry struct {
	Report Report
	Expiry time.Time
}

// CachedProvider keeps successful reports of the wrapped provider for a fixed TTL. Failed
// lookups are not cached so the next request retries the provider.
type CachedProvider struct {
	provider Provider
	ttl      time.Duration
	clock    clockwork.Clock
	metrics  *observability.Metrics

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

// NewCachedProvider wraps provider with a cache. metrics may be nil.
func NewCachedProvider(provider Provider, ttl time.Duration, clock clockwork.Clock,
	metrics *observability.Metrics,
) *CachedProvider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CachedProvider{
		provider: provider,
		ttl:      ttl,
		clock:    clock,
		metrics:  metrics,
		cache:    make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedProvider) Name() string {
	return "weather cache using " + c.provider.Name()
}

func (c *CachedProvider) GetWeather(ctx context.Context, coords gazetteer.Coordinate) (*Report, error) {
	key := newKey(c.provider.Name(), coords.Lat, coords.Lon)

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && c.clock.Now().Before(entry.Expiry) {
		c.count("hit")
		return entry.Report.clone(), nil
	}
	c.count("miss")

	report, err := c.provider.GetWeather(ctx, coords)
	if err != nil {
		return report, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{
		Report: *report.clone(),
		Expiry: c.clock.Now().Add(c.ttl),
	}
	return report, nil
}

func (c *CachedProvider) count(result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.WeatherCache.WithLabelValues(result).Inc()
}

func (r *Report) clone() *Report {
	out := *r
	out.Forecast = make([]ForecastDay, len(r.Forecast))
	copy(out.Forecast, r.Forecast)
	return &out
}

func quantizeCoord(val float64) int32 {
	return int32(math.Round(val / coordPrecision))
}

func newKey(provider string, lat, lon float64) cacheKey {
	return cacheKey{
		Provider: provider,
		LatQ:     quantizeCoord(lat),
		LonQ:     quantizeCoord(lon),
	}
}
