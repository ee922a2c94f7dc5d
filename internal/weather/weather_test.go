// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/observability"
)

var testCoords = gazetteer.Coordinate{Lat: 4.8594, Lon: 31.5713}

type stubProvider struct {
	name  string
	err   error
	calls int
	temp  float64
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) GetWeather(_ context.Context, coords gazetteer.Coordinate) (*Report, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	report := NewReport()
	report.Provider = s.name
	report.Source = SourceLive
	report.Coordinates = coords
	report.Current.TemperatureC = s.temp
	report.Forecast = append(report.Forecast, ForecastDay{Date: time.Now(), MinTempC: 20, MaxTempC: 30})
	return report, nil
}

func TestNewReport(t *testing.T) {
	report := NewReport()
	if report == nil {
		t.Fatal("expected report to be non-nil")
	}
	if report.Forecast == nil {
		t.Fatal("expected forecast to be non-nil")
	}
}

func TestNewDay(t *testing.T) {
	in := time.Date(2025, 1, 1, 13, 2, 3, 0, time.UTC)
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := NewDay(in); !got.Equal(want) {
		t.Errorf("expected day to be %s, got %s", want, got)
	}
}

func TestCondenseDaily(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []ForecastDay
	// 3-hourly entries over 7 days, listed out of order for the first day
	for i := 7*8 - 1; i >= 0; i-- {
		entries = append(entries, ForecastDay{
			Date:     base.Add(time.Duration(i) * 3 * time.Hour),
			MaxTempC: float64(i),
		})
	}
	days := CondenseDaily(entries, ForecastDays)
	if len(days) != ForecastDays {
		t.Fatalf("expected %d days, got %d", ForecastDays, len(days))
	}
	for i, day := range days {
		want := base.AddDate(0, 0, i)
		if !day.Date.Equal(want) {
			t.Errorf("expected day %d to be %s, got %s", i, want, day.Date)
		}
		if day.MaxTempC != float64(i*8) {
			t.Errorf("expected first entry of day %d to be kept, got max temp %f", i, day.MaxTempC)
		}
	}
	t.Run("short input yields fewer days", func(t *testing.T) {
		days := CondenseDaily(entries[len(entries)-10:], ForecastDays)
		if len(days) != 2 {
			t.Errorf("expected 2 days, got %d", len(days))
		}
	})
}

func TestReport_QuickStats(t *testing.T) {
	report := NewReport()
	if stats := report.QuickStats(); stats != (QuickStats{}) {
		t.Errorf("expected zero stats for empty forecast, got %+v", stats)
	}
	report.Forecast = []ForecastDay{
		{MinTempC: 20, MaxTempC: 30, HumidityPct: 40, RainfallProbPct: 10},
		{MinTempC: 22, MaxTempC: 34, HumidityPct: 60, RainfallProbPct: 30},
	}
	stats := report.QuickStats()
	if math.Abs(stats.AvgTemperatureC-26.5) > 1e-9 {
		t.Errorf("expected average temperature 26.5, got %f", stats.AvgTemperatureC)
	}
	if stats.AvgHumidityPct != 50 {
		t.Errorf("expected average humidity 50, got %f", stats.AvgHumidityPct)
	}
	if stats.AvgRainfallProbPct != 20 {
		t.Errorf("expected average rain probability 20, got %f", stats.AvgRainfallProbPct)
	}
}

func TestFallback_GetWeather(t *testing.T) {
	log := logger.NewLogger(slog.LevelDebug, io.Discard)
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubProvider{name: "live"}
		secondary := &stubProvider{name: "mock"}
		metrics := observability.NewMetricsForTesting()
		fb, err := NewFallback(primary, secondary, log, metrics)
		if err != nil {
			t.Fatalf("failed to create fallback provider: %s", err)
		}
		report, err := fb.GetWeather(t.Context(), testCoords)
		if err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		if report.Source != SourceLive {
			t.Errorf("expected live report, got %s", report.Source)
		}
		if secondary.calls != 0 {
			t.Error("expected secondary provider not to be called")
		}
		if got := testutil.ToFloat64(metrics.WeatherRequests.WithLabelValues("live", "success")); got != 1 {
			t.Errorf("expected 1 successful request, got %f", got)
		}
	})
	t.Run("primary fails and secondary is marked mock", func(t *testing.T) {
		primary := &stubProvider{name: "live", err: errors.New("intentionally failing")}
		secondary := &stubProvider{name: "mock"}
		metrics := observability.NewMetricsForTesting()
		fb, err := NewFallback(primary, secondary, log, metrics)
		if err != nil {
			t.Fatalf("failed to create fallback provider: %s", err)
		}
		report, err := fb.GetWeather(t.Context(), testCoords)
		if err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		if report.Source != SourceMock {
			t.Errorf("expected mock report, got %s", report.Source)
		}
		if got := testutil.ToFloat64(metrics.WeatherFallbacks); got != 1 {
			t.Errorf("expected 1 fallback, got %f", got)
		}
	})
	t.Run("both providers fail", func(t *testing.T) {
		primary := &stubProvider{name: "live", err: errors.New("intentionally failing")}
		secondary := &stubProvider{name: "mock", err: errors.New("intentionally failing")}
		fb, err := NewFallback(primary, secondary, log, nil)
		if err != nil {
			t.Fatalf("failed to create fallback provider: %s", err)
		}
		if _, err = fb.GetWeather(t.Context(), testCoords); err == nil {
			t.Error("expected weather lookup to fail")
		}
	})
	t.Run("canceled context is not masked", func(t *testing.T) {
		primary := &stubProvider{name: "live", err: context.Canceled}
		secondary := &stubProvider{name: "mock"}
		fb, err := NewFallback(primary, secondary, log, nil)
		if err != nil {
			t.Fatalf("failed to create fallback provider: %s", err)
		}
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err = fb.GetWeather(ctx, testCoords); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context canceled error, got %v", err)
		}
	})
	t.Run("missing providers fail", func(t *testing.T) {
		if _, err := NewFallback(nil, &stubProvider{}, log, nil); err == nil {
			t.Error("expected fallback creation to fail")
		}
		if _, err := NewFallback(&stubProvider{}, &stubProvider{}, nil, nil); err == nil {
			t.Error("expected fallback creation to fail")
		}
	})
}

func TestCachedProvider_GetWeather(t *testing.T) {
	t.Run("cache hit within ttl", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		inner := &stubProvider{name: "stub", temp: 25}
		metrics := observability.NewMetricsForTesting()
		cache := NewCachedProvider(inner, time.Minute, clock, metrics)

		first, err := cache.GetWeather(t.Context(), testCoords)
		if err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		first.Current.TemperatureC = 99
		second, err := cache.GetWeather(t.Context(), gazetteer.Coordinate{Lat: 4.8601, Lon: 31.5709})
		if err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		if inner.calls != 1 {
			t.Errorf("expected provider to be called once, got %d", inner.calls)
		}
		if second.Current.TemperatureC != 25 {
			t.Errorf("expected cached report to be unaffected by caller mutation, got %f",
				second.Current.TemperatureC)
		}
		if got := testutil.ToFloat64(metrics.WeatherCache.WithLabelValues("hit")); got != 1 {
			t.Errorf("expected 1 cache hit, got %f", got)
		}
	})
	t.Run("cache expires after ttl", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		inner := &stubProvider{name: "stub"}
		cache := NewCachedProvider(inner, time.Minute, clock, nil)
		if _, err := cache.GetWeather(t.Context(), testCoords); err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		clock.Advance(2 * time.Minute)
		if _, err := cache.GetWeather(t.Context(), testCoords); err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		if inner.calls != 2 {
			t.Errorf("expected provider to be called twice, got %d", inner.calls)
		}
	})
	t.Run("errors are not cached", func(t *testing.T) {
		inner := &stubProvider{name: "stub", err: errors.New("intentionally failing")}
		cache := NewCachedProvider(inner, time.Minute, nil, nil)
		for i := 0; i < 2; i++ {
			if _, err := cache.GetWeather(t.Context(), testCoords); err == nil {
				t.Fatal("expected weather lookup to fail")
			}
		}
		if inner.calls != 2 {
			t.Errorf("expected provider to be called twice, got %d", inner.calls)
		}
	})
	t.Run("name", func(t *testing.T) {
		cache := NewCachedProvider(&stubProvider{name: "stub"}, time.Minute, nil, nil)
		if cache.Name() != "weather cache using stub" {
			t.Errorf("unexpected name: %s", cache.Name())
		}
	})
}
