// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/http"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/testhelper"
	"github.com/wneessen/agriwatch/internal/weather"
)

const currentJSON = `{
  "weather": [{"id": 500, "main": "Rain", "description": "light rain"}],
  "main": {"temp": 29.46, "humidity": 74},
  "wind": {"speed": 2.5}
}`

var juba = gazetteer.Coordinate{Lat: 4.8594, Lon: 31.5713}

// forecastJSON returns 3-hourly entries for seven days starting 2025-06-01 00:00 UTC.
func forecastJSON() string {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	items := make([]string, 0, 56)
	for i := 0; i < 56; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		day := i / 8
		items = append(items, fmt.Sprintf(
			`{"dt": %d, "main": {"temp_min": %.2f, "temp_max": %.2f, "humidity": %d}, "pop": %.2f}`,
			ts.Unix(), 20.04+float64(day), 30.06+float64(day), 50+day, 0.1*float64(day)))
	}
	return fmt.Sprintf(`{"list": [%s], "city": {"timezone": 0}}`, strings.Join(items, ","))
}

func respond(code int, body string) *stdhttp.Response {
	return &stdhttp.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(stdhttp.Header),
	}
}

func newTestProvider(t *testing.T, rtFn func(*stdhttp.Request) (*stdhttp.Response, error)) *OpenWeatherMap {
	t.Helper()
	log := logger.NewLogger(slog.LevelInfo, io.Discard)
	client := http.New(log)
	client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	provider, err := New(client, log, "secret", time.Second, clock)
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	return provider
}

func TestNew(t *testing.T) {
	log := logger.NewLogger(slog.LevelInfo, io.Discard)
	t.Run("missing API key is a configuration error", func(t *testing.T) {
		_, err := New(http.New(log), log, "", time.Second, nil)
		if !errors.Is(err, errs.ErrConfiguration) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
	t.Run("missing http client fails", func(t *testing.T) {
		if _, err := New(nil, log, "secret", time.Second, nil); err == nil {
			t.Error("expected New to fail")
		}
	})
	t.Run("missing logger fails", func(t *testing.T) {
		if _, err := New(http.New(log), nil, "secret", time.Second, nil); err == nil {
			t.Error("expected New to fail")
		}
	})
}

func TestOpenWeatherMap_GetWeather(t *testing.T) {
	t.Run("current weather and forecast are mapped", func(t *testing.T) {
		var paths []string
		provider := newTestProvider(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			paths = append(paths, req.URL.Path)
			if req.URL.Query().Get("appid") != "secret" {
				t.Errorf("expected API key in query, got %q", req.URL.RawQuery)
			}
			if req.URL.Query().Get("units") != "metric" {
				t.Errorf("expected metric units, got %q", req.URL.Query().Get("units"))
			}
			if strings.HasSuffix(req.URL.Path, forecastPath) {
				return respond(200, forecastJSON()), nil
			}
			return respond(200, currentJSON), nil
		})

		report, err := provider.GetWeather(t.Context(), juba)
		if err != nil {
			t.Fatalf("failed to get weather: %s", err)
		}
		if len(paths) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(paths))
		}
		if report.Source != weather.SourceLive {
			t.Errorf("expected live source, got %q", report.Source)
		}
		if report.Current.TemperatureC != 29.5 {
			t.Errorf("expected temperature 29.5, got %f", report.Current.TemperatureC)
		}
		if report.Current.WindKPH != 9 {
			t.Errorf("expected wind speed 9 km/h, got %f", report.Current.WindKPH)
		}
		if report.Current.HumidityPct != 74 {
			t.Errorf("expected humidity 74, got %f", report.Current.HumidityPct)
		}
		if report.Current.Description != "Light Rain" {
			t.Errorf("expected description 'Light Rain', got %q", report.Current.Description)
		}
		if len(report.Forecast) != weather.ForecastDays {
			t.Fatalf("expected %d forecast days, got %d", weather.ForecastDays, len(report.Forecast))
		}
		for i, day := range report.Forecast {
			want := time.Date(2025, 6, 1+i, 0, 0, 0, 0, day.Date.Location())
			if !day.Date.Equal(want) {
				t.Errorf("day %d: expected date %s, got %s", i, want, day.Date)
			}
			if day.MinTempC != 20+float64(i) {
				t.Errorf("day %d: expected min temp %d, got %f", i, 20+i, day.MinTempC)
			}
		}
		if got := report.Forecast[2].RainfallProbPct; got < 19.99 || got > 20.01 {
			t.Errorf("expected rainfall probability 20, got %f", got)
		}
	})
	t.Run("non-200 response is an upstream error", func(t *testing.T) {
		provider := newTestProvider(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return respond(401, `{"cod": 401, "message": "Invalid API key"}`), nil
		})
		_, err := provider.GetWeather(t.Context(), juba)
		if !errors.Is(err, errs.ErrUpstreamUnavailable) {
			t.Errorf("expected upstream error, got %v", err)
		}
	})
	t.Run("forecast failure fails the lookup", func(t *testing.T) {
		provider := newTestProvider(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			if strings.HasSuffix(req.URL.Path, forecastPath) {
				return nil, errors.New("intentionally failing")
			}
			return respond(200, currentJSON), nil
		})
		if _, err := provider.GetWeather(t.Context(), juba); err == nil {
			t.Fatal("expected weather lookup to fail")
		}
	})
}
