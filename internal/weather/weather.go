// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"sort"
	"time"

	"github.com/wneessen/agriwatch/internal/gazetteer"
)

// ForecastDays is the number of daily forecast entries a report carries at most.
const ForecastDays = 5

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetWeather(ctx context.Context, coords gazetteer.Coordinate) (*Report, error)
}

// Source tells whether a report came from a live provider or from the mock fallback.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// Report is the result of one weather lookup.
type Report struct {
	Provider    string               `json:"provider"`
	Source      Source               `json:"source"`
	GeneratedAt time.Time            `json:"generated_at"`
	Coordinates gazetteer.Coordinate `json:"coordinates"`

	Current  Current       `json:"current"`
	Forecast []ForecastDay `json:"forecast"`
}

// Current holds the current conditions at a location.
type Current struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	WindKPH      float64 `json:"wind_kph"`
	Description  string  `json:"description"`
}

// ForecastDay holds the forecast for one calendar date.
type ForecastDay struct {
	Date            time.Time `json:"date"`
	MinTempC        float64   `json:"min_temp_c"`
	MaxTempC        float64   `json:"max_temp_c"`
	HumidityPct     float64   `json:"humidity_pct"`
	RainfallProbPct float64   `json:"rainfall_prob_pct"`
}

// QuickStats are the 5-day means shown next to a place's forecast.
type QuickStats struct {
	AvgTemperatureC    float64 `json:"avg_temperature_c"`
	AvgHumidityPct     float64 `json:"avg_humidity_pct"`
	AvgRainfallProbPct float64 `json:"avg_rainfall_prob_pct"`
}

// NewReport returns an empty report with room for a full forecast.
func NewReport() *Report {
	return &Report{
		Forecast: make([]ForecastDay, 0, ForecastDays),
	}
}

// NewDay truncates t to midnight of its calendar date in t's location.
func NewDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// CondenseDaily orders entries chronologically and keeps the first entry of each calendar
// date, returning at most limit entries.
func CondenseDaily(entries []ForecastDay, limit int) []ForecastDay {
	sorted := make([]ForecastDay, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	days := make([]ForecastDay, 0, limit)
	seen := make(map[time.Time]struct{}, limit)
	for _, entry := range sorted {
		if len(days) >= limit {
			break
		}
		day := NewDay(entry.Date)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		entry.Date = day
		days = append(days, entry)
	}
	return days
}

// QuickStats computes the forecast means. A report without forecast yields zero values.
func (r *Report) QuickStats() QuickStats {
	var stats QuickStats
	if len(r.Forecast) == 0 {
		return stats
	}
	for _, day := range r.Forecast {
		stats.AvgTemperatureC += (day.MaxTempC + day.MinTempC) / 2
		stats.AvgHumidityPct += day.HumidityPct
		stats.AvgRainfallProbPct += day.RainfallProbPct
	}
	n := float64(len(r.Forecast))
	stats.AvgTemperatureC /= n
	stats.AvgHumidityPct /= n
	stats.AvgRainfallProbPct /= n
	return stats
}
