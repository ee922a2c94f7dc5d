// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package mock implements the weather provider that is used whenever no live weather data
// is available. Values are drawn from normal distributions around plausible values for the
// Sudd region and differ between calls.
package mock

import (
	"context"
	"math"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/random"
	"github.com/wneessen/agriwatch/internal/weather"
)

const name = "mock"

const (
	baseTempC       = 28.0
	baseTempStddev  = 5.0
	baseHumidity    = 65.0
	humidityStddev  = 15.0
	baseWindKPH     = 8.0
	windStddev      = 3.0
	dayTempStddev   = 3.0
	dayHumStddev    = 10.0
	baseRainProb    = 30.0
	rainProbStddev  = 25.0
	minTempC        = 15.0
	maxTempC        = 45.0
	dailyTempSpread = 5.0
)

var descriptions = []string{"Clear sky", "Partly cloudy", "Overcast", "Light rain"}

// Provider generates randomized weather reports.
type Provider struct {
	rand  random.Source
	clock clockwork.Clock
}

// New returns a mock Provider. A nil source is randomly seeded and a nil clock uses the
// real time.
func New(src random.Source, clock clockwork.Clock) *Provider {
	if src == nil {
		src = random.New()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Provider{rand: src, clock: clock}
}

func (p *Provider) Name() string {
	return name
}

// GetWeather returns a report with current conditions and a 5-day forecast starting today.
func (p *Provider) GetWeather(ctx context.Context, coords gazetteer.Coordinate) (*weather.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.clock.Now()
	baseTemp := random.Normal(p.rand, baseTempC, baseTempStddev)
	humidity := random.Normal(p.rand, baseHumidity, humidityStddev)
	wind := random.Normal(p.rand, baseWindKPH, windStddev)

	report := weather.NewReport()
	report.Provider = name
	report.Source = weather.SourceMock
	report.GeneratedAt = now
	report.Coordinates = coords

	today := weather.NewDay(now)
	for i := 0; i < weather.ForecastDays; i++ {
		variation := random.Normal(p.rand, 0, dayTempStddev)
		report.Forecast = append(report.Forecast, weather.ForecastDay{
			Date:            today.AddDate(0, 0, i),
			MinTempC:        round1(clamp(baseTemp+variation-dailyTempSpread, minTempC, maxTempC)),
			MaxTempC:        round1(clamp(baseTemp+variation+dailyTempSpread, minTempC, maxTempC)),
			HumidityPct:     round1(clamp(humidity+random.Normal(p.rand, 0, dayHumStddev), 0, 100)),
			RainfallProbPct: round1(clamp(random.Normal(p.rand, baseRainProb, rainProbStddev), 0, 100)),
		})
	}

	report.Current = weather.Current{
		TemperatureC: round1(clamp(baseTemp, minTempC, maxTempC)),
		HumidityPct:  round1(clamp(humidity, 0, 100)),
		WindKPH:      round1(math.Max(0, wind)),
		Description:  descriptions[p.rand.IntN(len(descriptions))],
	}
	return report, nil
}

func clamp(val, lower, upper float64) float64 {
	return math.Min(upper, math.Max(lower, val))
}

func round1(val float64) float64 {
	return math.Round(val*10) / 10
}
