// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hectormalot/omgo"
	"github.com/jonboulle/clockwork"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/weather"
)

const name = "open-meteo"

const (
	metricHumidity    = "relative_humidity_2m"
	metricMaxTemp     = "temperature_2m_max"
	metricMinTemp     = "temperature_2m_min"
	metricMeanHumid   = "relative_humidity_2m_mean"
	metricRainProbMax = "precipitation_probability_max"
)

// forecaster is the part of the omgo client the provider depends on.
type forecaster interface {
	Forecast(ctx context.Context, loc omgo.Location, opts *omgo.Options) (*omgo.Forecast, error)
}

type OpenMeteo struct {
	client forecaster
	clock  clockwork.Clock
	log    *logger.Logger
}

// New returns an Open-Meteo provider backed by the omgo client.
func New(log *logger.Logger, clock clockwork.Clock) (*OpenMeteo, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	return newWithClient(client, log, clock), nil
}

func newWithClient(client forecaster, log *logger.Logger, clock clockwork.Clock) *OpenMeteo {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OpenMeteo{client: client, clock: clock, log: log}
}

func (o *OpenMeteo) Name() string {
	return name
}

func (o *OpenMeteo) GetWeather(ctx context.Context, coords gazetteer.Coordinate) (*weather.Report, error) {
	location, err := omgo.NewLocation(coords.Lat, coords.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed create Open-Meteo location from coordinates: %w", err)
	}

	opts := &omgo.Options{
		TemperatureUnit:   "celsius",
		WindspeedUnit:     "kmh",
		PrecipitationUnit: "mm",
		Timezone:          "auto",
		HourlyMetrics:     []string{metricHumidity},
		DailyMetrics:      []string{metricMaxTemp, metricMinTemp, metricMeanHumid, metricRainProbMax},
	}
	forecast, err := o.client.Forecast(ctx, location, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
	}
	if forecast == nil {
		return nil, errors.New("Open-Meteo API returned an empty forecast")
	}

	report := weather.NewReport()
	report.Provider = name
	report.Source = weather.SourceLive
	report.GeneratedAt = o.clock.Now()
	report.Coordinates = coords
	report.Current = weather.Current{
		TemperatureC: forecast.CurrentWeather.Temperature,
		HumidityPct:  currentHumidity(forecast),
		WindKPH:      forecast.CurrentWeather.WindSpeed,
		Description:  Description(int(forecast.CurrentWeather.WeatherCode)),
	}

	days := make([]weather.ForecastDay, 0, len(forecast.DailyTimes))
	for i, day := range forecast.DailyTimes {
		days = append(days, weather.ForecastDay{
			Date:            day,
			MaxTempC:        metricAt(forecast.DailyMetrics, metricMaxTemp, i),
			MinTempC:        metricAt(forecast.DailyMetrics, metricMinTemp, i),
			HumidityPct:     metricAt(forecast.DailyMetrics, metricMeanHumid, i),
			RainfallProbPct: metricAt(forecast.DailyMetrics, metricRainProbMax, i),
		})
	}
	report.Forecast = weather.CondenseDaily(days, weather.ForecastDays)
	o.log.Debug("weather data retrieved", "provider", name, "coordinates", coords.String(),
		"days", len(report.Forecast))

	return report, nil
}

// currentHumidity picks the hourly relative humidity matching the hour of the current
// observation, or the first hourly value if no hour matches.
func currentHumidity(forecast *omgo.Forecast) float64 {
	values := forecast.HourlyMetrics[metricHumidity]
	if len(values) == 0 {
		return 0
	}
	hour := forecast.CurrentWeather.Time.Truncate(time.Hour)
	for i, t := range forecast.HourlyTimes {
		if i < len(values) && t.Equal(hour) {
			return values[i]
		}
	}
	return values[0]
}

func metricAt(metrics map[string][]float64, key string, idx int) float64 {
	values, ok := metrics[key]
	if !ok || idx >= len(values) {
		return 0
	}
	return values[idx]
}
