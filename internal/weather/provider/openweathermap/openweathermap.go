// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/http"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/weather"
)

const (
	name            = "openweathermap"
	apiEndpoint     = "https://api.openweathermap.org/data/2.5"
	currentPath     = "/weather"
	forecastPath    = "/forecast"
	mpsToKPH        = 3.6
	forecastEntries = 40
)

type OpenWeatherMap struct {
	apikey  string
	baseURL string
	timeout time.Duration
	clock   clockwork.Clock
	http    *http.Client
	log     *logger.Logger
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

// New returns an OpenWeatherMap provider. An API key is required.
func New(client *http.Client, log *logger.Logger, apikey string, timeout time.Duration, clock clockwork.Clock) (*OpenWeatherMap, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if apikey == "" {
		return nil, fmt.Errorf("OpenWeatherMap API key is required: %w", errs.ErrConfiguration)
	}
	if timeout <= 0 {
		timeout = http.DefaultTimeout
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OpenWeatherMap{
		apikey:  apikey,
		baseURL: apiEndpoint,
		timeout: timeout,
		clock:   clock,
		http:    client,
		log:     log,
	}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

func (o *OpenWeatherMap) GetWeather(ctx context.Context, coords gazetteer.Coordinate) (*weather.Report, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("appid", o.apikey)
	query.Set("units", "metric")

	current := new(currentResponse)
	if err := o.get(ctx, currentPath, current, query); err != nil {
		return nil, err
	}
	forecast := new(forecastResponse)
	if err := o.get(ctx, forecastPath, forecast, query); err != nil {
		return nil, err
	}

	report := weather.NewReport()
	report.Provider = name
	report.Source = weather.SourceLive
	report.GeneratedAt = o.clock.Now()
	report.Coordinates = coords
	report.Current = weather.Current{
		TemperatureC: round1(current.Main.Temp),
		HumidityPct:  current.Main.Humidity,
		WindKPH:      round1(current.Wind.Speed * mpsToKPH),
	}
	if len(current.Weather) > 0 {
		report.Current.Description = cases.Title(language.English).String(current.Weather[0].Description)
	}

	zone := time.FixedZone("", forecast.City.Timezone)
	entries := make([]weather.ForecastDay, 0, len(forecast.List))
	for i, item := range forecast.List {
		if i >= forecastEntries {
			break
		}
		entries = append(entries, weather.ForecastDay{
			Date:            time.Unix(item.Dt, 0).In(zone),
			MinTempC:        round1(item.Main.TempMin),
			MaxTempC:        round1(item.Main.TempMax),
			HumidityPct:     item.Main.Humidity,
			RainfallProbPct: item.Pop * 100,
		})
	}
	report.Forecast = weather.CondenseDaily(entries, weather.ForecastDays)

	return report, nil
}

func (o *OpenWeatherMap) get(ctx context.Context, path string, target any, query url.Values) error {
	ctxFetch, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := o.http.GetJSON(ctxFetch, o.baseURL+path, query, target); err != nil {
		return fmt.Errorf("failed to retrieve %s from OpenWeatherMap API: %w", path, err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
