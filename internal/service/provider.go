// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/wneessen/agriwatch/internal/config"
	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/http"
	"github.com/wneessen/agriwatch/internal/satellite"
	"github.com/wneessen/agriwatch/internal/synthetic"
	"github.com/wneessen/agriwatch/internal/weather"
	openmeteo "github.com/wneessen/agriwatch/internal/weather/provider/open-meteo"
	"github.com/wneessen/agriwatch/internal/weather/provider/openweathermap"
)

// selectWeatherProvider builds the configured live provider, decorated with the TTL cache
// and the mock fallback. The mock provider is returned as is.
func (s *Service) selectWeatherProvider() (weather.Provider, error) {
	var live weather.Provider
	switch strings.ToLower(s.config.Weather.Provider) {
	case config.ProviderOpenMeteo:
		provider, err := openmeteo.New(s.logger, s.clock)
		if err != nil {
			return nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
		live = provider
	case config.ProviderOpenWeatherMap:
		provider, err := openweathermap.New(http.New(s.logger), s.logger, s.config.Weather.APIKey,
			s.config.Weather.FetchTimeout, s.clock)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenWeatherMap weather provider: %w", err)
		}
		live = provider
	case config.ProviderMock:
		return s.mock, nil
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s: %w", s.config.Weather.Provider,
			errs.ErrConfiguration)
	}

	if s.config.Weather.CacheTTL > 0 {
		live = weather.NewCachedProvider(live, s.config.Weather.CacheTTL, s.clock, s.metrics)
	}
	provider, err := weather.NewFallback(live, s.mock, s.logger, s.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather fallback: %w", err)
	}
	return provider, nil
}

func (s *Service) selectSatelliteSource() (satellite.Source, error) {
	switch strings.ToLower(s.config.Satellite.Provider) {
	case config.SatelliteSynthetic:
		source, err := satellite.NewSynthetic(s.generator, s.config.Satellite.Extent, s.config.Satellite.GridSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create synthetic satellite source: %w", err)
		}
		if s.satellite == nil {
			return source, nil
		}
		fallback, err := satellite.NewFallback(s.satellite, source, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create satellite fallback source: %w", err)
		}
		return fallback, nil
	default:
		return nil, fmt.Errorf("unsupported satellite provider: %s: %w", s.config.Satellite.Provider,
			errs.ErrConfiguration)
	}
}

func (s *Service) loadGazetteer() (*gazetteer.Gazetteer, error) {
	if s.config.Gazetteer.File == "" {
		return gazetteer.Default(), nil
	}
	return gazetteer.Load(s.config.Gazetteer.File)
}

// regionalBounds spans the configured map center with the extent of the default bounds.
func (s *Service) regionalBounds() synthetic.Bounds {
	def := synthetic.DefaultBounds()
	halfLon := (def.MaxLon - def.MinLon) / 2
	halfLat := (def.MaxLat - def.MinLat) / 2
	return synthetic.Bounds{
		MinLon: s.config.Display.CenterLon - halfLon,
		MaxLon: s.config.Display.CenterLon + halfLon,
		MinLat: s.config.Display.CenterLat - halfLat,
		MaxLat: s.config.Display.CenterLat + halfLat,
	}
}
