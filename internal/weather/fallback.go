// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/observability"
)

// Fallback answers lookups from the primary provider and falls back to the secondary
// provider, usually the mock generator, whenever the primary fails. Reports produced by
// the secondary are marked with SourceMock.
type Fallback struct {
	primary   Provider
	secondary Provider
	log       *logger.Logger
	metrics   *observability.Metrics
}

// NewFallback returns a Fallback provider. metrics may be nil.
func NewFallback(primary, secondary Provider, log *logger.Logger, metrics *observability.Metrics) (*Fallback, error) {
	if primary == nil || secondary == nil {
		return nil, errors.New("primary and secondary weather providers are required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	return &Fallback{primary: primary, secondary: secondary, log: log, metrics: metrics}, nil
}

func (f *Fallback) Name() string {
	return fmt.Sprintf("%s with %s fallback", f.primary.Name(), f.secondary.Name())
}

// GetWeather only returns an error when the context is done or the secondary provider
// fails as well.
func (f *Fallback) GetWeather(ctx context.Context, coords gazetteer.Coordinate) (*Report, error) {
	report, err := f.primary.GetWeather(ctx, coords)
	if err == nil {
		f.count(f.primary.Name(), "success")
		return report, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	f.count(f.primary.Name(), "error")
	f.log.Warn("weather provider unavailable, using fallback data", logger.Err(err),
		slog.String("provider", f.primary.Name()), slog.String("coordinates", coords.String()))

	report, err = f.secondary.GetWeather(ctx, coords)
	if err != nil {
		return nil, fmt.Errorf("fallback weather provider %s failed: %w", f.secondary.Name(), err)
	}
	report.Source = SourceMock
	if f.metrics != nil {
		f.metrics.WeatherFallbacks.Inc()
	}
	return report, nil
}

func (f *Fallback) count(provider, outcome string) {
	if f.metrics == nil {
		return
	}
	f.metrics.WeatherRequests.WithLabelValues(provider, outcome).Inc()
}
