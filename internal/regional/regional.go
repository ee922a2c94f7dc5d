// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package regional builds the per-place overview table of all places in a gazetteer.
package regional

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/observability"
	"github.com/wneessen/agriwatch/internal/risk"
	"github.com/wneessen/agriwatch/internal/weather"
)

const (
	// DefaultWorkers is the default number of concurrent weather lookups.
	DefaultWorkers = 8
	// DefaultFetchTimeout bounds a single weather lookup.
	DefaultFetchTimeout = 10 * time.Second
)

// Row is the overview of one place.
type Row struct {
	Region       string               `json:"region"`
	Place        string               `json:"place"`
	TemperatureC float64              `json:"temperature_c"`
	HumidityPct  float64              `json:"humidity_pct"`
	WindKPH      float64              `json:"wind_kph"`
	Description  string               `json:"description"`
	Anomaly      risk.Anomaly         `json:"anomaly"`
	Coordinate   gazetteer.Coordinate `json:"coordinate"`
	DataSource   weather.Source       `json:"data_source"`
}

// Aggregator looks up and classifies the weather of every place of a gazetteer.
type Aggregator struct {
	provider   weather.Provider
	fallback   weather.Provider
	classifier *risk.Classifier
	workers    int
	timeout    time.Duration
	clock      clockwork.Clock
	log        *logger.Logger
	metrics    *observability.Metrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFetchTimeout bounds every single weather lookup. Non-positive values keep the default.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithClock sets the clock used to measure build durations.
func WithClock(clock clockwork.Clock) Option {
	return func(a *Aggregator) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// NewAggregator returns an Aggregator that queries provider and resorts to fallback for
// places whose lookup or classification fails. metrics may be nil.
func NewAggregator(provider, fallback weather.Provider, classifier *risk.Classifier, workers int,
	log *logger.Logger, metrics *observability.Metrics, opts ...Option,
) (*Aggregator, error) {
	if provider == nil || fallback == nil {
		return nil, errors.New("weather provider and fallback provider are required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if workers < 1 {
		workers = DefaultWorkers
	}
	agg := &Aggregator{
		provider:   provider,
		fallback:   fallback,
		classifier: classifier,
		workers:    workers,
		timeout:    DefaultFetchTimeout,
		clock:      clockwork.NewRealClock(),
		log:        log,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(agg)
	}
	return agg, nil
}

// Build returns one row per place in gazetteer order. Places whose weather cannot be
// retrieved get fallback data. Only a done context fails the build.
func (a *Aggregator) Build(ctx context.Context, gaz *gazetteer.Gazetteer) ([]Row, error) {
	start := a.clock.Now()
	places := gaz.Places()
	rows := make([]Row, len(places))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.workers)
	for i, place := range places {
		group.Go(func() error {
			row, err := a.row(groupCtx, place)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build regional overview: %w", err)
	}

	if a.metrics != nil {
		a.metrics.RegionalBuildDuration.Observe(a.clock.Since(start).Seconds())
		a.metrics.RegionalRows.Set(float64(len(rows)))
	}
	a.log.Debug("regional overview built", slog.Int("rows", len(rows)),
		slog.Duration("duration", a.clock.Since(start).Round(time.Millisecond)))
	return rows, nil
}

func (a *Aggregator) row(ctx context.Context, place gazetteer.Place) (Row, error) {
	report, anomaly, err := a.Report(ctx, place)
	if err != nil {
		return Row{}, err
	}
	return newRow(place, report, anomaly), nil
}

// Report looks up and classifies the weather of a single place. When the lookup fails or
// its data cannot be classified, the fallback provider answers instead and the report is
// marked with SourceMock. Only a done context or a failing fallback return an error.
func (a *Aggregator) Report(ctx context.Context, place gazetteer.Place) (*weather.Report, risk.Anomaly, error) {
	report, err := a.lookup(ctx, place.Coordinate)
	if err == nil {
		var anomaly risk.Anomaly
		if anomaly, err = a.classifier.Classify(report.Current, report.Forecast); err == nil {
			return report, anomaly, nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, risk.Anomaly{}, ctxErr
	}
	a.log.Warn("no usable weather data for place, using fallback data", logger.Err(err),
		slog.String("region", place.Region), slog.String("place", place.Name))

	report, err = a.fallback.GetWeather(ctx, place.Coordinate)
	if err != nil {
		return nil, risk.Anomaly{}, fmt.Errorf("fallback weather lookup for %s failed: %w", place.Name, err)
	}
	report.Source = weather.SourceMock
	anomaly, err := a.classifier.Classify(report.Current, report.Forecast)
	if err != nil {
		return nil, risk.Anomaly{}, fmt.Errorf("failed to classify fallback weather for %s: %w", place.Name, err)
	}
	return report, anomaly, nil
}

// lookup queries the provider with a per-lookup deadline. A provider that ignores its
// context is abandoned once the deadline passes.
func (a *Aggregator) lookup(ctx context.Context, coords gazetteer.Coordinate) (*weather.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type result struct {
		report *weather.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := a.provider.GetWeather(ctx, coords)
		done <- result{report: report, err: err}
	}()
	select {
	case res := <-done:
		return res.report, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("weather lookup for %s timed out: %w", coords, ctx.Err())
	}
}

func newRow(place gazetteer.Place, report *weather.Report, anomaly risk.Anomaly) Row {
	return Row{
		Region:       place.Region,
		Place:        place.Name,
		TemperatureC: report.Current.TemperatureC,
		HumidityPct:  report.Current.HumidityPct,
		WindKPH:      report.Current.WindKPH,
		Description:  report.Current.Description,
		Anomaly:      anomaly,
		Coordinate:   place.Coordinate,
		DataSource:   report.Source,
	}
}
