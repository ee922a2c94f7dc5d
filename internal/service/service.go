// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the gazetteer, weather providers, classifier and synthetic
// generator from the configuration and owns the scheduled regional snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/agriwatch/internal/config"
	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/observability"
	"github.com/wneessen/agriwatch/internal/presenter"
	"github.com/wneessen/agriwatch/internal/random"
	"github.com/wneessen/agriwatch/internal/regional"
	"github.com/wneessen/agriwatch/internal/risk"
	"github.com/wneessen/agriwatch/internal/satellite"
	"github.com/wneessen/agriwatch/internal/synthetic"
	"github.com/wneessen/agriwatch/internal/weather"
	"github.com/wneessen/agriwatch/internal/weather/provider/mock"
)

const snapshotJobName = "regional_snapshot_job"

// Publisher receives every freshly built regional snapshot.
type Publisher interface {
	Publish(ctx context.Context, snapshot *regional.Snapshot) error
	Close() error
}

// PlaceReport is the complete weather and risk picture of one place.
type PlaceReport struct {
	Place     gazetteer.Place    `json:"place"`
	Report    *weather.Report    `json:"report"`
	Anomaly   risk.Anomaly       `json:"anomaly"`
	Stats     weather.QuickStats `json:"stats"`
	Sunrise   time.Time          `json:"sunrise"`
	Sunset    time.Time          `json:"sunset"`
	MoonPhase string             `json:"moon_phase"`
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	clock     clockwork.Clock
	rand      random.Source
	metrics   *observability.Metrics
	publisher Publisher
	scheduler gocron.Scheduler

	gazetteer  *gazetteer.Gazetteer
	mock       *mock.Provider
	weather    weather.Provider
	classifier *risk.Classifier
	generator  *synthetic.Generator
	satellite  satellite.Source
	aggregator *regional.Aggregator
	presenter  *presenter.Presenter

	snapshotLock sync.RWMutex
	snapshot     *regional.Snapshot
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the real clock.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithRandom replaces the randomly seeded random source.
func WithRandom(src random.Source) Option {
	return func(s *Service) { s.rand = src }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

// WithPublisher publishes every refreshed regional snapshot.
func WithPublisher(publisher Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithGazetteer replaces the gazetteer configured in gazetteer.file.
func WithGazetteer(gaz *gazetteer.Gazetteer) Option {
	return func(s *Service) { s.gazetteer = gaz }
}

// WithWeatherProvider replaces the weather provider configured in weather.provider.
func WithWeatherProvider(provider weather.Provider) Option {
	return func(s *Service) { s.weather = provider }
}

// WithSatelliteSource serves fields and series from source, backed by the synthetic
// generator whenever source fails.
func WithSatelliteSource(source satellite.Source) Option {
	return func(s *Service) { s.satellite = source }
}

func New(conf *config.Config, log *logger.Logger, lang *spreak.Localizer, opts ...Option) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if lang == nil {
		return nil, errors.New("localizer is required")
	}

	service := &Service{
		config: conf,
		logger: log,
		clock:  clockwork.NewRealClock(),
		rand:   random.New(),
	}
	for _, opt := range opts {
		opt(service)
	}

	var err error
	if service.gazetteer == nil {
		if service.gazetteer, err = service.loadGazetteer(); err != nil {
			return nil, err
		}
	}
	if _, err = service.gazetteer.Place(conf.Defaults.Region, conf.Defaults.Place); err != nil {
		return nil, fmt.Errorf("default place %s/%s is not in the gazetteer: %w", conf.Defaults.Region,
			conf.Defaults.Place, errs.ErrConfiguration)
	}

	service.mock = mock.New(service.rand, service.clock)
	if service.weather == nil {
		if service.weather, err = service.selectWeatherProvider(); err != nil {
			return nil, err
		}
	}
	thresholds := risk.Thresholds{
		DroughtTempC:       conf.Thresholds.DroughtTemp,
		DroughtHumidityPct: conf.Thresholds.DroughtHumidity,
		FloodHumidityPct:   conf.Thresholds.FloodHumidity,
		FloodRainProbPct:   conf.Thresholds.FloodRain,
		NormalTempMinC:     conf.Thresholds.NormalTempMin,
		NormalTempMaxC:     conf.Thresholds.NormalTempMax,
	}
	if service.classifier, err = risk.New(thresholds, service.rand, lang, service.metrics); err != nil {
		return nil, err
	}
	service.generator = synthetic.New(service.rand, service.clock)
	if service.satellite, err = service.selectSatelliteSource(); err != nil {
		return nil, err
	}
	service.aggregator, err = regional.NewAggregator(service.weather, service.mock, service.classifier,
		conf.Weather.Workers, log, service.metrics, regional.WithFetchTimeout(conf.Weather.FetchTimeout),
		regional.WithClock(service.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create regional aggregator: %w", err)
	}
	if service.presenter, err = presenter.New(conf, lang); err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}
	if service.scheduler, err = gocron.NewScheduler(gocron.WithClock(service.clock)); err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return service, nil
}

// Run starts the scheduled snapshot refresh and blocks until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if interval := s.config.Intervals.SnapshotRefresh; interval > 0 {
		_, err := s.scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(s.refreshSnapshot),
			gocron.WithContext(ctx),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithName(snapshotJobName),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", snapshotJobName, err)
		}
	}
	s.scheduler.Start()

	<-ctx.Done()
	err := s.scheduler.Shutdown()
	if s.publisher != nil {
		if closeErr := s.publisher.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close snapshot publisher: %w", closeErr))
		}
	}
	return err
}

// Gazetteer returns the gazetteer in use.
func (s *Service) Gazetteer() *gazetteer.Gazetteer {
	return s.gazetteer
}

// DefaultPlace returns the configured default place.
func (s *Service) DefaultPlace() gazetteer.Place {
	place, _ := s.gazetteer.Place(s.config.Defaults.Region, s.config.Defaults.Place)
	return place
}

// Nearest returns the gazetteer place closest to lat/lon and its distance in meters.
func (s *Service) Nearest(lat, lon float64) (gazetteer.Place, float64, error) {
	coord, err := gazetteer.NewCoordinate(lat, lon)
	if err != nil {
		return gazetteer.Place{}, 0, err
	}
	return s.gazetteer.Nearest(coord)
}

// PlaceReport looks up and classifies the weather of a place. Unusable live data is
// replaced with mock data the same way the regional table does.
func (s *Service) PlaceReport(ctx context.Context, region, place string) (*PlaceReport, error) {
	p, err := s.gazetteer.Place(region, place)
	if err != nil {
		return nil, err
	}

	report, anomaly, err := s.aggregator.Report(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to look up weather for %s: %w", p.Name, err)
	}

	now := s.clock.Now()
	rise, set := sunrise.SunriseSunset(p.Coordinate.Lat, p.Coordinate.Lon, now.Year(), now.Month(), now.Day())
	return &PlaceReport{
		Place:     p,
		Report:    report,
		Anomaly:   anomaly,
		Stats:     report.QuickStats(),
		Sunrise:   rise,
		Sunset:    set,
		MoonPhase: moonphase.New(now).PhaseName(),
	}, nil
}

// Regional returns the latest regional snapshot. Without a scheduled refresh every call
// builds a fresh snapshot.
func (s *Service) Regional(ctx context.Context) (*regional.Snapshot, error) {
	if s.config.Intervals.SnapshotRefresh > 0 {
		s.snapshotLock.RLock()
		snapshot := s.snapshot
		s.snapshotLock.RUnlock()
		if snapshot != nil {
			return snapshot, nil
		}
	}
	return s.RefreshSnapshot(ctx)
}

// RefreshSnapshot builds a new regional snapshot, stores it and hands it to the publisher.
// A failing publisher is logged but does not fail the refresh.
func (s *Service) RefreshSnapshot(ctx context.Context) (*regional.Snapshot, error) {
	rows, err := s.aggregator.Build(ctx, s.gazetteer)
	if err != nil {
		return nil, err
	}
	snapshot := regional.NewSnapshot(s.clock.Now(), rows)

	s.snapshotLock.Lock()
	s.snapshot = snapshot
	s.snapshotLock.Unlock()

	if s.publisher != nil {
		if err = s.publisher.Publish(ctx, snapshot); err != nil {
			s.logger.Error("failed to publish regional snapshot", logger.Err(err))
		}
	}
	return snapshot, nil
}

func (s *Service) refreshSnapshot(ctx context.Context) {
	snapshot, err := s.RefreshSnapshot(ctx)
	if err != nil {
		s.logger.Error("failed to refresh regional snapshot", logger.Err(err))
		return
	}
	s.logger.Debug("regional snapshot refreshed", slog.Int("places", snapshot.Summary.TotalPlaces),
		slog.Int("high_risk", snapshot.Summary.HighRiskPlaces))
}

// Field returns the satellite field of kind centered on a place.
func (s *Service) Field(ctx context.Context, kind synthetic.Kind, region, place string) (*synthetic.Field, error) {
	p, err := s.gazetteer.Place(region, place)
	if err != nil {
		return nil, err
	}
	return s.satellite.Field(ctx, kind, p)
}

// RegionalField returns the region-wide field of kind around the configured map center.
func (s *Service) RegionalField(kind synthetic.Kind) (*synthetic.Field, error) {
	return s.generator.RegionalField(kind, s.regionalBounds(), s.config.Satellite.RegionalGridSize)
}

// TimeSeries returns the satellite time series of kind for a place. Zero days uses the
// configured series length.
func (s *Service) TimeSeries(ctx context.Context, kind synthetic.Kind, region, place string, days int,
) (*synthetic.Series, error) {
	p, err := s.gazetteer.Place(region, place)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = s.config.Satellite.SeriesDays
	}
	return s.satellite.TimeSeries(ctx, kind, p, days)
}

// WriteReport renders a place report with the configured report template.
func (s *Service) WriteReport(w io.Writer, report *PlaceReport) error {
	return s.presenter.RenderReport(w, s.presenter.BuildReportContext(report.Place, report.Report,
		report.Anomaly, report.Sunrise, report.Sunset, report.MoonPhase))
}

// WriteRegional renders the regional table with the configured regional template.
func (s *Service) WriteRegional(w io.Writer, snapshot *regional.Snapshot) error {
	return s.presenter.RenderRegional(w, presenter.RegionalContext{
		UpdateTime: snapshot.GeneratedAt,
		Rows:       snapshot.Rows,
		Summary:    snapshot.Summary,
	})
}
