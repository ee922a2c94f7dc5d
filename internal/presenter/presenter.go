// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders place reports and regional tables as text.
package presenter

import (
	"errors"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"

	"github.com/wneessen/agriwatch/internal/config"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/i18n"
	"github.com/wneessen/agriwatch/internal/regional"
	"github.com/wneessen/agriwatch/internal/risk"
	"github.com/wneessen/agriwatch/internal/weather"
)

// ReportContext is the data available to the place report template.
type ReportContext struct {
	Region     string
	Place      string
	Coordinate gazetteer.Coordinate
	UpdateTime time.Time
	Source     weather.Source

	Current  weather.Current
	Forecast []weather.ForecastDay
	Stats    weather.QuickStats
	Anomaly  risk.Anomaly

	Sunrise       time.Time
	Sunset        time.Time
	MoonPhase     string
	MoonPhaseIcon string
}

// RegionalContext is the data available to the regional table template.
type RegionalContext struct {
	UpdateTime time.Time
	Rows       []regional.Row
	Summary    regional.Summary
}

type Presenter struct {
	reportTpl   *template.Template
	regionalTpl *template.Template
	localizer   *spreak.Localizer
	humanizer   *humanize.Humanizer
}

// New parses the configured templates and renders each once against sample data so that
// broken templates fail at startup.
func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	if conf == nil || loc == nil {
		return nil, errors.New("config and localizer are required")
	}
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	pres := &Presenter{
		localizer: loc,
		humanizer: collection.CreateHumanizer(i18n.Tag(conf.Locale)),
	}

	pres.reportTpl, err = template.New("report").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	pres.regionalTpl, err = template.New("regional").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Regional)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regional template: %w", err)
	}

	if err = pres.RenderReport(io.Discard, sampleReport()); err != nil {
		return nil, err
	}
	if err = pres.RenderRegional(io.Discard, sampleRegional()); err != nil {
		return nil, err
	}
	return pres, nil
}

// BuildReportContext assembles the report template data for a place.
func (p *Presenter) BuildReportContext(place gazetteer.Place, report *weather.Report, anomaly risk.Anomaly,
	sunrise, sunset time.Time, moonPhase string,
) ReportContext {
	return ReportContext{
		Region:        place.Region,
		Place:         place.Name,
		Coordinate:    place.Coordinate,
		UpdateTime:    report.GeneratedAt,
		Source:        report.Source,
		Current:       report.Current,
		Forecast:      report.Forecast,
		Stats:         report.QuickStats(),
		Anomaly:       anomaly,
		Sunrise:       sunrise,
		Sunset:        sunset,
		MoonPhase:     moonPhase,
		MoonPhaseIcon: MoonPhaseIcon[moonPhase],
	}
}

// RenderReport writes the place report.
func (p *Presenter) RenderReport(w io.Writer, ctx ReportContext) error {
	if err := p.reportTpl.Execute(w, ctx); err != nil {
		return fmt.Errorf("failed to render report template: %w", err)
	}
	return nil
}

// RenderRegional writes the regional table.
func (p *Presenter) RenderRegional(w io.Writer, ctx RegionalContext) error {
	if err := p.regionalTpl.Execute(w, ctx); err != nil {
		return fmt.Errorf("failed to render regional template: %w", err)
	}
	return nil
}

func sampleReport() ReportContext {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return ReportContext{
		Region:     "Central Equatoria",
		Place:      "Juba",
		Coordinate: gazetteer.Coordinate{Lat: 4.8594, Lon: 31.5713},
		UpdateTime: now,
		Source:     weather.SourceLive,
		Current:    weather.Current{TemperatureC: 30, HumidityPct: 55, WindKPH: 8, Description: "Clear sky"},
		Forecast: []weather.ForecastDay{
			{Date: now, MinTempC: 22, MaxTempC: 33, HumidityPct: 50, RainfallProbPct: 20},
		},
		Anomaly:   risk.Anomaly{Category: risk.Normal, Label: risk.Normal.Label(), Color: risk.Green},
		Sunrise:   now.Add(-6 * time.Hour),
		Sunset:    now.Add(6 * time.Hour),
		MoonPhase: "Full Moon",
	}
}

func sampleRegional() RegionalContext {
	rows := []regional.Row{{
		Region: "Central Equatoria", Place: "Juba", TemperatureC: 30, HumidityPct: 55,
		Anomaly:    risk.Anomaly{Category: risk.Normal, Label: risk.Normal.Label(), Color: risk.Green},
		DataSource: weather.SourceLive,
	}}
	return RegionalContext{
		UpdateTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Rows:       rows,
		Summary:    regional.Summarize(rows),
	}
}
