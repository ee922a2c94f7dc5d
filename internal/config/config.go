// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/synthetic"
)

const (
	configEnv = "AGRIWATCH"

	ProviderOpenMeteo      = "open-meteo"
	ProviderOpenWeatherMap = "openweathermap"
	ProviderMock           = "mock"
	SatelliteSynthetic     = "synthetic"

	DefaultReportTpl = `{{loc "weatherdatafor"}} {{.Place}}, {{.Region}} ({{.Coordinate}})
{{loc "updated"}}: {{localizedTime .UpdateTime}} ({{ago .UpdateTime}}) [{{.Source}}]
{{loc "temp"}}: {{floatFormat .Current.TemperatureC 1}}°C  {{loc "humidity"}}: {{floatFormat .Current.HumidityPct 0}}%  {{loc "wind"}}: {{floatFormat .Current.WindKPH 1}} km/h
{{loc "condition"}}: {{.Current.Description}}
{{loc "risk"}}: {{riskIcon .Anomaly.Color}} {{.Anomaly.Label}} ({{percent .Anomaly.Confidence}})
{{.Anomaly.Advisory}}
{{loc "sunrise"}}: {{timeFormat .Sunrise "15:04"}}  {{loc "sunset"}}: {{timeFormat .Sunset "15:04"}}  {{loc "moonphase"}}: {{.MoonPhaseIcon}} {{loc .MoonPhase}}

{{loc "forecastfor"}} {{.Place}}:
{{range .Forecast}}  {{timeFormat .Date "Mon 02 Jan"}}  {{floatFormat .MinTempC 1}}–{{floatFormat .MaxTempC 1}}°C  {{loc "humidity"}} {{floatFormat .HumidityPct 0}}%  {{loc "rain"}} {{floatFormat .RainfallProbPct 0}}%
{{end}}
{{loc "avgtemp"}}: {{floatFormat .Stats.AvgTemperatureC 1}}°C  {{loc "avghumidity"}}: {{floatFormat .Stats.AvgHumidityPct 1}}%  {{loc "avgrain"}}: {{floatFormat .Stats.AvgRainfallProbPct 1}}%
`
	DefaultRegionalTpl = `{{pad (loc "region") 20}} {{pad (loc "place") 18}} {{padLeft (loc "temp") 12}} {{padLeft (loc "humidity") 10}} {{pad (loc "risk") 20}} {{loc "source"}}
{{range .Rows}}{{pad .Region 20}} {{pad .Place 18}} {{padLeft (floatFormat .TemperatureC 1) 12}} {{padLeft (floatFormat .HumidityPct 0) 10}} {{riskIcon .Anomaly.Color}} {{pad .Anomaly.Label 18}} {{.DataSource}}
{{end}}
{{loc "totalplaces"}}: {{.Summary.TotalPlaces}}  {{loc "highrisk"}}: {{.Summary.HighRiskPlaces}}  {{loc "anomalies"}}: {{.Summary.AnomalyPlaces}}  {{loc "mockrows"}}: {{.Summary.MockRows}}
{{loc "avgtemp"}}: {{optFloat .Summary.AvgTemperatureC 1}}°C  {{loc "avghumidity"}}: {{optFloat .Summary.AvgHumidityPct 1}}%
{{loc "updated"}}: {{localizedTime .UpdateTime}}
`
)

// Config represents the application's configuration structure.
type Config struct {
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Thresholds struct {
		DroughtTemp     float64 `fig:"drought_temp" default:"38"`
		DroughtHumidity float64 `fig:"drought_humidity" default:"30"`
		FloodHumidity   float64 `fig:"flood_humidity" default:"80"`
		FloodRain       float64 `fig:"flood_rain" default:"70"`
		NormalTempMin   float64 `fig:"normal_temp_min" default:"20"`
		NormalTempMax   float64 `fig:"normal_temp_max" default:"35"`
	} `fig:"thresholds"`

	Display struct {
		MapHeight   int     `fig:"map_height" default:"800"`
		MapWidth    int     `fig:"map_width" default:"1000"`
		DefaultZoom int     `fig:"default_zoom" default:"8"`
		CountyZoom  int     `fig:"county_zoom" default:"12"`
		CenterLat   float64 `fig:"center_lat" default:"7.0"`
		CenterLon   float64 `fig:"center_lon" default:"30.0"`
	} `fig:"display"`

	Defaults struct {
		Region string `fig:"region" default:"Central Equatoria"`
		Place  string `fig:"place" default:"Juba"`
	} `fig:"defaults"`

	Gazetteer struct {
		// Empty uses the built-in gazetteer
		File string `fig:"file"`
	} `fig:"gazetteer"`

	Weather struct {
		// Allowed values: open-meteo, openweathermap, mock
		Provider     string        `fig:"provider" default:"open-meteo"`
		APIKey       string        `fig:"apikey"`
		FetchTimeout time.Duration `fig:"fetch_timeout" default:"10s"`
		CacheTTL     time.Duration `fig:"cache_ttl" default:"10m"`
		Workers      int           `fig:"workers" default:"8"`
	} `fig:"weather"`

	Satellite struct {
		// Allowed values: synthetic
		Provider         string  `fig:"provider" default:"synthetic"`
		Extent           float64 `fig:"extent" default:"0.3"`
		GridSize         int     `fig:"grid_size" default:"30"`
		RegionalGridSize int     `fig:"regional_grid_size" default:"50"`
		SeriesDays       int     `fig:"series_days" default:"30"`
	} `fig:"satellite"`

	Intervals struct {
		// 0 disables the scheduled refresh
		SnapshotRefresh time.Duration `fig:"snapshot_refresh" default:"15m"`
	} `fig:"intervals"`

	Server struct {
		Listen          string        `fig:"listen" default:":8080"`
		ShutdownTimeout time.Duration `fig:"shutdown_timeout" default:"10s"`
	} `fig:"server"`

	Export struct {
		Enabled bool     `fig:"enabled"`
		Brokers []string `fig:"brokers" default:"[localhost:9092]"`
		Topic   string   `fig:"topic" default:"agriwatch-regional"`
	} `fig:"export"`

	Templates struct {
		Report   string `fig:"report"`
		Regional string `fig:"regional"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Load reads the configuration from file if it is not empty, from the first config file
// found in the user config directory otherwise, and falls back to defaults and environment.
func Load(file string) (*Config, error) {
	if file != "" {
		return NewFromFile(filepath.Dir(file), filepath.Base(file))
	}
	home, err := os.UserHomeDir()
	if err == nil {
		dir := filepath.Join(home, ".config", "agriwatch")
		for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.json"} {
			if _, err = os.Stat(filepath.Join(dir, name)); err == nil {
				return NewFromFile(dir, name)
			}
		}
	}
	return New()
}

func (c *Config) Validate() error {
	t := c.Thresholds
	for name, v := range map[string]float64{
		"drought humidity": t.DroughtHumidity,
		"flood humidity":   t.FloodHumidity,
		"flood rain":       t.FloodRain,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("invalid %s threshold: %v: %w", name, v, errs.ErrConfiguration)
		}
	}
	if t.NormalTempMin >= t.NormalTempMax {
		return fmt.Errorf("invalid normal temperature range: %v..%v: %w", t.NormalTempMin, t.NormalTempMax,
			errs.ErrConfiguration)
	}

	switch c.Weather.Provider {
	case ProviderOpenMeteo, ProviderMock:
	case ProviderOpenWeatherMap:
		if c.Weather.APIKey == "" {
			return fmt.Errorf("weather provider %s requires an API key: %w", c.Weather.Provider,
				errs.ErrConfiguration)
		}
	default:
		return fmt.Errorf("invalid weather provider: %s: %w", c.Weather.Provider, errs.ErrConfiguration)
	}
	if c.Weather.Workers < 1 {
		return fmt.Errorf("invalid number of weather workers: %d: %w", c.Weather.Workers, errs.ErrConfiguration)
	}
	if c.Weather.FetchTimeout <= 0 || c.Weather.CacheTTL < 0 {
		return fmt.Errorf("invalid weather timeouts: %w", errs.ErrConfiguration)
	}

	if c.Satellite.Provider != SatelliteSynthetic {
		return fmt.Errorf("invalid satellite provider: %s: %w", c.Satellite.Provider, errs.ErrConfiguration)
	}
	if c.Satellite.Extent <= 0 || !validGridSize(c.Satellite.GridSize) ||
		!validGridSize(c.Satellite.RegionalGridSize) || c.Satellite.SeriesDays < 1 ||
		c.Satellite.SeriesDays > synthetic.MaxSeriesDays {
		return fmt.Errorf("invalid satellite field geometry: %w", errs.ErrConfiguration)
	}
	if c.Intervals.SnapshotRefresh < 0 {
		return fmt.Errorf("invalid snapshot refresh interval: %s: %w", c.Intervals.SnapshotRefresh,
			errs.ErrConfiguration)
	}
	if c.Export.Enabled && (len(c.Export.Brokers) == 0 || c.Export.Topic == "") {
		return fmt.Errorf("snapshot export requires brokers and a topic: %w", errs.ErrConfiguration)
	}

	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Templates.Report == "" {
		c.Templates.Report = DefaultReportTpl
	}
	if c.Templates.Regional == "" {
		c.Templates.Regional = DefaultRegionalTpl
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}

func validGridSize(size int) bool {
	return size >= 2 && size <= synthetic.MaxGridSize
}
