// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package risk classifies current weather conditions into agricultural risk categories.
//
// Rules are evaluated in a fixed order and the first match wins: drought, flood, weather
// anomaly, normal. The order is kept from the dashboard this service replaces and has not
// been checked by an agronomist.
package risk

import (
	"fmt"
	"math"

	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/observability"
	"github.com/wneessen/agriwatch/internal/random"
	"github.com/wneessen/agriwatch/internal/weather"
)

// FloodForecastDays is the number of leading forecast days inspected by the flood rule.
const FloodForecastDays = 3

// Category is the outcome of a classification.
type Category string

const (
	Normal         Category = "normal"
	WeatherAnomaly Category = "weather_anomaly"
	Drought        Category = "drought"
	Flood          Category = "flood"
)

// Categories lists all categories in display order.
var Categories = []Category{Normal, WeatherAnomaly, Drought, Flood}

// Color is the display color associated with a category.
type Color string

const (
	Green  Color = "green"
	Orange Color = "orange"
	Red    Color = "red"
	Blue   Color = "blue"
)

type rule struct {
	label             localize.Singular
	advisory          localize.Singular
	color             Color
	confLow, confHigh float64
}

var rules = map[Category]rule{
	Drought: {
		label:    "High Drought Risk",
		advisory: "Consider drought-resistant crops. Implement water conservation measures.",
		color:    Red, confLow: 0.75, confHigh: 0.95,
	},
	Flood: {
		label:    "Flood Risk",
		advisory: "Monitor water levels. Prepare drainage systems.",
		color:    Blue, confLow: 0.65, confHigh: 0.85,
	},
	WeatherAnomaly: {
		label:    "Weather Anomaly",
		advisory: "Monitor crop conditions closely. Adjust farming schedule.",
		color:    Orange, confLow: 0.55, confHigh: 0.75,
	},
	Normal: {
		label:    "Normal Conditions",
		advisory: "Conditions are favorable for normal farming activities.",
		color:    Green, confLow: 0.80, confHigh: 0.95,
	},
}

// Label returns the English display label of the category.
func (c Category) Label() string {
	if r, ok := rules[c]; ok {
		return string(r.label)
	}
	return string(c)
}

// Color returns the display color of the category.
func (c Category) Color() Color {
	return rules[c].color
}

// HighRisk reports whether the category counts as a high risk (drought or flood).
func (c Category) HighRisk() bool {
	return c == Drought || c == Flood
}

// ConfidenceRange returns the interval the confidence of the category is drawn from.
func (c Category) ConfidenceRange() (float64, float64) {
	r := rules[c]
	return r.confLow, r.confHigh
}

// ParseCategory accepts the short name or the display label of a category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if s == string(c) || s == c.Label() {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown risk category %q: %w", s, errs.ErrInvalidInput)
}

// Anomaly is the classification result for one location.
type Anomaly struct {
	Category   Category `json:"category"`
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Advisory   string   `json:"advisory"`
	Color      Color    `json:"color"`
}

// Thresholds configures the classification rules. Temperatures are in °C, humidity and rain
// probability in percent.
type Thresholds struct {
	DroughtTempC       float64 `json:"drought_temp_c"`
	DroughtHumidityPct float64 `json:"drought_humidity_pct"`
	FloodHumidityPct   float64 `json:"flood_humidity_pct"`
	FloodRainProbPct   float64 `json:"flood_rain_prob_pct"`
	NormalTempMinC     float64 `json:"normal_temp_min_c"`
	NormalTempMaxC     float64 `json:"normal_temp_max_c"`
}

// DefaultThresholds returns the stock classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DroughtTempC:       38,
		DroughtHumidityPct: 30,
		FloodHumidityPct:   80,
		FloodRainProbPct:   70,
		NormalTempMinC:     20,
		NormalTempMaxC:     35,
	}
}

// Validate checks that humidities and probabilities are percentages and the normal
// temperature range is not empty.
func (t Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"drought humidity": t.DroughtHumidityPct,
		"flood humidity":   t.FloodHumidityPct,
		"flood rain":       t.FloodRainProbPct,
	} {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return fmt.Errorf("%s threshold %v is not a percentage: %w", name, v, errs.ErrConfiguration)
		}
	}
	if t.NormalTempMinC >= t.NormalTempMaxC {
		return fmt.Errorf("normal temperature range %v..%v is empty: %w", t.NormalTempMinC,
			t.NormalTempMaxC, errs.ErrConfiguration)
	}
	return nil
}

// Localizer translates advisories and labels. *spreak.Localizer satisfies it.
type Localizer interface {
	Get(localize.Singular) string
}

// Classifier maps current conditions and the near-term forecast to an Anomaly.
type Classifier struct {
	thresholds Thresholds
	rand       random.Source
	localizer  Localizer
	metrics    *observability.Metrics
}

// New returns a Classifier. localizer and metrics may be nil.
func New(thresholds Thresholds, src random.Source, localizer Localizer, metrics *observability.Metrics) (*Classifier, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = random.New()
	}
	return &Classifier{
		thresholds: thresholds,
		rand:       src,
		localizer:  localizer,
		metrics:    metrics,
	}, nil
}

// Thresholds returns the thresholds the classifier was built with.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify applies the rules to the current conditions and the first days of the forecast.
// At least three forecast days are required.
func (c *Classifier) Classify(current weather.Current, forecast []weather.ForecastDay) (Anomaly, error) {
	if err := validateInput(current, forecast); err != nil {
		return Anomaly{}, err
	}

	category := c.category(current, forecast)
	r := rules[category]
	anomaly := Anomaly{
		Category:   category,
		Label:      c.translate(r.label),
		Confidence: random.Uniform(c.rand, r.confLow, r.confHigh),
		Advisory:   c.translate(r.advisory),
		Color:      r.color,
	}
	if c.metrics != nil {
		c.metrics.Classifications.WithLabelValues(string(category)).Inc()
	}
	return anomaly, nil
}

func (c *Classifier) category(current weather.Current, forecast []weather.ForecastDay) Category {
	t := c.thresholds
	temp, humidity := current.TemperatureC, current.HumidityPct

	if temp > t.DroughtTempC && humidity < t.DroughtHumidityPct {
		return Drought
	}
	if humidity > t.FloodHumidityPct {
		for _, day := range forecast[:FloodForecastDays] {
			if day.RainfallProbPct > t.FloodRainProbPct {
				return Flood
			}
		}
	}
	if temp < t.NormalTempMinC || temp > t.NormalTempMaxC {
		return WeatherAnomaly
	}
	return Normal
}

func (c *Classifier) translate(msg localize.Singular) string {
	if c.localizer == nil {
		return string(msg)
	}
	return c.localizer.Get(msg)
}

func validateInput(current weather.Current, forecast []weather.ForecastDay) error {
	if len(forecast) < FloodForecastDays {
		return fmt.Errorf("forecast has %d days, need at least %d: %w", len(forecast),
			FloodForecastDays, errs.ErrInvalidInput)
	}
	if math.IsNaN(current.TemperatureC) || math.IsInf(current.TemperatureC, 0) {
		return fmt.Errorf("temperature %v is not a finite number: %w", current.TemperatureC, errs.ErrInvalidInput)
	}
	if !isPercentage(current.HumidityPct) {
		return fmt.Errorf("humidity %v is outside [0,100]: %w", current.HumidityPct, errs.ErrInvalidInput)
	}
	for i, day := range forecast[:FloodForecastDays] {
		if !isPercentage(day.RainfallProbPct) {
			return fmt.Errorf("rainfall probability %v of forecast day %d is outside [0,100]: %w",
				day.RainfallProbPct, i, errs.ErrInvalidInput)
		}
	}
	return nil
}

func isPercentage(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
