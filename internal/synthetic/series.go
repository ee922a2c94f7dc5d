// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package synthetic

import (
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/wneessen/agriwatch/internal/errs"
)

const (
	// DefaultSeriesDays is the default length of a time series.
	DefaultSeriesDays = 30
	// MaxSeriesDays is the longest accepted time series.
	MaxSeriesDays = 366
)

// seriesPeriod is the period in days of the sinusoidal base of a series.
const seriesPeriod = 30

// Point is one daily value of a series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a daily time series for one place.
type Series struct {
	Kind      Kind    `json:"kind"`
	Place     string  `json:"place"`
	UnitLabel string  `json:"unit_label"`
	Points    []Point `json:"points"`
}

// Mean returns the mean value of the series, or 0 for an empty series.
func (s *Series) Mean() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Points {
		sum += p.Value
	}
	return sum / float64(len(s.Points))
}

// PlaceFactor returns the per-place offset in [0, 0.99]. It is derived from the xxhash64
// of the place name and therefore stable across calls and processes.
func PlaceFactor(place string) float64 {
	return float64(xxhash.Sum64String(place)%100) / 100
}

// TimeSeries generates days daily values ending today for the named place.
func (g *Generator) TimeSeries(kind Kind, place string, days int) (*Series, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown analysis kind %q: %w", kind, errs.ErrInvalidInput)
	}
	if days < 1 || days > MaxSeriesDays {
		return nil, fmt.Errorf("series length %d must be between 1 and %d: %w", days, MaxSeriesDays,
			errs.ErrInvalidInput)
	}

	f := PlaceFactor(place)
	now := g.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	series := &Series{
		Kind:      kind,
		Place:     place,
		UnitLabel: kinds[kind].seriesLabel,
		Points:    make([]Point, days),
	}
	for i := range series.Points {
		phase := 2 * math.Pi * float64(i) / seriesPeriod
		n := g.rand.NormFloat64()
		var v float64
		switch kind {
		case NDVI:
			v = clamp(0.4+0.1*math.Sin(phase)+0.2*f+0.05*n, -1, 1)
		case LST:
			v = 32 + 3*math.Sin(phase) + 8*(f-0.5) + 2*n
		case SoilMoisture:
			v = clamp(35+10*math.Cos(phase)+20*f+3*n, 0, 100)
		default:
			v = math.Max(0, 40+15*math.Sin(phase)+30*f+20*n)
		}
		series.Points[i] = Point{
			Date:  today.AddDate(0, 0, i-days+1),
			Value: v,
		}
	}
	return series, nil
}
