// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package synthetic

import (
	"fmt"
	"math"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
)

const (
	// DefaultExtent is the half-width in degrees of a place field.
	DefaultExtent = 0.3
	// DefaultGridSize is the number of lattice points per axis of a place field.
	DefaultGridSize = 30
	// DefaultRegionalGridSize is the number of lattice points per axis of a regional field.
	DefaultRegionalGridSize = 50
	// MaxGridSize is the largest accepted number of lattice points per axis.
	MaxGridSize = 500
)

// Cell is one lattice point of a field.
type Cell struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Value float64 `json:"value"`
}

// Field is a square grid of values. Cells are indexed [row][column], rows running from
// south to north and columns from west to east.
type Field struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	ColorScale string   `json:"color_scale"`
	UnitLabel  string   `json:"unit_label"`
	Cells      [][]Cell `json:"cells"`
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	Mean       float64  `json:"mean"`
}

// Bounds is a lon/lat rectangle.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
}

// DefaultBounds covers South Sudan.
func DefaultBounds() Bounds {
	return Bounds{MinLon: 28, MaxLon: 34, MinLat: 4, MaxLat: 10}
}

func (b Bounds) validate() error {
	lower, err := gazetteer.NewCoordinate(b.MinLat, b.MinLon)
	if err != nil {
		return err
	}
	upper, err := gazetteer.NewCoordinate(b.MaxLat, b.MaxLon)
	if err != nil {
		return err
	}
	if lower.Lat >= upper.Lat || lower.Lon >= upper.Lon {
		return fmt.Errorf("bounds %+v are empty: %w", b, errs.ErrInvalidInput)
	}
	return nil
}

// Field generates a gridSize×gridSize field of the given kind spanning center ± extent
// degrees. label names the place in the field title.
func (g *Generator) Field(kind Kind, center gazetteer.Coordinate, label string, extent float64, gridSize int) (*Field, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown analysis kind %q: %w", kind, errs.ErrInvalidInput)
	}
	if !center.Valid() {
		return nil, fmt.Errorf("field center %s is not a valid coordinate: %w", center, errs.ErrInvalidInput)
	}
	if !(extent > 0) || math.IsInf(extent, 0) {
		return nil, fmt.Errorf("field extent %v must be positive: %w", extent, errs.ErrInvalidInput)
	}
	if err := checkGridSize(gridSize); err != nil {
		return nil, err
	}

	s := g.seasonalFactor()
	bounds := Bounds{
		MinLon: center.Lon - extent, MaxLon: center.Lon + extent,
		MinLat: center.Lat - extent, MaxLat: center.Lat + extent,
	}
	field := g.grid(kind, bounds, gridSize, func(x, y float64) float64 {
		dx, dy := x-center.Lon, y-center.Lat
		d2 := dx*dx + dy*dy
		u := g.rand.Float64()
		switch kind {
		case NDVI:
			return clamp(0.35+0.15*s+0.2*math.Exp(-d2/0.01)+0.1*u, -1, 1)
		case LST:
			return 32 + 5*s + 3*math.Sin(x*10)*math.Cos(y*10) + 2*u
		case SoilMoisture:
			return clamp(25-10*s+15*math.Exp(-d2/0.02)+5*u, 0, 100)
		default:
			return math.Max(0, 40+20*s+25*math.Cos(x*5)*math.Sin(y*5)+10*u)
		}
	})
	field.Title = fmt.Sprintf("%s - %s", kind.Title(), label)
	return field, nil
}

// RegionalField generates the region-wide overview of the given kind over bounds.
func (g *Generator) RegionalField(kind Kind, bounds Bounds, gridSize int) (*Field, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown analysis kind %q: %w", kind, errs.ErrInvalidInput)
	}
	if err := bounds.validate(); err != nil {
		return nil, err
	}
	if err := checkGridSize(gridSize); err != nil {
		return nil, err
	}

	field := g.grid(kind, bounds, gridSize, func(x, y float64) float64 {
		u := g.rand.Float64()
		switch kind {
		case NDVI:
			return 0.4 + 0.3*math.Sin(x/2)*math.Cos(y/3) + 0.1*u
		case LST:
			return 35 + 8*math.Sin(x/3) + 3*math.Cos(y/2) + 2*u
		case SoilMoisture:
			return 30 + 20*math.Sin(x/4)*math.Cos(y/2) + 5*u
		default:
			return 50 + 30*math.Cos(x/2)*math.Sin(y/3) + 10*u
		}
	})
	field.Title = kinds[kind].regionalTitle
	return field, nil
}

func (g *Generator) grid(kind Kind, bounds Bounds, size int, value func(x, y float64) float64) *Field {
	xs := linspace(bounds.MinLon, bounds.MaxLon, size)
	ys := linspace(bounds.MinLat, bounds.MaxLat, size)

	field := &Field{
		Kind:       kind,
		ColorScale: kind.ColorScale(),
		UnitLabel:  kind.UnitLabel(),
		Cells:      make([][]Cell, size),
		Min:        math.Inf(1),
		Max:        math.Inf(-1),
	}
	var sum float64
	for row, y := range ys {
		field.Cells[row] = make([]Cell, size)
		for col, x := range xs {
			v := value(x, y)
			field.Cells[row][col] = Cell{Lon: x, Lat: y, Value: v}
			field.Min = math.Min(field.Min, v)
			field.Max = math.Max(field.Max, v)
			sum += v
		}
	}
	field.Mean = sum / float64(size*size)
	return field
}

// linspace returns n evenly spaced values from start to stop, both included.
func linspace(start, stop float64, n int) []float64 {
	values := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	values[n-1] = stop
	return values
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}

func checkGridSize(gridSize int) error {
	if gridSize < 2 || gridSize > MaxGridSize {
		return fmt.Errorf("grid size %d must be between 2 and %d: %w", gridSize, MaxGridSize,
			errs.ErrInvalidInput)
	}
	return nil
}
