// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package satellite is the boundary to satellite-derived data. The only source available
// today generates synthetic data.
package satellite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/synthetic"
)

// ProviderSynthetic is the configuration name of the synthetic source.
const ProviderSynthetic = "synthetic"

// Source is implemented by each satellite data backend.
type Source interface {
	Name() string
	Field(ctx context.Context, kind synthetic.Kind, place gazetteer.Place) (*synthetic.Field, error)
	TimeSeries(ctx context.Context, kind synthetic.Kind, place gazetteer.Place, days int) (*synthetic.Series, error)
}

// Synthetic serves fields and series from a synthetic.Generator.
type Synthetic struct {
	gen      *synthetic.Generator
	extent   float64
	gridSize int
}

// NewSynthetic returns a synthetic source producing fields of center ± extent degrees
// with gridSize points per axis.
func NewSynthetic(gen *synthetic.Generator, extent float64, gridSize int) (*Synthetic, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if !(extent > 0) || gridSize < 2 {
		return nil, fmt.Errorf("invalid synthetic field geometry (extent %v, grid size %d): %w",
			extent, gridSize, errs.ErrConfiguration)
	}
	return &Synthetic{gen: gen, extent: extent, gridSize: gridSize}, nil
}

func (s *Synthetic) Name() string {
	return ProviderSynthetic
}

func (s *Synthetic) Field(ctx context.Context, kind synthetic.Kind, place gazetteer.Place) (*synthetic.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.Field(kind, place.Coordinate, place.Name, s.extent, s.gridSize)
}

func (s *Synthetic) TimeSeries(ctx context.Context, kind synthetic.Kind, place gazetteer.Place, days int) (*synthetic.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.gen.TimeSeries(kind, place.Name, days)
}

// Fallback serves from the primary source and falls back to the secondary source when the
// primary fails with anything but invalid input or a done context.
type Fallback struct {
	primary   Source
	secondary Source
	log       *logger.Logger
}

// NewFallback returns a Fallback source.
func NewFallback(primary, secondary Source, log *logger.Logger) (*Fallback, error) {
	if primary == nil || secondary == nil {
		return nil, errors.New("primary and secondary satellite sources are required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	return &Fallback{primary: primary, secondary: secondary, log: log}, nil
}

func (f *Fallback) Name() string {
	return fmt.Sprintf("%s with %s fallback", f.primary.Name(), f.secondary.Name())
}

func (f *Fallback) Field(ctx context.Context, kind synthetic.Kind, place gazetteer.Place) (*synthetic.Field, error) {
	field, err := f.primary.Field(ctx, kind, place)
	if !f.shouldFallback(ctx, err, place) {
		return field, err
	}
	return f.secondary.Field(ctx, kind, place)
}

func (f *Fallback) TimeSeries(ctx context.Context, kind synthetic.Kind, place gazetteer.Place, days int) (*synthetic.Series, error) {
	series, err := f.primary.TimeSeries(ctx, kind, place, days)
	if !f.shouldFallback(ctx, err, place) {
		return series, err
	}
	return f.secondary.TimeSeries(ctx, kind, place, days)
}

func (f *Fallback) shouldFallback(ctx context.Context, err error, place gazetteer.Place) bool {
	if err == nil || errors.Is(err, errs.ErrInvalidInput) || ctx.Err() != nil {
		return false
	}
	f.log.Warn("satellite source unavailable, using fallback data", logger.Err(err),
		slog.String("source", f.primary.Name()), slog.String("place", place.Name))
	return true
}
