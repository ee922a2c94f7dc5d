// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package satellite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/agriwatch/internal/errs"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/logger"
	"github.com/wneessen/agriwatch/internal/random"
	"github.com/wneessen/agriwatch/internal/synthetic"
)

var juba = gazetteer.Place{
	Name:       "Juba",
	Region:     "Central Equatoria",
	Coordinate: gazetteer.Coordinate{Lat: 4.8594, Lon: 31.5713},
}

type failingSource struct {
	err   error
	calls int
}

func (f *failingSource) Name() string { return "failing" }

func (f *failingSource) Field(context.Context, synthetic.Kind, gazetteer.Place) (*synthetic.Field, error) {
	f.calls++
	return nil, f.err
}

func (f *failingSource) TimeSeries(context.Context, synthetic.Kind, gazetteer.Place, int) (*synthetic.Series, error) {
	f.calls++
	return nil, f.err
}

func newTestSynthetic(t *testing.T) *Synthetic {
	t.Helper()
	gen := synthetic.New(random.NewSeeded(1), clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	src, err := NewSynthetic(gen, synthetic.DefaultExtent, synthetic.DefaultGridSize)
	if err != nil {
		t.Fatalf("failed to create synthetic source: %s", err)
	}
	return src
}

func TestNewSynthetic(t *testing.T) {
	gen := synthetic.New(random.NewSeeded(1), nil)
	if _, err := NewSynthetic(gen, 0, 30); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if _, err := NewSynthetic(gen, 0.3, 1); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if _, err := NewSynthetic(nil, 0.3, 30); err == nil {
		t.Error("expected NewSynthetic to fail without generator")
	}
}

func TestSynthetic(t *testing.T) {
	src := newTestSynthetic(t)
	field, err := src.Field(t.Context(), synthetic.NDVI, juba)
	if err != nil {
		t.Fatalf("failed to get field: %s", err)
	}
	if field.Title != "NDVI Analysis - Juba" {
		t.Errorf("unexpected title %q", field.Title)
	}
	series, err := src.TimeSeries(t.Context(), synthetic.LST, juba, 10)
	if err != nil {
		t.Fatalf("failed to get series: %s", err)
	}
	if len(series.Points) != 10 || series.Place != "Juba" {
		t.Errorf("unexpected series %+v", series)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := src.Field(ctx, synthetic.NDVI, juba); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context error, got %v", err)
	}
}

func TestFallback(t *testing.T) {
	log := logger.NewLogger(slog.LevelInfo, io.Discard)
	t.Run("failing primary falls back to secondary", func(t *testing.T) {
		primary := &failingSource{err: errors.New("NASA API unavailable")}
		fb, err := NewFallback(primary, newTestSynthetic(t), log)
		if err != nil {
			t.Fatalf("failed to create fallback: %s", err)
		}
		if _, err = fb.Field(t.Context(), synthetic.SoilMoisture, juba); err != nil {
			t.Errorf("expected fallback field, got error %s", err)
		}
		if _, err = fb.TimeSeries(t.Context(), synthetic.SoilMoisture, juba, 5); err != nil {
			t.Errorf("expected fallback series, got error %s", err)
		}
		if primary.calls != 2 {
			t.Errorf("expected primary to be called twice, got %d", primary.calls)
		}
	})
	t.Run("invalid input is not retried", func(t *testing.T) {
		primary := &failingSource{err: errs.ErrInvalidInput}
		fb, err := NewFallback(primary, newTestSynthetic(t), log)
		if err != nil {
			t.Fatalf("failed to create fallback: %s", err)
		}
		if _, err = fb.TimeSeries(t.Context(), synthetic.NDVI, juba, 0); !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})
	t.Run("sources are required", func(t *testing.T) {
		if _, err := NewFallback(nil, newTestSynthetic(t), log); err == nil {
			t.Error("expected NewFallback to fail")
		}
	})
}
