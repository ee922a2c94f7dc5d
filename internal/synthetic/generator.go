// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package synthetic generates plausible satellite-style fields and time series for places
// when no real satellite data is available.
package synthetic

import (
	"math"

	"github.com/jonboulle/clockwork"

	"github.com/wneessen/agriwatch/internal/random"
)

// Generator produces synthetic fields and series. It is safe for concurrent use when its
// random source is.
type Generator struct {
	rand  random.Source
	clock clockwork.Clock
}

// New returns a Generator. A nil source uses a time-seeded source and a nil clock the real
// time.
func New(src random.Source, clock clockwork.Clock) *Generator {
	if src == nil {
		src = random.New()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{rand: src, clock: clock}
}

// seasonalFactor returns sin(2π·dayOfYear/365) for the current date.
func (g *Generator) seasonalFactor() float64 {
	return SeasonalFactor(g.clock.Now().YearDay())
}

// SeasonalFactor returns sin(2π·day/365).
func SeasonalFactor(dayOfYear int) float64 {
	return math.Sin(2 * math.Pi * float64(dayOfYear) / 365)
}
