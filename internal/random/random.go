// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package random provides the random source that the classifier, the mock weather provider
// and the synthetic generator draw from.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source is the subset of *rand.Rand the generators need.
type Source interface {
	Float64() float64
	NormFloat64() float64
	IntN(n int) int
}

// Locked is a Source that is safe for concurrent use.
type Locked struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Locked source seeded from the runtime's entropy.
func New() *Locked {
	return &Locked{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))} //nolint:gosec
}

// NewSeeded returns a Locked source with a fixed seed. Two sources with the same seed
// produce the same sequence.
func NewSeeded(seed uint64) *Locked {
	return &Locked{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec
}

// Float64 returns a uniform value in [0.0, 1.0).
func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Float64()
}

// NormFloat64 returns a standard normally distributed value.
func (l *Locked) NormFloat64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.NormFloat64()
}

// IntN returns a uniform value in [0, n).
func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}

// Uniform returns a value drawn uniformly from [lower, upper).
func Uniform(src Source, lower, upper float64) float64 {
	return lower + src.Float64()*(upper-lower)
}

// Normal returns a value drawn from a normal distribution with the given mean and
// standard deviation.
func Normal(src Source, mean, stddev float64) float64 {
	return mean + src.NormFloat64()*stddev
}
