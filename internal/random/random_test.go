// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package random

import (
	"sync"
	"testing"
)

func TestNewSeeded(t *testing.T) {
	t.Run("same seed yields same sequence", func(t *testing.T) {
		a, b := NewSeeded(42), NewSeeded(42)
		for i := 0; i < 100; i++ {
			if x, y := a.Float64(), b.Float64(); x != y {
				t.Fatalf("expected sequences to match at %d, got %f and %f", i, x, y)
			}
		}
	})
	t.Run("different seeds diverge", func(t *testing.T) {
		a, b := NewSeeded(1), NewSeeded(2)
		same := 0
		for i := 0; i < 10; i++ {
			if a.Float64() == b.Float64() {
				same++
			}
		}
		if same == 10 {
			t.Error("expected different seeds to produce different sequences")
		}
	})
}

func TestUniform(t *testing.T) {
	src := NewSeeded(7)
	for i := 0; i < 1000; i++ {
		val := Uniform(src, 0.75, 0.95)
		if val < 0.75 || val >= 0.95 {
			t.Fatalf("expected value in [0.75, 0.95), got %f", val)
		}
	}
}

func TestNormal(t *testing.T) {
	src := NewSeeded(7)
	sum := 0.0
	const samples = 10000
	for i := 0; i < samples; i++ {
		sum += Normal(src, 28, 5)
	}
	mean := sum / samples
	if mean < 27.5 || mean > 28.5 {
		t.Errorf("expected sample mean close to 28, got %f", mean)
	}
}

func TestLocked_concurrent(t *testing.T) {
	src := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = src.Float64()
				_ = src.NormFloat64()
				if n := src.IntN(4); n < 0 || n >= 4 {
					t.Errorf("expected IntN result in [0, 4), got %d", n)
				}
			}
		}()
	}
	wg.Wait()
}
