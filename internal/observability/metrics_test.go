// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsForTesting(t *testing.T) {
	t.Run("metrics can be created repeatedly", func(t *testing.T) {
		a := NewMetricsForTesting()
		b := NewMetricsForTesting()
		if a == nil || b == nil {
			t.Fatal("expected metrics to be non-nil")
		}
	})
	t.Run("counters record values", func(t *testing.T) {
		m := NewMetricsForTesting()
		m.Classifications.WithLabelValues("drought").Inc()
		m.Classifications.WithLabelValues("drought").Inc()
		m.WeatherFallbacks.Inc()
		if got := testutil.ToFloat64(m.Classifications.WithLabelValues("drought")); got != 2 {
			t.Errorf("expected 2 drought classifications, got %f", got)
		}
		if got := testutil.ToFloat64(m.WeatherFallbacks); got != 1 {
			t.Errorf("expected 1 fallback, got %f", got)
		}
	})
}
