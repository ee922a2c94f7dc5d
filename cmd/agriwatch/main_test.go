// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/synthetic"
)

func TestPlaceArgs(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		args    []string
		wantErr bool
	}{
		{"no arguments", 0, nil, false},
		{"region and place", 0, []string{"Jonglei", "Bor"}, false},
		{"region only", 0, []string{"Jonglei"}, true},
		{"kind only", 1, []string{"ndvi"}, false},
		{"kind region and place", 1, []string{"ndvi", "Jonglei", "Bor"}, false},
		{"missing kind", 1, nil, true},
		{"too many", 1, []string{"ndvi", "Jonglei", "Bor", "Juba"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := placeArgs(tc.n)(nil, tc.args)
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error: %t, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestWritePlaces(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	if err := writePlaces(buf, gazetteer.Default()); err != nil {
		t.Fatalf("failed to write places: %s", err)
	}
	out := buf.String()
	for _, want := range []string{"Central Equatoria (", "  Juba ", "Jonglei ("} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestWriteSeries(t *testing.T) {
	series := &synthetic.Series{
		Kind:      synthetic.NDVI,
		Place:     "Bor",
		UnitLabel: "NDVI Value",
		Points: []synthetic.Point{
			{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Value: 0.5},
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Value: 0.7},
		},
	}
	buf := bytes.NewBuffer(nil)
	if err := writeSeries(buf, series); err != nil {
		t.Fatalf("failed to write series: %s", err)
	}
	want := "Bor (NDVI Value)\n2025-06-01     0.500\n2025-06-02     0.700\nmean    0.600\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestWriteFieldSummary(t *testing.T) {
	field := &synthetic.Field{
		Title:      "NDVI Analysis - Bor",
		UnitLabel:  "NDVI Value",
		ColorScale: "RdYlGn",
		Cells:      make([][]synthetic.Cell, 2),
		Min:        0.1,
		Max:        0.9,
		Mean:       0.5,
	}
	buf := bytes.NewBuffer(nil)
	if err := writeFieldSummary(buf, field, synthetic.NDVI.Status()); err != nil {
		t.Fatalf("failed to write field summary: %s", err)
	}
	if !strings.HasPrefix(buf.String(), "NDVI Analysis - Bor\nNDVI Value: min 0.10  max 0.90  mean 0.50  (2x2, RdYlGn)\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
