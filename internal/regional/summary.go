// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package regional

import (
	"time"

	"github.com/wneessen/agriwatch/internal/risk"
	"github.com/wneessen/agriwatch/internal/vartype"
	"github.com/wneessen/agriwatch/internal/weather"
)

// RegionCounts holds the number of places per risk category in one region.
type RegionCounts struct {
	Region string                `json:"region"`
	Counts map[risk.Category]int `json:"counts"`
}

// Summary condenses a regional table into the figures policymakers look at first.
type Summary struct {
	TotalPlaces     int                   `json:"total_places"`
	HighRiskPlaces  int                   `json:"high_risk_places"`
	AnomalyPlaces   int                   `json:"anomaly_places"`
	MockRows        int                   `json:"mock_rows"`
	AvgTemperatureC vartype.VarFloat64    `json:"avg_temperature_c"`
	AvgHumidityPct  vartype.VarFloat64    `json:"avg_humidity_pct"`
	Distribution    map[risk.Category]int `json:"distribution"`
	Regions         []RegionCounts        `json:"regions"`
}

// Summarize computes the summary of rows. Regions keep the order of their first row.
// Averages stay unset for an empty table.
func Summarize(rows []Row) Summary {
	summary := Summary{
		TotalPlaces:  len(rows),
		Distribution: make(map[risk.Category]int, len(risk.Categories)),
		Regions:      make([]RegionCounts, 0),
	}
	if len(rows) == 0 {
		return summary
	}

	regionIdx := make(map[string]int)
	var tempSum, humSum float64
	for _, row := range rows {
		category := row.Anomaly.Category
		if category.HighRisk() {
			summary.HighRiskPlaces++
		}
		if category != risk.Normal {
			summary.AnomalyPlaces++
		}
		if row.DataSource == weather.SourceMock {
			summary.MockRows++
		}
		summary.Distribution[category]++
		tempSum += row.TemperatureC
		humSum += row.HumidityPct

		idx, ok := regionIdx[row.Region]
		if !ok {
			idx = len(summary.Regions)
			regionIdx[row.Region] = idx
			summary.Regions = append(summary.Regions, RegionCounts{
				Region: row.Region,
				Counts: make(map[risk.Category]int),
			})
		}
		summary.Regions[idx].Counts[category]++
	}
	n := float64(len(rows))
	summary.AvgTemperatureC.Set(tempSum / n)
	summary.AvgHumidityPct.Set(humSum / n)
	return summary
}

// Snapshot is one regional table with its summary at a point in time.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Rows        []Row     `json:"rows"`
	Summary     Summary   `json:"summary"`
}

// NewSnapshot summarizes rows into a Snapshot.
func NewSnapshot(generatedAt time.Time, rows []Row) *Snapshot {
	return &Snapshot{GeneratedAt: generatedAt, Rows: rows, Summary: Summarize(rows)}
}
