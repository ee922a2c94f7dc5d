// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package synthetic

import (
	"fmt"
	"strings"

	"github.com/wneessen/agriwatch/internal/errs"
)

// Kind is the type of satellite-derived quantity a field or series describes.
type Kind string

const (
	NDVI          Kind = "ndvi"
	LST           Kind = "lst"
	SoilMoisture  Kind = "soil-moisture"
	Precipitation Kind = "precipitation"
)

// Kinds lists all supported kinds in display order.
var Kinds = []Kind{NDVI, LST, SoilMoisture, Precipitation}

// Severity ranks the status headline of an analysis panel.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Status is the headline and hint shown next to an analysis.
type Status struct {
	Headline string   `json:"headline"`
	Info     string   `json:"info"`
	Severity Severity `json:"severity"`
}

type kindMeta struct {
	title         string
	regionalTitle string
	colorScale    string
	unitLabel     string
	seriesLabel   string
	status        Status
}

var kinds = map[Kind]kindMeta{
	NDVI: {
		title:         "NDVI Analysis",
		regionalTitle: "NDVI (Vegetation Health)",
		colorScale:    "RdYlGn",
		unitLabel:     "NDVI Value",
		seriesLabel:   "NDVI Value",
		status: Status{
			Headline: "Vegetation Health: Good",
			Info:     "NDVI values > 0.3 indicate healthy vegetation",
			Severity: SeveritySuccess,
		},
	},
	LST: {
		title:         "Land Surface Temperature",
		regionalTitle: "Land Surface Temperature",
		colorScale:    "RdYlBu_r",
		unitLabel:     "Temperature (°C)",
		seriesLabel:   "Temperature (°C)",
		status: Status{
			Headline: "Temperature: Elevated",
			Info:     "Monitor for heat stress conditions",
			Severity: SeverityWarning,
		},
	},
	SoilMoisture: {
		title:         "Soil Moisture",
		regionalTitle: "Soil Moisture Content",
		colorScale:    "Blues",
		unitLabel:     "Moisture (%)",
		seriesLabel:   "Moisture (%)",
		status: Status{
			Headline: "Moisture: Low",
			Info:     "Consider irrigation recommendations",
			Severity: SeverityError,
		},
	},
	Precipitation: {
		title:         "Precipitation",
		regionalTitle: "Precipitation",
		colorScale:    "viridis",
		unitLabel:     "Rainfall (mm)",
		seriesLabel:   "Precipitation (mm)",
		status: Status{
			Headline: "Precipitation: Normal",
			Info:     "Recent rainfall detected",
			Severity: SeveritySuccess,
		},
	},
}

// ParseKind accepts the short name or the analysis title of a kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == string(k) || s == strings.ToLower(kinds[k].title) {
			return k, nil
		}
	}
	switch s {
	case "soil_moisture", "soilmoisture":
		return SoilMoisture, nil
	case "land-surface-temperature", "temperature":
		return LST, nil
	}
	return "", fmt.Errorf("unknown analysis kind %q: %w", s, errs.ErrInvalidInput)
}

func (k Kind) valid() bool {
	_, ok := kinds[k]
	return ok
}

// Title returns the analysis title, e.g. "NDVI Analysis".
func (k Kind) Title() string { return kinds[k].title }

// ColorScale returns the name of the color scale a field of this kind is drawn with.
func (k Kind) ColorScale() string { return kinds[k].colorScale }

// UnitLabel returns the label of a field value.
func (k Kind) UnitLabel() string { return kinds[k].unitLabel }

// Status returns the headline and hint of the analysis panel.
func (k Kind) Status() Status { return kinds[k].status }
