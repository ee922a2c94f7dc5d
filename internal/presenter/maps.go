// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/agriwatch/internal/risk"
)

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// RiskIcon maps risk colors to a colored circle.
var RiskIcon = map[risk.Color]string{
	risk.Green:  "🟢",
	risk.Orange: "🟠",
	risk.Red:    "🔴",
	risk.Blue:   "🔵",
}

var i18nVars = map[string]localize.MsgID{
	"temp":            "Temperature",
	"humidity":        "Humidity",
	"wind":            "Wind",
	"rain":            "Rain",
	"condition":       "Condition",
	"risk":            "Risk",
	"region":          "Region",
	"place":           "County",
	"source":          "Source",
	"updated":         "Updated",
	"forecastfor":     "Forecast for",
	"weatherdatafor":  "Weather data for",
	"sunrise":         "Sunrise",
	"sunset":          "Sunset",
	"moonphase":       "Moonphase",
	"avgtemp":         "Avg temperature (5-day)",
	"avghumidity":     "Avg humidity (5-day)",
	"avgrain":         "Avg rain probability",
	"totalplaces":     "Total counties",
	"highrisk":        "High risk",
	"anomalies":       "Anomalies",
	"mockrows":        "Mock rows",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
}
