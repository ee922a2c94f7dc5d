// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"

	"github.com/wneessen/agriwatch/internal/risk"
	"github.com/wneessen/agriwatch/internal/vartype"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"localizedTime": p.localizedTime,
		"ago":           p.ago,
		"floatFormat":   floatFormat,
		"percent":       percent,
		"optFloat":      optFloat,
		"loc":           p.loc,
		"riskIcon":      riskIcon,
		"pad":           pad,
		"padLeft":       padLeft,
		"truncate":      truncate,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

func (p *Presenter) loc(val string) string {
	if raw, ok := i18nVars[strings.ToLower(val)]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.DateTimeFormat)
}

func (p *Presenter) ago(val time.Time) string {
	return p.humanizer.NaturalTime(val)
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

// optFloat formats an optional value, or "n/a" if it is unset.
func optFloat(val vartype.VarFloat64, precision int) string {
	if !val.IsSet() {
		return val.String()
	}
	return floatFormat(val.Value(), precision)
}

// percent formats a 0-1 ratio as a whole percentage.
func percent(val float64) string {
	return fmt.Sprintf("%.0f%%", val*100)
}

func riskIcon(color risk.Color) string {
	return RiskIcon[color]
}

// pad fills s with spaces up to the given display width.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(truncate(s, width), width)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
