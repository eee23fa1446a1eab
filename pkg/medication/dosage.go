// Package medication renders dosing fields of medication orders into short
// human strings: a dose amount, a frequency code and a display name.
package medication

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

var unitSynonyms = map[string]string{
	"tablet":       "tab",
	"tablets":      "tab",
	"tab":          "tab",
	"tabs":         "tab",
	"capsule":      "cap",
	"capsules":     "cap",
	"cap":          "cap",
	"caps":         "cap",
	"milliliter":   "mL",
	"millilitre":   "mL",
	"milliliters":  "mL",
	"ml":           "mL",
	"drop":         "drop",
	"drops":        "drop",
	"gtt":          "drop",
	"puff":         "puff",
	"puffs":        "puff",
	"actuation":    "puff",
	"spray":        "puff",
	"sprays":       "puff",
	"mg":           "mg",
	"g":            "g",
	"mcg":          "mcg",
	"μg":           "mcg",
	"µg":           "mcg",
	"ug":           "mcg",
	"microgram":    "mcg",
	"micrograms":   "mcg",
	"microgramme":  "mcg",
	"microgrammes": "mcg",
}

var freeTextDose = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(tab(?:let)?s?|cap(?:sule)?s?|ml|mg|mcg|microgram(?:me)?s?|ug|µg|μg|g|drops?|puffs?)\b`)

// NormalizeUnit maps dose-form synonyms to a short unit. Units it does not
// know are returned as given.
func NormalizeUnit(unit string) string {
	key := strings.ToLower(strings.TrimSpace(unit))
	if key == "" {
		return ""
	}
	if short, ok := unitSynonyms[key]; ok {
		return short
	}
	return unit
}

// ResolveDoseAmount returns the dose of one instruction: the structured
// quantity, else the range, else the first "<number> <unit>" found in text.
// It returns "" when none of them yields a number.
func ResolveDoseAmount(dose *models.DoseSpec, text string) string {
	if dose != nil {
		if q := dose.Quantity; q.HasValue() {
			return withUnit(formatDose(*q.Value), NormalizeUnit(q.Unit))
		}
		if s := rangeText(dose.Range); s != "" {
			return s
		}
	}
	if m := freeTextDose.FindStringSubmatch(text); m != nil {
		return withUnit(m[1], NormalizeUnit(m[2]))
	}
	return ""
}

func rangeText(r *models.Range) string {
	if r == nil {
		return ""
	}
	var unit string
	switch {
	case r.Low != nil && r.Low.Unit != "":
		unit = r.Low.Unit
	case r.High != nil && r.High.Unit != "":
		unit = r.High.Unit
	}
	var left, right string
	if r.Low.HasValue() {
		left = formatDose(*r.Low.Value)
	}
	if r.High.HasValue() {
		right = formatDose(*r.High.Value)
	}
	core := left
	switch {
	case left != "" && right != "":
		core = left + "-" + right
	case left == "":
		core = right
	}
	if core == "" {
		return ""
	}
	return withUnit(core, NormalizeUnit(unit))
}

func withUnit(amount, unit string) string {
	if unit == "" {
		return amount
	}
	return amount + " " + unit
}

// formatDose rounds to one decimal place.
func formatDose(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

type periodUnit string

const (
	unitDay   periodUnit = "day"
	unitHour  periodUnit = "hour"
	unitWeek  periodUnit = "week"
	unitMonth periodUnit = "month"
)

func normalizePeriodUnit(raw string) periodUnit {
	u := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(u, "d"):
		return unitDay
	case strings.HasPrefix(u, "h"):
		return unitHour
	case strings.HasPrefix(u, "w"):
		return unitWeek
	case strings.HasPrefix(u, "mo"):
		return unitMonth
	}
	return ""
}

var dailyCodes = map[int]string{1: "QD", 2: "BID", 3: "TID", 4: "QID"}

// ResolveFrequencyCode renders a timing as a conventional frequency code
// (QD, BID, q8h, QW) or as "<N>x every <P> <unit>(s)". Timings with an
// unknown unit or a zero frequency or period yield "".
func ResolveFrequencyCode(t *models.Timing) string {
	if t == nil || t.Frequency <= 0 || t.Period <= 0 {
		return ""
	}
	unit := normalizePeriodUnit(t.PeriodUnit)
	if unit == "" {
		return ""
	}
	freq, period := t.Frequency, t.Period

	switch unit {
	case unitDay:
		if period == 1 {
			if code, ok := dailyCodes[freq]; ok {
				return code
			}
			return strconv.Itoa(freq) + "x/day"
		}
	case unitHour:
		if freq == 1 {
			return "q" + formatPeriod(period) + "h"
		}
	case unitWeek:
		if freq == 1 && period == 1 {
			return "QW"
		}
	case unitMonth:
		if freq == 1 && period == 1 {
			return "QM"
		}
	}

	noun := string(unit)
	if period > 1 {
		noun += "s"
	}
	return strconv.Itoa(freq) + "x every " + formatPeriod(period) + " " + noun
}

func formatPeriod(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
