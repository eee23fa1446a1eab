// Package interpretation maps observation interpretation codes to a display
// label and a severity tag.
package interpretation

import (
	"strings"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

type Severity string

const (
	CriticalHigh Severity = "critical-high"
	High         Severity = "high"
	CriticalLow  Severity = "critical-low"
	Low          Severity = "low"
	Abnormal     Severity = "abnormal"
	Positive     Severity = "positive"
	Negative     Severity = "negative"
	Normal       Severity = "normal"
)

// Tone is the visual emphasis of a severity badge.
type Tone string

const (
	ToneRed     Tone = "red"
	ToneBlue    Tone = "blue"
	ToneAmber   Tone = "amber"
	ToneOrange  Tone = "orange"
	ToneEmerald Tone = "emerald"
	ToneGray    Tone = "gray"
	ToneMuted   Tone = "muted"
)

type Classification struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
	Tone     Tone     `json:"tone"`
}

var vocabulary = map[string]Severity{
	"HH":      CriticalHigh,
	"CRIT-HI": CriticalHigh,
	"HU":      CriticalHigh,
	"H":       High,
	"HI":      High,
	"HIGH":    High,
	"ABOVE":   High,
	">":       High,

	"LL":      CriticalLow,
	"CRIT-LO": CriticalLow,
	"LU":      CriticalLow,
	"L":       Low,
	"LO":      Low,
	"LOW":     Low,
	"BELOW":   Low,
	"<":       Low,

	"A":        Abnormal,
	"AA":       Abnormal,
	"ABN":      Abnormal,
	"ABNORMAL": Abnormal,

	"POS":      Positive,
	"POSITIVE": Positive,
	"DETECTED": Positive,
	"REACTIVE": Positive,

	"NEG":          Negative,
	"NEGATIVE":     Negative,
	"NOT DETECTED": Negative,
	"NONREACTIVE":  Negative,

	"N":      Normal,
	"NORMAL": Normal,
}

var tones = map[Severity]Tone{
	CriticalHigh: ToneRed,
	High:         ToneRed,
	CriticalLow:  ToneBlue,
	Low:          ToneBlue,
	Abnormal:     ToneAmber,
	Positive:     ToneOrange,
	Negative:     ToneEmerald,
	Normal:       ToneGray,
}

type Classifier struct {
	labels map[Severity]string
}

func NewClassifier(labels terminology.Labels) *Classifier {
	return &Classifier{labels: map[Severity]string{
		CriticalHigh: labels.CriticalHigh,
		High:         labels.High,
		CriticalLow:  labels.CriticalLow,
		Low:          labels.Low,
		Abnormal:     labels.Abnormal,
		Positive:     labels.Positive,
		Negative:     labels.Negative,
		Normal:       labels.Normal,
	}}
}

// Classify returns ok=false when the concept carries no usable code, which
// callers must treat differently from a normal result. Unknown codes pass
// through verbatim as both label and severity.
func (c *Classifier) Classify(concept *models.CodeableConcept) (Classification, bool) {
	code := NormalizedCode(concept)
	if code == "" {
		return Classification{}, false
	}
	sev, known := vocabulary[code]
	if !known {
		return Classification{Code: code, Label: code, Severity: Severity(code), Tone: ToneMuted}, true
	}
	label := c.labels[sev]
	if label == "" {
		label = code
	}
	return Classification{Code: code, Label: label, Severity: sev, Tone: tones[sev]}, true
}

// NormalizedCode is the upper-cased first coding code, else the first
// coding display, else the concept text.
func NormalizedCode(concept *models.CodeableConcept) string {
	if concept == nil {
		return ""
	}
	var raw string
	if len(concept.Coding) > 0 {
		raw = concept.Coding[0].Code
		if raw == "" {
			raw = concept.Coding[0].Display
		}
	}
	if raw == "" {
		raw = concept.Text
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}
