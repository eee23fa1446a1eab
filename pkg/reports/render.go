package reports

import (
	"strconv"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/interpretation"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

// Line is the rendered form of one record or component.
type Line struct {
	Title          string                         `json:"title"`
	Value          string                         `json:"value,omitempty"`
	Interpretation *interpretation.Classification `json:"interpretation,omitempty"`
	Reference      string                         `json:"reference,omitempty"`
	Effective      string                         `json:"effective,omitempty"`
	Components     []Line                         `json:"components,omitempty"`
}

type Renderer struct {
	labels     terminology.Labels
	classifier *interpretation.Classifier
}

func NewRenderer(labels terminology.Labels) *Renderer {
	return &Renderer{labels: labels, classifier: interpretation.NewClassifier(labels)}
}

// Record renders rec and each of its components. A record without a value
// of its own renders its title only.
func (r *Renderer) Record(rec *models.ClinicalRecord) Line {
	line := Line{Title: rec.Code.DisplayText(r.labels.Unknown)}
	if rec.Effective != nil {
		line.Effective = rec.Effective.UTC().Format("2006-01-02T15:04:05Z")
	}
	if !rec.Value.IsAbsent() {
		line.Value = ValueText(rec.Value, r.labels)
		line.Interpretation = r.classify(rec.Interpretation)
		line.Reference = ReferenceText(rec.ReferenceRange, r.labels)
	}
	for i := range rec.Components {
		c := &rec.Components[i]
		line.Components = append(line.Components, Line{
			Title:          c.Code.DisplayText(r.labels.Unknown),
			Value:          ValueText(c.Value, r.labels),
			Interpretation: r.classify(c.Interpretation),
			Reference:      ReferenceText(c.ReferenceRange, r.labels),
		})
	}
	return line
}

func (r *Renderer) classify(cc *models.CodeableConcept) *interpretation.Classification {
	c, ok := r.classifier.Classify(cc)
	if !ok {
		return nil
	}
	return &c
}

// ValueText renders a value as "<number> <unit>", the string, or the concept
// text. Anything without a usable value reads as the unknown label.
func ValueText(v models.Value, labels terminology.Labels) string {
	switch v.Kind() {
	case models.ValueQuantity:
		q, _ := v.Quantity()
		if s := QuantityText(&q); s != "" {
			return s
		}
	case models.ValueString:
		if s, _ := v.Text(); s != "" {
			return s
		}
	case models.ValueConcept:
		c, _ := v.Concept()
		return c.DisplayText(labels.Unknown)
	}
	return labels.Unknown
}

// QuantityText renders q as "<number>[ <unit>]", or "" without a number.
func QuantityText(q *models.Quantity) string {
	if !q.HasValue() {
		return ""
	}
	s := FormatNumber(*q.Value)
	if q.Unit != "" {
		s += " " + q.Unit
	}
	return s
}

// ReferenceText renders "Ref <text>", "Ref <low>-<high> <unit>" or a single
// side. An empty range renders as "".
func ReferenceText(rr *models.ReferenceRange, labels terminology.Labels) string {
	if rr == nil {
		return ""
	}
	prefix := labels.ReferenceRange
	if rr.Text != "" {
		return prefix + " " + rr.Text
	}
	var unit string
	switch {
	case rr.Low != nil && rr.Low.Unit != "":
		unit = " " + rr.Low.Unit
	case rr.High != nil && rr.High.Unit != "":
		unit = " " + rr.High.Unit
	}
	low, high := rr.Low.HasValue(), rr.High.HasValue()
	switch {
	case low && high:
		return prefix + " " + FormatNumber(*rr.Low.Value) + "-" + FormatNumber(*rr.High.Value) + unit
	case low:
		return prefix + " " + FormatNumber(*rr.Low.Value) + unit
	case high:
		return prefix + " " + FormatNumber(*rr.High.Value) + unit
	}
	return ""
}

// FormatNumber prints v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
