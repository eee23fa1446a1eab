// Package vitals builds the vitals snapshot of one extraction pass: the
// latest value of every tracked metric, selected independently.
package vitals

import (
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/observation"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

const (
	partSystolic  = "systolic"
	partDiastolic = "diastolic"
)

type scalar struct {
	metric models.Metric
	codes  models.CodeSet
}

type Builder struct {
	scalars    []scalar
	panelCodes models.CodeSet
	bpParts    []observation.Part
}

func NewBuilder(cat terminology.Catalog) *Builder {
	return &Builder{
		scalars: []scalar{
			{models.MetricHeight, cat.Codes(terminology.KeyHeight)},
			{models.MetricWeight, cat.Codes(terminology.KeyWeight)},
			{models.MetricBMI, cat.Codes(terminology.KeyBMI)},
			{models.MetricHeartRate, cat.Codes(terminology.KeyHeartRate)},
			{models.MetricRespiratoryRate, cat.Codes(terminology.KeyRespiratoryRate)},
			{models.MetricTemperature, cat.Codes(terminology.KeyTemperature)},
			{models.MetricSpO2, cat.Codes(terminology.KeySpO2)},
		},
		panelCodes: cat.Codes(terminology.KeyBloodPressure),
		bpParts: []observation.Part{
			{Name: partSystolic, Codes: cat.Codes(terminology.KeySystolicBP)},
			{Name: partDiastolic, Codes: cat.Codes(terminology.KeyDiastolicBP)},
		},
	}
}

// Build computes a fresh snapshot from records. Every metric is present in
// the result; a metric without a numeric value is null together with its
// timestamp. Blood pressure is rounded to whole numbers, the other metrics
// to one decimal place.
func (b *Builder) Build(records []*models.ClinicalRecord) models.VitalsSnapshot {
	snap := models.NewVitalsSnapshot()
	ix := observation.NewIndex(records)

	for _, s := range b.scalars {
		rec := ix.Latest(s.codes)
		if rec == nil {
			continue
		}
		if v, ok := rec.Value.Number(); ok {
			snap.Metrics[s.metric] = metricValue(observation.Round(v, 1), rec.Effective)
		}
	}

	bp := observation.SelectPanel(ix, b.panelCodes, b.bpParts)
	for name, metric := range map[string]models.Metric{
		partSystolic:  models.MetricSystolicBP,
		partDiastolic: models.MetricDiastolicBP,
	} {
		sel := bp.Parts[name]
		if sel.Value == nil || sel.Record == nil {
			continue
		}
		snap.Metrics[metric] = metricValue(observation.Round(*sel.Value, 0), sel.Record.Effective)
	}

	snap.LastUpdated = lastUpdated(snap)
	return snap
}

func metricValue(v float64, ts *time.Time) models.MetricValue {
	mv := models.MetricValue{Value: models.Float(v)}
	if ts != nil {
		t := *ts
		mv.Timestamp = &t
	}
	return mv
}

func lastUpdated(snap models.VitalsSnapshot) *time.Time {
	var out *time.Time
	for _, mv := range snap.Metrics {
		if mv.Timestamp == nil {
			continue
		}
		if out == nil || mv.Timestamp.After(*out) {
			t := *mv.Timestamp
			out = &t
		}
	}
	return out
}
