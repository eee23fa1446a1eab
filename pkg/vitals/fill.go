package vitals

import "github.com/synaptica-ai/bedside/pkg/common/models"

// Fill returns a copy of primary where every null metric is taken from
// secondary. Values present in primary are never overwritten and
// LastUpdated stays the primary's.
func Fill(primary, secondary models.VitalsSnapshot) models.VitalsSnapshot {
	out := models.NewVitalsSnapshot()
	for _, metric := range models.AllMetrics {
		mv := primary.Get(metric)
		if mv.Value == nil {
			if alt := secondary.Get(metric); alt.Value != nil && !nonFinite(alt.Value) {
				mv = alt
			}
		}
		out.Metrics[metric] = mv
	}
	out.LastUpdated = primary.LastUpdated
	return out
}

func nonFinite(v *float64) bool {
	return models.Finite(v) == nil
}

// Displayed is the set of values a client currently shows, keyed by metric
// name. Unknown keys are ignored.
type Displayed map[string]*float64

// Snapshot converts displayed values into an untimed snapshot usable as the
// secondary source of Fill.
func (d Displayed) Snapshot() models.VitalsSnapshot {
	snap := models.NewVitalsSnapshot()
	for _, metric := range models.AllMetrics {
		if v, ok := d[string(metric)]; ok && v != nil {
			snap.Metrics[metric] = models.MetricValue{Value: models.Float(*v)}
		}
	}
	return snap
}
