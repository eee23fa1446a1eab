package observation

import (
	"math"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

// SelectLatest returns the most recent record whose code intersects codes,
// or nil when nothing matches. Records without a timestamp rank below every
// timestamped record. Among equal timestamps the earliest input record wins.
func SelectLatest(records []*models.ClinicalRecord, codes models.CodeSet) *models.ClinicalRecord {
	if len(records) == 0 || len(codes) == 0 {
		return nil
	}
	matched := make([]*models.ClinicalRecord, 0, len(records))
	for _, rec := range records {
		if rec.Valid() && rec.Code.HasAny(codes) {
			matched = append(matched, rec)
		}
	}
	return pickLatest(matched)
}

func pickLatest(records []*models.ClinicalRecord) *models.ClinicalRecord {
	var best *models.ClinicalRecord
	for _, rec := range records {
		if best == nil || newer(rec, best) {
			best = rec
		}
	}
	return best
}

// newer reports whether a strictly outranks b.
func newer(a, b *models.ClinicalRecord) bool {
	switch {
	case a.Effective == nil:
		return false
	case b.Effective == nil:
		return true
	default:
		return a.Effective.After(*b.Effective)
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if places <= 0 {
		return math.Round(v)
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
