// Package observation indexes observation records by code and selects the
// latest value for a code set, decomposing panels where they exist.
package observation

import (
	"github.com/synaptica-ai/bedside/pkg/common/models"
)

// Index maps every coding code to the positions of the records carrying it.
// Positions keep input order so selection stays stable.
type Index struct {
	records []*models.ClinicalRecord
	byCode  map[string][]int
}

func NewIndex(records []*models.ClinicalRecord) *Index {
	ix := &Index{
		records: records,
		byCode:  make(map[string][]int),
	}
	for pos, rec := range records {
		if !rec.Valid() {
			continue
		}
		seen := make(map[string]struct{}, len(rec.Code.Coding))
		for _, code := range rec.Code.Codes() {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			ix.byCode[code] = append(ix.byCode[code], pos)
		}
	}
	return ix
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// Matching returns the records whose code intersects codes, in input order,
// each record at most once.
func (ix *Index) Matching(codes models.CodeSet) []*models.ClinicalRecord {
	if ix == nil || len(codes) == 0 {
		return nil
	}
	marked := make(map[int]struct{})
	for _, code := range codes {
		for _, pos := range ix.byCode[code] {
			marked[pos] = struct{}{}
		}
	}
	if len(marked) == 0 {
		return nil
	}
	out := make([]*models.ClinicalRecord, 0, len(marked))
	for pos, rec := range ix.records {
		if _, ok := marked[pos]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Latest is SelectLatest over the indexed records.
func (ix *Index) Latest(codes models.CodeSet) *models.ClinicalRecord {
	return pickLatest(ix.Matching(codes))
}
