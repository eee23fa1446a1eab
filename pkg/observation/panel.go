package observation

import (
	"github.com/synaptica-ai/bedside/pkg/common/models"
)

// Part names one sub-value of a panel and the codes identifying it both as a
// panel component and as a standalone record.
type Part struct {
	Name  string
	Codes models.CodeSet
}

// Selection is one extracted value and the record it was read from.
type Selection struct {
	Value  *float64
	Record *models.ClinicalRecord
}

func (s Selection) Timestamp() int64 {
	return s.Record.EffectiveUnix()
}

// PanelSelection is the outcome of SelectPanel.
type PanelSelection struct {
	FromPanel bool
	Panel     *models.ClinicalRecord
	Parts     map[string]Selection
}

// ComponentValue returns the first component of panel whose own codes
// intersect codes.
func ComponentValue(panel *models.ClinicalRecord, codes models.CodeSet) (models.Component, bool) {
	if panel == nil {
		return models.Component{}, false
	}
	for _, c := range panel.Components {
		if c.Code.HasAny(codes) {
			return c, true
		}
	}
	return models.Component{}, false
}

// Decompose extracts the numeric value of every part from panel's
// components. Parts without a numeric component map to nil.
func Decompose(panel *models.ClinicalRecord, parts []Part) map[string]*float64 {
	out := make(map[string]*float64, len(parts))
	for _, p := range parts {
		out[p.Name] = nil
		comp, ok := ComponentValue(panel, p.Codes)
		if !ok {
			continue
		}
		if v, ok := comp.Value.Number(); ok {
			v := v
			out[p.Name] = &v
		}
	}
	return out
}

// SelectPanel picks the latest panel record with components and decomposes
// it. A panel, when present, wins over standalone records for every part
// even if a standalone record is more recent. Without a panel each part is
// selected independently from standalone records.
func SelectPanel(ix *Index, panelCodes models.CodeSet, parts []Part) PanelSelection {
	sel := PanelSelection{Parts: make(map[string]Selection, len(parts))}

	panel := latestWithComponents(ix.Matching(panelCodes))
	if panel != nil {
		sel.FromPanel = true
		sel.Panel = panel
		for name, v := range Decompose(panel, parts) {
			sel.Parts[name] = Selection{Value: v, Record: panel}
		}
		return sel
	}

	for _, p := range parts {
		rec := ix.Latest(p.Codes)
		s := Selection{Record: rec}
		if rec != nil {
			if v, ok := rec.Value.Number(); ok {
				s.Value = &v
			}
		}
		sel.Parts[p.Name] = s
	}
	return sel
}

func latestWithComponents(records []*models.ClinicalRecord) *models.ClinicalRecord {
	withComponents := make([]*models.ClinicalRecord, 0, len(records))
	for _, rec := range records {
		if len(rec.Components) > 0 {
			withComponents = append(withComponents, rec)
		}
	}
	return pickLatest(withComponents)
}
