package fhir

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

const (
	typeObservation      = "Observation"
	typeDiagnosticReport = "DiagnosticReport"
)

// Decode parses a bundle document.
func Decode(data []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}

// MapBundle converts a wire bundle into the engine's record set. Vital-sign
// observations come first, then the general observations; a record id seen
// twice is kept once.
func MapBundle(b Bundle) models.PatientBundle {
	out := models.PatientBundle{
		Patient: mapPatient(b.Patient),
	}

	seen := make(map[string]struct{})
	byRef := make(map[string]*models.ClinicalRecord)
	for _, group := range [][]*Observation{b.VitalSigns, b.Observations} {
		for _, o := range group {
			if o == nil {
				continue
			}
			if o.ID != "" {
				if _, dup := seen[o.ID]; dup {
					continue
				}
				seen[o.ID] = struct{}{}
			}
			rec := MapObservation(o)
			if rec.ID != "" {
				byRef[typeObservation+"/"+rec.ID] = rec
			}
			out.Observations = append(out.Observations, rec)
		}
	}

	for _, r := range b.DiagnosticReports {
		if r == nil {
			continue
		}
		out.Reports = append(out.Reports, mapReport(r, byRef))
	}
	for _, m := range b.Medications {
		if m == nil {
			continue
		}
		out.Medications = append(out.Medications, MapMedication(m))
	}
	for _, a := range b.Allergies {
		if a == nil {
			continue
		}
		out.Allergies = append(out.Allergies, MapAllergy(a))
	}
	return out
}

func mapPatient(p *Patient) models.Demographics {
	if p == nil {
		return models.Demographics{}
	}
	return models.Demographics{
		ID:        p.ID,
		Name:      FormatName(p.Name),
		Gender:    p.Gender,
		BirthDate: p.BirthDate,
	}
}

// FormatName renders the first name entry as given names then family name.
func FormatName(names []HumanName) string {
	if len(names) == 0 {
		return ""
	}
	n := names[0]
	parts := make([]string, 0, 2)
	if given := strings.TrimSpace(strings.Join(n.Given, " ")); given != "" {
		parts = append(parts, given)
	}
	if family := strings.TrimSpace(n.Family); family != "" {
		parts = append(parts, family)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(n.Text)
	}
	return strings.Join(parts, " ")
}

// MapObservation converts one observation. The effective time is the
// effectiveDateTime, else issued, else the end of the effective period.
func MapObservation(o *Observation) *models.ClinicalRecord {
	rec := &models.ClinicalRecord{
		ID:             o.ID,
		ResourceType:   o.ResourceType,
		Code:           concept(o.Code),
		Value:          value(o.ValueQuantity, o.ValueString, o.ValueCodeableConcept),
		Interpretation: conceptPtr(o.Interpretation.First()),
		ReferenceRange: referenceRange(o.ReferenceRange),
	}
	var periodEnd string
	if o.EffectivePeriod != nil {
		periodEnd = o.EffectivePeriod.End
	}
	rec.Effective = FirstDateTime(o.EffectiveDateTime, o.Issued, periodEnd)

	for _, c := range o.Category {
		for _, cd := range c.Coding {
			if cd.Code != "" {
				rec.Categories = append(rec.Categories, cd.Code)
			}
		}
	}
	if o.Encounter != nil {
		rec.EncounterID = o.Encounter.Reference
	}
	for _, c := range o.Component {
		rec.Components = append(rec.Components, models.Component{
			Code:           concept(c.Code),
			Value:          value(c.ValueQuantity, c.ValueString, c.ValueCodeableConcept),
			Interpretation: conceptPtr(c.Interpretation.First()),
			ReferenceRange: referenceRange(c.ReferenceRange),
		})
	}
	for _, m := range o.HasMember {
		if m.Reference != "" {
			rec.MemberRefs = append(rec.MemberRefs, m.Reference)
		}
	}
	return rec
}

// mapReport uses the pre-resolved members when the source supplied them and
// otherwise resolves result references against the bundle's observations.
func mapReport(r *DiagnosticReport, byRef map[string]*models.ClinicalRecord) *models.ReportRecord {
	rep := &models.ReportRecord{
		ID:           r.ID,
		ResourceType: r.ResourceType,
		Code:         concept(r.Code),
		Status:       r.Status,
		Issued:       FirstDateTime(r.Issued, r.EffectiveDateTime),
	}
	if rep.ResourceType == "" {
		rep.ResourceType = typeDiagnosticReport
	}
	for _, c := range r.Category {
		rep.Categories = append(rep.Categories, concept(&c))
	}

	if len(r.Observations) > 0 {
		for _, o := range r.Observations {
			if o == nil {
				continue
			}
			m := MapObservation(o)
			m.ReportID = r.ID
			rep.Members = append(rep.Members, m)
		}
		return rep
	}
	for _, ref := range r.Result {
		if m, ok := byRef[ref.Reference]; ok {
			rep.Members = append(rep.Members, m)
		}
	}
	return rep
}

// MapMedication converts an order. Only the first dosage instruction is
// kept.
func MapMedication(m *MedicationRequest) *models.MedicationRecord {
	rec := &models.MedicationRecord{
		ID:       m.ID,
		Status:   m.Status,
		Authored: FirstDateTime(m.AuthoredOn, m.EffectiveDateTime),
		Names: models.MedicationNames{
			Concept:    conceptPtr(m.MedicationCodeableConcept),
			Code:       conceptPtr(m.Code),
			Medication: conceptPtr(m.Medication),
		},
	}
	if m.MedicationReference != nil {
		rec.Names.ReferenceDisplay = m.MedicationReference.Display
	}
	if m.Resource != nil {
		rec.Names.ResourceCode = conceptPtr(m.Resource.Code)
	}

	var d *Dosage
	switch {
	case len(m.DosageInstruction) > 0:
		d = &m.DosageInstruction[0]
	case len(m.Dosage) > 0:
		d = &m.Dosage[0]
	}
	if d != nil {
		rec.Dosage = mapDosage(d)
	}
	return rec
}

func mapDosage(d *Dosage) *models.Dosage {
	out := &models.Dosage{
		Text:  d.Text,
		Route: conceptPtr(d.Route),
	}
	if d.Timing != nil && d.Timing.Repeat != nil {
		rep := d.Timing.Repeat
		t := &models.Timing{PeriodUnit: rep.PeriodUnit}
		if rep.Frequency != nil {
			t.Frequency = *rep.Frequency
		}
		if rep.Period != nil {
			t.Period = *rep.Period
		}
		out.Timing = t
	}
	if len(d.DoseAndRate) > 0 {
		dr := d.DoseAndRate[0]
		dose := &models.DoseSpec{Quantity: quantityPtr(dr.DoseQuantity)}
		if dr.DoseRange != nil {
			dose.Range = &models.Range{
				Low:  quantityPtr(dr.DoseRange.Low),
				High: quantityPtr(dr.DoseRange.High),
			}
		}
		out.Dose = dose
	}
	return out
}

func MapAllergy(a *AllergyIntolerance) *models.AllergyRecord {
	rec := &models.AllergyRecord{
		ID:                 a.ID,
		Substance:          concept(a.Code),
		ClinicalStatus:     conceptPtr(a.ClinicalStatus),
		VerificationStatus: conceptPtr(a.VerificationStatus),
		Criticality:        a.Criticality,
		Recorded:           ParseDateTime(a.RecordedDate),
	}
	for _, r := range a.Reaction {
		reaction := models.Reaction{Severity: r.Severity, Description: r.Description}
		for i := range r.Manifestation {
			reaction.Manifestations = append(reaction.Manifestations, concept(&r.Manifestation[i]))
		}
		rec.Reactions = append(rec.Reactions, reaction)
	}
	return rec
}

func concept(c *CodeableConcept) models.CodeableConcept {
	if c == nil {
		return models.CodeableConcept{}
	}
	out := models.CodeableConcept{Text: c.Text}
	for _, cd := range c.Coding {
		out.Coding = append(out.Coding, models.Coding{System: cd.System, Code: cd.Code, Display: cd.Display})
	}
	return out
}

func conceptPtr(c *CodeableConcept) *models.CodeableConcept {
	if c == nil {
		return nil
	}
	out := concept(c)
	return &out
}

func quantityPtr(q *Quantity) *models.Quantity {
	if q == nil {
		return nil
	}
	out := &models.Quantity{Unit: q.Unit}
	if out.Unit == "" {
		out.Unit = q.Code
	}
	if q.Value != nil {
		v := *q.Value
		out.Value = &v
	}
	return out
}

// value picks the first populated variant: quantity, string, coded concept.
func value(q *Quantity, s *string, c *CodeableConcept) models.Value {
	switch {
	case q != nil:
		return models.QuantityValue(*quantityPtr(q))
	case s != nil:
		return models.StringValue(*s)
	case c != nil:
		return models.ConceptValue(concept(c))
	}
	return models.Value{}
}

func referenceRange(list []ReferenceRange) *models.ReferenceRange {
	if len(list) == 0 {
		return nil
	}
	r := list[0]
	return &models.ReferenceRange{
		Low:  quantityPtr(r.Low),
		High: quantityPtr(r.High),
		Text: r.Text,
	}
}
