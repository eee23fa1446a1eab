// Package fhir holds the FHIR R4 JSON shapes the dashboard receives and maps
// them into the engine's domain types.
package fhir

import (
	"bytes"
	"encoding/json"
)

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Text   string   `json:"text,omitempty"`
	Coding []Coding `json:"coding,omitempty"`
}

// ConceptList decodes either a single CodeableConcept or an array of them.
// Record sources disagree on the cardinality of interpretation and category.
type ConceptList []CodeableConcept

func (l *ConceptList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []CodeableConcept
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var single CodeableConcept
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = ConceptList{single}
	return nil
}

func (l ConceptList) First() *CodeableConcept {
	if len(l) == 0 {
		return nil
	}
	return &l[0]
}

type Quantity struct {
	Value  *float64 `json:"value,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	System string   `json:"system,omitempty"`
	Code   string   `json:"code,omitempty"`
}

type Range struct {
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
}

type ReferenceRange struct {
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
	Text string    `json:"text,omitempty"`
}

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

type Patient struct {
	ResourceType string      `json:"resourceType,omitempty"`
	ID           string      `json:"id,omitempty"`
	Gender       string      `json:"gender,omitempty"`
	BirthDate    string      `json:"birthDate,omitempty"`
	Name         []HumanName `json:"name,omitempty"`
}

type ObservationComponent struct {
	Code                 *CodeableConcept `json:"code,omitempty"`
	ValueQuantity        *Quantity        `json:"valueQuantity,omitempty"`
	ValueString          *string          `json:"valueString,omitempty"`
	ValueCodeableConcept *CodeableConcept `json:"valueCodeableConcept,omitempty"`
	Interpretation       ConceptList      `json:"interpretation,omitempty"`
	ReferenceRange       []ReferenceRange `json:"referenceRange,omitempty"`
}

type Observation struct {
	ResourceType         string                 `json:"resourceType,omitempty"`
	ID                   string                 `json:"id,omitempty"`
	Status               string                 `json:"status,omitempty"`
	Category             ConceptList            `json:"category,omitempty"`
	Code                 *CodeableConcept       `json:"code,omitempty"`
	Encounter            *Reference             `json:"encounter,omitempty"`
	EffectiveDateTime    string                 `json:"effectiveDateTime,omitempty"`
	EffectivePeriod      *Period                `json:"effectivePeriod,omitempty"`
	Issued               string                 `json:"issued,omitempty"`
	ValueQuantity        *Quantity              `json:"valueQuantity,omitempty"`
	ValueString          *string                `json:"valueString,omitempty"`
	ValueCodeableConcept *CodeableConcept       `json:"valueCodeableConcept,omitempty"`
	Interpretation       ConceptList            `json:"interpretation,omitempty"`
	ReferenceRange       []ReferenceRange       `json:"referenceRange,omitempty"`
	Component            []ObservationComponent `json:"component,omitempty"`
	HasMember            []Reference            `json:"hasMember,omitempty"`
}

type DiagnosticReport struct {
	ResourceType      string           `json:"resourceType,omitempty"`
	ID                string           `json:"id,omitempty"`
	Status            string           `json:"status,omitempty"`
	Category          ConceptList      `json:"category,omitempty"`
	Code              *CodeableConcept `json:"code,omitempty"`
	EffectiveDateTime string           `json:"effectiveDateTime,omitempty"`
	Issued            string           `json:"issued,omitempty"`
	Result            []Reference      `json:"result,omitempty"`
	// Observations are the result references already resolved by the
	// record source.
	Observations []*Observation `json:"_observations,omitempty"`
}

type TimingRepeat struct {
	Frequency  *int     `json:"frequency,omitempty"`
	Period     *float64 `json:"period,omitempty"`
	PeriodUnit string   `json:"periodUnit,omitempty"`
}

type Timing struct {
	Repeat *TimingRepeat `json:"repeat,omitempty"`
}

type DoseAndRate struct {
	DoseQuantity *Quantity `json:"doseQuantity,omitempty"`
	DoseRange    *Range    `json:"doseRange,omitempty"`
}

type Dosage struct {
	Text        string           `json:"text,omitempty"`
	Route       *CodeableConcept `json:"route,omitempty"`
	Timing      *Timing          `json:"timing,omitempty"`
	DoseAndRate []DoseAndRate    `json:"doseAndRate,omitempty"`
}

type resourceCode struct {
	Code *CodeableConcept `json:"code,omitempty"`
}

// MedicationRequest also accepts MedicationStatement-shaped entries, which
// carry their instructions under "dosage" and a name under "code".
type MedicationRequest struct {
	ResourceType              string           `json:"resourceType,omitempty"`
	ID                        string           `json:"id,omitempty"`
	Status                    string           `json:"status,omitempty"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	MedicationReference       *Reference       `json:"medicationReference,omitempty"`
	AuthoredOn                string           `json:"authoredOn,omitempty"`
	EffectiveDateTime         string           `json:"effectiveDateTime,omitempty"`
	DosageInstruction         []Dosage         `json:"dosageInstruction,omitempty"`
	Dosage                    []Dosage         `json:"dosage,omitempty"`
	Code                      *CodeableConcept `json:"code,omitempty"`
	Medication                *CodeableConcept `json:"medication,omitempty"`
	Resource                  *resourceCode    `json:"resource,omitempty"`
}

type AllergyReaction struct {
	Manifestation []CodeableConcept `json:"manifestation,omitempty"`
	Severity      string            `json:"severity,omitempty"`
	Description   string            `json:"description,omitempty"`
}

type AllergyIntolerance struct {
	ResourceType       string            `json:"resourceType,omitempty"`
	ID                 string            `json:"id,omitempty"`
	Code               *CodeableConcept  `json:"code,omitempty"`
	ClinicalStatus     *CodeableConcept  `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept  `json:"verificationStatus,omitempty"`
	Criticality        string            `json:"criticality,omitempty"`
	Reaction           []AllergyReaction `json:"reaction,omitempty"`
	RecordedDate       string            `json:"recordedDate,omitempty"`
}

// Bundle is the already-resolved record set of one patient as produced by
// the record source.
type Bundle struct {
	Patient           *Patient              `json:"patient,omitempty"`
	Observations      []*Observation        `json:"observations,omitempty"`
	VitalSigns        []*Observation        `json:"vitalSigns,omitempty"`
	DiagnosticReports []*DiagnosticReport   `json:"diagnosticReports,omitempty"`
	Medications       []*MedicationRequest  `json:"medications,omitempty"`
	Allergies         []*AllergyIntolerance `json:"allergies,omitempty"`
}
