package models

import "time"

// MedicationNames holds every field of a medication order that may carry its
// display name. Resolution order lives in the medication package.
type MedicationNames struct {
	Concept          *CodeableConcept `json:"concept,omitempty"`
	ReferenceDisplay string           `json:"referenceDisplay,omitempty"`
	Code             *CodeableConcept `json:"code,omitempty"`
	Medication       *CodeableConcept `json:"medication,omitempty"`
	ResourceCode     *CodeableConcept `json:"resourceCode,omitempty"`
}

type Timing struct {
	Frequency  int     `json:"frequency,omitempty"`
	Period     float64 `json:"period,omitempty"`
	PeriodUnit string  `json:"periodUnit,omitempty"`
}

type Range struct {
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
}

// DoseSpec is either a single quantity or a low/high range.
type DoseSpec struct {
	Quantity *Quantity `json:"quantity,omitempty"`
	Range    *Range    `json:"range,omitempty"`
}

type Dosage struct {
	Text   string           `json:"text,omitempty"`
	Route  *CodeableConcept `json:"route,omitempty"`
	Timing *Timing          `json:"timing,omitempty"`
	Dose   *DoseSpec        `json:"dose,omitempty"`
}

type MedicationRecord struct {
	ID       string          `json:"id,omitempty"`
	Status   string          `json:"status,omitempty"`
	Names    MedicationNames `json:"names"`
	Authored *time.Time      `json:"authored,omitempty"`
	Dosage   *Dosage         `json:"dosage,omitempty"`
}
