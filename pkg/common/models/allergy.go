package models

import "time"

type Reaction struct {
	Manifestations []CodeableConcept `json:"manifestations,omitempty"`
	Severity       string            `json:"severity,omitempty"`
	Description    string            `json:"description,omitempty"`
}

type AllergyRecord struct {
	ID                 string           `json:"id,omitempty"`
	Substance          CodeableConcept  `json:"substance"`
	ClinicalStatus     *CodeableConcept `json:"clinicalStatus,omitempty"`
	VerificationStatus *CodeableConcept `json:"verificationStatus,omitempty"`
	Criticality        string           `json:"criticality,omitempty"`
	Reactions          []Reaction       `json:"reactions,omitempty"`
	Recorded           *time.Time       `json:"recorded,omitempty"`
}
