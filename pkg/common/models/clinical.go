package models

import (
	"strings"
	"time"
)

// Coding is a single (system, code, display) triple of a coded concept.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is a display text plus zero or more codings.
type CodeableConcept struct {
	Text   string   `json:"text,omitempty"`
	Coding []Coding `json:"coding,omitempty"`
}

// DisplayText returns the concept text, then the first coding display, then
// the first coding code, then fallback.
func (c *CodeableConcept) DisplayText(fallback string) string {
	if c == nil {
		return fallback
	}
	if t := strings.TrimSpace(c.Text); t != "" {
		return t
	}
	if len(c.Coding) > 0 {
		if d := strings.TrimSpace(c.Coding[0].Display); d != "" {
			return d
		}
		if code := strings.TrimSpace(c.Coding[0].Code); code != "" {
			return code
		}
	}
	return fallback
}

// Codes returns every non-empty coding code of the concept.
func (c *CodeableConcept) Codes() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Coding))
	for _, cd := range c.Coding {
		if cd.Code != "" {
			out = append(out, cd.Code)
		}
	}
	return out
}

// HasAny reports whether any coding code of the concept is in set.
func (c *CodeableConcept) HasAny(set CodeSet) bool {
	if c == nil {
		return false
	}
	for _, cd := range c.Coding {
		if cd.Code != "" && set.Contains(cd.Code) {
			return true
		}
	}
	return false
}

func (c *CodeableConcept) IsZero() bool {
	return c == nil || (strings.TrimSpace(c.Text) == "" && len(c.Coding) == 0)
}

// CodeSet is a family of coded tokens treated as equivalent for one metric.
type CodeSet []string

func (s CodeSet) Contains(code string) bool {
	for _, c := range s {
		if c == code {
			return true
		}
	}
	return false
}

// Quantity is a numeric value with a unit. Value is nil when the source
// carried a unit without a number.
type Quantity struct {
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

func (q *Quantity) HasValue() bool {
	return q != nil && q.Value != nil
}

// ReferenceRange is either a low/high pair or free text.
type ReferenceRange struct {
	Low  *Quantity `json:"low,omitempty"`
	High *Quantity `json:"high,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Component is one sub-value of a panel record.
type Component struct {
	Code           CodeableConcept  `json:"code"`
	Value          Value            `json:"value"`
	Interpretation *CodeableConcept `json:"interpretation,omitempty"`
	ReferenceRange *ReferenceRange  `json:"referenceRange,omitempty"`
}

const ResourceObservation = "Observation"

// ClinicalRecord is one observation as retrieved from the record source.
// Records are treated as immutable; every derived view is a new value.
type ClinicalRecord struct {
	ID             string           `json:"id,omitempty"`
	ResourceType   string           `json:"resourceType,omitempty"`
	Code           CodeableConcept  `json:"code"`
	Effective      *time.Time       `json:"effective,omitempty"`
	Value          Value            `json:"value"`
	Interpretation *CodeableConcept `json:"interpretation,omitempty"`
	ReferenceRange *ReferenceRange  `json:"referenceRange,omitempty"`
	Components     []Component      `json:"components,omitempty"`
	Categories     []string         `json:"categories,omitempty"`
	EncounterID    string           `json:"encounterId,omitempty"`
	ReportID       string           `json:"reportId,omitempty"`
	MemberRefs     []string         `json:"memberRefs,omitempty"`
}

// Valid reports whether r is a usable observation. Records mapped from other
// resource types are carried with their own ResourceType and rejected here.
func (r *ClinicalRecord) Valid() bool {
	if r == nil {
		return false
	}
	return r.ResourceType == "" || r.ResourceType == ResourceObservation
}

// HasPayload reports whether the record carries anything to show.
func (r *ClinicalRecord) HasPayload() bool {
	if r == nil {
		return false
	}
	return !r.Value.IsAbsent() || len(r.Components) > 0 || len(r.MemberRefs) > 0
}

// EffectiveUnix returns the effective time in nanoseconds, or zero when the
// record has no timestamp.
func (r *ClinicalRecord) EffectiveUnix() int64 {
	if r == nil || r.Effective == nil {
		return 0
	}
	return r.Effective.UnixNano()
}

// ReportRecord is a diagnostic report with its members already resolved.
type ReportRecord struct {
	ID           string            `json:"id,omitempty"`
	ResourceType string            `json:"resourceType,omitempty"`
	Code         CodeableConcept   `json:"code"`
	Status       string            `json:"status,omitempty"`
	Issued       *time.Time        `json:"issued,omitempty"`
	Categories   []CodeableConcept `json:"categories,omitempty"`
	Members      []*ClinicalRecord `json:"members,omitempty"`
}

// Demographics are the patient attributes the engine reads.
type Demographics struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

// PatientBundle is the complete, already-fetched record set for one
// extraction pass. It is passed explicitly through the extraction chain.
type PatientBundle struct {
	Patient      Demographics        `json:"patient"`
	Observations []*ClinicalRecord   `json:"observations"`
	Reports      []*ReportRecord     `json:"reports"`
	Medications  []*MedicationRecord `json:"medications"`
	Allergies    []*AllergyRecord    `json:"allergies"`
}
