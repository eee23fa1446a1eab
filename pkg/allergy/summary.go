// Package allergy filters allergy records to the ones worth showing and
// renders them.
package allergy

import (
	"strings"
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

type ReactionSummary struct {
	Severity       string `json:"severity,omitempty"`
	Manifestations string `json:"manifestations,omitempty"`
	Description    string `json:"description,omitempty"`
}

type Summary struct {
	ID           string            `json:"id,omitempty"`
	Substance    string            `json:"substance"`
	Criticality  string            `json:"criticality,omitempty"`
	Verification string            `json:"verification,omitempty"`
	Recorded     *time.Time        `json:"recorded,omitempty"`
	Reactions    []ReactionSummary `json:"reactions,omitempty"`
}

// IsActive reports whether the allergy is clinically active or confirmed.
func IsActive(a *models.AllergyRecord) bool {
	if a == nil {
		return false
	}
	return firstCode(a.ClinicalStatus) == "active" || firstCode(a.VerificationStatus) == "confirmed"
}

// Summarize renders every active allergy in input order.
func Summarize(allergies []*models.AllergyRecord, labels terminology.Labels) []Summary {
	out := make([]Summary, 0, len(allergies))
	for _, a := range allergies {
		if !IsActive(a) {
			continue
		}
		s := Summary{
			ID:          a.ID,
			Substance:   a.Substance.DisplayText(labels.Unknown),
			Criticality: a.Criticality,
			Recorded:    a.Recorded,
		}
		if v := a.VerificationStatus.DisplayText(""); v != "" {
			s.Verification = v
		}
		for _, r := range a.Reactions {
			s.Reactions = append(s.Reactions, ReactionSummary{
				Severity:       Capitalize(r.Severity),
				Manifestations: manifestations(r.Manifestations, labels),
				Description:    r.Description,
			})
		}
		out = append(out, s)
	}
	return out
}

func manifestations(list []models.CodeableConcept, labels terminology.Labels) string {
	parts := make([]string, 0, len(list))
	for i := range list {
		if t := list[i].DisplayText(labels.Unknown); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}

func firstCode(cc *models.CodeableConcept) string {
	if cc == nil || len(cc.Coding) == 0 {
		return ""
	}
	return cc.Coding[0].Code
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
