package medication

import (
	"strings"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

type nameAccessor func(models.MedicationNames) string

// nameChain is the resolution order of a medication display name. The first
// accessor yielding a non-blank string wins.
var nameChain = []nameAccessor{
	func(n models.MedicationNames) string { return conceptText(n.Concept) },
	func(n models.MedicationNames) string { return codingDisplay(n.Concept) },
	func(n models.MedicationNames) string { return codingCode(n.Concept) },
	func(n models.MedicationNames) string { return n.ReferenceDisplay },
	func(n models.MedicationNames) string { return conceptText(n.Code) },
	func(n models.MedicationNames) string { return conceptText(n.Medication) },
	func(n models.MedicationNames) string { return conceptText(n.ResourceCode) },
	func(n models.MedicationNames) string { return codingDisplay(n.Code) },
}

// ResolveName returns the display name of an order, or placeholder when no
// field carries one.
func ResolveName(names models.MedicationNames, placeholder string) string {
	for _, get := range nameChain {
		if v := strings.TrimSpace(get(names)); v != "" {
			return v
		}
	}
	return placeholder
}

func conceptText(cc *models.CodeableConcept) string {
	if cc == nil {
		return ""
	}
	return cc.Text
}

func codingDisplay(cc *models.CodeableConcept) string {
	if cc == nil || len(cc.Coding) == 0 {
		return ""
	}
	return cc.Coding[0].Display
}

func codingCode(cc *models.CodeableConcept) string {
	if cc == nil || len(cc.Coding) == 0 {
		return ""
	}
	return cc.Coding[0].Code
}
