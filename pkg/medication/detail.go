package medication

import (
	"strings"
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

const statusUnknown = "unknown"

// Row is one rendered medication order.
type Row struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"statusLabel"`
	Detail      string     `json:"detail,omitempty"`
	Authored    *time.Time `json:"authored,omitempty"`
}

// Detail joins the dose, route and frequency of an instruction, leaving out
// the parts that resolve to nothing.
func Detail(d *models.Dosage, labels terminology.Labels) string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if dose := ResolveDoseAmount(d.Dose, d.Text); dose != "" {
		parts = append(parts, labels.Dose+" "+dose)
	}
	if route := d.Route.DisplayText(""); route != "" {
		parts = append(parts, labels.Route+" "+route)
	}
	if freq := ResolveFrequencyCode(d.Timing); freq != "" {
		parts = append(parts, labels.Frequency+" "+freq)
	}
	return strings.Join(parts, labels.Separator)
}

// NormalizeStatus lower-cases status; blank reads as "unknown".
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return statusUnknown
	}
	return s
}

func StatusLabel(status string, labels terminology.Labels) string {
	switch status {
	case "active":
		return labels.StatusActive
	case "completed":
		return labels.StatusCompleted
	case "stopped":
		return labels.StatusStopped
	case statusUnknown:
		return labels.Unknown
	}
	return status
}

// Rows renders every order in input order. Nil orders are skipped.
func Rows(meds []*models.MedicationRecord, labels terminology.Labels) []Row {
	out := make([]Row, 0, len(meds))
	for _, m := range meds {
		if m == nil {
			continue
		}
		status := NormalizeStatus(m.Status)
		out = append(out, Row{
			ID:          m.ID,
			Name:        ResolveName(m.Names, labels.UnknownMedication),
			Status:      status,
			StatusLabel: StatusLabel(status, labels),
			Detail:      Detail(m.Dosage, labels),
			Authored:    m.Authored,
		})
	}
	return out
}
