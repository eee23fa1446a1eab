// Package summary assembles the human-readable dashboard view of one
// patient bundle.
package summary

import (
	"time"

	"github.com/synaptica-ai/bedside/pkg/allergy"
	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/medication"
	"github.com/synaptica-ai/bedside/pkg/reports"
	"github.com/synaptica-ai/bedside/pkg/risk"
	"github.com/synaptica-ai/bedside/pkg/terminology"
	"github.com/synaptica-ai/bedside/pkg/vitals"
)

type PatientCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Age    *int   `json:"age"`
}

type ReportView struct {
	ID       string           `json:"id"`
	Kind     models.GroupKind `json:"kind"`
	Title    string           `json:"title"`
	Category string           `json:"category,omitempty"`
	Status   string           `json:"status,omitempty"`
	Issued   *time.Time       `json:"issued,omitempty"`
	Latest   *time.Time       `json:"latest,omitempty"`
	Lines    []reports.Line   `json:"lines"`
}

type View struct {
	Patient     PatientCard           `json:"patient"`
	Vitals      models.VitalsSnapshot `json:"vitals"`
	Reports     []ReportView          `json:"reports"`
	Medications []medication.Row      `json:"medications"`
	Allergies   []allergy.Summary     `json:"allergies"`
}

type Builder struct {
	labels   terminology.Labels
	vitals   *vitals.Builder
	renderer *reports.Renderer
}

func NewBuilder(cat terminology.Catalog) *Builder {
	return &Builder{
		labels:   cat.Labels,
		vitals:   vitals.NewBuilder(cat),
		renderer: reports.NewRenderer(cat.Labels),
	}
}

// Build derives every section from bundle. Nothing is cached between calls.
func (b *Builder) Build(bundle models.PatientBundle, now time.Time) View {
	view := View{
		Patient:     b.card(bundle.Patient, now),
		Vitals:      b.vitals.Build(bundle.Observations),
		Medications: medication.Rows(bundle.Medications, b.labels),
		Allergies:   allergy.Summarize(bundle.Allergies, b.labels),
	}
	for _, g := range reports.Group(bundle.Reports, bundle.Observations, b.labels) {
		rv := ReportView{
			ID:       g.ID,
			Kind:     g.Kind,
			Title:    g.Title,
			Category: g.Category,
			Status:   g.Status,
			Issued:   g.Issued,
			Latest:   g.Latest,
			Lines:    make([]reports.Line, 0, len(g.Records)),
		}
		for _, rec := range g.Records {
			rv.Lines = append(rv.Lines, b.renderer.Record(rec))
		}
		view.Reports = append(view.Reports, rv)
	}
	if view.Reports == nil {
		view.Reports = []ReportView{}
	}
	return view
}

// card ages the patient as of now, unlike the feature record which ages
// them on the measurement date.
func (b *Builder) card(p models.Demographics, now time.Time) PatientCard {
	card := PatientCard{
		ID:     p.ID,
		Name:   p.Name,
		Gender: allergy.Capitalize(p.Gender),
		Age:    risk.ComputeAge(p.BirthDate, now),
	}
	if card.Name == "" {
		card.Name = b.labels.Unknown
	}
	if card.Gender == "" {
		card.Gender = b.labels.Unknown
	}
	return card
}
