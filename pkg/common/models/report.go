package models

import "time"

type GroupKind string

const (
	GroupReport    GroupKind = "report"
	GroupSynthetic GroupKind = "synthetic"
)

// ReportGroup is a report, or a synthetic cluster of orphan observations,
// with its member records.
type ReportGroup struct {
	ID       string            `json:"id"`
	Kind     GroupKind         `json:"kind"`
	Title    string            `json:"title"`
	Category string            `json:"category,omitempty"`
	Status   string            `json:"status,omitempty"`
	Issued   *time.Time        `json:"issued,omitempty"`
	Latest   *time.Time        `json:"latest,omitempty"`
	Records  []*ClinicalRecord `json:"records"`
}
