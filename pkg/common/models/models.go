package models

import (
	"time"
)

// Event is the envelope of every message on the event bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // record-bundle, vitals-snapshot, risk-assessed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

const (
	EventRecordBundle   = "record-bundle"
	EventVitalsSnapshot = "vitals-snapshot"
	EventRiskAssessed   = "risk-assessed"
)
