// Package serving keeps an audit trail of risk predictions.
package serving

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

// PredictionLog is one predictor call as seen by the dashboard. It is an
// operational record only: nothing reads it back into a session.
type PredictionLog struct {
	ID         uuid.UUID         `gorm:"primaryKey;column:id" json:"id"`
	PatientID  string            `gorm:"column:patient_id;index" json:"patient_id"`
	RecordID   string            `gorm:"column:record_id" json:"record_id"`
	Features   datatypes.JSONMap `gorm:"column:features" json:"features"`
	Prediction *int              `gorm:"column:prediction" json:"prediction"`
	Outcome    string            `gorm:"column:outcome" json:"outcome"`
	Error      string            `gorm:"column:error" json:"error,omitempty"`
	LatencyMs  float64           `gorm:"column:latency_ms" json:"latency_ms"`
	CreatedAt  time.Time         `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides gorm naming.
func (PredictionLog) TableName() string {
	return "prediction_logs"
}

// NewPredictionLog builds the row for one call. err is recorded verbatim.
func NewPredictionLog(patientID string, record models.RiskFeatureRecord, prediction *int, outcome string, err error, latency time.Duration) PredictionLog {
	entry := PredictionLog{
		ID:         uuid.New(),
		PatientID:  patientID,
		RecordID:   record.ID,
		Features:   featureMap(record),
		Prediction: prediction,
		Outcome:    outcome,
		LatencyMs:  float64(latency.Microseconds()) / 1000.0,
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

func featureMap(record models.RiskFeatureRecord) datatypes.JSONMap {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return datatypes.JSONMap(m)
}

// Repository handles prediction log queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PredictionLog{})
}

func (r *Repository) Record(ctx context.Context, entry PredictionLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// Recent returns the most recent logs of patientID, newest first. An empty
// patientID lists every patient.
func (r *Repository) Recent(ctx context.Context, patientID string, limit int) ([]PredictionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}
	var logs []PredictionLog
	err := q.Find(&logs).Error
	return logs, err
}
