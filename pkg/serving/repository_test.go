package serving

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

func TestNewPredictionLog(t *testing.T) {
	record := models.RiskFeatureRecord{ID: "p1-2024-03-15", Age: models.Int(24), HR: models.Float(101)}

	entry := NewPredictionLog("p1", record, models.Int(1), "ok", nil, 1500*time.Microsecond)

	assert.Equal(t, "p1", entry.PatientID)
	assert.Equal(t, "p1-2024-03-15", entry.RecordID)
	assert.Equal(t, 1, *entry.Prediction)
	assert.Equal(t, 1.5, entry.LatencyMs)
	assert.Empty(t, entry.Error)
	assert.Equal(t, float64(101), entry.Features["hr"])
	assert.Nil(t, entry.Features["tp"])
	assert.Contains(t, entry.Features, "tp")
	assert.NotEqual(t, [16]byte{}, [16]byte(entry.ID))
	assert.Equal(t, "prediction_logs", entry.TableName())
}

func TestNewPredictionLogKeepsError(t *testing.T) {
	entry := NewPredictionLog("p1", models.RiskFeatureRecord{ID: "x"}, nil, "failed", errors.New("model down"), 0)
	assert.Equal(t, "model down", entry.Error)
	assert.Nil(t, entry.Prediction)
}
