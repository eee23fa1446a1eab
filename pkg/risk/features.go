// Package risk turns a vitals snapshot and patient demographics into the
// fixed-shape feature record of the sepsis predictor, and coordinates the
// in-flight predictor calls of a session.
package risk

import (
	"errors"
	"strings"
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/fhir"
	"github.com/synaptica-ai/bedside/pkg/observation"
)

var ErrMissingPatientID = errors.New("risk: patient id is required")

const dateLayout = "2006-01-02"

// BuildFeatureRecord assembles the predictor payload for one patient and
// target date. The id and age use the calendar date of target in its own
// offset. Vital signs are copied from the snapshot; blood pressure is
// rounded to whole numbers. Absent values stay null.
func BuildFeatureRecord(patientID string, target time.Time, demo models.Demographics, snap models.VitalsSnapshot) (models.RiskFeatureRecord, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return models.RiskFeatureRecord{}, ErrMissingPatientID
	}
	return models.RiskFeatureRecord{
		ID:     patientID + "-" + target.Format(dateLayout),
		Age:    ComputeAge(demo.BirthDate, target),
		Gender: EncodeGender(demo.Gender),
		HR:     copyValue(snap, models.MetricHeartRate),
		Temp:   copyValue(snap, models.MetricTemperature),
		SpO2:   copyValue(snap, models.MetricSpO2),
		SBP:    roundValue(snap, models.MetricSystolicBP),
		DBP:    roundValue(snap, models.MetricDiastolicBP),
		Resp:   copyValue(snap, models.MetricRespiratoryRate),
	}, nil
}

// ComputeAge returns the age in whole years on the calendar date of on, one
// less than the year difference when the birthday has not yet come that
// year. Both dates are read in their own recorded offset. A blank or
// unparseable birth date, or one after on, yields nil.
func ComputeAge(birthDate string, on time.Time) *int {
	born := fhir.ParseDateTime(birthDate)
	if born == nil {
		return nil
	}
	b := *born
	age := on.Year() - b.Year()
	if on.Month() < b.Month() || (on.Month() == b.Month() && on.Day() < b.Day()) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}

// EncodeGender maps male to 1 and female to 0; anything else is null.
func EncodeGender(gender string) *int {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male":
		return models.Int(1)
	case "female":
		return models.Int(0)
	}
	return nil
}

// TargetDate is the snapshot's last update when it has one, else now.
func TargetDate(snap models.VitalsSnapshot, now time.Time) time.Time {
	if snap.LastUpdated != nil {
		return *snap.LastUpdated
	}
	return now
}

func copyValue(snap models.VitalsSnapshot, metric models.Metric) *float64 {
	v := models.Finite(snap.Get(metric).Value)
	if v == nil {
		return nil
	}
	return models.Float(*v)
}

func roundValue(snap models.VitalsSnapshot, metric models.Metric) *float64 {
	v := copyValue(snap, metric)
	if v == nil {
		return nil
	}
	return models.Float(observation.Round(*v, 0))
}

// PredictionLabel renders a prediction outcome for display.
func PredictionLabel(prediction *int, highRisk, normal, notAvailable string) string {
	if prediction == nil {
		return notAvailable
	}
	switch *prediction {
	case 1:
		return highRisk
	case 0:
		return normal
	}
	return notAvailable
}
