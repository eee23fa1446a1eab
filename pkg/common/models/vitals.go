package models

import (
	"encoding/json"
	"math"
	"time"
)

// Metric names the closed set of vitals carried by a snapshot.
type Metric string

const (
	MetricHeight          Metric = "height"
	MetricWeight          Metric = "weight"
	MetricBMI             Metric = "bmi"
	MetricHeartRate       Metric = "heart_rate"
	MetricRespiratoryRate Metric = "respiratory_rate"
	MetricTemperature     Metric = "temperature"
	MetricSpO2            Metric = "spo2"
	MetricSystolicBP      Metric = "systolic_bp"
	MetricDiastolicBP     Metric = "diastolic_bp"
)

// AllMetrics lists every snapshot metric in display order.
var AllMetrics = []Metric{
	MetricHeight,
	MetricWeight,
	MetricBMI,
	MetricSystolicBP,
	MetricDiastolicBP,
	MetricHeartRate,
	MetricRespiratoryRate,
	MetricTemperature,
	MetricSpO2,
}

type MetricValue struct {
	Value     *float64   `json:"value"`
	Timestamp *time.Time `json:"timestamp"`
}

// VitalsSnapshot always holds an entry for every metric in AllMetrics.
type VitalsSnapshot struct {
	Metrics     map[Metric]MetricValue `json:"metrics"`
	LastUpdated *time.Time             `json:"lastUpdated"`
}

// NewVitalsSnapshot returns a snapshot with every metric present and null.
func NewVitalsSnapshot() VitalsSnapshot {
	m := make(map[Metric]MetricValue, len(AllMetrics))
	for _, metric := range AllMetrics {
		m[metric] = MetricValue{}
	}
	return VitalsSnapshot{Metrics: m}
}

// Get returns the metric entry; unknown metrics read as null.
func (s VitalsSnapshot) Get(metric Metric) MetricValue {
	if s.Metrics == nil {
		return MetricValue{}
	}
	return s.Metrics[metric]
}

// RiskFeatureRecord is the fixed-shape payload of the sepsis predictor.
type RiskFeatureRecord struct {
	ID     string   `json:"id"`
	Age    *int     `json:"age"`
	Gender *int     `json:"gender"`
	HR     *float64 `json:"hr"`
	Temp   *float64 `json:"tp"`
	SpO2   *float64 `json:"spo2"`
	SBP    *float64 `json:"sbp"`
	DBP    *float64 `json:"dbp"`
	Resp   *float64 `json:"resp"`
}

// MarshalJSON never emits NaN or infinities: such values become null.
func (r RiskFeatureRecord) MarshalJSON() ([]byte, error) {
	type wire RiskFeatureRecord
	w := wire(r)
	w.HR = Finite(w.HR)
	w.Temp = Finite(w.Temp)
	w.SpO2 = Finite(w.SpO2)
	w.SBP = Finite(w.SBP)
	w.DBP = Finite(w.DBP)
	w.Resp = Finite(w.Resp)
	return json.Marshal(w)
}

// Finite returns v unless it points at NaN or an infinity.
func Finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
