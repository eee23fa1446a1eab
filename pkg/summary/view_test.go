package summary

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/fhir"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

const bundleJSON = `{
  "patient": {"id": "p-9", "gender": "male", "birthDate": "1990-06-01",
              "name": [{"given": ["John"], "family": "Smith"}]},
  "observations": [
    {"resourceType": "Observation", "id": "hr", "code": {"text": "Heart rate", "coding": [{"code": "8867-4"}]},
     "effectiveDateTime": "2024-03-10T08:00:00Z", "encounter": {"reference": "Encounter/e1"},
     "valueQuantity": {"value": 101.44, "unit": "/min"}, "interpretation": [{"coding": [{"code": "HH"}]}]},
    {"resourceType": "Observation", "id": "k", "code": {"text": "Potassium"},
     "valueQuantity": {"value": 4.2, "unit": "mmol/L"},
     "referenceRange": [{"low": {"value": 3.5, "unit": "mmol/L"}, "high": {"value": 5.1}}]},
    {"resourceType": "Observation", "id": "empty", "code": {"text": "Pending"}}
  ],
  "diagnosticReports": [
    {"resourceType": "DiagnosticReport", "id": "r1", "status": "final",
     "code": {"text": "Basic metabolic panel"}, "result": [{"reference": "Observation/k"}]}
  ],
  "medications": [
    {"resourceType": "MedicationRequest", "id": "m1", "status": "ACTIVE",
     "medicationCodeableConcept": {"text": "Ceftriaxone"},
     "dosageInstruction": [{"timing": {"repeat": {"frequency": 2, "period": 1, "periodUnit": "d"}},
       "doseAndRate": [{"doseQuantity": {"value": 1, "unit": "g"}}]}]}
  ],
  "allergies": [
    {"resourceType": "AllergyIntolerance", "id": "a1", "code": {"text": "Penicillin"},
     "clinicalStatus": {"coding": [{"code": "active"}]}},
    {"resourceType": "AllergyIntolerance", "id": "a2", "code": {"text": "Latex"},
     "clinicalStatus": {"coding": [{"code": "resolved"}]}}
  ]
}`

func loadBundle(t *testing.T) models.PatientBundle {
	t.Helper()
	wire, err := fhir.Decode([]byte(bundleJSON))
	require.NoError(t, err)
	return fhir.MapBundle(wire)
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	view := NewBuilder(terminology.DefaultCatalog()).Build(loadBundle(t), now)

	assert.Equal(t, "John Smith", view.Patient.Name)
	assert.Equal(t, "Male", view.Patient.Gender)
	require.NotNil(t, view.Patient.Age)
	assert.Equal(t, 34, *view.Patient.Age)

	hr := view.Vitals.Get(models.MetricHeartRate)
	require.NotNil(t, hr.Value)
	assert.Equal(t, 101.4, *hr.Value)

	require.Len(t, view.Reports, 2)
	orphan, report := view.Reports[0], view.Reports[1]
	assert.Equal(t, models.GroupSynthetic, orphan.Kind)
	require.Len(t, orphan.Lines, 1)
	assert.Equal(t, "101.44 /min", orphan.Lines[0].Value)
	require.NotNil(t, orphan.Lines[0].Interpretation)
	assert.Equal(t, "Critical high", orphan.Lines[0].Interpretation.Label)

	assert.Equal(t, "r1", report.ID)
	assert.Equal(t, "Basic metabolic panel", report.Title)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "Ref 3.5-5.1 mmol/L", report.Lines[0].Reference)

	require.Len(t, view.Medications, 1)
	assert.Equal(t, "Ceftriaxone", view.Medications[0].Name)
	assert.Equal(t, "active", view.Medications[0].Status)
	assert.Equal(t, "Dose 1 g · Freq BID", view.Medications[0].Detail)

	require.Len(t, view.Allergies, 1)
	assert.Equal(t, "Penicillin", view.Allergies[0].Substance)
}

func TestBuildEmptyBundle(t *testing.T) {
	view := NewBuilder(terminology.DefaultCatalog()).Build(models.PatientBundle{}, time.Now())

	assert.Equal(t, "Unknown", view.Patient.Name)
	assert.Nil(t, view.Patient.Age)
	assert.Empty(t, view.Reports)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"reports":[]`)
}
