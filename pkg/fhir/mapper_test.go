package fhir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/bedside/pkg/common/models"
)

const bundleJSON = `{
  "patient": {"resourceType": "Patient", "id": "p-1", "gender": "female", "birthDate": "1980-02-29",
              "name": [{"given": ["Ada", "M."], "family": "Lovelace"}]},
  "vitalSigns": [
    {"resourceType": "Observation", "id": "t1", "code": {"coding": [{"code": "8310-5"}]},
     "effectiveDateTime": "2024-03-10T08:00:00Z", "valueQuantity": {"value": 38.9, "unit": "Cel"},
     "interpretation": [{"coding": [{"code": "H"}]}]}
  ],
  "observations": [
    {"resourceType": "Observation", "id": "t1", "code": {"coding": [{"code": "8310-5"}]},
     "effectiveDateTime": "2024-03-10T08:00:00Z", "valueQuantity": {"value": 38.9}},
    {"resourceType": "Observation", "id": "bp", "code": {"coding": [{"code": "85354-9"}]},
     "effectivePeriod": {"end": "2024-03-10T09:00:00+02:00"},
     "encounter": {"reference": "Encounter/e1"},
     "category": {"coding": [{"code": "vital-signs"}]},
     "component": [
       {"code": {"coding": [{"code": "8480-6"}]}, "valueQuantity": {"value": 120, "code": "mm[Hg]"},
        "interpretation": {"text": "N"}}
     ]},
    {"resourceType": "Observation", "id": "k", "code": {"text": "Potassium"}, "valueString": "hemolyzed",
     "referenceRange": [{"text": "3.5-5.1"}]}
  ],
  "diagnosticReports": [
    {"resourceType": "DiagnosticReport", "id": "r1", "status": "final", "issued": "2024-03-10",
     "category": [{"text": "Chemistry"}], "result": [{"reference": "Observation/k"}]}
  ],
  "medications": [
    {"resourceType": "MedicationRequest", "id": "m1", "status": "active",
     "medicationReference": {"display": "Ceftriaxone"},
     "dosageInstruction": [{"text": "1 g IV daily",
       "timing": {"repeat": {"frequency": 1, "period": 1, "periodUnit": "d"}},
       "doseAndRate": [{"doseRange": {"low": {"value": 1, "unit": "g"}, "high": {"value": 2}}}]}]}
  ],
  "allergies": [
    {"resourceType": "AllergyIntolerance", "id": "a1", "code": {"text": "Penicillin"},
     "clinicalStatus": {"coding": [{"code": "active"}]}, "recordedDate": "2020-01-01",
     "reaction": [{"severity": "mild", "manifestation": [{"text": "Rash"}]}]}
  ]
}`

func TestMapBundle(t *testing.T) {
	wire, err := Decode([]byte(bundleJSON))
	require.NoError(t, err)

	b := MapBundle(wire)

	assert.Equal(t, "p-1", b.Patient.ID)
	assert.Equal(t, "Ada M. Lovelace", b.Patient.Name)
	assert.Equal(t, "1980-02-29", b.Patient.BirthDate)

	require.Len(t, b.Observations, 3, "duplicate vital sign id is dropped")
	temp := b.Observations[0]
	require.NotNil(t, temp.Interpretation)
	assert.Equal(t, "H", temp.Interpretation.Coding[0].Code)
	v, ok := temp.Value.Number()
	require.True(t, ok)
	assert.Equal(t, 38.9, v)

	bp := b.Observations[1]
	require.NotNil(t, bp.Effective)
	assert.True(t, bp.Effective.Equal(time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Encounter/e1", bp.EncounterID)
	assert.Equal(t, []string{"vital-signs"}, bp.Categories)
	require.Len(t, bp.Components, 1)
	q, _ := bp.Components[0].Value.Quantity()
	assert.Equal(t, "mm[Hg]", q.Unit)
	assert.Equal(t, "N", bp.Components[0].Interpretation.Text)

	k := b.Observations[2]
	s, ok := k.Value.Text()
	require.True(t, ok)
	assert.Equal(t, "hemolyzed", s)
	assert.Equal(t, "3.5-5.1", k.ReferenceRange.Text)
	assert.Nil(t, k.Effective)

	require.Len(t, b.Reports, 1)
	rep := b.Reports[0]
	require.Len(t, rep.Members, 1)
	assert.Same(t, k, rep.Members[0])
	assert.Equal(t, "Chemistry", rep.Categories[0].Text)

	require.Len(t, b.Medications, 1)
	med := b.Medications[0]
	assert.Equal(t, "Ceftriaxone", med.Names.ReferenceDisplay)
	require.NotNil(t, med.Dosage)
	assert.Equal(t, 1, med.Dosage.Timing.Frequency)
	require.NotNil(t, med.Dosage.Dose.Range)
	assert.Equal(t, 2.0, *med.Dosage.Dose.Range.High.Value)

	require.Len(t, b.Allergies, 1)
	assert.Equal(t, "Penicillin", b.Allergies[0].Substance.Text)
	assert.Equal(t, "mild", b.Allergies[0].Reactions[0].Severity)
}

func TestMapReportWithResolvedObservations(t *testing.T) {
	r := &DiagnosticReport{
		ID:           "r2",
		Code:         &CodeableConcept{Text: "CBC"},
		Observations: []*Observation{{ResourceType: "Observation", ID: "wbc"}, nil},
	}
	rep := mapReport(r, nil)

	assert.Equal(t, typeDiagnosticReport, rep.ResourceType)
	require.Len(t, rep.Members, 1)
	assert.Equal(t, "r2", rep.Members[0].ReportID)
}

func TestValueVariants(t *testing.T) {
	s := "trace"
	assert.Equal(t, models.ValueQuantity, value(&Quantity{}, &s, nil).Kind())
	assert.Equal(t, models.ValueString, value(nil, &s, nil).Kind())
	assert.Equal(t, models.ValueConcept, value(nil, nil, &CodeableConcept{Text: "x"}).Kind())
	assert.True(t, value(nil, nil, nil).IsAbsent())
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{"observations": {`))
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	cases := map[string]*time.Time{
		"":                          nil,
		"garbage":                   nil,
		"2024":                      ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		"2024-03":                   ptr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		"2024-03-15":                ptr(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		"2024-03-15T10:20:30":       ptr(time.Date(2024, 3, 15, 10, 20, 30, 0, time.UTC)),
		"2024-03-15T10:20:30.5Z":    ptr(time.Date(2024, 3, 15, 10, 20, 30, 5e8, time.UTC)),
		"2024-03-15T10:20:30-05:00": ptr(time.Date(2024, 3, 15, 15, 20, 30, 0, time.UTC)),
	}
	for in, want := range cases {
		got := ParseDateTime(in)
		if want == nil {
			assert.Nil(t, got, in)
			continue
		}
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), in)
	}
	assert.Nil(t, FirstDateTime("", "nope"))
}

func ptr(t time.Time) *time.Time { return &t }
