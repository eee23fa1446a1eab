package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

func ts(day, hour int) *time.Time {
	t := time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func obs(id, text, encounter string, eff *time.Time, v float64) *models.ClinicalRecord {
	return &models.ClinicalRecord{
		ID:          id,
		Code:        models.CodeableConcept{Text: text},
		Effective:   eff,
		EncounterID: encounter,
		Value:       models.QuantityValue(models.Quantity{Value: models.Float(v), Unit: "mg/dL"}),
	}
}

func TestGroupMergesOrphansByEncounterDayAndCode(t *testing.T) {
	labels := terminology.DefaultLabels()
	a := obs("a", "Glucose", "enc-1", ts(3, 8), 110)
	b := obs("b", "Glucose", "enc-1", ts(3, 17), 140)
	c := obs("c", "Glucose", "enc-1", ts(4, 8), 95)

	groups := Group(nil, []*models.ClinicalRecord{a, b, c}, labels)

	require.Len(t, groups, 2)
	assert.Equal(t, "c", groups[0].Records[0].ID)
	assert.Equal(t, models.GroupSynthetic, groups[1].Kind)
	assert.Equal(t, "orphan:enc-1|2024-06-03|Glucose", groups[1].ID)
	assert.Len(t, groups[1].Records, 2)
	assert.Equal(t, ts(3, 17), groups[1].Latest)
}

func TestGroupNeverCountsReportMembersTwice(t *testing.T) {
	labels := terminology.DefaultLabels()
	member := obs("m1", "Potassium", "enc-1", ts(2, 9), 4.1)
	dupCopy := obs("m1", "Potassium", "enc-1", ts(2, 9), 4.1)
	orphan := obs("o1", "Sodium", "enc-1", ts(1, 9), 139)

	report := &models.ReportRecord{
		ID:         "rep-1",
		Code:       models.CodeableConcept{Text: "Basic metabolic panel"},
		Status:     "final",
		Categories: []models.CodeableConcept{{Text: "Chemistry"}, {Coding: []models.Coding{{Display: "Lab"}}}},
		Members:    []*models.ClinicalRecord{member},
	}

	groups := Group([]*models.ReportRecord{report}, []*models.ClinicalRecord{dupCopy, orphan}, labels)

	require.Len(t, groups, 2)
	assert.Equal(t, "rep-1", groups[0].ID)
	assert.Equal(t, "Chemistry, Lab", groups[0].Category)
	assert.Equal(t, "Basic metabolic panel", groups[0].Title)
	assert.Equal(t, "o1", groups[1].Records[0].ID)

	total := 0
	for _, g := range groups {
		total += len(g.Records)
	}
	assert.Equal(t, 2, total)
}

func TestGroupDropsEmptyReportsAndPayloadlessRecords(t *testing.T) {
	labels := terminology.DefaultLabels()
	foreign := obs("x", "Condition", "", ts(1, 1), 1)
	foreign.ResourceType = "Condition"
	empty := &models.ReportRecord{ID: "rep-empty", Members: []*models.ClinicalRecord{foreign, nil}}
	bare := &models.ClinicalRecord{ID: "bare", Code: models.CodeableConcept{Text: "Note"}, Effective: ts(1, 2)}

	groups := Group([]*models.ReportRecord{empty, nil}, []*models.ClinicalRecord{bare}, labels)
	assert.Empty(t, groups)
}

func TestGroupDefaultsAndUndatedOrphans(t *testing.T) {
	labels := terminology.DefaultLabels()
	member := obs("m", "", "", nil, 1)
	report := &models.ReportRecord{Members: []*models.ClinicalRecord{member}}
	undated := obs("u", "", "enc-9", nil, 2)
	dated := obs("d", "HbA1c", "", ts(5, 5), 6.1)

	groups := Group([]*models.ReportRecord{report}, []*models.ClinicalRecord{undated, dated}, labels)

	require.Len(t, groups, 3)
	assert.Equal(t, "d", groups[0].Records[0].ID)

	rep := groups[1]
	assert.Equal(t, "report:0", rep.ID)
	assert.Equal(t, labels.UnnamedReport, rep.Title)
	assert.Equal(t, labels.Laboratory, rep.Category)
	assert.Equal(t, labels.Unknown, rep.Status)

	assert.Equal(t, "orphan:enc-9|unknown|Observation", groups[2].ID)
}

func TestGroupSortIsStableForEqualTimestamps(t *testing.T) {
	labels := terminology.DefaultLabels()
	first := obs("1", "Calcium", "", ts(7, 7), 9)
	second := obs("2", "Magnesium", "", ts(7, 7), 2)

	groups := Group(nil, []*models.ClinicalRecord{first, second}, labels)

	require.Len(t, groups, 2)
	assert.Equal(t, "Calcium", groups[0].Title)
	assert.Equal(t, "Magnesium", groups[1].Title)
}
