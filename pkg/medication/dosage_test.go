package medication

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

func TestResolveFrequencyCode(t *testing.T) {
	cases := []struct {
		name   string
		timing *models.Timing
		want   string
	}{
		{"nil", nil, ""},
		{"bid", &models.Timing{Frequency: 2, Period: 1, PeriodUnit: "d"}, "BID"},
		{"qd", &models.Timing{Frequency: 1, Period: 1, PeriodUnit: "day"}, "QD"},
		{"qid", &models.Timing{Frequency: 4, Period: 1, PeriodUnit: "Days"}, "QID"},
		{"five a day", &models.Timing{Frequency: 5, Period: 1, PeriodUnit: "d"}, "5x/day"},
		{"q8h", &models.Timing{Frequency: 1, Period: 8, PeriodUnit: "h"}, "q8h"},
		{"twice every 12 hours", &models.Timing{Frequency: 2, Period: 12, PeriodUnit: "hour"}, "2x every 12 hours"},
		{"weekly", &models.Timing{Frequency: 1, Period: 1, PeriodUnit: "wk"}, "QW"},
		{"monthly", &models.Timing{Frequency: 1, Period: 1, PeriodUnit: "mo"}, "QM"},
		{"every other day", &models.Timing{Frequency: 1, Period: 2, PeriodUnit: "d"}, "1x every 2 days"},
		{"three a week", &models.Timing{Frequency: 3, Period: 1, PeriodUnit: "wk"}, "3x every 1 week"},
		{"zero frequency", &models.Timing{Frequency: 0, Period: 1, PeriodUnit: "d"}, ""},
		{"zero period", &models.Timing{Frequency: 1, Period: 0, PeriodUnit: "d"}, ""},
		{"unknown unit", &models.Timing{Frequency: 1, Period: 1, PeriodUnit: "min"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveFrequencyCode(tc.timing))
		})
	}
}

func TestResolveDoseAmount(t *testing.T) {
	qty := func(v float64, unit string) *models.Quantity {
		return &models.Quantity{Value: models.Float(v), Unit: unit}
	}

	cases := []struct {
		name string
		dose *models.DoseSpec
		text string
		want string
	}{
		{"quantity with synonym", &models.DoseSpec{Quantity: qty(2, "Tablets")}, "", "2 tab"},
		{"quantity rounded", &models.DoseSpec{Quantity: qty(0.25, "mg")}, "", "0.3 mg"},
		{"quantity unknown unit kept", &models.DoseSpec{Quantity: qty(1, "vial")}, "", "1 vial"},
		{"range", &models.DoseSpec{Range: &models.Range{Low: qty(1, "puffs"), High: qty(2, "")}}, "", "1-2 puff"},
		{"range high only", &models.DoseSpec{Range: &models.Range{High: qty(10, "milliliters")}}, "", "10 mL"},
		{"free text", nil, "Take 1.5 tablets by mouth twice daily", "1.5 tab"},
		{"free text ml", &models.DoseSpec{}, "5ml syrup at night", "5 mL"},
		{"micrograms abbreviated", &models.DoseSpec{Quantity: qty(250, "ug")}, "", "250 mcg"},
		{"greek mu micrograms", &models.DoseSpec{Quantity: qty(250, "\u03bcg")}, "", "250 mcg"},
		{"micro sign micrograms", &models.DoseSpec{Quantity: qty(250, "\u00b5g")}, "", "250 mcg"},
		{"micrograms spelled out", &models.DoseSpec{Quantity: qty(250, "Micrograms")}, "", "250 mcg"},
		{"microgramme", &models.DoseSpec{Range: &models.Range{Low: qty(50, "microgramme"), High: qty(100, "")}}, "", "50-100 mcg"},
		{"free text micrograms", nil, "inhale 100 micrograms twice daily", "100 mcg"},
		{"free text micro sign", nil, "50\u00b5g once daily", "50 mcg"},
		{"free text microgrammes", nil, "200 microgrammes at night", "200 mcg"},
		{"free text no match", nil, "as directed", ""},
		{"nothing", nil, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveDoseAmount(tc.dose, tc.text))
		})
	}
}

func TestNormalizeUnitMicrograms(t *testing.T) {
	for _, unit := range []string{"mcg", "ug", "UG", "\u03bcg", "\u00b5g", "microgram", "micrograms", "microgramme"} {
		assert.Equal(t, "mcg", NormalizeUnit(unit), unit)
	}
}

func TestDetail(t *testing.T) {
	labels := terminology.DefaultLabels()
	d := &models.Dosage{
		Text:   "500 mg every 8 hours",
		Route:  &models.CodeableConcept{Coding: []models.Coding{{Display: "Oral"}}},
		Timing: &models.Timing{Frequency: 1, Period: 8, PeriodUnit: "h"},
	}

	assert.Equal(t, "Dose 500 mg · Route Oral · Freq q8h", Detail(d, labels))
	assert.Equal(t, "Freq BID", Detail(&models.Dosage{Timing: &models.Timing{Frequency: 2, Period: 1, PeriodUnit: "d"}}, labels))
	assert.Empty(t, Detail(nil, labels))
}
