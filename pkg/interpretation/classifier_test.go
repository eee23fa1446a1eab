package interpretation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

func concept(code string) *models.CodeableConcept {
	return &models.CodeableConcept{Coding: []models.Coding{{Code: code}}}
}

func TestClassifyVocabulary(t *testing.T) {
	c := NewClassifier(terminology.DefaultLabels())

	cases := []struct {
		in       *models.CodeableConcept
		severity Severity
		label    string
	}{
		{concept("HH"), CriticalHigh, "Critical high"},
		{concept("H"), High, "High"},
		{concept("ll"), CriticalLow, "Critical low"},
		{concept("<"), Low, "Low"},
		{&models.CodeableConcept{Text: "Abnormal"}, Abnormal, "Abnormal"},
		{&models.CodeableConcept{Coding: []models.Coding{{Display: "not detected"}}}, Negative, "Negative"},
		{concept("REACTIVE"), Positive, "Positive"},
		{concept("N"), Normal, "Normal"},
	}
	for _, tc := range cases {
		got, ok := c.Classify(tc.in)
		assert.True(t, ok)
		assert.Equal(t, tc.severity, got.Severity)
		assert.Equal(t, tc.label, got.Label)
	}
}

func TestClassifyCriticalDistinctFromHigh(t *testing.T) {
	c := NewClassifier(terminology.DefaultLabels())
	hh, _ := c.Classify(concept("HH"))
	h, _ := c.Classify(concept("H"))

	assert.NotEqual(t, hh.Severity, h.Severity)
	assert.NotEqual(t, hh.Label, h.Label)
}

func TestClassifyUnknownPassesThrough(t *testing.T) {
	c := NewClassifier(terminology.DefaultLabels())
	got, ok := c.Classify(concept("wr"))

	assert.True(t, ok)
	assert.Equal(t, "WR", got.Label)
	assert.Equal(t, Severity("WR"), got.Severity)
	assert.Equal(t, ToneMuted, got.Tone)
}

func TestClassifyAbsent(t *testing.T) {
	c := NewClassifier(terminology.DefaultLabels())

	_, ok := c.Classify(nil)
	assert.False(t, ok)
	_, ok = c.Classify(&models.CodeableConcept{Text: "  "})
	assert.False(t, ok)
}

func TestNormalizedCodePrefersCode(t *testing.T) {
	cc := &models.CodeableConcept{
		Text:   "high",
		Coding: []models.Coding{{Code: "hh", Display: "Critical"}},
	}
	assert.Equal(t, "HH", NormalizedCode(cc))
}
