package terminology

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// Concept is one clinical metric and the LOINC codes considered equivalent
// for it.
type Concept struct {
	Display string   `yaml:"display" json:"display"`
	LOINC   []string `yaml:"loinc" json:"loinc"`
	Unit    string   `yaml:"unit,omitempty" json:"unit,omitempty"`
}

func (c Concept) Codes() models.CodeSet {
	return models.CodeSet(c.LOINC)
}

// Catalog holds the metric code sets and the display labels used by the
// summary view.
type Catalog struct {
	Concepts map[string]Concept `yaml:"concepts" json:"concepts"`
	Labels   Labels             `yaml:"labels" json:"labels"`
}

// Concept keys used by the vitals builder.
const (
	KeyHeight          = "height"
	KeyWeight          = "weight"
	KeyBMI             = "bmi"
	KeyBloodPressure   = "blood-pressure"
	KeySystolicBP      = "systolic-bp"
	KeyDiastolicBP     = "diastolic-bp"
	KeyHeartRate       = "heart-rate"
	KeyRespiratoryRate = "respiratory-rate"
	KeyTemperature     = "temperature"
	KeySpO2            = "spo2"
)

// Load reads a YAML catalog from path. Concepts and labels missing from the
// file keep their defaults.
func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Concepts) == 0 {
		return Catalog{}, fmt.Errorf("terminology catalog empty")
	}
	return cat.withDefaults(), nil
}

func (c Catalog) withDefaults() Catalog {
	def := DefaultCatalog()
	merged := make(map[string]Concept, len(def.Concepts))
	for k, v := range def.Concepts {
		merged[k] = v
	}
	for k, v := range c.Concepts {
		merged[strings.ToLower(k)] = v
	}
	return Catalog{Concepts: merged, Labels: c.Labels.merge(def.Labels)}
}

func (c Catalog) Lookup(key string) (Concept, bool) {
	if c.Concepts == nil {
		return Concept{}, false
	}
	concept, ok := c.Concepts[strings.ToLower(key)]
	if ok {
		return concept, true
	}
	for k, v := range c.Concepts {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return Concept{}, false
}

// Codes returns the code set of key, or nil when the key is unknown.
func (c Catalog) Codes(key string) models.CodeSet {
	concept, ok := c.Lookup(key)
	if !ok {
		return nil
	}
	return concept.Codes()
}

func DefaultCatalog() Catalog {
	return Catalog{
		Concepts: map[string]Concept{
			KeyHeight:          {Display: "Height", LOINC: []string{"8302-2"}, Unit: "cm"},
			KeyWeight:          {Display: "Weight", LOINC: []string{"29463-7"}, Unit: "kg"},
			KeyBMI:             {Display: "BMI", LOINC: []string{"39156-5"}, Unit: "kg/m2"},
			KeyBloodPressure:   {Display: "Blood Pressure", LOINC: []string{"85354-9", "55284-4"}, Unit: "mmHg"},
			KeySystolicBP:      {Display: "Systolic BP", LOINC: []string{"8480-6"}, Unit: "mmHg"},
			KeyDiastolicBP:     {Display: "Diastolic BP", LOINC: []string{"8462-4"}, Unit: "mmHg"},
			KeyHeartRate:       {Display: "HR", LOINC: []string{"8867-4"}, Unit: "bpm"},
			KeyRespiratoryRate: {Display: "RR", LOINC: []string{"9279-1"}, Unit: "/min"},
			KeyTemperature:     {Display: "Temp", LOINC: []string{"8310-5", "8320-5", "8331-1"}, Unit: "Cel"},
			KeySpO2:            {Display: "SpO₂", LOINC: []string{"59408-5"}, Unit: "%"},
		},
		Labels: DefaultLabels(),
	}
}
