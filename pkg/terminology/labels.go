package terminology

// Labels are the display strings of the summary view. Translation lookup is
// external; a catalog file may override any label.
type Labels struct {
	Unknown           string `yaml:"unknown" json:"unknown"`
	NotAvailable      string `yaml:"notAvailable" json:"notAvailable"`
	Observation       string `yaml:"observation" json:"observation"`
	ObservationGroup  string `yaml:"observationGroup" json:"observationGroup"`
	UnnamedReport     string `yaml:"unnamedReport" json:"unnamedReport"`
	Laboratory        string `yaml:"laboratory" json:"laboratory"`
	ReferenceRange    string `yaml:"referenceRange" json:"referenceRange"`
	CriticalHigh      string `yaml:"criticalHigh" json:"criticalHigh"`
	High              string `yaml:"high" json:"high"`
	CriticalLow       string `yaml:"criticalLow" json:"criticalLow"`
	Low               string `yaml:"low" json:"low"`
	Abnormal          string `yaml:"abnormal" json:"abnormal"`
	Positive          string `yaml:"positive" json:"positive"`
	Negative          string `yaml:"negative" json:"negative"`
	Normal            string `yaml:"normal" json:"normal"`
	UnknownMedication string `yaml:"unknownMedication" json:"unknownMedication"`
	Dose              string `yaml:"dose" json:"dose"`
	Route             string `yaml:"route" json:"route"`
	Frequency         string `yaml:"frequency" json:"frequency"`
	Separator         string `yaml:"separator" json:"separator"`
	StatusActive      string `yaml:"statusActive" json:"statusActive"`
	StatusCompleted   string `yaml:"statusCompleted" json:"statusCompleted"`
	StatusStopped     string `yaml:"statusStopped" json:"statusStopped"`
	Verified          string `yaml:"verified" json:"verified"`
	HighRisk          string `yaml:"highRisk" json:"highRisk"`
	NormalRisk        string `yaml:"normalRisk" json:"normalRisk"`
}

func DefaultLabels() Labels {
	return Labels{
		Unknown:           "Unknown",
		NotAvailable:      "N/A",
		Observation:       "Observation",
		ObservationGroup:  "Observation group",
		UnnamedReport:     "Unnamed report",
		Laboratory:        "Laboratory",
		ReferenceRange:    "Ref",
		CriticalHigh:      "Critical high",
		High:              "High",
		CriticalLow:       "Critical low",
		Low:               "Low",
		Abnormal:          "Abnormal",
		Positive:          "Positive",
		Negative:          "Negative",
		Normal:            "Normal",
		UnknownMedication: "Unknown medication",
		Dose:              "Dose",
		Route:             "Route",
		Frequency:         "Freq",
		Separator:         " · ",
		StatusActive:      "Active",
		StatusCompleted:   "Completed",
		StatusStopped:     "Stopped",
		Verified:          "Verified",
		HighRisk:          "High risk",
		NormalRisk:        "Normal",
	}
}

// merge fills every empty label of l from def.
func (l Labels) merge(def Labels) Labels {
	fields := []struct {
		dst *string
		src string
	}{
		{&l.Unknown, def.Unknown},
		{&l.NotAvailable, def.NotAvailable},
		{&l.Observation, def.Observation},
		{&l.ObservationGroup, def.ObservationGroup},
		{&l.UnnamedReport, def.UnnamedReport},
		{&l.Laboratory, def.Laboratory},
		{&l.ReferenceRange, def.ReferenceRange},
		{&l.CriticalHigh, def.CriticalHigh},
		{&l.High, def.High},
		{&l.CriticalLow, def.CriticalLow},
		{&l.Low, def.Low},
		{&l.Abnormal, def.Abnormal},
		{&l.Positive, def.Positive},
		{&l.Negative, def.Negative},
		{&l.Normal, def.Normal},
		{&l.UnknownMedication, def.UnknownMedication},
		{&l.Dose, def.Dose},
		{&l.Route, def.Route},
		{&l.Frequency, def.Frequency},
		{&l.Separator, def.Separator},
		{&l.StatusActive, def.StatusActive},
		{&l.StatusCompleted, def.StatusCompleted},
		{&l.StatusStopped, def.StatusStopped},
		{&l.Verified, def.Verified},
		{&l.HighRisk, def.HighRisk},
		{&l.NormalRisk, def.NormalRisk},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
	return l
}
