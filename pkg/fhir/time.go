package fhir

import (
	"strings"
	"time"
)

// FHIR dateTime allows reduced precision; values without a zone are read
// as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDateTime parses a FHIR date or dateTime. Blank or unparseable input
// yields nil.
func ParseDateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// FirstDateTime returns the first parseable value.
func FirstDateTime(values ...string) *time.Time {
	for _, v := range values {
		if t := ParseDateTime(v); t != nil {
			return t
		}
	}
	return nil
}
