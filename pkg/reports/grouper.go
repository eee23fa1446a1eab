// Package reports partitions observation records into report groups: one per
// diagnostic report with valid members, plus synthetic groups for orphan
// observations that no report claims.
package reports

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/terminology"
)

const (
	unknownDay   = "unknown"
	orphanPrefix = "orphan:"
)

// Group builds the report groups of one pass. A record that is a member of
// any report never reappears in a synthetic group. Groups are ordered by
// their most recent member, newest first; ties keep construction order with
// report groups ahead of synthetic ones.
func Group(reports []*models.ReportRecord, observations []*models.ClinicalRecord, labels terminology.Labels) []models.ReportGroup {
	seenIDs := make(map[string]struct{})
	seenPtrs := make(map[*models.ClinicalRecord]struct{})

	groups := make([]models.ReportGroup, 0, len(reports))
	for i, rep := range reports {
		if rep == nil || (rep.ResourceType != "" && rep.ResourceType != "DiagnosticReport") {
			continue
		}
		members := make([]*models.ClinicalRecord, 0, len(rep.Members))
		for _, m := range rep.Members {
			if !m.Valid() {
				continue
			}
			members = append(members, m)
			seenPtrs[m] = struct{}{}
			if m.ID != "" {
				seenIDs[m.ID] = struct{}{}
			}
		}
		if len(members) == 0 {
			continue
		}
		id := rep.ID
		if id == "" {
			id = "report:" + strconv.Itoa(i)
		}
		groups = append(groups, models.ReportGroup{
			ID:       id,
			Kind:     models.GroupReport,
			Title:    rep.Code.DisplayText(labels.UnnamedReport),
			Category: categoryText(rep.Categories, labels),
			Status:   statusOr(rep.Status, labels.Unknown),
			Issued:   rep.Issued,
			Latest:   latestOf(members),
			Records:  members,
		})
	}

	byKey := make(map[string]int)
	for _, rec := range observations {
		if !rec.Valid() || !rec.HasPayload() {
			continue
		}
		if _, ok := seenPtrs[rec]; ok {
			continue
		}
		if _, ok := seenIDs[rec.ID]; ok && rec.ID != "" {
			continue
		}
		key := OrphanKey(rec, labels)
		if pos, ok := byKey[key]; ok {
			groups[pos].Records = append(groups[pos].Records, rec)
			groups[pos].Latest = later(groups[pos].Latest, rec.Effective)
			continue
		}
		byKey[key] = len(groups)
		groups = append(groups, models.ReportGroup{
			ID:       orphanPrefix + key,
			Kind:     models.GroupSynthetic,
			Title:    rec.Code.DisplayText(labels.Observation),
			Category: labels.ObservationGroup,
			Issued:   rec.Effective,
			Latest:   rec.Effective,
			Records:  []*models.ClinicalRecord{rec},
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return newerThan(groups[i].Latest, groups[j].Latest)
	})
	return groups
}

// OrphanKey is the clustering key of an unclaimed record: encounter, UTC
// calendar day (or "unknown") and code text.
func OrphanKey(rec *models.ClinicalRecord, labels terminology.Labels) string {
	day := unknownDay
	if rec.Effective != nil {
		day = rec.Effective.UTC().Format("2006-01-02")
	}
	return rec.EncounterID + "|" + day + "|" + rec.Code.DisplayText(labels.Observation)
}

func categoryText(categories []models.CodeableConcept, labels terminology.Labels) string {
	parts := make([]string, 0, len(categories))
	for i := range categories {
		if t := categories[i].DisplayText(""); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return labels.Laboratory
	}
	return strings.Join(parts, ", ")
}

func statusOr(status, fallback string) string {
	if strings.TrimSpace(status) == "" {
		return fallback
	}
	return status
}

func latestOf(records []*models.ClinicalRecord) *time.Time {
	var out *time.Time
	for _, r := range records {
		out = later(out, r.Effective)
	}
	return out
}

func later(a, b *time.Time) *time.Time {
	if newerThan(b, a) {
		return b
	}
	return a
}

// newerThan orders nil after every timestamp.
func newerThan(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
