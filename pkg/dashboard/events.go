package dashboard

import (
	"context"
	"encoding/json"

	"github.com/synaptica-ai/bedside/pkg/common/logger"
	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/fhir"
	"github.com/synaptica-ai/bedside/pkg/observability/metrics"
)

// HandleRecordBundle builds the vitals snapshot and feature record of a
// record-bundle event and publishes them as a vitals-snapshot event.
// Events that can never be processed are logged and acknowledged.
func (s *Service) HandleRecordBundle(ctx context.Context, event models.Event) error {
	metrics.ObserveEventConsumed()
	log := logger.Log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	})
	if event.Type != models.EventRecordBundle {
		log.Debug("Ignoring event")
		return nil
	}

	raw, ok := event.Data["bundle"]
	if !ok {
		log.Warn("Record bundle event without bundle")
		return nil
	}
	doc, err := json.Marshal(raw)
	if err != nil {
		log.WithError(err).Warn("Unreadable record bundle")
		return nil
	}
	wire, err := fhir.Decode(doc)
	if err != nil {
		log.WithError(err).Warn("Unreadable record bundle")
		return nil
	}
	bundle := fhir.MapBundle(wire)

	snap := s.Vitals(bundle, nil)
	data := map[string]interface{}{
		"patient_id": bundle.Patient.ID,
		"snapshot":   toData(snap),
	}
	if record, err := s.Features(bundle, nil); err == nil {
		data["features"] = toData(record)
	} else {
		log.WithError(err).Info("No feature record for bundle")
	}

	if s.vitalEvents == nil {
		return nil
	}
	if err := s.vitalEvents.PublishEvent(ctx, models.EventVitalsSnapshot, eventSource, bundle.Patient.ID, data); err != nil {
		return err
	}
	metrics.ObserveEventPublished()
	return nil
}

// toData renders v as a generic JSON object for an event payload.
func toData(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
