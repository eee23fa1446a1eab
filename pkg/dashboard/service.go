// Package dashboard serves the bedside dashboard: summary views, vitals,
// risk features and assessments, and literature lookups over one patient
// bundle at a time.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/synaptica-ai/bedside/pkg/common/logger"
	"github.com/synaptica-ai/bedside/pkg/common/models"
	"github.com/synaptica-ai/bedside/pkg/literature"
	"github.com/synaptica-ai/bedside/pkg/observability/metrics"
	"github.com/synaptica-ai/bedside/pkg/risk"
	"github.com/synaptica-ai/bedside/pkg/serving"
	"github.com/synaptica-ai/bedside/pkg/summary"
	"github.com/synaptica-ai/bedside/pkg/terminology"
	"github.com/synaptica-ai/bedside/pkg/vitals"
)

const eventSource = "dashboard-service"

var (
	ErrPredictorUnavailable = errors.New("dashboard: risk predictor not configured")
	ErrLiteratureDisabled   = errors.New("dashboard: literature search not configured")
)

// Publisher is the event bus as seen by the service.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType, source, key string, data map[string]interface{}) error
}

// AuditRecorder stores one row per predictor call.
type AuditRecorder interface {
	Record(ctx context.Context, entry serving.PredictionLog) error
}

type Options struct {
	Catalog     terminology.Catalog
	Predictor   risk.Predictor
	Literature  literature.Searcher
	Audit       AuditRecorder
	RiskEvents  Publisher
	VitalEvents Publisher
	Now         func() time.Time
}

type Service struct {
	labels      terminology.Labels
	vitals      *vitals.Builder
	summaries   *summary.Builder
	coordinator *risk.Coordinator
	literature  literature.Searcher
	audit       AuditRecorder
	riskEvents  Publisher
	vitalEvents Publisher
	now         func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		labels:      opts.Catalog.Labels,
		vitals:      vitals.NewBuilder(opts.Catalog),
		summaries:   summary.NewBuilder(opts.Catalog),
		literature:  opts.Literature,
		audit:       opts.Audit,
		riskEvents:  opts.RiskEvents,
		vitalEvents: opts.VitalEvents,
		now:         opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Predictor != nil {
		s.coordinator = risk.NewCoordinator(opts.Predictor)
	}
	return s
}

// Assessment is an applied predictor result with its display label.
type Assessment struct {
	Features   models.RiskFeatureRecord `json:"features"`
	Prediction *int                     `json:"prediction"`
	Label      string                   `json:"label"`
	AssessedAt time.Time                `json:"assessedAt"`
}

func (s *Service) Summary(bundle models.PatientBundle) summary.View {
	return s.summaries.Build(bundle, s.now())
}

// Vitals builds the snapshot of bundle and fills its gaps from displayed.
func (s *Service) Vitals(bundle models.PatientBundle, displayed vitals.Displayed) models.VitalsSnapshot {
	snap := s.vitals.Build(bundle.Observations)
	metrics.ObserveSnapshot()
	if len(displayed) > 0 {
		snap = vitals.Fill(snap, displayed.Snapshot())
	}
	return snap
}

// Features derives the predictor input without calling the predictor.
func (s *Service) Features(bundle models.PatientBundle, displayed vitals.Displayed) (models.RiskFeatureRecord, error) {
	snap := s.Vitals(bundle, displayed)
	target := risk.TargetDate(snap, s.now())
	return risk.BuildFeatureRecord(bundle.Patient.ID, target, bundle.Patient, snap)
}

// Assess scores bundle. A call overtaken by a newer one for the same
// patient returns risk.ErrSuperseded and changes nothing.
func (s *Service) Assess(ctx context.Context, bundle models.PatientBundle, displayed vitals.Displayed) (*Assessment, error) {
	record, err := s.Features(bundle, displayed)
	if err != nil {
		return nil, err
	}
	if s.coordinator == nil {
		return nil, ErrPredictorUnavailable
	}
	patientID := bundle.Patient.ID

	start := time.Now()
	result, err := s.coordinator.Assess(ctx, patientID, record)
	latency := time.Since(start)

	outcome := metrics.PredictionOK
	switch {
	case errors.Is(err, risk.ErrSuperseded):
		outcome = metrics.PredictionSuperseded
	case err != nil:
		outcome = metrics.PredictionFailed
	}
	metrics.ObservePrediction(outcome)

	var prediction *int
	if result != nil {
		prediction = result.Prediction
	}
	s.recordAudit(ctx, serving.NewPredictionLog(patientID, record, prediction, outcome, err, latency))

	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"patient_id": patientID,
			"outcome":    outcome,
		}).Warn("Risk assessment not applied")
		return nil, err
	}

	a := s.present(result)
	s.publish(ctx, s.riskEvents, models.EventRiskAssessed, patientID, map[string]interface{}{
		"patient_id": patientID,
		"assessment": toData(a),
	})
	return a, nil
}

// Latest returns the last applied assessment of patientID in this process.
func (s *Service) Latest(patientID string) (*Assessment, bool) {
	if s.coordinator == nil {
		return nil, false
	}
	a, ok := s.coordinator.Latest(patientID)
	if !ok {
		return nil, false
	}
	return s.present(a), true
}

// Clear abandons any call in flight for patientID and forgets its result.
func (s *Service) Clear(patientID string) {
	if s.coordinator != nil {
		s.coordinator.Clear(patientID)
	}
}

func (s *Service) Literature(ctx context.Context, query string, maxResults int) (*literature.Result, error) {
	if s.literature == nil {
		return nil, ErrLiteratureDisabled
	}
	return s.literature.Search(ctx, query, maxResults)
}

func (s *Service) present(a *risk.Assessment) *Assessment {
	return &Assessment{
		Features:   a.Features,
		Prediction: a.Prediction,
		Label:      risk.PredictionLabel(a.Prediction, s.labels.HighRisk, s.labels.NormalRisk, s.labels.NotAvailable),
		AssessedAt: a.AssessedAt,
	}
}

func (s *Service) recordAudit(ctx context.Context, entry serving.PredictionLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Log.WithError(err).WithField("patient_id", entry.PatientID).Warn("Failed to record prediction audit")
	}
}

func (s *Service) publish(ctx context.Context, p Publisher, eventType, key string, data map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(context.WithoutCancel(ctx), eventType, eventSource, key, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish event")
		return
	}
	metrics.ObserveEventPublished()
}
