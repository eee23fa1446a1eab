package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	httpRequests        atomic.Int64
	httpServerErrors    atomic.Int64
	snapshotsBuilt      atomic.Int64
	predictionsOK       atomic.Int64
	predictionsFailed   atomic.Int64
	predictionsDropped  atomic.Int64
	literatureCacheHit  atomic.Int64
	literatureCacheMiss atomic.Int64
	eventsConsumed      atomic.Int64
	eventsPublished     atomic.Int64
)

// Prediction outcomes.
const (
	PredictionOK         = "ok"
	PredictionFailed     = "failed"
	PredictionSuperseded = "superseded"
)

func Init() {}

func ObserveRequest(status int) {
	httpRequests.Add(1)
	if status >= 500 {
		httpServerErrors.Add(1)
	}
}

func ObserveSnapshot() {
	snapshotsBuilt.Add(1)
}

func ObservePrediction(outcome string) {
	switch outcome {
	case PredictionOK:
		predictionsOK.Add(1)
	case PredictionSuperseded:
		predictionsDropped.Add(1)
	default:
		predictionsFailed.Add(1)
	}
}

func ObserveLiteratureCache(hit bool) {
	if hit {
		literatureCacheHit.Add(1)
		return
	}
	literatureCacheMiss.Add(1)
}

func ObserveEventConsumed() {
	eventsConsumed.Add(1)
}

func ObserveEventPublished() {
	eventsPublished.Add(1)
}

type series struct {
	name, help string
	value      *atomic.Int64
}

func all() []series {
	return []series{
		{"bedside_http_requests_total", "HTTP requests served.", &httpRequests},
		{"bedside_http_server_errors_total", "HTTP requests answered with a 5xx status.", &httpServerErrors},
		{"bedside_vitals_snapshots_total", "Vitals snapshots built.", &snapshotsBuilt},
		{"bedside_predictions_ok_total", "Risk predictions that completed and were applied.", &predictionsOK},
		{"bedside_predictions_failed_total", "Risk predictions that failed.", &predictionsFailed},
		{"bedside_predictions_superseded_total", "Risk predictions discarded because a newer request replaced them.", &predictionsDropped},
		{"bedside_literature_cache_hits_total", "Literature lookups served from cache.", &literatureCacheHit},
		{"bedside_literature_cache_misses_total", "Literature lookups that reached the upstream index.", &literatureCacheMiss},
		{"bedside_events_consumed_total", "Record bundle events handled.", &eventsConsumed},
		{"bedside_events_published_total", "Events published to the bus.", &eventsPublished},
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	for _, s := range all() {
		fmt.Fprintf(w, "# HELP %s %s\n", s.name, s.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", s.name)
		fmt.Fprintf(w, "%s %d\n", s.name, s.value.Load())
	}
}
