package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	for _, s := range all() {
		s.value.Store(0)
	}
}

func TestWritePrometheus(t *testing.T) {
	reset()
	ObserveRequest(200)
	ObserveRequest(502)
	ObservePrediction(PredictionOK)
	ObservePrediction(PredictionSuperseded)
	ObservePrediction("timeout")
	ObserveLiteratureCache(true)

	rr := httptest.NewRecorder()
	WritePrometheus(rr)
	body := rr.Body.String()

	assert.Contains(t, body, "bedside_http_requests_total 2\n")
	assert.Contains(t, body, "bedside_http_server_errors_total 1\n")
	assert.Contains(t, body, "bedside_predictions_ok_total 1\n")
	assert.Contains(t, body, "bedside_predictions_failed_total 1\n")
	assert.Contains(t, body, "bedside_predictions_superseded_total 1\n")
	assert.Contains(t, body, "bedside_literature_cache_hits_total 1\n")
	assert.Contains(t, body, "bedside_literature_cache_misses_total 0\n")
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}
