package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/synaptica-ai/bedside/pkg/common/logger"
	"github.com/synaptica-ai/bedside/pkg/fhir"
	"github.com/synaptica-ai/bedside/pkg/literature"
	"github.com/synaptica-ai/bedside/pkg/risk"
	"github.com/synaptica-ai/bedside/pkg/serving/predictor"
	"github.com/synaptica-ai/bedside/pkg/vitals"
)

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/summary", h.handleSummary).Methods(http.MethodPost)
	router.HandleFunc("/vitals", h.handleVitals).Methods(http.MethodPost)
	router.HandleFunc("/features", h.handleFeatures).Methods(http.MethodPost)
	router.HandleFunc("/risk", h.handleAssess).Methods(http.MethodPost)
	router.HandleFunc("/risk/{patientID}", h.handleLatest).Methods(http.MethodGet)
	router.HandleFunc("/risk/{patientID}", h.handleClear).Methods(http.MethodDelete)
	router.HandleFunc("/literature", h.handleLiterature).Methods(http.MethodPost)
}

// bundleRequest is a record bundle, optionally with the values the client
// currently displays.
type bundleRequest struct {
	fhir.Bundle
	DisplayedVitals vitals.Displayed `json:"displayed_vitals,omitempty"`
}

type literatureRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
}

type errorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Log.WithError(err).Warn("invalid dashboard payload")
		writeError(w, http.StatusBadRequest, "invalid request body", 0)
		return false
	}
	return true
}

func (h *HTTPHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Summary(fhir.MapBundle(req.Bundle)))
}

func (h *HTTPHandler) handleVitals(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if !h.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Vitals(fhir.MapBundle(req.Bundle), req.DisplayedVitals))
}

func (h *HTTPHandler) handleFeatures(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if !h.decode(w, r, &req) {
		return
	}
	record, err := h.service.Features(fhir.MapBundle(req.Bundle), req.DisplayedVitals)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), 0)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *HTTPHandler) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if !h.decode(w, r, &req) {
		return
	}
	a, err := h.service.Assess(r.Context(), fhir.MapBundle(req.Bundle), req.DisplayedVitals)
	if err != nil {
		writeAssessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func writeAssessError(w http.ResponseWriter, err error) {
	var httpErr *predictor.HTTPError
	switch {
	case errors.Is(err, risk.ErrMissingPatientID):
		writeError(w, http.StatusBadRequest, err.Error(), 0)
	case errors.Is(err, risk.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error(), 0)
	case errors.Is(err, ErrPredictorUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error(), 0)
	case errors.As(err, &httpErr):
		writeError(w, http.StatusBadGateway, err.Error(), httpErr.StatusCode)
	default:
		logger.Log.WithError(err).Error("risk assessment failed")
		writeError(w, http.StatusBadGateway, err.Error(), 0)
	}
}

func (h *HTTPHandler) handleLatest(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["patientID"]
	a, ok := h.service.Latest(patientID)
	if !ok {
		writeError(w, http.StatusNotFound, "no assessment for patient", 0)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *HTTPHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(mux.Vars(r)["patientID"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleLiterature(w http.ResponseWriter, r *http.Request) {
	var req literatureRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.Literature(r.Context(), req.Query, req.MaxResults)
	if err != nil {
		var httpErr *literature.HTTPError
		switch {
		case errors.Is(err, ErrLiteratureDisabled):
			writeError(w, http.StatusServiceUnavailable, err.Error(), 0)
		case errors.As(err, &httpErr):
			writeError(w, http.StatusBadGateway, err.Error(), httpErr.StatusCode)
		default:
			logger.Log.WithError(err).Error("literature search failed")
			writeError(w, http.StatusBadGateway, err.Error(), 0)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, upstream int) {
	writeJSON(w, status, errorResponse{Error: msg, UpstreamStatus: upstream})
}
