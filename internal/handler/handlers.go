// Package handler provides HTTP request handlers for the robotics API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	apierrors "github.com/nekazari/nkz-module-robotics/internal/errors"
	"github.com/nekazari/nkz-module-robotics/internal/metrics"
	"github.com/nekazari/nkz-module-robotics/internal/robotconfig"
	"go.uber.org/zap"
)

// Service metadata returned by the index endpoint.
const (
	ModuleName  = "nkz-module-robotics"
	Description = "Robotics & Telemetry Module for Nekazari"
)

// GenerationRecorder counts configuration requests by outcome.
type GenerationRecorder interface {
	RecordGeneration(outcome string)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	generator    *robotconfig.Generator
	errorHandler *apierrors.Handler
	recorder     GenerationRecorder
	logger       *zap.Logger
	version      string
}

// NewHandlers creates a new Handlers instance. recorder may be nil.
func NewHandlers(
	generator *robotconfig.Generator,
	errorHandler *apierrors.Handler,
	recorder GenerationRecorder,
	logger *zap.Logger,
	version string,
) *Handlers {
	return &Handlers{
		generator:    generator,
		errorHandler: errorHandler,
		recorder:     recorder,
		logger:       logger,
		version:      version,
	}
}

// IndexResponse describes the module at GET /.
type IndexResponse struct {
	Module      string `json:"module"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Docs        string `json:"docs"`
	Health      string `json:"health"`
}

// Index handles GET / requests.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, IndexResponse{
		Module:      ModuleName,
		Version:     h.version,
		Description: Description,
		Docs:        "/docs",
		Health:      "/health",
	})
}

// GetRobotConfig handles GET /api/robotics/devices/{robot_id}/config?tenant_id= requests.
func (h *Handlers) GetRobotConfig(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")

	robotID := mux.Vars(r)["robot_id"]

	query := r.URL.Query()
	if !query.Has("tenant_id") {
		h.record(metrics.OutcomeInvalid)
		h.errorHandler.WriteValidationError(w, "tenant_id query parameter is required", requestID)
		return
	}

	doc, err := h.generator.Generate(query.Get("tenant_id"), robotID)
	if err != nil {
		if robotconfig.IsValidationError(err) {
			h.record(metrics.OutcomeInvalid)
		} else {
			h.record(metrics.OutcomeError)
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.record(metrics.OutcomeSuccess)

	h.logger.Debug("robot config generated",
		zap.String("tenant_id", query.Get("tenant_id")),
		zap.String("robot_id", robotID),
		zap.String("prefix", doc.Namespaces.Prefix),
		zap.String("request_id", requestID),
	)

	w.Header().Set("Cache-Control", "no-store")
	h.writeJSONResponse(w, http.StatusOK, doc)
}

func (h *Handlers) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordGeneration(outcome)
	}
}

// writeJSONResponse writes a JSON response to the HTTP response writer.
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
