package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/product-catalog/internal/store"
)

// ProbeHandler serves liveness and readiness probes on the probe port.
type ProbeHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewProbeHandler creates a new ProbeHandler instance.
func NewProbeHandler(s store.Store, logger *zap.Logger) *ProbeHandler {
	return &ProbeHandler{
		store:  s,
		logger: logger,
	}
}

// RegisterRoutes registers the probe routes with the router.
func (h *ProbeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/readyz", h.Readiness).Methods(http.MethodGet)
}

// Liveness handles GET /healthz requests.
func (h *ProbeHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: Version}, h.logger)
}

// Readiness handles GET /readyz requests.
func (h *ProbeHandler) Readiness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, ReadyResponse{Status: "ready", Products: h.store.Count()}, h.logger)
}
