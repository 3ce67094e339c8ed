package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/product-catalog/internal/model"
	"github.com/vyrodovalexey/product-catalog/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// maxBodyBytes caps the size of a create request body.
const maxBodyBytes = 1 << 20

// RESTHandler handles REST API requests for products.
type RESTHandler struct {
	store     store.Store
	publisher EventPublisher
	logger    *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
// publisher may be nil, in which case no events are emitted.
func NewRESTHandler(s store.Store, publisher EventPublisher, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		store:     s,
		publisher: publisher,
		logger:    logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, response)
}

// ListProducts handles GET /products requests.
func (h *RESTHandler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.List())
}

// GetProduct handles GET /products/{id} requests.
func (h *RESTHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	product, found := h.store.Get(id)
	if !found {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /products requests.
func (h *RESTHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input model.ProductInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeValidationError(w, err)
		return
	}

	product := h.store.Create(input.Product())
	h.logger.Debug("product created", zap.Int64("id", product.ID))
	h.publish(model.EventProductCreated, product)

	h.writeJSON(w, http.StatusCreated, product)
}

// DeleteProduct handles DELETE /products/{id} requests.
func (h *RESTHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	// Fetch first so the deleted product can be carried in the event.
	product, found := h.store.Get(id)
	if !found || !h.store.Delete(id) {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Debug("product deleted", zap.Int64("id", id))
	h.publish(model.EventProductDeleted, product)

	w.WriteHeader(http.StatusNoContent)
}

// parseID extracts the product ID from the route and writes a 400 on failure.
func (h *RESTHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := model.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Debug("invalid product id", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, model.ErrInvalidID.Error())
		return 0, false
	}
	return id, true
}

func (h *RESTHandler) publish(eventType model.EventType, product model.Product) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(model.NewProductEvent(eventType, product))
}

// writeValidationError writes a 400 response listing the violated constraints.
func (h *RESTHandler) writeValidationError(w http.ResponseWriter, err error) {
	response := model.ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		response.Violations = verr.Violations
	}

	h.writeJSON(w, http.StatusBadRequest, response)
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, data, h.logger)
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	WriteError(w, status, message, h.logger)
}

// WriteJSON encodes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError writes an ErrorResponse with the given status code and message.
func WriteError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	response := model.ErrorResponse{
		Code:    status,
		Message: message,
	}
	WriteJSON(w, status, response, logger)
}
