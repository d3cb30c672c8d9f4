package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/services"
)

// VarietyResponse for GET /api/varieties/{id}
type VarietyResponse struct {
	Variety *models.Variety `json:"variety"`
	// Redirected is true when the requested id belonged to a merged-away
	// record and the canonical replacement is returned instead.
	Redirected bool `json:"redirected"`
}

// VarietiesHandler handles variety read requests.
type VarietiesHandler struct {
	resolver services.RedirectResolver
	logger   *zap.Logger
}

// NewVarietiesHandler creates a new varieties handler.
func NewVarietiesHandler(resolver services.RedirectResolver, logger *zap.Logger) *VarietiesHandler {
	return &VarietiesHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// RegisterRoutes registers the varieties handler's routes on the given mux.
func (h *VarietiesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/varieties/{id}", h.Get)
}

// Get handles GET /api/varieties/{id}
// Merged-away ids resolve to their canonical record.
func (h *VarietiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_variety_id", "Invalid variety ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	variety, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "variety_not_found", "Variety not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to resolve variety",
			zap.String("variety_id", id.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_variety_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := VarietyResponse{
		Variety:    variety,
		Redirected: variety.ID != id,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
