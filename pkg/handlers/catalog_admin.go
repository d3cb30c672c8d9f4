package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/apperrors"
	"github.com/89lafa/awesomegardener-sub003/pkg/models"
	"github.com/89lafa/awesomegardener-sub003/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// DedupeRequest for POST /api/admin/varieties/dedupe/{dry-run,apply}
type DedupeRequest struct {
	// PlantTypeID narrows the run to one plant type. Empty means the whole
	// catalog.
	PlantTypeID string `json:"plant_type_id,omitempty"`
	// Mode selects the fingerprint strategy. Defaults to code_first.
	Mode string `json:"matching_mode,omitempty"`
}

// ClassifyHeatRequest for POST /api/admin/varieties/classify-heat
type ClassifyHeatRequest struct {
	PlantTypeID string `json:"plant_type_id"`
}

// MergeApplyResponse pairs the structured report with its rendered summary.
type MergeApplyResponse struct {
	Report  *models.MergeReport `json:"report"`
	Summary string              `json:"summary"`
}

// ClassifyHeatResponse pairs the structured report with its rendered summary.
type ClassifyHeatResponse struct {
	Report  *models.ClassificationReport `json:"report"`
	Summary string                       `json:"summary"`
}

// ============================================================================
// Handler
// ============================================================================

// CatalogAdminHandler handles the admin-triggered catalog maintenance batches.
type CatalogAdminHandler struct {
	mergeService services.MergeService
	heatService  services.HeatService
	logger       *zap.Logger
}

// NewCatalogAdminHandler creates a new catalog admin handler.
func NewCatalogAdminHandler(
	mergeService services.MergeService,
	heatService services.HeatService,
	logger *zap.Logger,
) *CatalogAdminHandler {
	return &CatalogAdminHandler{
		mergeService: mergeService,
		heatService:  heatService,
		logger:       logger,
	}
}

// RegisterRoutes registers the catalog admin handler's routes on the given mux.
func (h *CatalogAdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/varieties/dedupe/dry-run", h.DedupeDryRun)
	mux.HandleFunc("POST /api/admin/varieties/dedupe/apply", h.DedupeApply)
	mux.HandleFunc("POST /api/admin/varieties/classify-heat", h.ClassifyHeat)
}

// DedupeDryRun handles POST /api/admin/varieties/dedupe/dry-run
func (h *CatalogAdminHandler) DedupeDryRun(w http.ResponseWriter, r *http.Request) {
	plantTypeID, mode, ok := h.parseDedupeRequest(w, r)
	if !ok {
		return
	}

	report, err := h.mergeService.DryRun(r.Context(), plantTypeID, mode)
	if err != nil {
		h.writeBatchError(w, "dedupe_dry_run_failed", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: report}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DedupeApply handles POST /api/admin/varieties/dedupe/apply
func (h *CatalogAdminHandler) DedupeApply(w http.ResponseWriter, r *http.Request) {
	plantTypeID, mode, ok := h.parseDedupeRequest(w, r)
	if !ok {
		return
	}

	report, err := h.mergeService.Apply(h.provenanceContext(r), plantTypeID, mode)
	if err != nil {
		h.writeBatchError(w, "dedupe_apply_failed", err)
		return
	}

	response := MergeApplyResponse{Report: report, Summary: report.Render()}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ClassifyHeat handles POST /api/admin/varieties/classify-heat
func (h *CatalogAdminHandler) ClassifyHeat(w http.ResponseWriter, r *http.Request) {
	var req ClassifyHeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	plantTypeID, err := uuid.Parse(req.PlantTypeID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_plant_type_id", "Invalid plant type ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	report, err := h.heatService.ClassifyPlantType(h.provenanceContext(r), plantTypeID)
	if err != nil {
		h.writeBatchError(w, "classify_heat_failed", err)
		return
	}

	response := ClassifyHeatResponse{Report: report, Summary: report.Render()}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// parseDedupeRequest decodes the shared dedupe request body. An empty body is
// valid and means whole-catalog, code_first. Returns ok=false after writing an
// error response.
func (h *CatalogAdminHandler) parseDedupeRequest(w http.ResponseWriter, r *http.Request) (*uuid.UUID, models.MatchingMode, bool) {
	var req DedupeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, "", false
	}

	var plantTypeID *uuid.UUID
	if req.PlantTypeID != "" {
		id, err := uuid.Parse(req.PlantTypeID)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_plant_type_id", "Invalid plant type ID format"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return nil, "", false
		}
		plantTypeID = &id
	}

	mode := models.MatchingMode(req.Mode)
	if req.Mode == "" {
		mode = models.MatchCodeFirst
	}
	if !mode.IsValid() {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_mode", "Mode must be code_first or name_only"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, "", false
	}

	return plantTypeID, mode, true
}

// provenanceContext attaches the calling admin's identity so audit entries
// record who triggered the batch.
func (h *CatalogAdminHandler) provenanceContext(r *http.Request) context.Context {
	actor := r.Header.Get("X-Actor")
	if actor == "" {
		actor = "admin"
	}
	return models.WithProvenance(r.Context(), models.ProvenanceContext{
		Source: models.SourceAdminAPI,
		Actor:  actor,
	})
}

func (h *CatalogAdminHandler) writeBatchError(w http.ResponseWriter, errorCode string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrInvalidMode):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrScopeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrScopeLocked):
		status = http.StatusConflict
	}

	h.logger.Error("Catalog batch failed",
		zap.String("error_code", errorCode),
		zap.Error(err))
	if werr := ErrorResponse(w, status, errorCode, err.Error()); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
