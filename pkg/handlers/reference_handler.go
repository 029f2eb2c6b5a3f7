package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/services"
)

// ReferenceHandler handles readiness taxonomy, project and program endpoints.
type ReferenceHandler struct {
	refService services.ReferenceService
	logger     *zap.Logger
}

// NewReferenceHandler creates a new reference handler.
func NewReferenceHandler(refService services.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		refService: refService,
		logger:     logger,
	}
}

// RegisterRoutes registers the reference handler's routes on the given mux.
func (h *ReferenceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/parameters", h.ListParameters)
	mux.HandleFunc("GET /api/projects", h.ListProjects)
	mux.HandleFunc("POST /api/projects", h.CreateProject)
	mux.HandleFunc("GET /api/programs", h.ListPrograms)
}

// ListParameters handles GET /api/parameters
// Returns the full readiness taxonomy: domains with their parameters.
func (h *ReferenceHandler) ListParameters(w http.ResponseWriter, r *http.Request) {
	domains, parameters, err := h.refService.ListTaxonomy(r.Context())
	if err != nil {
		h.logger.Error("Failed to list taxonomy", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list parameters")
		return
	}

	response := map[string]interface{}{
		"domains":    domains,
		"parameters": parameters,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write taxonomy response", zap.Error(err))
	}
}

// ListProjects handles GET /api/projects
func (h *ReferenceHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.refService.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list projects")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": projects}); err != nil {
		h.logger.Error("Failed to write projects response", zap.Error(err))
	}
}

// CreateProject handles POST /api/projects
func (h *ReferenceHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.refService.CreateProject(r.Context(), &project); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			h.writeError(w, http.StatusConflict, "conflict", "A project with this name already exists")
			return
		}
		h.logger.Error("Failed to create project", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "create_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write project response", zap.Error(err))
	}
}

// ListPrograms handles GET /api/programs
func (h *ReferenceHandler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.refService.ListPrograms(r.Context())
	if err != nil {
		h.logger.Error("Failed to list programs", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list programs")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"programs": programs}); err != nil {
		h.logger.Error("Failed to write programs response", zap.Error(err))
	}
}

func (h *ReferenceHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
