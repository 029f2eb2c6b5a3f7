package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/services"
)

// PreviewRequestBody is the wire form of an import preview call.
type PreviewRequestBody struct {
	FileName     string                  `json:"fileName"`
	SelectedType string                  `json:"selectedType,omitempty"`
	ProjectID    *uuid.UUID              `json:"projectId,omitempty"`
	Cohort       string                  `json:"cohort,omitempty"`
	Sheets       map[string][]models.Row `json:"sheets"`
}

// CommitRequestBody is the wire form of an import commit call.
type CommitRequestBody struct {
	FileName         string                         `json:"fileName"`
	ImportType       string                         `json:"importType"`
	ProgramID        uuid.UUID                      `json:"programId"`
	ProjectID        *uuid.UUID                     `json:"projectId,omitempty"`
	Cohort           string                         `json:"cohort,omitempty"`
	Term             string                         `json:"term"`
	AssessmentDate   string                         `json:"assessmentDate,omitempty"`
	ConfirmDuplicate bool                           `json:"confirmDuplicate,omitempty"`
	Sheets           map[string][]models.Row        `json:"sheets"`
	Mapping          map[string]models.ColumnTarget `json:"mapping,omitempty"`
}

// ImportHandler handles the two-phase import endpoints and the import log
// administration endpoints.
type ImportHandler struct {
	importService services.ImportService
	logger        *zap.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importService services.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// RegisterRoutes registers the import handler's routes on the given mux.
func (h *ImportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/import/preview", h.Preview)
	mux.HandleFunc("POST /api/import/commit", h.Commit)
	mux.HandleFunc("GET /api/import/logs", h.ListLogs)
	mux.HandleFunc("DELETE /api/import/logs/{lid}", h.DeleteLog)
}

// Preview handles POST /api/import/preview
// Parses and resolves a workbook without persisting anything.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var body PreviewRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	result, err := h.importService.Preview(r.Context(), &services.PreviewRequest{
		Workbook:     &models.Workbook{FileName: body.FileName, Sheets: body.Sheets},
		SelectedType: models.ImportType(body.SelectedType),
		ProjectID:    body.ProjectID,
		Cohort:       body.Cohort,
	})
	if err != nil {
		h.handleImportError(w, err, "preview")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write preview response", zap.Error(err))
	}
}

// Commit handles POST /api/import/commit
// Persists a confirmed workbook as one assessment log plus its records.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var body CommitRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	assessmentDate, ok := parseDate(body.AssessmentDate)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid_date", "Invalid assessment date")
		return
	}

	result, err := h.importService.Commit(r.Context(), &services.CommitRequest{
		Workbook:         &models.Workbook{FileName: body.FileName, Sheets: body.Sheets},
		ImportType:       models.ImportType(body.ImportType),
		ProgramID:        body.ProgramID,
		ProjectID:        body.ProjectID,
		Cohort:           body.Cohort,
		Term:             body.Term,
		AssessmentDate:   assessmentDate,
		ConfirmDuplicate: body.ConfirmDuplicate,
		Mapping:          body.Mapping,
	})
	if err != nil {
		h.handleImportError(w, err, "commit")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, result); err != nil {
		h.logger.Error("Failed to write commit response", zap.Error(err))
	}
}

// ListLogs handles GET /api/import/logs
func (h *ImportHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.importService.Logs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list assessment logs", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list import logs")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"logs": logs}); err != nil {
		h.logger.Error("Failed to write logs response", zap.Error(err))
	}
}

// DeleteLog handles DELETE /api/import/logs/{lid}
// Deleting a log cascades to every record its import created.
func (h *ImportHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	logID, ok := ParseLogID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.importService.DeleteLog(r.Context(), logID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Import log not found")
			return
		}
		h.logger.Error("Failed to delete assessment log",
			zap.String("log_id", logID.String()),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete import log")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleImportError maps service errors onto HTTP statuses.
func (h *ImportHandler) handleImportError(w http.ResponseWriter, err error, phase string) {
	switch {
	case errors.Is(err, apperrors.ErrNoSheets):
		h.writeError(w, http.StatusBadRequest, "no_sheets", "Workbook contains no sheets")
	case errors.Is(err, apperrors.ErrUnknownType):
		h.writeError(w, http.StatusBadRequest, "unknown_import_type", "Import type is missing or not recognized")
	case errors.Is(err, apperrors.ErrMissingProject):
		h.writeError(w, http.StatusBadRequest, "missing_project", "A project and program are required for this import type")
	case errors.Is(err, apperrors.ErrMissingStudent):
		h.writeError(w, http.StatusBadRequest, "missing_student_column", "The confirmed mapping has no student name column")
	case errors.Is(err, apperrors.ErrNoRecords):
		h.writeError(w, http.StatusBadRequest, "no_records", "No importable records were found in the workbook")
	case errors.Is(err, apperrors.ErrDuplicateImport):
		h.writeError(w, http.StatusConflict, "duplicate_import", "An import with the same scope already exists; confirm to proceed")
	default:
		h.logger.Error("Import failed", zap.String("phase", phase), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Import failed")
	}
}

func (h *ImportHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// parseDate accepts a bare date or an RFC 3339 timestamp. Empty is allowed;
// the service defaults it.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
