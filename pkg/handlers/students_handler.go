package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/services"
)

// StudentRequestBody is the wire form of student create/update calls.
type StudentRequestBody struct {
	StudentNumber int       `json:"studentNumber,omitempty"`
	CanonicalName string    `json:"canonicalName"`
	Aliases       []string  `json:"aliases,omitempty"`
	ProgramID     uuid.UUID `json:"programId,omitempty"`
	Cohort        string    `json:"cohort,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
}

// StudentsHandler handles roster CRUD endpoints.
type StudentsHandler struct {
	refService services.ReferenceService
	logger     *zap.Logger
}

// NewStudentsHandler creates a new students handler.
func NewStudentsHandler(refService services.ReferenceService, logger *zap.Logger) *StudentsHandler {
	return &StudentsHandler{
		refService: refService,
		logger:     logger,
	}
}

// RegisterRoutes registers the students handler's routes on the given mux.
func (h *StudentsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/students", h.List)
	mux.HandleFunc("POST /api/students", h.Create)
	mux.HandleFunc("GET /api/students/{sid}", h.Get)
	mux.HandleFunc("PUT /api/students/{sid}", h.Update)
	mux.HandleFunc("DELETE /api/students/{sid}", h.Delete)
}

// List handles GET /api/students
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.refService.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("Failed to list students", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list students")
		return
	}

	if err := WriteJSON(w, http.StatusOK, map[string]interface{}{"students": students}); err != nil {
		h.logger.Error("Failed to write students response", zap.Error(err))
	}
}

// Get handles GET /api/students/{sid}
func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	studentID, ok := ParseStudentID(w, r, h.logger)
	if !ok {
		return
	}

	student, err := h.refService.GetStudent(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Student not found")
			return
		}
		h.logger.Error("Failed to get student",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get student")
		return
	}

	if err := WriteJSON(w, http.StatusOK, student); err != nil {
		h.logger.Error("Failed to write student response", zap.Error(err))
	}
}

// Create handles POST /api/students
func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body StudentRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	student := studentFromBody(&body)
	if err := h.refService.CreateStudent(r.Context(), student); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			h.writeError(w, http.StatusConflict, "conflict", "A student with this number already exists")
			return
		}
		h.logger.Error("Failed to create student", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "create_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusCreated, student); err != nil {
		h.logger.Error("Failed to write student response", zap.Error(err))
	}
}

// Update handles PUT /api/students/{sid}
func (h *StudentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	studentID, ok := ParseStudentID(w, r, h.logger)
	if !ok {
		return
	}

	var body StudentRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	student := studentFromBody(&body)
	student.ID = studentID
	if err := h.refService.UpdateStudent(r.Context(), student); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Student not found")
			return
		}
		h.logger.Error("Failed to update student",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "update_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, student); err != nil {
		h.logger.Error("Failed to write student response", zap.Error(err))
	}
}

// Delete handles DELETE /api/students/{sid}
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	studentID, ok := ParseStudentID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.refService.DeleteStudent(r.Context(), studentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Student not found")
			return
		}
		h.logger.Error("Failed to delete student",
			zap.String("student_id", studentID.String()),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete student")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StudentsHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func studentFromBody(body *StudentRequestBody) *models.Student {
	student := &models.Student{
		StudentNumber: body.StudentNumber,
		CanonicalName: body.CanonicalName,
		Aliases:       body.Aliases,
		ProgramID:     body.ProgramID,
		Cohort:        body.Cohort,
		IsActive:      true,
	}
	if body.IsActive != nil {
		student.IsActive = *body.IsActive
	}
	return student
}
