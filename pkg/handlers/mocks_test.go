package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/services"
)

type mockImportService struct {
	previewResult *services.PreviewResult
	previewErr    error
	commitResult  *services.CommitResult
	commitErr     error
	logs          []*models.AssessmentLog
	logsErr       error
	deleteErr     error

	lastPreview *services.PreviewRequest
	lastCommit  *services.CommitRequest
	deleted     []uuid.UUID
}

func (m *mockImportService) Preview(ctx context.Context, req *services.PreviewRequest) (*services.PreviewResult, error) {
	m.lastPreview = req
	return m.previewResult, m.previewErr
}

func (m *mockImportService) Commit(ctx context.Context, req *services.CommitRequest) (*services.CommitResult, error) {
	m.lastCommit = req
	return m.commitResult, m.commitErr
}

func (m *mockImportService) Logs(ctx context.Context) ([]*models.AssessmentLog, error) {
	return m.logs, m.logsErr
}

func (m *mockImportService) DeleteLog(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

type mockReferenceService struct {
	students   []*models.Student
	student    *models.Student
	domains    []*models.ReadinessDomain
	parameters []*models.ReadinessParameter
	projects   []*models.Project
	programs   []*models.Program
	err        error

	created *models.Student
	updated *models.Student
	deleted []uuid.UUID
}

func (m *mockReferenceService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return m.students, m.err
}

func (m *mockReferenceService) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.student, nil
}

func (m *mockReferenceService) CreateStudent(ctx context.Context, student *models.Student) error {
	m.created = student
	return m.err
}

func (m *mockReferenceService) UpdateStudent(ctx context.Context, student *models.Student) error {
	m.updated = student
	return m.err
}

func (m *mockReferenceService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockReferenceService) ListTaxonomy(ctx context.Context) ([]*models.ReadinessDomain, []*models.ReadinessParameter, error) {
	return m.domains, m.parameters, m.err
}

func (m *mockReferenceService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return m.projects, m.err
}

func (m *mockReferenceService) CreateProject(ctx context.Context, project *models.Project) error {
	return m.err
}

func (m *mockReferenceService) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	return m.programs, m.err
}
