package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/repositories"
)

// ReferenceService manages the reference data imports resolve against: the
// student roster with aliases, the readiness taxonomy, projects and programs.
type ReferenceService interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error)
	CreateStudent(ctx context.Context, student *models.Student) error
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id uuid.UUID) error

	ListTaxonomy(ctx context.Context) ([]*models.ReadinessDomain, []*models.ReadinessParameter, error)

	ListProjects(ctx context.Context) ([]*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	ListPrograms(ctx context.Context) ([]*models.Program, error)
}

type referenceService struct {
	students repositories.StudentRepository
	taxonomy repositories.TaxonomyRepository
	projects repositories.ProjectRepository
	logger   *zap.Logger
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(
	students repositories.StudentRepository,
	taxonomy repositories.TaxonomyRepository,
	projects repositories.ProjectRepository,
	logger *zap.Logger,
) ReferenceService {
	return &referenceService{
		students: students,
		taxonomy: taxonomy,
		projects: projects,
		logger:   logger.Named("reference-service"),
	}
}

var _ ReferenceService = (*referenceService)(nil)

func (s *referenceService) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.students.List(ctx)
}

func (s *referenceService) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

func (s *referenceService) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := normalizeStudent(student); err != nil {
		return err
	}
	if err := s.students.Create(ctx, student); err != nil {
		return err
	}
	s.logger.Info("Created student",
		zap.String("student_id", student.ID.String()),
		zap.String("canonical_name", student.CanonicalName))
	return nil
}

func (s *referenceService) UpdateStudent(ctx context.Context, student *models.Student) error {
	if err := normalizeStudent(student); err != nil {
		return err
	}
	return s.students.Update(ctx, student)
}

func (s *referenceService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted student", zap.String("student_id", id.String()))
	return nil
}

func (s *referenceService) ListTaxonomy(ctx context.Context) ([]*models.ReadinessDomain, []*models.ReadinessParameter, error) {
	domains, err := s.taxonomy.ListDomains(ctx)
	if err != nil {
		return nil, nil, err
	}
	parameters, err := s.taxonomy.ListParameters(ctx)
	if err != nil {
		return nil, nil, err
	}
	return domains, parameters, nil
}

func (s *referenceService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projects.ListProjects(ctx)
}

func (s *referenceService) CreateProject(ctx context.Context, project *models.Project) error {
	project.Name = strings.TrimSpace(project.Name)
	if project.Name == "" {
		return fmt.Errorf("project name is required")
	}
	return s.projects.CreateProject(ctx, project)
}

func (s *referenceService) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	return s.projects.ListPrograms(ctx)
}

// normalizeStudent trims the fields the roster resolver matches on. Blank
// aliases are dropped so they cannot shadow real names in the resolver index.
func normalizeStudent(student *models.Student) error {
	student.CanonicalName = strings.TrimSpace(student.CanonicalName)
	if student.CanonicalName == "" {
		return fmt.Errorf("canonical name is required")
	}
	aliases := student.Aliases[:0]
	for _, a := range student.Aliases {
		a = strings.TrimSpace(a)
		if a != "" {
			aliases = append(aliases, a)
		}
	}
	student.Aliases = aliases
	return nil
}
