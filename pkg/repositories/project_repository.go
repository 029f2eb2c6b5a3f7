package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/models"
)

// ProjectRepository provides data access for projects and programs.
type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	ListPrograms(ctx context.Context) ([]*models.Program, error)
	CreateProgram(ctx context.Context, program *models.Program) error
}

type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

var _ ProjectRepository = (*projectRepository)(nil)

func (r *projectRepository) ListProjects(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, name, COALESCE(internal_name, ''), sequence, COALESCE(sequence_label, ''), created_at
		FROM projects
		ORDER BY sequence, sequence_label`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.InternalName, &p.Sequence, &p.SequenceLabel, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

func (r *projectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (name, internal_name, sequence, sequence_label, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		project.Name,
		nullString(project.InternalName),
		project.Sequence,
		nullString(project.SequenceLabel),
		time.Now(),
	).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r *projectRepository) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	query := `SELECT id, name, created_at FROM programs ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query programs: %w", err)
	}
	defer rows.Close()

	var programs []*models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		programs = append(programs, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating programs: %w", err)
	}

	return programs, nil
}

func (r *projectRepository) CreateProgram(ctx context.Context, program *models.Program) error {
	query := `
		INSERT INTO programs (name, created_at)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, program.Name, time.Now()).
		Scan(&program.ID, &program.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}

	return nil
}
