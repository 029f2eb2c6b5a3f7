package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/models"
)

// StudentRepository provides data access for the student roster.
type StudentRepository interface {
	List(ctx context.Context) ([]*models.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentRepository struct {
	db *database.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *database.DB) StudentRepository {
	return &studentRepository{db: db}
}

var _ StudentRepository = (*studentRepository)(nil)

func (r *studentRepository) List(ctx context.Context) ([]*models.Student, error) {
	query := `
		SELECT id, student_number, canonical_name, aliases, program_id,
		       cohort, is_active, created_at, updated_at
		FROM students
		ORDER BY student_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	query := `
		SELECT id, student_number, canonical_name, aliases, program_id,
		       cohort, is_active, created_at, updated_at
		FROM students
		WHERE id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now()

	query := `
		INSERT INTO students (
			student_number, canonical_name, aliases, program_id,
			cohort, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		student.StudentNumber,
		student.CanonicalName,
		student.Aliases,
		nullUUID(student.ProgramID),
		nullString(student.Cohort),
		student.IsActive,
		now,
		now,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET student_number = $2, canonical_name = $3, aliases = $4,
		    program_id = $5, cohort = $6, is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		student.ID,
		student.StudentNumber,
		student.CanonicalName,
		student.Aliases,
		nullUUID(student.ProgramID),
		nullString(student.Cohort),
		student.IsActive,
	).Scan(&student.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update student: %w", err)
	}

	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var (
		student   models.Student
		programID *uuid.UUID
		cohort    *string
	)

	err := row.Scan(
		&student.ID,
		&student.StudentNumber,
		&student.CanonicalName,
		&student.Aliases,
		&programID,
		&cohort,
		&student.IsActive,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if programID != nil {
		student.ProgramID = *programID
	}
	if cohort != nil {
		student.Cohort = *cohort
	}
	if student.Aliases == nil {
		student.Aliases = []string{}
	}

	return &student, nil
}
