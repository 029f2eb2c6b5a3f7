package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/models"
)

// AssessmentLogRepository provides read and delete access to import batch
// logs. Log creation happens inside ImportWriter transactions.
type AssessmentLogRepository interface {
	List(ctx context.Context) ([]*models.AssessmentLog, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AssessmentLog, error)
	// FindDuplicate returns an existing log covering the same
	// (dataType, projectID, cohort) scope, or nil. A hit is a strong
	// duplicate-import signal surfaced to the administrator.
	FindDuplicate(ctx context.Context, dataType string, projectID *uuid.UUID, cohort string) (*models.AssessmentLog, error)
	// Delete removes a log; the schema's ON DELETE CASCADE removes every
	// record the import created. Destructive and irreversible.
	Delete(ctx context.Context, id uuid.UUID) error
}

type assessmentLogRepository struct {
	db *database.DB
}

// NewAssessmentLogRepository creates a new AssessmentLogRepository.
func NewAssessmentLogRepository(db *database.DB) AssessmentLogRepository {
	return &assessmentLogRepository{db: db}
}

var _ AssessmentLogRepository = (*assessmentLogRepository)(nil)

const assessmentLogColumns = `
	id, assessment_date, program_id, COALESCE(cohort, ''), term, data_type,
	project_id, COALESCE(file_name, ''), mapping_config, records_inserted, created_at`

func (r *assessmentLogRepository) List(ctx context.Context) ([]*models.AssessmentLog, error) {
	query := `
		SELECT ` + assessmentLogColumns + `
		FROM assessment_logs
		ORDER BY assessment_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.AssessmentLog
	for rows.Next() {
		log, err := scanAssessmentLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment logs: %w", err)
	}

	return logs, nil
}

func (r *assessmentLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AssessmentLog, error) {
	query := `
		SELECT ` + assessmentLogColumns + `
		FROM assessment_logs
		WHERE id = $1`

	log, err := scanAssessmentLog(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return log, nil
}

func (r *assessmentLogRepository) FindDuplicate(ctx context.Context, dataType string, projectID *uuid.UUID, cohort string) (*models.AssessmentLog, error) {
	query := `
		SELECT ` + assessmentLogColumns + `
		FROM assessment_logs
		WHERE data_type = $1
		  AND project_id IS NOT DISTINCT FROM $2
		  AND COALESCE(cohort, '') = $3
		ORDER BY created_at DESC
		LIMIT 1`

	log, err := scanAssessmentLog(r.db.QueryRow(ctx, query, dataType, projectID, cohort))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No duplicate
		}
		return nil, err
	}

	return log, nil
}

func (r *assessmentLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM assessment_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment log: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanAssessmentLog(row pgx.Row) (*models.AssessmentLog, error) {
	var (
		log        models.AssessmentLog
		mappingRaw []byte
	)

	err := row.Scan(
		&log.ID,
		&log.AssessmentDate,
		&log.ProgramID,
		&log.Cohort,
		&log.Term,
		&log.DataType,
		&log.ProjectID,
		&log.FileName,
		&mappingRaw,
		&log.RecordsInserted,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(mappingRaw) > 0 {
		if err := json.Unmarshal(mappingRaw, &log.MappingConfig); err != nil {
			return nil, fmt.Errorf("failed to decode mapping config: %w", err)
		}
	}

	return &log, nil
}
