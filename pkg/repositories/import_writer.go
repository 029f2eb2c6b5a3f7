package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/models"
)

// ImportWriter persists one confirmed import batch. Each Commit* method
// writes the assessment log and its records as a single transaction: the log
// row, the record upserts, and the log's final records_inserted count either
// all land or none do, so a reader never observes a log whose count lies
// about its records.
type ImportWriter interface {
	CommitAssessments(ctx context.Context, log *models.AssessmentLog, records []*models.Assessment, questions []*models.SelfAssessmentQuestion) (int, error)
	CommitPeerFeedback(ctx context.Context, log *models.AssessmentLog, rows []*models.PeerFeedback) (int, error)
	CommitTermTracking(ctx context.Context, log *models.AssessmentLog, rows []*models.TermTracking) (int, error)
	CommitMentorNotes(ctx context.Context, log *models.AssessmentLog, notes []*models.MentorNote) (int, error)
}

type importWriter struct {
	db *database.DB
}

// NewImportWriter creates a new ImportWriter.
func NewImportWriter(db *database.DB) ImportWriter {
	return &importWriter{db: db}
}

var _ ImportWriter = (*importWriter)(nil)

func (w *importWriter) CommitAssessments(ctx context.Context, log *models.AssessmentLog, records []*models.Assessment, questions []*models.SelfAssessmentQuestion) (int, error) {
	return w.inTx(ctx, log, func(ctx context.Context, tx pgx.Tx) (int, error) {
		// Question rows go first so score upserts can link back to them.
		questionIDs := make(map[uuid.UUID]uuid.UUID, len(questions))
		questionQuery := `
			INSERT INTO self_assessment_questions (
				assessment_log_id, project_id, parameter_id, question_text,
				question_order, rating_scale_min, rating_scale_max
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (assessment_log_id, parameter_id) DO UPDATE
			SET question_text = EXCLUDED.question_text,
			    question_order = EXCLUDED.question_order,
			    rating_scale_min = EXCLUDED.rating_scale_min,
			    rating_scale_max = EXCLUDED.rating_scale_max
			RETURNING id`

		for _, q := range questions {
			err := tx.QueryRow(ctx, questionQuery,
				log.ID,
				q.ProjectID,
				q.ParameterID,
				q.QuestionText,
				q.QuestionOrder,
				q.RatingScaleMin,
				q.RatingScaleMax,
			).Scan(&q.ID)
			if err != nil {
				return 0, fmt.Errorf("failed to upsert self-assessment question: %w", err)
			}
			q.AssessmentLogID = log.ID
			questionIDs[q.ParameterID] = q.ID
		}

		query := `
			INSERT INTO assessments (
				student_id, project_id, parameter_id, assessment_type,
				assessment_log_id, self_assessment_question_id, raw_score,
				raw_scale_min, raw_scale_max, normalized_score, source_file
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (student_id, project_id, parameter_id, assessment_type) DO UPDATE
			SET assessment_log_id = EXCLUDED.assessment_log_id,
			    self_assessment_question_id = EXCLUDED.self_assessment_question_id,
			    raw_score = EXCLUDED.raw_score,
			    raw_scale_min = EXCLUDED.raw_scale_min,
			    raw_scale_max = EXCLUDED.raw_scale_max,
			    normalized_score = EXCLUDED.normalized_score,
			    source_file = EXCLUDED.source_file`

		for _, rec := range records {
			var questionID *uuid.UUID
			if id, ok := questionIDs[rec.ParameterID]; ok {
				questionID = &id
				rec.SelfQuestionID = questionID
			}
			_, err := tx.Exec(ctx, query,
				rec.StudentID,
				rec.ProjectID,
				rec.ParameterID,
				rec.AssessmentType,
				log.ID,
				questionID,
				rec.RawScore,
				rec.RawScaleMin,
				rec.RawScaleMax,
				rec.NormalizedScore,
				nullString(rec.SourceFile),
			)
			if err != nil {
				return 0, fmt.Errorf("failed to upsert assessment: %w", err)
			}
		}
		return len(records), nil
	})
}

func (w *importWriter) CommitPeerFeedback(ctx context.Context, log *models.AssessmentLog, rows []*models.PeerFeedback) (int, error) {
	return w.inTx(ctx, log, func(ctx context.Context, tx pgx.Tx) (int, error) {
		query := `
			INSERT INTO peer_feedback (
				recipient_id, giver_id, project_id, assessment_log_id,
				quality_of_work, initiative_ownership, communication,
				collaboration, growth_mindset, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
			ON CONFLICT (recipient_id, giver_id, project_id) DO UPDATE
			SET assessment_log_id = EXCLUDED.assessment_log_id,
			    quality_of_work = EXCLUDED.quality_of_work,
			    initiative_ownership = EXCLUDED.initiative_ownership,
			    communication = EXCLUDED.communication,
			    collaboration = EXCLUDED.collaboration,
			    growth_mindset = EXCLUDED.growth_mindset`

		for _, row := range rows {
			_, err := tx.Exec(ctx, query,
				row.RecipientID,
				row.GiverID,
				row.ProjectID,
				log.ID,
				row.QualityOfWork,
				row.InitiativeOwnership,
				row.Communication,
				row.Collaboration,
				row.GrowthMindset,
			)
			if err != nil {
				return 0, fmt.Errorf("failed to upsert peer feedback: %w", err)
			}
		}
		return len(rows), nil
	})
}

func (w *importWriter) CommitTermTracking(ctx context.Context, log *models.AssessmentLog, rows []*models.TermTracking) (int, error) {
	return w.inTx(ctx, log, func(ctx context.Context, tx pgx.Tx) (int, error) {
		// Merge with existing rows for the same (student, term) so metrics
		// the sheet did not mention keep their previous values.
		for _, row := range rows {
			var (
				existingID uuid.UUID
				cbp        int
				conflexion int
				bow        float64
			)
			err := tx.QueryRow(ctx, `
				SELECT id, cbp_count, conflexion_count, bow_score
				FROM term_tracking
				WHERE student_id = $1 AND term = $2
				ORDER BY id
				LIMIT 1`,
				row.StudentID, row.Term,
			).Scan(&existingID, &cbp, &conflexion, &bow)
			switch err {
			case nil:
				if row.CBPCount == 0 {
					row.CBPCount = cbp
				}
				if row.ConflexionCount == 0 {
					row.ConflexionCount = conflexion
				}
				if row.BOWScore == 0 {
					row.BOWScore = bow
				}
				_, err = tx.Exec(ctx, `
					UPDATE term_tracking
					SET assessment_log_id = $2, cbp_count = $3,
					    conflexion_count = $4, bow_score = $5
					WHERE id = $1`,
					existingID, log.ID, row.CBPCount, row.ConflexionCount, row.BOWScore)
				if err != nil {
					return 0, fmt.Errorf("failed to update term tracking: %w", err)
				}
			case pgx.ErrNoRows:
				_, err = tx.Exec(ctx, `
					INSERT INTO term_tracking (
						student_id, term, assessment_log_id,
						cbp_count, conflexion_count, bow_score
					) VALUES ($1, $2, $3, $4, $5, $6)`,
					row.StudentID, row.Term, log.ID,
					row.CBPCount, row.ConflexionCount, row.BOWScore)
				if err != nil {
					return 0, fmt.Errorf("failed to insert term tracking: %w", err)
				}
			default:
				return 0, fmt.Errorf("failed to read existing term tracking: %w", err)
			}
		}
		return len(rows), nil
	})
}

func (w *importWriter) CommitMentorNotes(ctx context.Context, log *models.AssessmentLog, notes []*models.MentorNote) (int, error) {
	return w.inTx(ctx, log, func(ctx context.Context, tx pgx.Tx) (int, error) {
		query := `
			INSERT INTO mentor_notes (
				student_id, project_id, assessment_log_id,
				note_text, note_type, created_by, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, now())`

		for _, note := range notes {
			_, err := tx.Exec(ctx, query,
				note.StudentID,
				note.ProjectID,
				log.ID,
				note.NoteText,
				note.NoteType,
				nullString(note.CreatedBy),
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert mentor note: %w", err)
			}
		}
		return len(notes), nil
	})
}

// inTx creates the log row, runs write, then backfills the log's final
// record count, all inside one transaction. A failed write rolls everything
// back, including the log row, so no orphaned zero-count log survives a
// partial failure.
func (w *importWriter) inTx(ctx context.Context, log *models.AssessmentLog, write func(ctx context.Context, tx pgx.Tx) (int, error)) (int, error) {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, `
		INSERT INTO assessment_logs (
			assessment_date, program_id, cohort, term, data_type,
			project_id, file_name, mapping_config, records_inserted, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, now())
		RETURNING id, created_at`,
		log.AssessmentDate,
		log.ProgramID,
		nullString(log.Cohort),
		log.Term,
		log.DataType,
		log.ProjectID,
		nullString(log.FileName),
		jsonbValue(log.MappingConfig),
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create assessment log: %w", err)
	}

	count, err := write(ctx, tx)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `UPDATE assessment_logs SET records_inserted = $2 WHERE id = $1`, log.ID, count); err != nil {
		return 0, fmt.Errorf("failed to update assessment log count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit import transaction: %w", err)
	}

	log.RecordsInserted = count
	return count, nil
}
