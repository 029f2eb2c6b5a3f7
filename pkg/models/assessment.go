package models

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentType distinguishes who authored a matrix score.
type AssessmentType string

const (
	AssessmentMentor AssessmentType = "mentor"
	AssessmentSelf   AssessmentType = "self"
)

// Assessment is one normalized (student, project, parameter) score.
// At most one row exists per (StudentID, ProjectID, ParameterID,
// AssessmentType); re-imports upsert on that key.
type Assessment struct {
	ID              uuid.UUID      `json:"id"`
	StudentID       uuid.UUID      `json:"student_id"`
	ProjectID       uuid.UUID      `json:"project_id"`
	ParameterID     uuid.UUID      `json:"parameter_id"`
	AssessmentType  AssessmentType `json:"assessment_type"`
	AssessmentLogID uuid.UUID      `json:"assessment_log_id"`
	RawScore        float64        `json:"raw_score"`
	RawScaleMin     int            `json:"raw_scale_min"`
	RawScaleMax     int            `json:"raw_scale_max"`
	NormalizedScore float64        `json:"normalized_score"`
	SourceFile      string         `json:"source_file,omitempty"`
	// SelfQuestionID links a self-assessment score back to the survey
	// question it answered. Nil for mentor scores and for self sheets
	// without a question column.
	SelfQuestionID *uuid.UUID `json:"self_assessment_question_id,omitempty"`
}

// SelfAssessmentQuestion is the survey prompt behind one parameter's
// self-assessment scores, captured from the sheet's question column. One
// row per (AssessmentLogID, ParameterID); re-imports upsert the text.
type SelfAssessmentQuestion struct {
	ID              uuid.UUID  `json:"id"`
	AssessmentLogID uuid.UUID  `json:"assessment_log_id"`
	ProjectID       *uuid.UUID `json:"project_id,omitempty"`
	ParameterID     uuid.UUID  `json:"parameter_id"`
	QuestionText    string     `json:"question_text"`
	QuestionOrder   int        `json:"question_order"`
	RatingScaleMin  int        `json:"rating_scale_min"`
	RatingScaleMax  int        `json:"rating_scale_max"`
}

// AssessmentLog is the audit record of one completed import batch. It owns
// the rows it created: deleting a log cascades to its assessments, peer
// feedback and term tracking rows. That cascade is the rollback mechanism -
// there is no undo.
type AssessmentLog struct {
	ID              uuid.UUID      `json:"id"`
	AssessmentDate  time.Time      `json:"assessment_date"`
	ProgramID       uuid.UUID      `json:"program_id"`
	Cohort          string         `json:"cohort,omitempty"`
	Term            string         `json:"term"`
	DataType        string         `json:"data_type"`
	ProjectID       *uuid.UUID     `json:"project_id,omitempty"`
	FileName        string         `json:"file_name,omitempty"`
	MappingConfig   map[string]any `json:"mapping_config,omitempty"`
	RecordsInserted int            `json:"records_inserted"`
	CreatedAt       time.Time      `json:"created_at"`
}

// PeerFeedback is one giver→recipient peer review for a project, with the
// five fixed peer metrics. Unique per (RecipientID, GiverID, ProjectID).
type PeerFeedback struct {
	ID                  uuid.UUID  `json:"id"`
	RecipientID         uuid.UUID  `json:"recipient_id"`
	GiverID             uuid.UUID  `json:"giver_id"`
	ProjectID           uuid.UUID  `json:"project_id"`
	AssessmentLogID     uuid.UUID  `json:"assessment_log_id"`
	QualityOfWork       *float64   `json:"quality_of_work,omitempty"`
	InitiativeOwnership *float64   `json:"initiative_ownership,omitempty"`
	Communication       *float64   `json:"communication,omitempty"`
	Collaboration       *float64   `json:"collaboration,omitempty"`
	GrowthMindset       *float64   `json:"growth_mindset,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// TermTracking holds per-term counters for one student. Imports merge into
// existing rows rather than clobbering metrics the sheet did not mention.
type TermTracking struct {
	ID              uuid.UUID `json:"id"`
	StudentID       uuid.UUID `json:"student_id"`
	Term            string    `json:"term"`
	AssessmentLogID uuid.UUID `json:"assessment_log_id"`
	CBPCount        int       `json:"cbp_count"`
	ConflexionCount int       `json:"conflexion_count"`
	BOWScore        float64   `json:"bow_score"`
}

// MentorNote is free-text feedback combined per student from a notes sheet.
type MentorNote struct {
	ID        uuid.UUID  `json:"id"`
	StudentID uuid.UUID  `json:"student_id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	NoteText  string     `json:"note_text"`
	NoteType  string     `json:"note_type"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
