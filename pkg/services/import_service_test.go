package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/models"
)

// --- fakes -------------------------------------------------------------

type fakeStudentRepo struct {
	students []*models.Student
}

func (f *fakeStudentRepo) List(ctx context.Context) ([]*models.Student, error) {
	return f.students, nil
}
func (f *fakeStudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
func (f *fakeStudentRepo) Create(ctx context.Context, s *models.Student) error { return nil }
func (f *fakeStudentRepo) Update(ctx context.Context, s *models.Student) error { return nil }
func (f *fakeStudentRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }

type fakeTaxonomyRepo struct {
	params []*models.ReadinessParameter
}

func (f *fakeTaxonomyRepo) ListDomains(ctx context.Context) ([]*models.ReadinessDomain, error) {
	return nil, nil
}
func (f *fakeTaxonomyRepo) ListParameters(ctx context.Context) ([]*models.ReadinessParameter, error) {
	return f.params, nil
}
func (f *fakeTaxonomyRepo) UpsertDomain(ctx context.Context, d *models.ReadinessDomain) error {
	return nil
}
func (f *fakeTaxonomyRepo) UpsertParameter(ctx context.Context, p *models.ReadinessParameter) error {
	return nil
}

type fakeProjectRepo struct {
	projects []*models.Project
}

func (f *fakeProjectRepo) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return f.projects, nil
}
func (f *fakeProjectRepo) CreateProject(ctx context.Context, p *models.Project) error { return nil }
func (f *fakeProjectRepo) ListPrograms(ctx context.Context) ([]*models.Program, error) {
	return nil, nil
}
func (f *fakeProjectRepo) CreateProgram(ctx context.Context, p *models.Program) error { return nil }

type fakeLogRepo struct {
	logs      []*models.AssessmentLog
	duplicate *models.AssessmentLog
	deleted   []uuid.UUID
}

func (f *fakeLogRepo) List(ctx context.Context) ([]*models.AssessmentLog, error) {
	return f.logs, nil
}
func (f *fakeLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AssessmentLog, error) {
	return nil, apperrors.ErrNotFound
}
func (f *fakeLogRepo) FindDuplicate(ctx context.Context, dataType string, projectID *uuid.UUID, cohort string) (*models.AssessmentLog, error) {
	return f.duplicate, nil
}
func (f *fakeLogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeImportWriter struct {
	assessments []*models.Assessment
	questions   []*models.SelfAssessmentQuestion
	peer        []*models.PeerFeedback
	term        []*models.TermTracking
	notes       []*models.MentorNote
	log         *models.AssessmentLog
	err         error
}

func (f *fakeImportWriter) commit(log *models.AssessmentLog, count int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	log.ID = uuid.New()
	log.RecordsInserted = count
	f.log = log
	return count, nil
}

func (f *fakeImportWriter) CommitAssessments(ctx context.Context, log *models.AssessmentLog, records []*models.Assessment, questions []*models.SelfAssessmentQuestion) (int, error) {
	f.assessments = records
	f.questions = questions
	return f.commit(log, len(records))
}
func (f *fakeImportWriter) CommitPeerFeedback(ctx context.Context, log *models.AssessmentLog, rows []*models.PeerFeedback) (int, error) {
	f.peer = rows
	return f.commit(log, len(rows))
}
func (f *fakeImportWriter) CommitTermTracking(ctx context.Context, log *models.AssessmentLog, rows []*models.TermTracking) (int, error) {
	f.term = rows
	return f.commit(log, len(rows))
}
func (f *fakeImportWriter) CommitMentorNotes(ctx context.Context, log *models.AssessmentLog, notes []*models.MentorNote) (int, error) {
	f.notes = notes
	return f.commit(log, len(notes))
}

// --- harness -----------------------------------------------------------

type importHarness struct {
	svc     ImportService
	writer  *fakeImportWriter
	logs    *fakeLogRepo
	jane    uuid.UUID
	bob     uuid.UUID
	c1      uuid.UUID
	e4      uuid.UUID
	project uuid.UUID
	program uuid.UUID
}

func newImportHarness() *importHarness {
	h := &importHarness{
		writer:  &fakeImportWriter{},
		logs:    &fakeLogRepo{},
		jane:    uuid.New(),
		bob:     uuid.New(),
		c1:      uuid.New(),
		e4:      uuid.New(),
		project: uuid.New(),
		program: uuid.New(),
	}
	students := &fakeStudentRepo{students: []*models.Student{
		{ID: h.jane, CanonicalName: "Jane Doe"},
		{ID: h.bob, CanonicalName: "Bob Smith"},
	}}
	taxonomy := &fakeTaxonomyRepo{params: []*models.ReadinessParameter{
		{ID: h.c1, Name: "Financial Acumen", Code: "C1"},
		{ID: h.e4, Name: "Resilience", Code: "E4"},
	}}
	projects := &fakeProjectRepo{projects: []*models.Project{
		{ID: h.project, Name: "Kickstart"},
	}}
	h.svc = NewImportService(students, taxonomy, projects, h.logs, h.writer, DefaultScanOptions(), zap.NewNop())
	return h
}

func matrixWorkbook(fileName string, scores ...float64) *models.Workbook {
	row := models.Row{"C1", "Commercial"}
	for _, s := range scores {
		row = append(row, s)
	}
	header := models.Row{"Code", "Domain", "Jane Doe", "Bob Smith"}
	return &models.Workbook{
		FileName: fileName,
		Sheets: map[string][]models.Row{
			"Sheet1": {header, row},
		},
	}
}

// --- preview -----------------------------------------------------------

func TestImportService_Preview_DetectsTypeAndScale(t *testing.T) {
	h := newImportHarness()

	result, err := h.svc.Preview(context.Background(), &PreviewRequest{
		Workbook: matrixWorkbook("Self Assessment.xlsx", 4, 3),
	})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}

	if result.DetectedType != models.ImportSelf {
		t.Errorf("DetectedType = %q, want self", result.DetectedType)
	}
	if result.DetectedScale == nil || *result.DetectedScale != 5 {
		t.Errorf("DetectedScale = %v, want 5", result.DetectedScale)
	}
	if result.Recognition.StudentCount != 2 {
		t.Errorf("StudentCount = %d, want 2", result.Recognition.StudentCount)
	}
	if result.Recognition.ParameterCount != 1 {
		t.Errorf("ParameterCount = %d, want 1", result.Recognition.ParameterCount)
	}
}

func TestImportService_Preview_TenScale(t *testing.T) {
	h := newImportHarness()

	result, err := h.svc.Preview(context.Background(), &PreviewRequest{
		Workbook: matrixWorkbook("Assessment Matrix.xlsx", 9, 7),
	})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if result.DetectedScale == nil || *result.DetectedScale != 10 {
		t.Errorf("DetectedScale = %v, want 10", result.DetectedScale)
	}
}

func TestImportService_Preview_UpgradesUnknownToMentor(t *testing.T) {
	h := newImportHarness()

	result, err := h.svc.Preview(context.Background(), &PreviewRequest{
		Workbook: matrixWorkbook("upload (3).xlsx", 4),
	})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if result.DetectedType != models.ImportMentor {
		t.Errorf("DetectedType = %q, want mentor via header upgrade", result.DetectedType)
	}
}

func TestImportService_Preview_SelectedTypeOverridesDetection(t *testing.T) {
	h := newImportHarness()

	result, err := h.svc.Preview(context.Background(), &PreviewRequest{
		Workbook:     matrixWorkbook("Peer Feedback.xlsx", 4),
		SelectedType: models.ImportSelf,
	})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if result.DetectedType != models.ImportSelf {
		t.Errorf("DetectedType = %q, want selected self", result.DetectedType)
	}
}

func TestImportService_Preview_NoSheets(t *testing.T) {
	h := newImportHarness()

	_, err := h.svc.Preview(context.Background(), &PreviewRequest{
		Workbook: &models.Workbook{FileName: "empty.xlsx"},
	})
	if !errors.Is(err, apperrors.ErrNoSheets) {
		t.Errorf("expected ErrNoSheets, got %v", err)
	}
}

func TestImportService_Preview_DuplicateWarning(t *testing.T) {
	h := newImportHarness()
	h.logs.duplicate = &models.AssessmentLog{
		ID:              uuid.New(),
		DataType:        "mentor",
		RecordsInserted: 12,
	}

	result, err := h.svc.Preview(context.Background(), &PreviewRequest{
		Workbook:  matrixWorkbook("Assessment Matrix.xlsx", 4),
		ProjectID: &h.project,
	})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if result.DuplicateWarning == nil {
		t.Fatal("expected a duplicate warning")
	}
	if result.DuplicateWarning.LogID != h.logs.duplicate.ID {
		t.Error("warning should reference the existing log")
	}
}

// --- commit ------------------------------------------------------------

func TestImportService_Commit_Matrix(t *testing.T) {
	h := newImportHarness()

	result, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   matrixWorkbook("Assessment Matrix.xlsx", 6, 8),
		ImportType: models.ImportMentor,
		ProgramID:  h.program,
		ProjectID:  &h.project,
		Cohort:     "2026",
		Term:       "T2",
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}

	if result.RecordsInserted != 2 {
		t.Fatalf("RecordsInserted = %d, want 2", result.RecordsInserted)
	}
	if result.LogID == uuid.Nil {
		t.Error("LogID not set")
	}
	if result.Message != "Imported 2 records from Assessment Matrix.xlsx." {
		t.Errorf("Message = %q", result.Message)
	}

	if h.writer.log.DataType != "mentor" {
		t.Errorf("log DataType = %q, want mentor", h.writer.log.DataType)
	}
	if h.writer.log.MappingConfig["C1"] != h.c1.String() {
		t.Errorf("mapping not persisted on the log: %v", h.writer.log.MappingConfig)
	}

	for _, rec := range h.writer.assessments {
		if rec.AssessmentType != models.AssessmentMentor {
			t.Errorf("AssessmentType = %q", rec.AssessmentType)
		}
		if rec.ProjectID != h.project {
			t.Error("record bound to wrong project")
		}
		if rec.RawScaleMin != 1 || rec.RawScaleMax != 10 {
			t.Errorf("scale = %d..%d, want 1..10", rec.RawScaleMin, rec.RawScaleMax)
		}
		// One observation each on the canonical scale: normalized == raw.
		if rec.NormalizedScore != rec.RawScore {
			t.Errorf("normalized %v != raw %v on 10 scale", rec.NormalizedScore, rec.RawScore)
		}
	}
}

func TestImportService_Commit_SelfCapturesQuestions(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Self X-Ray.xlsx",
		Sheets: map[string][]models.Row{
			"Sheet1": {
				{"Code", "Question", "Jane Doe", "Bob Smith"},
				{"C1", "How confident are you reading a P&L?", 7.0, 5.0},
				{"E4", "", 6.0, 4.0},
			},
		},
	}

	_, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportSelf,
		ProgramID:  h.program,
		ProjectID:  &h.project,
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}

	if len(h.writer.questions) != 1 {
		t.Fatalf("questions = %d, want 1 (rows without wording carry none)", len(h.writer.questions))
	}
	q := h.writer.questions[0]
	if q.ParameterID != h.c1 {
		t.Errorf("question parameter = %s, want %s", q.ParameterID, h.c1)
	}
	if q.QuestionText != "How confident are you reading a P&L?" {
		t.Errorf("QuestionText = %q", q.QuestionText)
	}
	if q.RatingScaleMin != 1 || q.RatingScaleMax != 10 {
		t.Errorf("rating scale = %d..%d, want 1..10", q.RatingScaleMin, q.RatingScaleMax)
	}

	audit, ok := h.writer.log.MappingConfig["questions"].([]map[string]string)
	if !ok || len(audit) != 1 {
		t.Fatalf("mapping questions audit = %v", h.writer.log.MappingConfig["questions"])
	}
	if audit[0]["parameter_id"] != h.c1.String() || audit[0]["question_text"] != q.QuestionText {
		t.Errorf("mapping questions entry = %v", audit[0])
	}
}

func TestImportService_Commit_MentorIgnoresQuestionColumn(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Mentor Matrix.xlsx",
		Sheets: map[string][]models.Row{
			"Sheet1": {
				{"Code", "Question", "Jane Doe"},
				{"C1", "Stray wording from a copied template", 7.0},
			},
		},
	}

	_, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportMentor,
		ProgramID:  h.program,
		ProjectID:  &h.project,
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if len(h.writer.questions) != 0 {
		t.Errorf("mentor import recorded %d questions, want 0", len(h.writer.questions))
	}
	if _, present := h.writer.log.MappingConfig["questions"]; present {
		t.Error("mentor import persisted a questions mapping entry")
	}
}

func TestImportService_Commit_DuplicateRequiresConfirmation(t *testing.T) {
	h := newImportHarness()
	h.logs.duplicate = &models.AssessmentLog{ID: uuid.New(), DataType: "mentor"}

	req := &CommitRequest{
		Workbook:   matrixWorkbook("Assessment Matrix.xlsx", 6),
		ImportType: models.ImportMentor,
		ProgramID:  h.program,
		ProjectID:  &h.project,
	}

	_, err := h.svc.Commit(context.Background(), req)
	if !errors.Is(err, apperrors.ErrDuplicateImport) {
		t.Fatalf("expected ErrDuplicateImport, got %v", err)
	}

	req.ConfirmDuplicate = true
	result, err := h.svc.Commit(context.Background(), req)
	if err != nil {
		t.Fatalf("confirmed commit returned error: %v", err)
	}
	if result.RecordsInserted != 1 {
		t.Errorf("RecordsInserted = %d, want 1", result.RecordsInserted)
	}
}

func TestImportService_Commit_Validation(t *testing.T) {
	h := newImportHarness()
	wb := matrixWorkbook("Assessment Matrix.xlsx", 6)

	tests := []struct {
		name string
		req  *CommitRequest
		want error
	}{
		{
			"no sheets",
			&CommitRequest{Workbook: &models.Workbook{}, ImportType: models.ImportMentor, ProgramID: h.program, ProjectID: &h.project},
			apperrors.ErrNoSheets,
		},
		{
			"unknown type",
			&CommitRequest{Workbook: wb, ImportType: models.ImportUnknown, ProgramID: h.program, ProjectID: &h.project},
			apperrors.ErrUnknownType,
		},
		{
			"missing program",
			&CommitRequest{Workbook: wb, ImportType: models.ImportMentor, ProjectID: &h.project},
			apperrors.ErrMissingProject,
		},
		{
			"matrix without project",
			&CommitRequest{Workbook: wb, ImportType: models.ImportMentor, ProgramID: h.program},
			apperrors.ErrMissingProject,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Commit(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestImportService_Commit_NoUsableRecords(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Assessment Matrix.xlsx",
		Sheets: map[string][]models.Row{
			"Kickstart": {
				{"Code", "Domain", "Mystery Person"},
				{"Z9", "Commercial", 4.0},
			},
		},
	}

	_, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportMentor,
		ProgramID:  h.program,
		ProjectID:  &h.project,
	})
	if !errors.Is(err, apperrors.ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}

func TestImportService_Commit_WithConfirmedMapping(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Responses.xlsx",
		Sheets: map[string][]models.Row{
			"Form Responses": {
				{"Timestamp", "Full Name", "How well do I read budgets?", "Ignored Column"},
				{"2026-01-10", "Jane Doe", 8.0, "skip"},
				{"2026-01-10", "Bob Smith", 6.0, "skip"},
			},
		},
	}

	result, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportSelf,
		ProgramID:  h.program,
		ProjectID:  &h.project,
		Mapping: map[string]models.ColumnTarget{
			"Full Name":                    {Kind: models.TargetStudentName},
			"How well do I read budgets?":  {Kind: models.TargetParameter, ParameterID: h.c1.String()},
			"Ignored Column":               {Kind: models.TargetIgnored},
		},
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}

	if result.RecordsInserted != 2 {
		t.Fatalf("RecordsInserted = %d, want 2", result.RecordsInserted)
	}
	for _, rec := range h.writer.assessments {
		if rec.ParameterID != h.c1 {
			t.Error("mapped column should feed the mapped parameter")
		}
		if rec.AssessmentType != models.AssessmentSelf {
			t.Errorf("AssessmentType = %q, want self", rec.AssessmentType)
		}
	}
}

func TestImportService_Commit_MappingWithoutStudentColumn(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Responses.xlsx",
		Sheets: map[string][]models.Row{
			"Form Responses": {
				{"Timestamp", "Score"},
				{"2026-01-10", 8.0},
			},
		},
	}

	_, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportSelf,
		ProgramID:  h.program,
		ProjectID:  &h.project,
		Mapping: map[string]models.ColumnTarget{
			"Score": {Kind: models.TargetParameter, ParameterID: uuid.New().String()},
		},
	})
	if !errors.Is(err, apperrors.ErrMissingStudent) {
		t.Errorf("expected ErrMissingStudent, got %v", err)
	}
}

func TestImportService_Commit_Peer(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Peer Feedback.xlsx",
		Sheets: map[string][]models.Row{
			"Responses": {
				{"Giver", "Recipient", "Quality of Work", "Collaboration"},
				{"Jane Doe", "Bob Smith", 4.0, 5.0},
			},
		},
	}

	result, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportPeer,
		ProgramID:  h.program,
		ProjectID:  &h.project,
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if result.RecordsInserted != 1 {
		t.Fatalf("RecordsInserted = %d, want 1", result.RecordsInserted)
	}

	row := h.writer.peer[0]
	if row.GiverID != h.jane || row.RecipientID != h.bob {
		t.Error("peer row giver/recipient mismatch")
	}
	if row.ProjectID != h.project {
		t.Error("row without sheet project should fall back to the request project")
	}
	if row.QualityOfWork == nil || *row.QualityOfWork != 4 {
		t.Errorf("QualityOfWork = %v", row.QualityOfWork)
	}
	if row.Collaboration == nil || *row.Collaboration != 5 {
		t.Errorf("Collaboration = %v", row.Collaboration)
	}
	if row.Communication != nil {
		t.Error("unmapped metric should stay nil")
	}
}

func TestImportService_Commit_TermFoldsMetricsPerStudent(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Term 2 Tracking.xlsx",
		Sheets: map[string][]models.Row{
			"Term 2": {
				{"Student", "Metric", "Value"},
				{"Jane Doe", "CBP Count", 4.0},
				{"Jane Doe", "BOW Score", 7.5},
				{"Jane Doe", "Conflexion Count", 2.0},
				{"Bob Smith", "CBP Count", 2.6},
			},
		},
	}

	result, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportTerm,
		ProgramID:  h.program,
		Term:       "T2",
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if result.RecordsInserted != 2 {
		t.Fatalf("RecordsInserted = %d, want one row per student, got %d", result.RecordsInserted, len(h.writer.term))
	}

	jane := h.writer.term[0]
	if jane.StudentID != h.jane || jane.Term != "T2" {
		t.Errorf("first term row = %+v", jane)
	}
	if jane.CBPCount != 4 || jane.ConflexionCount != 2 || jane.BOWScore != 7.5 {
		t.Errorf("folded metrics = %+v", jane)
	}

	// Fractional counts round to nearest rather than truncate.
	bob := h.writer.term[1]
	if bob.StudentID != h.bob || bob.CBPCount != 3 {
		t.Errorf("second term row = %+v, want CBPCount 3", bob)
	}
}

func TestImportService_Commit_NotesCombinedPerStudent(t *testing.T) {
	h := newImportHarness()
	wb := &models.Workbook{
		FileName: "Mentor Notes.xlsx",
		Sheets: map[string][]models.Row{
			"Notes": {
				{"Student", "Mentor", "Note"},
				{"Jane Doe", "Coach Amina", "Led the pitch."},
				{"Jane Doe", "Coach Ben", "Strong follow-up."},
				{"Bob Smith", "Coach Amina", "Missed a session."},
				{"Bob Smith", "", "Quiet this week."},
			},
		},
	}

	result, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   wb,
		ImportType: models.ImportMentorNotes,
		ProgramID:  h.program,
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if result.RecordsInserted != 2 {
		t.Fatalf("RecordsInserted = %d, want 2 combined notes", result.RecordsInserted)
	}

	jane := h.writer.notes[0]
	if jane.StudentID != h.jane {
		t.Errorf("first note student = %s", jane.StudentID)
	}
	if jane.NoteText != "Coach Amina: Led the pitch.\n\nCoach Ben: Strong follow-up." {
		t.Errorf("NoteText = %q", jane.NoteText)
	}
	if jane.CreatedBy != "Coach Amina, Coach Ben" {
		t.Errorf("CreatedBy = %q", jane.CreatedBy)
	}
	if jane.NoteType != "general" {
		t.Errorf("NoteType = %q", jane.NoteType)
	}

	// A row without a mentor keeps its text unprefixed.
	bob := h.writer.notes[1]
	if bob.NoteText != "Coach Amina: Missed a session.\n\nQuiet this week." {
		t.Errorf("NoteText = %q", bob.NoteText)
	}
	if bob.CreatedBy != "Coach Amina" {
		t.Errorf("CreatedBy = %q", bob.CreatedBy)
	}
}

func TestImportService_Commit_SingularMessage(t *testing.T) {
	h := newImportHarness()

	result, err := h.svc.Commit(context.Background(), &CommitRequest{
		Workbook:   matrixWorkbook("Assessment Matrix.xlsx", 6),
		ImportType: models.ImportMentor,
		ProgramID:  h.program,
		ProjectID:  &h.project,
	})
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if result.Message != "Imported 1 record from Assessment Matrix.xlsx." {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestImportService_DeleteLog(t *testing.T) {
	h := newImportHarness()
	id := uuid.New()

	if err := h.svc.DeleteLog(context.Background(), id); err != nil {
		t.Fatalf("DeleteLog returned error: %v", err)
	}
	if len(h.logs.deleted) != 1 || h.logs.deleted[0] != id {
		t.Errorf("deleted = %v", h.logs.deleted)
	}
}
