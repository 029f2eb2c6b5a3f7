package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/readinesslab/readiness-engine/pkg/apperrors"
	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/repositories"
)

// PreviewRequest is one parsed workbook submitted for inspection. Nothing is
// persisted during preview.
type PreviewRequest struct {
	Workbook *models.Workbook
	// SelectedType overrides format detection when the administrator has
	// already chosen a type in the wizard. Empty means detect.
	SelectedType models.ImportType
	// ProjectID and Cohort are optional preview-time scope hints; when
	// present, the duplicate-import check runs against them.
	ProjectID *uuid.UUID
	Cohort    string
}

// PreviewResult is the wizard's confirmation screen payload.
type PreviewResult struct {
	DetectedType     models.ImportType         `json:"detectedType"`
	DetectedScale    *int                      `json:"detectedScale"`
	Recognition      *models.RecognitionReport `json:"recognition"`
	SheetsScanned    int                       `json:"sheetsScanned"`
	DuplicateWarning *DuplicateWarning         `json:"duplicateWarning,omitempty"`
}

// DuplicateWarning flags an existing log covering the same import scope. It
// is advisory; commit proceeds only with an explicit override.
type DuplicateWarning struct {
	LogID           uuid.UUID `json:"logId"`
	RecordsInserted int       `json:"recordsInserted"`
	CreatedAt       time.Time `json:"createdAt"`
	Message         string    `json:"message"`
}

// CommitRequest is a confirmed import: the workbook plus the metadata the
// administrator filled in on the confirmation screen.
type CommitRequest struct {
	Workbook         *models.Workbook
	ImportType       models.ImportType
	ProgramID        uuid.UUID
	ProjectID        *uuid.UUID
	Cohort           string
	Term             string
	AssessmentDate   time.Time
	ConfirmDuplicate bool
	// Mapping carries confirmed header→target decisions for matrix imports
	// whose columns were mapped by hand. Empty means scan automatically.
	Mapping map[string]models.ColumnTarget
}

// CommitResult reports what one commit persisted.
type CommitResult struct {
	LogID           uuid.UUID `json:"logId"`
	RecordsInserted int       `json:"recordsInserted"`
	Message         string    `json:"message"`
}

// ImportService runs the two-phase import protocol: Preview parses and
// resolves without persisting, Commit re-scans the confirmed workbook and
// writes one assessment log plus its records.
type ImportService interface {
	Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error)
	Commit(ctx context.Context, req *CommitRequest) (*CommitResult, error)
	Logs(ctx context.Context) ([]*models.AssessmentLog, error)
	DeleteLog(ctx context.Context, id uuid.UUID) error
}

type importService struct {
	students repositories.StudentRepository
	taxonomy repositories.TaxonomyRepository
	projects repositories.ProjectRepository
	logs     repositories.AssessmentLogRepository
	writer   repositories.ImportWriter
	options  ScanOptions
	logger   *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	students repositories.StudentRepository,
	taxonomy repositories.TaxonomyRepository,
	projects repositories.ProjectRepository,
	logs repositories.AssessmentLogRepository,
	writer repositories.ImportWriter,
	options ScanOptions,
	logger *zap.Logger,
) ImportService {
	return &importService{
		students: students,
		taxonomy: taxonomy,
		projects: projects,
		logs:     logs,
		writer:   writer,
		options:  options,
		logger:   logger.Named("import-service"),
	}
}

var _ ImportService = (*importService)(nil)

func (s *importService) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error) {
	if err := validateWorkbook(req.Workbook); err != nil {
		return nil, err
	}

	importType := req.SelectedType
	if !importType.Valid() {
		importType = DetectFormat(req.Workbook.FileName, req.Workbook.SheetNames())
	}

	sc, err := s.buildScanContext(ctx)
	if err != nil {
		return nil, err
	}

	// An unknown workbook is scanned as a matrix so the content upgrade
	// (header carrying "code" and "domain") gets a chance to identify it.
	scanType := importType
	if scanType == models.ImportUnknown {
		scanType = models.ImportMentor
	}

	rec := newRecognitionSets()
	extracts, err := s.scanSheets(req.Workbook, scanType, sc, rec)
	if err != nil {
		return nil, err
	}

	maxScore, hasScores := 0.0, false
	for _, ex := range extracts {
		if importType == models.ImportUnknown && ex.UpgradedType != models.ImportUnknown {
			importType = ex.UpgradedType
		}
		if ex.HasScores {
			hasScores = true
			if ex.MaxScore > maxScore {
				maxScore = ex.MaxScore
			}
		}
	}

	result := &PreviewResult{
		DetectedType:  importType,
		Recognition:   rec.Report(),
		SheetsScanned: len(extracts),
	}
	if importType.IsMatrix() {
		result.DetectedScale = DetectScale(maxScore, hasScores)
	}

	if importType.Valid() && (req.ProjectID != nil || req.Cohort != "") {
		dup, err := s.logs.FindDuplicate(ctx, string(importType), req.ProjectID, req.Cohort)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			result.DuplicateWarning = &DuplicateWarning{
				LogID:           dup.ID,
				RecordsInserted: dup.RecordsInserted,
				CreatedAt:       dup.CreatedAt,
				Message: fmt.Sprintf("A %s import for this scope already exists (%d %s on %s).",
					dup.DataType, dup.RecordsInserted,
					countNoun(dup.RecordsInserted, "record"),
					dup.CreatedAt.Format("2006-01-02")),
			}
		}
	}

	s.logger.Info("Previewed workbook",
		zap.String("file_name", req.Workbook.FileName),
		zap.String("detected_type", string(importType)),
		zap.Int("sheets", len(extracts)),
		zap.Int("students", result.Recognition.StudentCount),
		zap.Int("unrecognized_students", result.Recognition.UnrecognizedStudentCount))
	return result, nil
}

func (s *importService) Commit(ctx context.Context, req *CommitRequest) (*CommitResult, error) {
	if err := validateWorkbook(req.Workbook); err != nil {
		return nil, err
	}
	if !req.ImportType.Valid() {
		return nil, apperrors.ErrUnknownType
	}
	if req.ProgramID == uuid.Nil {
		return nil, fmt.Errorf("%w: program is required", apperrors.ErrMissingProject)
	}
	if req.ProjectID == nil && req.ImportType != models.ImportTerm && req.ImportType != models.ImportMentorNotes {
		return nil, apperrors.ErrMissingProject
	}

	dup, err := s.logs.FindDuplicate(ctx, string(req.ImportType), req.ProjectID, req.Cohort)
	if err != nil {
		return nil, err
	}
	if dup != nil && !req.ConfirmDuplicate {
		return nil, apperrors.ErrDuplicateImport
	}

	sc, err := s.buildScanContext(ctx)
	if err != nil {
		return nil, err
	}

	log := &models.AssessmentLog{
		AssessmentDate: req.AssessmentDate,
		ProgramID:      req.ProgramID,
		Cohort:         req.Cohort,
		Term:           req.Term,
		DataType:       string(req.ImportType),
		ProjectID:      req.ProjectID,
		FileName:       req.Workbook.FileName,
	}
	if log.AssessmentDate.IsZero() {
		log.AssessmentDate = time.Now().UTC()
	}

	var count int
	switch {
	case req.ImportType.IsMatrix():
		count, err = s.commitMatrix(ctx, req, sc, log)
	case req.ImportType == models.ImportPeer:
		count, err = s.commitPeer(ctx, req, sc, log)
	case req.ImportType == models.ImportTerm:
		count, err = s.commitTerm(ctx, req, sc, log)
	default:
		count, err = s.commitNotes(ctx, req, sc, log)
	}
	if err != nil {
		s.logger.Error("Import commit failed",
			zap.String("file_name", req.Workbook.FileName),
			zap.String("import_type", string(req.ImportType)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Committed import",
		zap.String("log_id", log.ID.String()),
		zap.String("import_type", string(req.ImportType)),
		zap.Int("records_inserted", count))
	return &CommitResult{
		LogID:           log.ID,
		RecordsInserted: count,
		Message:         fmt.Sprintf("Imported %d %s from %s.", count, countNoun(count, "record"), req.Workbook.FileName),
	}, nil
}

func (s *importService) Logs(ctx context.Context) ([]*models.AssessmentLog, error) {
	return s.logs.List(ctx)
}

func (s *importService) DeleteLog(ctx context.Context, id uuid.UUID) error {
	if err := s.logs.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted assessment log", zap.String("log_id", id.String()))
	return nil
}

// commitMatrix aggregates matrix cells and upserts assessments. With a
// confirmed mapping the workbook is read in flat orientation (one row per
// student, mapped columns as parameters); otherwise the matrix scanner runs.
func (s *importService) commitMatrix(ctx context.Context, req *CommitRequest, sc *ScanContext, log *models.AssessmentLog) (int, error) {
	var cells []MatrixCell
	mapping := map[string]any{}
	questions := map[uuid.UUID]string{}

	if len(req.Mapping) > 0 {
		var err error
		cells, err = scanMapped(req.Workbook, req.Mapping, sc)
		if err != nil {
			return 0, err
		}
		for header, target := range req.Mapping {
			mapping[header] = map[string]any{"kind": string(target.Kind), "parameterId": target.ParameterID}
		}
	} else {
		rec := newRecognitionSets()
		extracts, err := s.scanSheets(req.Workbook, req.ImportType, sc, rec)
		if err != nil {
			return 0, err
		}
		for _, ex := range extracts {
			cells = append(cells, ex.Matrix...)
			for k, v := range ex.Mapping {
				mapping[k] = v
			}
			for paramID, text := range ex.Questions {
				questions[paramID] = text
			}
		}
	}

	// Question wording only matters for self-assessments; mentor matrices
	// reuse the same layout but carry no survey.
	if req.ImportType != models.ImportSelf {
		questions = nil
	}

	scores := AggregateMatrix(cells)
	if len(scores) == 0 {
		return 0, apperrors.ErrNoRecords
	}

	// One question row per parameter with captured wording, and a copy of
	// the wording in the persisted mapping for audit.
	var questionRows []*models.SelfAssessmentQuestion
	if len(questions) > 0 {
		ids := make([]uuid.UUID, 0, len(questions))
		for id := range questions {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
		audit := make([]map[string]string, 0, len(ids))
		for _, id := range ids {
			questionRows = append(questionRows, &models.SelfAssessmentQuestion{
				ProjectID:      req.ProjectID,
				ParameterID:    id,
				QuestionText:   questions[id],
				RatingScaleMin: 1,
				RatingScaleMax: canonicalScaleMax,
			})
			audit = append(audit, map[string]string{
				"parameter_id":  id.String(),
				"question_text": questions[id],
			})
		}
		mapping["questions"] = audit
	}

	records := make([]*models.Assessment, 0, len(scores))
	for _, agg := range scores {
		records = append(records, &models.Assessment{
			StudentID:       agg.StudentID,
			ProjectID:       *req.ProjectID,
			ParameterID:     agg.ParameterID,
			AssessmentType:  models.AssessmentType(req.ImportType),
			RawScore:        agg.RawScore,
			RawScaleMin:     1,
			RawScaleMax:     canonicalScaleMax,
			NormalizedScore: agg.NormalizedScore,
			SourceFile:      req.Workbook.FileName,
		})
	}

	log.MappingConfig = mapping
	return s.writer.CommitAssessments(ctx, log, records, questionRows)
}

func (s *importService) commitPeer(ctx context.Context, req *CommitRequest, sc *ScanContext, log *models.AssessmentLog) (int, error) {
	rec := newRecognitionSets()
	extracts, err := s.scanSheets(req.Workbook, models.ImportPeer, sc, rec)
	if err != nil {
		return 0, err
	}

	rows := make([]*models.PeerFeedback, 0)
	for _, ex := range extracts {
		for _, pr := range ex.Peer {
			projectID := pr.ProjectID
			if projectID == uuid.Nil {
				projectID = *req.ProjectID
			}
			fb := &models.PeerFeedback{
				RecipientID: pr.RecipientID,
				GiverID:     pr.GiverID,
				ProjectID:   projectID,
			}
			for metric, value := range pr.Metrics {
				v := value
				switch metric {
				case PeerQuality:
					fb.QualityOfWork = &v
				case PeerInitiative:
					fb.InitiativeOwnership = &v
				case PeerCommunication:
					fb.Communication = &v
				case PeerCollaboration:
					fb.Collaboration = &v
				case PeerGrowth:
					fb.GrowthMindset = &v
				}
			}
			rows = append(rows, fb)
		}
	}
	if len(rows) == 0 {
		return 0, apperrors.ErrNoRecords
	}
	return s.writer.CommitPeerFeedback(ctx, log, rows)
}

func (s *importService) commitTerm(ctx context.Context, req *CommitRequest, sc *ScanContext, log *models.AssessmentLog) (int, error) {
	rec := newRecognitionSets()
	extracts, err := s.scanSheets(req.Workbook, models.ImportTerm, sc, rec)
	if err != nil {
		return 0, err
	}

	// Fold (student, metric, value) triples into one row per student.
	byStudent := map[uuid.UUID]*models.TermTracking{}
	order := make([]uuid.UUID, 0)
	for _, ex := range extracts {
		for _, tr := range ex.Term {
			row, ok := byStudent[tr.StudentID]
			if !ok {
				row = &models.TermTracking{StudentID: tr.StudentID, Term: req.Term}
				byStudent[tr.StudentID] = row
				order = append(order, tr.StudentID)
			}
			switch {
			case strings.Contains(tr.Metric, "cbp"):
				row.CBPCount = int(math.Round(tr.Value))
			case strings.Contains(tr.Metric, "conflexion"):
				row.ConflexionCount = int(math.Round(tr.Value))
			case strings.Contains(tr.Metric, "bow"):
				row.BOWScore = tr.Value
			}
		}
	}

	rows := make([]*models.TermTracking, 0, len(order))
	for _, id := range order {
		rows = append(rows, byStudent[id])
	}
	if len(rows) == 0 {
		return 0, apperrors.ErrNoRecords
	}
	return s.writer.CommitTermTracking(ctx, log, rows)
}

func (s *importService) commitNotes(ctx context.Context, req *CommitRequest, sc *ScanContext, log *models.AssessmentLog) (int, error) {
	rec := newRecognitionSets()
	extracts, err := s.scanSheets(req.Workbook, models.ImportMentorNotes, sc, rec)
	if err != nil {
		return 0, err
	}

	// One note per student: multiple sheet rows for the same student are
	// concatenated with each text prefixed by its mentor, mentors
	// deduplicated into created_by.
	type noteAccum struct {
		texts   []string
		mentors []string
		seen    map[string]struct{}
	}
	byStudent := map[uuid.UUID]*noteAccum{}
	order := make([]uuid.UUID, 0)
	for _, ex := range extracts {
		for _, nr := range ex.Notes {
			acc, ok := byStudent[nr.StudentID]
			if !ok {
				acc = &noteAccum{seen: map[string]struct{}{}}
				byStudent[nr.StudentID] = acc
				order = append(order, nr.StudentID)
			}
			text := nr.Text
			if nr.Mentor != "" {
				text = nr.Mentor + ": " + text
			}
			acc.texts = append(acc.texts, text)
			if nr.Mentor != "" {
				if _, dup := acc.seen[nr.Mentor]; !dup {
					acc.seen[nr.Mentor] = struct{}{}
					acc.mentors = append(acc.mentors, nr.Mentor)
				}
			}
		}
	}

	notes := make([]*models.MentorNote, 0, len(order))
	for _, id := range order {
		acc := byStudent[id]
		notes = append(notes, &models.MentorNote{
			StudentID: id,
			ProjectID: req.ProjectID,
			NoteText:  strings.Join(acc.texts, "\n\n"),
			NoteType:  "general",
			CreatedBy: strings.Join(acc.mentors, ", "),
		})
	}
	if len(notes) == 0 {
		return 0, apperrors.ErrNoRecords
	}
	return s.writer.CommitMentorNotes(ctx, log, notes)
}

// buildScanContext fetches the reference snapshots one request resolves
// against. Fetched fresh per request; see ScanContext.
func (s *importService) buildScanContext(ctx context.Context) (*ScanContext, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	parameters, err := s.taxonomy.ListParameters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return &ScanContext{
		Roster:   NewRosterResolver(students),
		Params:   NewParameterResolver(parameters),
		Projects: projects,
		Options:  s.options,
	}, nil
}

// scanSheets runs the type's scanner over every sheet, in name order so
// recognition and extraction are deterministic.
func (s *importService) scanSheets(wb *models.Workbook, t models.ImportType, sc *ScanContext, rec *recognitionSets) ([]*SheetExtract, error) {
	scanner, err := ScannerFor(t)
	if err != nil {
		return nil, err
	}

	names := wb.SheetNames()
	sort.Strings(names)

	extracts := make([]*SheetExtract, 0, len(names))
	for _, name := range names {
		ex, err := scanner.Scan(name, wb.Sheets[name], sc, rec)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sheet %q: %w", name, err)
		}
		extracts = append(extracts, ex)
	}
	return extracts, nil
}

// scanMapped reads matrix workbooks in flat orientation using a confirmed
// header→target mapping: one column holds student names, mapped parameter
// columns hold scores, and each data row is one student's scores.
func scanMapped(wb *models.Workbook, mapping map[string]models.ColumnTarget, sc *ScanContext) ([]MatrixCell, error) {
	paramIDs := map[string]uuid.UUID{}
	for header, target := range mapping {
		if target.Kind != models.TargetParameter {
			continue
		}
		id, err := uuid.Parse(target.ParameterID)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter id for column %q: %w", header, err)
		}
		paramIDs[strings.ToLower(strings.TrimSpace(header))] = id
	}

	names := wb.SheetNames()
	sort.Strings(names)

	var cells []MatrixCell
	sawStudentColumn := false
	for _, name := range names {
		rows := capRows(wb.Sheets[name], sc.Options.MaxRows)
		if len(rows) == 0 {
			continue
		}

		headerIdx := findHeaderRow(rows, sc.Options.HeaderSearchRows, func(joined string) bool {
			for header := range mapping {
				if strings.Contains(joined, strings.ToLower(strings.TrimSpace(header))) {
					return true
				}
			}
			return false
		})
		headerRow := rows[headerIdx]

		studentCol := -1
		paramCols := map[int]uuid.UUID{}
		for colIdx := range headerRow {
			headerVal := cellString(cellAt(headerRow, colIdx))
			target, mapped := mapping[headerVal]
			if !mapped {
				continue
			}
			switch target.Kind {
			case models.TargetStudentName:
				if studentCol < 0 {
					studentCol = colIdx
				}
			case models.TargetParameter:
				if id, ok := paramIDs[strings.ToLower(strings.TrimSpace(headerVal))]; ok {
					paramCols[colIdx] = id
				}
			}
		}
		if studentCol < 0 {
			continue
		}
		sawStudentColumn = true

		for rIdx := headerIdx + 1; rIdx < len(rows); rIdx++ {
			row := rows[rIdx]
			nameVal := cellString(cellAt(row, studentCol))
			if IsAbsent(nameVal) {
				continue
			}
			studentID, ok := sc.Roster.Resolve(nameVal)
			if !ok {
				continue
			}
			for colIdx, paramID := range paramCols {
				score, ok := cellFloat(cellAt(row, colIdx))
				if !ok {
					continue
				}
				cells = append(cells, MatrixCell{
					StudentID:   studentID,
					ParameterID: paramID,
					RawScore:    score,
				})
			}
		}
	}

	if !sawStudentColumn {
		return nil, apperrors.ErrMissingStudent
	}
	return cells, nil
}

func validateWorkbook(wb *models.Workbook) error {
	if wb == nil || len(wb.Sheets) == 0 {
		return apperrors.ErrNoSheets
	}
	return nil
}

// countNoun pluralizes a record noun for user-facing messages.
func countNoun(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return inflection.Plural(noun)
}
