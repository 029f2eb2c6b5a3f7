package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// ScanOptions bounds a single sheet scan.
type ScanOptions struct {
	// HeaderSearchRows is how many leading rows are searched for the header.
	HeaderSearchRows int
	// MaxRows caps how many rows are scanned per sheet.
	MaxRows int
}

// DefaultScanOptions match the limits the dashboard has always used.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{HeaderSearchRows: 10, MaxRows: 5000}
}

// ScanContext carries the per-request reference snapshots a scanner resolves
// against. Snapshots are re-fetched on every import request; that is fine
// while the roster and taxonomy stay small, and a cache would only hide the
// real fix (server-side reference data) if they ever grow.
type ScanContext struct {
	Roster   *RosterResolver
	Params   *ParameterResolver
	Projects []*models.Project
	Options  ScanOptions
}

// MatrixCell is one raw score extracted from a matrix sheet.
type MatrixCell struct {
	StudentID   uuid.UUID
	ParameterID uuid.UUID
	RawScore    float64
}

// PeerRow is one giver→recipient peer review extracted from a flat sheet.
type PeerRow struct {
	RecipientID uuid.UUID
	GiverID     uuid.UUID
	// ProjectID is uuid.Nil when the sheet row did not name a known project;
	// the commit step falls back to the administrator's project selection.
	ProjectID uuid.UUID
	Metrics   map[PeerMetric]float64
}

// TermRow is one (student, metric, value) triple from a term-tracking sheet.
type TermRow struct {
	StudentID uuid.UUID
	Metric    string
	Value     float64
}

// NoteRow is one (student, mentor, note) triple from a mentor-notes sheet.
type NoteRow struct {
	StudentID uuid.UUID
	Mentor    string
	Text      string
}

// SheetExtract is everything one scanner pass produced from one sheet. Only
// the slice matching the scanner's import type is populated.
type SheetExtract struct {
	Matrix []MatrixCell
	Peer   []PeerRow
	Term   []TermRow
	Notes  []NoteRow

	// Questions maps a resolved parameter to the question wording from the
	// sheet's question column, when one exists. Used by self-assessment
	// commits; empty otherwise.
	Questions map[uuid.UUID]string

	// MaxScore is the largest numeric score observed in matched score cells;
	// HasScores distinguishes "max of 0" from "no numeric scores at all".
	MaxScore  float64
	HasScores bool

	// Mapping records the header→target decisions actually used, persisted
	// on the assessment log for audit.
	Mapping map[string]any

	// UpgradedType is set when an unknown sheet's header row identified the
	// content (see UpgradeFromHeader); ImportUnknown otherwise.
	UpgradedType models.ImportType
}

// SheetScanner extracts typed records from one sheet's rows. One
// implementation exists per import type; the detector's result selects which
// one runs, and each is independently testable.
type SheetScanner interface {
	Scan(sheetName string, rows []models.Row, sc *ScanContext, rec *recognitionSets) (*SheetExtract, error)
}

// ScannerFor returns the scanner strategy for the given import type.
func ScannerFor(t models.ImportType) (SheetScanner, error) {
	switch t {
	case models.ImportMentor, models.ImportSelf:
		return &matrixScanner{}, nil
	case models.ImportPeer:
		return &peerScanner{}, nil
	case models.ImportTerm:
		return &termScanner{}, nil
	case models.ImportMentorNotes:
		return &notesScanner{}, nil
	default:
		return nil, fmt.Errorf("no scanner for import type %q", t)
	}
}

// recognitionSets accumulates resolver outcomes across all sheets of one
// workbook. Misses are recorded, never raised: partial recognition must not
// block an import.
type recognitionSets struct {
	students             map[string]struct{}
	unrecognizedStudents map[string]struct{}
	parameters           map[string]struct{}
	unrecognizedCodes    map[string]struct{}
}

func newRecognitionSets() *recognitionSets {
	return &recognitionSets{
		students:             make(map[string]struct{}),
		unrecognizedStudents: make(map[string]struct{}),
		parameters:           make(map[string]struct{}),
		unrecognizedCodes:    make(map[string]struct{}),
	}
}

// Report flattens the sets into the preview structure, sorted for stable
// output.
func (r *recognitionSets) Report() *models.RecognitionReport {
	return &models.RecognitionReport{
		StudentCount:             len(r.students),
		Students:                 sortedKeys(r.students),
		UnrecognizedStudentCount: len(r.unrecognizedStudents),
		UnrecognizedStudents:     sortedKeys(r.unrecognizedStudents),
		ParameterCount:           len(r.parameters),
		Parameters:               sortedKeys(r.parameters),
		UnrecognizedCodes:        sortedKeys(r.unrecognizedCodes),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cellString renders a cell value as a trimmed string. JSON-decoded cells
// are string, float64, bool or nil.
func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// cellFloat parses a cell as a score value. Placeholder tokens and parse
// failures report !ok; the caller skips the cell rather than failing the
// import.
func cellFloat(cell any) (float64, bool) {
	switch v := cell.(type) {
	case float64:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" || strings.EqualFold(s, "nan") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func cellAt(row models.Row, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func joinRow(row models.Row) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		parts = append(parts, cellString(cell))
	}
	return strings.Join(parts, " ")
}

// findHeaderRow returns the index of the first row within the search window
// whose joined lowercase text satisfies match, defaulting to row 0.
func findHeaderRow(rows []models.Row, searchRows int, match func(joined string) bool) int {
	limit := min(searchRows, len(rows))
	for i := 0; i < limit; i++ {
		if match(strings.ToLower(joinRow(rows[i]))) {
			return i
		}
	}
	return 0
}

// containsAny reports whether s contains at least one of the keywords.
func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func capRows(rows []models.Row, maxRows int) []models.Row {
	if maxRows > 0 && len(rows) > maxRows {
		return rows[:maxRows]
	}
	return rows
}
