package models

// ImportType is the semantic kind of an uploaded workbook, inferred by the
// format detector or chosen explicitly by the administrator.
type ImportType string

const (
	ImportMentor      ImportType = "mentor"
	ImportSelf        ImportType = "self"
	ImportPeer        ImportType = "peer"
	ImportTerm        ImportType = "term"
	ImportMentorNotes ImportType = "mentor_notes"
	ImportUnknown     ImportType = "unknown"
)

// Valid reports whether t is one of the committable import types.
func (t ImportType) Valid() bool {
	switch t {
	case ImportMentor, ImportSelf, ImportPeer, ImportTerm, ImportMentorNotes:
		return true
	}
	return false
}

// IsMatrix reports whether t uses the matrix layout (parameter codes in
// rows, student names in columns).
func (t ImportType) IsMatrix() bool {
	return t == ImportMentor || t == ImportSelf
}

// Workbook is a parsed spreadsheet: per sheet name, a row-major 2-D array of
// cell values (nil for empty cells). Workbook parsing itself is an external
// collaborator; the engine consumes the already-parsed cells.
type Workbook struct {
	FileName string           `json:"fileName"`
	Sheets   map[string][]Row `json:"sheets"`
}

// Row is one positional worksheet row. Cells arrive JSON-decoded, so values
// are string, float64, bool or nil.
type Row []any

// SheetNames returns the workbook's sheet names in unspecified order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for name := range w.Sheets {
		names = append(names, name)
	}
	return names
}

// ColumnTargetKind says what a mapped sheet column feeds.
type ColumnTargetKind string

const (
	// TargetStudentName marks the column holding student name keys.
	TargetStudentName ColumnTargetKind = "studentName"
	// TargetParameter maps the column onto a readiness parameter.
	TargetParameter ColumnTargetKind = "parameter"
	// TargetIgnored explicitly excludes the column from the import.
	TargetIgnored ColumnTargetKind = "ignored"
)

// ColumnTarget is a confirmed mapping decision for one header. The tagged
// form keeps "explicitly ignored" distinct from "never mapped".
type ColumnTarget struct {
	Kind        ColumnTargetKind `json:"kind"`
	ParameterID string           `json:"parameterId,omitempty"`
}

// RecognitionReport summarizes resolver outcomes for one previewed workbook.
// It exists only between preview and commit; nothing here is persisted.
type RecognitionReport struct {
	StudentCount             int      `json:"studentCount"`
	Students                 []string `json:"students"`
	UnrecognizedStudentCount int      `json:"unrecognizedStudentCount"`
	UnrecognizedStudents     []string `json:"unrecognizedStudents"`
	ParameterCount           int      `json:"parameterCount"`
	Parameters               []string `json:"parameters"`
	UnrecognizedCodes        []string `json:"unrecognizedCodes"`
}
