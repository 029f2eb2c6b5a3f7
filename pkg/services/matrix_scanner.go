package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// questionIndicators mark matrix columns that carry the question wording
// rather than a student's scores (self-assessment exports include these).
var questionIndicators = []string{"question", "prompt", "helper text"}

// matrixMetadataHeaders are non-student header cells that matrix exports
// place between the code column and the first student column.
var matrixMetadataHeaders = map[string]struct{}{
	"domain":             {},
	"parameter":          {},
	"description":        {},
	"i-statement prompt": {},
}

// matrixScanner handles the mentor/self matrix layout: parameter codes down
// column 0, student names across the header row, raw scores in the grid.
type matrixScanner struct{}

var _ SheetScanner = (*matrixScanner)(nil)

func (s *matrixScanner) Scan(sheetName string, rows []models.Row, sc *ScanContext, rec *recognitionSets) (*SheetExtract, error) {
	rows = capRows(rows, sc.Options.MaxRows)
	extract := &SheetExtract{
		Mapping:      map[string]any{},
		UpgradedType: models.ImportUnknown,
	}
	if len(rows) == 0 {
		return extract, nil
	}

	headerIdx := findHeaderRow(rows, sc.Options.HeaderSearchRows, func(joined string) bool {
		return containsAny(joined, "code", "parameter", "domain")
	})
	headerRow := rows[headerIdx]
	extract.UpgradedType = UpgradeFromHeader(headerRow)

	// Header pass: every cell right of the code column is a candidate
	// student name. Misses are reported for alias review, not raised.
	studentCols := map[int]uuid.UUID{}
	questionCol := -1
	for colIdx := 1; colIdx < len(headerRow); colIdx++ {
		headerVal := cellString(cellAt(headerRow, colIdx))
		if IsAbsent(headerVal) {
			continue
		}
		lowHeader := strings.ToLower(headerVal)
		if containsAny(lowHeader, questionIndicators...) {
			if questionCol == -1 {
				questionCol = colIdx
			}
			continue
		}
		if _, isMeta := matrixMetadataHeaders[lowHeader]; isMeta {
			continue
		}

		if studentID, ok := sc.Roster.Resolve(headerVal); ok {
			studentCols[colIdx] = studentID
			rec.students[headerVal] = struct{}{}
		} else {
			rec.unrecognizedStudents[headerVal] = struct{}{}
		}
	}

	// Data pass: resolve the code in column 0, then pull scores from every
	// matched student column. Non-numeric cells are skipped, never fatal.
	for rIdx := headerIdx + 1; rIdx < len(rows); rIdx++ {
		row := rows[rIdx]
		if len(row) == 0 {
			continue
		}

		codeVal := cellString(cellAt(row, 0))
		if IsAbsent(codeVal) {
			continue
		}

		param, ok := sc.Params.ResolveCode(codeVal)
		if !ok {
			if IsStoplisted(codeVal) {
				continue
			}
			if LooksLikeCode(codeVal) {
				rec.unrecognizedCodes[strings.ToUpper(strings.TrimSpace(codeVal))] = struct{}{}
			}
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(codeVal))
		rec.parameters[code] = struct{}{}
		extract.Mapping[code] = param.ID.String()

		// Self-assessment exports carry the survey wording in a question
		// column; keep it keyed by parameter for the commit step.
		if questionCol != -1 {
			if qText := cellString(cellAt(row, questionCol)); !IsAbsent(qText) {
				if extract.Questions == nil {
					extract.Questions = map[uuid.UUID]string{}
				}
				extract.Questions[param.ID] = qText
			}
		}

		for colIdx, studentID := range studentCols {
			score, ok := cellFloat(cellAt(row, colIdx))
			if !ok {
				continue
			}
			if score > extract.MaxScore {
				extract.MaxScore = score
			}
			extract.HasScores = true
			extract.Matrix = append(extract.Matrix, MatrixCell{
				StudentID:   studentID,
				ParameterID: param.ID,
				RawScore:    score,
			})
		}
	}

	return extract, nil
}
