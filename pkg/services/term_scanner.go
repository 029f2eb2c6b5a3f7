package services

import (
	"strings"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// termScanner handles the flat term-tracking layout: one (student, metric,
// value) triple per row.
type termScanner struct{}

var _ SheetScanner = (*termScanner)(nil)

func (s *termScanner) Scan(sheetName string, rows []models.Row, sc *ScanContext, rec *recognitionSets) (*SheetExtract, error) {
	rows = capRows(rows, sc.Options.MaxRows)
	extract := &SheetExtract{
		Mapping:      map[string]any{},
		UpgradedType: models.ImportUnknown,
	}
	if len(rows) < 2 {
		return extract, nil
	}

	headerIdx := findHeaderRow(rows, sc.Options.HeaderSearchRows, func(joined string) bool {
		return strings.Contains(joined, "metric") && strings.Contains(joined, "value")
	})
	headerRow := rows[headerIdx]

	studentCol, metricCol, valueCol := -1, -1, -1
	for idx := range headerRow {
		h := strings.ToLower(cellString(cellAt(headerRow, idx)))
		switch {
		case h == "":
			continue
		case studentCol == -1 && containsAny(h, "student", "name"):
			studentCol = idx
			extract.Mapping["student"] = idx
		case metricCol == -1 && strings.Contains(h, "metric") && !strings.Contains(h, "value"):
			metricCol = idx
			extract.Mapping["metric"] = idx
		case valueCol == -1 && containsAny(h, "value", "score", "count"):
			valueCol = idx
			extract.Mapping["value"] = idx
		}
	}

	if studentCol == -1 || metricCol == -1 || valueCol == -1 {
		// Sheet is missing required columns; skipped without error.
		return extract, nil
	}

	for rIdx := headerIdx + 1; rIdx < len(rows); rIdx++ {
		row := rows[rIdx]
		if len(row) == 0 {
			continue
		}

		studentName := cellString(cellAt(row, studentCol))
		metric := strings.ToLower(cellString(cellAt(row, metricCol)))
		if IsAbsent(studentName) || metric == "" {
			continue
		}

		studentID, ok := sc.Roster.Resolve(studentName)
		if ok {
			rec.students[studentName] = struct{}{}
		} else {
			rec.unrecognizedStudents[studentName] = struct{}{}
			continue
		}

		value, ok := cellFloat(cellAt(row, valueCol))
		if !ok {
			continue
		}

		extract.HasScores = true
		if value > extract.MaxScore {
			extract.MaxScore = value
		}
		extract.Term = append(extract.Term, TermRow{
			StudentID: studentID,
			Metric:    metric,
			Value:     value,
		})
	}

	return extract, nil
}
