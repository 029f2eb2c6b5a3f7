package services

import (
	"strings"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// notesScanner handles the flat mentor-notes layout: one (student, mentor,
// free-text note) triple per row.
type notesScanner struct{}

var _ SheetScanner = (*notesScanner)(nil)

func (s *notesScanner) Scan(sheetName string, rows []models.Row, sc *ScanContext, rec *recognitionSets) (*SheetExtract, error) {
	rows = capRows(rows, sc.Options.MaxRows)
	extract := &SheetExtract{
		Mapping:      map[string]any{},
		UpgradedType: models.ImportUnknown,
	}
	if len(rows) < 2 {
		return extract, nil
	}

	headerIdx := findHeaderRow(rows, sc.Options.HeaderSearchRows, func(joined string) bool {
		return strings.Contains(joined, "student") && strings.Contains(joined, "mentor")
	})
	headerRow := rows[headerIdx]

	studentCol, mentorCol, noteCol := -1, -1, -1
	for idx := range headerRow {
		h := strings.ToLower(cellString(cellAt(headerRow, idx)))
		switch {
		case h == "":
			continue
		case studentCol == -1 && containsAny(h, "student", "name"):
			studentCol = idx
			extract.Mapping["student"] = idx
		case mentorCol == -1 && strings.Contains(h, "mentor"):
			mentorCol = idx
			extract.Mapping["mentor"] = idx
		case noteCol == -1 && strings.Contains(h, "note"):
			noteCol = idx
			extract.Mapping["notes"] = idx
		}
	}

	if studentCol == -1 || noteCol == -1 {
		return extract, nil
	}

	for rIdx := headerIdx + 1; rIdx < len(rows); rIdx++ {
		row := rows[rIdx]
		if len(row) == 0 {
			continue
		}

		studentName := cellString(cellAt(row, studentCol))
		noteText := cellString(cellAt(row, noteCol))
		if IsAbsent(studentName) || IsAbsent(noteText) {
			continue
		}

		studentID, ok := sc.Roster.Resolve(studentName)
		if ok {
			rec.students[studentName] = struct{}{}
		} else {
			rec.unrecognizedStudents[studentName] = struct{}{}
			continue
		}

		mentor := ""
		if mentorCol != -1 {
			if m := cellString(cellAt(row, mentorCol)); !IsAbsent(m) {
				mentor = m
			}
		}

		extract.Notes = append(extract.Notes, NoteRow{
			StudentID: studentID,
			Mentor:    mentor,
			Text:      noteText,
		})
	}

	return extract, nil
}
