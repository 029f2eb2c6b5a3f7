package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// peerMetricLabels give recognized peer columns a display name for the
// preview report.
var peerMetricLabels = map[PeerMetric]string{
	PeerQuality:       "Quality of Work",
	PeerInitiative:    "Initiative & Ownership",
	PeerCommunication: "Communication",
	PeerCollaboration: "Collaboration",
	PeerGrowth:        "Growth Mindset",
}

// peerScanner handles the flat peer-feedback layout: one giver→recipient
// review per row, metric values in keyword-matched columns.
type peerScanner struct{}

var _ SheetScanner = (*peerScanner)(nil)

func (s *peerScanner) Scan(sheetName string, rows []models.Row, sc *ScanContext, rec *recognitionSets) (*SheetExtract, error) {
	rows = capRows(rows, sc.Options.MaxRows)
	extract := &SheetExtract{
		Mapping:      map[string]any{},
		UpgradedType: models.ImportUnknown,
	}
	if len(rows) < 2 {
		return extract, nil
	}

	headerIdx := findHeaderRow(rows, sc.Options.HeaderSearchRows, func(joined string) bool {
		return containsAny(joined, "recipient", "giver", "quality", "feedback")
	})
	headerRow := rows[headerIdx]

	recipientCol, giverCol, projectCol := -1, -1, -1
	metricCols := map[PeerMetric]int{}
	for idx := range headerRow {
		h := strings.ToLower(cellString(cellAt(headerRow, idx)))
		switch {
		case h == "":
			continue
		case strings.Contains(h, "recipient") || strings.Contains(h, "to:"):
			recipientCol = idx
			extract.Mapping["recipient"] = idx
		case strings.Contains(h, "giver") || strings.Contains(h, "your name") || strings.Contains(h, "from:"):
			giverCol = idx
			extract.Mapping["giver"] = idx
		case strings.Contains(h, "project"):
			projectCol = idx
			extract.Mapping["project"] = idx
		default:
			if metric, ok := ResolvePeerMetric(h); ok {
				if _, taken := metricCols[metric]; !taken {
					metricCols[metric] = idx
					extract.Mapping[string(metric)] = idx
					rec.parameters[peerMetricLabels[metric]] = struct{}{}
				}
			}
		}
	}

	if recipientCol == -1 || giverCol == -1 {
		// Not a peer sheet; nothing usable, but not an error either.
		return extract, nil
	}

	for rIdx := headerIdx + 1; rIdx < len(rows); rIdx++ {
		row := rows[rIdx]
		if len(row) == 0 {
			continue
		}

		recipientName := cellString(cellAt(row, recipientCol))
		giverName := cellString(cellAt(row, giverCol))
		if IsAbsent(recipientName) || IsAbsent(giverName) {
			continue
		}

		recipientID, recipientOK := sc.Roster.Resolve(recipientName)
		if recipientOK {
			rec.students[recipientName] = struct{}{}
		} else {
			rec.unrecognizedStudents[recipientName] = struct{}{}
		}
		giverID, giverOK := sc.Roster.Resolve(giverName)
		if giverOK {
			rec.students[giverName] = struct{}{}
		} else {
			rec.unrecognizedStudents[giverName] = struct{}{}
		}
		if !recipientOK || !giverOK {
			continue
		}

		metrics := map[PeerMetric]float64{}
		for metric, col := range metricCols {
			if v, ok := cellFloat(cellAt(row, col)); ok {
				metrics[metric] = v
				if v > extract.MaxScore {
					extract.MaxScore = v
				}
				extract.HasScores = true
			}
		}
		if len(metrics) == 0 {
			continue
		}

		extract.Peer = append(extract.Peer, PeerRow{
			RecipientID: recipientID,
			GiverID:     giverID,
			ProjectID:   s.resolveRowProject(row, projectCol, sc.Projects),
			Metrics:     metrics,
		})
	}

	return extract, nil
}

// resolveRowProject matches the row's project cell against known project
// names and sequence labels. uuid.Nil means "use the UI selection".
func (s *peerScanner) resolveRowProject(row models.Row, projectCol int, projects []*models.Project) uuid.UUID {
	if projectCol == -1 {
		return uuid.Nil
	}
	name := cleanName(cellString(cellAt(row, projectCol)))
	if name == "" {
		return uuid.Nil
	}
	for _, p := range projects {
		if cleanName(p.Name) == name || (p.SequenceLabel != "" && cleanName(p.SequenceLabel) == name) {
			return p.ID
		}
	}
	return uuid.Nil
}
