package services

import (
	"slices"
	"strings"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// DetectFormat infers the import type from the uploaded filename and the
// workbook's sheet names. The heuristic is deliberately conservative: each
// rule is checked in a fixed order and the first hit wins, so a file can
// never be claimed by two different non-unknown types. Files that match
// nothing stay unknown and rely on the content upgrade during scanning or an
// explicit administrator selection.
func DetectFormat(filename string, sheetNames []string) models.ImportType {
	nameLower := strings.ToLower(filename)

	if strings.Contains(nameLower, "note") {
		return models.ImportMentorNotes
	}
	if strings.Contains(nameLower, "matrix") ||
		slices.Contains(sheetNames, "Kickstart") ||
		slices.Contains(sheetNames, "Legend") {
		return models.ImportMentor
	}
	if strings.Contains(nameLower, "self") ||
		strings.Contains(nameLower, "x-ray") ||
		strings.Contains(nameLower, "accounting") {
		return models.ImportSelf
	}
	if strings.Contains(nameLower, "peer") {
		return models.ImportPeer
	}
	if strings.Contains(nameLower, "term") {
		return models.ImportTerm
	}

	return models.ImportUnknown
}

// UpgradeFromHeader reclassifies an unknown workbook as a mentor matrix when
// a header row carries both a "code" and a "domain" column. Self matrices
// share the same shape, but the upgrade intentionally never guesses self;
// that distinction is left to the administrator's explicit type selection.
func UpgradeFromHeader(headerRow models.Row) models.ImportType {
	joined := strings.ToLower(joinRow(headerRow))
	if strings.Contains(joined, "code") && strings.Contains(joined, "domain") {
		return models.ImportMentor
	}
	return models.ImportUnknown
}
