package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// absentTokens are placeholder strings that spreadsheet tooling writes into
// empty cells. They are treated as "no value", never as unrecognized names.
var absentTokens = map[string]struct{}{
	"":          {},
	"nan":       {},
	"null":      {},
	"undefined": {},
}

// cleanName lowercases, trims and collapses internal whitespace so that
// " JANE  DOE " and "jane doe" compare equal.
func cleanName(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// IsAbsent reports whether raw is empty or a spreadsheet placeholder token.
func IsAbsent(raw string) bool {
	_, ok := absentTokens[cleanName(raw)]
	return ok
}

// RosterResolver matches free-text name strings against a roster snapshot.
// Matching is exact (case-insensitive, whitespace-collapsed) against the
// canonical name or any alias - no fuzzy matching. The resolver is a pure
// lookup over the snapshot it was built from; it is rebuilt per request.
type RosterResolver struct {
	byName map[string]uuid.UUID
}

// NewRosterResolver indexes the given roster snapshot. Later students do not
// override earlier ones on a (data-quality) key collision.
func NewRosterResolver(students []*models.Student) *RosterResolver {
	byName := make(map[string]uuid.UUID, len(students)*2)
	for _, s := range students {
		if key := cleanName(s.CanonicalName); key != "" {
			if _, exists := byName[key]; !exists {
				byName[key] = s.ID
			}
		}
		for _, alias := range s.Aliases {
			if key := cleanName(alias); key != "" {
				if _, exists := byName[key]; !exists {
					byName[key] = s.ID
				}
			}
		}
	}
	return &RosterResolver{byName: byName}
}

// Resolve returns the student id matching raw, or false when no student
// matches. Absent tokens never match.
func (r *RosterResolver) Resolve(raw string) (uuid.UUID, bool) {
	if IsAbsent(raw) {
		return uuid.Nil, false
	}
	id, ok := r.byName[cleanName(raw)]
	return id, ok
}
