package services

import (
	"strings"

	"github.com/readinesslab/readiness-engine/pkg/models"
)

// headerStoplist contains metadata words that appear in matrix sheets next to
// parameter codes. Headers and row labels matching these are silently
// ignored, not reported as unrecognized codes.
var headerStoplist = map[string]struct{}{
	"code":        {},
	"parameter":   {},
	"description": {},
	"rubric":      {},
	"weight":      {},
	"score":       {},
	"average":     {},
	"total":       {},
}

// PeerMetric is one of the five fixed peer-feedback scoring dimensions.
type PeerMetric string

const (
	PeerQuality       PeerMetric = "quality_of_work"
	PeerInitiative    PeerMetric = "initiative_ownership"
	PeerCommunication PeerMetric = "communication"
	PeerCollaboration PeerMetric = "collaboration"
	PeerGrowth        PeerMetric = "growth_mindset"
)

// peerVocabulary maps header keywords to peer metrics. Peer sheets use
// descriptive headers rather than codes, so resolution is containment-based.
var peerVocabulary = []struct {
	keywords []string
	metric   PeerMetric
}{
	{[]string{"quality"}, PeerQuality},
	{[]string{"initiative", "ownership"}, PeerInitiative},
	{[]string{"communication"}, PeerCommunication},
	{[]string{"collaboration"}, PeerCollaboration},
	{[]string{"growth"}, PeerGrowth},
}

// ParameterResolver matches header/code strings against the readiness
// parameter taxonomy snapshot. Pure lookup, rebuilt per request.
type ParameterResolver struct {
	byCode map[string]*models.ReadinessParameter
}

// NewParameterResolver indexes parameters by their upper-cased code. Blank
// codes are skipped.
func NewParameterResolver(parameters []*models.ReadinessParameter) *ParameterResolver {
	byCode := make(map[string]*models.ReadinessParameter, len(parameters))
	for _, p := range parameters {
		code := strings.ToUpper(strings.TrimSpace(p.Code))
		if code == "" {
			continue
		}
		if _, exists := byCode[code]; !exists {
			byCode[code] = p
		}
	}
	return &ParameterResolver{byCode: byCode}
}

// ResolveCode matches a matrix row code exactly (case-normalized to upper).
func (r *ParameterResolver) ResolveCode(raw string) (*models.ReadinessParameter, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" || code == "NAN" {
		return nil, false
	}
	p, ok := r.byCode[code]
	return p, ok
}

// ResolvePeerMetric matches a peer-sheet header against the fixed metric
// vocabulary by keyword containment.
func ResolvePeerMetric(header string) (PeerMetric, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return "", false
	}
	for _, entry := range peerVocabulary {
		for _, kw := range entry.keywords {
			if strings.Contains(h, kw) {
				return entry.metric, true
			}
		}
	}
	return "", false
}

// LooksLikeCode reports whether s has the shape of a parameter code: 2-4
// characters, all uppercase letters or digits, at least one letter. Strings
// of this shape that fail to resolve are reported as unrecognized codes so
// the administrator can spot renamed parameters; anything else is assumed to
// be sheet metadata and dropped silently.
func LooksLikeCode(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 4 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return hasLetter
}

// IsStoplisted reports whether the header word is known sheet metadata.
func IsStoplisted(s string) bool {
	_, ok := headerStoplist[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
