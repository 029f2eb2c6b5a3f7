package services

import (
	"math"

	"github.com/google/uuid"
)

// canonicalScaleMax is the fixed 1-10 scale all committed scores live on.
// Commit-time normalization assumes raw scores were authored on this scale;
// the preview's detected scale is advisory for the administrator.
const canonicalScaleMax = 10

// AggregatedScore is the mean of all usable raw observations for one
// (student, parameter) pair, with its normalized form.
type AggregatedScore struct {
	StudentID       uuid.UUID
	ParameterID     uuid.UUID
	RawScore        float64
	NormalizedScore float64
	Observations    int
}

// AggregateMatrix groups matrix cells by (student, parameter) and averages
// the raw scores. A raw value of exactly zero is "no response" and excluded;
// a pair whose observations were all zero produces no record. Supports
// multiple sheet columns feeding the same parameter (the mean covers e.g.
// two similarly-worded questions both scoring Communication).
func AggregateMatrix(cells []MatrixCell) []AggregatedScore {
	type pairKey struct {
		student uuid.UUID
		param   uuid.UUID
	}
	type accum struct {
		sum   float64
		count int
	}

	sums := make(map[pairKey]*accum)
	order := make([]pairKey, 0)
	for _, cell := range cells {
		if cell.RawScore == 0 {
			continue
		}
		key := pairKey{student: cell.StudentID, param: cell.ParameterID}
		a, ok := sums[key]
		if !ok {
			a = &accum{}
			sums[key] = a
			order = append(order, key)
		}
		a.sum += cell.RawScore
		a.count++
	}

	scores := make([]AggregatedScore, 0, len(order))
	for _, key := range order {
		a := sums[key]
		raw := round2(a.sum / float64(a.count))
		scores = append(scores, AggregatedScore{
			StudentID:       key.student,
			ParameterID:     key.param,
			RawScore:        raw,
			NormalizedScore: Normalize(raw, canonicalScaleMax),
			Observations:    a.count,
		})
	}
	return scores
}

// Normalize maps a raw score from a 1..scaleMax scale linearly onto the
// canonical 1-10 scale, rounded to 2 decimal places.
func Normalize(raw float64, scaleMax int) float64 {
	if scaleMax <= 1 {
		return round2(raw)
	}
	return round2((raw-1)/float64(scaleMax-1)*9 + 1)
}

// DetectScale infers the raw scale from the maximum observed score: a max of
// 5 or below implies a 1-5 scale, anything above a 1-10 scale. Returns nil
// when no numeric scores were seen.
func DetectScale(maxScore float64, hasScores bool) *int {
	if !hasScores {
		return nil
	}
	scale := canonicalScaleMax
	if maxScore <= 5 {
		scale = 5
	}
	return &scale
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
