package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		scaleMax int
		want     float64
	}{
		{"identity on 10 scale low", 1, 10, 1},
		{"identity on 10 scale high", 10, 10, 10},
		{"identity on 10 scale mid", 7, 10, 7},
		{"5 scale low", 1, 5, 1},
		{"5 scale high", 5, 5, 10},
		{"5 scale mid", 3, 5, 5.5},
		{"rounding to 2 decimals", 2, 3, 5.5},
		{"degenerate scale", 4, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw, tt.scaleMax); got != tt.want {
				t.Errorf("Normalize(%v, %d) = %v, want %v", tt.raw, tt.scaleMax, got, tt.want)
			}
		})
	}
}

func TestDetectScale(t *testing.T) {
	five := 5
	ten := 10

	tests := []struct {
		name      string
		maxScore  float64
		hasScores bool
		want      *int
	}{
		{"no scores", 0, false, nil},
		{"max 4 implies 5", 4, true, &five},
		{"max exactly 5", 5, true, &five},
		{"max 7 implies 10", 7, true, &ten},
		{"max 10", 10, true, &ten},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectScale(tt.maxScore, tt.hasScores)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("DetectScale = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("DetectScale = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestAggregateMatrix_AveragesPerPair(t *testing.T) {
	student := uuid.New()
	param := uuid.New()
	cells := []MatrixCell{
		{StudentID: student, ParameterID: param, RawScore: 6},
		{StudentID: student, ParameterID: param, RawScore: 8},
	}

	scores := AggregateMatrix(cells)
	if len(scores) != 1 {
		t.Fatalf("expected 1 aggregated score, got %d", len(scores))
	}
	got := scores[0]
	if got.RawScore != 7 {
		t.Errorf("RawScore = %v, want 7", got.RawScore)
	}
	if got.NormalizedScore != 7 {
		t.Errorf("NormalizedScore = %v, want 7.00", got.NormalizedScore)
	}
	if got.Observations != 2 {
		t.Errorf("Observations = %d, want 2", got.Observations)
	}
}

func TestAggregateMatrix_ZeroIsNoResponse(t *testing.T) {
	student := uuid.New()
	answered := uuid.New()
	skipped := uuid.New()
	cells := []MatrixCell{
		{StudentID: student, ParameterID: answered, RawScore: 0},
		{StudentID: student, ParameterID: answered, RawScore: 4},
		{StudentID: student, ParameterID: skipped, RawScore: 0},
	}

	scores := AggregateMatrix(cells)
	if len(scores) != 1 {
		t.Fatalf("expected only the answered pair, got %d scores", len(scores))
	}
	if scores[0].ParameterID != answered {
		t.Error("all-zero pair should produce no record")
	}
	// Zero is excluded from the mean, not averaged in.
	if scores[0].RawScore != 4 {
		t.Errorf("RawScore = %v, want 4", scores[0].RawScore)
	}
}

func TestAggregateMatrix_RoundsToTwoDecimals(t *testing.T) {
	student := uuid.New()
	param := uuid.New()
	cells := []MatrixCell{
		{StudentID: student, ParameterID: param, RawScore: 1},
		{StudentID: student, ParameterID: param, RawScore: 2},
		{StudentID: student, ParameterID: param, RawScore: 2},
	}

	scores := AggregateMatrix(cells)
	if scores[0].RawScore != 1.67 {
		t.Errorf("RawScore = %v, want 1.67", scores[0].RawScore)
	}
}

func TestAggregateMatrix_DeterministicOrder(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	param := uuid.New()
	cells := []MatrixCell{
		{StudentID: b, ParameterID: param, RawScore: 3},
		{StudentID: a, ParameterID: param, RawScore: 5},
	}

	scores := AggregateMatrix(cells)
	if scores[0].StudentID != b || scores[1].StudentID != a {
		t.Error("aggregated scores must preserve first-seen order")
	}
}
