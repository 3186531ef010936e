package stats

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPearson(t *testing.T) {
	x := []float64{0, 1, 2}
	if got := Pearson(x, []float64{0, 1, 2}, nil); !near(got, 1) {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Pearson(x, []float64{2, 1, 0}, nil); !near(got, -1) {
		t.Fatalf("expected -1, got %v", got)
	}
	if got := Pearson(x, []float64{3, 3, 3}, nil); got != 0 {
		t.Fatalf("expected 0 for constant series, got %v", got)
	}
}

func TestPearsonDegenerate(t *testing.T) {
	cases := []struct {
		name string
		x, y []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", []float64{0, 1}, []float64{1}},
		{"zero cross product", []float64{0, 1}, []float64{3, 0}},
		{"all zeros", []float64{0, 1}, []float64{0, 0}},
	}
	for _, tc := range cases {
		if got := Pearson(tc.x, tc.y, nil); got != 0 {
			t.Fatalf("%s: expected 0, got %v", tc.name, got)
		}
	}
}

func TestPearsonWeighted(t *testing.T) {
	x := Sequence(2)
	// 1/4 then 3/3: the share rises even though raw counts barely move.
	if got := Pearson(x, []float64{1, 3}, []float64{4, 3}); !near(got, 1) {
		t.Fatalf("expected 1, got %v", got)
	}
	// A zero weight contributes 0 instead of dividing by zero.
	if got := Pearson(x, []float64{2, 2}, []float64{0, 2}); !near(got, 1) {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Pearson(x, []float64{2, 2}, []float64{1}); got != 0 {
		t.Fatalf("expected 0 for mismatched weights, got %v", got)
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float64{1, 2}, []float64{2, 4}); !near(got, 1) {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Cosine([]float64{1}, nil); got != 0 {
		t.Fatalf("expected 0 for mismatched input, got %v", got)
	}
}

func TestSequence(t *testing.T) {
	got := Sequence(3)
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("unexpected sequence %v", got)
	}
}
