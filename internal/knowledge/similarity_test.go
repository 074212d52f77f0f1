package knowledge

import (
	"math"
	"testing"
)

func TestCosineSimilarity_Bounds(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"empty", nil, []float32{1, 0}, 0},
		{"mismatched dimensions", []float32{1, 0, 0}, []float32{1, 0}, 0},
		{"scaled identical", []float32{2, 0}, []float32{5, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
			if got < -1 || got > 1 {
				t.Errorf("similarity %v outside [-1, 1]", got)
			}
		})
	}
}

func TestCosineSimilarity_NeverExceedsOne(t *testing.T) {
	// Vectors whose float math is prone to rounding past 1.0.
	a := []float32{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}
	got := cosineSimilarity(a, a)
	if got > 1 {
		t.Errorf("similarity %v exceeds 1", got)
	}
	if math.Abs(float64(got-1)) > 1e-6 {
		t.Errorf("self-similarity = %v, want 1", got)
	}
}

func TestCosineSimilarity_KnownAngle(t *testing.T) {
	// [1,0] vs [0.9,0.1]: cos = 0.9/sqrt(0.82) ≈ 0.99388
	got := cosineSimilarity([]float32{1, 0}, []float32{0.9, 0.1})
	want := 0.9 / math.Sqrt(0.82)
	if math.Abs(float64(got)-want) > 1e-5 {
		t.Errorf("similarity = %v, want %v", got, want)
	}
}
