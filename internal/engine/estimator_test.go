package engine

import (
	"math"
	"testing"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		name    string
		elapsed float64
		want    float64
	}{
		{"start", 0, 0.5},
		{"peak", 5 * math.Pi, 1.0},
		{"trough", 15 * math.Pi, 0.0},
		{"midpoint again", 20 * math.Pi, 0.5},
	}

	for _, tc := range cases {
		got := Estimate(tc.elapsed)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: Estimate(%f) = %f, want %f", tc.name, tc.elapsed, got, tc.want)
		}
	}
}

func TestEstimateStaysInRange(t *testing.T) {
	for s := 0.0; s < 200; s += 0.37 {
		got := Estimate(s)
		if got < 0 || got > 1 {
			t.Fatalf("Estimate(%f) = %f out of [0,1]", s, got)
		}
	}
}
