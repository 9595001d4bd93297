package render

import "testing"

func TestWrappedLines(t *testing.T) {
	cases := []struct {
		textWidth float64
		cellWidth float64
		want      int
	}{
		{0, 50, 1},
		{-1, 50, 1},
		{10, 50, 1},
		{50, 50, 1},
		{50.1, 50, 2},
		{100, 50, 2},
		{101, 50, 3},
	}
	for _, tc := range cases {
		if got := WrappedLines(tc.textWidth, tc.cellWidth); got != tc.want {
			t.Fatalf("WrappedLines(%v, %v) = %d, want %d", tc.textWidth, tc.cellWidth, got, tc.want)
		}
	}
}

func TestAdaptiveHeight(t *testing.T) {
	cases := []struct {
		nominal float64
		lines   int
		want    float64
	}{
		{10, 1, 10},
		{10, 2, 5},
		{10, 3, 3.8},
		{13, 3, 4},
		{6, 1, 6},
		{6, 2, 3.8},
		{5, 0, 5},
	}
	for _, tc := range cases {
		if got := AdaptiveHeight(tc.nominal, tc.lines); got != tc.want {
			t.Fatalf("AdaptiveHeight(%v, %d) = %v, want %v", tc.nominal, tc.lines, got, tc.want)
		}
	}
}

func TestAdaptiveHeightNeverBelowMinimum(t *testing.T) {
	for lines := 1; lines < 40; lines++ {
		if got := AdaptiveHeight(10, lines); got < MinLineHeight {
			t.Fatalf("height %v for %d lines dropped below %v", got, lines, MinLineHeight)
		}
	}
}
