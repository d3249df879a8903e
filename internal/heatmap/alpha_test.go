package heatmap

import "testing"

func TestAlpha(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 1},
		{1, 1},
		{2, 0.5},
		{4, 0.25},
		{10, 0.1},
		{20, 0.1},
		{1000, 0.1},
	}
	for _, tt := range tests {
		if got := Alpha(tt.n); got != tt.want {
			t.Errorf("Alpha(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
