package spatial

import (
	"errors"
	"testing"

	"github.com/golang/geo/r2"
)

func rect(minX, minY, maxX, maxY float64) r2.Rect {
	return r2.Rect{X: r1Interval(minX, maxX), Y: r1Interval(minY, maxY)}
}

func TestWorldToCanvas(t *testing.T) {
	tr, err := NewCoordinateTransformer(rect(-50, 10, 50, 110), 200, 100)
	if err != nil {
		t.Fatalf("NewCoordinateTransformer: %v", err)
	}

	tests := []struct {
		name   string
		x, y   float64
		px, py int
	}{
		{"min corner", -50, 10, 0, 0},
		{"max corner", 50, 110, 200, 100},
		{"center", 0, 60, 100, 50},
		{"no y flip", -50, 109, 0, 99},
		{"floors fractions", -49.7, 10.9, 0, 0},
		{"left of bounds", -60, 10, -20, 0},
		{"below bounds floors toward -inf", -50.1, 9.9, -1, -1},
		{"far outside", 1e30, -1e30, maxCanvasCoord, -maxCanvasCoord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py := tr.WorldToCanvas(tt.x, tt.y)
			if px != tt.px || py != tt.py {
				t.Errorf("WorldToCanvas(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, px, py, tt.px, tt.py)
			}
		})
	}
}

func TestNewCoordinateTransformerDegenerate(t *testing.T) {
	tests := []struct {
		name string
		rect r2.Rect
	}{
		{"zero width", rect(5, 0, 5, 10)},
		{"zero height", rect(0, 3, 10, 3)},
		{"single point", rect(1, 1, 1, 1)},
		{"empty", r2.EmptyRect()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoordinateTransformer(tt.rect, 100, 100)
			var degErr *DegenerateBoundsError
			if !errors.As(err, &degErr) {
				t.Fatalf("err = %v, want *DegenerateBoundsError", err)
			}
		})
	}
}

func TestNewCoordinateTransformerCanvas(t *testing.T) {
	if _, err := NewCoordinateTransformer(rect(0, 0, 1, 1), 0, 10); err == nil {
		t.Error("expected error for zero canvas width")
	}
}
