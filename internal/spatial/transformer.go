package spatial

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// maxCanvasCoord bounds transformed coordinates so far-away points stay
// representable as int without overflow. They are off-canvas either way.
const maxCanvasCoord = 1 << 24

// CoordinateTransformer maps world-space points onto a fixed canvas.
// Canvas Y grows with world Y; no axis flip is applied.
type CoordinateTransformer struct {
	rect   r2.Rect
	width  int
	height int
}

// NewCoordinateTransformer creates a transformer for the given world rectangle
// and canvas size. A degenerate rectangle yields a *DegenerateBoundsError.
func NewCoordinateTransformer(rect r2.Rect, width, height int) (*CoordinateTransformer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if IsDegenerate(rect) {
		return nil, &DegenerateBoundsError{Rect: rect}
	}
	return &CoordinateTransformer{rect: rect, width: width, height: height}, nil
}

// Rect returns the world rectangle
func (t *CoordinateTransformer) Rect() r2.Rect {
	return t.rect
}

// CanvasSize returns the canvas width and height
func (t *CoordinateTransformer) CanvasSize() (int, int) {
	return t.width, t.height
}

// WorldToCanvas converts a world point to a canvas pixel.
// The result may lie outside the canvas for points outside the rectangle;
// (Lo.X, Lo.Y) maps to (0, 0) and (Hi.X, Hi.Y) maps to (width, height).
func (t *CoordinateTransformer) WorldToCanvas(x, y float64) (int, int) {
	cx := (x - t.rect.X.Lo) / t.rect.X.Length() * float64(t.width)
	cy := (y - t.rect.Y.Lo) / t.rect.Y.Length() * float64(t.height)
	return toPixel(cx), toPixel(cy)
}

func toPixel(v float64) int {
	v = math.Floor(v)
	if v > maxCanvasCoord {
		return maxCanvasCoord
	}
	if v < -maxCanvasCoord {
		return -maxCanvasCoord
	}
	return int(v)
}
