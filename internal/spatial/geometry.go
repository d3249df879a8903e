package spatial

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/jengzang/records-heatmap/internal/models"
)

// FromCorners builds a world rectangle from two declared corners.
// Recorded bounds sometimes arrive with min and max swapped on an axis,
// so the corners are normalized componentwise.
func FromCorners(a, b models.Point) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: a.X, Y: a.Y}, r2.Point{X: b.X, Y: b.Y})
}

// BoundingBox returns the minimal rectangle enclosing the points.
// An empty slice yields r2.EmptyRect().
func BoundingBox(points []models.Point) r2.Rect {
	rect := r2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(r2.Point{X: p.X, Y: p.Y})
	}
	return rect
}

// IsDegenerate reports whether the rectangle has no usable area for mapping
func IsDegenerate(rect r2.Rect) bool {
	if rect.IsEmpty() {
		return true
	}
	size := rect.Size()
	return size.X <= 0 || size.Y <= 0 || math.IsInf(size.X, 0) || math.IsInf(size.Y, 0)
}

// ExpandDegenerate widens any zero-length axis of rect to an extent of 1
// world unit starting at its low edge. Empty rectangles are returned as is.
func ExpandDegenerate(rect r2.Rect) r2.Rect {
	if rect.IsEmpty() {
		return rect
	}
	if rect.X.Length() == 0 {
		rect.X.Hi = rect.X.Lo + 1
	}
	if rect.Y.Length() == 0 {
		rect.Y.Hi = rect.Y.Lo + 1
	}
	return rect
}

// DegenerateBoundsError reports a level whose world rectangle has zero
// width or height (or no points at all), which cannot be mapped to a canvas.
type DegenerateBoundsError struct {
	Level string
	Rect  r2.Rect
}

func (e *DegenerateBoundsError) Error() string {
	if e.Rect.IsEmpty() {
		return fmt.Sprintf("level %q has no world bounds", e.Level)
	}
	return fmt.Sprintf("level %q has degenerate world bounds (%g, %g)-(%g, %g)",
		e.Level, e.Rect.X.Lo, e.Rect.Y.Lo, e.Rect.X.Hi, e.Rect.Y.Hi)
}
