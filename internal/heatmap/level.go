package heatmap

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/raster"
	"github.com/jengzang/records-heatmap/internal/spatial"
)

// ErrLevelFinalized is returned when a finalized level receives a record
var ErrLevelFinalized = errors.New("level already finalized")

// LevelState accumulates every record of one level. Its transformer is
// fixed at creation; its rasters are owned by it alone.
type LevelState struct {
	Level string

	transformer *spatial.CoordinateTransformer
	painter     *raster.Painter

	paths   *raster.Raster
	heatmap *raster.Raster
	death   *raster.Raster
	events  map[string]*raster.Raster

	records   int
	finalized bool

	// Warning is set when the level's bounds had to be repaired
	Warning error
}

func newLevelState(level string, transformer *spatial.CoordinateTransformer, painter *raster.Painter) *LevelState {
	w, h := transformer.CanvasSize()
	return &LevelState{
		Level:       level,
		transformer: transformer,
		painter:     painter,
		paths:       raster.New(w, h),
		heatmap:     raster.New(w, h),
		death:       raster.New(w, h),
		events:      make(map[string]*raster.Raster),
	}
}

// Rect returns the world rectangle the level is mapped from
func (s *LevelState) Rect() r2.Rect {
	return s.transformer.Rect()
}

// Records returns the number of records accumulated so far
func (s *LevelState) Records() int {
	return s.records
}

// Paths returns the path accumulator
func (s *LevelState) Paths() *raster.Raster { return s.paths }

// Heatmap returns the point density accumulator
func (s *LevelState) Heatmap() *raster.Raster { return s.heatmap }

// Death returns the death marker accumulator
func (s *LevelState) Death() *raster.Raster { return s.death }

// Event returns the accumulator for an event name, if it was ever seen
func (s *LevelState) Event(name string) (*raster.Raster, bool) {
	r, ok := s.events[name]
	return r, ok
}

// EventNames returns the event names seen on this level, sorted
func (s *LevelState) EventNames() []string {
	names := make([]string, 0, len(s.events))
	for name := range s.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Accumulate blends one record into the level:
//   - paths: the polyline through all points, at alpha
//   - death: a marker at the last point, at full weight
//   - heatmap: one marker per point, each blended separately at alpha
//   - events: one marker per event point into that event's raster, at alpha
//
// A record without points leaves paths, heatmap and death untouched.
// Nothing is mutated if the record cannot be rendered.
func (s *LevelState) Accumulate(rec *models.Record, alpha raster.Weight) error {
	if s.finalized {
		return ErrLevelFinalized
	}

	pts := s.toCanvas(rec.Points)
	var pathOverlay *raster.Raster
	if len(pts) > 0 {
		overlay, err := s.painter.Polyline(pts)
		if err != nil {
			return fmt.Errorf("failed to draw path: %w", err)
		}
		pathOverlay = overlay
	}

	if pathOverlay != nil {
		if err := s.paths.Blend(pathOverlay, alpha); err != nil {
			return err
		}
		s.painter.Marker(s.death, pts[len(pts)-1], raster.Full)
		for _, pt := range pts {
			s.painter.Marker(s.heatmap, pt, alpha)
		}
	}

	names := make([]string, 0, len(rec.Events))
	for name := range rec.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dst, ok := s.events[name]
		if !ok {
			w, h := s.transformer.CanvasSize()
			dst = raster.New(w, h)
			s.events[name] = dst
		}
		for _, pt := range s.toCanvas(rec.Events[name].Points) {
			s.painter.Marker(dst, pt, alpha)
		}
	}

	s.records++
	return nil
}

func (s *LevelState) toCanvas(points []models.Point) []image.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]image.Point, len(points))
	for i, p := range points {
		x, y := s.transformer.WorldToCanvas(p.X, p.Y)
		out[i] = image.Pt(x, y)
	}
	return out
}
