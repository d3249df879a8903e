package heatmap

import (
	"errors"
	"fmt"
	"log"

	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/raster"
	"github.com/jengzang/records-heatmap/internal/spatial"
)

// ErrLevelRejected is wrapped by errors for records of a rejected level
var ErrLevelRejected = errors.New("level rejected")

// DegeneratePolicy decides what happens to a level with zero-area bounds
type DegeneratePolicy string

const (
	// DegenerateExpand widens a zero-length axis to one world unit
	DegenerateExpand DegeneratePolicy = "expand"
	// DegenerateSkip rejects the level and skips its records
	DegenerateSkip DegeneratePolicy = "skip"
)

// ParseDegeneratePolicy validates a policy name
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch p := DegeneratePolicy(s); p {
	case DegenerateExpand, DegenerateSkip:
		return p, nil
	case "":
		return DegenerateExpand, nil
	default:
		return "", fmt.Errorf("unknown degenerate bounds policy %q", s)
	}
}

// Registry owns the LevelState of every level seen in a run.
// Levels are created on first use and never removed.
type Registry struct {
	width, height int
	bounds        BoundsPolicy
	degenerate    DegeneratePolicy
	painter       *raster.Painter

	levels   map[string]*LevelState
	order    []string
	rejected map[string]error
}

// NewRegistry creates an empty registry for one run
func NewRegistry(width, height int, bounds BoundsPolicy, degenerate DegeneratePolicy, painter *raster.Painter) *Registry {
	return &Registry{
		width:      width,
		height:     height,
		bounds:     bounds,
		degenerate: degenerate,
		painter:    painter,
		levels:     make(map[string]*LevelState),
		rejected:   make(map[string]error),
	}
}

// Get returns the level state for the record's level, creating it from
// this record if the level is new. created reports a fresh state.
// Records of a rejected level get an error wrapping ErrLevelRejected.
func (r *Registry) Get(rec *models.Record) (state *LevelState, created bool, err error) {
	if s, ok := r.levels[rec.Level]; ok {
		return s, false, nil
	}
	if err, ok := r.rejected[rec.Level]; ok {
		return nil, false, fmt.Errorf("%w: %w", ErrLevelRejected, err)
	}

	rect := r.bounds.Resolve(rec.Level, rec)
	var warning error
	if spatial.IsDegenerate(rect) {
		degErr := &spatial.DegenerateBoundsError{Level: rec.Level, Rect: rect}
		if r.degenerate == DegenerateSkip || rect.IsEmpty() {
			r.rejected[rec.Level] = degErr
			log.Printf("[Registry] Rejected level %q: %v", rec.Level, degErr)
			return nil, false, degErr
		}
		warning = degErr
		rect = spatial.ExpandDegenerate(rect)
	}

	transformer, err := spatial.NewCoordinateTransformer(rect, r.width, r.height)
	if err != nil {
		var degErr *spatial.DegenerateBoundsError
		if errors.As(err, &degErr) {
			degErr.Level = rec.Level
			r.rejected[rec.Level] = degErr
		}
		return nil, false, err
	}

	s := newLevelState(rec.Level, transformer, r.painter)
	s.Warning = warning
	r.levels[rec.Level] = s
	r.order = append(r.order, rec.Level)
	log.Printf("[Registry] Created level %q with bounds (%g, %g)-(%g, %g)",
		rec.Level, rect.X.Lo, rect.Y.Lo, rect.X.Hi, rect.Y.Hi)
	return s, true, nil
}

// Levels returns every level state in first-seen order
func (r *Registry) Levels() []*LevelState {
	out := make([]*LevelState, 0, len(r.order))
	for _, l := range r.order {
		out = append(out, r.levels[l])
	}
	return out
}

// Rejected returns the rejection reason per rejected level
func (r *Registry) Rejected() map[string]error {
	out := make(map[string]error, len(r.rejected))
	for l, err := range r.rejected {
		out[l] = err
	}
	return out
}
