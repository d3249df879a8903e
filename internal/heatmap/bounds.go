package heatmap

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/records"
	"github.com/jengzang/records-heatmap/internal/spatial"
)

// BoundsTable is the read-only result of the bounds stage
type BoundsTable struct {
	rects map[string]r2.Rect
}

// Lookup returns the aggregated rectangle for a level
func (t *BoundsTable) Lookup(level string) (r2.Rect, bool) {
	rect, ok := t.rects[level]
	return rect, ok
}

// Levels returns the levels seen, sorted
func (t *BoundsTable) Levels() []string {
	levels := make([]string, 0, len(t.rects))
	for l := range t.rects {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	return levels
}

// AggregateBounds scans the corpus once and computes, per level, the
// componentwise min/max over every path point of every record on that
// level. Event points do not contribute. Records that fail to decode or
// validate are passed to onInvalid; a non-nil return aborts the scan.
func AggregateBounds(ctx context.Context, src records.Source, onInvalid func(ref string, err error) error) (*BoundsTable, error) {
	rects := make(map[string]r2.Rect)
	total := src.Len()
	i := 0

	err := src.Walk(ctx, func(ref string, rec *models.Record, err error) error {
		i++
		log.Printf("[Bounds] Gather auto bounds: %d/%d", i, total)

		if err == nil {
			err = records.Validate(rec, false)
		}
		if err != nil {
			return onInvalid(ref, err)
		}

		rect, ok := rects[rec.Level]
		if !ok {
			rect = r2.EmptyRect()
		}
		rects[rec.Level] = rect.Union(spatial.BoundingBox(rec.Points))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bounds: %w", err)
	}

	return &BoundsTable{rects: rects}, nil
}

// BoundsPolicy resolves the world rectangle of a level from the first
// record seen for it. One policy is active for a whole run.
type BoundsPolicy interface {
	Resolve(level string, first *models.Record) r2.Rect
}

// DeclaredBounds takes the normalized declared bounds of the first record
type DeclaredBounds struct{}

// Resolve implements BoundsPolicy
func (DeclaredBounds) Resolve(_ string, first *models.Record) r2.Rect {
	if !first.HasDeclaredBounds() {
		return r2.EmptyRect()
	}
	return spatial.FromCorners(*first.LevelBoundsMin, *first.LevelBoundsMax)
}

// AutoBounds takes the corpus-wide aggregate computed by AggregateBounds
type AutoBounds struct {
	Table *BoundsTable
}

// Resolve implements BoundsPolicy
func (a AutoBounds) Resolve(level string, _ *models.Record) r2.Rect {
	rect, ok := a.Table.Lookup(level)
	if !ok {
		return r2.EmptyRect()
	}
	return rect
}
