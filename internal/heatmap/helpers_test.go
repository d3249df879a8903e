package heatmap

import (
	"context"
	"testing"

	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/records"
)

func pts(xy ...float64) []models.Point {
	out := make([]models.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, models.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func record(ref, level string, points []models.Point) *models.Record {
	return &models.Record{Ref: ref, Level: level, Points: points}
}

func withBounds(rec *models.Record, minX, minY, maxX, maxY float64) *models.Record {
	rec.LevelBoundsMin = &models.Point{X: minX, Y: minY}
	rec.LevelBoundsMax = &models.Point{X: maxX, Y: maxY}
	return rec
}

func withEvent(rec *models.Record, name string, points []models.Point) *models.Record {
	if rec.Events == nil {
		rec.Events = make(map[string]models.EventTrack)
	}
	rec.Events[name] = models.EventTrack{Points: points}
	return rec
}

func run(t *testing.T, opts Options, recs ...*models.Record) *Result {
	t.Helper()
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := p.Run(context.Background(), records.NewMemorySource(recs...))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func level(t *testing.T, res *Result, name string) *LevelResult {
	t.Helper()
	for _, lr := range res.Levels {
		if lr.Level == name {
			return lr
		}
	}
	t.Fatalf("level %q not in result", name)
	return nil
}

func near(got, want, tol int) bool {
	d := got - want
	return d >= -tol && d <= tol
}
