package heatmap

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/records"
)

func TestAggregateBounds(t *testing.T) {
	src := records.NewMemorySource(
		record("a", "L1", pts(0, 5, 10, -3)),
		withEvent(record("b", "L1", pts(-7, 2)), "kill", pts(1000, 1000)),
		record("c", "L2", pts(1, 1, 2, 2)),
		record("d", "L1", pts()),
	)

	table, err := AggregateBounds(context.Background(), src, func(string, error) error { return nil })
	if err != nil {
		t.Fatalf("AggregateBounds: %v", err)
	}

	tests := []struct {
		level string
		want  r2.Rect
	}{
		{"L1", r2.Rect{X: r1.Interval{Lo: -7, Hi: 10}, Y: r1.Interval{Lo: -3, Hi: 5}}},
		{"L2", r2.Rect{X: r1.Interval{Lo: 1, Hi: 2}, Y: r1.Interval{Lo: 1, Hi: 2}}},
	}
	for _, tt := range tests {
		got, ok := table.Lookup(tt.level)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%q) = %v, %t; want %v", tt.level, got, ok, tt.want)
		}
	}
	if got := table.Levels(); len(got) != 2 || got[0] != "L1" || got[1] != "L2" {
		t.Errorf("Levels = %v", got)
	}
}

func TestAggregateBoundsInvalidRecord(t *testing.T) {
	src := records.NewMemorySource(
		record("ok", "L1", pts(0, 0)),
		&models.Record{Ref: "bad", Level: "L1"},
	)
	stop := errors.New("stop")
	var seen []string
	_, err := AggregateBounds(context.Background(), src, func(ref string, err error) error {
		seen = append(seen, ref)
		if !errors.Is(err, records.ErrMissingPoints) {
			t.Errorf("err = %v, want ErrMissingPoints", err)
		}
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want stop", err)
	}
	if len(seen) != 1 || seen[0] != "bad" {
		t.Errorf("invalid refs = %v", seen)
	}
}

func TestBoundsPolicies(t *testing.T) {
	rec := withBounds(record("a", "L1", pts(50, 50)), 100, 0, 0, 100)

	got := DeclaredBounds{}.Resolve("L1", rec)
	want := r2.Rect{X: r1.Interval{Lo: 0, Hi: 100}, Y: r1.Interval{Lo: 0, Hi: 100}}
	if got != want {
		t.Errorf("DeclaredBounds = %v, want %v", got, want)
	}
	if !(DeclaredBounds{}).Resolve("L1", record("b", "L1", pts())).IsEmpty() {
		t.Error("record without bounds should resolve to an empty rect")
	}

	auto := AutoBounds{Table: &BoundsTable{rects: map[string]r2.Rect{"L1": want}}}
	if got := auto.Resolve("L1", nil); got != want {
		t.Errorf("AutoBounds = %v, want %v", got, want)
	}
	if !auto.Resolve("L9", nil).IsEmpty() {
		t.Error("unknown level should resolve to an empty rect")
	}
}
