package heatmap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/raster"
	"github.com/jengzang/records-heatmap/internal/records"
	"github.com/jengzang/records-heatmap/internal/spatial"
)

// ErrNoRecords is returned for an empty corpus
var ErrNoRecords = errors.New("no records to process")

// RecordError attributes a failure to a record and its level
type RecordError struct {
	Ref   string
	Level string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Level == "" {
		return fmt.Sprintf("record %s: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("record %s (level %q): %v", e.Ref, e.Level, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Options configures a pipeline run
type Options struct {
	CanvasWidth      int
	CanvasHeight     int
	AutoBounds       bool
	SkipMalformed    bool
	DegenerateBounds DegeneratePolicy
	Style            raster.Style
}

// Issue is a record or level that was not rendered, or rendered with repaired bounds
type Issue struct {
	Ref   string
	Level string
	Kind  string // models.Issue* constants
	Err   error
}

// Result summarizes a completed run
type Result struct {
	Alpha       float64
	RecordCount int
	Processed   int
	Levels      []*LevelResult
	Issues      []Issue

	// Rejected maps each level that produced no output to the reason
	Rejected map[string]error
}

// Skipped returns the number of records that were not blended
func (r *Result) Skipped() int {
	return r.RecordCount - r.Processed
}

// Pipeline runs the bounds and accumulation stages over a record source
type Pipeline struct {
	opts    Options
	painter *raster.Painter
}

// New validates options and prepares the overlay painter
func New(opts Options) (*Pipeline, error) {
	if opts.DegenerateBounds == "" {
		opts.DegenerateBounds = DegenerateExpand
	}
	if _, err := ParseDegeneratePolicy(string(opts.DegenerateBounds)); err != nil {
		return nil, err
	}
	if opts.Style == (raster.Style{}) {
		opts.Style = raster.DefaultStyle
	}
	painter, err := raster.NewPainter(opts.CanvasWidth, opts.CanvasHeight, opts.Style)
	if err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts, painter: painter}, nil
}

// Run processes every record of src and returns the finalized levels.
// Malformed records are skipped and reported when SkipMalformed is set and
// abort the run otherwise. Rejected levels never affect other levels.
func (p *Pipeline) Run(ctx context.Context, src records.Source) (*Result, error) {
	total := src.Len()
	if total == 0 {
		return nil, ErrNoRecords
	}

	result := &Result{Alpha: Alpha(total), RecordCount: total}
	alpha, err := raster.NewWeight(result.Alpha)
	if err != nil {
		return nil, err
	}
	log.Printf("[Pipeline] %d records, alpha=%.4f, canvas=%dx%d, auto_bounds=%t",
		total, result.Alpha, p.opts.CanvasWidth, p.opts.CanvasHeight, p.opts.AutoBounds)

	// Stage 1: bounds
	var policy BoundsPolicy = DeclaredBounds{}
	if p.opts.AutoBounds {
		table, err := AggregateBounds(ctx, src, func(ref string, err error) error {
			if p.opts.SkipMalformed {
				return nil // reported once, in stage 2
			}
			return &RecordError{Ref: ref, Err: err}
		})
		if err != nil {
			return nil, err
		}
		policy = AutoBounds{Table: table}
	}

	// Stage 2: accumulation
	registry := NewRegistry(p.opts.CanvasWidth, p.opts.CanvasHeight, policy, p.opts.DegenerateBounds, p.painter)
	i := 0
	err = src.Walk(ctx, func(ref string, rec *models.Record, err error) error {
		i++
		log.Printf("[Pipeline] Processing: %d/%d", i, total)

		if err == nil {
			err = records.Validate(rec, !p.opts.AutoBounds)
		}
		if err != nil {
			if !p.opts.SkipMalformed {
				return &RecordError{Ref: ref, Err: err}
			}
			log.Printf("[Pipeline] Skipping %s: %v", ref, err)
			result.Issues = append(result.Issues, Issue{Ref: ref, Kind: models.IssueMalformed, Err: err})
			return nil
		}

		state, created, err := registry.Get(rec)
		if err != nil {
			kind := models.IssueLevelRejected
			var degErr *spatial.DegenerateBoundsError
			if errors.As(err, &degErr) && !errors.Is(err, ErrLevelRejected) {
				kind = models.IssueDegenerateBounds
			}
			result.Issues = append(result.Issues, Issue{Ref: ref, Level: rec.Level, Kind: kind, Err: err})
			return nil
		}
		if created && state.Warning != nil {
			log.Printf("[Pipeline] Level %q: %v, expanded to a unit extent", rec.Level, state.Warning)
			result.Issues = append(result.Issues, Issue{
				Ref: ref, Level: rec.Level, Kind: models.IssueDegenerateBounds, Err: state.Warning,
			})
		}

		if err := state.Accumulate(rec, alpha); err != nil {
			return &RecordError{Ref: ref, Level: rec.Level, Err: err}
		}
		result.Processed++
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, state := range registry.Levels() {
		lr, err := state.Finalize()
		if err != nil {
			return nil, err
		}
		result.Levels = append(result.Levels, lr)
	}
	result.Rejected = registry.Rejected()
	log.Printf("[Pipeline] Finished: %d levels, %d rejected, %d processed, %d skipped",
		len(result.Levels), len(result.Rejected), result.Processed, result.Skipped())

	return result, nil
}
