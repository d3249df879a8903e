package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/jengzang/records-heatmap/internal/config"
	"github.com/jengzang/records-heatmap/internal/heatmap"
	"github.com/jengzang/records-heatmap/internal/models"
	"github.com/jengzang/records-heatmap/internal/records"
	"github.com/jengzang/records-heatmap/internal/render"
)

// RenderReport is the outcome of one renderer run
type RenderReport struct {
	Run     *models.Run
	Result  *heatmap.Result
	Written []render.Written
}

// RenderService runs the record -> raster -> PNG pipeline for a configuration
type RenderService struct {
	cfg     *config.Config
	catalog *CatalogService // nil when the catalog is disabled
}

// NewRenderService creates a render service; catalog may be nil
func NewRenderService(cfg *config.Config, catalog *CatalogService) *RenderService {
	return &RenderService{cfg: cfg, catalog: catalog}
}

// Render processes the input directory and writes every level's images.
// Levels and records that could not be rendered are listed in the report;
// only I/O failures and, with skip_malformed off, malformed records fail the run.
func (s *RenderService) Render(ctx context.Context) (*RenderReport, error) {
	cfg := s.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	width, height := cfg.CanvasSize()

	policy, err := heatmap.ParseDegeneratePolicy(cfg.DegenerateBounds)
	if err != nil {
		return nil, err
	}

	src, err := records.NewFileSource(cfg.HeatmapPath, cfg.RecordExt, records.Decoder{
		LevelKey:      cfg.LevelKey,
		RequireBounds: !cfg.AutoBounds,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Render] Found %d record files in %s", src.Len(), cfg.HeatmapPath)

	pipeline, err := heatmap.New(heatmap.Options{
		CanvasWidth:      width,
		CanvasHeight:     height,
		AutoBounds:       cfg.AutoBounds,
		SkipMalformed:    cfg.SkipMalformed,
		DegenerateBounds: policy,
	})
	if err != nil {
		return nil, err
	}

	report := &RenderReport{}
	if s.catalog != nil {
		run, err := s.catalog.StartRun(models.Run{
			InputDir:     cfg.HeatmapPath,
			OutputDir:    cfg.OutFolder,
			CanvasWidth:  width,
			CanvasHeight: height,
			AutoBounds:   cfg.AutoBounds,
			LevelKey:     cfg.LevelKey,
			Alpha:        heatmap.Alpha(src.Len()),
			RecordCount:  src.Len(),
		})
		if err != nil {
			return nil, err
		}
		report.Run = run
	}

	if err := s.render(ctx, pipeline, src, report); err != nil {
		if report.Run != nil {
			if failErr := s.catalog.FailRun(report.Run, err); failErr != nil {
				log.Printf("[Render] Failed to record run failure: %v", failErr)
			}
		}
		return nil, err
	}

	if report.Run != nil {
		if err := s.catalog.CompleteRun(report.Run, report.Result, report.Written); err != nil {
			return nil, err
		}
		log.Printf("[Render] Run %s %s", report.Run.ID, report.Run.Status)
	}
	return report, nil
}

func (s *RenderService) render(ctx context.Context, pipeline *heatmap.Pipeline, src records.Source, report *RenderReport) error {
	result, err := pipeline.Run(ctx, src)
	if err != nil {
		return err
	}
	report.Result = result

	for _, issue := range result.Issues {
		log.Printf("[Render] %s %s: %v", issue.Kind, issue.Ref, issue.Err)
	}
	rejected := make([]string, 0, len(result.Rejected))
	for level := range result.Rejected {
		rejected = append(rejected, level)
	}
	sort.Strings(rejected)
	for _, level := range rejected {
		log.Printf("[Render] Level %q not rendered: %v", level, result.Rejected[level])
	}

	renderer := render.New(s.cfg.OutFolder, s.cfg.WriteWorkers)
	if err := renderer.Prepare(s.cfg.CleanOutput); err != nil {
		return err
	}
	written, err := renderer.Write(ctx, result.Levels)
	if err != nil {
		return err
	}
	report.Written = written

	var total int64
	for _, w := range written {
		total += w.Bytes
	}
	log.Printf("[Render] %s records rendered into %d levels, %s skipped, %s written",
		humanize.Comma(int64(result.Processed)), len(result.Levels),
		humanize.Comma(int64(result.Skipped())), humanize.Bytes(uint64(total)))
	return nil
}
