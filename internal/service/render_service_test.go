package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jengzang/records-heatmap/internal/config"
	"github.com/jengzang/records-heatmap/internal/models"
)

func writeRecords(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

var corpus = map[string]string{
	"a.json":   `{"level": "L1", "points": [{"x": 0, "y": 0}, {"x": 10, "y": 10}], "events": {"kill": {"points": [{"x": 5, "y": 5}]}}}`,
	"b.json":   `{"level": "L2", "points": [{"x": 1, "y": 2}, {"x": 3, "y": 8}]}`,
	"bad.json": `{"level": "L1", "points": [`,
	"notes.md": `ignored`,
}

func testConfig(t *testing.T, input string) *config.Config {
	cfg := config.Default()
	cfg.HeatmapPath = input
	cfg.OutFolder = filepath.Join(t.TempDir(), "out")
	cfg.LevelKey = "level"
	cfg.OutWidth, cfg.OutHeight = 40, 30
	cfg.CanvasScale = 1
	return cfg
}

func TestRender(t *testing.T) {
	cfg := testConfig(t, writeRecords(t, corpus))
	catalog := newCatalog(t)

	report, err := NewRenderService(cfg, catalog).Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Result.RecordCount != 3 || report.Result.Processed != 2 || len(report.Result.Levels) != 2 {
		t.Errorf("result = %+v", report.Result)
	}
	if len(report.Written) != 9 {
		t.Errorf("wrote %d images, want 9", len(report.Written))
	}
	for _, rel := range []string{"L1/paths.png", "L1/summarized.png", "L1/death.png", "L1/event_kill.png", "L2/heatmap.png"} {
		if _, err := os.Stat(filepath.Join(cfg.OutFolder, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.OutFolder, "L2", "event_kill.png")); !os.IsNotExist(err) {
		t.Error("L2 has an event image it never saw")
	}

	run, err := catalog.GetRun(report.Run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != models.RunStatusPartial || run.RecordCount != 3 || run.CanvasWidth != 40 || run.LevelCount != 2 {
		t.Errorf("run = %+v", run)
	}
	outputs, err := catalog.GetLevelOutputs(run.ID, "L1")
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 5 || outputs[0].MaxX != 10 {
		t.Errorf("L1 outputs = %+v", outputs)
	}
	issues, err := catalog.GetIssues(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 1 || issues[0].Ref != "bad.json" || issues[0].Kind != models.IssueMalformed {
		t.Errorf("issues = %+v", issues)
	}
}

func TestRenderWithoutCatalog(t *testing.T) {
	cfg := testConfig(t, writeRecords(t, map[string]string{
		"a.json": corpus["a.json"],
	}))
	cfg.AutoBounds = false
	cfg.SkipMalformed = false

	// Without auto bounds the record must declare its own.
	if _, err := NewRenderService(cfg, nil).Render(context.Background()); err == nil {
		t.Fatal("expected error for record without declared bounds")
	}

	cfg.HeatmapPath = writeRecords(t, map[string]string{
		"a.json": `{"level": "L1", "points": [{"x": 0, "y": 0}], "levelBoundsMin": {"x": 0, "y": 0}, "levelBoundsMax": {"x": 10, "y": 10}}`,
	})
	report, err := NewRenderService(cfg, nil).Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Run != nil || len(report.Written) != 4 {
		t.Errorf("report = %+v", report)
	}
}

func TestRenderFailureIsRecorded(t *testing.T) {
	cfg := testConfig(t, writeRecords(t, corpus))
	cfg.SkipMalformed = false
	catalog := newCatalog(t)

	_, err := NewRenderService(cfg, catalog).Render(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad.json") {
		t.Fatalf("err = %v, want failure naming bad.json", err)
	}

	runs, err := catalog.ListRuns(models.RunFilter{Status: models.RunStatusFailed})
	if err != nil {
		t.Fatal(err)
	}
	if runs.Total != 1 || !strings.Contains(runs.Data[0].ErrorMessage, "bad.json") {
		t.Errorf("failed runs = %+v", runs)
	}
}

func TestRenderInvalidConfig(t *testing.T) {
	cfg := config.Default()
	if _, err := NewRenderService(cfg, nil).Render(context.Background()); err == nil {
		t.Error("expected error for missing input and output paths")
	}

	cfg = testConfig(t, filepath.Join(t.TempDir(), "missing"))
	if _, err := NewRenderService(cfg, nil).Render(context.Background()); err == nil {
		t.Error("expected error for missing input directory")
	}
}
