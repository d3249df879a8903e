package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	w, h := cfg.CanvasSize()
	if w != 2304 || h != 1296 {
		t.Errorf("CanvasSize = %dx%d, want 2304x1296", w, h)
	}
	if !cfg.AutoBounds || !cfg.SkipMalformed || cfg.DegenerateBounds != "expand" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
heatmap_path: /data/records
out_folder: /data/out
level_key: map
auto_bounds: false
out_width: 800
out_height: 600
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HEATMAP_OUT_DIR", "/tmp/override")
	t.Setenv("HEATMAP_WRITE_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeatmapPath != "/data/records" || cfg.LevelKey != "map" || cfg.AutoBounds {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if cfg.OutFolder != "/tmp/override" || cfg.WriteWorkers != 8 {
		t.Errorf("env overrides not applied: out=%q workers=%d", cfg.OutFolder, cfg.WriteWorkers)
	}
	// Keys absent from the file keep their defaults.
	if cfg.CanvasScale != 1.2 || cfg.RecordExt != ".json" {
		t.Errorf("defaults lost: scale=%v ext=%q", cfg.CanvasScale, cfg.RecordExt)
	}
	if w, h := cfg.CanvasSize(); w != 960 || h != 720 {
		t.Errorf("CanvasSize = %dx%d, want 960x720", w, h)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("HEATMAP_INPUT_DIR", "in")
	t.Setenv("HEATMAP_AUTO_BOUNDS", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeatmapPath != "in" || cfg.AutoBounds {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("out_width: [1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}

	t.Setenv("HEATMAP_OUT_WIDTH", "wide")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric env value")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.CanvasScale = 0
	cfg.DegenerateBounds = "clamp"
	cfg.WriteWorkers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"heatmap_path", "out_folder", "level_key", "canvas_scale", "degenerate_bounds", "write_workers"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
