package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	// Renderer
	HeatmapPath      string  `yaml:"heatmap_path" env:"INPUT_DIR"`
	OutFolder        string  `yaml:"out_folder" env:"OUT_DIR"`
	OutWidth         int     `yaml:"out_width" env:"OUT_WIDTH"`
	OutHeight        int     `yaml:"out_height" env:"OUT_HEIGHT"`
	CanvasScale      float64 `yaml:"canvas_scale" env:"CANVAS_SCALE"`
	LevelKey         string  `yaml:"level_key" env:"LEVEL_KEY"`
	AutoBounds       bool    `yaml:"auto_bounds" env:"AUTO_BOUNDS"`
	RecordExt        string  `yaml:"record_ext" env:"RECORD_EXT"`
	SkipMalformed    bool    `yaml:"skip_malformed" env:"SKIP_MALFORMED"`
	DegenerateBounds string  `yaml:"degenerate_bounds" env:"DEGENERATE_BOUNDS"`
	CleanOutput      bool    `yaml:"clean_output" env:"CLEAN_OUTPUT"`
	WriteWorkers     int     `yaml:"write_workers" env:"WRITE_WORKERS"`

	// Catalog and API
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH"` // Empty disables the run catalog
	Port        string `yaml:"port" env:"PORT"`
	JWTSecret   string `yaml:"jwt_secret" env:"JWT_SECRET"` // Empty disables API auth
	RateLimit   int    `yaml:"rate_limit" env:"RATE_LIMIT"` // Requests per client per minute, 0 disables
}

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "HEATMAP_"

// Default 默认配置
func Default() *Config {
	return &Config{
		OutWidth:         1920,
		OutHeight:        1080,
		CanvasScale:      1.2,
		AutoBounds:       true,
		RecordExt:        ".json",
		SkipMalformed:    true,
		DegenerateBounds: "expand",
		CleanOutput:      true,
		WriteWorkers:     4,
		Port:             ":8080",
		RateLimit:        120,
	}
}

// Load 加载配置: defaults, then the YAML file at path (if any), then
// HEATMAP_* environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	return cfg, nil
}

// CanvasSize returns the canvas dimensions: output size times canvas scale
func (c *Config) CanvasSize() (int, int) {
	return int(float64(c.OutWidth) * c.CanvasScale), int(float64(c.OutHeight) * c.CanvasScale)
}

// Validate checks the settings the renderer needs
func (c *Config) Validate() error {
	var errs []error
	if c.HeatmapPath == "" {
		errs = append(errs, errors.New("heatmap_path is required"))
	}
	if c.OutFolder == "" {
		errs = append(errs, errors.New("out_folder is required"))
	}
	if c.LevelKey == "" {
		errs = append(errs, errors.New("level_key is required"))
	}
	if c.OutWidth <= 0 || c.OutHeight <= 0 {
		errs = append(errs, fmt.Errorf("out_width and out_height must be > 0, got %dx%d", c.OutWidth, c.OutHeight))
	}
	if c.CanvasScale <= 0 {
		errs = append(errs, fmt.Errorf("canvas_scale must be > 0, got %v", c.CanvasScale))
	} else if w, h := c.CanvasSize(); w <= 0 || h <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d is empty", w, h))
	}
	switch c.DegenerateBounds {
	case "expand", "skip":
	default:
		errs = append(errs, fmt.Errorf("degenerate_bounds must be expand or skip, got %q", c.DegenerateBounds))
	}
	if c.WriteWorkers <= 0 {
		errs = append(errs, fmt.Errorf("write_workers must be > 0, got %d", c.WriteWorkers))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit must be >= 0, got %d", c.RateLimit))
	}
	return errors.Join(errs...)
}
