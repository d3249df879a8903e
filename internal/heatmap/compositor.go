package heatmap

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/jengzang/records-heatmap/internal/raster"
)

// Output image names
const (
	ImagePaths      = "paths"
	ImageHeatmap    = "heatmap"
	ImageSummarized = "summarized"
	ImageDeath      = "death"
	EventPrefix     = "event_"
)

// NamedImage is one finalized raster of a level
type NamedImage struct {
	Name   string
	Raster *raster.Raster
}

// LevelResult is everything a finalized level hands to the renderer
type LevelResult struct {
	Level   string
	Rect    r2.Rect
	Records int
	Images  []NamedImage
	Warning error
}

// Image returns the named image, if present
func (r *LevelResult) Image(name string) (*raster.Raster, bool) {
	for _, img := range r.Images {
		if img.Name == name {
			return img.Raster, true
		}
	}
	return nil, false
}

// Finalize composites the derived images of the level and freezes it:
//
//	summarized = paths + heatmap
//	death      = paths + death markers
//
// Event rasters are emitted unmodified, sorted by name.
func (s *LevelState) Finalize() (*LevelResult, error) {
	if s.finalized {
		return nil, ErrLevelFinalized
	}

	summarized, err := raster.Add(s.paths, s.heatmap)
	if err != nil {
		return nil, fmt.Errorf("failed to composite summary for level %q: %w", s.Level, err)
	}
	deathAndPath, err := raster.Add(s.paths, s.death)
	if err != nil {
		return nil, fmt.Errorf("failed to composite death overlay for level %q: %w", s.Level, err)
	}
	s.finalized = true

	images := []NamedImage{
		{Name: ImagePaths, Raster: s.paths},
		{Name: ImageHeatmap, Raster: s.heatmap},
		{Name: ImageSummarized, Raster: summarized},
		{Name: ImageDeath, Raster: deathAndPath},
	}
	for _, name := range s.EventNames() {
		images = append(images, NamedImage{Name: EventPrefix + name, Raster: s.events[name]})
	}

	return &LevelResult{
		Level:   s.Level,
		Rect:    s.Rect(),
		Records: s.records,
		Images:  images,
		Warning: s.Warning,
	}, nil
}
