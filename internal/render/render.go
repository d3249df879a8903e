// Package render writes finalized level images to <out>/<level>/<name>.png.
package render

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/records-heatmap/internal/heatmap"
	"github.com/jengzang/records-heatmap/internal/raster"
)

// Written describes one image file produced by the renderer
type Written struct {
	Level string
	Name  string
	Path  string
	Bytes int64
}

// Renderer persists level images under an output directory
type Renderer struct {
	outDir  string
	workers int
	encoder png.Encoder
}

// New creates a renderer writing under outDir with up to workers levels
// encoded concurrently
func New(outDir string, workers int) *Renderer {
	if workers < 1 {
		workers = 1
	}
	return &Renderer{
		outDir:  outDir,
		workers: workers,
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// Prepare creates the output directory and, when clean is set, removes
// every file and directory left in it by a previous run
func (r *Renderer) Prepare(clean bool) error {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if !clean {
		return nil
	}

	entries, err := os.ReadDir(r.outDir)
	if err != nil {
		return fmt.Errorf("failed to list output directory: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(r.outDir, e.Name())); err != nil {
			return fmt.Errorf("failed to clear %s: %w", e.Name(), err)
		}
	}
	log.Printf("[Render] Cleared %d entries from %s", len(entries), r.outDir)
	return nil
}

// Write encodes every image of every level. Levels are written
// concurrently; each level goes to its own directory.
func (r *Renderer) Write(ctx context.Context, levels []*heatmap.LevelResult) ([]Written, error) {
	dirs := DirNames(levels)
	results := make([][]Written, len(levels))
	var done atomic.Int32

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, lr := range levels {
		g.Go(func() error {
			written, err := r.writeLevel(ctx, dirs[i], lr)
			if err != nil {
				return fmt.Errorf("failed to write level %q: %w", lr.Level, err)
			}
			results[i] = written
			log.Printf("[Render] Write out images %d/%d", done.Add(1), len(levels))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Written
	var total int64
	for _, w := range results {
		all = append(all, w...)
		for _, f := range w {
			total += f.Bytes
		}
	}
	log.Printf("[Render] Wrote %d images (%s) to %s", len(all), humanize.Bytes(uint64(total)), r.outDir)
	return all, nil
}

func (r *Renderer) writeLevel(ctx context.Context, dir string, lr *heatmap.LevelResult) ([]Written, error) {
	levelDir := filepath.Join(r.outDir, dir)
	if err := os.MkdirAll(levelDir, 0o755); err != nil {
		return nil, err
	}

	files := FileNames(lr.Images)
	written := make([]Written, 0, len(lr.Images))
	for i, img := range lr.Images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(levelDir, files[i]+".png")
		n, err := r.writePNG(path, img.Raster)
		if err != nil {
			return nil, err
		}
		written = append(written, Written{Level: lr.Level, Name: img.Name, Path: path, Bytes: n})
	}
	return written, nil
}

func (r *Renderer) writePNG(path string, ras *raster.Raster) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.encoder.Encode(f, ras.Image()); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return info.Size(), nil
}

// DirNames assigns each level a distinct directory name. Names that
// collide after sanitizing get a numeric suffix in level order.
func DirNames(levels []*heatmap.LevelResult) []string {
	names := make([]string, len(levels))
	for i, lr := range levels {
		names[i] = lr.Level
	}
	return uniqueNames(names)
}

// FileNames assigns each image of a level a distinct file name, without
// extension, the same way DirNames does for levels
func FileNames(images []heatmap.NamedImage) []string {
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = img.Name
	}
	return uniqueNames(names)
}
