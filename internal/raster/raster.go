// Package raster holds the dense RGB8 accumulation buffers used by the
// heatmap pipeline and the saturating blend that merges overlays into them.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Raster is a dense 3-channel 8-bit image, row-major, 3 bytes per pixel.
// A new Raster is all zero (black).
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// ErrSizeMismatch is returned when two rasters of different sizes are combined
var ErrSizeMismatch = errors.New("raster size mismatch")

// New allocates a zero-initialized raster
func New(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Clone returns an independent copy
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Bounds returns the raster rectangle
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At returns the pixel at (x, y); out-of-range pixels read as black
func (r *Raster) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return color.RGBA{A: 0xff}
	}
	i := (y*r.Width + x) * 3
	return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xff}
}

// IsZero reports whether every channel of every pixel is zero
func (r *Raster) IsZero() bool {
	for _, v := range r.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Image converts the raster to an opaque *image.RGBA for encoding
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+4 {
		img.Pix[j] = r.Pix[i]
		img.Pix[j+1] = r.Pix[i+1]
		img.Pix[j+2] = r.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// Weight is a validated blend weight with its per-channel contribution table.
// The contribution of an overlay channel value v is round(v*w), rounding
// half away from zero, capped at 255.
type Weight struct {
	table [256]uint8
}

// NewWeight validates w in (0, 1] and precomputes its contribution table
func NewWeight(w float64) (Weight, error) {
	if !(w > 0 && w <= 1) {
		return Weight{}, fmt.Errorf("blend weight %v out of range (0, 1]", w)
	}
	var wt Weight
	for v := 0; v < 256; v++ {
		c := math.Round(float64(v) * w)
		if c > 255 {
			c = 255
		}
		wt.table[v] = uint8(c)
	}
	return wt, nil
}

// Full is the weight 1.0, used for death markers and compositing
var Full = mustWeight(1)

func mustWeight(w float64) Weight {
	wt, err := NewWeight(w)
	if err != nil {
		panic(err)
	}
	return wt
}

// Blend composites a full-size overlay into r:
//
//	dst = min(255, dst*1 + round(overlay*w))
//
// per channel. Because every addend is non-negative the result does not
// depend on the order in which overlays are blended.
func (r *Raster) Blend(overlay *Raster, w Weight) error {
	if overlay.Width != r.Width || overlay.Height != r.Height {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrSizeMismatch,
			overlay.Width, overlay.Height, r.Width, r.Height)
	}
	addSaturating(r.Pix, overlay.Pix, &w.table)
	return nil
}

// BlendAt composites a small overlay whose top-left corner sits at (x0, y0)
// on r, using the same rule as Blend. Parts falling outside r are clipped,
// which is equivalent to blending a full-size overlay drawn at that offset.
func (r *Raster) BlendAt(overlay *Raster, x0, y0 int, w Weight) {
	clip := overlay.Bounds().Add(image.Pt(x0, y0)).Intersect(r.Bounds())
	if clip.Empty() {
		return
	}
	n := clip.Dx() * 3
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		di := (y*r.Width + clip.Min.X) * 3
		si := ((y-y0)*overlay.Width + (clip.Min.X - x0)) * 3
		addSaturating(r.Pix[di:di+n], overlay.Pix[si:si+n], &w.table)
	}
}

func addSaturating(dst, src []uint8, table *[256]uint8) {
	for i, v := range src {
		if v == 0 {
			continue
		}
		sum := int(dst[i]) + int(table[v])
		if sum > 255 {
			sum = 255
		}
		dst[i] = uint8(sum)
	}
}

// Add returns a new raster equal to a + b at full weight, saturating
func Add(a, b *Raster) (*Raster, error) {
	out := a.Clone()
	if err := out.Blend(b, Full); err != nil {
		return nil, err
	}
	return out, nil
}
