package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Style describes how overlays are drawn
type Style struct {
	Color        color.RGBA
	LineWidth    float64 // Path polyline thickness
	MarkerRadius float64 // Radius of heatmap, death and event markers
}

// DefaultStyle is grey geometry on black, 2px paths and radius 4 markers
var DefaultStyle = Style{
	Color:        color.RGBA{R: 150, G: 150, B: 150, A: 0xff},
	LineWidth:    2,
	MarkerRadius: 4,
}

// Painter renders transient overlays for a fixed canvas size.
// Geometry is anchored on pixel centres, so a canvas point (x, y)
// is drawn at (x+0.5, y+0.5).
type Painter struct {
	width  int
	height int
	style  Style

	marker       *Raster
	markerCenter int
}

// NewPainter creates a painter and pre-renders the marker stamp
func NewPainter(width, height int, style Style) (*Painter, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if style.LineWidth <= 0 || style.MarkerRadius <= 0 {
		return nil, fmt.Errorf("invalid overlay style: line width %v, marker radius %v",
			style.LineWidth, style.MarkerRadius)
	}
	p := &Painter{width: width, height: height, style: style}

	// One pixel of slack on every side for anti-aliased edges.
	p.markerCenter = int(math.Ceil(style.MarkerRadius)) + 1
	size := 2*p.markerCenter + 1
	dc := p.newContext(size, size)
	defer dc.Close()
	c := float64(p.markerCenter) + 0.5
	dc.DrawCircle(c, c, style.MarkerRadius)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("failed to render marker: %w", err)
	}
	marker, err := readBack(dc, size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render marker: %w", err)
	}
	p.marker = marker

	return p, nil
}

// Polyline draws an open polyline through pts in order onto a new
// canvas-sized overlay. Fewer than two points draw nothing.
func (p *Painter) Polyline(pts []image.Point) (*Raster, error) {
	if len(pts) < 2 {
		return New(p.width, p.height), nil
	}
	dc := p.newContext(p.width, p.height)
	defer dc.Close()
	dc.SetLineWidth(p.style.LineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(float64(pts[0].X)+0.5, float64(pts[0].Y)+0.5)
	for _, pt := range pts[1:] {
		dc.LineTo(float64(pt.X)+0.5, float64(pt.Y)+0.5)
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("failed to stroke polyline: %w", err)
	}
	overlay, err := readBack(dc, p.width, p.height)
	if err != nil {
		return nil, fmt.Errorf("failed to read polyline overlay: %w", err)
	}
	return overlay, nil
}

// Marker blends a filled disc centred on pt into dst at weight w.
// Blending the small stamp with clipping gives the same pixels as drawing
// the disc on a full-size overlay and blending that.
func (p *Painter) Marker(dst *Raster, pt image.Point, w Weight) {
	dst.BlendAt(p.marker, pt.X-p.markerCenter, pt.Y-p.markerCenter, w)
}

func (p *Painter) newContext(width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.Black)
	dc.SetColor(p.style.Color)
	return dc
}

// readBack copies the RGB channels of an opaque gg context into a Raster
func readBack(dc *gg.Context, width, height int) (*Raster, error) {
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	data := dc.ResizeTarget().Data()
	r := New(width, height)
	for i, j := 0, 0; i < len(r.Pix) && j+2 < len(data); i, j = i+3, j+4 {
		r.Pix[i] = data[j]
		r.Pix[i+1] = data[j+1]
		r.Pix[i+2] = data[j+2]
	}
	return r, nil
}
