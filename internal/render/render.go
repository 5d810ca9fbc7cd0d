package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/ironsheep/blueprint-tools/internal/blueprint"
	"github.com/ironsheep/blueprint-tools/internal/config"
)

// Size is an explicit canvas size in pixels.
type Size struct {
	Width  int
	Height int
}

// ErrCanvasTooLarge is returned when the chosen canvas exceeds the
// configured maximum side length.
var ErrCanvasTooLarge = errors.New("canvas too large")

// CanvasSize picks the canvas size for a model.
//
// Precedence:
//  1. size, when non-nil and both sides are positive.
//  2. The model's image_dimensions, when both are positive. A model
//     rendered this way lines up pixel for pixel with its source image.
//  3. cfg.DefaultWidth × cfg.DefaultHeight (1600×1200 by default).
//
// CanvasSize does not apply cfg.MaxSide; Render and SVG check the result
// and fail with ErrCanvasTooLarge.
func CanvasSize(m *blueprint.Model, size *Size, cfg config.Render) Size {
	if size != nil && size.Width > 0 && size.Height > 0 {
		return *size
	}
	if d := m.ImageDimensions; d.Width > 0 && d.Height > 0 {
		return Size{Width: d.Width, Height: d.Height}
	}
	return Size{Width: cfg.DefaultWidth, Height: cfg.DefaultHeight}
}

// checkedCanvas is CanvasSize with the cfg.MaxSide limit applied.
func checkedCanvas(m *blueprint.Model, size *Size, cfg config.Render) (Size, error) {
	s := CanvasSize(m, size, cfg)
	if cfg.MaxSide > 0 && (s.Width > cfg.MaxSide || s.Height > cfg.MaxSide) {
		return Size{}, fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrCanvasTooLarge, s.Width, s.Height, cfg.MaxSide)
	}
	return s, nil
}

type palette struct {
	background colorful.Color
	segment    colorful.Color
	horizontal colorful.Color
	vertical   colorful.Color
	outline    colorful.Color
	room       colorful.Color
	label      colorful.Color
}

func newPalette(cfg config.Render) (palette, error) {
	var p palette
	for _, c := range []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"background", cfg.Background, &p.background},
		{"segment", cfg.SegmentColor, &p.segment},
		{"horizontal", cfg.HorizontalColor, &p.horizontal},
		{"vertical", cfg.VerticalColor, &p.vertical},
		{"outline", cfg.OutlineColor, &p.outline},
		{"room", cfg.RoomColor, &p.room},
		{"label", cfg.LabelColor, &p.label},
	} {
		col, err := colorful.Hex(c.hex)
		if err != nil {
			return palette{}, fmt.Errorf("invalid %s color %q: %w", c.name, c.hex, err)
		}
		*c.dst = col
	}
	return p, nil
}

func (p palette) wallFill(t blueprint.WallType) colorful.Color {
	if t == blueprint.Horizontal {
		return p.horizontal
	}
	return p.vertical
}

// Render draws a model onto a fresh canvas.
//
// Parameters:
//   - m: The model to draw. It is only read.
//   - size: Optional explicit canvas size; see CanvasSize for the fallbacks.
//   - cfg: Colors (hex strings such as "#FF0000"), fill opacity, stroke
//     widths, default canvas and the MaxSide limit.
//
// Returns:
//   - image.Image: An opaque RGBA canvas.
//   - error: Non-nil if a color in cfg does not parse, or ErrCanvasTooLarge
//     if either side of the canvas exceeds cfg.MaxSide.
//
// # Layers
//
// Drawing order is fixed and later layers cover earlier ones:
//
//  1. Segments, as lines of cfg.SegmentWidth in the segment color.
//  2. Walls: a fill in the horizontal or vertical color at cfg.FillOpacity,
//     a solid outline of cfg.OutlineWidth, and the wall id centered in its
//     bounds.
//  3. Room outlines. Rooms are never filled.
//
// Walls and rooms with fewer than three vertices are skipped. Coordinates
// are pixel indices; each is drawn through the center of its pixel.
func Render(m *blueprint.Model, size *Size, cfg config.Render) (image.Image, error) {
	p, err := newPalette(cfg)
	if err != nil {
		return nil, err
	}
	s, err := checkedCanvas(m, size, cfg)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(p.background)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(p.segment)
	dc.SetLineWidth(cfg.SegmentWidth)
	for _, seg := range m.Segments {
		dc.DrawLine(px(seg.Start.X), px(seg.Start.Y), px(seg.End.X), px(seg.End.Y))
		dc.Stroke()
	}

	for _, w := range m.Walls {
		if len(w.Polygon) < 3 {
			continue
		}
		fill := p.wallFill(w.Type)
		dc.SetRGBA(fill.R, fill.G, fill.B, cfg.FillOpacity)
		tracePolygon(dc, w.Polygon)
		dc.Fill()

		dc.SetColor(p.outline)
		dc.SetLineWidth(cfg.OutlineWidth)
		tracePolygon(dc, w.Polygon)
		dc.Stroke()

		dc.SetColor(p.label)
		cx := float64(w.Bounds.X) + float64(w.Bounds.Width)/2
		cy := float64(w.Bounds.Y) + float64(w.Bounds.Height)/2
		dc.DrawStringAnchored(w.ID, cx, cy, 0.5, 0.5)
	}

	dc.SetColor(p.room)
	dc.SetLineWidth(cfg.OutlineWidth)
	for _, r := range m.Rooms {
		if len(r.Polygon) < 3 {
			continue
		}
		tracePolygon(dc, r.Polygon)
		dc.Stroke()
	}

	return dc.Image(), nil
}

// px maps a pixel index to the canvas coordinate of its center.
func px(v int) float64 {
	return float64(v) + 0.5
}

func tracePolygon(dc *gg.Context, pts []blueprint.Point) {
	dc.NewSubPath()
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(px(p.X), px(p.Y))
			continue
		}
		dc.LineTo(px(p.X), px(p.Y))
	}
	dc.ClosePath()
}
