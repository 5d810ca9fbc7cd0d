package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/ironsheep/blueprint-tools/internal/blueprint"
)

// Overlay colors, matching the extraction debug view.
var (
	overlayRoom       = colorful.Color{R: 1, G: 0, B: 0}
	overlayHorizontal = colorful.Color{R: 0, G: 1, B: 0}
	overlayVertical   = colorful.Color{R: 0, G: 0, B: 1}
	overlayLabel      = colorful.Color{R: 0, G: 0, B: 0}
)

const overlayThickness = 2

// Overlay draws the model on top of a copy of src: room outlines in red,
// horizontal walls in green and vertical walls in blue, each wall labeled
// with its id. src is not modified.
func Overlay(src image.Image, m *blueprint.Model) image.Image {
	dc := gg.NewContextForImage(src)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(overlayThickness)

	dc.SetColor(overlayRoom)
	for _, r := range m.Rooms {
		if len(r.Polygon) < 3 {
			continue
		}
		tracePolygon(dc, r.Polygon)
		dc.Stroke()
	}

	for _, w := range m.Walls {
		if len(w.Polygon) < 3 {
			continue
		}
		if w.Type == blueprint.Horizontal {
			dc.SetColor(overlayHorizontal)
		} else {
			dc.SetColor(overlayVertical)
		}
		tracePolygon(dc, w.Polygon)
		dc.Stroke()

		dc.SetColor(overlayLabel)
		cx := float64(w.Bounds.X) + float64(w.Bounds.Width)/2
		cy := float64(w.Bounds.Y) + float64(w.Bounds.Height)/2
		dc.DrawStringAnchored(w.ID, cx, cy, 0.5, 0.5)
	}

	return dc.Image()
}

// Blend mixes two images of the same size: each output pixel is
// (1-weight)*a + weight*b, computed in RGB. The result covers the
// intersection of both images' bounds.
func Blend(a, b image.Image, weight float64) *image.NRGBA {
	ab, bb := a.Bounds(), b.Bounds()
	w := min(ab.Dx(), bb.Dx())
	h := min(ab.Dy(), bb.Dy())
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ca := toColorful(a.At(ab.Min.X+x, ab.Min.Y+y))
			cb := toColorful(b.At(bb.Min.X+x, bb.Min.Y+y))
			r, g, bl := ca.BlendRgb(cb, weight).Clamped().RGB255()
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return out
}

// toColorful converts c, treating fully transparent pixels as black.
func toColorful(c color.Color) colorful.Color {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return colorful.Color{}
	}
	return col
}

// AnnotateTrace adds the debug overlay and the blended detection image to
// an extraction trace.
func AnnotateTrace(t *blueprint.Trace, src image.Image, m *blueprint.Model) {
	t.Add(blueprint.TraceDebug, Overlay(src, m))

	lines := t.Image(blueprint.TraceDetectedLines)
	if lines == nil {
		b := src.Bounds()
		lines = blueprint.LinesImage(m.Segments, b.Dx(), b.Dy())
	}
	t.Add(blueprint.TraceCombined, Blend(src, lines, 0.3))
}
