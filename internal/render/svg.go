package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ironsheep/blueprint-tools/internal/blueprint"
	"github.com/ironsheep/blueprint-tools/internal/config"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// SVG builds a vector rendering of the model with the same layering,
// colors and skip rules as Render. Each layer is a group (segments, walls,
// rooms) and every wall is its own group holding its polygon and label.
func SVG(m *blueprint.Model, size *Size, cfg config.Render) (*etree.Document, error) {
	p, err := newPalette(cfg)
	if err != nil {
		return nil, err
	}
	s, err := checkedCanvas(m, size, cfg)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", svgNamespace)
	root.CreateAttr("width", strconv.Itoa(s.Width))
	root.CreateAttr("height", strconv.Itoa(s.Height))
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", s.Width, s.Height))

	bg := root.CreateElement("rect")
	bg.CreateAttr("width", "100%")
	bg.CreateAttr("height", "100%")
	bg.CreateAttr("fill", p.background.Hex())

	segments := root.CreateElement("g")
	segments.CreateAttr("id", "segments")
	segments.CreateAttr("stroke", p.segment.Hex())
	segments.CreateAttr("stroke-width", formatFloat(cfg.SegmentWidth))
	for _, seg := range m.Segments {
		line := segments.CreateElement("line")
		line.CreateAttr("id", seg.ID)
		line.CreateAttr("x1", formatFloat(px(seg.Start.X)))
		line.CreateAttr("y1", formatFloat(px(seg.Start.Y)))
		line.CreateAttr("x2", formatFloat(px(seg.End.X)))
		line.CreateAttr("y2", formatFloat(px(seg.End.Y)))
	}

	walls := root.CreateElement("g")
	walls.CreateAttr("id", "walls")
	for _, w := range m.Walls {
		if len(w.Polygon) < 3 {
			continue
		}
		g := walls.CreateElement("g")
		g.CreateAttr("id", w.ID)
		g.CreateAttr("class", string(w.Type))

		poly := g.CreateElement("polygon")
		poly.CreateAttr("points", svgPoints(w.Polygon))
		poly.CreateAttr("fill", p.wallFill(w.Type).Hex())
		poly.CreateAttr("fill-opacity", formatFloat(cfg.FillOpacity))
		poly.CreateAttr("stroke", p.outline.Hex())
		poly.CreateAttr("stroke-width", formatFloat(cfg.OutlineWidth))

		label := g.CreateElement("text")
		label.CreateAttr("x", formatFloat(float64(w.Bounds.X)+float64(w.Bounds.Width)/2))
		label.CreateAttr("y", formatFloat(float64(w.Bounds.Y)+float64(w.Bounds.Height)/2))
		label.CreateAttr("fill", p.label.Hex())
		label.CreateAttr("font-family", "monospace")
		label.CreateAttr("font-size", "10")
		label.CreateAttr("text-anchor", "middle")
		label.CreateAttr("dominant-baseline", "middle")
		label.SetText(w.ID)
	}

	rooms := root.CreateElement("g")
	rooms.CreateAttr("id", "rooms")
	rooms.CreateAttr("fill", "none")
	rooms.CreateAttr("stroke", p.room.Hex())
	rooms.CreateAttr("stroke-width", formatFloat(cfg.OutlineWidth))
	for _, r := range m.Rooms {
		if len(r.Polygon) < 3 {
			continue
		}
		poly := rooms.CreateElement("polygon")
		poly.CreateAttr("id", r.ID)
		poly.CreateAttr("points", svgPoints(r.Polygon))
	}

	doc.Indent(2)
	return doc, nil
}

// WriteSVG writes the SVG rendering of m to w.
func WriteSVG(w io.Writer, m *blueprint.Model, size *Size, cfg config.Render) error {
	doc, err := SVG(m, size, cfg)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgPoints(pts []blueprint.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = formatFloat(px(p.X)) + "," + formatFloat(px(p.Y))
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
