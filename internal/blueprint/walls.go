package blueprint

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/detection"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// ExtractSegments detects straight lines in the ink mask and numbers them
// segment_0, segment_1, ... in detection order. Zero-length lines are
// dropped.
//
// Parameters:
//   - ink: Binary mask where true marks dark pixels, usually the thresholded
//     output of text removal.
//   - cfg: Canny hysteresis bounds, Hough resolution (Rho in pixels,
//     ThetaDeg in degrees), Votes, MinLength and MaxGap.
//
// Returns:
//   - []Segment: Segments in detection order, never nil.
//   - error: Non-nil only when the detector backend fails.
//
// Votes and MinLength trade recall for noise: at the defaults (50 and 50)
// strokes shorter than about 50px are not reported. Raise MaxGap for scans
// where walls are broken by door swings or dashed lines.
func ExtractSegments(ink *imaging.Mask, cfg config.Segments) ([]Segment, error) {
	lines, err := detection.DetectSegments(ink, cfg)
	if err != nil {
		return nil, fmt.Errorf("detect segments: %w", err)
	}

	segments := make([]Segment, 0, len(lines))
	for _, l := range lines {
		if l.Start == l.End {
			continue
		}
		id := fmt.Sprintf("segment_%d", len(segments))
		segments = append(segments, NewSegment(id, toPoint(l.Start), toPoint(l.End)))
	}
	return segments, nil
}

// SegmentMask draws every segment at the configured stroke width onto a
// blank width×height mask and dilates the result so neighbouring strokes
// merge into continuous regions.
//
// The mask feeds both wall and room extraction. StrokeWidth 5 with a
// Dilate of 5 closes gaps of a few pixels between parallel strokes; larger
// values merge nearby walls into one polygon. A non-positive width or
// height yields an empty mask.
func SegmentMask(segments []Segment, width, height int, cfg config.Segments) *imaging.Mask {
	if width <= 0 || height <= 0 {
		return imaging.NewMask(width, height)
	}
	return imaging.Dilate(imaging.MaskFromImage(strokeSegments(segments, width, height, cfg.StrokeWidth, 1, 1, 1)), imaging.Square(cfg.Dilate))
}

// LinesImage draws the segments in green on black, two pixels wide.
func LinesImage(segments []Segment, width, height int) image.Image {
	return strokeSegments(segments, width, height, 2, 0, 1, 0)
}

func strokeSegments(segments []Segment, width, height int, lineWidth, r, g, b float64) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(r, g, b)
	dc.SetLineWidth(lineWidth)
	for _, s := range segments {
		// Pixel centers sit at half-integer canvas coordinates.
		dc.DrawLine(float64(s.Start.X)+0.5, float64(s.Start.Y)+0.5, float64(s.End.X)+0.5, float64(s.End.Y)+0.5)
		dc.Stroke()
	}
	return dc.Image()
}

// WallMask keeps only the long horizontal and vertical runs of the ink
// mask and dilates them slightly to close small gaps.
func WallMask(ink *imaging.Mask, cfg config.Walls) *imaging.Mask {
	return imaging.Dilate(imaging.DirectionalOpen(ink, cfg.Kernel), imaging.Square(cfg.Bridge))
}

// ExtractWalls turns each external component of a wall mask into a Wall.
//
// Parameters:
//   - mask: The segment stroke mask or a WallMask result.
//   - cfg: MinArea is the smallest contour area kept, in square pixels.
//     Epsilon is the polygon simplification tolerance as a fraction of the
//     contour perimeter.
//
// Returns:
//   - []Wall: One wall per kept component, never nil. Ids are assigned to
//     kept walls only, so they have no gaps.
//
// Components below MinArea, and those that simplify to fewer than three
// vertices, are skipped. Each wall is classified horizontal when its
// bounding box is strictly wider than tall, vertical otherwise.
//
// An Epsilon of 0.01 keeps corners of rectangular rooms while dropping
// stair-step noise from the stroke mask. Values above 0.05 tend to collapse
// L-shaped walls into triangles.
func ExtractWalls(mask *imaging.Mask, cfg config.Walls) []Wall {
	return collectWalls(detection.FindExternalContours(mask), cfg.MinArea, cfg.Epsilon, nil)
}

// ThinLineWalls finds walls directly in the ink mask: every component that
// is long and thin (aspect above ThinMinAspect or below ThinMaxAspect, with
// its short side under ThinMaxThickness) becomes a wall. Components nested
// inside other shapes are considered too.
//
// The area floor is the larger of ThinMinArea and MinArea, so this
// strategy never reports a wall the morphology strategy would reject on
// area alone.
func ThinLineWalls(ink *imaging.Mask, cfg config.Walls) []Wall {
	floor := math.Max(cfg.ThinMinArea, cfg.MinArea)
	thin := func(b Box) bool {
		ar := aspect(b)
		short := b.Width
		if b.Height < short {
			short = b.Height
		}
		return (ar > cfg.ThinMinAspect || ar < cfg.ThinMaxAspect) && short < cfg.ThinMaxThickness
	}
	return collectWalls(detection.FindContours(ink), floor, cfg.Epsilon, thin)
}

func collectWalls(contours []detection.Contour, minArea, epsilon float64, keep func(Box) bool) []Wall {
	walls := make([]Wall, 0)
	for _, c := range contours {
		area := c.Area()
		if area < minArea {
			continue
		}
		box := toBox(c.Bounds())
		if keep != nil && !keep(box) {
			continue
		}
		poly := detection.ApproxPolygon(c, epsilon)
		if len(poly) < 3 {
			continue
		}
		walls = append(walls, Wall{
			ID:      fmt.Sprintf("wall_%d", len(walls)),
			Type:    ClassifyWall(box),
			Polygon: toPolygon(poly),
			Area:    area,
			Bounds:  box,
		})
	}
	return walls
}
