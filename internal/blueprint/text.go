package blueprint

import (
	"image"
	"image/color"
	"image/draw"

	imgutil "github.com/disintegration/imaging"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/detection"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// TextReport is the result of text removal.
type TextReport struct {
	// Cleaned is a copy of the input with every text box painted white.
	Cleaned image.Image `json:"-"`

	// TextBoxes are the regions painted by the character pass.
	TextBoxes []Box `json:"text_boxes"`
	// DimensionBoxes are the regions painted by the dimension pass.
	DimensionBoxes []Box `json:"dimension_boxes"`

	Adaptive *imaging.Mask `json:"-"`
	TextMask *imaging.Mask `json:"-"`
	WallMask *imaging.Mask `json:"-"`
	TextOnly *imaging.Mask `json:"-"`
}

// RemoveText erases text-like marks from a floor plan while leaving walls
// in place.
//
// Small, compact components of the adaptive mask that are not part of a
// long axis-aligned run are treated as lettering. A second pass looks for
// dimension strings ("12' x 10'") in a looser threshold, skipping any
// candidate whose box is mostly covered by wall pixels.
//
// Parameters:
//   - img: The floor plan. It is not modified.
//   - bin: AdaptiveBlock (odd, in pixels) and AdaptiveC for the local
//     threshold.
//   - cfg: Kernel sizes, area and aspect bounds for both passes, and
//     MaxWallOverlap, the fraction of a dimension box that may be wall.
//
// Returns:
//   - *TextReport: The cleaned copy, the painted boxes, and the masks each
//     decision was made on.
//
// WallKernel is the shortest run treated as wall. Filled shapes whose
// edges exceed it are kept even when they are small, since their outline
// reaches the wall mask. Raising it lets longer strokes be erased as text,
// at the cost of short wall stubs.
func RemoveText(img image.Image, bin config.Binarize, cfg config.Text) *TextReport {
	adaptive := imaging.AdaptiveThreshold(img, bin.AdaptiveBlock, bin.AdaptiveC)

	textKernel := imaging.Square(cfg.TextKernel)
	textMask := imaging.Close(imaging.Open(adaptive, textKernel), textKernel)
	wallMask := imaging.DirectionalOpen(adaptive, cfg.WallKernel)
	textOnly := imaging.AndNot(textMask, wallMask)

	report := &TextReport{
		TextBoxes:      make([]Box, 0),
		DimensionBoxes: make([]Box, 0),
		Adaptive:       adaptive,
		TextMask:       textMask,
		WallMask:       wallMask,
		TextOnly:       textOnly,
	}

	for _, c := range detection.FindExternalContours(textOnly) {
		box := toBox(c.Bounds())
		if isText(c.Area(), aspect(box), cfg) {
			report.TextBoxes = append(report.TextBoxes, box)
		}
	}

	dim := imaging.Dilate(imaging.Threshold(img, cfg.DimensionThreshold), imaging.Square(cfg.DimensionDilate))
	for _, c := range detection.FindExternalContours(dim) {
		box := toBox(c.Bounds())
		if !isDimension(c.Area(), aspect(box), cfg) {
			continue
		}
		covered := wallMask.CountIn(image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height))
		if float64(covered) < cfg.MaxWallOverlap*float64(box.Width*box.Height) {
			report.DimensionBoxes = append(report.DimensionBoxes, box)
		}
	}

	report.Cleaned = paintBoxes(img, append(append([]Box{}, report.TextBoxes...), report.DimensionBoxes...))
	return report
}

func isText(area, ar float64, cfg config.Text) bool {
	if area >= cfg.MaxArea {
		return false
	}
	return (cfg.MinAspect < ar && ar < cfg.MaxAspect) || ar < cfg.VerticalAspect
}

func isDimension(area, ar float64, cfg config.Text) bool {
	if area <= cfg.DimensionMinArea || area >= cfg.DimensionMaxArea {
		return false
	}
	return (cfg.DimensionMinAspect < ar && ar < cfg.DimensionMaxAspect) || ar < cfg.DimensionVerticalAspect
}

func aspect(b Box) float64 {
	if b.Height == 0 {
		return 0
	}
	return float64(b.Width) / float64(b.Height)
}

// paintBoxes returns a copy of img with each box filled white. Boxes
// include their far edge, so a box at (x, y) of size w×h covers x..x+w.
func paintBoxes(img image.Image, boxes []Box) *image.NRGBA {
	out := imgutil.Clone(img)
	white := image.NewUniform(color.White)
	for _, b := range boxes {
		r := image.Rect(b.X, b.Y, b.X+b.Width+1, b.Y+b.Height+1)
		draw.Draw(out, r, white, image.Point{}, draw.Src)
	}
	return out
}
