//go:build gocv

package detection

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// DetectSegments finds straight line segments in a binary ink mask using
// OpenCV's Canny and HoughLinesP.
//
// Requires OpenCV 4.x headers and libraries at build time.
func DetectSegments(ink *imaging.Mask, cfg config.Segments) ([]Line, error) {
	data := make([]byte, len(ink.Pix))
	for i, v := range ink.Pix {
		if v {
			data[i] = 255
		}
	}

	src, err := gocv.NewMatFromBytes(ink.Height, ink.Width, gocv.MatTypeCV8U, data)
	if err != nil {
		return nil, fmt.Errorf("wrap mask as mat: %w", err)
	}
	defer src.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, float32(cfg.CannyLow), float32(cfg.CannyHigh))

	found := gocv.NewMat()
	defer found.Close()
	gocv.HoughLinesPWithParams(edges, &found,
		float32(cfg.Rho), float32(cfg.ThetaDeg*math.Pi/180),
		cfg.Votes, float32(cfg.MinLength), float32(cfg.MaxGap))

	lines := make([]Line, 0, found.Rows())
	for i := 0; i < found.Rows(); i++ {
		v := found.GetVeciAt(i, 0)
		start := Point{X: int(v[0]), Y: int(v[1])}
		end := Point{X: int(v[2]), Y: int(v[3])}
		if start == end {
			continue
		}
		lines = append(lines, NewLine(start, end))
	}
	return lines, nil
}
