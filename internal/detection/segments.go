//go:build !gocv

package detection

import (
	"math"

	"github.com/ironsheep/blueprint-tools/internal/config"
	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// DetectSegments finds straight line segments in a binary ink mask: Canny
// edges followed by the probabilistic Hough transform.
//
// This is the pure Go implementation. Build with the gocv tag to use
// OpenCV instead.
func DetectSegments(ink *imaging.Mask, cfg config.Segments) ([]Line, error) {
	edges := imaging.Canny(ink.Image(), cfg.CannyLow, cfg.CannyHigh)
	return ProbabilisticHough(edges, houghParams(cfg)), nil
}

func houghParams(cfg config.Segments) HoughParams {
	return HoughParams{
		Rho:           cfg.Rho,
		Theta:         cfg.ThetaDeg * math.Pi / 180,
		Threshold:     cfg.Votes,
		MinLineLength: cfg.MinLength,
		MaxLineGap:    cfg.MaxGap,
	}
}
