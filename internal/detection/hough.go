package detection

import (
	"math"
	"math/rand"

	"github.com/ironsheep/blueprint-tools/internal/imaging"
)

// Line represents a detected straight line segment.
type Line struct {
	Start  Point
	End    Point
	Length float64
}

// NewLine builds a Line between two points.
func NewLine(start, end Point) Line {
	return Line{
		Start:  start,
		End:    end,
		Length: math.Hypot(float64(end.X-start.X), float64(end.Y-start.Y)),
	}
}

// HoughParams configures ProbabilisticHough.
type HoughParams struct {
	Rho           float64 // distance resolution in pixels
	Theta         float64 // angle resolution in radians
	Threshold     int     // minimum accumulator votes for a line
	MinLineLength int     // segments shorter than this along both axes are rejected
	MaxLineGap    int     // largest run of missing pixels bridged along a line
}

// houghSeed fixes the order in which edge points are visited so repeated
// runs over the same mask yield the same segments.
const houghSeed = 0x5eed

const houghShift = 16

// ProbabilisticHough finds line segments in an edge mask with the
// progressive probabilistic Hough transform.
//
// Edge points are visited in a pseudo-random order. Each point votes in
// (rho, theta) space; once some bin crosses the threshold the line is walked
// in both directions from the point, bridging gaps up to MaxLineGap. Pixels
// on the walked line are removed from further consideration and, when the
// line is long enough to keep, their votes are withdrawn.
//
// Parameters:
//   - edges: Edge mask, typically from Canny. It is not modified.
//   - p: Accumulator resolution and the acceptance thresholds.
//
// Returns:
//   - []Line: Segments in the order they were accepted, never nil.
//
// The visiting order comes from a fixed seed, so the same mask always
// yields the same lines in the same order.
func ProbabilisticHough(edges *imaging.Mask, p HoughParams) []Line {
	width, height := edges.Width, edges.Height
	lines := make([]Line, 0)
	if width == 0 || height == 0 || p.Rho <= 0 || p.Theta <= 0 {
		return lines
	}

	irho := 1 / p.Rho
	numAngle := int(math.Round(math.Pi / p.Theta))
	numRho := int(math.Round(float64((width+height)*2+1) / p.Rho))
	if numAngle < 1 {
		numAngle = 1
	}

	cosTab := make([]float64, numAngle)
	sinTab := make([]float64, numAngle)
	for n := 0; n < numAngle; n++ {
		ang := float64(n) * p.Theta
		cosTab[n] = math.Cos(ang) * irho
		sinTab[n] = math.Sin(ang) * irho
	}

	accum := make([]int, numAngle*numRho)
	pending := make([]bool, width*height)
	points := make([]Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.Pix[y*width+x] {
				pending[y*width+x] = true
				points = append(points, Point{X: x, Y: y})
			}
		}
	}

	rhoIndex := func(n, x, y int) int {
		r := int(math.RoundToEven(float64(x)*cosTab[n] + float64(y)*sinTab[n]))
		return r + (numRho-1)/2
	}

	rng := rand.New(rand.NewSource(houghSeed))
	for count := len(points); count > 0; count-- {
		idx := rng.Intn(count)
		pt := points[idx]
		points[idx] = points[count-1]

		if !pending[pt.Y*width+pt.X] {
			continue
		}

		maxVal := p.Threshold - 1
		maxN := 0
		for n := 0; n < numAngle; n++ {
			i := n*numRho + rhoIndex(n, pt.X, pt.Y)
			accum[i]++
			if accum[i] > maxVal {
				maxVal = accum[i]
				maxN = n
			}
		}
		if maxVal < p.Threshold {
			continue
		}

		// Walk along the strongest line through pt. The major axis steps one
		// pixel at a time; the minor axis is tracked in fixed point.
		a := -sinTab[maxN]
		b := cosTab[maxN]
		x0, y0 := pt.X, pt.Y
		var dx0, dy0 int
		xflag := math.Abs(a) > math.Abs(b)
		if xflag {
			dx0 = 1
			if a <= 0 {
				dx0 = -1
			}
			dy0 = int(math.RoundToEven(b * (1 << houghShift) / math.Abs(a)))
			y0 = y0<<houghShift + 1<<(houghShift-1)
		} else {
			dy0 = 1
			if b <= 0 {
				dy0 = -1
			}
			dx0 = int(math.RoundToEven(a * (1 << houghShift) / math.Abs(b)))
			x0 = x0<<houghShift + 1<<(houghShift-1)
		}

		locate := func(x, y int) (int, int) {
			if xflag {
				return x, y >> houghShift
			}
			return x >> houghShift, y
		}

		var ends [2]Point
		for k := 0; k < 2; k++ {
			gap := 0
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				px, py := locate(x, y)
				if px < 0 || px >= width || py < 0 || py >= height {
					break
				}
				if pending[py*width+px] {
					gap = 0
					ends[k] = Point{X: px, Y: py}
				} else if gap++; gap > p.MaxLineGap {
					break
				}
			}
		}

		good := absInt(ends[1].X-ends[0].X) >= p.MinLineLength ||
			absInt(ends[1].Y-ends[0].Y) >= p.MinLineLength

		for k := 0; k < 2; k++ {
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				px, py := locate(x, y)
				if pending[py*width+px] {
					if good {
						for n := 0; n < numAngle; n++ {
							accum[n*numRho+rhoIndex(n, px, py)]--
						}
					}
					pending[py*width+px] = false
				}
				if px == ends[k].X && py == ends[k].Y {
					break
				}
			}
		}

		if good && ends[0] != ends[1] {
			lines = append(lines, NewLine(ends[0], ends[1]))
		}
	}

	return lines
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
