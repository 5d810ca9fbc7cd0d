package detection

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. The tolerance is fraction times the contour perimeter, so the
// same fraction gives comparable results for small and large shapes.
//
// The returned polygon is open (the first vertex is not repeated) and may
// contain fewer than three points when the contour is degenerate; callers
// decide whether such polygons are usable.
func ApproxPolygon(c Contour, fraction float64) []Point {
	if len(c) == 0 {
		return []Point{}
	}
	if len(c) < 3 {
		out := make([]Point, len(c))
		copy(out, c)
		return out
	}

	ls := make(orb.LineString, 0, len(c)+1)
	for _, p := range c {
		ls = append(ls, orb.Point{float64(p.X), float64(p.Y)})
	}
	ls = append(ls, ls[0])

	tolerance := fraction * c.Perimeter()
	reduced, ok := simplify.DouglasPeucker(tolerance).Simplify(ls).(orb.LineString)
	if !ok {
		reduced = ls
	}

	out := make([]Point, 0, len(reduced))
	for _, p := range reduced {
		out = append(out, Point{X: int(math.Round(p[0])), Y: int(math.Round(p[1]))})
	}
	if n := len(out); n > 1 && out[0] == out[n-1] {
		out = out[:n-1]
	}
	return out
}
