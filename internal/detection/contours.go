package detection

import (
	"math"

	"github.com/ironsheep/blueprint-tools/internal/imaging"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the horizontal extent in pixels.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent in pixels.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// AspectRatio returns width/height, or 0 for an empty box.
func (b Bounds) AspectRatio() float64 {
	if b.Height() <= 0 {
		return 0
	}
	return float64(b.Width()) / float64(b.Height())
}

// Contour is the closed outer border of a connected foreground component,
// listed clockwise (in image coordinates) from its top-left pixel. Runs of
// collinear border pixels are reduced to their end points.
type Contour []Point

// Bounds returns the smallest box containing every contour point.
func (c Contour) Bounds() Bounds {
	if len(c) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: c[0].X, Y1: c[0].Y, X2: c[0].X, Y2: c[0].Y}
	for _, p := range c[1:] {
		if p.X < b.X1 {
			b.X1 = p.X
		}
		if p.X > b.X2 {
			b.X2 = p.X
		}
		if p.Y < b.Y1 {
			b.Y1 = p.Y
		}
		if p.Y > b.Y2 {
			b.Y2 = p.Y
		}
	}
	b.X2++
	b.Y2++
	return b
}

// Area returns the area enclosed by the contour, treating each point as a
// pixel center. A one-pixel-wide line therefore has zero area and a filled
// w×h block has area (w-1)×(h-1).
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	return math.Abs(planar.Area(c.ring()))
}

// Perimeter returns the length of the closed contour.
func (c Contour) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	return planar.Length(c.ring())
}

// ring returns the contour as a closed orb.Ring.
func (c Contour) ring() orb.Ring {
	r := make(orb.Ring, 0, len(c)+1)
	for _, p := range c {
		r = append(r, orb.Point{float64(p.X), float64(p.Y)})
	}
	if len(c) > 0 {
		r = append(r, r[0])
	}
	return r
}

// FindExternalContours returns the outer border of every 8-connected
// foreground component that is not enclosed by another component. Shapes
// nested inside the hole of another shape are skipped, as are the borders
// of holes themselves.
//
// Contours are ordered by the raster position of their top-left pixel.
func FindExternalContours(m *imaging.Mask) []Contour {
	return findContours(m, true)
}

// FindContours returns the outer border of every 8-connected foreground
// component, including components nested inside holes of others.
func FindContours(m *imaging.Mask) []Contour {
	return findContours(m, false)
}

func findContours(m *imaging.Mask, externalOnly bool) []Contour {
	labels := labelComponents(m)

	var outside []bool
	if externalOnly {
		outside = outsideBackground(m)
	}

	contours := make([]Contour, 0)
	seen := make(map[int]bool)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			label := labels[y*m.Width+x]
			if label == 0 || seen[label] {
				continue
			}
			seen[label] = true

			// (x, y) is the first pixel of this component in raster order,
			// so the pixel above it lies in the region surrounding it.
			if externalOnly && y > 0 && !outside[(y-1)*m.Width+x] {
				continue
			}
			contours = append(contours, compress(traceBorder(m, Point{X: x, Y: y})))
		}
	}
	return contours
}

// labelComponents assigns a positive label to every 8-connected foreground
// component using iterative flood fill. Background pixels get label 0.
func labelComponents(m *imaging.Mask) []int {
	labels := make([]int, m.Width*m.Height)
	next := 0
	stack := make([]Point, 0, 64)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Pix[y*m.Width+x] || labels[y*m.Width+x] != 0 {
				continue
			}
			next++
			stack = append(stack[:0], Point{X: x, Y: y})
			labels[y*m.Width+x] = next

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if !m.At(nx, ny) || labels[ny*m.Width+nx] != 0 {
							continue
						}
						labels[ny*m.Width+nx] = next
						stack = append(stack, Point{X: nx, Y: ny})
					}
				}
			}
		}
	}
	return labels
}

// outsideBackground marks the background pixels 4-connected to the image
// border. Foreground uses 8-connectivity, so background must use 4 for holes
// to be well defined.
func outsideBackground(m *imaging.Mask) []bool {
	outside := make([]bool, m.Width*m.Height)
	stack := make([]Point, 0, 2*(m.Width+m.Height))

	push := func(x, y int) {
		if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
			return
		}
		i := y*m.Width + x
		if m.Pix[i] || outside[i] {
			return
		}
		outside[i] = true
		stack = append(stack, Point{X: x, Y: y})
	}

	for x := 0; x < m.Width; x++ {
		push(x, 0)
		push(x, m.Height-1)
	}
	for y := 0; y < m.Height; y++ {
		push(0, y)
		push(m.Width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}
	return outside
}

// neighbors lists the 8-neighbourhood clockwise on screen, starting east.
var neighbors = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func neighborIndex(dx, dy int) int {
	for i, n := range neighbors {
		if n.X == dx && n.Y == dy {
			return i
		}
	}
	return 4
}

// traceBorder follows the outer border of the component containing start
// using Moore-neighbour tracing. start must be the component's first pixel
// in raster order. Tracing stops when the walk leaves start towards the same
// pixel it took on the first step.
func traceBorder(m *imaging.Mask, start Point) Contour {
	contour := Contour{start}

	cur, back := start, Point{X: start.X - 1, Y: start.Y}
	var second Point
	limit := 4*m.Width*m.Height + 8
	for iter := 0; iter < limit; iter++ {
		k := neighborIndex(back.X-cur.X, back.Y-cur.Y)
		var next Point
		found := false
		for i := 1; i <= 8; i++ {
			n := neighbors[(k+i)%8]
			q := Point{X: cur.X + n.X, Y: cur.Y + n.Y}
			if m.At(q.X, q.Y) {
				next = q
				found = true
				break
			}
			back = q
		}
		if !found {
			return contour // isolated pixel
		}
		if iter == 0 {
			second = next
		} else if cur == start && next == second {
			break
		}
		contour = append(contour, next)
		cur = next
	}

	if n := len(contour); n > 1 && contour[n-1] == start {
		contour = contour[:n-1]
	}
	return contour
}

// compress drops border points lying on a straight run between their
// neighbours, keeping the first point.
func compress(c Contour) Contour {
	if len(c) < 3 {
		return c
	}
	out := Contour{c[0]}
	n := len(c)
	for i := 1; i < n; i++ {
		prev, p, next := c[i-1], c[i], c[(i+1)%n]
		if p.X-prev.X == next.X-p.X && p.Y-prev.Y == next.Y-p.Y {
			continue
		}
		out = append(out, p)
	}
	return out
}
