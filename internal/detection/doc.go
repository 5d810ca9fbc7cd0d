// Package detection provides the geometric primitives used to turn binary
// masks into vector shapes.
//
// # Contours
//
// FindExternalContours traces the outer border of every 8-connected
// foreground component that is not nested inside another component's hole.
// Contours carry their own geometry helpers (Area, Perimeter, Bounds), and
// ApproxPolygon reduces them to a handful of vertices with Douglas-Peucker
// at a tolerance proportional to the perimeter.
//
// # Line Segments
//
// DetectSegments runs edge detection followed by the progressive
// probabilistic Hough transform. The default build is pure Go; building
// with -tags gocv swaps in OpenCV's implementation:
//
//	go build -tags gocv ./...
//
// The pure Go transform visits edge points in a fixed pseudo-random order,
// so its output is deterministic for a given mask.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
package detection
