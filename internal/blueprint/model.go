package blueprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/ironsheep/blueprint-tools/internal/detection"
)

// ErrInvalidModel is returned when a serialized model lacks the "data" envelope.
var ErrInvalidModel = errors.New("invalid blueprint model: missing data envelope")

// ErrInvalidPoint is returned when a serialized point is not exactly [x, y].
var ErrInvalidPoint = errors.New("point must be [x, y]")

// Point is an integer pixel coordinate. It serializes as a two element
// array [x, y].
type Point struct {
	X int
	Y int
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a point from [x, y]. Arrays of any other length
// are rejected rather than padded or truncated.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: got %d elements", ErrInvalidPoint, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// WallType classifies a wall by the shape of its bounding box.
type WallType string

const (
	Horizontal WallType = "horizontal"
	Vertical   WallType = "vertical"
)

// ClassifyWall returns Horizontal when the box is wider than it is tall and
// Vertical otherwise. Square boxes are vertical.
func ClassifyWall(b Box) WallType {
	if b.Width > b.Height {
		return Horizontal
	}
	return Vertical
}

// Box is an axis-aligned bounding box.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Segment is a straight line found by the segment detector.
type Segment struct {
	ID     string  `json:"id"`
	Start  Point   `json:"start"`
	End    Point   `json:"end"`
	Length float64 `json:"length"`
}

// NewSegment builds a segment whose length is the distance between its
// end points.
func NewSegment(id string, start, end Point) Segment {
	return Segment{
		ID:     id,
		Start:  start,
		End:    end,
		Length: math.Hypot(float64(end.X-start.X), float64(end.Y-start.Y)),
	}
}

// Wall is a filled wall region reduced to a polygon.
type Wall struct {
	ID      string   `json:"id"`
	Type    WallType `json:"type"`
	Polygon []Point  `json:"polygon"`
	Area    float64  `json:"area"`
	Bounds  Box      `json:"bounds"`
}

// Room is an enclosed region bounded by walls. Rooms hold no reference to
// the walls around them.
type Room struct {
	ID      string  `json:"id"`
	Polygon []Point `json:"polygon"`
	Area    float64 `json:"area"`
}

// Dimensions is the size of the image a model was extracted from.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Model is the structured result of an extraction and the only input the
// renderer accepts. A model is never modified after it is built.
type Model struct {
	Walls           []Wall     `json:"walls"`
	Segments        []Segment  `json:"wall_segments"`
	Rooms           []Room     `json:"rooms"`
	ImageDimensions Dimensions `json:"image_dimensions"`
}

// NewModel assembles a model. Nil lists are replaced by empty ones so the
// serialized form always carries arrays.
func NewModel(walls []Wall, segments []Segment, rooms []Room, dims Dimensions) *Model {
	m := &Model{
		Walls:           walls,
		Segments:        segments,
		Rooms:           rooms,
		ImageDimensions: dims,
	}
	m.normalize()
	return m
}

func (m *Model) normalize() {
	if m.Walls == nil {
		m.Walls = []Wall{}
	}
	if m.Segments == nil {
		m.Segments = []Segment{}
	}
	if m.Rooms == nil {
		m.Rooms = []Room{}
	}
	for i := range m.Walls {
		if m.Walls[i].Polygon == nil {
			m.Walls[i].Polygon = []Point{}
		}
	}
	for i := range m.Rooms {
		if m.Rooms[i].Polygon == nil {
			m.Rooms[i].Polygon = []Point{}
		}
	}
}

type envelope struct {
	Data *Model `json:"data"`
}

// Encode writes the model wrapped in a {"data": ...} envelope.
func Encode(w io.Writer, m *Model) error {
	out := *m
	out.Walls = append([]Wall(nil), m.Walls...)
	out.Rooms = append([]Room(nil), m.Rooms...)
	out.normalize()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope{Data: &out}); err != nil {
		return fmt.Errorf("encode blueprint: %w", err)
	}
	return nil
}

// Decode reads a model from its {"data": ...} envelope. Missing lists
// decode as empty lists.
func Decode(r io.Reader) (*Model, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode blueprint: %w", err)
	}
	if env.Data == nil {
		return nil, ErrInvalidModel
	}
	env.Data.normalize()
	return env.Data, nil
}

// Save writes the model as JSON to path, creating parent directories.
func Save(path string, m *Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a model previously written by Save.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func toPoint(p detection.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

func toPolygon(pts []detection.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = toPoint(p)
	}
	return out
}

func toBox(b detection.Bounds) Box {
	return Box{X: b.X1, Y: b.Y1, Width: b.Width(), Height: b.Height()}
}
