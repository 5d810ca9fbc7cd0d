package blueprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleModel() *Model {
	return NewModel(
		[]Wall{{
			ID:      "wall_0",
			Type:    Horizontal,
			Polygon: []Point{{9, 48}, {91, 48}, {91, 52}, {9, 52}},
			Area:    328,
			Bounds:  Box{X: 9, Y: 48, Width: 83, Height: 5},
		}},
		[]Segment{NewSegment("segment_0", Point{10, 50}, Point{90, 50})},
		[]Room{{
			ID:      "room_0",
			Polygon: []Point{{0, 0}, {60, 0}, {60, 40}, {0, 40}},
			Area:    2400.5,
		}},
		Dimensions{Width: 100, Height: 100},
	)
}

func TestPoint_JSON(t *testing.T) {
	data, err := json.Marshal(Point{3, 4})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "[3,4]" {
		t.Errorf("expected [3,4], got %s", data)
	}

	var p Point
	if err := json.Unmarshal([]byte("[5, 6]"), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p != (Point{5, 6}) {
		t.Errorf("expected {5 6}, got %v", p)
	}

	for _, bad := range []string{`{"x": 1, "y": 2}`, `[7]`, `[1,2,3]`, `[]`, `["a","b"]`} {
		t.Run(bad, func(t *testing.T) {
			var q Point
			err := json.Unmarshal([]byte(bad), &q)
			if !errors.Is(err, ErrInvalidPoint) {
				t.Errorf("expected ErrInvalidPoint, got %v (point %v)", err, q)
			}
		})
	}
}

func TestDecode_MalformedPoint(t *testing.T) {
	for _, start := range []string{`[7]`, `[1,2,3]`} {
		t.Run(start, func(t *testing.T) {
			data := `{"data": {"walls": [], "rooms": [], "image_dimensions": {"width": 10, "height": 10},
				"wall_segments": [{"id": "segment_0", "start": ` + start + `, "end": [9, 9], "length": 1}]}}`
			if _, err := Decode(strings.NewReader(data)); !errors.Is(err, ErrInvalidPoint) {
				t.Errorf("expected ErrInvalidPoint, got %v", err)
			}
		})
	}
}

func TestNewSegment_Length(t *testing.T) {
	s := NewSegment("segment_0", Point{0, 0}, Point{30, 40})
	if s.Length != 50 {
		t.Errorf("expected length 50, got %v", s.Length)
	}
}

func TestClassifyWall(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want WallType
	}{
		{"wide", Box{Width: 50, Height: 5}, Horizontal},
		{"tall", Box{Width: 5, Height: 50}, Vertical},
		{"square", Box{Width: 10, Height: 10}, Vertical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyWall(tt.box); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEncode_EmptyModel(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, NewModel(nil, nil, nil, Dimensions{Width: 100, Height: 100})); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	data, ok := raw["data"]
	if !ok {
		t.Fatalf("missing data envelope: %s", buf.String())
	}
	for _, key := range []string{"walls", "wall_segments", "rooms"} {
		list, ok := data[key].([]any)
		if !ok {
			t.Errorf("%s should be an array, got %T", key, data[key])
			continue
		}
		if len(list) != 0 {
			t.Errorf("%s should be empty, got %v", key, list)
		}
	}
	dims, _ := data["image_dimensions"].(map[string]any)
	if dims["width"] != 100.0 || dims["height"] != 100.0 {
		t.Errorf("unexpected image_dimensions %v", data["image_dimensions"])
	}
}

func TestEncode_NilListsInLiteral(t *testing.T) {
	var buf bytes.Buffer
	m := &Model{Walls: []Wall{{ID: "wall_0", Type: Vertical}}}
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(buf.String(), "null") {
		t.Errorf("expected no null values, got %s", buf.String())
	}
	if m.Segments != nil || m.Walls[0].Polygon != nil {
		t.Error("Encode must not modify its input")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	m := sampleModel()

	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(m, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", m, got)
	}
}

func TestDecode_WireFormat(t *testing.T) {
	input := `{"data": {
		"walls": [{"id": "wall_3", "type": "vertical", "polygon": [[1,2],[3,4],[5,6]],
		           "area": 120.5, "bounds": {"x": 1, "y": 2, "width": 5, "height": 40}}],
		"wall_segments": [{"id": "segment_0", "start": [0,0], "end": [3,4], "length": 5.0}],
		"rooms": [{"id": "room_0", "polygon": [[0,0],[10,0],[10,10]], "area": 1500}],
		"image_dimensions": {"width": 640, "height": 480}
	}}`

	m, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(m.Walls) != 1 || m.Walls[0].Type != Vertical || m.Walls[0].Bounds.Height != 40 {
		t.Errorf("unexpected walls %+v", m.Walls)
	}
	if m.Walls[0].Polygon[2] != (Point{5, 6}) {
		t.Errorf("unexpected polygon %v", m.Walls[0].Polygon)
	}
	if len(m.Segments) != 1 || m.Segments[0].End != (Point{3, 4}) || math.Abs(m.Segments[0].Length-5) > 1e-9 {
		t.Errorf("unexpected segments %+v", m.Segments)
	}
	if len(m.Rooms) != 1 || m.Rooms[0].Area != 1500 {
		t.Errorf("unexpected rooms %+v", m.Rooms)
	}
	if m.ImageDimensions != (Dimensions{Width: 640, Height: 480}) {
		t.Errorf("unexpected dimensions %+v", m.ImageDimensions)
	}
}

func TestDecode_MissingListsBecomeEmpty(t *testing.T) {
	m, err := Decode(strings.NewReader(`{"data": {"image_dimensions": {"width": 10, "height": 20}}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.Walls == nil || m.Segments == nil || m.Rooms == nil {
		t.Error("expected empty, non-nil lists")
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"missing envelope", `{"walls": []}`, true},
		{"null data", `{"data": null}`, true},
		{"not json", `walls`, false},
		{"bad point", `{"data": {"rooms": [{"id": "room_0", "polygon": [["a", "b"]], "area": 0}]}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidModel); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidModel) = %v, want %v (err: %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "plan.json")
	m := sampleModel()

	if err := Save(path, m); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !reflect.DeepEqual(m, got) {
		t.Errorf("loaded model differs from saved model")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
