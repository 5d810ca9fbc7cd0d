package detection

import (
	"image"
	"math"
	"testing"

	"github.com/ironsheep/blueprint-tools/internal/config"
)

func defaultHoughParams() HoughParams {
	return HoughParams{
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     50,
		MinLineLength: 50,
		MaxLineGap:    10,
	}
}

func TestProbabilisticHough_Empty(t *testing.T) {
	lines := ProbabilisticHough(createTestMask(50, 50), defaultHoughParams())
	if lines == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestProbabilisticHough_HorizontalLine(t *testing.T) {
	edges := createTestMask(100, 40, image.Rect(5, 20, 95, 21))

	lines := ProbabilisticHough(edges, defaultHoughParams())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %v", lines)
	}
	l := lines[0]
	if l.Start != (Point{5, 20}) || l.End != (Point{94, 20}) {
		t.Errorf("expected (5,20)-(94,20), got %v-%v", l.Start, l.End)
	}
	if l.Length != 89 {
		t.Errorf("expected length 89, got %v", l.Length)
	}
}

func TestProbabilisticHough_VerticalLine(t *testing.T) {
	edges := createTestMask(60, 100, image.Rect(30, 10, 31, 80))

	lines := ProbabilisticHough(edges, defaultHoughParams())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %v", lines)
	}
	l := lines[0]
	top, bottom := l.Start, l.End
	if top.Y > bottom.Y {
		top, bottom = bottom, top
	}
	if top != (Point{30, 10}) || bottom != (Point{30, 79}) {
		t.Errorf("expected (30,10)-(30,79), got %v-%v", l.Start, l.End)
	}
}

func TestProbabilisticHough_BridgesSmallGaps(t *testing.T) {
	edges := createTestMask(120, 40,
		image.Rect(5, 20, 50, 21),
		image.Rect(56, 20, 110, 21),
	)

	lines := ProbabilisticHough(edges, defaultHoughParams())
	if len(lines) != 1 {
		t.Fatalf("expected gap to be bridged into 1 line, got %v", lines)
	}
	if lines[0].Length < 100 {
		t.Errorf("expected bridged length >= 100, got %v", lines[0].Length)
	}
}

func TestProbabilisticHough_ShortLineRejected(t *testing.T) {
	edges := createTestMask(100, 40, image.Rect(10, 20, 40, 21))
	if lines := ProbabilisticHough(edges, defaultHoughParams()); len(lines) != 0 {
		t.Errorf("expected short line to be rejected, got %v", lines)
	}
}

func TestProbabilisticHough_Deterministic(t *testing.T) {
	edges := createTestMask(200, 200,
		image.Rect(10, 30, 190, 31),
		image.Rect(10, 150, 190, 151),
		image.Rect(40, 10, 41, 190),
		image.Rect(160, 10, 161, 190),
	)

	first := ProbabilisticHough(edges, defaultHoughParams())
	second := ProbabilisticHough(edges, defaultHoughParams())
	if len(first) == 0 {
		t.Fatal("expected lines")
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical results, got %d and %d lines", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestNewLine(t *testing.T) {
	tests := []struct {
		name       string
		start, end Point
		wantLength float64
	}{
		{"horizontal", Point{0, 0}, Point{10, 0}, 10},
		{"vertical", Point{5, 0}, Point{5, 20}, 20},
		{"reversed horizontal", Point{10, 3}, Point{0, 3}, 10},
		{"3-4-5", Point{0, 0}, Point{3, 4}, 5},
		{"degenerate", Point{7, 7}, Point{7, 7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLine(tt.start, tt.end)
			if math.Abs(l.Length-tt.wantLength) > 1e-9 {
				t.Errorf("expected length %v, got %v", tt.wantLength, l.Length)
			}
			if l.Start != tt.start || l.End != tt.end {
				t.Errorf("expected %v-%v, got %v-%v", tt.start, tt.end, l.Start, l.End)
			}
		})
	}
}

func TestDetectSegments_StrokedLine(t *testing.T) {
	ink := createTestMask(100, 100, image.Rect(10, 49, 91, 52))

	lines, err := DetectSegments(ink, config.DefaultConfig().Segments)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	found := false
	for _, l := range lines {
		a, b := l.Start, l.End
		if a.X > b.X {
			a, b = b, a
		}
		if absInt(a.X-10) <= 4 && absInt(b.X-90) <= 4 &&
			absInt(a.Y-50) <= 4 && absInt(b.Y-50) <= 4 {
			found = true
			if math.Abs(l.Length-80) > 6 {
				t.Errorf("expected length near 80, got %v", l.Length)
			}
		}
	}
	if !found {
		t.Errorf("expected a segment near (10,50)-(90,50), got %v", lines)
	}
}
