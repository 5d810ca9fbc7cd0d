package imaging

import (
	"image"
	"testing"
)

// maskWithRect returns a w×h mask with the rectangle r filled.
func maskWithRect(w, h int, r image.Rectangle) *Mask {
	m := NewMask(w, h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// foregroundBounds returns the bounding rectangle of all foreground pixels.
func foregroundBounds(m *Mask) image.Rectangle {
	r := image.Rectangle{}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

func TestErodeDilate_Square(t *testing.T) {
	m := maskWithRect(20, 20, image.Rect(5, 5, 15, 15))

	eroded := Erode(m, Square(3))
	if got, want := foregroundBounds(eroded), image.Rect(6, 6, 14, 14); got != want {
		t.Errorf("Erode bounds: got %v, want %v", got, want)
	}

	dilated := Dilate(m, Square(3))
	if got, want := foregroundBounds(dilated), image.Rect(4, 4, 16, 16); got != want {
		t.Errorf("Dilate bounds: got %v, want %v", got, want)
	}

	if m.Count() != 100 {
		t.Error("input mask was modified")
	}
}

func TestErode_BorderCountsAsForeground(t *testing.T) {
	m := maskWithRect(10, 10, image.Rect(0, 0, 10, 10))
	eroded := Erode(m, Square(5))
	if eroded.Count() != 100 {
		t.Errorf("full mask should survive erosion, got %d pixels", eroded.Count())
	}
}

func TestOpenClose_EvenKernelDoesNotShift(t *testing.T) {
	m := maskWithRect(30, 30, image.Rect(10, 8, 20, 16))

	for _, size := range []int{2, 3, 4} {
		opened := Open(m, Square(size))
		if got := foregroundBounds(opened); got != image.Rect(10, 8, 20, 16) {
			t.Errorf("Open(%d) bounds: got %v", size, got)
		}
		closed := Close(m, Square(size))
		if got := foregroundBounds(closed); got != image.Rect(10, 8, 20, 16) {
			t.Errorf("Close(%d) bounds: got %v", size, got)
		}
	}
}

func TestClose_BridgesSmallGaps(t *testing.T) {
	m := NewMask(20, 5)
	// Two bars separated by a one pixel gap at x=10.
	for y := 1; y < 4; y++ {
		for x := 2; x < 18; x++ {
			if x != 10 {
				m.Set(x, y, true)
			}
		}
	}

	closed := Close(m, Square(2))
	if !closed.At(10, 2) {
		t.Error("Close should bridge a 1px gap with a 2x2 kernel")
	}
}

func TestOpen_RemovesNoise(t *testing.T) {
	m := maskWithRect(20, 20, image.Rect(4, 4, 12, 12))
	m.Set(17, 17, true)

	opened := Open(m, Square(2))
	if opened.At(17, 17) {
		t.Error("isolated pixel should be removed by opening")
	}
	if !opened.At(8, 8) {
		t.Error("large block should survive opening")
	}
}

func TestDirectionalOpen(t *testing.T) {
	tests := []struct {
		name    string
		rect    image.Rectangle
		survive bool
	}{
		{"long horizontal bar", image.Rect(5, 10, 45, 13), true},
		{"long vertical bar", image.Rect(20, 2, 23, 40), true},
		{"short compact blob", image.Rect(5, 5, 14, 14), false},
		{"exactly kernel length", image.Rect(5, 20, 20, 21), true},
		{"one short of kernel", image.Rect(5, 20, 19, 21), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := maskWithRect(50, 50, tt.rect)
			out := DirectionalOpen(m, 15)
			if survived := out.Count() == m.Count(); survived != tt.survive {
				t.Errorf("survive: got %v (count %d of %d), want %v", survived, out.Count(), m.Count(), tt.survive)
			}
			if !tt.survive && out.Count() != 0 {
				t.Errorf("expected empty result, got %d pixels", out.Count())
			}
		})
	}
}

func TestKernelConstructors(t *testing.T) {
	if k := Horizontal(15); k.Width != 15 || k.Height != 1 {
		t.Errorf("Horizontal: got %+v", k)
	}
	if k := Vertical(15); k.Width != 1 || k.Height != 15 {
		t.Errorf("Vertical: got %+v", k)
	}
	if k := Rect(3, 2); k.Width != 3 || k.Height != 2 {
		t.Errorf("Rect: got %+v", k)
	}
}
