package imaging

import (
	"image"
	"image/color"
)

// Mask is a binary foreground/background grid with the same dimensions as
// the raster it was derived from. Pixels are addressed with (0,0) at the
// top-left; coordinates outside the grid read as background.
//
// Masks are values: every operation in this package returns a new Mask and
// never modifies its inputs.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask returns an all-background mask of the given size.
func NewMask(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// At reports whether (x, y) is foreground.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background. Out-of-range writes are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{Width: m.Width, Height: m.Height, Pix: make([]bool, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// CountIn returns the number of foreground pixels inside r, clipped to the mask.
func (m *Mask) CountIn(r image.Rectangle) int {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] {
				n++
			}
		}
	}
	return n
}

// Or returns the union of two masks of equal size.
func Or(a, b *Mask) *Mask {
	out := NewMask(a.Width, a.Height)
	for i := range out.Pix {
		out.Pix[i] = a.Pix[i] || b.Pix[i]
	}
	return out
}

// AndNot returns the pixels set in a but not in b.
func AndNot(a, b *Mask) *Mask {
	out := NewMask(a.Width, a.Height)
	for i := range out.Pix {
		out.Pix[i] = a.Pix[i] && !b.Pix[i]
	}
	return out
}

// Image renders the mask as a grayscale image: foreground 255, background 0.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v {
			img.Pix[i] = 255
		}
	}
	return img
}

// MaskFromImage marks every pixel whose luminance is at least half
// intensity as foreground. It is the inverse of Mask.Image and is used to
// turn vector drawings back into masks.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.Gray)
			m.Pix[y*m.Width+x] = g.Y >= 128
		}
	}
	return m
}
