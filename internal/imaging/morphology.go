package imaging

// Kernel is a rectangular structuring element. A Width×1 kernel keeps only
// horizontal runs of at least Width pixels when used for an opening; a
// 1×Height kernel does the same for vertical runs.
type Kernel struct {
	Width  int
	Height int
}

// Rect returns a w×h rectangular kernel.
func Rect(w, h int) Kernel {
	return Kernel{Width: w, Height: h}
}

// Square returns a size×size kernel.
func Square(size int) Kernel {
	return Kernel{Width: size, Height: size}
}

// Horizontal returns a length×1 kernel.
func Horizontal(length int) Kernel {
	return Kernel{Width: length, Height: 1}
}

// Vertical returns a 1×length kernel.
func Vertical(length int) Kernel {
	return Kernel{Width: 1, Height: length}
}

// offsets returns the inclusive offset range covered by an axis of the kernel
// with the anchor at size/2.
func offsets(size int) (lo, hi int) {
	anchor := size / 2
	return -anchor, size - 1 - anchor
}

// Erode keeps a pixel only when every pixel under the kernel is foreground.
// Pixels beyond the mask border count as foreground so that shapes touching
// the border are not eaten away from the outside.
func Erode(m *Mask, k Kernel) *Mask {
	lo, hi := offsets(k.Width)
	tmp := slideRows(m, lo, hi, true)
	lo, hi = offsets(k.Height)
	return slideCols(tmp, lo, hi, true)
}

// Dilate sets a pixel when any pixel under the reflected kernel is
// foreground. Reflection keeps Open and Close free of drift for even-sized
// kernels.
func Dilate(m *Mask, k Kernel) *Mask {
	lo, hi := offsets(k.Width)
	tmp := slideRows(m, -hi, -lo, false)
	lo, hi = offsets(k.Height)
	return slideCols(tmp, -hi, -lo, false)
}

// Open erodes then dilates, removing structures smaller than the kernel.
func Open(m *Mask, k Kernel) *Mask {
	return Dilate(Erode(m, k), k)
}

// Close dilates then erodes, bridging gaps smaller than the kernel.
func Close(m *Mask, k Kernel) *Mask {
	return Erode(Dilate(m, k), k)
}

// DirectionalOpen unions a horizontal and a vertical opening with kernels of
// the given length. Only long, thin, axis-aligned structures survive.
func DirectionalOpen(m *Mask, length int) *Mask {
	return Or(Open(m, Horizontal(length)), Open(m, Vertical(length)))
}

// slideRows applies a running AND (erode) or OR (dilate) over the window
// [x+lo, x+hi] of every row. It counts foreground pixels in the window so
// each row is processed in linear time.
func slideRows(m *Mask, lo, hi int, erode bool) *Mask {
	out := NewMask(m.Width, m.Height)
	if lo == 0 && hi == 0 {
		copy(out.Pix, m.Pix)
		return out
	}
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		dst := out.Pix[y*m.Width : (y+1)*m.Width]
		windowPixels(row, dst, lo, hi, erode)
	}
	return out
}

func slideCols(m *Mask, lo, hi int, erode bool) *Mask {
	out := NewMask(m.Width, m.Height)
	if lo == 0 && hi == 0 {
		copy(out.Pix, m.Pix)
		return out
	}
	col := make([]bool, m.Height)
	dst := make([]bool, m.Height)
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			col[y] = m.Pix[y*m.Width+x]
		}
		windowPixels(col, dst, lo, hi, erode)
		for y := 0; y < m.Height; y++ {
			out.Pix[y*m.Width+x] = dst[y]
		}
	}
	return out
}

// windowPixels writes into dst the AND (erode) or OR (dilate) of src over
// each window [i+lo, i+hi]. Out-of-range samples are foreground for erosion
// and background for dilation.
func windowPixels(src, dst []bool, lo, hi int, erode bool) {
	n := len(src)
	size := hi - lo + 1
	sample := func(i int) bool {
		if i < 0 || i >= n {
			return erode
		}
		return src[i]
	}
	count := 0
	for i := lo; i <= hi; i++ {
		if sample(i) {
			count++
		}
	}
	for i := 0; i < n; i++ {
		if erode {
			dst[i] = count == size
		} else {
			dst[i] = count > 0
		}
		if sample(i + lo) {
			count--
		}
		if sample(i + hi + 1) {
			count++
		}
	}
}
