package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Grayscale converts img to an 8-bit luminance image using ITU-R BT.601
// weights (0.299*R + 0.587*G + 0.114*B). The result always has its origin
// at (0, 0).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// Threshold marks every pixel whose luminance is strictly below level as
// foreground. Dark ink on a light background becomes foreground.
func Threshold(img image.Image, level int) *Mask {
	gray := Grayscale(img)
	b := gray.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	switch {
	case level <= 0:
		return m
	case level > 255:
		for i := range m.Pix {
			m.Pix[i] = true
		}
		return m
	}

	// segment.Threshold paints pixels at or above the level white.
	bw := segment.Threshold(gray, uint8(level))
	for y := 0; y < m.Height; y++ {
		row := bw.Pix[y*bw.Stride : y*bw.Stride+m.Width]
		for x, v := range row {
			m.Pix[y*m.Width+x] = v == 0
		}
	}
	return m
}

// AdaptiveThreshold marks a pixel as foreground when its luminance is at or
// below the Gaussian-weighted mean of its block×block neighbourhood minus c.
//
// Unlike Threshold this reacts to local contrast, so thin strokes of text
// are picked up even on a tinted or unevenly scanned background, while the
// interior of large uniformly dark regions is left as background.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - block: Odd neighbourhood size. Values below 3 are raised to 3.
//     Typical value: 11.
//   - c: Offset subtracted from the local mean. Larger values keep only
//     strongly contrasting ink. Typical value: 2.
//
// # Weights
//
// The local mean is bild's Gaussian blur with radius (block-1)/2: the
// window spans exactly block pixels and the weight at offset x is
// exp(-x²/(4·radius)), so sigma² = 2·radius (sigma ≈ 3.16 for block 11).
// OpenCV's ADAPTIVE_THRESH_GAUSSIAN_C uses the same window with
// sigma = 0.3·((block-1)/2 - 1) + 0.8 (2.0 for block 11), which puts much
// less weight on the outer pixels. The window reach is identical, so a
// dark region is foreground up to (block-1)/2 pixels in from its edge
// under both kernels; the flatter weights here make that band respond to
// lower contrast. The thresholds in config.Text were tuned against this
// kernel.
func AdaptiveThreshold(img image.Image, block, c int) *Mask {
	gray := Grayscale(img)
	b := gray.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	if block < 3 {
		block = 3
	}

	mean := blur.Gaussian(gray, float64(block-1)/2)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := int(gray.Pix[y*gray.Stride+x])
			t := int(mean.Pix[y*mean.Stride+x*4]) - c
			m.Pix[y*m.Width+x] = v <= t
		}
	}
	return m
}
