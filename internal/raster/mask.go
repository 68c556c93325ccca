package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// Mask is a per-pixel weight map in [0, 1] used for the final spatial blend
// between the original and filtered image.
type Mask struct {
	W, H int
	Pix  []float32 // len == W*H
}

// NewMask returns a zeroed mask of the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]float32, w*h)}
}

// Fit returns the mask resized (bilinear) to w x h. A mask already at the
// target size is returned as is.
func (k *Mask) Fit(w, h int) *Mask {
	if k.W == w && k.H == h {
		return k
	}
	gray := image.NewGray16(image.Rect(0, 0, k.W, k.H))
	for y := 0; y < k.H; y++ {
		for x := 0; x < k.W; x++ {
			v := k.Pix[y*k.W+x]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			u := uint16(v*65535 + 0.5)
			o := y*gray.Stride + x*2
			gray.Pix[o] = uint8(u >> 8)
			gray.Pix[o+1] = uint8(u)
		}
	}
	scaled := imaging.Resize(gray, w, h, imaging.Linear)
	out := NewMask(w, h)
	for y := 0; y < h; y++ {
		row := scaled.Pix[y*scaled.Stride:]
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = float32(row[x*4]) / 255
		}
	}
	return out
}
