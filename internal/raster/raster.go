// Package raster holds the working pixel representation shared by the filter
// registry, the layer compositor and the rendezvous engine: a dense RGB
// raster with normalized float32 channels, operated on as a flat slice.
package raster

import (
	"errors"
	"fmt"
	"image"
)

// Channels is the number of color channels per pixel. Alpha is not part of
// the working format; delivered frames are flattened to RGB on decode.
const Channels = 3

// Image is a dense height x width x 3 raster with channel values in [0, 1].
type Image struct {
	W, H int
	Pix  []float32 // interleaved RGB, len == W*H*3
}

// New returns a zeroed image of the given dimensions.
func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float32, w*h*Channels)}
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	out := &Image{W: m.W, H: m.H, Pix: make([]float32, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Offset returns the index of the red channel of pixel (x, y).
func (m *Image) Offset(x, y int) int {
	return (y*m.W + x) * Channels
}

// Clamp01 clips every channel into [0, 1] in place.
func (m *Image) Clamp01() {
	for i, v := range m.Pix {
		if v < 0 {
			m.Pix[i] = 0
		} else if v > 1 {
			m.Pix[i] = 1
		}
	}
}

// Lerp blends src toward dst in place: m = src*(1-t) + dst*t.
// src, dst and m must share dimensions; m may alias either argument.
func (m *Image) Lerp(src, dst *Image, t float32) {
	for i := range m.Pix {
		m.Pix[i] = src.Pix[i]*(1-t) + dst.Pix[i]*t
	}
}

// FromNRGBA converts an 8-bit NRGBA image into the normalized working format,
// dropping alpha.
func FromNRGBA(src *image.NRGBA) *Image {
	b := src.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < out.H; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < out.W; x++ {
			o := out.Offset(x, y)
			s := x * 4
			out.Pix[o] = float32(row[s]) / 255
			out.Pix[o+1] = float32(row[s+1]) / 255
			out.Pix[o+2] = float32(row[s+2]) / 255
		}
	}
	return out
}

// ToNRGBA converts the working format into an 8-bit NRGBA image with opaque
// alpha. Values are clamped; quantization is round-to-nearest.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		row := out.Pix[y*out.Stride:]
		for x := 0; x < m.W; x++ {
			o := m.Offset(x, y)
			d := x * 4
			row[d] = quantize(m.Pix[o])
			row[d+1] = quantize(m.Pix[o+1])
			row[d+2] = quantize(m.Pix[o+2])
			row[d+3] = 0xff
		}
	}
	return out
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ValidateBatch checks the entry-boundary contract: a non-empty batch of
// non-nil images sharing dimensions. This is the only condition the engine
// treats as fatal.
func ValidateBatch(batch []*Image) error {
	if len(batch) == 0 {
		return errors.New("raster: empty batch")
	}
	w, h := batch[0].W, batch[0].H
	for i, img := range batch {
		if img == nil || img.W <= 0 || img.H <= 0 {
			return fmt.Errorf("raster: frame %d is invalid", i)
		}
		if len(img.Pix) != img.W*img.H*Channels {
			return fmt.Errorf("raster: frame %d has %d samples, want %d", i, len(img.Pix), img.W*img.H*Channels)
		}
		if img.W != w || img.H != h {
			return fmt.Errorf("raster: frame %d is %dx%d, batch is %dx%d", i, img.W, img.H, w, h)
		}
	}
	return nil
}
