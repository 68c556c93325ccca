package effects

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/lumafx/lumafx/internal/raster"
)

func pixelate(img, _ *raster.Image, p Params, _ float64) bool {
	size := int(p.Get("size", 8))
	if size < 1 {
		size = 1
	}
	sw, sh := img.W/size, img.H/size
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	small := imaging.Resize(img.ToNRGBA(), sw, sh, imaging.NearestNeighbor)
	copy(img.Pix, raster.FromNRGBA(imaging.Resize(small, img.W, img.H, imaging.NearestNeighbor)).Pix)
	return false
}

func chromatic(img, orig *raster.Image, p Params, _ float64) bool {
	amount := int(p.Get("amount", 2))
	if amount <= 0 {
		return false
	}
	for y := 0; y < img.H; y++ {
		rollChannel(img, orig, y, 0, amount)
		rollChannel(img, orig, y, 2, -amount)
	}
	return false
}

// rollChannel circularly shifts one channel of scanline y by shift pixels,
// reading from src and writing into dst.
func rollChannel(dst, src *raster.Image, y, ch, shift int) {
	w := dst.W
	shift %= w
	if shift < 0 {
		shift += w
	}
	row := make([]float32, w)
	for x := 0; x < w; x++ {
		row[(x+shift)%w] = src.Pix[src.Offset(x, y)+ch]
	}
	for x := 0; x < w; x++ {
		dst.Pix[dst.Offset(x, y)+ch] = row[x]
	}
}

// glslRandom reproduces the renderer's hash in single precision:
// fract(sin(x*12.9898 + y*78.233) * 43758.5453123). The operation order is a
// pinned numeric contract; changing it breaks bit-parity with the renderer.
func glslRandom(x, y float32) float32 {
	d := x*12.9898 + y*78.233
	s := float32(math.Sin(float64(d))) * 43758.5453123
	return s - float32(math.Floor(float64(s)))
}

const glitchBands = 20

func glitch(img, orig *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.3))
	seed := float32(p.Get("seed", 0.0))
	for y := 0; y < img.H; y++ {
		band := float32(math.Floor(float64(float32(y) / float32(img.H) * glitchBands)))
		rnd := glslRandom(band, seed)
		shift := (rnd - 0.5) * amount * 0.1
		if rnd > 0.9 {
			shift *= 3
		}
		pixelShift := int(shift * float32(img.W)) // truncated toward zero
		if pixelShift == 0 {
			continue
		}
		rollChannel(img, orig, y, 0, pixelShift)
		rollChannel(img, orig, y, 2, -pixelShift)
	}
	return false
}

func halftone(img, _ *raster.Image, p Params, _ float64) bool {
	size := int(p.Get("size", 6))
	if size < 2 {
		size = 2
	}
	lum := raster.Luminance(img)
	dots := make([]float32, img.W*img.H)
	half := size / 2
	for by := 0; by < img.H; by += size {
		for bx := 0; bx < img.W; bx += size {
			bh := min(size, img.H-by)
			bw := min(size, img.W-bx)
			var sum float32
			for dy := 0; dy < bh; dy++ {
				for dx := 0; dx < bw; dx++ {
					sum += lum[(by+dy)*img.W+bx+dx]
				}
			}
			avg := sum / float32(bh*bw)
			radius := int((1 - avg) * float32(size) / 2)
			r2 := radius * radius
			for dy := 0; dy < bh; dy++ {
				for dx := 0; dx < bw; dx++ {
					if (dy-half)*(dy-half)+(dx-half)*(dx-half) <= r2 {
						dots[(by+dy)*img.W+bx+dx] = 1
					}
				}
			}
		}
	}
	for i, v := range dots {
		o := i * raster.Channels
		img.Pix[o], img.Pix[o+1], img.Pix[o+2] = v, v, v
	}
	return false
}
