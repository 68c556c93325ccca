package effects

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/lumafx/lumafx/internal/raster"
)

// Convolution kernels for the edge/emboss primitives: a directional relief
// kernel biased to mid-gray and a Laplacian edge detector.
var (
	embossKernel = [9]float64{
		-1, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}
	edgeKernel = [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
)

func convolve(img *raster.Image, kernel [9]float64, opts *imaging.ConvolveOptions) *raster.Image {
	return raster.FromNRGBA(imaging.Convolve3x3(img.ToNRGBA(), kernel, opts))
}

func emboss(img, orig *raster.Image, p Params, opacity float64) bool {
	relief := convolve(img, embossKernel, &imaging.ConvolveOptions{Bias: 128})
	img.Lerp(orig, relief, float32(opacity))
	return true
}

func edgeDetect(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 1.0))
	edges := convolve(img, edgeKernel, nil)
	for i, v := range edges.Pix {
		img.Pix[i] = clamp01(v * amount)
	}
	return false
}

func sketch(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 4.0))
	edges := convolve(img, edgeKernel, nil)
	for i := 0; i < len(img.Pix); i += raster.Channels {
		gray := edges.Pix[i]*raster.LumaR + edges.Pix[i+1]*raster.LumaG + edges.Pix[i+2]*raster.LumaB
		v := 1 - clamp01(gray*amount)
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = v, v, v
	}
	return false
}

func oilPaint(img, _ *raster.Image, p Params, _ float64) bool {
	levels := int(p.Get("levels", 12))
	radius := p.Get("radius", 2.0)
	blurred := gaussian(img, radius)
	div := float32(levels - 1)
	if div < 1 {
		div = 1
	}
	for i, v := range blurred.Pix {
		img.Pix[i] = clamp01(float32(math.Floor(float64(v)*float64(levels))) / div)
	}
	return false
}
