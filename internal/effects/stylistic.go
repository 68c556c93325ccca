package effects

import (
	"math"
	"math/rand"

	"github.com/lumafx/lumafx/internal/raster"
)

func vignette(img, _ *raster.Image, p Params, _ float64) bool {
	amount := p.Get("amount", 0.5)
	softness := p.Get("softness", 0.2)
	cx, cy := float64(img.W)/2, float64(img.H)/2
	for y := 0; y < img.H; y++ {
		dy := (float64(y) - cy) / cy
		for x := 0; x < img.W; x++ {
			dx := (float64(x) - cx) / cx
			dist := math.Sqrt(dx*dx + dy*dy)
			vig := 1 - clamp01(float32((dist-(1-softness))/softness*amount))
			o := img.Offset(x, y)
			img.Pix[o] *= vig
			img.Pix[o+1] *= vig
			img.Pix[o+2] *= vig
		}
	}
	return false
}

func grain(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.1))
	// Deterministic given the seed parameter.
	rng := rand.New(rand.NewSource(int64(math.Float64bits(p.Get("seed", 0.0)))))
	for i := range img.Pix {
		img.Pix[i] = clamp01(img.Pix[i] + (rng.Float32()*2-1)*amount)
	}
	return false
}

func posterize(img, _ *raster.Image, p Params, _ float64) bool {
	levels := int(p.Get("levels", 8))
	if levels < 2 {
		levels = 2
	}
	div := float32(levels - 1)
	for i, v := range img.Pix {
		img.Pix[i] = clamp01(float32(math.Floor(float64(v)*float64(levels))) / div)
	}
	return false
}

func threshold(img, _ *raster.Image, p Params, _ float64) bool {
	thresh := float32(p.Get("threshold", 0.5))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		gray := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		var bin float32
		if gray > thresh {
			bin = 1
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = bin, bin, bin
	}
	return false
}

func invert(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 1.0))
	for i, v := range img.Pix {
		img.Pix[i] = v*(1-amount) + (1-v)*amount
	}
	return false
}

func sepia(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 1.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		sr := clamp01(r*0.393 + g*0.769 + b*0.189)
		sg := clamp01(r*0.349 + g*0.686 + b*0.168)
		sb := clamp01(r*0.272 + g*0.534 + b*0.131)
		img.Pix[i] = r*(1-amount) + sr*amount
		img.Pix[i+1] = g*(1-amount) + sg*amount
		img.Pix[i+2] = b*(1-amount) + sb*amount
	}
	return false
}

func duotone(img, _ *raster.Image, p Params, _ float64) bool {
	shadow := [3]float32{
		float32(p.Get("shadowR", 0.1)),
		float32(p.Get("shadowG", 0.0)),
		float32(p.Get("shadowB", 0.2)),
	}
	highlight := [3]float32{
		float32(p.Get("highlightR", 1.0)),
		float32(p.Get("highlightG", 0.9)),
		float32(p.Get("highlightB", 0.6)),
	}
	for i := 0; i < len(img.Pix); i += raster.Channels {
		gray := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		for c := 0; c < raster.Channels; c++ {
			img.Pix[i+c] = shadow[c] + (highlight[c]-shadow[c])*gray
		}
	}
	return false
}
