package effects

import (
	"math"

	"github.com/lumafx/lumafx/internal/raster"
)

// Each tone-zone effect builds a luminance-derived mask (a clipped linear
// ramp over a luminance sub-range) and adds amount*mask to every channel.

func highlights(img, _ *raster.Image, p Params, _ float64) bool {
	zoneAdjust(img, float32(p.Get("amount", 0.0)), func(lum float32) float32 {
		return clamp01((lum - 0.5) * 2)
	})
	return false
}

func shadows(img, _ *raster.Image, p Params, _ float64) bool {
	zoneAdjust(img, float32(p.Get("amount", 0.0)), func(lum float32) float32 {
		return clamp01(1 - lum*2)
	})
	return false
}

func whites(img, _ *raster.Image, p Params, _ float64) bool {
	zoneAdjust(img, float32(p.Get("amount", 0.0)), func(lum float32) float32 {
		return clamp01((lum - 0.7) / 0.3)
	})
	return false
}

func blacks(img, _ *raster.Image, p Params, _ float64) bool {
	zoneAdjust(img, float32(p.Get("amount", 0.0)), func(lum float32) float32 {
		return clamp01(1 - lum/0.3)
	})
	return false
}

func zoneAdjust(img *raster.Image, amount float32, mask func(lum float32) float32) {
	for i := 0; i < len(img.Pix); i += raster.Channels {
		lum := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		add := amount * mask(lum)
		img.Pix[i] = clamp01(img.Pix[i] + add)
		img.Pix[i+1] = clamp01(img.Pix[i+1] + add)
		img.Pix[i+2] = clamp01(img.Pix[i+2] + add)
	}
}

func levels(img, _ *raster.Image, p Params, _ float64) bool {
	black := float32(p.Get("blackPoint", 0.0))
	white := float32(p.Get("whitePoint", 1.0))
	rng := white - black
	if rng < 0.001 {
		rng = 0.001
	}
	g := 1.0 / math.Max(p.Get("midtones", 1.0), 0.01)
	for i, v := range img.Pix {
		v = clamp01((v - black) / rng)
		img.Pix[i] = float32(math.Pow(float64(v), g))
	}
	return false
}

func curves(img, _ *raster.Image, p Params, _ float64) bool {
	sh := float32(p.Get("shadows", 0.0))
	mid := float32(p.Get("midtones", 0.0))
	hi := float32(p.Get("highlights", 0.0))
	for i, c := range img.Pix {
		c += sh * (1 - c) * (1 - c) * c
		c += mid * c * (1 - c)
		c += hi * c * c * (1 - c)
		img.Pix[i] = clamp01(c)
	}
	return false
}
