package effects

import (
	"math"

	"github.com/lumafx/lumafx/internal/raster"
)

func desaturate(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 1.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		gray := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		img.Pix[i] = img.Pix[i]*(1-amount) + gray*amount
		img.Pix[i+1] = img.Pix[i+1]*(1-amount) + gray*amount
		img.Pix[i+2] = img.Pix[i+2]*(1-amount) + gray*amount
	}
	return false
}

func brightness(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := range img.Pix {
		img.Pix[i] += amount
	}
	img.Clamp01()
	return false
}

func contrast(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := range img.Pix {
		img.Pix[i] = (img.Pix[i]-0.5)*(1+amount) + 0.5
	}
	img.Clamp01()
	return false
}

func exposure(img, _ *raster.Image, p Params, _ float64) bool {
	scale := float32(math.Pow(2, p.Get("amount", 0.0)))
	for i := range img.Pix {
		img.Pix[i] *= scale
	}
	img.Clamp01()
	return false
}

func gamma(img, _ *raster.Image, p Params, _ float64) bool {
	g := 1.0 / math.Max(p.Get("amount", 1.0), 0.01)
	for i, v := range img.Pix {
		img.Pix[i] = float32(math.Pow(float64(v), g))
	}
	return false
}

func vibrance(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		maxC, minC := r, r
		if g > maxC {
			maxC = g
		}
		if b > maxC {
			maxC = b
		}
		if g < minC {
			minC = g
		}
		if b < minC {
			minC = b
		}
		// Boost falls off with existing saturation.
		amt := amount * (1 - (maxC - minC))
		gray := r*raster.LumaR + g*raster.LumaG + b*raster.LumaB
		img.Pix[i] = gray + (r-gray)*(1+amt)
		img.Pix[i+1] = gray + (g-gray)*(1+amt)
		img.Pix[i+2] = gray + (b-gray)*(1+amt)
	}
	img.Clamp01()
	return false
}

func saturation(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		gray := r*raster.LumaR + g*raster.LumaG + b*raster.LumaB
		img.Pix[i] = gray + (r-gray)*(1+amount)
		img.Pix[i+1] = gray + (g-gray)*(1+amount)
		img.Pix[i+2] = gray + (b-gray)*(1+amount)
	}
	img.Clamp01()
	return false
}
