package effects

import (
	"github.com/disintegration/imaging"

	"github.com/lumafx/lumafx/internal/raster"
)

// gaussian runs the shared separable Gaussian blur primitive. The round trip
// through 8-bit matches the preview renderer's texture precision.
func gaussian(img *raster.Image, radius float64) *raster.Image {
	if radius <= 0 {
		return img.Clone()
	}
	return raster.FromNRGBA(imaging.Blur(img.ToNRGBA(), radius))
}

func blur(img, _ *raster.Image, p Params, _ float64) bool {
	amount := p.Get("amount", 5.0)
	if amount <= 0 {
		return false
	}
	copy(img.Pix, gaussian(img, amount).Pix)
	return false
}

func sharpen(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.5))
	if amount <= 0 {
		return false
	}
	blurred := gaussian(img, 1)
	for i := range img.Pix {
		img.Pix[i] += (img.Pix[i] - blurred.Pix[i]) * amount
	}
	img.Clamp01()
	return false
}

func unsharpMask(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 1.0))
	threshold := float32(p.Get("threshold", 0.1))
	if amount <= 0 {
		return false
	}
	blurred := gaussian(img, 2)
	for i := 0; i < len(img.Pix); i += raster.Channels {
		dr := img.Pix[i] - blurred.Pix[i]
		dg := img.Pix[i+1] - blurred.Pix[i+1]
		db := img.Pix[i+2] - blurred.Pix[i+2]
		// Gate by the summed high-pass magnitude.
		if abs32(dr)+abs32(dg)+abs32(db) <= threshold {
			continue
		}
		img.Pix[i] = clamp01(img.Pix[i] + dr*amount)
		img.Pix[i+1] = clamp01(img.Pix[i+1] + dg*amount)
		img.Pix[i+2] = clamp01(img.Pix[i+2] + db*amount)
	}
	return false
}

func clarity(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	if amount == 0 {
		return false
	}
	blurred := gaussian(img, 2)
	for i := 0; i < len(img.Pix); i += raster.Channels {
		lum := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		mid := 1 - abs32(lum-0.5)*2
		boost := amount * mid
		img.Pix[i] = clamp01(img.Pix[i] + (img.Pix[i]-blurred.Pix[i])*boost)
		img.Pix[i+1] = clamp01(img.Pix[i+1] + (img.Pix[i+1]-blurred.Pix[i+1])*boost)
		img.Pix[i+2] = clamp01(img.Pix[i+2] + (img.Pix[i+2]-blurred.Pix[i+2])*boost)
	}
	return false
}

func dehaze(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		gray := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		for c := 0; c < raster.Channels; c++ {
			v := (img.Pix[i+c]-0.5)*(1+amount*0.5) + 0.5
			img.Pix[i+c] = clamp01(gray + (v-gray)*(1+amount*0.3))
		}
	}
	return false
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
