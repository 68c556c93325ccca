package effects

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/lumafx/lumafx/internal/raster"
)

func lensDistort(img, _ *raster.Image, p Params, _ float64) bool {
	amount := p.Get("amount", 0.0)
	if math.Abs(amount) <= 0.001 {
		return false
	}
	src := img.Clone()
	cx, cy := float64(img.W)/2, float64(img.H)/2
	for y := 0; y < img.H; y++ {
		dy := (float64(y) - cy) / cy
		for x := 0; x < img.W; x++ {
			dx := (float64(x) - cx) / cx
			dist2 := dx*dx + dy*dy
			// Barrel for positive amounts, pincushion for negative.
			distortion := 1 + dist2*amount
			sx := clampInt(int(cx+dx*distortion*cx), 0, img.W-1)
			sy := clampInt(int(cy+dy*distortion*cy), 0, img.H-1)
			so := src.Offset(sx, sy)
			do := img.Offset(x, y)
			img.Pix[do] = src.Pix[so]
			img.Pix[do+1] = src.Pix[so+1]
			img.Pix[do+2] = src.Pix[so+2]
		}
	}
	return false
}

func tiltShift(img, _ *raster.Image, p Params, _ float64) bool {
	focus := p.Get("focus", 0.5)
	rangeVal := p.Get("range", 0.2)
	blurAmount := p.Get("blur", 8)
	blurred := gaussian(img, blurAmount)
	for y := 0; y < img.H; y++ {
		var pos float64
		if img.H > 1 {
			pos = float64(y) / float64(img.H-1)
		}
		t := clamp01(float32((math.Abs(pos-focus) - rangeVal*0.5) / rangeVal))
		o := img.Offset(0, y)
		end := o + img.W*raster.Channels
		for i := o; i < end; i++ {
			img.Pix[i] = img.Pix[i]*(1-t) + blurred.Pix[i]*t
		}
	}
	return false
}

func radialBlur(img, _ *raster.Image, p Params, _ float64) bool {
	amount := p.Get("amount", 0.3)
	if amount <= 0 {
		return false
	}
	const samples = 10
	src := img.ToNRGBA()
	acc := make([]float32, len(img.Pix))
	for i := 0; i < samples; i++ {
		scale := 1.0 - amount*0.02*float64(i)
		sw := int(float64(img.W) * scale)
		sh := int(float64(img.H) * scale)
		if sw <= 0 || sh <= 0 {
			continue
		}
		scaled := raster.FromNRGBA(imaging.Resize(src, sw, sh, imaging.Linear))
		ox := (img.W - sw) / 2
		oy := (img.H - sh) / 2
		for y := 0; y < sh; y++ {
			so := scaled.Offset(0, y)
			do := img.Offset(ox, oy+y)
			for k := 0; k < sw*raster.Channels; k++ {
				acc[do+k] += scaled.Pix[so+k]
			}
		}
	}
	for i := range img.Pix {
		img.Pix[i] = acc[i] / samples
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
