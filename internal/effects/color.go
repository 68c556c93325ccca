package effects

import (
	"github.com/lumafx/lumafx/internal/raster"
)

func hueShift(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		h, s, v := raster.RGBToHSV(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		h += amount
		h -= float32(int(h))
		if h < 0 {
			h += 1
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = raster.HSVToRGB(h, s, v)
	}
	return false
}

func temperature(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		img.Pix[i] = clamp01(img.Pix[i] + amount*0.3)
		img.Pix[i+2] = clamp01(img.Pix[i+2] - amount*0.3)
	}
	return false
}

func tint(img, _ *raster.Image, p Params, _ float64) bool {
	amount := float32(p.Get("amount", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		img.Pix[i+1] = clamp01(img.Pix[i+1] + amount*0.3)
		img.Pix[i] = clamp01(img.Pix[i] - amount*0.15)
		img.Pix[i+2] = clamp01(img.Pix[i+2] - amount*0.15)
	}
	return false
}

func colorize(img, _ *raster.Image, p Params, _ float64) bool {
	hue := float32(p.Get("hue", 0.0))
	sat := float32(p.Get("saturation", 0.5))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		lum := img.Pix[i]*raster.LumaR + img.Pix[i+1]*raster.LumaG + img.Pix[i+2]*raster.LumaB
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = raster.HSVToRGB(hue, sat, lum)
	}
	return false
}

func channelMixer(img, _ *raster.Image, p Params, _ float64) bool {
	rs := float32(p.Get("redShift", 0.0))
	gs := float32(p.Get("greenShift", 0.0))
	bs := float32(p.Get("blueShift", 0.0))
	for i := 0; i < len(img.Pix); i += raster.Channels {
		img.Pix[i] = clamp01(img.Pix[i] + rs)
		img.Pix[i+1] = clamp01(img.Pix[i+1] + gs)
		img.Pix[i+2] = clamp01(img.Pix[i+2] + bs)
	}
	return false
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
