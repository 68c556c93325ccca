package raster

// BT.601 luma weights, used by every filter that needs a gray reference.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luminance returns the BT.601 luma of every pixel as a W*H slice.
func Luminance(m *Image) []float32 {
	out := make([]float32, m.W*m.H)
	for i := range out {
		o := i * Channels
		out[i] = m.Pix[o]*LumaR + m.Pix[o+1]*LumaG + m.Pix[o+2]*LumaB
	}
	return out
}

// RGBToHSV converts a single pixel to HSV with hue normalized to [0, 1).
// The max-channel tie-break takes the first match in R, G, B order, so the
// inverse sector reconstruction reproduces the same rounding.
func RGBToHSV(r, g, b float32) (h, s, v float32) {
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	d := max - min
	if max > 0 {
		s = d / max
	}
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	if h >= 1 {
		h -= 1
	}
	return h, s, v
}

// HSVToRGB is the sector-based inverse of RGBToHSV. h outside [0, 1) wraps.
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	h -= float32(int(h))
	if h < 0 {
		h += 1
	}
	h *= 6
	sector := int(h)
	f := h - float32(sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch sector % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
