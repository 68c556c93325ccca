// Package effects implements the fixed registry of per-pixel image effects.
// Every effect is a pure transform over the working raster; determinism is
// guaranteed given identical inputs (effects that take a seed parameter are
// deterministic given that seed).
package effects

import "github.com/lumafx/lumafx/internal/raster"

// Effect names. The registry is closed: these constants enumerate every
// effect the engine can apply.
const (
	Desaturate   = "desaturate"
	Brightness   = "brightness"
	Contrast     = "contrast"
	Exposure     = "exposure"
	Gamma        = "gamma"
	Vibrance     = "vibrance"
	Saturation   = "saturation"
	HueShift     = "hueShift"
	Temperature  = "temperature"
	Tint         = "tint"
	Colorize     = "colorize"
	ChannelMixer = "channelMixer"
	Highlights   = "highlights"
	Shadows      = "shadows"
	Whites       = "whites"
	Blacks       = "blacks"
	Levels       = "levels"
	Curves       = "curves"
	Blur         = "blur"
	Sharpen      = "sharpen"
	UnsharpMask  = "unsharpMask"
	Clarity      = "clarity"
	Dehaze       = "dehaze"
	Vignette     = "vignette"
	Grain        = "grain"
	Posterize    = "posterize"
	Threshold    = "threshold"
	Invert       = "invert"
	Sepia        = "sepia"
	Duotone      = "duotone"
	Emboss       = "emboss"
	EdgeDetect   = "edgeDetect"
	Sketch       = "sketch"
	OilPaint     = "oilPaint"
	Pixelate     = "pixelate"
	Chromatic    = "chromatic"
	Glitch       = "glitch"
	Halftone     = "halftone"
	LensDistort  = "lensDistort"
	TiltShift    = "tiltShift"
	RadialBlur   = "radialBlur"
)

// Func mutates img in place. orig is the image as it was before this layer
// and must not be modified. A true return means the effect already blended
// with orig at the given opacity, so the caller must not blend again.
type Func func(img, orig *raster.Image, p Params, opacity float64) (blended bool)

var registry = map[string]Func{
	Desaturate:   desaturate,
	Brightness:   brightness,
	Contrast:     contrast,
	Exposure:     exposure,
	Gamma:        gamma,
	Vibrance:     vibrance,
	Saturation:   saturation,
	HueShift:     hueShift,
	Temperature:  temperature,
	Tint:         tint,
	Colorize:     colorize,
	ChannelMixer: channelMixer,
	Highlights:   highlights,
	Shadows:      shadows,
	Whites:       whites,
	Blacks:       blacks,
	Levels:       levels,
	Curves:       curves,
	Blur:         blur,
	Sharpen:      sharpen,
	UnsharpMask:  unsharpMask,
	Clarity:      clarity,
	Dehaze:       dehaze,
	Vignette:     vignette,
	Grain:        grain,
	Posterize:    posterize,
	Threshold:    threshold,
	Invert:       invert,
	Sepia:        sepia,
	Duotone:      duotone,
	Emboss:       emboss,
	EdgeDetect:   edgeDetect,
	Sketch:       sketch,
	OilPaint:     oilPaint,
	Pixelate:     pixelate,
	Chromatic:    chromatic,
	Glitch:       glitch,
	Halftone:     halftone,
	LensDistort:  lensDistort,
	TiltShift:    tiltShift,
	RadialBlur:   radialBlur,
}

// Lookup returns the registered effect function for name.
func Lookup(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns every registered effect name. Order is unspecified.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}

// Apply runs a single named effect over img and returns the opacity-blended
// result. Unknown names are an identity pass-through. img is not modified.
func Apply(img *raster.Image, name string, p Params, opacity float64) *raster.Image {
	fn, ok := registry[name]
	if !ok {
		return img
	}
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	orig := img.Clone()
	work := img.Clone()
	if blended := fn(work, orig, p, opacity); !blended {
		work.Lerp(orig, work, float32(opacity))
	}
	work.Clamp01()
	return work
}
