// Package stack applies an ordered list of effect layers to an image and
// hosts the final mask blend between original and filtered output.
package stack

import (
	"encoding/json"

	"github.com/lumafx/lumafx/internal/effects"
	"github.com/lumafx/lumafx/internal/raster"
)

// Layer is one entry in the ordered effect stack. Order is the application
// order and is load-bearing.
type Layer struct {
	Effect  string         `json:"effect"`
	Params  effects.Params `json:"params"`
	Opacity float64        `json:"opacity"`
	Enabled bool           `json:"enabled"`
}

// UnmarshalJSON decodes a layer with frontend-friendly defaults: a missing
// opacity means fully opaque and a missing enabled flag means enabled.
func (l *Layer) UnmarshalJSON(data []byte) error {
	type layerJSON struct {
		Effect  string         `json:"effect"`
		Params  effects.Params `json:"params"`
		Opacity *float64       `json:"opacity"`
		Enabled *bool          `json:"enabled"`
	}
	var raw layerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Effect = raw.Effect
	l.Params = raw.Params
	l.Opacity = 1
	if raw.Opacity != nil {
		l.Opacity = *raw.Opacity
	}
	l.Enabled = true
	if raw.Enabled != nil {
		l.Enabled = *raw.Enabled
	}
	return nil
}

// AnyEnabled reports whether at least one layer would be applied.
func AnyEnabled(layers []Layer) bool {
	for _, l := range layers {
		if l.Enabled {
			return true
		}
	}
	return false
}

// Apply folds the layer list over img in order. Disabled layers are skipped
// and unknown effect names are an identity no-op. The "original" each effect
// sees is the image as it existed before that single layer, so original-
// referencing effects do not compound drift across the stack. img is not
// modified.
func Apply(img *raster.Image, layers []Layer) *raster.Image {
	result := img.Clone()
	for _, l := range layers {
		if !l.Enabled {
			continue
		}
		result = effects.Apply(result, l.Effect, l.Params, l.Opacity)
	}
	return result
}

// ApplyMask spatially blends original and filtered using a per-pixel weight
// map: original*(1-mask) + filtered*mask. A nil mask passes filtered through
// unchanged. The mask is bilinearly resized to the output dimensions.
func ApplyMask(original, filtered *raster.Image, mask *raster.Mask) *raster.Image {
	if mask == nil {
		return filtered
	}
	m := mask.Fit(filtered.W, filtered.H)
	out := raster.New(filtered.W, filtered.H)
	for i, w := range m.Pix {
		o := i * raster.Channels
		for c := 0; c < raster.Channels; c++ {
			out.Pix[o+c] = original.Pix[o+c]*(1-w) + filtered.Pix[o+c]*w
		}
	}
	return out
}
