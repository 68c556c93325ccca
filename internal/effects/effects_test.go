package effects

import (
	"math"
	"testing"

	"github.com/lumafx/lumafx/internal/raster"
)

func redFrame(w, h int) *raster.Image {
	img := raster.New(w, h)
	for i := 0; i < len(img.Pix); i += raster.Channels {
		img.Pix[i] = 1
	}
	return img
}

func gradientFrame(w, h int) *raster.Image {
	img := raster.New(w, h)
	for i := range img.Pix {
		img.Pix[i] = float32(i%97) / 96
	}
	return img
}

func TestRegistryComplete(t *testing.T) {
	if got := len(Names()); got != 41 {
		t.Fatalf("registry holds %d effects, want 41", got)
	}
	for _, name := range []string{Desaturate, Glitch, RadialBlur, Duotone} {
		if _, ok := Lookup(name); !ok {
			t.Fatalf("Lookup(%q) missing", name)
		}
	}
}

func TestDesaturateRedFrame(t *testing.T) {
	out := Apply(redFrame(2, 2), Desaturate, Params{"amount": 1}, 1)
	for i, v := range out.Pix {
		if math.Abs(float64(v)-0.299) > 1e-6 {
			t.Fatalf("sample %d = %v, want 0.299", i, v)
		}
	}
}

func TestApplyZeroOpacityIsIdentity(t *testing.T) {
	for _, name := range []string{Desaturate, Invert, Posterize, Emboss, Glitch} {
		t.Run(name, func(t *testing.T) {
			in := gradientFrame(6, 6)
			out := Apply(in, name, Params{}, 0)
			for i := range in.Pix {
				if out.Pix[i] != in.Pix[i] {
					t.Fatalf("sample %d changed at opacity zero: %v -> %v", i, in.Pix[i], out.Pix[i])
				}
			}
		})
	}
}

func TestApplyClampsOpacity(t *testing.T) {
	in := redFrame(2, 2)
	full := Apply(in, Invert, Params{"amount": 1}, 1)
	over := Apply(in, Invert, Params{"amount": 1}, 3.5)
	for i := range full.Pix {
		if full.Pix[i] != over.Pix[i] {
			t.Fatalf("opacity above 1 not clamped at sample %d", i)
		}
	}
}

func TestApplyUnknownNameIsPassThrough(t *testing.T) {
	in := gradientFrame(3, 3)
	out := Apply(in, "solarize", Params{}, 1)
	if out != in {
		t.Fatalf("unknown effect should return the input image unchanged")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := redFrame(2, 2)
	Apply(in, Invert, Params{"amount": 1}, 1)
	if in.Pix[0] != 1 {
		t.Fatalf("Apply mutated its input")
	}
}

func TestInvertFullAmount(t *testing.T) {
	out := Apply(redFrame(1, 1), Invert, Params{"amount": 1}, 1)
	want := []float32{0, 1, 1}
	for c, v := range want {
		if out.Pix[c] != v {
			t.Fatalf("channel %d = %v, want %v", c, out.Pix[c], v)
		}
	}
}

func TestPosterizeTwoLevels(t *testing.T) {
	out := Apply(gradientFrame(8, 8), Posterize, Params{"levels": 2}, 1)
	for i, v := range out.Pix {
		if v != 0 && v != 1 {
			t.Fatalf("sample %d = %v, want 0 or 1 at two levels", i, v)
		}
	}
}

func TestThresholdBinarizes(t *testing.T) {
	img := raster.New(2, 1)
	img.Pix[0], img.Pix[1], img.Pix[2] = 1, 1, 1
	out := Apply(img, Threshold, Params{"threshold": 0.5}, 1)
	for c := 0; c < raster.Channels; c++ {
		if out.Pix[c] != 1 {
			t.Fatalf("bright pixel channel %d = %v, want 1", c, out.Pix[c])
		}
		if out.Pix[raster.Channels+c] != 0 {
			t.Fatalf("dark pixel channel %d = %v, want 0", c, out.Pix[raster.Channels+c])
		}
	}
}

func TestBrightnessClamps(t *testing.T) {
	out := Apply(redFrame(1, 1), Brightness, Params{"amount": 0.5}, 1)
	if out.Pix[0] != 1 {
		t.Fatalf("red channel = %v, want clamped to 1", out.Pix[0])
	}
	if math.Abs(float64(out.Pix[1])-0.5) > 1e-6 {
		t.Fatalf("green channel = %v, want 0.5", out.Pix[1])
	}
}

func TestGrainDeterministicPerSeed(t *testing.T) {
	in := gradientFrame(8, 8)
	a := Apply(in, Grain, Params{"amount": 0.2, "seed": 7}, 1)
	b := Apply(in, Grain, Params{"amount": 0.2, "seed": 7}, 1)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}
	c := Apply(in, Grain, Params{"amount": 0.2, "seed": 8}, 1)
	same := true
	for i := range a.Pix {
		if a.Pix[i] != c.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical grain")
	}
}

func TestGlitchDeterministicPerSeed(t *testing.T) {
	in := gradientFrame(64, 40)
	a := Apply(in, Glitch, Params{"amount": 0.8, "seed": 3}, 1)
	b := Apply(in, Glitch, Params{"amount": 0.8, "seed": 3}, 1)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}
}

func TestGlitchShiftsOnlyRedAndBlue(t *testing.T) {
	in := gradientFrame(64, 40)
	out := Apply(in, Glitch, Params{"amount": 0.8, "seed": 3}, 1)
	for i := 1; i < len(in.Pix); i += raster.Channels {
		if out.Pix[i] != in.Pix[i] {
			t.Fatalf("green channel changed at sample %d", i)
		}
	}
}

func TestGLSLRandomRange(t *testing.T) {
	for band := float32(0); band < glitchBands; band++ {
		for _, seed := range []float32{0, 0.5, 12.75} {
			v := glslRandom(band, seed)
			if v < 0 || v >= 1 {
				t.Fatalf("glslRandom(%v,%v) = %v, want [0,1)", band, seed, v)
			}
		}
	}
}

func TestChromaticRollsAreCircular(t *testing.T) {
	in := gradientFrame(10, 2)
	out := Apply(in, Chromatic, Params{"amount": 3}, 1)
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			src := in.Pix[in.Offset((x-3+10)%10, y)]
			if out.Pix[out.Offset(x, y)] != src {
				t.Fatalf("red roll wrong at (%d,%d)", x, y)
			}
		}
	}
}

func TestSepiaFullConversion(t *testing.T) {
	out := Apply(redFrame(1, 1), Sepia, Params{"amount": 1}, 1)
	want := []float32{0.393, 0.349, 0.272}
	for c, v := range want {
		if math.Abs(float64(out.Pix[c]-v)) > 1e-5 {
			t.Fatalf("channel %d = %v, want %v", c, out.Pix[c], v)
		}
	}
}

func TestParamsGetDefault(t *testing.T) {
	p := Params{"amount": 0.25}
	if got := p.Get("amount", 1); got != 0.25 {
		t.Fatalf("Get(amount) = %v, want 0.25", got)
	}
	if got := p.Get("missing", 0.75); got != 0.75 {
		t.Fatalf("Get(missing) = %v, want the default", got)
	}
	var empty Params
	if got := empty.Get("amount", 0.5); got != 0.5 {
		t.Fatalf("Get on a nil map = %v, want the default", got)
	}
}
