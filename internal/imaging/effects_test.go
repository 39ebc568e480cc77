package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseEffect(t *testing.T) {
	tests := []struct {
		name    string
		want    Effect
		wantErr bool
	}{
		{"", EffectNone, false},
		{"none", EffectNone, false},
		{"Negative", EffectNegative, false},
		{" edges ", EffectEdges, false},
		{"sepia", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEffect(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEffect(%q) error: got %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEffect(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEffectNames(t *testing.T) {
	names := EffectNames()
	if len(names) != 11 {
		t.Errorf("got %d effects, want 11: %v", len(names), names)
	}
	for _, n := range names {
		if _, err := ParseEffect(n); err != nil {
			t.Errorf("listed effect %q does not parse: %v", n, err)
		}
	}
}

func TestApplyEffect_PreservesSize(t *testing.T) {
	img := createEdgeTestImage(40, 30)

	for _, n := range EffectNames() {
		t.Run(n, func(t *testing.T) {
			out := ApplyEffect(img, Effect(n))
			if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 30 {
				t.Errorf("size: got %v, want 40x30", out.Bounds())
			}
		})
	}
}

func TestApplyEffect_Negative(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{10, 20, 30, 255})

	out := ApplyEffect(img, EffectNegative)
	r, g, b, _ := out.At(0, 0).RGBA()
	if uint8(r>>8) != 245 || uint8(g>>8) != 235 || uint8(b>>8) != 225 {
		t.Errorf("inverted pixel: got (%d,%d,%d), want (245,235,225)", r>>8, g>>8, b>>8)
	}
}

func TestApplyEffect_MaskEffectsAreBinary(t *testing.T) {
	img := createEdgeTestImage(40, 40)

	for _, e := range []Effect{EffectOtsu, EffectEdges, EffectErode, EffectDilate, EffectOpen, EffectClose} {
		out, ok := ApplyEffect(img, e).(*image.Gray)
		if !ok {
			t.Errorf("%s: result is not single-channel", e)
			continue
		}
		for _, v := range out.Pix {
			if v != 0 && v != 255 {
				t.Errorf("%s: found level %d", e, v)
				break
			}
		}
	}
}

func TestApplyEffect_NoneReturnsInput(t *testing.T) {
	img := createInMemoryImage(3, 3, color.RGBA{1, 2, 3, 255})
	if out := ApplyEffect(img, EffectNone); out != image.Image(img) {
		t.Error("EffectNone should return the input image")
	}
}
