package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}},
		{"#00ff80", color.NRGBA{0, 255, 128, 255}},
		{"#f0a", color.NRGBA{255, 0, 170, 255}},
		{"#80112233", color.NRGBA{0x11, 0x22, 0x33, 0x80}},
		{"#00000000", color.NRGBA{}},
		{"red", color.NRGBA{255, 0, 0, 255}},
		{"CornflowerBlue", color.NRGBA{100, 149, 237, 255}},
		{"transparent", color.NRGBA{}},
		{"  white  ", color.NRGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#1234567", "#GGGGGG", "#ff0000zz", "notacolor"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) should fail", in)
		}
	}
}

func TestParsePalette(t *testing.T) {
	palette, err := ParsePalette([]string{"#000000", "white"})
	if err != nil {
		t.Fatalf("ParsePalette failed: %v", err)
	}
	if len(palette) != 2 {
		t.Fatalf("length: got %d, want 2", len(palette))
	}

	if _, err := ParsePalette([]string{"#000000", "bogus"}); err == nil {
		t.Error("ParsePalette should fail on an invalid entry")
	}
}

func TestFormatColor(t *testing.T) {
	tests := []struct {
		in   color.Color
		want string
	}{
		{color.NRGBA{255, 0, 0, 255}, "#ff0000"},
		{color.White, "#ffffff"},
		{color.NRGBA{0x11, 0x22, 0x33, 0x80}, "#80112233"},
		{color.NRGBA{}, "#00000000"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := FormatColor(tt.in); got != tt.want {
			t.Errorf("FormatColor(%v): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatColor_RoundTrip(t *testing.T) {
	for _, s := range []string{"#123456", "#40abcdef", "#00000000"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q) failed: %v", s, err)
		}
		if got := FormatColor(c); got != s {
			t.Errorf("round trip %q: got %q", s, got)
		}
	}
}

func TestBase64_RoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{10, 20, 30, 255})

	encoded, err := EncodePNGBase64(src)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	for _, payload := range []string{encoded, "data:image/png;base64," + encoded} {
		img, err := DecodeBase64(payload)
		if err != nil {
			t.Fatalf("DecodeBase64 failed: %v", err)
		}
		if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
			t.Errorf("size: got %v, want 3x2", img.Bounds())
		}
		if got := color.NRGBAModel.Convert(img.At(2, 1)); got != (color.NRGBA{10, 20, 30, 255}) {
			t.Errorf("pixel: got %v", got)
		}
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	if _, err := DecodeBase64("!!!"); err == nil {
		t.Error("DecodeBase64 should fail on invalid base64")
	}
	if _, err := DecodeBase64("bm90IGFuIGltYWdl"); err == nil {
		t.Error("DecodeBase64 should fail on non-image data")
	}
}
