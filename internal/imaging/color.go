package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor converts a script-supplied color string into a color.Color.
//
// Accepted forms:
//   - "#RGB" and "#RRGGBB": opaque colors
//   - "#AARRGGBB": alpha first, matching the host application's color strings
//   - SVG color names such as "red" or "cornflowerblue" (case-insensitive)
//   - "transparent": fully transparent black
//
// Empty strings and unknown names are errors. The returned color is always a
// color.NRGBA so callers can compare results directly.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty color string")
	}

	if s[0] != '#' {
		name := strings.ToLower(s)
		if name == "transparent" {
			return color.NRGBA{}, nil
		}
		if c, ok := colornames.Map[name]; ok {
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return nil, fmt.Errorf("unknown color name %q", s)
	}

	switch len(s) {
	case 4, 7:
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	case 9:
		val, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return color.NRGBA{
			A: uint8(val >> 24),
			R: uint8(val >> 16),
			G: uint8(val >> 8),
			B: uint8(val),
		}, nil
	default:
		return nil, fmt.Errorf("invalid hex color length %q", s)
	}
}

// ParsePalette parses every entry with ParseColor, keeping order.
func ParsePalette(entries []string) ([]color.Color, error) {
	palette := make([]color.Color, 0, len(entries))
	for i, e := range entries {
		c, err := ParseColor(e)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		palette = append(palette, c)
	}
	return palette, nil
}

// FormatColor renders c as "#rrggbb" when opaque and "#aarrggbb" otherwise,
// so that FormatColor output is always accepted by ParseColor.
func FormatColor(c color.Color) string {
	if c == nil {
		return ""
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", n.A, n.R, n.G, n.B)
	}
	cf, _ := colorful.MakeColor(n)
	return cf.Hex()
}
