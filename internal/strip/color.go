package strip

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Color is an 8-bit-per-channel RGB value.
type Color struct {
	R, G, B uint8
}

// namedColors matches the names a voice command or colour picker may send.
// Values follow the Android colour table, not SVG: green is full 0x00FF00
// and gray is 0x888888.
var namedColors = map[string]Color{
	"red":       {0xFF, 0x00, 0x00},
	"blue":      {0x00, 0x00, 0xFF},
	"green":     {0x00, 0xFF, 0x00},
	"black":     {0x00, 0x00, 0x00},
	"white":     {0xFF, 0xFF, 0xFF},
	"gray":      {0x88, 0x88, 0x88},
	"grey":      {0x88, 0x88, 0x88},
	"cyan":      {0x00, 0xFF, 0xFF},
	"magenta":   {0xFF, 0x00, 0xFF},
	"yellow":    {0xFF, 0xFF, 0x00},
	"lightgray": {0xCC, 0xCC, 0xCC},
	"lightgrey": {0xCC, 0xCC, 0xCC},
	"darkgray":  {0x44, 0x44, 0x44},
	"darkgrey":  {0x44, 0x44, 0x44},
	"aqua":      {0x00, 0xFF, 0xFF},
	"fuchsia":   {0xFF, 0x00, 0xFF},
	"lime":      {0x00, 0xFF, 0x00},
	"maroon":    {0x80, 0x00, 0x00},
	"navy":      {0x00, 0x00, 0x80},
	"olive":     {0x80, 0x80, 0x00},
	"purple":    {0x80, 0x00, 0x80},
	"silver":    {0xC0, 0xC0, 0xC0},
	"teal":      {0x00, 0x80, 0x80},
}

// ParseColor parses "#RRGGBB", "#AARRGGBB" (alpha ignored) or a colour name.
// Input is trimmed and matched case-insensitively.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))

	if c, ok := namedColors[v]; ok {
		return c, nil
	}

	if !strings.HasPrefix(v, "#") {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	raw, err := hex.DecodeString(v[1:])
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	switch len(raw) {
	case 3:
		return Color{R: raw[0], G: raw[1], B: raw[2]}, nil
	case 4:
		return Color{R: raw[1], G: raw[2], B: raw[3]}, nil
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
}

// String returns the colour as "#RRGGBB".
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Scale returns c with every channel multiplied by brightness/255.
func (c Color) Scale(brightness uint8) Color {
	if brightness == 0xFF {
		return c
	}
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(brightness) / 0xFF)
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}
