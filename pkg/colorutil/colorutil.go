// Package colorutil provides shared color parsing and formatting helpers.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Named colors accepted in settings files alongside hex values.
var names = map[string]color.NRGBA{
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"cyan":    {R: 0, G: 255, B: 255, A: 255},
	"magenta": {R: 255, G: 0, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
}

// Parse resolves a color string into an alpha-capable color value.
// Accepted forms: "#RGB", "#RRGGBB", "#RRGGBBAA", "r,g,b" and a small
// set of color names.
func Parse(s string) (color.NRGBA, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return color.NRGBA{}, fmt.Errorf("color must not be empty")
	}

	if strings.HasPrefix(str, "#") {
		return parseHex(str)
	}
	if strings.Contains(str, ",") {
		return parseTriplet(str)
	}
	if c, ok := names[strings.ToLower(str)]; ok {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color: %q", s)
}

// Hex serializes a color back to the "#RRGGBB" form used in settings files.
// Alpha is carried separately as an opacity percentage, so it is dropped here.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// WithAlphaPercent scales the color's alpha channel by an integer percentage
// in [0, 100]. Values outside the range are clamped.
func WithAlphaPercent(c color.NRGBA, pct int) color.NRGBA {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	c.A = uint8(math.Round(float64(c.A) * float64(pct) / 100.0))
	return c
}

func parseHex(s string) (color.NRGBA, error) {
	str := strings.TrimPrefix(s, "#")
	switch len(str) {
	case 3:
		str = fmt.Sprintf("%c%c%c%c%c%c", str[0], str[0], str[1], str[1], str[2], str[2])
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}

	var r, g, b, a uint8
	if _, err := fmt.Sscanf(str[:6], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
	}
	a = 255
	if len(str) == 8 {
		if _, err := fmt.Sscanf(str[6:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color format: %q", s)
		}
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

func parseTriplet(s string) (color.NRGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("expected r,g,b form, got %q", s)
	}
	vals := make([]uint8, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid color channel: %q", p)
		}
		vals[i] = uint8(v)
	}
	c := color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: 255}
	if len(vals) == 4 {
		c.A = vals[3]
	}
	return c, nil
}
