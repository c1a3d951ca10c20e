// internal/style/color.go
package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color is a resolved RGBA color value.
type Color struct {
	R, G, B, A uint8
}

// Hex renders the color as the RRGGBB string the output contract uses.
// Alpha is not representable there and is handled by the callers
// (a fully transparent color is treated as "no color").
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Transparent reports whether the color paints nothing.
func (c Color) Transparent() bool { return c.A == 0 }

// cssColors covers the keywords that actually show up in resolved computed
// values plus the handful authors commonly write in fixtures. Browsers
// resolve most keywords to rgb() form before we ever see them.
var cssColors = map[string]Color{
	"black":       {0, 0, 0, 255},
	"silver":      {192, 192, 192, 255},
	"gray":        {128, 128, 128, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"maroon":      {128, 0, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"olive":       {128, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"green":       {0, 128, 0, 255},
	"aqua":        {0, 255, 255, 255},
	"teal":        {0, 128, 128, 255},
	"blue":        {0, 0, 255, 255},
	"navy":        {0, 0, 128, 255},
	"fuchsia":     {255, 0, 255, 255},
	"purple":      {128, 0, 128, 255},
	"orange":      {255, 165, 0, 255},
	"transparent": {0, 0, 0, 0},
}

var rgbRegex = regexp.MustCompile(`^rgba?\(([^)]+)\)$`)

// ParseColor resolves a CSS color value (keyword, hex, rgb()/rgba()).
func ParseColor(value string) (Color, bool) {
	value = strings.TrimSpace(strings.ToLower(value))

	if c, ok := cssColors[value]; ok {
		return c, true
	}
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	if strings.HasPrefix(value, "rgb") {
		return parseRGBColor(value)
	}
	return Color{}, false
}

func hexDigit(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

func parseHexColor(hex string) (Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	a := uint8(255)

	switch len(hex) {
	case 3:
		r = hexDigit(hex[0]) * 17
		g = hexDigit(hex[1]) * 17
		b = hexDigit(hex[2]) * 17
	case 4:
		r = hexDigit(hex[0]) * 17
		g = hexDigit(hex[1]) * 17
		b = hexDigit(hex[2]) * 17
		a = hexDigit(hex[3]) * 17
	case 6:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
	case 8:
		r = hexDigit(hex[0])<<4 | hexDigit(hex[1])
		g = hexDigit(hex[2])<<4 | hexDigit(hex[3])
		b = hexDigit(hex[4])<<4 | hexDigit(hex[5])
		a = hexDigit(hex[6])<<4 | hexDigit(hex[7])
	default:
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: a}, true
}

// parseColorComponent handles "255", "100%" and, for alpha, "0.5".
func parseColorComponent(v string, alpha bool) uint8 {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0
		}
		return clampComponent(f / 100 * 255)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	if alpha && f <= 1 {
		return clampComponent(f * 255)
	}
	return clampComponent(f)
}

func clampComponent(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}

func parseRGBColor(value string) (Color, bool) {
	matches := rgbRegex.FindStringSubmatch(value)
	if len(matches) != 2 {
		return Color{}, false
	}
	parts := strings.FieldsFunc(matches[1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	var values []string
	for _, p := range parts {
		if p != "" && len(values) < 4 {
			values = append(values, p)
		}
	}
	if len(values) < 3 {
		return Color{}, false
	}

	c := Color{
		R: parseColorComponent(values[0], false),
		G: parseColorComponent(values[1], false),
		B: parseColorComponent(values[2], false),
		A: 255,
	}
	if len(values) == 4 {
		c.A = parseColorComponent(values[3], true)
	}
	return c, true
}
