// internal/style/values.go
package style

import (
	"strconv"
	"strings"

	"github.com/slidesmith/deckforge/internal/extract"
)

// ParsePx parses a computed pixel length ("4px", "0.5px"). Resolved
// computed values for the properties the engine consults are always in px,
// so anything else reads as zero.
func ParsePx(v string) float64 {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "px") {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParsePercent parses "25%" into 25. The second return is false when the
// value is not a percentage.
func ParsePercent(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasSuffix(v, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ShadowValue is a parsed box-shadow declaration, still in source pixels.
type ShadowValue struct {
	Color   Color
	OffsetX float64
	OffsetY float64
	Blur    float64
	Spread  float64
	Inset   bool
}

// ParseShadow parses one computed box-shadow value. Chrome reports the
// color first ("rgb(0, 0, 0) 2px 4px 8px 0px"), authored fixtures tend to
// put it last; both orders are accepted. Returns false for "none" or an
// unparseable value.
func ParseShadow(v string) (ShadowValue, bool) {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return ShadowValue{}, false
	}

	var sh ShadowValue
	sh.Color = Color{0, 0, 0, 255}

	var lengths []float64
	for _, tok := range splitShadowTokens(v) {
		switch {
		case tok == "inset":
			sh.Inset = true
		case strings.HasSuffix(tok, "px"):
			lengths = append(lengths, ParsePx(tok))
		default:
			if c, ok := ParseColor(tok); ok {
				sh.Color = c
			}
		}
	}
	if len(lengths) < 2 {
		return ShadowValue{}, false
	}
	sh.OffsetX = lengths[0]
	sh.OffsetY = lengths[1]
	if len(lengths) > 2 {
		sh.Blur = lengths[2]
	}
	if len(lengths) > 3 {
		sh.Spread = lengths[3]
	}
	return sh, true
}

// splitShadowTokens splits on spaces while keeping rgb(...) groups intact.
func splitShadowTokens(v string) []string {
	var tokens []string
	depth := 0
	start := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ' ':
			if depth == 0 {
				if i > start {
					tokens = append(tokens, v[start:i])
				}
				start = i + 1
			}
		}
	}
	if start < len(v) {
		tokens = append(tokens, v[start:])
	}
	return tokens
}

// borderSides in CSS order.
var borderSides = []string{"top", "right", "bottom", "left"}

// sideBorder reads one side's computed border triple from a snapshot and
// reports whether that side actually draws.
func sideBorder(s extract.StyleSnapshot, side string) (width float64, color Color, present bool) {
	w := ParsePx(s.Get(extract.Prop("border-" + side + "-width")))
	st := strings.TrimSpace(s.Get(extract.Prop("border-" + side + "-style")))
	if w <= 0 || st == "" || st == "none" || st == "hidden" {
		return 0, Color{}, false
	}
	c, ok := ParseColor(s.Get(extract.Prop("border-" + side + "-color")))
	if !ok {
		c = Color{0, 0, 0, 255}
	}
	return w, c, true
}

// HasGradient reports whether the snapshot declares a gradient background.
// Gradients are never flattened; the caller surfaces them as a validation
// issue instead.
func HasGradient(s extract.StyleSnapshot) bool {
	bg := s.Get(extract.PropBackgroundImage)
	return strings.Contains(bg, "gradient(")
}

// HasShapeStyle reports whether the snapshot carries visually significant
// container styling: a non-transparent background, any drawn border side,
// an outer shadow, or a corner radius.
func HasShapeStyle(s extract.StyleSnapshot) bool {
	if s == nil {
		return false
	}
	if c, ok := ParseColor(s.Get(extract.PropBackgroundColor)); ok && !c.Transparent() {
		return true
	}
	if HasGradient(s) {
		return true
	}
	for _, side := range borderSides {
		if _, _, present := sideBorder(s, side); present {
			return true
		}
	}
	if sh, ok := ParseShadow(s.Get(extract.PropBoxShadow)); ok && !sh.Inset {
		return true
	}
	if radius := strings.TrimSpace(s.Get(extract.PropBorderRadius)); radius != "" {
		if pct, isPct := ParsePercent(radius); isPct && pct > 0 {
			return true
		}
		if ParsePx(radius) > 0 {
			return true
		}
	}
	return false
}
