// internal/style/mapper.go
package style

import (
	"math"
	"strconv"
	"strings"

	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/extract"
	"github.com/slidesmith/deckforge/internal/units"
)

// MapShape translates a shape container's snapshot into the target payload.
// A gradient background is not mapped here at all; the validation engine
// reports it and the run fails, so a flattened-but-wrong shape can never be
// emitted. Inset shadows are silently dropped: the target format cannot
// represent them and losing a decorative inner shadow does not change what
// the shape is, unlike losing a gradient.
func MapShape(n *extract.SourceNode) *schemas.ShapePayload {
	s := n.Style
	payload := &schemas.ShapePayload{}

	if c, ok := ParseColor(s.Get(extract.PropBackgroundColor)); ok && !c.Transparent() {
		hex := c.Hex()
		payload.Fill = &hex
	}

	var sides schemas.LineSides
	var outlineWidth float64
	var outlineColor Color
	for _, side := range borderSides {
		w, c, present := sideBorder(s, side)
		if !present {
			continue
		}
		switch side {
		case "top":
			sides.Top = true
		case "right":
			sides.Right = true
		case "bottom":
			sides.Bottom = true
		case "left":
			sides.Left = true
		}
		if outlineWidth == 0 {
			outlineWidth, outlineColor = w, c
		}
	}
	if sides.Any() {
		payload.Outline = &schemas.Outline{
			Color:    outlineColor.Hex(),
			WidthEMU: units.PxToEMU(outlineWidth),
			Sides:    sides,
		}
	}

	payload.CornerRadiusEMU = cornerRadius(s, n.Box)

	if sh, ok := ParseShadow(s.Get(extract.PropBoxShadow)); ok && !sh.Inset {
		payload.Shadow = &schemas.Shadow{
			Color:   sh.Color.Hex(),
			OffsetX: units.PxToEMU(sh.OffsetX),
			OffsetY: units.PxToEMU(sh.OffsetY),
			BlurEMU: units.PxToEMU(sh.Blur),
		}
	}

	return payload
}

// cornerRadius resolves the border radius. A percentage is anchored to the
// node's own smaller box dimension, mirroring how rounding visually follows
// the shape being rounded rather than the canvas.
func cornerRadius(s extract.StyleSnapshot, box extract.Rect) int64 {
	v := strings.TrimSpace(s.Get(extract.PropBorderRadius))
	if v == "" {
		return 0
	}
	if pct, ok := ParsePercent(v); ok {
		return units.RoundEMU(units.ResolvePercent(pct, math.Min(box.W, box.H)))
	}
	return units.PxToEMU(ParsePx(v))
}

// FitBox shrinks box to the aspect ratio of the natural bitmap dimensions,
// centered within the original box. A missing natural size leaves the box
// untouched.
func FitBox(box extract.Rect, naturalW, naturalH float64) extract.Rect {
	if naturalW <= 0 || naturalH <= 0 || box.W <= 0 || box.H <= 0 {
		return box
	}
	scale := math.Min(box.W/naturalW, box.H/naturalH)
	w := naturalW * scale
	h := naturalH * scale
	return extract.Rect{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}

// -- Text run mapping --

// runState is the emphasis state carried down an inline subtree.
type runState struct {
	bold      bool
	italic    bool
	underline bool
	color     string
	align     schemas.Alignment
}

// MapRuns splits a text block into contiguous runs of uniform emphasis, in
// document order. Each run inherits the block's base attributes unless an
// inline descendant overrides them. maxRunLen > 0 truncates each run to
// that many runes.
func MapRuns(n *extract.SourceNode, maxRunLen int) []schemas.TextRun {
	base := runState{align: mapAlign(n.Style.Get(extract.PropTextAlign))}
	applySnapshot(&base, n.Style)
	applyTag(&base, n.Tag)

	var runs []schemas.TextRun
	collectRuns(n, base, &runs)

	// Merge adjacent runs whose formatting is identical so a block of plain
	// text is exactly one run regardless of how the source fragmented it.
	merged := runs[:0]
	for _, r := range runs {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if sameFormat(*last, r) {
				last.Text += r.Text
				continue
			}
		}
		merged = append(merged, r)
	}

	// The block boundary itself never contributes whitespace.
	if len(merged) > 0 {
		merged[0].Text = strings.TrimLeft(merged[0].Text, " ")
		merged[len(merged)-1].Text = strings.TrimRight(merged[len(merged)-1].Text, " ")
		kept := merged[:0]
		for _, r := range merged {
			if r.Text != "" {
				kept = append(kept, r)
			}
		}
		merged = kept
	}

	if maxRunLen > 0 {
		for i := range merged {
			if rs := []rune(merged[i].Text); len(rs) > maxRunLen {
				merged[i].Text = string(rs[:maxRunLen])
			}
		}
	}
	return merged
}

// inlineTags are the phrasing elements whose runs flow together with their
// siblings. Any other element child starts on a word boundary of its own
// (list items, nested paragraphs, line breaks).
var inlineTags = map[string]bool{
	"b": true, "strong": true, "i": true, "em": true, "u": true, "ins": true,
	"span": true, "a": true, "code": true, "small": true, "sub": true,
	"sup": true, "mark": true,
}

func collectRuns(n *extract.SourceNode, state runState, runs *[]schemas.TextRun) {
	for _, c := range n.Children {
		if c.IsText() {
			text := normalizeText(c.Text)
			if text == "" {
				continue
			}
			*runs = append(*runs, schemas.TextRun{
				Text:      text,
				Bold:      state.bold,
				Italic:    state.italic,
				Underline: state.underline,
				Color:     state.color,
				Align:     state.align,
			})
			continue
		}
		block := !inlineTags[c.Tag]
		if block {
			wordBoundary(runs)
		}
		child := state
		applySnapshot(&child, c.Style)
		applyTag(&child, c.Tag)
		collectRuns(c, child, runs)
		if block {
			wordBoundary(runs)
		}
	}
}

// wordBoundary ensures the text collected so far ends on a space, so runs
// from separate block-level descendants never fuse into one word.
func wordBoundary(runs *[]schemas.TextRun) {
	if len(*runs) == 0 {
		return
	}
	last := &(*runs)[len(*runs)-1]
	if !strings.HasSuffix(last.Text, " ") {
		last.Text += " "
	}
}

// applyTag folds emphasis implied by the element itself. Emphasis only
// accumulates down the tree; there is no un-bolding an inline span.
func applyTag(s *runState, tag string) {
	switch tag {
	case "b", "strong":
		s.bold = true
	case "i", "em":
		s.italic = true
	case "u", "ins":
		s.underline = true
	}
}

// applySnapshot folds resolved style values into the state.
func applySnapshot(s *runState, snap extract.StyleSnapshot) {
	if snap == nil {
		return
	}
	if isBoldWeight(snap.Get(extract.PropFontWeight)) {
		s.bold = true
	}
	if fs := strings.TrimSpace(snap.Get(extract.PropFontStyle)); fs == "italic" || fs == "oblique" {
		s.italic = true
	}
	if strings.Contains(snap.Get(extract.PropTextDecoration), "underline") {
		s.underline = true
	}
	if c, ok := ParseColor(snap.Get(extract.PropColor)); ok {
		s.color = c.Hex()
	}
}

func isBoldWeight(v string) bool {
	v = strings.TrimSpace(v)
	switch v {
	case "bold", "bolder":
		return true
	}
	if w, err := strconv.Atoi(v); err == nil {
		return w >= 600
	}
	return false
}

func mapAlign(v string) schemas.Alignment {
	switch strings.TrimSpace(v) {
	case "center":
		return schemas.AlignCenter
	case "right", "end":
		return schemas.AlignRight
	case "justify":
		return schemas.AlignJustify
	default:
		return schemas.AlignLeft
	}
}

func sameFormat(a, b schemas.TextRun) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic &&
		a.Underline == b.Underline && a.Color == b.Color && a.Align == b.Align
}

// normalizeText collapses runs of whitespace the way an HTML renderer
// would, preserving single spaces between words.
func normalizeText(t string) string {
	fields := strings.Fields(t)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	// Preserve boundary spaces so adjacent runs do not fuse words together.
	if t[0] == ' ' || t[0] == '\n' || t[0] == '\t' {
		out = " " + out
	}
	if last := t[len(t)-1]; last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}
