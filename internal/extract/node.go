// internal/extract/node.go
package extract

import (
	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/units"
)

// Prop is one entry of the fixed style-property set captured per node.
// Properties outside this set never enter a snapshot; their presence in the
// source document is not an error.
type Prop string

const (
	PropBackgroundColor Prop = "background-color"
	PropBackgroundImage Prop = "background-image"

	PropBorderTopWidth    Prop = "border-top-width"
	PropBorderTopStyle    Prop = "border-top-style"
	PropBorderTopColor    Prop = "border-top-color"
	PropBorderRightWidth  Prop = "border-right-width"
	PropBorderRightStyle  Prop = "border-right-style"
	PropBorderRightColor  Prop = "border-right-color"
	PropBorderBottomWidth Prop = "border-bottom-width"
	PropBorderBottomStyle Prop = "border-bottom-style"
	PropBorderBottomColor Prop = "border-bottom-color"
	PropBorderLeftWidth   Prop = "border-left-width"
	PropBorderLeftStyle   Prop = "border-left-style"
	PropBorderLeftColor   Prop = "border-left-color"

	PropBorderRadius Prop = "border-top-left-radius"
	PropBoxShadow    Prop = "box-shadow"

	PropColor          Prop = "color"
	PropFontWeight     Prop = "font-weight"
	PropFontStyle      Prop = "font-style"
	PropTextDecoration Prop = "text-decoration-line"
	PropTextAlign      Prop = "text-align"
)

// SnapshotProps is the full capture set, in a fixed order. The walker script
// and the static builder both iterate it so every snapshot has the same key
// universe.
var SnapshotProps = []Prop{
	PropBackgroundColor, PropBackgroundImage,
	PropBorderTopWidth, PropBorderTopStyle, PropBorderTopColor,
	PropBorderRightWidth, PropBorderRightStyle, PropBorderRightColor,
	PropBorderBottomWidth, PropBorderBottomStyle, PropBorderBottomColor,
	PropBorderLeftWidth, PropBorderLeftStyle, PropBorderLeftColor,
	PropBorderRadius, PropBoxShadow,
	PropColor, PropFontWeight, PropFontStyle, PropTextDecoration, PropTextAlign,
}

// StyleSnapshot holds the resolved (post-cascade) style values for one node.
type StyleSnapshot map[Prop]string

// Get returns the resolved value or "" when the property was not captured.
func (s StyleSnapshot) Get(p Prop) string { return s[p] }

// Rect is an absolute bounding box in fractional EMU. Integer rounding is
// deferred to the output stage.
type Rect struct {
	X, Y, W, H float64
}

// Round performs the single final rounding into the output contract.
func (r Rect) Round() schemas.Geometry {
	return schemas.Geometry{
		X:      units.RoundEMU(r.X),
		Y:      units.RoundEMU(r.Y),
		Width:  units.RoundEMU(r.W),
		Height: units.RoundEMU(r.H),
	}
}

// TextTag marks pseudo nodes that carry raw character data.
const TextTag = "#text"

// SourceNode is one node of the rendered document tree. It is immutable
// after the tree is built; the parent exclusively owns its children.
type SourceNode struct {
	// Tag is the lowercased element name, or TextTag for character data.
	Tag string
	// Path locates the node for diagnostics, e.g. "body/div[0]/p[1]".
	Path string
	// Text is the raw character data of a TextTag node.
	Text string
	// Attrs holds the subset of source attributes the engine consults
	// (id, class, src, data-placeholder).
	Attrs map[string]string
	// Style is the resolved style snapshot. Nil for text nodes.
	Style StyleSnapshot
	// Box is the absolute border box in fractional EMU.
	Box Rect
	// NaturalW/NaturalH are the intrinsic bitmap dimensions of an image
	// node, in source pixels. Zero for everything else.
	NaturalW, NaturalH float64

	Children []*SourceNode
}

// IsText reports whether the node is a character-data pseudo node.
func (n *SourceNode) IsText() bool { return n.Tag == TextTag }

// Attr returns an attribute value or "".
func (n *SourceNode) Attr(name string) string { return n.Attrs[name] }

// Document is the output of the layout extraction step: the node tree plus
// the canvas the document declared, already in EMU.
type Document struct {
	Root   *SourceNode
	Canvas schemas.Geometry
}

// Walk visits n and its descendants in document order.
func Walk(n *SourceNode, fn func(*SourceNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
