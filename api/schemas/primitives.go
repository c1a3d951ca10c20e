// api/schemas/primitives.go
package schemas

// -- Geometry --

// Geometry is an absolute box in EMU (English Metric Units), origin at the
// top-left of the canvas, y increasing downward.
type Geometry struct {
	X      int64 `json:"x"`
	Y      int64 `json:"y"`
	Width  int64 `json:"w"`
	Height int64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (g Geometry) Right() int64 { return g.X + g.Width }

// Bottom returns the y coordinate of the bottom edge.
func (g Geometry) Bottom() int64 { return g.Y + g.Height }

// -- Primitive sum type --

// PrimitiveKind discriminates the closed set of primitive variants.
// Consumers must switch exhaustively on it; adding a kind is a breaking
// change for every consumer by design.
type PrimitiveKind string

const (
	KindText        PrimitiveKind = "text"
	KindShape       PrimitiveKind = "shape"
	KindImage       PrimitiveKind = "image"
	KindPlaceholder PrimitiveKind = "placeholder"
)

// Primitive is one emitted, geometrically placed conversion output unit.
// Exactly one of the payload pointers is non-nil, matching Kind.
type Primitive struct {
	ID     string        `json:"id"`
	Kind   PrimitiveKind `json:"kind"`
	Box    Geometry      `json:"box"`
	ZOrder int           `json:"z"`

	Text        *TextPayload        `json:"text,omitempty"`
	Shape       *ShapePayload       `json:"shape,omitempty"`
	Image       *ImagePayload       `json:"image,omitempty"`
	Placeholder *PlaceholderPayload `json:"placeholder,omitempty"`
}

// -- Text --

// Alignment is a horizontal alignment hint for a text block.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// TextRun is one contiguous span of text sharing a single emphasis state.
// Color is an RRGGBB hex string without the leading '#'; empty means the
// block's base color.
type TextRun struct {
	Text      string    `json:"text"`
	Bold      bool      `json:"bold,omitempty"`
	Italic    bool      `json:"italic,omitempty"`
	Underline bool      `json:"underline,omitempty"`
	Color     string    `json:"color,omitempty"`
	Align     Alignment `json:"align,omitempty"`
}

// TextPayload carries the ordered runs of a text block.
type TextPayload struct {
	Runs []TextRun `json:"runs"`
}

// -- Shape --

// LineSides records which sides of a shape's outline are drawn.
type LineSides struct {
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
}

// Any reports whether at least one side is drawn.
func (s LineSides) Any() bool { return s.Top || s.Right || s.Bottom || s.Left }

// Outline describes a shape's border in target terms.
type Outline struct {
	Color    string    `json:"color"`
	WidthEMU int64     `json:"width_emu"`
	Sides    LineSides `json:"sides"`
}

// Shadow describes an outer drop shadow. Inset shadows are not
// representable in the target format and never reach this struct.
type Shadow struct {
	Color   string `json:"color"`
	OffsetX int64  `json:"offset_x_emu"`
	OffsetY int64  `json:"offset_y_emu"`
	BlurEMU int64  `json:"blur_emu"`
}

// ShapePayload carries the visual properties of a shape container.
type ShapePayload struct {
	// Fill is an RRGGBB hex string; nil means no fill.
	Fill            *string  `json:"fill,omitempty"`
	Outline         *Outline `json:"outline,omitempty"`
	CornerRadiusEMU int64    `json:"corner_radius_emu,omitempty"`
	Shadow          *Shadow  `json:"shadow,omitempty"`
}

// -- Image --

// ImagePayload references external bitmap content. Box on the owning
// Primitive is already aspect-ratio preserving.
type ImagePayload struct {
	Source string `json:"source"`
}

// -- Placeholder --

// PlaceholderPayload marks a reserved region to be filled by an external
// collaborator. It carries no content, only the identifier; geometry lives
// on the owning Primitive.
type PlaceholderPayload struct {
	ID string `json:"id"`
}

// -- Result --

// ConversionResult is the success payload of one conversion run. The caller
// owns it; the engine keeps no state across calls. Placeholders is the
// registry external collaborators address regions by; identifiers are
// guaranteed unique because a duplicate fails validation.
type ConversionResult struct {
	Primitives   []Primitive         `json:"primitives"`
	Placeholders map[string]Geometry `json:"placeholders"`
	Canvas       Geometry            `json:"canvas"`
}
