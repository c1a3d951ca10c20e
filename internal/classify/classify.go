// internal/classify/classify.go
package classify

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/atom"

	"github.com/slidesmith/deckforge/internal/extract"
	"github.com/slidesmith/deckforge/internal/style"
)

// Role is the closed set of classifications a node can receive.
type Role int

const (
	// Ignorable marks a layout-only wrapper: nothing is emitted for it,
	// but its children are still walked.
	Ignorable Role = iota
	// TextBlock marks a text-bearing element whose inline descendants
	// become text runs rather than separate primitives.
	TextBlock
	// ShapeContainer marks an element with visually significant container
	// styling and no text of its own to emit.
	ShapeContainer
	// Image marks an element referencing external bitmap content.
	Image
	// Placeholder marks an explicitly reserved region; only its geometry
	// and identifier survive into the output.
	Placeholder
)

func (r Role) String() string {
	switch r {
	case TextBlock:
		return "text"
	case ShapeContainer:
		return "shape"
	case Image:
		return "image"
	case Placeholder:
		return "placeholder"
	default:
		return "ignorable"
	}
}

// Classified pairs a node with its assigned role, in document order.
// Document order is z-order: when a styled wrapper is split from its text
// descendants, the wrapper's shape entry precedes the text entries.
type Classified struct {
	Node *extract.SourceNode
	Role Role
}

// PlaceholderMarkerAttr designates a reserved region by attribute.
const PlaceholderMarkerAttr = "data-placeholder"

// PlaceholderMarkerClass designates a reserved region by class name.
const PlaceholderMarkerClass = "placeholder"

// textBearingTags is the designated set whose content becomes text runs.
var textBearingTags = map[string]bool{
	atom.P.String():          true,
	atom.H1.String():         true,
	atom.H2.String():         true,
	atom.H3.String():         true,
	atom.H4.String():         true,
	atom.H5.String():         true,
	atom.H6.String():         true,
	atom.Ul.String():         true,
	atom.Ol.String():         true,
	atom.Blockquote.String(): true,
}

// Classifier assigns one role to every element node.
type Classifier struct {
	logger *zap.Logger
}

// New creates a Classifier.
func New(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logger.Named("classify")}
}

// Classify walks the tree and returns one entry per element node in
// document order. The tree itself is not modified.
func (c *Classifier) Classify(root *extract.SourceNode) []Classified {
	var out []Classified
	c.classifyNode(root, &out)
	return out
}

func (c *Classifier) classifyNode(n *extract.SourceNode, out *[]Classified) {
	if n.IsText() {
		return
	}

	switch {
	case IsPlaceholder(n):
		// A reserved region contributes geometry and identifier only;
		// whatever it contains is never mapped, so the walk stops here.
		*out = append(*out, Classified{Node: n, Role: Placeholder})
		return

	case textBearingTags[n.Tag]:
		// Inline descendants become runs of this block, not primitives of
		// their own. A shape-styled text element is deliberately NOT split
		// into shape + text: the ambiguity is surfaced by validation
		// instead of resolved by guessing.
		*out = append(*out, Classified{Node: n, Role: TextBlock})
		return

	case n.Tag == atom.Img.String() && n.Attr("src") != "":
		*out = append(*out, Classified{Node: n, Role: Image})
		return
	}

	role := Ignorable
	if style.HasShapeStyle(n.Style) {
		// Styled wrapper. With text-bearing descendants this is the split
		// case: the container becomes a shape, and the descendants are
		// classified independently right after it, keeping the shape
		// underneath the text in z-order.
		role = ShapeContainer
	}
	*out = append(*out, Classified{Node: n, Role: role})

	c.logIgnoredText(n)
	for _, child := range n.Children {
		c.classifyNode(child, out)
	}
}

// logIgnoredText surfaces untagged text dropped from generic containers.
// Dropping it silently is the source tool's documented behavior; the debug
// line exists so an operator can still spot disappearing content.
func (c *Classifier) logIgnoredText(n *extract.SourceNode) {
	for _, child := range n.Children {
		if child.IsText() && strings.TrimSpace(child.Text) != "" {
			c.logger.Debug("Ignoring untagged text in generic container.",
				zap.String("node", n.Path),
				zap.String("text", strings.TrimSpace(child.Text)))
		}
	}
}

// IsPlaceholder reports whether the node carries the reserved-region marker.
func IsPlaceholder(n *extract.SourceNode) bool {
	if _, ok := n.Attrs[PlaceholderMarkerAttr]; ok {
		return true
	}
	for _, cls := range strings.Fields(n.Attr("class")) {
		if cls == PlaceholderMarkerClass {
			return true
		}
	}
	return false
}

// PlaceholderID resolves the identifier external collaborators address the
// region by: the id attribute, falling back to the marker attribute value.
func PlaceholderID(n *extract.SourceNode) string {
	if id := n.Attr("id"); id != "" {
		return id
	}
	return n.Attr(PlaceholderMarkerAttr)
}

// HasTextBearingDescendant reports whether any descendant is a designated
// text-bearing element.
func HasTextBearingDescendant(n *extract.SourceNode) bool {
	for _, child := range n.Children {
		if child.IsText() {
			continue
		}
		if textBearingTags[child.Tag] || HasTextBearingDescendant(child) {
			return true
		}
	}
	return false
}

// IsTextBearing reports whether the tag is in the designated text set.
func IsTextBearing(tag string) bool { return textBearingTags[tag] }
