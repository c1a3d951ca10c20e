// internal/extract/extract.go
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/units"
)

// ErrLayoutUnavailable is the setup-error sentinel for a rendering pass that
// never produced a usable layout: the session failed, the settle wait timed
// out, or the document declared a canvas that does not match the one the
// caller requested. It always aborts before any node processing.
var ErrLayoutUnavailable = errors.New("layout unavailable")

// Page is the rendered-document surface the extractor drives. This is the
// sole I/O point of the pipeline; everything downstream is pure.
type Page interface {
	// WaitSettled blocks until the document has finished laying out, or
	// fails when it does not settle within the session's bounded wait.
	WaitSettled(ctx context.Context) error
	// Evaluate runs a script in the document and decodes its JSON result.
	Evaluate(ctx context.Context, script string, out any) error
}

// Extractor reads the node tree and resolved styles back out of a laid-out
// document.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor.
func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger.Named("extract")}
}

// raw* mirror the walker script's payload.

type rawRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type rawSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type rawNode struct {
	Tag      string            `json:"tag"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Rect     *rawRect          `json:"rect,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
	Natural  *rawSize          `json:"natural,omitempty"`
	Children []*rawNode        `json:"children,omitempty"`
}

type rawPayload struct {
	Canvas rawSize  `json:"canvas"`
	Root   *rawNode `json:"root"`
}

// walkerScript returns the in-page script that serializes the laid-out tree:
// one object per element with its border box, the fixed style-property set
// from resolved computed styles, and text children as #text pseudo nodes.
func walkerScript() string {
	props, _ := json.Marshal(SnapshotProps)
	return fmt.Sprintf(`(() => {
	const PROPS = %s;
	const ATTRS = ["id", "class", "src", "data-placeholder"];
	const walk = (el) => {
		const cs = getComputedStyle(el);
		if (cs.display === "none" || cs.visibility === "hidden") return null;
		const r = el.getBoundingClientRect();
		const node = {
			tag: el.tagName.toLowerCase(),
			attrs: {},
			rect: { x: r.x, y: r.y, w: r.width, h: r.height },
			style: {},
			children: [],
		};
		for (const a of ATTRS) {
			const v = el.getAttribute(a);
			if (v !== null) node.attrs[a] = v;
		}
		for (const p of PROPS) node.style[p] = cs.getPropertyValue(p);
		if (el.tagName === "IMG") {
			node.natural = { w: el.naturalWidth, h: el.naturalHeight };
		}
		for (const c of el.childNodes) {
			if (c.nodeType === Node.TEXT_NODE) {
				if (c.textContent.trim().length > 0) {
					node.children.push({ tag: "#text", text: c.textContent });
				}
			} else if (c.nodeType === Node.ELEMENT_NODE) {
				const child = walk(c);
				if (child !== null) node.children.push(child);
			}
		}
		return node;
	};
	const body = document.body;
	const br = body.getBoundingClientRect();
	return { canvas: { w: br.width, h: br.height }, root: walk(body) };
})()`, props)
}

// Extract waits for the page to settle, reads back the full node tree with
// resolved boxes and style snapshots, and returns it with all coordinates
// already in the target EMU space. The document's declared canvas must match
// the requested target exactly; a mismatch invalidates every downstream
// coordinate, so it is checked before any node is walked.
func (e *Extractor) Extract(ctx context.Context, page Page, targetW, targetH int64) (*Document, error) {
	if err := page.WaitSettled(ctx); err != nil {
		return nil, fmt.Errorf("%w: rendering pass did not settle: %v", ErrLayoutUnavailable, err)
	}

	var payload rawPayload
	if err := page.Evaluate(ctx, walkerScript(), &payload); err != nil {
		return nil, fmt.Errorf("%w: reading layout tree: %v", ErrLayoutUnavailable, err)
	}
	if payload.Root == nil {
		return nil, fmt.Errorf("%w: document has no body", ErrLayoutUnavailable)
	}

	declaredW := units.PxToEMU(payload.Canvas.W)
	declaredH := units.PxToEMU(payload.Canvas.H)
	if declaredW != targetW || declaredH != targetH {
		return nil, fmt.Errorf(
			"%w: document canvas %.0fx%.0fpx (%d x %d EMU) does not match requested %d x %d EMU",
			ErrLayoutUnavailable, payload.Canvas.W, payload.Canvas.H,
			declaredW, declaredH, targetW, targetH)
	}

	root := buildNode(payload.Root, "body")
	e.logger.Debug("Extracted layout tree.",
		zap.Int64("canvas_w_emu", declaredW),
		zap.Int64("canvas_h_emu", declaredH),
		zap.Int("nodes", countNodes(root)))

	return &Document{
		Root:   root,
		Canvas: schemas.Geometry{Width: targetW, Height: targetH},
	}, nil
}

// buildNode converts one payload node into an immutable SourceNode,
// assigning diagnostic paths and converting pixel boxes to fractional EMU.
func buildNode(r *rawNode, path string) *SourceNode {
	n := &SourceNode{
		Tag:   r.Tag,
		Path:  path,
		Text:  r.Text,
		Attrs: r.Attrs,
	}
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	if r.Rect != nil {
		n.Box = Rect{
			X: units.PxToEMUF(r.Rect.X),
			Y: units.PxToEMUF(r.Rect.Y),
			W: units.PxToEMUF(r.Rect.W),
			H: units.PxToEMUF(r.Rect.H),
		}
	}
	if r.Natural != nil {
		n.NaturalW, n.NaturalH = r.Natural.W, r.Natural.H
	}
	if r.Style != nil {
		n.Style = make(StyleSnapshot, len(SnapshotProps))
		for _, p := range SnapshotProps {
			if v, ok := r.Style[string(p)]; ok {
				n.Style[p] = v
			}
		}
	}

	elemIdx := 0
	for _, c := range r.Children {
		var childPath string
		if c.Tag == TextTag {
			childPath = path + "/#text"
		} else {
			childPath = fmt.Sprintf("%s/%s[%d]", path, c.Tag, elemIdx)
			elemIdx++
		}
		n.Children = append(n.Children, buildNode(c, childPath))
	}
	return n
}

func countNodes(n *SourceNode) int {
	total := 0
	Walk(n, func(*SourceNode) { total++ })
	return total
}
