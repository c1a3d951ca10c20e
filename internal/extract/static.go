// internal/extract/static.go
package extract

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/units"
)

// FromHTML builds a Document from static markup without a rendering
// session. Geometry comes from inline style declarations (left/top/width/
// height in px, absolute canvas coordinates), so the tree a test supplies is
// fully deterministic. Downstream stages cannot tell the difference, which
// is also why the validation engine re-checks the canvas declaration
// instead of trusting that extraction ran.
func FromHTML(r io.Reader) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture markup: %w", err)
	}
	body := findBody(doc)
	if body == nil {
		return nil, fmt.Errorf("fixture markup has no body")
	}

	root := buildStatic(body, "body", nil)
	return &Document{
		Root: root,
		Canvas: schemas.Geometry{
			Width:  units.RoundEMU(root.Box.W),
			Height: units.RoundEMU(root.Box.H),
		},
	}, nil
}

// FromHTMLString is FromHTML over a string literal.
func FromHTMLString(markup string) (*Document, error) {
	return FromHTML(strings.NewReader(markup))
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// defaultSnapshot mirrors what a browser reports for an unstyled element.
func defaultSnapshot() StyleSnapshot {
	s := StyleSnapshot{
		PropBackgroundColor: "rgba(0, 0, 0, 0)",
		PropBackgroundImage: "none",
		PropBorderRadius:    "0px",
		PropBoxShadow:       "none",
		PropColor:           "rgb(0, 0, 0)",
		PropFontWeight:      "400",
		PropFontStyle:       "normal",
		PropTextDecoration:  "none",
		PropTextAlign:       "start",
	}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		s[Prop("border-"+side+"-width")] = "0px"
		s[Prop("border-"+side+"-style")] = "none"
		s[Prop("border-"+side+"-color")] = "rgb(0, 0, 0)"
	}
	return s
}

// inheritedProps propagate from parent to child the way the cascade would,
// so a static tree carries the same resolved values a browser would report.
var inheritedProps = []Prop{PropColor, PropFontWeight, PropFontStyle, PropTextAlign}

func buildStatic(el *html.Node, path string, parent StyleSnapshot) *SourceNode {
	n := &SourceNode{
		Tag:   strings.ToLower(el.Data),
		Path:  path,
		Attrs: map[string]string{},
		Style: defaultSnapshot(),
	}
	if parent != nil {
		for _, p := range inheritedProps {
			n.Style[p] = parent[p]
		}
	}
	var styleAttr string
	for _, a := range el.Attr {
		switch a.Key {
		case "style":
			styleAttr = a.Val
		case "id", "class", "src", "data-placeholder":
			n.Attrs[a.Key] = a.Val
		case "width":
			n.NaturalW, _ = strconv.ParseFloat(a.Val, 64)
		case "height":
			n.NaturalH, _ = strconv.ParseFloat(a.Val, 64)
		}
	}
	applyInlineStyle(n, styleAttr)

	elemIdx := 0
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			n.Children = append(n.Children, &SourceNode{
				Tag:  TextTag,
				Path: path + "/#text",
				Text: c.Data,
			})
		case html.ElementNode:
			childPath := fmt.Sprintf("%s/%s[%d]", path, strings.ToLower(c.Data), elemIdx)
			elemIdx++
			n.Children = append(n.Children, buildStatic(c, childPath, n.Style))
		}
	}
	return n
}

// applyInlineStyle folds one style="" attribute into the node's box and
// snapshot. Geometry props set the absolute box; shorthand props are
// expanded the way a browser would resolve them into the computed set.
func applyInlineStyle(n *SourceNode, styleAttr string) {
	for _, decl := range strings.Split(styleAttr, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		switch key {
		case "left":
			n.Box.X = units.PxToEMUF(parsePxValue(val))
		case "top":
			n.Box.Y = units.PxToEMUF(parsePxValue(val))
		case "width":
			n.Box.W = units.PxToEMUF(parsePxValue(val))
		case "height":
			n.Box.H = units.PxToEMUF(parsePxValue(val))
		case "background":
			if strings.Contains(val, "gradient(") {
				n.Style[PropBackgroundImage] = val
			} else {
				n.Style[PropBackgroundColor] = val
			}
		case "border-radius":
			n.Style[PropBorderRadius] = val
		case "border":
			applyBorderShorthand(n.Style, val, "top", "right", "bottom", "left")
		case "border-top":
			applyBorderShorthand(n.Style, val, "top")
		case "border-right":
			applyBorderShorthand(n.Style, val, "right")
		case "border-bottom":
			applyBorderShorthand(n.Style, val, "bottom")
		case "border-left":
			applyBorderShorthand(n.Style, val, "left")
		case "text-decoration":
			n.Style[PropTextDecoration] = val
		default:
			for _, p := range SnapshotProps {
				if key == string(p) {
					n.Style[p] = val
					break
				}
			}
		}
	}
}

// applyBorderShorthand expands "2px solid red" onto the given sides.
func applyBorderShorthand(s StyleSnapshot, val string, sides ...string) {
	width, style, color := "0px", "none", "rgb(0, 0, 0)"
	for _, part := range strings.Fields(val) {
		switch {
		case strings.HasSuffix(part, "px"):
			width = part
		case part == "solid" || part == "dashed" || part == "dotted" || part == "double" || part == "none":
			style = part
		default:
			color = part
		}
	}
	for _, side := range sides {
		s[Prop("border-"+side+"-width")] = width
		s[Prop("border-"+side+"-style")] = style
		s[Prop("border-"+side+"-color")] = color
	}
}

func parsePxValue(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
