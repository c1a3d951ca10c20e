// internal/validate/validate.go
//
// The validation engine applies every rule to every element and collects
// every violation before any decision is made. This is the central design
// decision of the whole engine: the caller is an automated pipeline, and one
// complete report per attempt lets it fix everything in a single
// edit-and-retry cycle instead of discovering problems one at a time.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/classify"
	"github.com/slidesmith/deckforge/internal/extract"
	"github.com/slidesmith/deckforge/internal/style"
	"github.com/slidesmith/deckforge/internal/units"
)

// Engine runs the fixed rule set.
type Engine struct {
	logger *zap.Logger
}

// New creates a validation Engine.
func New(logger *zap.Logger) *Engine {
	return &Engine{logger: logger.Named("validate")}
}

// Run checks the classified element set against the requested target canvas
// and returns every issue found, in rule order then document order. A rule
// never suppresses another rule's finding for the same node.
func (e *Engine) Run(doc *extract.Document, elems []classify.Classified, target schemas.Geometry) []schemas.ValidationIssue {
	var issues []schemas.ValidationIssue

	issues = append(issues, e.checkDimensions(doc, target)...)
	issues = append(issues, e.checkOverflow(elems, target)...)
	issues = append(issues, e.checkGradients(elems)...)
	issues = append(issues, e.checkStyleOnText(elems)...)
	issues = append(issues, e.checkDuplicatePlaceholders(elems)...)

	if len(issues) > 0 {
		e.logger.Debug("Validation found issues.", zap.Int("count", len(issues)))
	}
	return issues
}

// checkDimensions re-checks the canvas declaration against the requested
// target. Extraction already enforces this up front, but a test may build a
// tree directly and bypass extraction, so the final gate checks it again.
func (e *Engine) checkDimensions(doc *extract.Document, target schemas.Geometry) []schemas.ValidationIssue {
	if doc.Canvas.Width == target.Width && doc.Canvas.Height == target.Height {
		return nil
	}
	return []schemas.ValidationIssue{{
		Kind:     schemas.IssueDimensionMismatch,
		NodePath: doc.Root.Path,
		Detail: fmt.Sprintf("document declares %d x %d EMU, requested target is %d x %d EMU",
			doc.Canvas.Width, doc.Canvas.Height, target.Width, target.Height),
	}}
}

// checkOverflow reports, per offending element, the exact overage on every
// side that crosses the canvas, so the caller can decide whether to shrink
// or paginate.
func (e *Engine) checkOverflow(elems []classify.Classified, target schemas.Geometry) []schemas.ValidationIssue {
	var issues []schemas.ValidationIssue
	for _, el := range elems {
		if el.Role == classify.Ignorable {
			continue
		}
		box := el.Node.Box
		if el.Role == classify.Image {
			// The emitted image geometry is the aspect-fitted box, not the
			// slot; a slot overhanging the canvas is fine as long as the
			// fitted image stays inside.
			box = style.FitBox(box, el.Node.NaturalW, el.Node.NaturalH)
		}
		g := box.Round()
		var sides []string
		if g.X < 0 {
			sides = append(sides, overage("left", -g.X))
		}
		if g.Y < 0 {
			sides = append(sides, overage("top", -g.Y))
		}
		if over := g.Right() - target.Width; over > 0 {
			sides = append(sides, overage("right", over))
		}
		if over := g.Bottom() - target.Height; over > 0 {
			sides = append(sides, overage("bottom", over))
		}
		if len(sides) == 0 {
			continue
		}
		issues = append(issues, schemas.ValidationIssue{
			Kind:     schemas.IssueOverflow,
			NodePath: el.Node.Path,
			Detail:   "element extends beyond canvas: " + strings.Join(sides, "; "),
		})
	}
	return issues
}

func overage(side string, emu int64) string {
	return fmt.Sprintf("%s by %d EMU (%.1fpx)", side, emu, units.EMUToPx(emu))
}

// checkGradients flags gradient backgrounds anywhere in the element set.
// A gradient cannot be mapped and must not be flattened to a solid color:
// a loud failure tells the caller to pre-rasterize it externally, whereas
// silent flattening would produce a visually wrong "success".
func (e *Engine) checkGradients(elems []classify.Classified) []schemas.ValidationIssue {
	var issues []schemas.ValidationIssue
	for _, el := range elems {
		if el.Node.Style == nil || !style.HasGradient(el.Node.Style) {
			continue
		}
		issues = append(issues, schemas.ValidationIssue{
			Kind:     schemas.IssueUnsupportedGradient,
			NodePath: el.Node.Path,
			Detail: fmt.Sprintf("gradient background %q is not supported; rasterize it to an image instead",
				strings.TrimSpace(el.Node.Style.Get(extract.PropBackgroundImage))),
		})
	}
	return issues
}

// checkStyleOnText flags container styling set directly on a text-bearing
// element. The classifier never auto-splits this case; whether the author
// meant a styled box or a styled paragraph is ambiguous, so the ambiguity
// is surfaced instead of guessed at.
func (e *Engine) checkStyleOnText(elems []classify.Classified) []schemas.ValidationIssue {
	var issues []schemas.ValidationIssue
	for _, el := range elems {
		if el.Role != classify.TextBlock || !style.HasShapeStyle(el.Node.Style) {
			continue
		}
		issues = append(issues, schemas.ValidationIssue{
			Kind:     schemas.IssueStyleOnTextElement,
			NodePath: el.Node.Path,
			Detail: fmt.Sprintf("shape styling on text element <%s>; move it to a wrapping container",
				el.Node.Tag),
		})
	}
	return issues
}

// checkDuplicatePlaceholders emits one issue per duplicated identifier,
// naming every node that claims it. External collaborators address regions
// by identifier, so identifiers must be unique within a run.
func (e *Engine) checkDuplicatePlaceholders(elems []classify.Classified) []schemas.ValidationIssue {
	byID := make(map[string][]string)
	var order []string
	for _, el := range elems {
		if el.Role != classify.Placeholder {
			continue
		}
		id := classify.PlaceholderID(el.Node)
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = append(byID[id], el.Node.Path)
	}

	var issues []schemas.ValidationIssue
	for _, id := range order {
		paths := byID[id]
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		issues = append(issues, schemas.ValidationIssue{
			Kind:     schemas.IssueDuplicatePlaceholderID,
			NodePath: strings.Join(paths, ", "),
			Detail:   fmt.Sprintf("placeholder id %q claimed by %d nodes", id, len(paths)),
		})
	}
	return issues
}
