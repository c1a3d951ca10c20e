// internal/convert/engine.go
package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/classify"
	"github.com/slidesmith/deckforge/internal/config"
	"github.com/slidesmith/deckforge/internal/extract"
	"github.com/slidesmith/deckforge/internal/style"
	"github.com/slidesmith/deckforge/internal/validate"
)

// Engine runs the conversion pipeline. It holds no state across calls;
// every run owns its own tree, primitive set and issue list, so separate
// documents can convert concurrently on separate sessions.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger

	extractor  *extract.Extractor
	classifier *classify.Classifier
	validator  *validate.Engine
}

// New creates an Engine.
func New(cfg *config.Config, logger *zap.Logger) *Engine {
	log := logger.Named("convert")
	return &Engine{
		cfg:        cfg,
		logger:     log,
		extractor:  extract.New(log),
		classifier: classify.New(log),
		validator:  validate.New(log),
	}
}

// Convert drives a rendered document through the full pipeline. Setup
// failures (session errors, canvas mismatch, settle timeout) return
// immediately; content problems return a *schemas.ConversionError carrying
// the complete issue list and no primitives at all.
func (e *Engine) Convert(ctx context.Context, page extract.Page) (*schemas.ConversionResult, error) {
	targetW, targetH := e.cfg.Convert.CanvasEMU()
	doc, err := e.extractor.Extract(ctx, page, targetW, targetH)
	if err != nil {
		return nil, err
	}
	return e.ConvertTree(doc)
}

// ConvertTree runs every pipeline stage after extraction. It is the entry
// point for callers that supply a node tree directly; the validation engine
// re-checks the canvas declaration precisely because this path exists.
func (e *Engine) ConvertTree(doc *extract.Document) (*schemas.ConversionResult, error) {
	targetW, targetH := e.cfg.Convert.CanvasEMU()
	target := schemas.Geometry{Width: targetW, Height: targetH}

	elems := e.classifier.Classify(doc.Root)

	// Validation and emission are one atomic step: either the complete
	// issue list comes back with zero primitives, or primitives come back
	// with zero issues. Partial success is not an outcome.
	issues := e.validator.Run(doc, elems, target)
	if len(issues) > 0 {
		return nil, &schemas.ConversionError{Issues: issues}
	}

	result := e.assemble(elems, target)
	e.logger.Info("Conversion succeeded.",
		zap.Int("primitives", len(result.Primitives)),
		zap.Int("placeholders", len(result.Placeholders)))
	return result, nil
}

// assemble merges the classified nodes into the ordered primitive list and
// the placeholder registry. Document order is z-order.
func (e *Engine) assemble(elems []classify.Classified, canvas schemas.Geometry) *schemas.ConversionResult {
	result := &schemas.ConversionResult{
		Primitives:   []schemas.Primitive{},
		Placeholders: map[string]schemas.Geometry{},
		Canvas:       canvas,
	}

	for _, el := range elems {
		n := el.Node
		var prim schemas.Primitive

		switch el.Role {
		case classify.Ignorable:
			continue

		case classify.TextBlock:
			runs := style.MapRuns(n, e.cfg.Convert.MaxTextRunLen)
			if len(runs) == 0 {
				// An empty text block paints nothing; dropping it is a
				// silent degradation, same as ignorable wrapper content.
				e.logger.Debug("Dropping empty text block.", zap.String("node", n.Path))
				continue
			}
			prim = schemas.Primitive{
				Kind: schemas.KindText,
				Box:  n.Box.Round(),
				Text: &schemas.TextPayload{Runs: runs},
			}

		case classify.ShapeContainer:
			prim = schemas.Primitive{
				Kind:  schemas.KindShape,
				Box:   n.Box.Round(),
				Shape: style.MapShape(n),
			}

		case classify.Image:
			prim = schemas.Primitive{
				Kind:  schemas.KindImage,
				Box:   style.FitBox(n.Box, n.NaturalW, n.NaturalH).Round(),
				Image: &schemas.ImagePayload{Source: n.Attr("src")},
			}

		case classify.Placeholder:
			geo := n.Box.Round()
			id := classify.PlaceholderID(n)
			prim = schemas.Primitive{
				Kind:        schemas.KindPlaceholder,
				Box:         geo,
				Placeholder: &schemas.PlaceholderPayload{ID: id},
			}
			result.Placeholders[id] = geo

		default:
			// The role set is closed; a new classification must be wired
			// through here explicitly.
			panic(fmt.Sprintf("convert: unhandled role %v", el.Role))
		}

		prim.ZOrder = len(result.Primitives)
		prim.ID = fmt.Sprintf("%s-%d", prim.Kind, prim.ZOrder)
		result.Primitives = append(result.Primitives, prim)
	}
	return result
}
