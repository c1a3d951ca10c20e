// internal/convert/docs.go
package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/slidesmith/deckforge/api/schemas"
	"github.com/slidesmith/deckforge/internal/browser"
)

// Doc is one document to convert: an addressable URL or literal markup.
type Doc struct {
	// Name identifies the document in logs and results (e.g. a slide name).
	Name string
	// URL is loaded when set; otherwise Markup is injected directly.
	URL    string
	Markup string
}

// DocResult pairs a document with its outcome. Exactly one of Result and
// Err is set; a validation failure arrives as *schemas.ConversionError in
// Err, same as the single-document path.
type DocResult struct {
	Name   string
	Result *schemas.ConversionResult
	Err    error
}

// ConvertDocs converts several documents concurrently, one fresh session
// per document so no state is shared between runs. Results come back in
// input order. The returned error reports session-setup failures only;
// per-document conversion outcomes live in the DocResults.
func (e *Engine) ConvertDocs(ctx context.Context, mgr *browser.Manager, docs []Doc) ([]DocResult, error) {
	results := make([]DocResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Convert.Concurrency)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			results[i] = DocResult{Name: doc.Name}
			results[i].Result, results[i].Err = e.convertOne(gctx, mgr, doc)

			// A failed conversion is a result, not a reason to cancel the
			// sibling documents. Only a dead context stops the batch.
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Engine) convertOne(ctx context.Context, mgr *browser.Manager, doc Doc) (*schemas.ConversionResult, error) {
	sess, err := mgr.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.Name, err)
	}
	// The session is cleaned up before any error surfaces, including the
	// settle-timeout path.
	defer sess.Close()

	if doc.URL != "" {
		err = sess.Navigate(ctx, doc.URL)
	} else {
		err = sess.NavigateHTML(ctx, doc.Markup)
	}
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", doc.Name, err)
	}

	res, err := e.Convert(ctx, sess)
	if err != nil {
		e.logger.Debug("Document conversion failed.",
			zap.String("document", doc.Name), zap.Error(err))
		return nil, err
	}
	return res, nil
}
