// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Session is one browser tab rendering one document. It implements
// extract.Page. A session may be reused across runs, but the engine never
// serializes that reuse for the caller.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	onClose   func()
	closeOnce sync.Once
}

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.With(zap.String("session_id", id)),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// run executes chromedp actions against the tab, bounded by the given
// timeout and canceled when either the caller's context or the session
// context ends.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(opCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Navigate loads a document (file://, http(s):// or data: URL) into the tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, s.cfg.Browser.NavigationTimeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// NavigateHTML loads literal markup into the tab without touching disk.
func (s *Session) NavigateHTML(ctx context.Context, markup string) error {
	err := s.run(ctx, s.cfg.Browser.NavigationTimeout,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(c context.Context) error {
			frameTree, err := page.GetFrameTree().Do(c)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, markup).Do(c)
		}),
	)
	if err != nil {
		return fmt.Errorf("loading document markup: %w", err)
	}
	return nil
}

// WaitSettled blocks until the document has finished laying out: fonts
// loaded, two animation frames painted, and a quiet period elapsed. The
// whole wait is bounded by the configured settle timeout so a document
// that never stabilizes fails the run instead of hanging it.
func (s *Session) WaitSettled(ctx context.Context) error {
	quietMs := s.cfg.Browser.SettleQuiet.Milliseconds()
	script := fmt.Sprintf(`new Promise((resolve) => {
	document.fonts.ready.then(() => {
		requestAnimationFrame(() => {
			requestAnimationFrame(() => setTimeout(resolve, %d));
		});
	});
})`, quietMs)

	err := s.run(ctx, s.cfg.Browser.SettleTimeout,
		chromedp.Evaluate(script, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return fmt.Errorf("waiting for layout to settle: %w", err)
	}
	s.logger.Debug("Layout settled.")
	return nil
}

// Evaluate runs a script in the document and decodes its JSON result into
// out. The value is stringified in-page so decoding happens with one JSON
// codec on this side regardless of what the script returns.
func (s *Session) Evaluate(ctx context.Context, script string, out any) error {
	wrapped := fmt.Sprintf("JSON.stringify((%s))", script)
	var raw string
	if err := s.run(ctx, s.cfg.Browser.NavigationTimeout, chromedp.Evaluate(wrapped, &raw)); err != nil {
		return fmt.Errorf("evaluating script: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.UnmarshalFromString(raw, out); err != nil {
		return fmt.Errorf("decoding script result: %w", err)
	}
	return nil
}

// Close tears the tab down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.onClose != nil {
			s.onClose()
		}
		s.logger.Debug("Session closed.")
	})
}
