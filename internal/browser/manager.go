// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/internal/config"
)

const shutdownGracePeriod = 15 * time.Second

// Manager owns the headless browser process and hands out isolated tabs.
// One Session per document; the engine never shares a tab between runs
// unless the caller serializes access itself.
type Manager struct {
	logger *zap.Logger
	cfg    *config.Config

	allocCtx    context.Context
	allocCancel context.CancelFunc

	sessions map[string]*Session
	mu       sync.Mutex
	wg       sync.WaitGroup

	initOnce sync.Once
}

// NewManager creates a browser manager. The browser process itself starts
// lazily on the first session request.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		logger:   logger.Named("browser"),
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// initialize builds the exec allocator that launches Chrome on demand.
// Building the allocator cannot fail; a missing or broken binary only
// surfaces when the first tab starts.
func (m *Manager) initialize() {
	m.initOnce.Do(func() {
		opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		opts = append(opts,
			chromedp.Flag("headless", m.cfg.Browser.Headless),
			// Stability flags for containerized environments.
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			// Deterministic geometry: scrollbars and DPI scaling would
			// shift every measured box.
			chromedp.Flag("hide-scrollbars", true),
			chromedp.Flag("force-device-scale-factor", "1"),
		)
		if m.cfg.Browser.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(m.cfg.Browser.ExecPath))
		}
		for _, arg := range m.cfg.Browser.Args {
			opts = append(opts, chromedp.Flag(arg, true))
		}

		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		m.logger.Info("Browser allocator initialized.", zap.Bool("headless", m.cfg.Browser.Headless))
	})
}

// NewSession opens a fresh tab and returns its Session.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	m.initialize()

	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	// Ensure the target actually exists before handing the session out.
	startCtx, cancel := context.WithTimeout(tabCtx, m.cfg.Browser.NavigationTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("starting browser tab: %w", err)
	}
	select {
	case <-ctx.Done():
		tabCancel()
		return nil, ctx.Err()
	default:
	}

	s := newSession(tabCtx, tabCancel, m.cfg, m.logger)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.wg.Add(1)

	s.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, s.ID())
		m.mu.Unlock()
		m.wg.Done()
	}
	m.logger.Debug("Session created.", zap.String("session_id", s.ID()))
	return s, nil
}

// Shutdown closes every open session and tears down the browser process.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.Close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGracePeriod):
		m.logger.Warn("Timed out waiting for sessions to close.")
	}

	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.logger.Info("Browser manager shut down.")
}
