package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/internal/config"
	"github.com/slidesmith/deckforge/internal/units"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewManagerStartsLazy(t *testing.T) {
	mgr := NewManager(config.Default(), zap.NewNop())
	// No session requested, so no allocator and nothing to leak.
	assert.Nil(t, mgr.allocCtx)
	mgr.Shutdown()
}

func TestInitializeBuildsAllocatorOnce(t *testing.T) {
	mgr := NewManager(config.Default(), zap.NewNop())
	defer mgr.Shutdown()

	mgr.initialize()
	require.NotNil(t, mgr.allocCtx)
	first := mgr.allocCtx

	mgr.initialize()
	assert.True(t, first == mgr.allocCtx)
}

func TestShutdownIdempotentWithoutSessions(t *testing.T) {
	mgr := NewManager(config.Default(), zap.NewNop())
	mgr.Shutdown()
	mgr.Shutdown()
}

func TestSessionCloseIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	closed := 0
	s := newSession(ctx, cancel, config.Default(), zap.NewNop())
	s.onClose = func() { closed++ }

	s.Close()
	s.Close()
	assert.Equal(t, 1, closed)
}

func TestSessionIDsAreUnique(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := newSession(ctx, func() {}, config.Default(), zap.NewNop())
	b := newSession(ctx, func() {}, config.Default(), zap.NewNop())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEmpty(t, a.ID())
}

// TestRenderRoundTrip drives a real headless browser end to end. It needs a
// Chrome binary on the host, so it stays out of -short runs.
func TestRenderRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}

	mgr := NewManager(config.Default(), zap.NewNop())
	defer mgr.Shutdown()

	ctx := context.Background()
	sess, err := mgr.NewSession(ctx)
	if err != nil {
		t.Skipf("no usable browser on this host: %v", err)
	}
	defer sess.Close()

	const markup = `<!DOCTYPE html><html><head><style>
		body { margin: 0; width: 960px; height: 720px; position: relative; }
		div  { position: absolute; left: 40px; top: 40px; width: 400px; height: 200px; background: #336699; }
	</style></head><body><div></div></body></html>`

	require.NoError(t, sess.NavigateHTML(ctx, markup))
	require.NoError(t, sess.WaitSettled(ctx))

	var size struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	}
	require.NoError(t, sess.Evaluate(ctx,
		`({w: document.body.getBoundingClientRect().width, h: document.body.getBoundingClientRect().height})`,
		&size))

	assert.Equal(t, units.InchesToEMU(10), units.PxToEMU(size.W))
	assert.Equal(t, units.InchesToEMU(7.5), units.PxToEMU(size.H))
}
