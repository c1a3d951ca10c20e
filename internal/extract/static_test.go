package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/deckforge/internal/units"
)

func TestFromHTMLCanvasFromBody(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(
		`<body style="width: 960px; height: 720px"></body>`))
	require.NoError(t, err)

	assert.Equal(t, units.InchesToEMU(10), doc.Canvas.Width)
	assert.Equal(t, units.InchesToEMU(7.5), doc.Canvas.Height)
	assert.Equal(t, "body", doc.Root.Path)
}

func TestFromHTMLGeometryAndPaths(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(`<body style="width: 960px; height: 720px">
		<div style="left: 10px; top: 20px; width: 100px; height: 50px"></div>
		<p style="left: 10px; top: 90px; width: 200px; height: 30px">hi</p>
	</body>`))
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 2)

	div := doc.Root.Children[0]
	assert.Equal(t, "body/div[0]", div.Path)
	assert.Equal(t, units.PxToEMUF(10), div.Box.X)
	assert.Equal(t, units.PxToEMUF(20), div.Box.Y)
	assert.Equal(t, units.PxToEMUF(100), div.Box.W)
	assert.Equal(t, units.PxToEMUF(50), div.Box.H)

	p := doc.Root.Children[1]
	assert.Equal(t, "body/p[1]", p.Path)
	require.Len(t, p.Children, 1)
	assert.True(t, p.Children[0].IsText())
	assert.Equal(t, "hi", p.Children[0].Text)
}

func TestFromHTMLSnapshotDefaultsMatchComputedStyle(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(
		`<body style="width: 100px; height: 100px"><div></div></body>`))
	require.NoError(t, err)

	s := doc.Root.Children[0].Style
	assert.Equal(t, "rgba(0, 0, 0, 0)", s.Get(PropBackgroundColor))
	assert.Equal(t, "none", s.Get(PropBackgroundImage))
	assert.Equal(t, "0px", s.Get(PropBorderTopWidth))
	assert.Equal(t, "none", s.Get(PropBorderTopStyle))
	assert.Equal(t, "none", s.Get(PropBoxShadow))
	assert.Equal(t, "400", s.Get(PropFontWeight))
}

func TestFromHTMLShorthandExpansion(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(`<body style="width: 100px; height: 100px">
		<div style="background: #ff0000; border: 2px solid blue; border-radius: 25%"></div>
		<div style="background: linear-gradient(90deg, red, blue)"></div>
	</body>`))
	require.NoError(t, err)

	solid := doc.Root.Children[0].Style
	assert.Equal(t, "#ff0000", solid.Get(PropBackgroundColor))
	assert.Equal(t, "25%", solid.Get(PropBorderRadius))
	for _, side := range []string{"top", "right", "bottom", "left"} {
		assert.Equal(t, "2px", solid.Get(Prop("border-"+side+"-width")), side)
		assert.Equal(t, "solid", solid.Get(Prop("border-"+side+"-style")), side)
		assert.Equal(t, "blue", solid.Get(Prop("border-"+side+"-color")), side)
	}

	grad := doc.Root.Children[1].Style
	assert.Contains(t, grad.Get(PropBackgroundImage), "gradient(")
	// The gradient shorthand must not leak into the solid background slot.
	assert.Equal(t, "rgba(0, 0, 0, 0)", grad.Get(PropBackgroundColor))
}

func TestFromHTMLInheritance(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(`<body style="width: 100px; height: 100px">
		<div style="color: #ff0000; font-weight: 700">
			<p style="width: 50px; height: 10px">child</p>
		</div>
	</body>`))
	require.NoError(t, err)

	p := doc.Root.Children[0].Children[0]
	assert.Equal(t, "#ff0000", p.Style.Get(PropColor))
	assert.Equal(t, "700", p.Style.Get(PropFontWeight))
	// Non-inherited properties stay at their defaults.
	assert.Equal(t, "rgba(0, 0, 0, 0)", p.Style.Get(PropBackgroundColor))
}

func TestFromHTMLAttributes(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(`<body style="width: 100px; height: 100px">
		<img src="chart.png" width="200" height="100" style="width: 80px; height: 80px">
		<div id="chart-1" class="placeholder" style="width: 40px; height: 40px"></div>
	</body>`))
	require.NoError(t, err)

	img := doc.Root.Children[0]
	assert.Equal(t, "chart.png", img.Attr("src"))
	assert.InDelta(t, 200.0, img.NaturalW, 1e-9)
	assert.InDelta(t, 100.0, img.NaturalH, 1e-9)

	ph := doc.Root.Children[1]
	assert.Equal(t, "chart-1", ph.Attr("id"))
	assert.Equal(t, "placeholder", ph.Attr("class"))
}

func TestFromHTMLNoBody(t *testing.T) {
	// html.Parse synthesizes a body for nearly anything, so only a truly
	// empty fragment exercises the guard; it still parses into a body.
	doc, err := FromHTML(strings.NewReader(""))
	require.NoError(t, err)
	require.NotNil(t, doc.Root)
	assert.Equal(t, "body", doc.Root.Tag)
}
