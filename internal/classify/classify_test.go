package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slidesmith/deckforge/internal/extract"
)

func classifyMarkup(t *testing.T, markup string) []Classified {
	t.Helper()
	doc, err := extract.FromHTMLString(markup)
	require.NoError(t, err)
	return New(zap.NewNop()).Classify(doc.Root)
}

// rolesByPath flattens the result for assertions.
func rolesByPath(elems []Classified) map[string]Role {
	out := make(map[string]Role, len(elems))
	for _, el := range elems {
		out[el.Node.Path] = el.Role
	}
	return out
}

func TestClassifyTextBearingTags(t *testing.T) {
	tests := []struct {
		tag string
	}{
		{"p"}, {"h1"}, {"h2"}, {"h3"}, {"h4"}, {"h5"}, {"h6"}, {"ul"}, {"ol"}, {"blockquote"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			elems := classifyMarkup(t,
				`<body style="width: 100px; height: 100px"><`+tt.tag+`>text</`+tt.tag+`></body>`)
			roles := rolesByPath(elems)
			assert.Equal(t, TextBlock, roles["body/"+tt.tag+"[0]"])
		})
	}
}

func TestClassifyStyledContainerIsShape(t *testing.T) {
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<div style="background: #eeeeee; width: 50px; height: 50px"></div>
	</body>`)
	assert.Equal(t, ShapeContainer, rolesByPath(elems)["body/div[0]"])
}

func TestClassifyUnstyledWrapperIsIgnorable(t *testing.T) {
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<div><p>inside</p></div>
	</body>`)
	roles := rolesByPath(elems)
	assert.Equal(t, Ignorable, roles["body/div[0]"])
	// Children of an ignorable wrapper are still walked.
	assert.Equal(t, TextBlock, roles["body/div[0]/p[0]"])
}

func TestClassifyImage(t *testing.T) {
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<img src="logo.png" style="width: 40px; height: 40px">
		<img style="width: 40px; height: 40px">
	</body>`)
	roles := rolesByPath(elems)
	assert.Equal(t, Image, roles["body/img[0]"])
	// An img without a source references nothing and emits nothing.
	assert.Equal(t, Ignorable, roles["body/img[1]"])
}

func TestClassifyPlaceholderMarkers(t *testing.T) {
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<div class="placeholder box" id="chart-1" style="width: 40px; height: 40px"></div>
		<div data-placeholder="table-1" style="width: 40px; height: 40px"></div>
	</body>`)
	roles := rolesByPath(elems)
	assert.Equal(t, Placeholder, roles["body/div[0]"])
	assert.Equal(t, Placeholder, roles["body/div[1]"])
}

func TestClassifyPlaceholderContentExcluded(t *testing.T) {
	// Whatever sits inside a reserved region is never mapped.
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<div class="placeholder" id="chart-1" style="width: 40px; height: 40px">
			<p>caption that must not surface</p>
		</div>
	</body>`)
	roles := rolesByPath(elems)
	assert.Equal(t, Placeholder, roles["body/div[0]"])
	_, walked := roles["body/div[0]/p[0]"]
	assert.False(t, walked)
}

func TestClassifySplitCasePreservesZOrder(t *testing.T) {
	// A bordered box with a paragraph inside: the container becomes a
	// shape and the paragraph an independent text block on top of it.
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<div style="border: 1px solid black; width: 80px; height: 60px">
			<p style="width: 70px; height: 20px">caption</p>
		</div>
	</body>`)

	var emitted []Classified
	for _, el := range elems {
		if el.Role != Ignorable {
			emitted = append(emitted, el)
		}
	}
	require.Len(t, emitted, 2)
	assert.Equal(t, ShapeContainer, emitted[0].Role)
	assert.Equal(t, "body/div[0]", emitted[0].Node.Path)
	assert.Equal(t, TextBlock, emitted[1].Role)
	assert.Equal(t, "body/div[0]/p[0]", emitted[1].Node.Path)
}

func TestClassifyStyledTextElementNotSplit(t *testing.T) {
	// Shape styling directly on a heading stays a TextBlock; the conflict
	// is the validation engine's to report, not the classifier's to solve.
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<h1 style="background: #ff0000; width: 80px; height: 30px">Title</h1>
	</body>`)
	assert.Equal(t, TextBlock, rolesByPath(elems)["body/h1[0]"])
}

func TestClassifyUntaggedTextIgnored(t *testing.T) {
	// Text directly inside a generic container is silently dropped, per
	// the source tool's documented behavior.
	elems := classifyMarkup(t, `<body style="width: 100px; height: 100px">
		<div style="width: 50px; height: 20px">loose text</div>
	</body>`)
	roles := rolesByPath(elems)
	assert.Equal(t, Ignorable, roles["body/div[0]"])
}

func TestPlaceholderID(t *testing.T) {
	tests := []struct {
		name     string
		attrs    map[string]string
		expected string
	}{
		{"id attribute wins", map[string]string{"id": "chart-1", "data-placeholder": "alt"}, "chart-1"},
		{"marker value as fallback", map[string]string{"data-placeholder": "table-2"}, "table-2"},
		{"no identifier", map[string]string{"class": "placeholder"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &extract.SourceNode{Tag: "div", Attrs: tt.attrs}
			assert.Equal(t, tt.expected, PlaceholderID(n))
		})
	}
}

func TestHasTextBearingDescendant(t *testing.T) {
	doc, err := extract.FromHTMLString(`<body style="width: 100px; height: 100px">
		<div><div><p>deep</p></div></div>
		<div>plain text only</div>
	</body>`)
	require.NoError(t, err)

	assert.True(t, HasTextBearingDescendant(doc.Root.Children[0]))
	// Untagged text is not text-bearing.
	assert.False(t, HasTextBearingDescendant(doc.Root.Children[1]))
}
