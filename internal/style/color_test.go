package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected Color
		ok       bool
	}{
		// Keywords
		{"red", Color{R: 255, G: 0, B: 0, A: 255}, true},
		{"transparent", Color{R: 0, G: 0, B: 0, A: 0}, true},
		{"WHITE", Color{R: 255, G: 255, B: 255, A: 255}, true},
		// Hex
		{"#ff0099", Color{R: 0xff, G: 0x00, B: 0x99, A: 255}, true},
		{"#f09", Color{R: 0xff, G: 0x00, B: 0x99, A: 255}, true},
		{"#ff009988", Color{R: 0xff, G: 0x00, B: 0x99, A: 0x88}, true},
		// RGB/RGBA, as reported by computed styles
		{"rgb(255, 0, 153)", Color{R: 255, G: 0, B: 153, A: 255}, true},
		{"rgba(0, 0, 0, 0)", Color{R: 0, G: 0, B: 0, A: 0}, true},
		{"rgba(0, 0, 0, 0.5)", Color{R: 0, G: 0, B: 0, A: 128}, true},
		{"rgb(100%, 50%, 0%)", Color{R: 255, G: 128, B: 0, A: 255}, true},
		// Invalid
		{"blurple", Color{}, false},
		{"#12345", Color{}, false},
		{"", Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual, ok := ParseColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "FF0099", Color{R: 0xff, G: 0, B: 0x99, A: 255}.Hex())
	assert.Equal(t, "000000", Color{A: 255}.Hex())
}

func TestColorTransparent(t *testing.T) {
	assert.True(t, Color{R: 10, G: 20, B: 30, A: 0}.Transparent())
	assert.False(t, Color{A: 1}.Transparent())
}
