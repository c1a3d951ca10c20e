package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPxToEMU(t *testing.T) {
	tests := []struct {
		name     string
		px       float64
		expected int64
	}{
		{"one pixel", 1, 9525},
		{"one inch of pixels", 96, 914400},
		{"zero", 0, 0},
		{"fractional rounds once", 0.5, 4763}, // 4762.5 rounds half away from zero
		{"negative offset", -2, -19050},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PxToEMU(tt.px))
		})
	}
}

func TestRoundingHappensOnce(t *testing.T) {
	// 1/3 of a pixel three times must equal one pixel after a single final
	// rounding, not drift from three intermediate roundings.
	frac := PxToEMUF(1.0 / 3.0)
	total := RoundEMU(frac * 3)
	assert.Equal(t, int64(9525), total)
}

func TestInchAndPointRatios(t *testing.T) {
	assert.Equal(t, int64(914400), InchesToEMU(1))
	assert.Equal(t, int64(9144000), InchesToEMU(10))
	assert.Equal(t, int64(12700), PointsToEMU(1))
	assert.Equal(t, int64(914400), PointsToEMU(72))
}

func TestResolvePercent(t *testing.T) {
	assert.InDelta(t, 25.0, ResolvePercent(25, 100), 1e-9)
	assert.InDelta(t, 50.0, ResolvePercent(25, 200), 1e-9)
	assert.InDelta(t, 0.0, ResolvePercent(0, 500), 1e-9)
}

func TestRoundTrip(t *testing.T) {
	assert.InDelta(t, 96.0, EMUToPx(914400), 1e-9)
	assert.InDelta(t, 1.0, EMUToInches(914400), 1e-9)
}
