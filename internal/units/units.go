// internal/units/units.go
//
// Length conversion between the CSS pixel space produced by the layout pass
// and the EMU space of the target format. All ratios are exact; rounding to
// integer EMU happens exactly once, at the final output stage, so chains of
// relative computations never compound rounding error.
package units

import "math"

const (
	// EMUPerInch is the fixed definition of an English Metric Unit.
	EMUPerInch = 914400
	// PxPerInch is the CSS reference pixel density.
	PxPerInch = 96
	// EMUPerPx follows exactly from the two above (914400 / 96).
	EMUPerPx = 9525
	// EMUPerPoint converts typographic points (914400 / 72).
	EMUPerPoint = 12700
)

// PxToEMUF converts a pixel length to fractional EMU without rounding.
// Intermediate stages work in this representation.
func PxToEMUF(px float64) float64 { return px * EMUPerPx }

// RoundEMU performs the single final rounding to integer EMU.
func RoundEMU(emu float64) int64 { return int64(math.Round(emu)) }

// PxToEMU is the combined final-stage conversion.
func PxToEMU(px float64) int64 { return RoundEMU(PxToEMUF(px)) }

// EMUToPx is the inverse, used for logging and tests.
func EMUToPx(emu int64) float64 { return float64(emu) / EMUPerPx }

// EMUToInches is the inverse against the inch definition.
func EMUToInches(emu int64) float64 { return float64(emu) / EMUPerInch }

// InchesToEMU converts a canvas declaration given in inches.
func InchesToEMU(in float64) int64 { return int64(math.Round(in * EMUPerInch)) }

// PointsToEMU converts a length given in typographic points.
func PointsToEMU(pt float64) int64 { return int64(math.Round(pt * EMUPerPoint)) }

// ResolvePercent resolves a relative percentage value against a reference
// dimension of the node's own box. The reference must come from the layout
// pass, which is why percentage resolution can only run after extraction.
func ResolvePercent(pct, reference float64) float64 {
	return pct / 100 * reference
}
