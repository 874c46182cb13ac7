package detection

import (
	"math"

	"faceplate-scan/internal/imaging"
)

// minGradientNorm skips pixels whose gradient is too small to define a
// reliable direction.
const minGradientNorm = 1e-5

// sweepDirections is the number of fixed isotropic directions used by the
// angle-sweep fallback accumulator.
const sweepDirections = 12

// accumulateGradient runs the primary gradient-directed voting pass.
//
// For every interior edge pixel the unit gradient direction is computed and
// two votes are cast per candidate radius r: one at the pixel minus r times
// the direction and one at the pixel plus r times the direction. Casting
// both ways finds a control whether its photographed edge gradient points
// outward (raised boss) or inward (recessed bezel).
func accumulateGradient(field *imaging.GradientField, cfg Config) *voteGrid {
	grid := newVoteGrid(field.Width, field.Height)

	for y := 1; y < field.Height-1; y++ {
		for x := 1; x < field.Width-1; x++ {
			if field.At(x, y) <= field.Threshold {
				continue
			}
			gx, gy := field.GradientAt(x, y)
			norm := math.Hypot(gx, gy)
			if norm < minGradientNorm {
				continue
			}
			nx, ny := gx/norm, gy/norm

			for r := cfg.MinRadius; r <= cfg.MaxRadius; r += cfg.RadiusStep {
				fr := float64(r)
				grid.cast(x-int(math.Round(fr*nx)), y-int(math.Round(fr*ny)))
				grid.cast(x+int(math.Round(fr*nx)), y+int(math.Round(fr*ny)))
			}
		}
	}
	return grid
}

// accumulateSweep runs the isotropic fallback voting pass. Each edge pixel
// votes inward along a fixed fan of directions regardless of its own
// gradient direction, recovering detections on images where gradient
// direction is unreliable (heavy texture or noise) at the cost of a noisier
// grid.
func accumulateSweep(field *imaging.GradientField, cfg Config) *voteGrid {
	grid := newVoteGrid(field.Width, field.Height)

	sin := make([]float64, sweepDirections)
	cos := make([]float64, sweepDirections)
	for i := 0; i < sweepDirections; i++ {
		a := 2 * math.Pi * float64(i) / sweepDirections
		sin[i], cos[i] = math.Sincos(a)
	}

	for y := 1; y < field.Height-1; y++ {
		for x := 1; x < field.Width-1; x++ {
			if field.At(x, y) <= field.Threshold {
				continue
			}
			for i := 0; i < sweepDirections; i++ {
				for r := cfg.MinRadius; r <= cfg.MaxRadius; r += cfg.RadiusStep {
					fr := float64(r)
					grid.cast(x-int(math.Round(fr*cos[i])), y-int(math.Round(fr*sin[i])))
				}
			}
		}
	}
	return grid
}
