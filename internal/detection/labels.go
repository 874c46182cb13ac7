package detection

import (
	"math"

	"faceplate-scan/internal/imaging"
)

// Label-region heuristics. Faceplate controls usually carry a printed label
// directly beneath (sometimes above) the knob; these bands are found by the
// same edge-density screen used for generic text regions: printed text has
// moderate edge density dominated by horizontal runs.
const (
	// labelDensityMin and labelDensityMax bracket the edge density typical
	// of printed text; sparser is blank panel, denser is texture.
	labelDensityMin = 0.05
	labelDensityMax = 0.40

	// labelDensityIdeal is the density at which confidence peaks.
	labelDensityIdeal = 0.20
)

// LabelRegion is a candidate printed-label area adjacent to a detected
// control, in working-space coordinates.
type LabelRegion struct {
	// X1, Y1, X2, Y2 bound the region (inclusive top-left, exclusive
	// bottom-right).
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	// Circle is the index into the detection result's circle list this
	// region belongs to.
	Circle int `json:"circle"`

	// Confidence scores how text-like the region's edge structure is.
	Confidence float64 `json:"confidence"`
}

// LabelRegions proposes a printed-label region for each detected circle by
// screening the band beneath the control (falling back to the band above
// when the control sits at the bottom edge) for text-like edge density.
// Circles whose neighborhoods show no text-like structure produce no
// region, so the result may be shorter than the circle list.
func LabelRegions(field *imaging.GradientField, circles []Circle, minConfidence float64) []LabelRegion {
	if field.Empty() {
		return nil
	}

	var out []LabelRegion
	for i, c := range circles {
		bandW := 3 * c.Radius
		bandH := c.Radius
		if bandH < 8 {
			bandH = 8
		}

		x1 := clampInt(c.X-bandW/2, 0, field.Width)
		x2 := clampInt(c.X+bandW/2, 0, field.Width)

		// Prefer the band below the control.
		y1 := c.Y + c.Radius + 2
		y2 := y1 + bandH
		if y2 > field.Height {
			y2 = c.Y - c.Radius - 2
			y1 = y2 - bandH
		}
		y1 = clampInt(y1, 0, field.Height)
		y2 = clampInt(y2, 0, field.Height)
		if x2-x1 < 4 || y2-y1 < 4 {
			continue
		}

		density := edgeDensity(field, x1, y1, x2, y2)
		if density < labelDensityMin || density > labelDensityMax {
			continue
		}
		horizontal := horizontalScore(field, x1, y1, x2, y2)
		confidence := horizontal * (1.0 - math.Abs(density-labelDensityIdeal)/labelDensityIdeal)
		if confidence < minConfidence {
			continue
		}

		out = append(out, LabelRegion{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Circle:     i,
			Confidence: math.Round(confidence*1000) / 1000,
		})
	}
	return out
}

// edgeDensity returns the fraction of pixels in the window whose magnitude
// clears the field's edge threshold.
func edgeDensity(field *imaging.GradientField, x1, y1, x2, y2 int) float64 {
	edges := 0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if field.At(x, y) >= field.Threshold {
				edges++
			}
		}
	}
	return float64(edges) / float64((x2-x1)*(y2-y1))
}

// horizontalScore measures how strongly the window's edge runs are
// horizontal, which printed text labels are.
func horizontalScore(field *imaging.GradientField, x1, y1, x2, y2 int) float64 {
	horizontalRuns := 0
	for y := y1; y < y2; y++ {
		inRun := false
		for x := x1; x < x2; x++ {
			if field.At(x, y) >= field.Threshold {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	verticalRuns := 0
	for x := x1; x < x2; x++ {
		inRun := false
		for y := y1; y < y2; y++ {
			if field.At(x, y) >= field.Threshold {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
