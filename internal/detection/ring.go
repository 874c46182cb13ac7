package detection

import (
	"math"

	"faceplate-scan/internal/imaging"
)

// Ring-quality constants, empirically tuned against real equipment
// photographs. Do not adjust casually: the acceptance gate below was fitted
// alongside the accumulator thresholds.
const (
	// ringSamples is the number of evenly spaced points sampled on a
	// candidate ring when scoring it.
	ringSamples = 36

	// ringSectors is the number of angular buckets used for coverage:
	// a sector counts as covered when at least one of its samples is an
	// edge hit.
	ringSectors = 12

	// radiusProbeSamples is the sparser ring sampling used while
	// estimating the best radius for a peak.
	radiusProbeSamples = 12

	// radiusProbeFloor is the fixed edge-strength floor for radius
	// estimation hits.
	radiusProbeFloor = 0.2

	// alignDotMin is the minimum |dot(gradient, radial)| for a ring hit to
	// count as radially aligned.
	alignDotMin = 0.4

	// minCoverage, minAlignment and minRingHits form the acceptance gate:
	// a candidate becomes a detection only when all three hold. Coverage
	// rejects isolated edge fragments, alignment rejects tangential or
	// unrelated edges, and the hit count rejects sparse noisy rings.
	minCoverage  = 0.38
	minAlignment = 0.28
	minRingHits  = 8

	// coverageWeight and alignmentWeight blend the quality components into
	// the refinement objective and the final confidence score.
	coverageWeight  = 0.75
	alignmentWeight = 0.25

	// refineWindowFrac sizes the center-refinement search window as a
	// fraction of the candidate radius.
	refineWindowFrac = 0.10
)

// ringQuality describes how well a candidate ring matches the edges around
// it.
type ringQuality struct {
	coverage  float64 // fraction of angular sectors containing a hit
	alignment float64 // fraction of hits with radially aligned gradients
	hits      int     // raw count of ring samples above threshold
}

// score blends the quality components into a single ranking confidence.
func (q ringQuality) score() float64 {
	return coverageWeight*q.coverage + alignmentWeight*q.alignment
}

// accept applies the triple acceptance gate.
func (q ringQuality) accept() bool {
	return q.coverage >= minCoverage && q.alignment >= minAlignment && q.hits >= minRingHits
}

// ringScorer evaluates candidate circles against a gradient field. The same
// scorer serves the primary pass and both fallbacks; only the accumulator
// that proposes candidates differs between strategies.
type ringScorer struct {
	field *imaging.GradientField
}

func newRingScorer(field *imaging.GradientField) ringScorer {
	return ringScorer{field: field}
}

// estimateRadius picks the radius in [minR, maxR] (stepped by step) whose
// ring has the most edge hits above the fixed probe floor. Ties go to the
// smaller radius, scanned first.
func (s ringScorer) estimateRadius(cx, cy, minR, maxR, step int) int {
	best := minR
	bestHits := -1
	for r := minR; r <= maxR; r += step {
		hits := 0
		for i := 0; i < radiusProbeSamples; i++ {
			a := 2 * math.Pi * float64(i) / radiusProbeSamples
			px := cx + int(math.Round(float64(r)*math.Cos(a)))
			py := cy + int(math.Round(float64(r)*math.Sin(a)))
			if s.field.At(px, py) >= radiusProbeFloor {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = r
		}
	}
	return best
}

// quality samples ringSamples points on the ring at (cx, cy) with radius r
// and scores coverage, radial alignment and raw hit count against the given
// edge threshold.
func (s ringScorer) quality(cx, cy, r int, threshold float64) ringQuality {
	var q ringQuality
	if r <= 0 {
		return q
	}

	covered := [ringSectors]bool{}
	aligned := 0
	for i := 0; i < ringSamples; i++ {
		a := 2 * math.Pi * float64(i) / ringSamples
		dx, dy := math.Cos(a), math.Sin(a)
		px := cx + int(math.Round(float64(r)*dx))
		py := cy + int(math.Round(float64(r)*dy))
		if s.field.At(px, py) < threshold {
			continue
		}
		q.hits++
		covered[i*ringSectors/ringSamples] = true

		gx, gy := s.field.GradientAt(px, py)
		norm := math.Hypot(gx, gy)
		if norm < minGradientNorm {
			continue
		}
		if math.Abs((gx*dx+gy*dy)/norm) > alignDotMin {
			aligned++
		}
	}

	sectors := 0
	for _, c := range covered {
		if c {
			sectors++
		}
	}
	q.coverage = float64(sectors) / float64(ringSectors)
	if q.hits > 0 {
		q.alignment = float64(aligned) / float64(q.hits)
	}
	return q
}

// refineCenter searches a small window around (cx, cy), sized as a fraction
// of the radius, and returns the offset maximizing the blended quality
// score. The scan order is deterministic; ties keep the first (topmost,
// leftmost) candidate.
func (s ringScorer) refineCenter(cx, cy, r int, threshold float64) (int, int) {
	extent := int(float64(r)*refineWindowFrac + 0.5)
	if extent < 1 {
		extent = 1
	}

	bestX, bestY := cx, cy
	bestScore := s.quality(cx, cy, r, threshold).score()
	for dy := -extent; dy <= extent; dy++ {
		for dx := -extent; dx <= extent; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := s.clampCenter(cx+dx, cy+dy)
			sc := s.quality(x, y, r, threshold).score()
			if sc > bestScore {
				bestScore = sc
				bestX, bestY = x, y
			}
		}
	}
	return bestX, bestY
}

// evaluate turns a candidate center into an accepted circle, or reports
// failure. It estimates the best radius, refines the center, re-scores the
// refined ring and applies the acceptance gate.
func (s ringScorer) evaluate(cx, cy int, cfg Config) (Circle, bool) {
	cx, cy = s.clampCenter(cx, cy)
	r := s.estimateRadius(cx, cy, cfg.MinRadius, cfg.MaxRadius, cfg.RadiusStep)
	cx, cy = s.refineCenter(cx, cy, r, s.field.Threshold)
	q := s.quality(cx, cy, r, s.field.Threshold)
	if !q.accept() {
		return Circle{}, false
	}
	return Circle{X: cx, Y: cy, Radius: r, Score: q.score()}, true
}

// clampCenter pulls a candidate center back inside the border margin.
func (s ringScorer) clampCenter(x, y int) (int, int) {
	if x < borderMargin {
		x = borderMargin
	} else if x > s.field.Width-1-borderMargin {
		x = s.field.Width - 1 - borderMargin
	}
	if y < borderMargin {
		y = borderMargin
	} else if y > s.field.Height-1-borderMargin {
		y = s.field.Height - 1 - borderMargin
	}
	return x, y
}
