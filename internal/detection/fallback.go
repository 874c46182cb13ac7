package detection

import (
	"image"
	"math"
	"sort"

	"faceplate-scan/internal/imaging"
)

// Grid-sampler constants. This tier needs no gradient information at all:
// only the normalized magnitude field and a loose edge floor.
const (
	// looseEdgeFloor and loosePercentile derive the grid sampler's edge
	// floor: max(0.06, 8th percentile of the magnitude field).
	looseEdgeFloor  = 0.06
	loosePercentile = 0.08

	// gridTargetCells sizes the candidate-center stride so roughly this
	// many cells span the image's shorter dimension.
	gridTargetCells = 100

	// gridCoverageMin is the minimum ring coverage for a grid candidate to
	// survive into the shared evaluation path.
	gridCoverageMin = 0.40
)

// gridCandidate is a coarse-grid center that cleared the loose coverage
// screen, remembered with its best ring coverage for the local-max filter.
type gridCandidate struct {
	x, y     int
	coverage float64
}

// runGridSampler is fallback 2: a brute ring scan over a coarse grid of
// candidate centers. For each center every radius in range is tested by
// sampling a precomputed ring-offset table against the loose floor; the
// best-covered radius is kept when it clears gridCoverageMin. Survivors are
// local-max filtered against neighboring grid cells and then pass through
// the same dense radius re-estimation and ring gate as accumulator peaks.
func runGridSampler(field *imaging.GradientField, scorer ringScorer, cfg Config) []Circle {
	short := field.Width
	if field.Height < short {
		short = field.Height
	}
	stride := short / gridTargetCells
	if stride < 1 {
		stride = 1
	}

	floor := math.Max(looseEdgeFloor, field.Percentile(loosePercentile))
	offsets := ringOffsets(cfg)

	// Screen every grid cell with the loose ring test.
	cells := make(map[image.Point]gridCandidate)
	for cy := borderMargin; cy <= field.Height-1-borderMargin; cy += stride {
		for cx := borderMargin; cx <= field.Width-1-borderMargin; cx += stride {
			best := 0.0
			for r := cfg.MinRadius; r <= cfg.MaxRadius; r += cfg.RadiusStep {
				hits := 0
				for _, o := range offsets[r] {
					if field.At(cx+o.X, cy+o.Y) >= floor {
						hits++
					}
				}
				if cov := float64(hits) / float64(len(offsets[r])); cov > best {
					best = cov
				}
			}
			if best >= gridCoverageMin {
				key := image.Point{X: cx / stride, Y: cy / stride}
				cells[key] = gridCandidate{x: cx, y: cy, coverage: best}
			}
		}
	}

	// Local-maximum filter in grid-cell space: a candidate survives only
	// when no neighboring cell screened better. Candidates are visited in
	// row-major order so results are deterministic.
	cands := make([]gridCandidate, 0, len(cells))
	for _, c := range cells {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].y != cands[j].y {
			return cands[i].y < cands[j].y
		}
		return cands[i].x < cands[j].x
	})

	var out []Circle
	for _, cand := range cands {
		isMax := true
		for dy := -1; dy <= 1 && isMax; dy++ {
			for dx := -1; dx <= 1 && isMax; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n, ok := cells[image.Point{X: cand.x/stride + dx, Y: cand.y/stride + dy}]
				if ok && n.coverage > cand.coverage {
					isMax = false
				}
			}
		}
		if !isMax {
			continue
		}
		if c, ok := scorer.evaluate(cand.x, cand.y, cfg); ok {
			out = append(out, c)
		}
	}
	return out
}

// ringOffsets precomputes ringSamples integer offsets for every radius in
// the configured range, keyed by radius.
func ringOffsets(cfg Config) map[int][]image.Point {
	table := make(map[int][]image.Point)
	for r := cfg.MinRadius; r <= cfg.MaxRadius; r += cfg.RadiusStep {
		pts := make([]image.Point, 0, ringSamples)
		for i := 0; i < ringSamples; i++ {
			a := 2 * math.Pi * float64(i) / ringSamples
			pts = append(pts, image.Point{
				X: int(math.Round(float64(r) * math.Cos(a))),
				Y: int(math.Round(float64(r) * math.Sin(a))),
			})
		}
		table[r] = pts
	}
	return table
}
