package detection

import (
	"image"

	"faceplate-scan/internal/imaging"
)

// sweepPeakFraction is the looser vote-threshold fraction used when
// extracting peaks from the angle-sweep fallback grid. The unchanged ring
// gate keeps the extra candidates honest.
const sweepPeakFraction = 0.10

// A strategy proposes candidate circles from a gradient field. Strategies
// are tried in order; the first one returning a non-empty slice wins. The
// chain's policy is: try harder (gradient direction), try cruder (isotropic
// sweep), try crudest (no gradients at all), give up.
type strategy struct {
	name string
	run  func(field *imaging.GradientField, scorer ringScorer, cfg Config) []Circle
}

// strategyChain builds the ordered strategy list for one detection run.
func strategyChain(cfg Config) []strategy {
	chain := []strategy{{name: StrategyGradient, run: runGradient}}
	if cfg.EnableAngleFallback {
		chain = append(chain, strategy{name: StrategySweep, run: runSweep})
	}
	return append(chain, strategy{name: StrategyGrid, run: runGridSampler})
}

// runGradient is the primary pass: gradient-directed accumulator, peak
// extraction at the configured vote fraction, then the shared ring gate.
func runGradient(field *imaging.GradientField, scorer ringScorer, cfg Config) []Circle {
	grid := accumulateGradient(field, cfg)
	return evaluatePeaks(grid.peaks(cfg.VoteThresholdFraction), scorer, cfg)
}

// runSweep is fallback 1: isotropic accumulator and a looser peak fraction,
// with the same ring gate as the primary pass.
func runSweep(field *imaging.GradientField, scorer ringScorer, cfg Config) []Circle {
	grid := accumulateSweep(field, cfg)
	return evaluatePeaks(grid.peaks(sweepPeakFraction), scorer, cfg)
}

func evaluatePeaks(peaks []image.Point, scorer ringScorer, cfg Config) []Circle {
	var out []Circle
	for _, p := range peaks {
		if c, ok := scorer.evaluate(p.X, p.Y, cfg); ok {
			out = append(out, c)
		}
	}
	return out
}
