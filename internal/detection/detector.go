package detection

import (
	"image"

	"github.com/rs/zerolog"

	"faceplate-scan/internal/imaging"
)

// Detector runs the circular-control detection pipeline over faceplate
// photographs. A Detector is immutable after construction and safe for
// concurrent Detect calls on different images: all intermediate buffers
// (gradient fields, vote grids) are local to one call.
type Detector struct {
	cfg Config
	log zerolog.Logger
}

// New creates a Detector with the given configuration. Logging is disabled
// until WithLogger is used.
func New(cfg Config) *Detector {
	return &Detector{
		cfg: cfg.sanitized(),
		log: zerolog.Nop(),
	}
}

// WithLogger returns a copy of the detector that logs stage transitions and
// candidate counts at debug level.
func (d *Detector) WithLogger(log zerolog.Logger) *Detector {
	return &Detector{cfg: d.cfg, log: log}
}

// Config returns the detector's effective (sanitized) configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect scans a faceplate photograph for circular control silhouettes and
// returns candidate circles ordered by descending confidence.
//
// The call is synchronous and never fails: a degenerate image or a photo
// with no detectable circular features yields an empty result, which is a
// normal outcome. Strategies run in order (gradient-directed accumulator,
// isotropic angle sweep, coarse grid ring sampler); the first strategy that
// produces accepted circles wins and its name is recorded in
// Result.Strategy.
//
// Circle coordinates are in the downscaled working space; Result.Scale maps
// them back onto the input image (original = working / Scale).
func (d *Detector) Detect(img image.Image) *Result {
	field := imaging.Preprocess(img, d.cfg.MaxSide, d.cfg.EdgePercentile)
	result := &Result{
		Scale:    field.Scale,
		Width:    field.Width,
		Height:   field.Height,
		Strategy: StrategyNone,
	}
	if field.Empty() {
		d.log.Debug().Int("width", field.Width).Int("height", field.Height).
			Msg("degenerate image, skipping detection")
		return result
	}

	d.log.Debug().
		Int("width", field.Width).Int("height", field.Height).
		Float64("scale", field.Scale).Float64("threshold", field.Threshold).
		Msg("preprocessed gradient field")

	scorer := newRingScorer(field)
	for _, s := range strategyChain(d.cfg) {
		circles := s.run(field, scorer, d.cfg)
		d.log.Debug().Str("strategy", s.name).Int("accepted", len(circles)).
			Msg("strategy pass complete")
		if len(circles) == 0 {
			continue
		}

		circles = nms(circles, d.cfg.NMSRadius, d.cfg.MaxResults)
		for i := range circles {
			circles[i].FillColor = sampleHex(field.Src, circles[i].X, circles[i].Y)
		}
		result.Circles = circles
		result.Strategy = s.name
		break
	}

	d.log.Debug().Str("strategy", result.Strategy).Int("circles", len(result.Circles)).
		Msg("detection complete")
	return result
}
