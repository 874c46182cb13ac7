package detection

// Config holds the tunable parameters of a detection run. It is a plain
// value: construct one with DefaultConfig, adjust it with the With*
// modifiers (each returns a copy), and pass it to New. All radii are in
// working (downscaled) pixels.
type Config struct {
	// MaxSide is the downscale target for the image's long edge. Images
	// whose long edge exceeds it are resized before detection, bounding
	// CPU and memory cost independent of photo resolution.
	MaxSide int

	// MinRadius and MaxRadius bound the radius search range.
	MinRadius int
	MaxRadius int

	// RadiusStep is the stride used when voting across candidate radii.
	RadiusStep int

	// EdgePercentile selects the adaptive edge threshold: the magnitude
	// distribution's quantile at this fraction, floored at 0.10 by the
	// preprocessor.
	EdgePercentile float64

	// VoteThresholdFraction is the fraction of the vote grid's maximum a
	// pixel must reach to be considered a peak in the primary pass.
	VoteThresholdFraction float64

	// MaxResults caps the number of returned circles.
	MaxResults int

	// NMSRadius is the center distance within which two detections are
	// considered duplicates and merged.
	NMSRadius int

	// EnableAngleFallback enables the isotropic angle-sweep fallback when
	// the gradient-directed primary pass finds nothing.
	EnableAngleFallback bool
}

// DefaultConfig returns detection parameters tuned for typical faceplate
// photographs of rack equipment.
func DefaultConfig() Config {
	return Config{
		MaxSide:               960,
		MinRadius:             8,
		MaxRadius:             120,
		RadiusStep:            2,
		EdgePercentile:        0.25,
		VoteThresholdFraction: 0.12,
		MaxResults:            24,
		NMSRadius:             18,
		EnableAngleFallback:   true,
	}
}

// WithRadiusRange returns a copy of the config with a custom radius search
// range. The step is left unchanged.
func (c Config) WithRadiusRange(minRadius, maxRadius int) Config {
	c.MinRadius = minRadius
	c.MaxRadius = maxRadius
	return c
}

// WithMaxResults returns a copy of the config with a custom result cap.
func (c Config) WithMaxResults(n int) Config {
	c.MaxResults = n
	return c
}

// WithMaxSide returns a copy of the config with a custom downscale target.
func (c Config) WithMaxSide(px int) Config {
	c.MaxSide = px
	return c
}

// sanitized returns a copy with nonsensical values pulled back to usable
// ones, so a zero or hand-built Config cannot drive the pipeline out of
// bounds.
func (c Config) sanitized() Config {
	if c.MinRadius < 3 {
		c.MinRadius = 3
	}
	if c.MaxRadius < c.MinRadius {
		c.MaxRadius = c.MinRadius
	}
	if c.RadiusStep < 1 {
		c.RadiusStep = 1
	}
	if c.MaxResults < 1 {
		c.MaxResults = 1
	}
	if c.NMSRadius < 1 {
		c.NMSRadius = 1
	}
	if c.EdgePercentile <= 0 || c.EdgePercentile >= 1 {
		c.EdgePercentile = 0.25
	}
	return c
}
