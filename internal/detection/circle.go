package detection

import (
	"fmt"
	"image"
)

// Strategy names reported in Result.Strategy.
const (
	StrategyGradient = "gradient" // gradient-directed accumulator (primary)
	StrategySweep    = "sweep"    // isotropic angle-sweep Hough (fallback 1)
	StrategyGrid     = "grid"     // coarse grid ring sampler (fallback 2)
	StrategyNone     = "none"     // nothing found, or degenerate input
)

// Circle is a detected circular control candidate.
//
// Coordinates and radius are in working (downscaled) pixel space; divide by
// Result.Scale to map back onto the original photograph. Score is a relative
// confidence: larger means more confident, and it is only meaningful for
// ranking detections within a single detection run.
type Circle struct {
	// X, Y is the circle center in working-space pixels.
	X int `json:"x"`
	Y int `json:"y"`

	// Radius in working-space pixels, always within the configured range.
	Radius int `json:"radius"`

	// Score is the ring-quality confidence used for ranking and NMS.
	Score float64 `json:"score"`

	// FillColor is the hex color sampled at the circle center in the
	// working image. May be empty if sampling was not possible.
	FillColor string `json:"fill_color,omitempty"`
}

// Result is the outcome of one detection run.
type Result struct {
	// Circles is sorted by descending Score; its length never exceeds the
	// configured MaxResults.
	Circles []Circle `json:"circles"`

	// Scale is the downscale factor applied before detection
	// (working = original × Scale; 1.0 means no downscale). Callers map
	// working coordinates back to the original image by dividing by it.
	Scale float64 `json:"scale"`

	// Width and Height are the working-image dimensions the circle
	// coordinates refer to.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Strategy names the pipeline tier that produced the circles:
	// "gradient", "sweep", "grid", or "none" when nothing was found.
	Strategy string `json:"strategy"`
}

// Count returns the number of detected circles.
func (r *Result) Count() int { return len(r.Circles) }

// sampleHex returns the hex color (#RRGGBB) of a pixel, or "" when the
// coordinates fall outside the image.
func sampleHex(img image.Image, x, y int) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	px, py := x+b.Min.X, y+b.Min.Y
	if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
		return ""
	}
	r, g, b8, _ := img.At(px, py).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b8>>8))
}
