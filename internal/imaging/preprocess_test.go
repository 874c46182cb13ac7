package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocessDegenerate(t *testing.T) {
	for _, size := range []int{0, 1, 3} {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		field := Preprocess(img, 960, 0)
		if !field.Empty() {
			t.Errorf("%dx%d image: expected empty field", size, size)
		}
		if field.Scale != 1.0 {
			t.Errorf("%dx%d image: expected scale 1.0, got %v", size, size, field.Scale)
		}
	}
}

func TestPreprocessNoDownscale(t *testing.T) {
	img := createTestImage(100, 80, color.White)
	field := Preprocess(img, 960, 0)
	if field.Width != 100 || field.Height != 80 {
		t.Fatalf("expected 100x80 working field, got %dx%d", field.Width, field.Height)
	}
	if field.Scale != 1.0 {
		t.Errorf("expected scale 1.0, got %v", field.Scale)
	}
}

func TestPreprocessDownscale(t *testing.T) {
	img := createTestImage(1000, 500, color.White)
	field := Preprocess(img, 250, 0)
	if field.Width != 250 {
		t.Fatalf("expected working width 250, got %d", field.Width)
	}
	if math.Abs(field.Scale-0.25) > 0.01 {
		t.Errorf("expected scale 0.25, got %v", field.Scale)
	}
}

func TestPreprocessDownscalePortrait(t *testing.T) {
	img := createTestImage(400, 1000, color.White)
	field := Preprocess(img, 500, 0)
	if field.Height != 500 {
		t.Fatalf("expected working height 500, got %d", field.Height)
	}
	if math.Abs(field.Scale-0.5) > 0.01 {
		t.Errorf("expected scale 0.5, got %v", field.Scale)
	}
}

func TestPreprocessGradients(t *testing.T) {
	// Left half dark, right half bright: a single vertical step edge.
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.Set(x, y, color.RGBA{20, 20, 20, 255})
			} else {
				img.Set(x, y, color.RGBA{230, 230, 230, 255})
			}
		}
	}

	field := Preprocess(img, 960, 0)

	// Magnitude is normalized: everything in [0,1], with the maximum on
	// the step edge.
	maxAt := -1
	maxVal := 0.0
	for i, m := range field.Mag {
		if m < 0 || m > 1 {
			t.Fatalf("magnitude %v at %d outside [0,1]", m, i)
		}
		if m > maxVal {
			maxVal = m
			maxAt = i
		}
	}
	if maxVal != 1.0 {
		t.Fatalf("expected normalized maximum 1.0, got %v", maxVal)
	}
	if x := maxAt % field.Width; x < 45 || x > 55 {
		t.Errorf("strongest edge at x=%d, expected near the step at 50", x)
	}

	// The step edge is vertical, so the gradient there is horizontal.
	gx, gy := field.GradientAt(maxAt%field.Width, maxAt/field.Width)
	if math.Abs(gx) <= math.Abs(gy) {
		t.Errorf("expected |Gx| > |Gy| on a vertical edge, got Gx=%v Gy=%v", gx, gy)
	}

	if field.Threshold < 0.10 {
		t.Errorf("adaptive threshold %v below the 0.10 floor", field.Threshold)
	}
}

func TestPreprocessFlatImageThreshold(t *testing.T) {
	img := createTestImage(60, 60, color.RGBA{128, 128, 128, 255})
	field := Preprocess(img, 960, 0)
	// No gradients anywhere; the floor still applies.
	if field.Threshold < 0.10 {
		t.Errorf("expected threshold >= 0.10, got %v", field.Threshold)
	}
	for _, m := range field.Mag {
		if m != 0 {
			t.Fatalf("expected zero magnitude on a flat image, got %v", m)
		}
	}
}

func TestGradientFieldAtOutOfBounds(t *testing.T) {
	field := Preprocess(createTestImage(20, 20, color.White), 960, 0)
	if field.At(-1, 5) != 0 || field.At(5, -1) != 0 || field.At(25, 5) != 0 || field.At(5, 25) != 0 {
		t.Error("out-of-bounds magnitude should read as 0")
	}
	if gx, gy := field.GradientAt(-3, -3); gx != 0 || gy != 0 {
		t.Error("out-of-bounds gradient should read as 0")
	}
}

func TestPercentile(t *testing.T) {
	field := &GradientField{
		Width: 2, Height: 2,
		Mag: []float64{0.1, 0.2, 0.3, 0.4},
	}
	low := field.Percentile(0.08)
	high := field.Percentile(0.9)
	if low > high {
		t.Fatalf("percentiles not monotonic: p08=%v p90=%v", low, high)
	}
	if low < 0.1 || high > 0.4 {
		t.Errorf("percentiles outside data range: p08=%v p90=%v", low, high)
	}
}
