package detection

import (
	"testing"

	"faceplate-scan/internal/imaging"
)

// textBand paints glyph-stem structure (short vertical strokes with gaps)
// into the magnitude field inside the given window, mimicking the edge
// pattern of a printed label.
func textBand(field *imaging.GradientField, x1, y1, x2, y2 int) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if (x/2)%4 == 0 { // 2 px stems on an 8 px pitch
				field.Mag[y*field.Width+x] = 0.8
			}
		}
	}
}

func TestLabelRegionsBelowCircle(t *testing.T) {
	field := ringField(200, 200, 100, 80, 25, 0)
	circles := []Circle{{X: 100, Y: 80, Radius: 25}}

	// Printed label directly beneath the knob.
	textBand(field, 70, 110, 130, 130)

	regions := LabelRegions(field, circles, 0.2)
	if len(regions) != 1 {
		t.Fatalf("expected 1 label region, got %d", len(regions))
	}
	r := regions[0]
	if r.Circle != 0 {
		t.Errorf("expected region for circle 0, got %d", r.Circle)
	}
	if r.Y1 < 80+25 {
		t.Errorf("label region should start below the circle, got Y1=%d", r.Y1)
	}
	if r.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %v", r.Confidence)
	}
}

func TestLabelRegionsBlankSurroundings(t *testing.T) {
	field := ringField(200, 200, 100, 100, 25, 0)
	circles := []Circle{{X: 100, Y: 100, Radius: 25}}

	regions := LabelRegions(field, circles, 0.2)
	if len(regions) != 0 {
		t.Fatalf("expected no label regions on a blank faceplate, got %+v", regions)
	}
}

func TestLabelRegionsDegenerateField(t *testing.T) {
	field := &imaging.GradientField{Scale: 1}
	if got := LabelRegions(field, []Circle{{X: 10, Y: 10, Radius: 5}}, 0.2); got != nil {
		t.Fatalf("expected nil for degenerate field, got %+v", got)
	}
}
