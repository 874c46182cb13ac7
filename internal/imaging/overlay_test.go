package imaging

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestOverlayDrawsMarkers(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	marks := []Marker{{X: 50, Y: 50, Radius: 20, Label: "1"}}

	result, err := Overlay(img, marks, 1.0, "#FF0000")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if result.Width != 100 || result.Height != 100 {
		t.Fatalf("expected 100x100 overlay, got %dx%d", result.Width, result.Height)
	}

	decoded, err := png.Decode(bytes.NewReader(result.PNG))
	if err != nil {
		t.Fatalf("overlay PNG does not decode: %v", err)
	}

	// The circle outline passes through (70, 50); it must be marked red.
	r, g, b, _ := decoded.At(70, 50).RGBA()
	if !(r>>8 == 255 && g>>8 == 0 && b>>8 == 0) {
		t.Errorf("expected red marker pixel at (70,50), got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	// A pixel far from any marker stays untouched.
	r, g, b, _ = decoded.At(5, 95).RGBA()
	if !(r>>8 == 255 && g>>8 == 255 && b>>8 == 255) {
		t.Errorf("expected untouched white pixel at (5,95), got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestOverlayScalesWorkingCoordinates(t *testing.T) {
	img := createTestImage(200, 200, color.White)
	// Working space was half resolution: (50,50) r=20 maps to (100,100) r=40.
	marks := []Marker{{X: 50, Y: 50, Radius: 20}}

	result, err := Overlay(img, marks, 0.5, "#00FF00")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(result.PNG))
	if err != nil {
		t.Fatalf("overlay PNG does not decode: %v", err)
	}
	r, g, b, _ := decoded.At(140, 100).RGBA()
	if !(r>>8 == 0 && g>>8 == 255 && b>>8 == 0) {
		t.Errorf("expected scaled green marker at (140,100), got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestOverlayInvalidScale(t *testing.T) {
	img := createTestImage(10, 10, color.White)
	if _, err := Overlay(img, nil, 0, "#FF0000"); err == nil {
		t.Fatal("expected error for zero scale")
	}
}

func TestOverlayBadColorFallsBack(t *testing.T) {
	img := createTestImage(50, 50, color.White)
	result, err := Overlay(img, []Marker{{X: 25, Y: 25, Radius: 10}}, 1.0, "not-a-color")
	if err != nil {
		t.Fatalf("Overlay should fall back on a bad color, got error: %v", err)
	}
	if len(result.PNG) == 0 {
		t.Fatal("expected encoded overlay output")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#102030")
	if err != nil {
		t.Fatalf("parseHexColor failed: %v", err)
	}
	if c.R != 0x10 || c.G != 0x20 || c.B != 0x30 || c.A != 255 {
		t.Errorf("unexpected color %+v", c)
	}

	c, err = parseHexColor("#10203040")
	if err != nil {
		t.Fatalf("parseHexColor failed: %v", err)
	}
	if c.A != 0x40 {
		t.Errorf("expected alpha 0x40, got %d", c.A)
	}

	if _, err := parseHexColor(""); err == nil {
		t.Error("expected error for empty string")
	}
	if _, err := parseHexColor("#FFF"); err == nil {
		t.Error("expected error for short string")
	}
}
