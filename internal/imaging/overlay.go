package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
)

// Marker describes one detected control to draw on a review overlay.
// Coordinates and radius are in working (downscaled) space; Overlay maps
// them back into the source image's coordinates using the detection scale.
type Marker struct {
	X      int    // Center X, working space
	Y      int    // Center Y, working space
	Radius int    // Radius, working space
	Label  string // Optional label drawn beside the marker (digits and comma only)
}

// OverlayResult contains the annotated review image encoded as PNG.
type OverlayResult struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    []byte `json:"-"`
}

// Overlay draws detection markers onto a copy of the source image for human
// review. Each marker is rendered as a circle outline with a center cross.
//
// Parameters:
//   - img: The original (full-resolution) faceplate image.
//   - marks: Detected controls in working-space coordinates.
//   - scale: The downscale factor the detector applied (working = original
//     × scale). Marker geometry is divided by this to land on the original.
//   - colorHex: Marker color as "#RRGGBB" or "#RRGGBBAA". Invalid values
//     fall back to semi-transparent red.
func Overlay(img image.Image, marks []Marker, scale float64, colorHex string) (*OverlayResult, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid overlay scale %v", scale)
	}

	markColor, err := parseHexColor(colorHex)
	if err != nil {
		markColor = color.RGBA{255, 0, 0, 200}
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, m := range marks {
		cx := bounds.Min.X + int(float64(m.X)/scale+0.5)
		cy := bounds.Min.Y + int(float64(m.Y)/scale+0.5)
		r := int(float64(m.Radius)/scale + 0.5)

		drawCircle(result, cx, cy, r, markColor)
		drawCross(result, cx, cy, markColor)
		if m.Label != "" {
			drawLabel(result, cx+4, cy+4, m.Label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		PNG:    buf.Bytes(),
	}, nil
}

// drawCircle rasterizes a circle outline with the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	if radius <= 0 {
		return
	}
	x := radius
	y := 0
	err := 0

	for x >= y {
		setIfInside(img, cx+x, cy+y, c)
		setIfInside(img, cx+y, cy+x, c)
		setIfInside(img, cx-y, cy+x, c)
		setIfInside(img, cx-x, cy+y, c)
		setIfInside(img, cx-x, cy-y, c)
		setIfInside(img, cx-y, cy-x, c)
		setIfInside(img, cx+y, cy-x, c)
		setIfInside(img, cx+x, cy-y, c)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawCross draws a small center cross.
func drawCross(img *image.RGBA, cx, cy int, c color.RGBA) {
	const arm = 3
	for d := -arm; d <= arm; d++ {
		setIfInside(img, cx+d, cy, c)
		setIfInside(img, cx, cy+d, c)
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	b := img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		img.Set(x, y, c)
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a simple text label at the given position
// This is a basic implementation - for production, consider using a font library
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	// Simple 3x5 pixel font for digits and comma
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Draw background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	// Draw text
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
