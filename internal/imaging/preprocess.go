package imaging

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// Preprocessing constants, tuned against real equipment photographs.
const (
	// blurRadius is the Gaussian blur applied before gradient computation
	// to suppress sensor noise without smearing control edges.
	blurRadius = 1.5

	// satDamp pulls pixel saturation toward neutral before the luma
	// conversion, so strongly colored silkscreen does not dominate the
	// gradient field.
	satDamp = 0.85

	// edgeFloor is the minimum adaptive edge threshold. Low-contrast
	// faceplates still retain some edges above this.
	edgeFloor = 0.10

	// defaultEdgePercentile selects the adaptive threshold from the
	// magnitude distribution when the caller does not pick one: edges
	// weaker than the 25th percentile are noise.
	defaultEdgePercentile = 0.25
)

// GradientField holds the smoothed luminance gradients of a working-resolution
// faceplate image. It is the input to every detection strategy.
//
// Gx, Gy and Mag are flat row-major arrays of length Width*Height. Mag is
// normalized to [0, 1] using the observed min/max. Threshold is the adaptive
// edge threshold derived from the magnitude distribution.
//
// Scale records the uniform factor applied when downscaling the source image
// (working = original × Scale). It is 1.0 when no downscale was needed.
// Callers converting detections back into original-image coordinates divide
// by Scale.
type GradientField struct {
	Width  int
	Height int
	Scale  float64

	Gx  []float64
	Gy  []float64
	Mag []float64

	Threshold float64

	// Src is the working-resolution image the field was computed from.
	// Kept so detection results can sample pixel colors at circle centers.
	Src image.Image
}

// Empty reports whether the field is too small to contain any detectable
// circle. A zero-area source image produces an empty field.
func (f *GradientField) Empty() bool {
	return f.Width < 5 || f.Height < 5
}

// At returns the normalized gradient magnitude at (x, y), or 0 outside the
// field. Ring sampling near the image border relies on the out-of-bounds
// case returning no edge.
func (f *GradientField) At(x, y int) float64 {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	return f.Mag[y*f.Width+x]
}

// GradientAt returns the raw Sobel gradient components at (x, y), or zeros
// outside the field.
func (f *GradientField) GradientAt(x, y int) (float64, float64) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0, 0
	}
	i := y*f.Width + x
	return f.Gx[i], f.Gy[i]
}

// Percentile returns the p-quantile (0..1) of the normalized magnitude
// distribution. Used to derive looser edge floors for fallback strategies.
func (f *GradientField) Percentile(p float64) float64 {
	if len(f.Mag) == 0 {
		return 0
	}
	sorted := make([]float64, len(f.Mag))
	copy(sorted, f.Mag)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Preprocess converts a faceplate photograph into a GradientField at working
// resolution.
//
// The pipeline is:
//
//  1. Downscale: if the long edge exceeds maxSide, resize uniformly with
//     Lanczos resampling so the long edge equals maxSide. The factor is
//     recorded in GradientField.Scale.
//  2. Luminance: mild saturation normalization in HSL space, then BT.709
//     luma weighting (0.2126 R + 0.7152 G + 0.0722 B).
//  3. Blur: 1.5 px Gaussian to suppress sensor noise.
//  4. Gradients: 3×3 Sobel convolution for Gx/Gy, magnitude = hypot(Gx, Gy)
//     normalized to [0, 1].
//  5. Threshold: max(0.10, the edgePercentile quantile of magnitude), so
//     faint faceplates keep some edges. A percentile outside (0, 1) falls
//     back to 0.25.
//
// A zero-area image yields an empty field; callers short-circuit to an empty
// detection result.
func Preprocess(img image.Image, maxSide int, edgePercentile float64) *GradientField {
	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()

	field := &GradientField{Scale: 1.0}
	if origW <= 0 || origH <= 0 {
		return field
	}

	// Downscale so the long edge is at most maxSide.
	working := img
	if maxSide > 0 && (origW > maxSide || origH > maxSide) {
		if origW >= origH {
			working = imaging.Resize(img, maxSide, 0, imaging.Lanczos)
		} else {
			working = imaging.Resize(img, 0, maxSide, imaging.Lanczos)
		}
		field.Scale = float64(working.Bounds().Dx()) / float64(origW)
	}

	wb := working.Bounds()
	width := wb.Dx()
	height := wb.Dy()

	field.Width = width
	field.Height = height
	field.Src = working
	if field.Empty() {
		return field
	}

	// Saturation-normalized luminance.
	grayImg := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := working.At(x+wb.Min.X, y+wb.Min.Y).RGBA()
			col := colorful.Color{
				R: float64(r>>8) / 255.0,
				G: float64(g>>8) / 255.0,
				B: float64(b>>8) / 255.0,
			}
			if h, s, l := col.Hsl(); s > 0 {
				col = colorful.Hsl(h, s*satDamp, l)
			}
			luma := 0.2126*col.R + 0.7152*col.G + 0.0722*col.B
			grayImg.SetGray(x, y, grayColor(luma))
		}
	}

	// Gaussian blur before gradient computation.
	blurred := blur.Gaussian(grayImg, blurRadius)
	gray := make([]float64, width*height)
	bb := blurred.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := blurred.At(x+bb.Min.X, y+bb.Min.Y).RGBA()
			gray[y*width+x] = float64(r>>8) / 255.0
		}
	}

	// Sobel gradients.
	field.Gx = make([]float64, width*height)
	field.Gy = make([]float64, width*height)
	field.Mag = make([]float64, width*height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	minMag := math.Inf(1)
	maxMag := math.Inf(-1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					v := gray[py*width+px]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			i := y*width + x
			field.Gx[i] = gx
			field.Gy[i] = gy
			mag := math.Hypot(gx, gy)
			field.Mag[i] = mag
			if mag < minMag {
				minMag = mag
			}
			if mag > maxMag {
				maxMag = mag
			}
		}
	}

	// Normalize magnitude to [0, 1].
	if span := maxMag - minMag; span > 0 {
		for i := range field.Mag {
			field.Mag[i] = (field.Mag[i] - minMag) / span
		}
	} else {
		for i := range field.Mag {
			field.Mag[i] = 0
		}
	}

	if edgePercentile <= 0 || edgePercentile >= 1 {
		edgePercentile = defaultEdgePercentile
	}
	field.Threshold = math.Max(edgeFloor, field.Percentile(edgePercentile))
	return field
}

// grayColor converts a luminance in [0, 1] to an 8-bit gray pixel.
func grayColor(luma float64) color.Gray {
	v := int(luma*255.0 + 0.5)
	return color.Gray{Y: uint8(clamp(v, 0, 255))}
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
