// Package ocr reads printed control labels from faceplate photographs using
// Tesseract (via gosseract/v2).
//
// Tesseract must be installed on the system along with language data for
// the requested language ("eng" by default on most installs). OCR is an
// optional enrichment step: per-region failures are non-fatal and surface
// as empty labels, so a missing Tesseract install degrades detection output
// rather than breaking it.
package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"faceplate-scan/internal/detection"
)

// Label is the OCR reading for one detected control's label region.
type Label struct {
	// Circle is the index of the control in the detection result this
	// label belongs to.
	Circle int `json:"circle"`

	// Text is the recognized label text, whitespace-trimmed. Empty when
	// OCR found nothing legible in the region.
	Text string `json:"text"`

	// Confidence is Tesseract's mean word confidence for the region
	// (0.0 to 1.0), or 0 when no words were recognized.
	Confidence float64 `json:"confidence"`
}

// ReadLabels runs OCR over the label regions proposed for detected
// controls.
//
// Regions are in working (downscaled) coordinates; scale is the detection
// result's Scale and maps them back onto the original image before
// cropping. Each region is cropped, written to a temporary PNG (Tesseract
// wants a file path) and read independently; a region that fails OCR simply
// yields an empty label. The only fatal errors are environmental: Tesseract
// itself unavailable or the temporary directory unwritable.
func ReadLabels(img image.Image, regions []detection.LabelRegion, scale float64, language string) ([]Label, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}
	if language == "" {
		language = "eng"
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	labels := make([]Label, 0, len(regions))
	for _, region := range regions {
		text, confidence, err := readRegion(client, img, region, scale)
		if err != nil {
			// Unreadable region, not a pipeline failure.
			labels = append(labels, Label{Circle: region.Circle})
			continue
		}
		labels = append(labels, Label{
			Circle:     region.Circle,
			Text:       text,
			Confidence: confidence,
		})
	}
	return labels, nil
}

// readRegion crops one label region out of the original image and OCRs it.
func readRegion(client *gosseract.Client, img image.Image, region detection.LabelRegion, scale float64) (string, float64, error) {
	b := img.Bounds()
	rect := image.Rect(
		b.Min.X+int(float64(region.X1)/scale),
		b.Min.Y+int(float64(region.Y1)/scale),
		b.Min.X+int(float64(region.X2)/scale),
		b.Min.Y+int(float64(region.Y2)/scale),
	).Intersect(b)
	if rect.Empty() {
		return "", 0, fmt.Errorf("label region outside image bounds")
	}

	cropped := imaging.Crop(img, rect)

	// Tesseract needs a file path.
	tmpFile, err := os.CreateTemp("", "faceplate-label-*.png")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, cropped); err != nil {
		tmpFile.Close()
		return "", 0, fmt.Errorf("failed to encode label crop: %w", err)
	}
	tmpFile.Close()

	if err := client.SetImage(tmpPath); err != nil {
		return "", 0, fmt.Errorf("failed to set OCR image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	confidence := 0.0
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil && len(boxes) > 0 {
		sum := 0.0
		for _, box := range boxes {
			sum += float64(box.Confidence)
		}
		confidence = sum / float64(len(boxes)) / 100.0
	}

	return strings.TrimSpace(text), confidence, nil
}
