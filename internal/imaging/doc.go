// Package imaging provides image loading and preprocessing for faceplate
// control detection.
//
// The central operation is Preprocess, which converts a decoded faceplate
// photograph into a GradientField: a working-resolution smoothed luminance
// field with Sobel gradients, a normalized edge-magnitude map, and an
// adaptive edge threshold. The detection package consumes GradientField
// values; nothing in the pipeline mutates the caller's image.
//
// The package also carries the supporting surfaces around a detection run:
// an ImageCache for decoding photographs once and sharing them between
// detection, overlay rendering and OCR; Overlay for rendering detections
// back onto the original photograph for human review; and DetectRows for
// grouping detected control centers into horizontally aligned rows.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with origin at the top-left corner,
// X increasing rightward and Y increasing downward. GradientField values
// live in working (downscaled) space; GradientField.Scale converts back to
// the original image (original = working / Scale).
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Preprocess and Overlay are
// stateless and may be called concurrently on different images. A
// GradientField is read-only after Preprocess returns and may be shared.
package imaging
