// Command faceplate-scan detects circular controls (knobs, buttons, switch
// bezels) in a faceplate photograph and prints the detections as JSON.
// Optionally it renders a review overlay PNG and reads printed labels near
// each detected control with OCR.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"faceplate-scan/internal/detection"
	"faceplate-scan/internal/imaging"
	"faceplate-scan/internal/ocr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// scanReport is the JSON document printed to stdout.
type scanReport struct {
	File           string                  `json:"file"`
	OriginalWidth  int                     `json:"original_width"`
	OriginalHeight int                     `json:"original_height"`
	Detection      *detection.Result       `json:"detection"`
	Rows           []imaging.Row           `json:"rows,omitempty"`
	Labels         []ocr.Label             `json:"labels,omitempty"`
	LabelRegions   []detection.LabelRegion `json:"label_regions,omitempty"`
}

func main() {
	var (
		maxSide     = flag.Int("max-side", 0, "downscale target for the image's long edge (0 = default)")
		minRadius   = flag.Int("min-radius", 0, "minimum control radius in working pixels (0 = default)")
		maxRadius   = flag.Int("max-radius", 0, "maximum control radius in working pixels (0 = default)")
		radiusStep  = flag.Int("radius-step", 0, "radius search step in pixels (0 = default)")
		maxResults  = flag.Int("max-results", 0, "cap on returned detections (0 = default)")
		nmsRadius   = flag.Int("nms-radius", 0, "duplicate-merge center distance in pixels (0 = default)")
		noSweep     = flag.Bool("no-sweep-fallback", false, "disable the angle-sweep fallback strategy")
		overlayPath = flag.String("overlay", "", "write a review overlay PNG to this path")
		readLabels  = flag.Bool("labels", false, "OCR printed labels near detected controls (needs Tesseract)")
		ocrLang     = flag.String("lang", "eng", "Tesseract language code for label OCR")
		verbose     = flag.Bool("v", false, "enable debug logging")
		version     = flag.Bool("version", false, "print version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("faceplate-scan %s (commit %s)\n", Version, GitCommit)
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: faceplate-scan [options] <image>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	cfg := detection.DefaultConfig()
	if *maxSide > 0 {
		cfg = cfg.WithMaxSide(*maxSide)
	}
	if *minRadius > 0 || *maxRadius > 0 {
		lo, hi := cfg.MinRadius, cfg.MaxRadius
		if *minRadius > 0 {
			lo = *minRadius
		}
		if *maxRadius > 0 {
			hi = *maxRadius
		}
		cfg = cfg.WithRadiusRange(lo, hi)
	}
	if *radiusStep > 0 {
		cfg.RadiusStep = *radiusStep
	}
	if *maxResults > 0 {
		cfg = cfg.WithMaxResults(*maxResults)
	}
	if *nmsRadius > 0 {
		cfg.NMSRadius = *nmsRadius
	}
	cfg.EnableAngleFallback = !*noSweep

	if err := run(flag.Arg(0), cfg, *overlayPath, *readLabels, *ocrLang, log); err != nil {
		log.Error().Err(err).Msg("scan failed")
		os.Exit(1)
	}
}

func run(path string, cfg detection.Config, overlayPath string, readLabels bool, ocrLang string, log zerolog.Logger) error {
	cache := imaging.NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		return err
	}
	bounds := img.Bounds()

	detector := detection.New(cfg).WithLogger(log)
	result := detector.Detect(img)
	log.Info().
		Str("strategy", result.Strategy).
		Int("circles", result.Count()).
		Float64("scale", result.Scale).
		Msg("detection finished")

	report := scanReport{
		File:           path,
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
		Detection:      result,
	}

	if result.Count() > 0 {
		centers := make([]imaging.Point, len(result.Circles))
		meanRadius := 0
		for i, c := range result.Circles {
			centers[i] = imaging.Point{X: c.X, Y: c.Y}
			meanRadius += c.Radius
		}
		meanRadius /= len(result.Circles)
		report.Rows = imaging.DetectRows(centers, float64(meanRadius)/2)
	}

	if readLabels && result.Count() > 0 {
		field := imaging.Preprocess(img, cfg.MaxSide, cfg.EdgePercentile)
		regions := detection.LabelRegions(field, result.Circles, 0.3)
		report.LabelRegions = regions
		labels, err := ocr.ReadLabels(img, regions, result.Scale, ocrLang)
		if err != nil {
			// OCR is an enrichment; report the detections anyway.
			log.Warn().Err(err).Msg("label OCR unavailable")
		} else {
			report.Labels = labels
		}
	}

	if overlayPath != "" && result.Count() > 0 {
		marks := make([]imaging.Marker, len(result.Circles))
		for i, c := range result.Circles {
			marks[i] = imaging.Marker{X: c.X, Y: c.Y, Radius: c.Radius, Label: fmt.Sprintf("%d", i+1)}
		}
		overlay, err := imaging.Overlay(img, marks, result.Scale, "#FF3030")
		if err != nil {
			return fmt.Errorf("overlay rendering: %w", err)
		}
		if err := os.WriteFile(overlayPath, overlay.PNG, 0o644); err != nil {
			return fmt.Errorf("writing overlay: %w", err)
		}
		log.Info().Str("path", overlayPath).Msg("wrote review overlay")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
