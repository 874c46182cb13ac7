// Package detection finds circular control silhouettes (knobs, buttons,
// switch bezels) in faceplate photographs.
//
// The detector is a single-entry pipeline: build a Detector with New and a
// Config, then call Detect with a decoded image. Internally five ordered
// stages run: preprocessing (delegated to the imaging package), a
// gradient-directed Hough-style accumulator, peak extraction with ring
// scoring and center refinement, progressively cruder fallback strategies,
// and non-maximum suppression.
//
// # Strategy Chain
//
// Strategies are tried in order and the first non-empty result wins:
//
//  1. Gradient accumulator: every edge pixel votes along its gradient
//     normal, inward and outward, across the radius range. Cheap and
//     precise when gradient directions are trustworthy.
//  2. Angle sweep: edge pixels vote along a fixed fan of 12 directions,
//     ignoring their own gradient. Recovers heavily textured images.
//  3. Grid ring sampler: no gradient information at all; a coarse grid of
//     candidate centers is screened by ring coverage against a loose edge
//     floor.
//
// All three share one ring scorer, so a candidate from any tier must pass
// the same coverage/alignment/hit-count acceptance gate.
//
// # Coordinates and Confidence
//
// Detected circles are in working (downscaled) pixel space; Result.Scale
// converts back to the original image. Scores are relative confidences,
// meaningful only for ranking within one Detect call.
//
// # Failure Model
//
// Detect never returns an error. Degenerate input and feature-free photos
// both yield an empty result; the three-tier fallback chain is the entire
// retry policy.
package detection
