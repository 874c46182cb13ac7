package detection

import (
	"math"
	"sort"
)

// nms performs greedy non-maximum suppression on detected circles.
//
// Circles are sorted by descending score; the best remaining circle is kept
// and every other circle whose center lies within mergeRadius of it is
// discarded. The result stays sorted by descending score and is truncated
// to maxResults. Running nms on its own output changes nothing.
func nms(circles []Circle, mergeRadius, maxResults int) []Circle {
	if len(circles) == 0 {
		return nil
	}

	sorted := make([]Circle, len(circles))
	copy(sorted, circles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	limit := float64(mergeRadius)
	kept := make([]Circle, 0, len(sorted))
	for _, c := range sorted {
		dup := false
		for _, k := range kept {
			dx := float64(c.X - k.X)
			dy := float64(c.Y - k.Y)
			if math.Hypot(dx, dy) < limit {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}

	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	return kept
}
