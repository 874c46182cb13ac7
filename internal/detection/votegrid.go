package detection

import "image"

// borderMargin keeps every candidate center at least this many pixels from
// the working-image edges, so ring sampling never reads out of bounds.
const borderMargin = 2

// voteGrid accumulates Hough-style center votes at working resolution.
// Counters saturate instead of wrapping; a saturated cell is still a valid
// peak candidate.
type voteGrid struct {
	w, h  int
	votes []uint16
}

func newVoteGrid(w, h int) *voteGrid {
	return &voteGrid{w: w, h: h, votes: make([]uint16, w*h)}
}

// cast increments the counter at (x, y) after clamping the target to stay
// borderMargin pixels inside the grid.
func (g *voteGrid) cast(x, y int) {
	if x < borderMargin {
		x = borderMargin
	} else if x > g.w-1-borderMargin {
		x = g.w - 1 - borderMargin
	}
	if y < borderMargin {
		y = borderMargin
	} else if y > g.h-1-borderMargin {
		y = g.h - 1 - borderMargin
	}
	i := y*g.w + x
	if g.votes[i] < ^uint16(0) {
		g.votes[i]++
	}
}

func (g *voteGrid) at(x, y int) int {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return 0
	}
	return int(g.votes[y*g.w+x])
}

// max returns the largest vote count in the grid.
func (g *voteGrid) max() int {
	best := 0
	for _, v := range g.votes {
		if int(v) > best {
			best = int(v)
		}
	}
	return best
}

// peaks returns every cell whose count reaches max(2, fraction × maxVote)
// and is a local maximum in its 3×3 neighborhood. Any strictly greater
// neighbor disqualifies a cell; equal neighbors do not, so plateau cells
// can all surface and are left for NMS to merge.
func (g *voteGrid) peaks(fraction float64) []image.Point {
	maxVote := g.max()
	if maxVote == 0 {
		return nil
	}
	minVotes := int(fraction * float64(maxVote))
	if minVotes < 2 {
		minVotes = 2
	}

	var out []image.Point
	for y := borderMargin; y < g.h-borderMargin; y++ {
		for x := borderMargin; x < g.w-borderMargin; x++ {
			v := g.at(x, y)
			if v < minVotes {
				continue
			}
			isMax := true
			for dy := -1; dy <= 1 && isMax; dy++ {
				for dx := -1; dx <= 1 && isMax; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if g.at(x+dx, y+dy) > v {
						isMax = false
					}
				}
			}
			if isMax {
				out = append(out, image.Point{X: x, Y: y})
			}
		}
	}
	return out
}
