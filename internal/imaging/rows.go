package imaging

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Point represents a 2D point
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Row is a horizontal group of detected control centers. Faceplates usually
// lay controls out in rows; grouping detections this way gives the review UI
// a layout hint.
type Row struct {
	// Points are the member centers, ordered left to right.
	Points []Point `json:"points"`

	// MeanY is the average vertical position of the row.
	MeanY float64 `json:"mean_y"`

	// Spread is the standard deviation of member Y positions.
	Spread float64 `json:"spread"`

	// Aligned is true when Spread is within the grouping tolerance.
	Aligned bool `json:"aligned"`
}

// DetectRows groups control centers into horizontally aligned rows.
//
// Centers are clustered greedily by vertical proximity: a point joins the
// current row while its Y position is within tolerance of the row's running
// mean, otherwise it starts a new row. Rows are returned top to bottom with
// members ordered left to right.
//
// A tolerance of roughly half the typical control radius works well. With
// fewer than two points the single (or empty) trivial grouping is returned.
func DetectRows(points []Point, tolerance float64) []Row {
	if len(points) == 0 {
		return nil
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []Row
	var current []Point
	for _, p := range sorted {
		if len(current) > 0 {
			if math.Abs(float64(p.Y)-meanY(current)) > tolerance {
				rows = append(rows, buildRow(current, tolerance))
				current = nil
			}
		}
		current = append(current, p)
	}
	rows = append(rows, buildRow(current, tolerance))

	return rows
}

func buildRow(points []Point, tolerance float64) Row {
	members := make([]Point, len(points))
	copy(members, points)
	sort.Slice(members, func(i, j int) bool { return members[i].X < members[j].X })

	ys := make([]float64, len(members))
	for i, p := range members {
		ys[i] = float64(p.Y)
	}
	mean := stat.Mean(ys, nil)
	spread := 0.0
	if len(ys) > 1 {
		spread = stat.StdDev(ys, nil)
	}

	return Row{
		Points:  members,
		MeanY:   math.Round(mean*100) / 100,
		Spread:  math.Round(spread*100) / 100,
		Aligned: spread <= tolerance,
	}
}

func meanY(points []Point) float64 {
	var sum float64
	for _, p := range points {
		sum += float64(p.Y)
	}
	return sum / float64(len(points))
}
