package imaging

import "testing"

func TestDetectRowsGroupsByVerticalProximity(t *testing.T) {
	points := []Point{
		{X: 200, Y: 52}, {X: 40, Y: 50}, {X: 120, Y: 48}, // top row
		{X: 60, Y: 150}, {X: 180, Y: 152}, // bottom row
	}

	rows := DetectRows(points, 10)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}

	top, bottom := rows[0], rows[1]
	if len(top.Points) != 3 || len(bottom.Points) != 2 {
		t.Fatalf("expected rows of 3 and 2 points, got %d and %d", len(top.Points), len(bottom.Points))
	}
	if top.MeanY > bottom.MeanY {
		t.Error("rows not ordered top to bottom")
	}
	// Members ordered left to right.
	for i := 1; i < len(top.Points); i++ {
		if top.Points[i].X < top.Points[i-1].X {
			t.Fatalf("row members not ordered by X: %+v", top.Points)
		}
	}
	if !top.Aligned || !bottom.Aligned {
		t.Errorf("expected both rows aligned within tolerance, got %+v", rows)
	}
}

func TestDetectRowsScatteredPointsSplit(t *testing.T) {
	points := []Point{{X: 10, Y: 10}, {X: 20, Y: 40}, {X: 30, Y: 70}}
	rows := DetectRows(points, 5)
	if len(rows) != 3 {
		t.Fatalf("expected 3 singleton rows for scattered points, got %d: %+v", len(rows), rows)
	}
}

func TestDetectRowsSinglePoint(t *testing.T) {
	rows := DetectRows([]Point{{X: 5, Y: 7}}, 10)
	if len(rows) != 1 || len(rows[0].Points) != 1 {
		t.Fatalf("expected one trivial row, got %+v", rows)
	}
	if rows[0].Spread != 0 || !rows[0].Aligned {
		t.Errorf("single-point row should be trivially aligned: %+v", rows[0])
	}
}

func TestDetectRowsEmpty(t *testing.T) {
	if rows := DetectRows(nil, 10); rows != nil {
		t.Fatalf("expected nil for no points, got %+v", rows)
	}
}
