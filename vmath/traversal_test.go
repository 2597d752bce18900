package vmath

import (
	"math"
	"testing"
)

func collect(x1, y1, x2, y2 float64) [][2]int {
	var cells [][2]int
	Traverse(x1, y1, x2, y2, func(x, y int) bool {
		cells = append(cells, [2]int{x, y})
		return true
	})
	return cells
}

func TestTraverseHorizontal(t *testing.T) {
	cells := collect(0.5, 0.5, 3.5, 0.5)
	want := [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if len(cells) != len(want) {
		t.Fatalf("Expected %d cells, got %v", len(want), cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("Cell %d: expected %v, got %v", i, want[i], cells[i])
		}
	}

	back := collect(3.5, 0.2, 0.5, 0.2)
	if len(back) != 4 || back[0] != [2]int{3, 0} || back[3] != [2]int{0, 0} {
		t.Errorf("Expected reverse walk 3..0, got %v", back)
	}
}

func TestTraverseSinglePoint(t *testing.T) {
	cells := collect(2.2, 7.9, 2.8, 7.1)
	if len(cells) != 1 || cells[0] != [2]int{2, 7} {
		t.Errorf("Expected single cell (2,7), got %v", cells)
	}
}

func TestTraverseConnected(t *testing.T) {
	segments := [][4]float64{
		{0.5, 0.5, 2.5, 2.5},
		{0.5, 0.5, 1.5, 3.5},
		{10.2, -3.7, -4.9, 6.1},
		{-0.5, 8.25, 12.75, 8.3},
	}
	for _, s := range segments {
		cells := collect(s[0], s[1], s[2], s[3])
		last := cells[len(cells)-1]
		if want := [2]int{int(math.Floor(s[2])), int(math.Floor(s[3]))}; last != want {
			t.Errorf("%v: expected to end at %v, got %v", s, want, last)
		}
		for i := 1; i < len(cells); i++ {
			dx := cells[i][0] - cells[i-1][0]
			dy := cells[i][1] - cells[i-1][1]
			if dx < -1 || dx > 1 || dy < -1 || dy > 1 || (dx == 0 && dy == 0) {
				t.Errorf("%v: gap between %v and %v", s, cells[i-1], cells[i])
			}
		}
	}
}

func TestTraverseStopsEarly(t *testing.T) {
	n := 0
	Traverse(0, 0, 100, 0, func(x, y int) bool {
		n++
		return n < 5
	})
	if n != 5 {
		t.Errorf("Expected 5 visits, got %d", n)
	}
}
