package geometry

import (
	"math"
	"testing"
)

func TestPointAdd(t *testing.T) {
	got := Point{1, 2}.Add(Point{3, 4})
	want := Point{4, 6}
	if got != want {
		t.Errorf("Point.Add() = %v, want %v", got, want)
	}
}

func TestPointEqual(t *testing.T) {
	a := Point{1, 1}
	if !a.Equal(Point{1 + Epsilon/2, 1}) {
		t.Error("points within epsilon should be equal")
	}
	if a.Equal(Point{1.001, 1}) {
		t.Error("points further than epsilon should differ")
	}
}

func TestSignedArea(t *testing.T) {
	ccw := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := SignedArea(ccw); got != 100 {
		t.Errorf("SignedArea(ccw) = %v, want 100", got)
	}
	cw := []Point{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	if got := SignedArea(cw); got != -100 {
		t.Errorf("SignedArea(cw) = %v, want -100", got)
	}
}

func TestLineIntersection(t *testing.T) {
	l1 := NewLine(Point{0, 0}, Point{10, 10})
	l2 := NewLine(Point{0, 10}, Point{10, 0})
	p, ok := l1.Intersection(l2)
	if !ok {
		t.Fatal("expected lines to intersect")
	}
	if !p.Equal(Point{5, 5}) {
		t.Errorf("Intersection() = %v, want (5, 5)", p)
	}
}

func TestLineIntersectionParallel(t *testing.T) {
	l1 := NewLine(Point{0, 0}, Point{10, 0})
	l2 := NewLine(Point{0, 1}, Point{10, 1})
	p, ok := l1.Intersection(l2)
	if ok {
		t.Errorf("parallel lines should not intersect, got %v", p)
	}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Error("parallel intersection must not produce NaN")
	}
}

func TestRectangleExpand(t *testing.T) {
	r := EmptyRectangle()
	if !r.IsEmpty() {
		t.Fatal("EmptyRectangle should be empty")
	}
	r.Expand(Point{1, 2}, Point{-3, 5}, Point{4, -1})
	want := Rectangle{XMin: -3, YMin: -1, XMax: 4, YMax: 5}
	if r != want {
		t.Errorf("Expand() = %+v, want %+v", r, want)
	}
}

func TestRectangleContainsAndBorder(t *testing.T) {
	r := NewRectangle(0, 0, 10, 10)

	tests := []struct {
		name     string
		p        Point
		contains bool
		border   bool
	}{
		{"inside", Point{5, 5}, true, false},
		{"left border", Point{0, 5}, true, true},
		{"corner", Point{10, 10}, true, true},
		{"outside on border line", Point{15, 0}, false, false},
		{"outside", Point{-1, -1}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.contains {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.contains)
			}
			if got := r.OnBorder(tt.p); got != tt.border {
				t.Errorf("OnBorder(%v) = %v, want %v", tt.p, got, tt.border)
			}
		})
	}
}

func TestRectangleIntersects(t *testing.T) {
	a := NewRectangle(0, 0, 10, 10)
	if !a.Intersects(NewRectangle(5, 5, 15, 15)) {
		t.Error("overlapping rectangles should intersect")
	}
	if a.Intersects(NewRectangle(11, 0, 12, 1)) {
		t.Error("disjoint rectangles should not intersect")
	}
}
