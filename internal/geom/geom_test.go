package geom

import (
	"math"
	"testing"
)

func TestNormalizeReturnsUnitVector(t *testing.T) {
	dir := Normalize(Vec2{X: 1, Y: 1}, Vec2{X: 4, Y: 5})
	if math.Abs(dir.Len()-1) > 1e-9 {
		t.Fatalf("expected unit length, got %.9f", dir.Len())
	}
	if dir.X <= 0 || dir.Y <= 0 {
		t.Fatalf("expected direction toward positive quadrant, got (%.3f, %.3f)", dir.X, dir.Y)
	}
}

func TestNormalizeCoincidentPointsIsZero(t *testing.T) {
	dir := Normalize(Vec2{X: 2, Y: 3}, Vec2{X: 2, Y: 3})
	if dir != (Vec2{}) {
		t.Fatalf("expected zero vector for coincident points, got (%.3f, %.3f)", dir.X, dir.Y)
	}
}

func TestPointSegmentDist(t *testing.T) {
	cases := []struct {
		name    string
		p, a, b Vec2
		want    float64
	}{
		{"on segment", Vec2{X: 1, Y: 0}, Vec2{X: 0, Y: 0}, Vec2{X: 2, Y: 0}, 0},
		{"perpendicular", Vec2{X: 1, Y: 3}, Vec2{X: 0, Y: 0}, Vec2{X: 2, Y: 0}, 3},
		{"past endpoint", Vec2{X: 5, Y: 0}, Vec2{X: 0, Y: 0}, Vec2{X: 2, Y: 0}, 3},
		{"degenerate segment", Vec2{X: 3, Y: 4}, Vec2{X: 0, Y: 0}, Vec2{X: 0, Y: 0}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PointSegmentDist(tc.p, tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected %.3f, got %.9f", tc.want, got)
			}
		})
	}
}

func TestTileOfFloorsNegativeCoordinates(t *testing.T) {
	tx, ty := TileOf(Vec2{X: -0.2, Y: 3.9})
	if tx != -1 || ty != 3 {
		t.Fatalf("expected tile (-1, 3), got (%d, %d)", tx, ty)
	}
}

func TestSnapToTileReturnsTileCenter(t *testing.T) {
	snapped := SnapToTile(Vec2{X: 10.9, Y: 3.1})
	want := Vec2{X: 10.5, Y: 3.5}
	if snapped != want {
		t.Fatalf("expected (%.1f, %.1f), got (%.1f, %.1f)", want.X, want.Y, snapped.X, snapped.Y)
	}
	if SnapToTile(snapped) != snapped {
		t.Fatal("snapping a tile center should be a fixed point")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 1); got != 0 {
		t.Fatalf("expected 0, got %.3f", got)
	}
	if got := Clamp(2, 0, 1); got != 1 {
		t.Fatalf("expected 1, got %.3f", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Fatalf("expected 0.5, got %.3f", got)
	}
}
