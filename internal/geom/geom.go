// Package geom holds the small geometry helpers shared by the terrain,
// pathfinding, and simulation layers. Everything here is pure.
package geom

import "math"

// Vec2 is a point or direction on the continuous simulation plane,
// measured in tile units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// DistSq returns the squared distance between a and b. Prefer this for
// nearest-candidate scans where the actual distance is not needed.
func DistSq(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Normalize returns the unit vector pointing from a toward b, or the zero
// vector when the points coincide.
func Normalize(a, b Vec2) Vec2 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return Vec2{}
	}
	return Vec2{X: dx / dist, Y: dy / dist}
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// PointSegmentDist returns the shortest distance from point p to the line
// segment ab. Degenerate segments collapse to point distance.
func PointSegmentDist(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = Clamp(t, 0, 1)
	closest := a.Add(ab.Scale(t))
	return Dist(p, closest)
}

// TileOf maps a continuous coordinate to its integer tile.
func TileOf(v Vec2) (int, int) {
	return int(math.Floor(v.X)), int(math.Floor(v.Y))
}

// TileCenter returns the center of the tile with the given coordinates.
func TileCenter(tx, ty int) Vec2 {
	return Vec2{X: float64(tx) + 0.5, Y: float64(ty) + 0.5}
}

// SnapToTile snaps a continuous point to the center of its containing tile.
func SnapToTile(v Vec2) Vec2 {
	tx, ty := TileOf(v)
	return TileCenter(tx, ty)
}
