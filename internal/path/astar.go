// Package path implements A* search over the integer tile grid that
// underlies the continuous simulation plane. Tiles are derived by flooring
// continuous coordinates; results are tile-center waypoints.
package path

import (
	"container/heap"
	"math"

	"holdfast/server/internal/geom"
)

// Tile identifies one cell of the integer grid.
type Tile struct {
	X int
	Y int
}

// Validator reports whether a continuous point is passable terrain.
type Validator func(x, y float64) bool

type neighbor struct {
	dx       int
	dy       int
	cost     float64
	diagonal bool
}

// Diagonal steps cost 1.4, orthogonal steps 1.0.
var neighborOffsets = [...]neighbor{
	{dx: 0, dy: -1, cost: 1.0},
	{dx: 1, dy: 0, cost: 1.0},
	{dx: 0, dy: 1, cost: 1.0},
	{dx: -1, dy: 0, cost: 1.0},
	{dx: 1, dy: -1, cost: 1.4, diagonal: true},
	{dx: 1, dy: 1, cost: 1.4, diagonal: true},
	{dx: -1, dy: 1, cost: 1.4, diagonal: true},
	{dx: -1, dy: -1, cost: 1.4, diagonal: true},
}

// Grid is a search space over a square map. It holds no per-search state;
// dynamic blockers are supplied per call.
type Grid struct {
	size  int
	valid Validator
}

// NewGrid builds a grid of size×size tiles gated by the given validator.
func NewGrid(size int, valid Validator) *Grid {
	if size <= 0 {
		size = 1
	}
	return &Grid{size: size, valid: valid}
}

func (g *Grid) inBounds(t Tile) bool {
	return g != nil && t.X >= 0 && t.Y >= 0 && t.X < g.size && t.Y < g.size
}

func (g *Grid) walkable(t Tile) bool {
	if !g.inBounds(t) {
		return false
	}
	if g.valid == nil {
		return true
	}
	center := geom.TileCenter(t.X, t.Y)
	return g.valid(center.X, center.Y)
}

// heuristic is the Manhattan distance between tiles.
func heuristic(a, b Tile) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

type searchNode struct {
	tile   Tile
	g      float64
	f      float64
	index  int
	parent *searchNode
}

type searchQueue []*searchNode

func (q searchQueue) Len() int { return len(q) }

func (q searchQueue) Less(i, j int) bool { return q[i].f < q[j].f }

func (q searchQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *searchQueue) Push(x any) {
	n := len(*q)
	item := x.(*searchNode)
	item.index = n
	*q = append(*q, item)
}

func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// blockedAt reports whether a tile is in the dynamic blocker set. The goal
// tile is always enterable so attackers can path "into" their target and be
// stopped by range checks rather than the planner.
func blockedAt(t, goal Tile, blocked map[Tile]struct{}) bool {
	if blocked == nil || t == goal {
		return false
	}
	_, exists := blocked[t]
	return exists
}

// canCutCorner rejects diagonal steps that would squeeze between two
// blocked or impassable orthogonal neighbors.
func (g *Grid) canCutCorner(from Tile, delta neighbor, goal Tile, blocked map[Tile]struct{}) bool {
	if !delta.diagonal {
		return true
	}
	horiz := Tile{X: from.X + delta.dx, Y: from.Y}
	vert := Tile{X: from.X, Y: from.Y + delta.dy}
	if !g.walkable(horiz) || !g.walkable(vert) {
		return false
	}
	if blockedAt(horiz, goal, blocked) || blockedAt(vert, goal, blocked) {
		return false
	}
	return true
}

// Find searches for a path from start to goal, avoiding impassable terrain
// and the supplied blocked tiles. It returns an ordered list of tile-center
// waypoints whose first element is the start tile's center, or nil when no
// path exists.
func (g *Grid) Find(start, goal geom.Vec2, blocked map[Tile]struct{}) []geom.Vec2 {
	if g == nil {
		return nil
	}
	sx, sy := geom.TileOf(start)
	gx, gy := geom.TileOf(goal)
	startTile := Tile{X: sx, Y: sy}
	goalTile := Tile{X: gx, Y: gy}
	if !g.inBounds(startTile) || !g.walkable(goalTile) {
		return nil
	}
	if startTile == goalTile {
		return []geom.Vec2{geom.TileCenter(startTile.X, startTile.Y)}
	}

	open := &searchQueue{}
	heap.Init(open)
	heap.Push(open, &searchNode{tile: startTile, f: heuristic(startTile, goalTile)})
	gScore := map[Tile]float64{startTile: 0}
	closed := make(map[Tile]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if _, seen := closed[current.tile]; seen {
			continue
		}
		closed[current.tile] = struct{}{}
		if current.tile == goalTile {
			return reconstruct(current)
		}

		for _, delta := range neighborOffsets {
			next := Tile{X: current.tile.X + delta.dx, Y: current.tile.Y + delta.dy}
			if !g.walkable(next) {
				continue
			}
			if blockedAt(next, goalTile, blocked) {
				continue
			}
			if !g.canCutCorner(current.tile, delta, goalTile, blocked) {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			tentative := current.g + delta.cost
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			heap.Push(open, &searchNode{
				tile:   next,
				g:      tentative,
				f:      tentative + heuristic(next, goalTile),
				parent: current,
			})
		}
	}
	return nil
}

func reconstruct(end *searchNode) []geom.Vec2 {
	if end == nil {
		return nil
	}
	count := 0
	for node := end; node != nil; node = node.parent {
		count++
	}
	waypoints := make([]geom.Vec2, count)
	for node := end; node != nil; node = node.parent {
		count--
		waypoints[count] = geom.TileCenter(node.tile.X, node.tile.Y)
	}
	return waypoints
}

// Length sums the distances between consecutive waypoints.
func Length(waypoints []geom.Vec2) float64 {
	total := 0.0
	for i := 1; i < len(waypoints); i++ {
		total += geom.Dist(waypoints[i-1], waypoints[i])
	}
	return total
}
