package game

import (
	"holdfast/server/internal/geom"
	"holdfast/server/internal/path"
)

// findBlockingWall returns the wall most directly in the way of attacker's
// straight line to target, or nil. A wall blocks when its center lies
// within its radius plus slack of the attacker→target segment and the
// wall is strictly closer to the attacker than the target is. The search
// is bounded to walls near the attacker.
func (w *World) findBlockingWall(attacker, target *Entity) *Entity {
	if w == nil || attacker == nil || target == nil {
		return nil
	}
	targetDist := geom.Dist(attacker.Pos, target.Pos)
	var best *Entity
	bestDist := 0.0
	for _, e := range w.entities {
		if e.Type != EntityWall || !e.Alive() {
			continue
		}
		dist := geom.Dist(attacker.Pos, e.Pos)
		if dist > wallSearchRadius || dist >= targetDist {
			continue
		}
		if geom.PointSegmentDist(e.Pos, attacker.Pos, target.Pos) > e.Radius+wallBlockSlack {
			continue
		}
		if best == nil || dist < bestDist {
			best = e
			bestDist = dist
		}
	}
	return best
}

// shouldBreachWall decides whether a zombie diverts onto a blocking wall
// instead of pathing around it. Break through when there is no path at
// all, when the detour is materially longer than the direct line, or when
// the wall is already close enough that pathing around is never worth it.
func shouldBreachWall(attacker, wall *Entity, waypoints []geom.Vec2, directDist float64) bool {
	if wall == nil {
		return false
	}
	if geom.Dist(attacker.Pos, wall.Pos) <= closeWallDistance {
		return true
	}
	if waypoints == nil {
		return true
	}
	return path.Length(waypoints) > directDist*wallDetourRatio
}

// nearestWall returns the closest live wall within radius of pos, or nil.
// Used for opportunistic locks when a path collapses.
func (w *World) nearestWall(pos geom.Vec2, radius float64) *Entity {
	var best *Entity
	bestSq := radius * radius
	for _, e := range w.entities {
		if e.Type != EntityWall || !e.Alive() {
			continue
		}
		distSq := geom.DistSq(pos, e.Pos)
		if distSq <= bestSq {
			best = e
			bestSq = distSq
		}
	}
	return best
}
