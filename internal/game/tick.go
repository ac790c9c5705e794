package game

import (
	"context"

	"holdfast/server/internal/geom"
	"holdfast/server/internal/path"
	"holdfast/server/logging"
	combatlog "holdfast/server/logging/combat"
	lifecyclelog "holdfast/server/logging/lifecycle"
	simlog "holdfast/server/logging/simulation"
)

// Winner tags for the terminal state.
const (
	WinnerPlayers = "players"
	WinnerZombies = "zombies"
)

// Advance runs one simulation step. Host only; dt is elapsed seconds.
// Entities are resolved in list order, so later entities observe damage
// applied earlier in the same tick. Once the game is over the simulation
// is frozen and Advance returns immediately.
func (w *World) Advance(dt float64) {
	if w == nil || w.gameOver || dt <= 0 {
		return
	}
	w.tick++
	for _, e := range w.entities {
		if e.Type.Animate() && e.Alive() {
			w.updateActor(e, dt)
		}
	}
	w.sweep()
	w.checkWin()
}

func (w *World) updateActor(e *Entity, dt float64) {
	e.attackCooldown -= dt
	e.pathCooldown -= dt

	target := w.acquireTarget(e)
	if target == nil {
		e.targetID = ""
		e.Velocity = geom.Vec2{}
		return
	}

	// Path (re)planning is throttled; replan only when the path is gone,
	// the cursor ran off the end, or the cached path was planned for a
	// different target than the one wanted now. Planning may redirect a
	// zombie onto a blocking wall.
	if e.pathCooldown <= 0 && (e.pathExhausted() || e.plannedTarget != target.ID) {
		target = w.plan(e, target)
	}
	e.targetID = target.ID

	if w.tryAttack(e, target) {
		return
	}
	if !e.pathExhausted() {
		w.followPath(e, target, dt)
		return
	}
	w.moveDirect(e, target, dt)
}

// acquireTarget resolves the entity's lock against liveness and pursuit
// rules and falls back to the nearest primary target. Zombies keep
// grinding a locked wall unless it drifts beyond the pursuit distance,
// and swap a non-wall lock only for a strictly closer primary target.
func (w *World) acquireTarget(e *Entity) *Entity {
	locked := w.Entity(e.targetID)
	if locked == nil {
		e.targetID = ""
	} else if locked.Type == EntityWall {
		if geom.Dist(e.Pos, locked.Pos) > maxWallPursuit {
			locked = nil
			e.targetID = ""
		} else {
			return locked
		}
	}

	primary := w.primaryTarget(e)
	if locked == nil {
		return primary
	}
	if e.Type == EntityZombie && primary != nil && primary.ID != locked.ID &&
		geom.DistSq(e.Pos, primary.Pos) < geom.DistSq(e.Pos, locked.Pos) {
		return primary
	}
	return locked
}

// primaryTarget returns the nearest entity this actor wants dead: zombies
// hunt any player-owned entity except walls, units hunt the enemy faction.
func (w *World) primaryTarget(e *Entity) *Entity {
	var best *Entity
	bestSq := 0.0
	for _, candidate := range w.entities {
		if !candidate.Alive() || candidate.ID == e.ID {
			continue
		}
		if e.Type == EntityZombie {
			if candidate.Owner == EnemyFaction || candidate.Type == EntityWall {
				continue
			}
		} else {
			if candidate.Owner != EnemyFaction {
				continue
			}
		}
		distSq := geom.DistSq(e.Pos, candidate.Pos)
		if best == nil || distSq < bestSq {
			best = candidate
			bestSq = distSq
		}
	}
	return best
}

// plan computes a fresh path to the desired target. Zombies chasing a
// non-wall target first consult the blocking-wall heuristic and may divert
// onto the wall; when no route exists at all they settle for any nearby
// wall to chew through.
func (w *World) plan(e *Entity, target *Entity) *Entity {
	e.pathCooldown = pathRecalcInterval
	waypoints := w.FindPath(e.Pos, target.Pos, target.ID)

	if e.Type == EntityZombie && target.Type != EntityWall {
		if wall := w.findBlockingWall(e, target); wall != nil {
			if shouldBreachWall(e, wall, waypoints, geom.Dist(e.Pos, target.Pos)) {
				target = wall
				waypoints = w.FindPath(e.Pos, wall.Pos, wall.ID)
			}
		}
		if waypoints == nil && target.Type != EntityWall {
			if wall := w.nearestWall(e.Pos, wallSearchRadius); wall != nil {
				target = wall
				waypoints = w.FindPath(e.Pos, wall.Pos, wall.ID)
			}
		}
	}

	e.waypoints = waypoints
	e.cursor = 0
	if len(waypoints) > 1 {
		// The first waypoint is the start tile's own center.
		e.cursor = 1
	}
	e.plannedTarget = target.ID
	return target
}

// tryAttack resolves the range check, which takes priority over movement.
// Walls expose a reduced effective radius so attackers close in before
// swinging.
func (w *World) tryAttack(e, target *Entity) bool {
	eff := target.Radius
	if target.Type == EntityWall {
		eff = wallEffectiveRadius
	}
	if geom.Dist(e.Pos, target.Pos) > e.Range+eff+rangeBuffer {
		return false
	}
	e.clearPath()
	e.Velocity = geom.Normalize(e.Pos, target.Pos)
	if e.attackCooldown > 0 {
		return true
	}
	target.HP -= e.Damage
	target.lastAttacker = e.ID
	e.attackCooldown = attackInterval
	combatlog.Attack(context.Background(), w.publisher, w.tick,
		logging.EntityRef{ID: e.ID, Kind: logging.EntityKindEntity},
		logging.EntityRef{ID: target.ID, Kind: logging.EntityKindEntity},
		combatlog.AttackPayload{Damage: e.Damage, TargetHP: target.HP, TargetMax: target.MaxHP})
	return true
}

// followPath advances along the cached waypoints, re-validating the next
// position so obstacles built after planning are not tunneled through.
func (w *World) followPath(e *Entity, target *Entity, dt float64) {
	wp := e.waypoints[e.cursor]
	dir := geom.Normalize(e.Pos, wp)
	step := e.Speed * dt
	if d := geom.Dist(e.Pos, wp); step > d {
		step = d
	}
	next := e.Pos.Add(dir.Scale(step))
	if !w.canOccupy(next, target.ID) {
		e.clearPath()
		e.Velocity = geom.Vec2{}
		if e.Type == EntityZombie {
			if wall := w.nearestWall(e.Pos, adjacentWallRadius); wall != nil {
				e.targetID = wall.ID
			}
		}
		return
	}
	e.Pos = next
	e.Velocity = dir.Scale(e.Speed)
	if geom.Dist(e.Pos, wp) <= waypointTolerance {
		e.cursor++
	}
}

// moveDirect is the fallback when no path exists: walk the straight line
// toward the target with the same re-validation. Keeps actors responsive
// before their first plan completes or when search fails outright.
func (w *World) moveDirect(e *Entity, target *Entity, dt float64) {
	dir := geom.Normalize(e.Pos, target.Pos)
	step := e.Speed * dt
	if d := geom.Dist(e.Pos, target.Pos); step > d {
		step = d
	}
	next := e.Pos.Add(dir.Scale(step))
	if !w.canOccupy(next, target.ID) {
		e.Velocity = geom.Vec2{}
		return
	}
	e.Pos = next
	e.Velocity = dir.Scale(e.Speed)
}

// canOccupy re-validates terrain and dynamic blocking for a continuous
// position, exempting tiles owned by the mover's target.
func (w *World) canOccupy(pos geom.Vec2, targetID string) bool {
	if !w.oracle.IsValid(pos.X, pos.Y) {
		return false
	}
	tx, ty := geom.TileOf(pos)
	if id, ok := w.blockedTiles[path.Tile{X: tx, Y: ty}]; ok && id != targetID {
		return false
	}
	return true
}

// sweep removes every entity with hp <= 0, paying bounties, flagging
// defeated players, and releasing population. Credit lookups run before
// any removal so a mutual kill in the same tick still pays out.
func (w *World) sweep() {
	var removed []*Entity
	survivors := w.entities[:0]
	for _, e := range w.entities {
		if e.Alive() {
			survivors = append(survivors, e)
			continue
		}
		removed = append(removed, e)
	}
	if len(removed) == 0 {
		return
	}

	rebuild := false
	for _, e := range removed {
		switch e.Type {
		case EntityZombie:
			if attacker := w.byID[e.lastAttacker]; attacker != nil {
				if owner := w.players[attacker.Owner]; owner != nil && !owner.Defeated {
					owner.Gold += zombieBounty
					combatlog.BountyGranted(context.Background(), w.publisher, w.tick,
						logging.EntityRef{ID: owner.ID, Kind: logging.EntityKindPlayer},
						combatlog.BountyGrantedPayload{Gold: zombieBounty})
				}
			}
		case EntityPlayerBase:
			if owner := w.players[e.Owner]; owner != nil && !owner.Defeated {
				owner.Defeated = true
				lifecyclelog.PlayerDefeated(context.Background(), w.publisher, w.tick,
					logging.EntityRef{ID: owner.ID, Kind: logging.EntityKindPlayer},
					lifecyclelog.PlayerDefeatedPayload{BaseID: e.ID})
			}
		case EntityUnit:
			w.players[e.Owner].dropPop()
		}
		if e.Type.Blocking() {
			rebuild = true
		}
		combatlog.EntityDestroyed(context.Background(), w.publisher, w.tick,
			logging.EntityRef{ID: e.ID, Kind: logging.EntityKindEntity},
			combatlog.EntityDestroyedPayload{
				EntityType: string(e.Type),
				Owner:      e.Owner,
				KilledBy:   e.lastAttacker,
			})
	}
	for _, e := range removed {
		delete(w.byID, e.ID)
	}
	w.entities = survivors
	if rebuild {
		w.rebuildBlocked()
	}
}

// checkWin evaluates the terminal condition. Once decided, the flag and
// winner tag never change.
func (w *World) checkWin() {
	if w.gameOver {
		return
	}
	playerBases, enemyBases := 0, 0
	for _, e := range w.entities {
		switch e.Type {
		case EntityPlayerBase:
			playerBases++
		case EntityEnemyBase:
			enemyBases++
		}
	}
	switch {
	case playerBases == 0:
		w.gameOver = true
		w.winner = WinnerZombies
	case enemyBases == 0:
		w.gameOver = true
		w.winner = WinnerPlayers
	}
	if w.gameOver {
		simlog.GameOver(context.Background(), w.publisher, w.tick,
			simlog.GameOverPayload{Winner: w.winner})
	}
}
