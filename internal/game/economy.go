package game

import (
	"context"
	"math"

	"holdfast/server/internal/geom"
	"holdfast/server/logging"
	econlog "holdfast/server/logging/economy"
)

// Reject reasons reported by build and spawn commands.
const (
	ReasonUnknownPlayer    = "unknown_player"
	ReasonDefeated         = "player_defeated"
	ReasonInsufficientGold = "insufficient_gold"
	ReasonPopulationCap    = "population_cap"
	ReasonOccupied         = "tile_occupied"
	ReasonInvalidTerrain   = "invalid_terrain"
	ReasonOutOfBuildRange  = "out_of_build_range"
	ReasonNotFound         = "not_found"
	ReasonGameOver         = "game_over"
)

// CommandResult reports whether a command mutated state. Rejected commands
// are benign no-ops, never errors; Reason names the failed precondition so
// callers and tests can assert on it.
type CommandResult struct {
	Accepted bool
	Reason   string
	EntityID string
}

func accepted(entityID string) CommandResult {
	return CommandResult{Accepted: true, EntityID: entityID}
}

func (w *World) reject(command, playerID, reason string) CommandResult {
	econlog.CommandRejected(context.Background(), w.publisher, w.tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		econlog.CommandRejectedPayload{Command: command, Reason: reason})
	return CommandResult{Reason: reason}
}

// gate runs the preconditions shared by every player command.
func (w *World) gate(command, playerID string) (*Player, CommandResult) {
	if w.gameOver {
		return nil, w.reject(command, playerID, ReasonGameOver)
	}
	player := w.players[playerID]
	if player == nil {
		return nil, w.reject(command, playerID, ReasonUnknownPlayer)
	}
	if player.Defeated {
		return nil, w.reject(command, playerID, ReasonDefeated)
	}
	return player, CommandResult{}
}

// SpawnUnit creates one unit on the ring around the player's base.
func (w *World) SpawnUnit(playerID string) CommandResult {
	player, res := w.gate("spawnUnit", playerID)
	if player == nil {
		return res
	}
	if player.Gold < unitCost {
		return w.reject("spawnUnit", playerID, ReasonInsufficientGold)
	}
	if player.Pop >= player.MaxPop {
		return w.reject("spawnUnit", playerID, ReasonPopulationCap)
	}
	player.spendGold(unitCost)
	player.Pop++

	angle := w.rng.Float64() * 2 * math.Pi
	pos := geom.Vec2{
		X: player.Base.X + math.Cos(angle)*spawnRingRadius,
		Y: player.Base.Y + math.Sin(angle)*spawnRingRadius,
	}
	unit := w.addEntity(&Entity{
		ID:     w.allocID("unit"),
		Type:   EntityUnit,
		Owner:  playerID,
		Pos:    pos,
		Radius: unitRadius,
		HP:     unitMaxHP,
		MaxHP:  unitMaxHP,
		Damage: unitDamage,
		Range:  unitRange,
		Speed:  unitSpeed,
	})
	return accepted(unit.ID)
}

// BuildHouse places a house on the snapped tile and raises the owner's
// population cap.
func (w *World) BuildHouse(playerID string, x, y float64) CommandResult {
	return w.build("buildHouse", playerID, x, y, buildSpec{
		entityType:    EntityHouse,
		cost:          houseCost,
		hp:            houseMaxHP,
		radius:        buildingRadius,
		rangeRestrict: true,
	})
}

// BuildMine places a gold mine on the snapped tile. Mines pay their owner
// on every income pass.
func (w *World) BuildMine(playerID string, x, y float64) CommandResult {
	return w.build("buildMine", playerID, x, y, buildSpec{
		entityType:    EntityMine,
		cost:          mineCost,
		hp:            mineMaxHP,
		radius:        buildingRadius,
		rangeRestrict: true,
	})
}

// BuildWall places a wall on the snapped tile. Walls have no base-distance
// restriction.
func (w *World) BuildWall(playerID string, x, y float64) CommandResult {
	return w.build("buildWall", playerID, x, y, buildSpec{
		entityType: EntityWall,
		cost:       wallCost,
		hp:         wallMaxHP,
		radius:     wallRadius,
	})
}

type buildSpec struct {
	entityType    EntityType
	cost          int
	hp            float64
	radius        float64
	rangeRestrict bool
}

func (w *World) build(command, playerID string, x, y float64, spec buildSpec) CommandResult {
	player, res := w.gate(command, playerID)
	if player == nil {
		return res
	}
	if player.Gold < spec.cost {
		return w.reject(command, playerID, ReasonInsufficientGold)
	}
	site := geom.SnapToTile(geom.Vec2{X: x, Y: y})
	if w.occupied(site) {
		return w.reject(command, playerID, ReasonOccupied)
	}
	if !w.oracle.IsValid(site.X, site.Y) {
		return w.reject(command, playerID, ReasonInvalidTerrain)
	}
	if spec.rangeRestrict && geom.Dist(site, player.Base) > buildRadius {
		return w.reject(command, playerID, ReasonOutOfBuildRange)
	}

	player.spendGold(spec.cost)
	if spec.entityType == EntityHouse {
		player.MaxPop += housePopBonus
	}
	building := w.addEntity(&Entity{
		ID:     w.allocID(string(spec.entityType)),
		Type:   spec.entityType,
		Owner:  playerID,
		Pos:    site,
		Radius: spec.radius,
		HP:     spec.hp,
		MaxHP:  spec.hp,
	})
	return accepted(building.ID)
}

// occupied reports whether any live entity sits within tolerance of the
// snapped build site.
func (w *World) occupied(site geom.Vec2) bool {
	for _, e := range w.entities {
		if !e.Alive() {
			continue
		}
		if geom.Dist(site, e.Pos) < occupancyTolerance+e.Radius {
			return true
		}
	}
	return false
}

// RemoveWall despawns the player's own wall near the snapped tile.
func (w *World) RemoveWall(playerID string, x, y float64) CommandResult {
	player, res := w.gate("removeWall", playerID)
	if player == nil {
		return res
	}
	site := geom.SnapToTile(geom.Vec2{X: x, Y: y})
	for _, e := range w.entities {
		if e.Type != EntityWall || e.Owner != playerID || !e.Alive() {
			continue
		}
		if geom.Dist(site, e.Pos) < occupancyTolerance {
			id := e.ID
			w.removeEntityByID(id)
			return accepted(id)
		}
	}
	return w.reject("removeWall", playerID, ReasonNotFound)
}

// GrantIncome pays every live mine's owner. Called by the host's economy
// scheduler; defeated players earn nothing.
func (w *World) GrantIncome() {
	if w == nil || w.gameOver {
		return
	}
	mines := make(map[string]int)
	for _, e := range w.entities {
		if e.Type == EntityMine && e.Alive() {
			mines[e.Owner]++
		}
	}
	for playerID, count := range mines {
		player := w.players[playerID]
		if player == nil || player.Defeated {
			continue
		}
		gold := count * mineIncome
		player.Gold += gold
		econlog.IncomeGranted(context.Background(), w.publisher, w.tick,
			logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
			econlog.IncomeGrantedPayload{Gold: gold, Mines: count})
	}
}
