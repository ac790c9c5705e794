package game

import "holdfast/server/internal/geom"

// EntityType tags every simulated object.
type EntityType string

const (
	EntityUnit       EntityType = "unit"
	EntityZombie     EntityType = "zombie"
	EntityPlayerBase EntityType = "player-base"
	EntityEnemyBase  EntityType = "enemy-base"
	EntityHouse      EntityType = "house"
	EntityMine       EntityType = "mine"
	EntityWall       EntityType = "wall"
)

// Animate reports whether entities of this type move and attack.
func (t EntityType) Animate() bool {
	return t == EntityUnit || t == EntityZombie
}

// Blocking reports whether entities of this type occupy tiles for
// pathfinding purposes.
func (t EntityType) Blocking() bool {
	switch t {
	case EntityHouse, EntityMine, EntityWall, EntityPlayerBase, EntityEnemyBase:
		return true
	}
	return false
}

// Entity is any simulated object with a position and combat attributes.
// Exported fields are part of the snapshot shipped to guests; the
// lowercase fields are host-side AI state and never leave the process.
type Entity struct {
	ID     string     `json:"id"`
	Type   EntityType `json:"type"`
	Owner  string     `json:"owner"`
	Pos    geom.Vec2  `json:"pos"`
	Radius float64    `json:"radius"`
	HP     float64    `json:"hp"`
	MaxHP  float64    `json:"maxHp"`

	// Animate-only attributes; zero for buildings and bases.
	Damage float64 `json:"damage,omitempty"`
	Range  float64 `json:"range,omitempty"`
	Speed  float64 `json:"speed,omitempty"`

	// Velocity is the last movement (or facing) direction, kept for
	// client-side animation only. Not authoritative.
	Velocity geom.Vec2 `json:"vel"`

	attackCooldown float64
	pathCooldown   float64
	targetID       string
	// plannedTarget is the target the cached waypoints were computed
	// for. targetID may move ahead of it while the path cooldown runs;
	// the mismatch is what triggers the next replan.
	plannedTarget string
	waypoints     []geom.Vec2
	cursor        int
	lastAttacker  string
}

// Alive reports whether the entity still has hit points. Entities with
// hp <= 0 are swept at end of tick and must be treated as gone.
func (e *Entity) Alive() bool {
	return e != nil && e.HP > 0
}

func (e *Entity) clearPath() {
	e.waypoints = nil
	e.cursor = 0
	e.plannedTarget = ""
}

// pathExhausted reports whether the cursor has run off the end.
func (e *Entity) pathExhausted() bool {
	return e.cursor >= len(e.waypoints)
}
