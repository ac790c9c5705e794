package game

import (
	"fmt"
	"math/rand"

	"holdfast/server/internal/geom"
	"holdfast/server/internal/path"
	"holdfast/server/internal/terrain"
	"holdfast/server/logging"
)

// World is the authoritative simulation state for one session. It is a
// single-writer structure: only the host's tick goroutine mutates it, and
// everything the outside sees goes through Snapshot.
type World struct {
	cfg       SessionConfig
	players   map[string]*Player
	order     []string
	entities  []*Entity
	byID      map[string]*Entity
	oracle    *terrain.Oracle
	grid      *path.Grid
	enemyBase geom.Vec2
	wave      int
	gameOver  bool
	winner    string
	tick      uint64
	nextID    uint64
	rng       *rand.Rand
	publisher logging.Publisher

	// blockedTiles maps each blocked tile to the id of the blocking
	// entity. Rebuilt once per tick and after structural mutations.
	blockedTiles map[path.Tile]string
}

// Tick returns the number of completed simulation steps.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Wave returns the monotonically non-decreasing wave counter.
func (w *World) Wave() int {
	if w == nil {
		return 0
	}
	return w.wave
}

// GameOver reports whether the win condition has resolved.
func (w *World) GameOver() bool {
	return w != nil && w.gameOver
}

// Winner returns "players" or "zombies" once the game is over.
func (w *World) Winner() string {
	if w == nil {
		return ""
	}
	return w.winner
}

// Config returns the session configuration the world was built with.
func (w *World) Config() SessionConfig {
	if w == nil {
		return SessionConfig{}
	}
	return w.cfg
}

// Oracle exposes the terrain oracle for read-only queries.
func (w *World) Oracle() *terrain.Oracle {
	if w == nil {
		return nil
	}
	return w.oracle
}

// Player returns the player with the given id, or nil.
func (w *World) Player(id string) *Player {
	if w == nil {
		return nil
	}
	return w.players[id]
}

// PlayerIDs returns the player ids in slot order.
func (w *World) PlayerIDs() []string {
	if w == nil {
		return nil
	}
	return append([]string(nil), w.order...)
}

// Entity returns the live entity with the given id, or nil. Ids are weak
// references: callers must treat a nil or dead result as "no target".
func (w *World) Entity(id string) *Entity {
	if w == nil || id == "" {
		return nil
	}
	e := w.byID[id]
	if !e.Alive() {
		return nil
	}
	return e
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	if w == nil {
		return 0
	}
	return len(w.entities)
}

func (w *World) allocID(prefix string) string {
	w.nextID++
	return fmt.Sprintf("%s-%d", prefix, w.nextID)
}

func (w *World) addEntity(e *Entity) *Entity {
	w.entities = append(w.entities, e)
	w.byID[e.ID] = e
	if e.Type.Blocking() {
		w.markBlocked(e)
	}
	return e
}

// removeEntityByID deletes an entity outside the sweep (wall removal).
func (w *World) removeEntityByID(id string) bool {
	for i, e := range w.entities {
		if e.ID != id {
			continue
		}
		w.entities = append(w.entities[:i], w.entities[i+1:]...)
		delete(w.byID, id)
		if e.Type.Blocking() {
			w.rebuildBlocked()
		}
		return true
	}
	return false
}

// markBlocked adds the tiles covered by a blocking entity. Buildings and
// walls sit on a single tile; bases cover every tile within their radius.
func (w *World) markBlocked(e *Entity) {
	if w.blockedTiles == nil {
		w.blockedTiles = make(map[path.Tile]string)
	}
	tx, ty := geom.TileOf(e.Pos)
	if e.Radius <= 0.5 {
		w.blockedTiles[path.Tile{X: tx, Y: ty}] = e.ID
		return
	}
	span := int(e.Radius) + 1
	for dy := -span; dy <= span; dy++ {
		for dx := -span; dx <= span; dx++ {
			tile := path.Tile{X: tx + dx, Y: ty + dy}
			center := geom.TileCenter(tile.X, tile.Y)
			if geom.Dist(center, e.Pos) <= e.Radius {
				w.blockedTiles[tile] = e.ID
			}
		}
	}
}

func (w *World) rebuildBlocked() {
	w.blockedTiles = make(map[path.Tile]string)
	for _, e := range w.entities {
		if e.Type.Blocking() && e.Alive() {
			w.markBlocked(e)
		}
	}
}

// blockedFor returns the blocked-tile set excluding tiles owned by the
// given target id, so attackers can plan into their target.
func (w *World) blockedFor(targetID string) map[path.Tile]struct{} {
	if len(w.blockedTiles) == 0 {
		return nil
	}
	blocked := make(map[path.Tile]struct{}, len(w.blockedTiles))
	for tile, id := range w.blockedTiles {
		if id == targetID {
			continue
		}
		blocked[tile] = struct{}{}
	}
	return blocked
}

// FindPath plans a route between two points honoring terrain and the
// current blocking entities, minus the excluded entity id.
func (w *World) FindPath(start, goal geom.Vec2, excludeID string) []geom.Vec2 {
	if w == nil {
		return nil
	}
	return w.grid.Find(start, goal, w.blockedFor(excludeID))
}
