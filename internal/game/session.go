package game

import (
	"fmt"
	"math/rand"
	"time"

	"holdfast/server/internal/geom"
	"holdfast/server/internal/path"
	"holdfast/server/internal/terrain"
	"holdfast/server/logging"
)

// NewWorld constructs the initial state for a session. Base placement is
// deterministic: player bases are spaced along the low end of the corridor
// diagonal and the enemy base sits at the far end.
func NewWorld(cfg SessionConfig, publisher logging.Publisher) *World {
	cfg = cfg.normalized()
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}

	size := float64(cfg.MapSize)
	enemyBase := geom.Vec2{X: size - baseEdgeOffset, Y: baseEdgeOffset}

	anchors := make([]geom.Vec2, 0, cfg.PlayerCount+1)
	for i := 0; i < cfg.PlayerCount; i++ {
		x := baseEdgeOffset + float64(i)*baseSpacing
		anchors = append(anchors, geom.Vec2{X: x, Y: size - x})
	}
	anchors = append(anchors, enemyBase)

	oracle := terrain.NewOracle(size, anchors)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w := &World{
		cfg:          cfg,
		players:      make(map[string]*Player, cfg.PlayerCount),
		byID:         make(map[string]*Entity),
		oracle:       oracle,
		grid:         path.NewGrid(cfg.MapSize, oracle.IsValid),
		enemyBase:    enemyBase,
		rng:          rand.New(rand.NewSource(seed)),
		publisher:    publisher,
		blockedTiles: make(map[path.Tile]string),
	}

	for i := 0; i < cfg.PlayerCount; i++ {
		id := fmt.Sprintf("p%d", i+1)
		slot := SlotConfig{}
		if i < len(cfg.Slots) {
			slot = cfg.Slots[i]
		}
		if slot.Name == "" {
			slot.Name = fmt.Sprintf("Player %d", i+1)
		}
		if slot.Color == "" {
			slot.Color = defaultColors[i%len(defaultColors)]
		}
		player := &Player{
			ID:     id,
			Name:   slot.Name,
			Color:  slot.Color,
			Base:   anchors[i],
			Gold:   startingGold,
			MaxPop: startingPop,
		}
		w.players[id] = player
		w.order = append(w.order, id)

		w.addEntity(&Entity{
			ID:     "base-" + id,
			Type:   EntityPlayerBase,
			Owner:  id,
			Pos:    anchors[i],
			Radius: baseRadius,
			HP:     baseMaxHP,
			MaxHP:  baseMaxHP,
		})
	}

	w.addEntity(&Entity{
		ID:     "base-enemy",
		Type:   EntityEnemyBase,
		Owner:  EnemyFaction,
		Pos:    enemyBase,
		Radius: baseRadius,
		HP:     baseMaxHP,
		MaxHP:  baseMaxHP,
	})

	return w
}
