package game

// Snapshot is a full copy of the externally visible state. The host ships
// it to guests wholesale; guests replace their entire view with it rather
// than merging.
type Snapshot struct {
	Players  []Player `json:"players"`
	Entities []Entity `json:"entities"`
	Wave     int      `json:"wave"`
	GameOver bool     `json:"gameOver"`
	Winner   string   `json:"winner,omitempty"`
	MapSize  int      `json:"mapSize"`
	Mode     Mode     `json:"mode"`
	FogOfWar bool     `json:"fogOfWar"`
	Tick     uint64   `json:"tick"`
}

// Snapshot copies the current state. Players appear in slot order and
// entities in simulation order, so guests observe the same ordering the
// host resolves in.
func (w *World) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	players := make([]Player, 0, len(w.order))
	for _, id := range w.order {
		players = append(players, *w.players[id])
	}
	entities := make([]Entity, 0, len(w.entities))
	for _, e := range w.entities {
		entities = append(entities, *e)
	}
	return Snapshot{
		Players:  players,
		Entities: entities,
		Wave:     w.wave,
		GameOver: w.gameOver,
		Winner:   w.winner,
		MapSize:  w.cfg.MapSize,
		Mode:     w.cfg.Mode,
		FogOfWar: w.cfg.FogOfWar,
		Tick:     w.tick,
	}
}
