package net

import "holdfast/server/internal/game"

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Outbound message type identifiers.
const (
	TypeState = "state"
)

// Inbound client message type identifiers.
const (
	TypeSpawnUnit  = "spawnUnit"
	TypeBuildHouse = "buildHouse"
	TypeBuildMine  = "buildMine"
	TypeBuildWall  = "buildWall"
	TypeRemoveWall = "removeWall"
)

// JoinResponse is returned when a connection claims a player slot.
type JoinResponse struct {
	Ver      int           `json:"ver"`
	ID       string        `json:"id"`
	Host     bool          `json:"host"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// StateMessage carries one full-state snapshot. Guests replace their
// entire local view with it; there is no merge.
type StateMessage struct {
	Ver        int           `json:"ver"`
	Type       string        `json:"type"`
	Snapshot   game.Snapshot `json:"snapshot"`
	ServerTime int64         `json:"serverTime"`
}

// ClientMessage is a guest intent relayed to the host's command queue.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}
