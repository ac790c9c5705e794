package simulation

import (
	"context"

	"holdfast/server/logging"
)

const (
	// EventWaveSpawned is emitted when the wave scheduler releases zombies.
	EventWaveSpawned logging.EventType = "simulation.wave_spawned"
	// EventGameOver is emitted once, when the win condition resolves.
	EventGameOver logging.EventType = "simulation.game_over"
)

// WaveSpawnedPayload describes one zombie wave.
type WaveSpawnedPayload struct {
	Wave  int `json:"wave"`
	Count int `json:"count"`
}

// GameOverPayload names the winning faction.
type GameOverPayload struct {
	Winner string `json:"winner"`
}

// WaveSpawned publishes a wave event.
func WaveSpawned(ctx context.Context, pub logging.Publisher, tick uint64, payload WaveSpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWaveSpawned,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}

// GameOver publishes the terminal event.
func GameOver(ctx context.Context, pub logging.Publisher, tick uint64, payload GameOverPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGameOver,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}
