package game

import (
	"context"
	"math"

	"holdfast/server/internal/geom"
	simlog "holdfast/server/logging/simulation"
)

// SpawnZombieWave releases the next wave from the enemy base. Called by
// the host's wave scheduler on a fixed timer; wave size grows with the
// wave counter and player count, and zombie attributes scale with the
// session difficulty.
func (w *World) SpawnZombieWave() {
	if w == nil || w.gameOver {
		return
	}
	w.wave++
	scale := w.cfg.Difficulty.scale()

	count := waveBaseCount + (w.wave-1)*waveGrowth + (w.cfg.PlayerCount-1)*perPlayerWaveN
	count = int(math.Round(float64(count) * scale.Spawn))
	if count < 1 {
		count = 1
	}

	hp := zombieMaxHP * scale.HP * (1 + waveHPGrowth*float64(w.wave-1))
	damage := zombieDamage * scale.Damage
	speed := zombieSpeed * scale.Speed

	for i := 0; i < count; i++ {
		angle := w.rng.Float64() * 2 * math.Pi
		pos := geom.Vec2{
			X: w.enemyBase.X + math.Cos(angle)*spawnRingRadius,
			Y: w.enemyBase.Y + math.Sin(angle)*spawnRingRadius,
		}
		w.addEntity(&Entity{
			ID:     w.allocID("zombie"),
			Type:   EntityZombie,
			Owner:  EnemyFaction,
			Pos:    pos,
			Radius: zombieRadius,
			HP:     hp,
			MaxHP:  hp,
			Damage: damage,
			Range:  zombieRange,
			Speed:  speed,
		})
	}

	simlog.WaveSpawned(context.Background(), w.publisher, w.tick,
		simlog.WaveSpawnedPayload{Wave: w.wave, Count: count})
}
