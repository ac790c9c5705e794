package game

import (
	"math"
	"testing"

	"holdfast/server/internal/geom"
	"holdfast/server/logging"
	simlog "holdfast/server/logging/simulation"
)

func countZombies(w *World) int {
	count := 0
	for _, e := range w.entities {
		if e.Type == EntityZombie {
			count++
		}
	}
	return count
}

func TestSpawnZombieWaveGrowsWithWaveCounter(t *testing.T) {
	w := newTestWorld(1)

	w.SpawnZombieWave()
	if got := countZombies(w); got != waveBaseCount {
		t.Fatalf("expected %d zombies in wave 1, got %d", waveBaseCount, got)
	}
	if w.Wave() != 1 {
		t.Fatalf("expected wave 1, got %d", w.Wave())
	}

	w.SpawnZombieWave()
	want := waveBaseCount + (waveBaseCount + waveGrowth)
	if got := countZombies(w); got != want {
		t.Fatalf("expected %d zombies after wave 2, got %d", want, got)
	}
}

func TestSpawnZombieWaveScalesWithPlayerCount(t *testing.T) {
	w := NewWorld(SessionConfig{PlayerCount: 3, Seed: 1}, logging.NopPublisher{})
	w.SpawnZombieWave()
	want := waveBaseCount + 2*perPlayerWaveN
	if got := countZombies(w); got != want {
		t.Fatalf("expected %d zombies for 3 players, got %d", want, got)
	}
}

func TestSpawnZombieWaveAppliesDifficulty(t *testing.T) {
	w := NewWorld(SessionConfig{PlayerCount: 1, Difficulty: DifficultyHard, Seed: 1}, logging.NopPublisher{})
	w.SpawnZombieWave()

	scale := DifficultyHard.scale()
	wantCount := int(math.Round(float64(waveBaseCount) * scale.Spawn))
	if got := countZombies(w); got != wantCount {
		t.Fatalf("expected %d zombies on hard, got %d", wantCount, got)
	}
	for _, e := range w.entities {
		if e.Type != EntityZombie {
			continue
		}
		if math.Abs(e.MaxHP-zombieMaxHP*scale.HP) > 1e-9 {
			t.Fatalf("expected zombie hp %.1f, got %.1f", zombieMaxHP*scale.HP, e.MaxHP)
		}
		if math.Abs(e.Damage-zombieDamage*scale.Damage) > 1e-9 {
			t.Fatalf("expected zombie damage %.2f, got %.2f", zombieDamage*scale.Damage, e.Damage)
		}
	}
}

func TestSpawnZombieWaveRampsHitPoints(t *testing.T) {
	w := newTestWorld(1)
	w.SpawnZombieWave()
	w.SpawnZombieWave()

	wantSecond := zombieMaxHP * (1 + waveHPGrowth)
	found := false
	for _, e := range w.entities {
		if e.Type == EntityZombie && math.Abs(e.MaxHP-wantSecond) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected wave-2 zombies at %.2f hp", wantSecond)
	}
}

func TestSpawnZombieWaveSpawnsOnEnemyRing(t *testing.T) {
	w := newTestWorld(1)
	w.SpawnZombieWave()
	for _, e := range w.entities {
		if e.Type != EntityZombie {
			continue
		}
		if e.Owner != EnemyFaction {
			t.Fatalf("expected enemy-owned zombie, got owner %q", e.Owner)
		}
		d := geom.Dist(e.Pos, w.enemyBase)
		if math.Abs(d-spawnRingRadius) > 1e-9 {
			t.Fatalf("expected spawn on ring radius %.1f, got %.3f", spawnRingRadius, d)
		}
	}
}

func TestSpawnZombieWaveStopsAfterGameOver(t *testing.T) {
	w := newTestWorld(1)
	w.gameOver = true
	w.SpawnZombieWave()
	if countZombies(w) != 0 || w.Wave() != 0 {
		t.Fatalf("expected no spawn after game over, got %d zombies wave %d", countZombies(w), w.Wave())
	}
}

func TestSpawnZombieWavePublishesEvent(t *testing.T) {
	capture := &capturePublisher{}
	w := NewWorld(SessionConfig{PlayerCount: 1, Seed: 1}, capture)
	w.SpawnZombieWave()

	events := capture.ofType(simlog.EventWaveSpawned)
	if len(events) != 1 {
		t.Fatalf("expected one wave event, got %d", len(events))
	}
	payload, ok := events[0].Payload.(simlog.WaveSpawnedPayload)
	if !ok {
		t.Fatalf("expected WaveSpawnedPayload, got %T", events[0].Payload)
	}
	if payload.Wave != 1 || payload.Count != waveBaseCount {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
