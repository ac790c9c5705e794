package game

import (
	"testing"

	"holdfast/server/internal/geom"
	combatlog "holdfast/server/logging/combat"
	lifecyclelog "holdfast/server/logging/lifecycle"
	simlog "holdfast/server/logging/simulation"
)

func addUnit(w *World, owner string, pos geom.Vec2) *Entity {
	return w.addEntity(&Entity{
		ID:     w.allocID("unit"),
		Type:   EntityUnit,
		Owner:  owner,
		Pos:    pos,
		Radius: unitRadius,
		HP:     unitMaxHP,
		MaxHP:  unitMaxHP,
		Damage: unitDamage,
		Range:  unitRange,
		Speed:  unitSpeed,
	})
}

func addZombie(w *World, pos geom.Vec2) *Entity {
	return w.addEntity(&Entity{
		ID:     w.allocID("zombie"),
		Type:   EntityZombie,
		Owner:  EnemyFaction,
		Pos:    pos,
		Radius: zombieRadius,
		HP:     zombieMaxHP,
		MaxHP:  zombieMaxHP,
		Damage: zombieDamage,
		Range:  zombieRange,
		Speed:  zombieSpeed,
	})
}

func TestAdvanceIgnoresZeroAndNegativeDelta(t *testing.T) {
	w := newTestWorld(1)
	w.Advance(0)
	w.Advance(-1)
	if w.Tick() != 0 {
		t.Fatalf("expected tick 0, got %d", w.Tick())
	}
}

func TestUnitKillsAdjacentZombieAndEarnsBounty(t *testing.T) {
	w := newTestWorld(1)
	unit := addUnit(w, "p1", geom.Vec2{X: 30.5, Y: 33.5})
	zombie := addZombie(w, geom.Vec2{X: 31.5, Y: 33.5})
	p1 := w.Player("p1")
	goldBefore := p1.Gold

	// Attack interval is one second; three one-second ticks land three
	// hits of unitDamage, enough to clear zombieMaxHP.
	w.Advance(1.0)
	if got := zombie.HP; got != zombieMaxHP-unitDamage {
		t.Fatalf("expected zombie at %.0f hp after first hit, got %.0f", zombieMaxHP-unitDamage, got)
	}
	w.Advance(1.0)
	w.Advance(1.0)

	if w.Entity(zombie.ID) != nil {
		t.Fatal("expected zombie swept after lethal damage")
	}
	if p1.Gold != goldBefore+zombieBounty {
		t.Fatalf("expected bounty %d, got gold delta %d", zombieBounty, p1.Gold-goldBefore)
	}
	// The zombie traded hits while it lived.
	if unit.HP >= unitMaxHP {
		t.Fatal("expected the unit to take return damage")
	}
	if !unit.Alive() {
		t.Fatal("expected the unit to survive the trade")
	}
}

func TestMutualKillStillPaysBounty(t *testing.T) {
	w := newTestWorld(1)
	unit := addUnit(w, "p1", geom.Vec2{X: 30.5, Y: 33.5})
	zombie := addZombie(w, geom.Vec2{X: 31.5, Y: 33.5})
	// Both die within the same tick; the sweep must resolve the bounty
	// credit before either body is dropped from the index.
	unit.HP = 0
	zombie.HP = 0
	zombie.lastAttacker = unit.ID
	goldBefore := w.Player("p1").Gold

	w.Advance(0.1)

	if w.Entity(unit.ID) != nil || w.Entity(zombie.ID) != nil {
		t.Fatal("expected both combatants swept in the same tick")
	}
	if got := w.Player("p1").Gold; got != goldBefore+zombieBounty {
		t.Fatalf("expected bounty despite mutual kill, got gold delta %d", got-goldBefore)
	}
}

func TestAttackEmitsCombatEvents(t *testing.T) {
	capture := &capturePublisher{}
	w := NewWorld(SessionConfig{PlayerCount: 1, Seed: 1}, capture)
	addUnit(w, "p1", geom.Vec2{X: 30.5, Y: 33.5})
	zombie := addZombie(w, geom.Vec2{X: 31.5, Y: 33.5})
	zombie.HP = unitDamage

	w.Advance(1.0)

	if attacks := capture.ofType(combatlog.EventAttack); len(attacks) == 0 {
		t.Fatal("expected attack events")
	}
	destroyed := capture.ofType(combatlog.EventEntityDestroyed)
	if len(destroyed) != 1 {
		t.Fatalf("expected one destroy event, got %d", len(destroyed))
	}
	if bounties := capture.ofType(combatlog.EventBountyGranted); len(bounties) != 1 {
		t.Fatalf("expected one bounty event, got %d", len(bounties))
	}
}

func TestZombieDestroyingBaseDefeatsPlayerAndEndsGame(t *testing.T) {
	capture := &capturePublisher{}
	w := NewWorld(SessionConfig{PlayerCount: 1, Seed: 1}, capture)
	w.byID["base-p1"].HP = 0

	w.Advance(0.1)

	p1 := w.Player("p1")
	if !p1.Defeated {
		t.Fatal("expected p1 defeated after base destruction")
	}
	if !w.GameOver() || w.Winner() != WinnerZombies {
		t.Fatalf("expected zombies win, got over=%v winner=%q", w.GameOver(), w.Winner())
	}
	if defeats := capture.ofType(lifecyclelog.EventPlayerDefeated); len(defeats) != 1 {
		t.Fatalf("expected one defeat event, got %d", len(defeats))
	}
	if overs := capture.ofType(simlog.EventGameOver); len(overs) != 1 {
		t.Fatalf("expected one game-over event, got %d", len(overs))
	}
}

func TestSurvivingPlayersKeepPlayingAfterOneDefeat(t *testing.T) {
	w := newTestWorld(2)
	w.byID["base-p1"].HP = 0

	w.Advance(0.1)

	if w.GameOver() {
		t.Fatal("game should continue while a player base stands")
	}
	if !w.Player("p1").Defeated {
		t.Fatal("expected p1 defeated")
	}
	if w.Player("p2").Defeated {
		t.Fatal("expected p2 still playing")
	}
}

func TestEnemyBaseDestructionWinsForPlayers(t *testing.T) {
	w := newTestWorld(2)
	w.byID["base-enemy"].HP = 0

	w.Advance(0.1)

	if !w.GameOver() || w.Winner() != WinnerPlayers {
		t.Fatalf("expected players win, got over=%v winner=%q", w.GameOver(), w.Winner())
	}
}

func TestSimultaneousBaseLossFavorsZombies(t *testing.T) {
	w := newTestWorld(1)
	w.byID["base-p1"].HP = 0
	w.byID["base-enemy"].HP = 0

	w.Advance(0.1)

	if w.Winner() != WinnerZombies {
		t.Fatalf("expected zombies on simultaneous loss, got %q", w.Winner())
	}
}

func TestGameOverFreezesSimulation(t *testing.T) {
	w := newTestWorld(1)
	w.byID["base-enemy"].HP = 0
	w.Advance(0.1)
	if !w.GameOver() {
		t.Fatal("expected game over")
	}

	tick := w.Tick()
	winner := w.Winner()
	addZombie(w, geom.Vec2{X: 31.5, Y: 33.5})
	w.Advance(1.0)
	w.Advance(1.0)

	if w.Tick() != tick {
		t.Fatalf("expected tick frozen at %d, got %d", tick, w.Tick())
	}
	if w.Winner() != winner {
		t.Fatalf("winner changed from %q to %q", winner, w.Winner())
	}
}

func TestUnitDeathReleasesPopulation(t *testing.T) {
	w := newTestWorld(1)
	res := w.SpawnUnit("p1")
	if !res.Accepted {
		t.Fatalf("expected spawn to succeed, got %q", res.Reason)
	}
	p1 := w.Player("p1")
	if p1.Pop != 1 {
		t.Fatalf("expected pop 1, got %d", p1.Pop)
	}

	w.Entity(res.EntityID).HP = 0
	w.Advance(0.1)

	if p1.Pop != 0 {
		t.Fatalf("expected pop released, got %d", p1.Pop)
	}
}

func TestZombieWalksTowardNearestPlayerTarget(t *testing.T) {
	w := newTestWorld(1)
	base := w.byID["base-p1"]
	zombie := addZombie(w, geom.Vec2{X: 30.5, Y: 33.5})
	before := geom.Dist(zombie.Pos, base.Pos)

	for i := 0; i < 20; i++ {
		w.Advance(1.0 / 15.0)
	}

	after := geom.Dist(zombie.Pos, base.Pos)
	if after >= before {
		t.Fatalf("expected zombie to close distance to the base: %.2f -> %.2f", before, after)
	}
}

func TestReplanAfterTargetSwapInsideCooldown(t *testing.T) {
	w := newTestWorld(1)
	zombie := addZombie(w, geom.Vec2{X: 30.5, Y: 33.5})
	far := addUnit(w, "p1", geom.Vec2{X: 36.5, Y: 27.5})

	w.updateActor(zombie, 0.05)
	if zombie.plannedTarget != far.ID {
		t.Fatalf("expected initial plan toward %s, got %q", far.ID, zombie.plannedTarget)
	}

	// A strictly closer unit appears while the path cooldown is still
	// running: the lock swaps but the cached path stays the old one.
	near := addUnit(w, "p1", geom.Vec2{X: 32.5, Y: 31.5})
	w.updateActor(zombie, 0.05)
	if zombie.targetID != near.ID {
		t.Fatalf("expected lock swapped to %s, got %q", near.ID, zombie.targetID)
	}
	if zombie.plannedTarget != far.ID {
		t.Fatalf("expected cached path still planned for %s, got %q", far.ID, zombie.plannedTarget)
	}

	// Once the cooldown expires the mismatch must force a replan.
	w.updateActor(zombie, 0.4)
	if zombie.plannedTarget != near.ID {
		t.Fatalf("expected replan toward %s after cooldown, got %q", near.ID, zombie.plannedTarget)
	}
	if zombie.pathExhausted() {
		t.Fatal("expected fresh waypoints after the replan")
	}
	last := zombie.waypoints[len(zombie.waypoints)-1]
	lx, ly := geom.TileOf(last)
	nx, ny := geom.TileOf(near.Pos)
	if lx != nx || ly != ny {
		t.Fatalf("expected path ending on the new target's tile (%d, %d), got (%d, %d)", nx, ny, lx, ly)
	}
}

func TestDestroyedWallUnblocksTiles(t *testing.T) {
	w := newTestWorld(1)
	res := w.BuildWall("p1", 30.5, 33.5)
	if !res.Accepted {
		t.Fatalf("expected wall build to succeed, got %q", res.Reason)
	}
	wall := w.Entity(res.EntityID)
	wall.HP = 0

	w.Advance(0.1)

	if len(w.blockedTiles) != w.countBlockedForTest() {
		t.Fatal("blocked tile bookkeeping diverged after sweep")
	}
	if w.Entity(res.EntityID) != nil {
		t.Fatal("expected wall removed")
	}
	for tile, id := range w.blockedTiles {
		if id == res.EntityID {
			t.Fatalf("expected no tiles registered to destroyed wall, found %v", tile)
		}
	}
}

// countBlockedForTest recomputes the blocked-tile count from live entities.
func (w *World) countBlockedForTest() int {
	fresh := make(map[string]struct{})
	for _, e := range w.entities {
		if e.Type.Blocking() && e.Alive() {
			fresh[e.ID] = struct{}{}
		}
	}
	count := 0
	for _, id := range w.blockedTiles {
		if _, ok := fresh[id]; ok {
			count++
		}
	}
	return count
}
