package sim

import (
	"testing"

	"holdfast/server/internal/game"
	"holdfast/server/logging"
)

func newTestLoop(cfg LoopConfig, hooks Hooks) *Loop {
	world := game.NewWorld(game.SessionConfig{PlayerCount: 1, Seed: 1}, logging.NopPublisher{})
	return NewLoop(world, cfg, hooks)
}

func TestEnqueueStagesCommandsUntilNextAdvance(t *testing.T) {
	loop := newTestLoop(LoopConfig{}, Hooks{})
	ok, reason := loop.Enqueue(Command{ActorID: "p1", Type: CommandSpawnUnit})
	if !ok || reason != "" {
		t.Fatalf("expected enqueue to succeed, got %v %q", ok, reason)
	}
	if loop.Pending() != 1 {
		t.Fatalf("expected 1 pending command, got %d", loop.Pending())
	}

	result := loop.Advance(1.0 / 15.0)
	if loop.Pending() != 0 {
		t.Fatalf("expected pending drained, got %d", loop.Pending())
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(result.Outcomes))
	}
	if !result.Outcomes[0].Result.Accepted {
		t.Fatalf("expected spawn accepted, got %+v", result.Outcomes[0].Result)
	}
	if result.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", result.Tick)
	}
}

func TestEnqueueEnforcesPerActorLimit(t *testing.T) {
	var drops []string
	loop := newTestLoop(LoopConfig{PerActorLimit: 2}, Hooks{
		OnCommandDrop: func(reason string, cmd Command) {
			drops = append(drops, reason)
		},
	})

	loop.Enqueue(Command{ActorID: "p1", Type: CommandSpawnUnit})
	loop.Enqueue(Command{ActorID: "p1", Type: CommandSpawnUnit})
	ok, reason := loop.Enqueue(Command{ActorID: "p1", Type: CommandSpawnUnit})
	if ok || reason != CommandRejectQueueLimit {
		t.Fatalf("expected %s, got %v %q", CommandRejectQueueLimit, ok, reason)
	}
	if len(drops) != 1 || drops[0] != CommandRejectQueueLimit {
		t.Fatalf("expected one throttle drop, got %v", drops)
	}

	// Other actors are unaffected, and the budget resets each step.
	if ok, _ := loop.Enqueue(Command{ActorID: "p2", Type: CommandSpawnUnit}); !ok {
		t.Fatal("expected other actor to enqueue")
	}
	loop.Advance(1.0 / 15.0)
	if ok, _ := loop.Enqueue(Command{ActorID: "p1", Type: CommandSpawnUnit}); !ok {
		t.Fatal("expected throttle budget reset after advance")
	}
}

func TestEnqueueExemptsSystemActor(t *testing.T) {
	loop := newTestLoop(LoopConfig{PerActorLimit: 1}, Hooks{})
	for i := 0; i < 5; i++ {
		if ok, reason := loop.Enqueue(Command{ActorID: SystemActor, Type: CommandGrantIncome}); !ok {
			t.Fatalf("expected system command %d to bypass throttling, got %q", i, reason)
		}
	}
}

func TestEnqueueReportsFullQueue(t *testing.T) {
	loop := newTestLoop(LoopConfig{CommandCapacity: 1}, Hooks{})
	loop.Enqueue(Command{ActorID: "p1", Type: CommandSpawnUnit})
	ok, reason := loop.Enqueue(Command{ActorID: "p2", Type: CommandSpawnUnit})
	if ok || reason != CommandRejectQueueFull {
		t.Fatalf("expected %s, got %v %q", CommandRejectQueueFull, ok, reason)
	}
}

func TestApplyRoutesCommandsToEngineOperations(t *testing.T) {
	loop := newTestLoop(LoopConfig{}, Hooks{})

	// Build commands carry coordinates through to the engine.
	loop.Enqueue(Command{ActorID: "p1", Type: CommandBuildWall, X: 30.5, Y: 33.5})
	loop.Enqueue(Command{ActorID: SystemActor, Type: CommandSpawnWave})
	result := loop.Advance(1.0 / 15.0)

	if len(result.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(result.Outcomes))
	}
	wall := result.Outcomes[0]
	if !wall.Result.Accepted || wall.Result.EntityID == "" {
		t.Fatalf("expected wall build accepted with id, got %+v", wall.Result)
	}
	if !result.Outcomes[1].Result.Accepted {
		t.Fatalf("expected wave command accepted, got %+v", result.Outcomes[1].Result)
	}
	if result.Snapshot.Wave != 1 {
		t.Fatalf("expected wave 1 in snapshot, got %d", result.Snapshot.Wave)
	}

	found := false
	for _, e := range result.Snapshot.Entities {
		if e.ID == wall.Result.EntityID && e.Type == game.EntityWall {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the wall in the step snapshot")
	}
}

func TestApplyRejectsUnknownCommandType(t *testing.T) {
	loop := newTestLoop(LoopConfig{}, Hooks{})
	loop.Enqueue(Command{ActorID: "p1", Type: CommandType("teleport")})
	result := loop.Advance(1.0 / 15.0)
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Result.Accepted {
		t.Fatal("expected unknown command rejected")
	}
}

func TestAdvanceSnapshotsAfterSimulation(t *testing.T) {
	loop := newTestLoop(LoopConfig{}, Hooks{})
	first := loop.Advance(1.0 / 15.0)
	second := loop.Advance(1.0 / 15.0)
	if first.Snapshot.Tick != 1 || second.Snapshot.Tick != 2 {
		t.Fatalf("expected snapshot ticks 1 and 2, got %d and %d",
			first.Snapshot.Tick, second.Snapshot.Tick)
	}
}

func TestNewLoopRequiresWorld(t *testing.T) {
	if NewLoop(nil, LoopConfig{}, Hooks{}) != nil {
		t.Fatal("expected nil loop for nil world")
	}
}
