// Package sim drives the authoritative world with a fixed-timestep loop.
// Network goroutines stage commands; the loop drains them, applies them
// through the engine's public operations, and advances the tick — the
// world is only ever touched from the loop goroutine.
package sim

import (
	"sync"
	"time"

	"holdfast/server/internal/game"
)

// CommandType identifies a staged intent.
type CommandType string

const (
	CommandSpawnUnit   CommandType = "spawnUnit"
	CommandBuildHouse  CommandType = "buildHouse"
	CommandBuildMine   CommandType = "buildMine"
	CommandBuildWall   CommandType = "buildWall"
	CommandRemoveWall  CommandType = "removeWall"
	CommandSpawnWave   CommandType = "spawnWave"
	CommandGrantIncome CommandType = "grantIncome"
)

// Reject reasons for Enqueue.
const (
	CommandRejectQueueLimit = "queue_limit"
	CommandRejectQueueFull  = "queue_full"
)

// SystemActor issues the wave and income scheduler commands.
const SystemActor = "system"

// Command is one staged intent. ActorID is the issuing player, or
// SystemActor for scheduler-driven commands.
type Command struct {
	ActorID string      `json:"actorId"`
	Type    CommandType `json:"type"`
	X       float64     `json:"x,omitempty"`
	Y       float64     `json:"y,omitempty"`
}

// CommandOutcome pairs an applied command with the engine's verdict.
type CommandOutcome struct {
	Command Command
	Result  game.CommandResult
}

// LoopConfig tunes the tick loop and command staging.
type LoopConfig struct {
	TickRate        int
	CatchupMaxTicks int
	CommandCapacity int
	PerActorLimit   int
}

// StepResult is handed to the AfterStep hook once per tick.
type StepResult struct {
	Tick     uint64
	Delta    float64
	Duration time.Duration
	Snapshot game.Snapshot
	Outcomes []CommandOutcome
}

// Hooks let the hub observe the loop without reaching into the world.
type Hooks struct {
	AfterStep     func(StepResult)
	OnCommandDrop func(reason string, cmd Command)
}

// Loop owns the world and the staged command queue.
type Loop struct {
	world  *game.World
	buffer *CommandBuffer
	hooks  Hooks
	config LoopConfig

	queueMu       sync.Mutex
	perActorCount map[string]int
}

// NewLoop wraps a world with command staging and a fixed-timestep runner.
func NewLoop(world *game.World, cfg LoopConfig, hooks Hooks) *Loop {
	if world == nil {
		return nil
	}
	return &Loop{
		world:         world,
		buffer:        NewCommandBuffer(cfg.CommandCapacity),
		hooks:         hooks,
		config:        cfg,
		perActorCount: make(map[string]int),
	}
}

// Enqueue stages a command, enforcing per-actor throttling and capacity.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	if l == nil {
		return false, CommandRejectQueueFull
	}
	l.queueMu.Lock()
	if l.config.PerActorLimit > 0 && cmd.ActorID != "" && cmd.ActorID != SystemActor {
		if l.perActorCount[cmd.ActorID] >= l.config.PerActorLimit {
			l.queueMu.Unlock()
			l.reportDrop(CommandRejectQueueLimit, cmd)
			return false, CommandRejectQueueLimit
		}
		l.perActorCount[cmd.ActorID]++
	}
	l.queueMu.Unlock()

	if !l.buffer.Push(cmd) {
		l.reportDrop(CommandRejectQueueFull, cmd)
		return false, CommandRejectQueueFull
	}
	return true, ""
}

func (l *Loop) reportDrop(reason string, cmd Command) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

func (l *Loop) drainCommands() []Command {
	commands := l.buffer.Drain()
	l.queueMu.Lock()
	if len(l.perActorCount) > 0 {
		l.perActorCount = make(map[string]int)
	}
	l.queueMu.Unlock()
	return commands
}

// apply routes one command to the engine operation it names.
func (l *Loop) apply(cmd Command) game.CommandResult {
	switch cmd.Type {
	case CommandSpawnUnit:
		return l.world.SpawnUnit(cmd.ActorID)
	case CommandBuildHouse:
		return l.world.BuildHouse(cmd.ActorID, cmd.X, cmd.Y)
	case CommandBuildMine:
		return l.world.BuildMine(cmd.ActorID, cmd.X, cmd.Y)
	case CommandBuildWall:
		return l.world.BuildWall(cmd.ActorID, cmd.X, cmd.Y)
	case CommandRemoveWall:
		return l.world.RemoveWall(cmd.ActorID, cmd.X, cmd.Y)
	case CommandSpawnWave:
		l.world.SpawnZombieWave()
		return game.CommandResult{Accepted: true}
	case CommandGrantIncome:
		l.world.GrantIncome()
		return game.CommandResult{Accepted: true}
	}
	return game.CommandResult{Reason: "unknown_command"}
}

// Advance executes a single step: drain, apply, tick, snapshot.
func (l *Loop) Advance(dt float64) StepResult {
	if l == nil {
		return StepResult{}
	}
	commands := l.drainCommands()
	outcomes := make([]CommandOutcome, 0, len(commands))
	for _, cmd := range commands {
		outcomes = append(outcomes, CommandOutcome{Command: cmd, Result: l.apply(cmd)})
	}
	l.world.Advance(dt)
	return StepResult{
		Tick:     l.world.Tick(),
		Delta:    dt,
		Snapshot: l.world.Snapshot(),
		Outcomes: outcomes,
	}
}

// Run drives the fixed-timestep loop until the stop channel closes.
// Elapsed time beyond the catch-up budget is clamped so a stalled host
// does not fast-forward the simulation.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	tickRate := l.config.TickRate
	if tickRate <= 0 {
		tickRate = 15
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	budget := 1.0 / float64(tickRate)
	maxDt := budget
	if l.config.CatchupMaxTicks > 1 {
		maxDt = budget * float64(l.config.CatchupMaxTicks)
	}

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := time.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budget
			} else if dt > maxDt {
				dt = maxDt
			}
			last = now

			start := time.Now()
			result := l.Advance(dt)
			result.Duration = time.Since(start)

			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}
