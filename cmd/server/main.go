package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holdfast/server/internal/api"
	"holdfast/server/internal/config"
	"holdfast/server/internal/game"
	hubnet "holdfast/server/internal/net"
	"holdfast/server/internal/sim"
	"holdfast/server/logging"
	"holdfast/server/logging/sinks"
)

func main() {
	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	named := []logging.NamedSink{
		{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, logCfg.Console)},
	}
	if cfg.LogJSONPath != "" {
		file, err := os.OpenFile(cfg.LogJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer file.Close()
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(file, logCfg.JSON.FlushInterval),
		})
	}
	router := logging.NewRouter(nil, logCfg, named)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	}()

	world := game.NewWorld(cfg.Session, router)

	// The hub needs the loop to enqueue intents and the loop's hooks need
	// the hub to publish snapshots, so the hub is wired through a closure.
	var hub *hubnet.Hub
	loop := sim.NewLoop(world, sim.LoopConfig{
		TickRate:        cfg.TickRate,
		CatchupMaxTicks: cfg.CatchupMaxTicks,
		CommandCapacity: cfg.CommandCapacity,
		PerActorLimit:   cfg.PerActorLimit,
	}, sim.Hooks{
		AfterStep: func(result sim.StepResult) {
			hub.OnStep(result)
			api.ObserveTick(result.Duration, len(result.Snapshot.Entities), result.Snapshot.Wave)
			for _, outcome := range result.Outcomes {
				api.CountCommand(string(outcome.Command.Type), outcome.Result.Accepted)
			}
		},
		OnCommandDrop: func(reason string, cmd sim.Command) {
			api.CountCommandDrop(reason)
		},
	})
	hub = hubnet.NewHub(loop, world.Snapshot(), hubnet.HubConfig{
		SnapshotInterval: cfg.SnapshotInterval,
		Publisher:        router,
		OnBroadcast:      api.ObserveBroadcast,
	})

	stop := make(chan struct{})
	go loop.Run(stop)
	go hub.Run(stop)
	go runSchedulers(loop, cfg.WaveInterval, cfg.IncomeInterval, stop)

	httpRouter := api.NewRouter(api.RouterConfig{
		Hub:         hub,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{Addr: cfg.Addr, Handler: httpRouter}
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// runSchedulers enqueues the wave and income system commands on fixed
// timers. They flow through the same queue as player intents, so the
// world is still only touched from the loop goroutine.
func runSchedulers(loop *sim.Loop, waveInterval, incomeInterval time.Duration, stop <-chan struct{}) {
	waves := time.NewTicker(waveInterval)
	income := time.NewTicker(incomeInterval)
	defer waves.Stop()
	defer income.Stop()
	for {
		select {
		case <-stop:
			return
		case <-waves.C:
			loop.Enqueue(sim.Command{ActorID: sim.SystemActor, Type: sim.CommandSpawnWave})
		case <-income.C:
			loop.Enqueue(sim.Command{ActorID: sim.SystemActor, Type: sim.CommandGrantIncome})
		}
	}
}
