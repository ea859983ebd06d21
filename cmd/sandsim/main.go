package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GimmeDataNow/falling-sand/internal/config"
	"github.com/GimmeDataNow/falling-sand/internal/world"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to simulation configuration file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	w := world.NewWorld(cfg.Storage.ChunksDir, int32(cfg.Sim.WindowSize), rng)

	ctx, cancel := signalContext()
	defer cancel()

	if err := run(ctx, w, cfg); err != nil {
		log.Fatalf("simulation exited with error: %v", err)
	}
}

// run drives the tick loop at cfg.Sim.TickInterval, persisting the world
// periodically and on shutdown. A failed periodic persist is logged; run
// returns only on context cancellation, with the result of the final
// PersistAll.
func run(ctx context.Context, w *world.World, cfg *config.Config) error {
	center := world.GlobalCoord{X: cfg.Sim.Center.X, Y: cfg.Sim.Center.Y}

	ticker := time.NewTicker(cfg.Sim.TickInterval)
	defer ticker.Stop()

	persistTicker := time.NewTicker(cfg.Storage.PersistInterval)
	defer persistTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("shutting down, persisting world at generation %d", w.Generation())
			return w.PersistAll()
		case <-ticker.C:
			w.Tick(center)
		case <-persistTicker.C:
			if err := w.PersistAll(); err != nil {
				log.Printf("persist all: %v", err)
			}
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			log.Printf("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
