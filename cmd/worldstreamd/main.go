// Command worldstreamd runs the world streaming core as a standalone
// process: it loads a worldcore.toml, overlays --seed/--save-dir/
// --render-distance flags onto it, drives the stream manager's tick loop
// at a fixed rate, and exposes an operator console on stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashgrove-voxel/worldcore/console"
	"github.com/ashgrove-voxel/worldcore/stream"
)

// tickRate is the fixed main-thread tick the streaming loop is driven at;
// FluidTick rides along every tick too since nothing in this standalone
// binary needs a separate 20 Hz clock_tick signal (spec §6) from a
// renderer's own frame loop.
const tickRate = 50 * time.Millisecond

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		configPath     string
		seed           int64
		saveDir        string
		renderDistance int
	)
	flag.StringVar(&configPath, "config", "worldcore.toml", "path to the world configuration file")
	flag.Int64Var(&seed, "seed", 0, "world seed (overrides the config file when nonzero)")
	flag.StringVar(&saveDir, "save-dir", "", "save directory (overrides the config file when set)")
	flag.IntVar(&renderDistance, "render-distance", 0, "render radius in chunks (overrides the config file when nonzero)")
	flag.Parse()

	uc, err := stream.LoadUserConfig(configPath)
	if err != nil {
		log.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if seed != 0 {
		uc.World.Seed = seed
	}
	if saveDir != "" {
		uc.World.SaveDir = saveDir
	}
	if renderDistance != 0 {
		uc.Streaming.RenderDistance = renderDistance
	}

	cfg, err := uc.Config(log)
	if err != nil {
		log.Error("failed to build configuration", "error", err)
		os.Exit(1)
	}

	mgr, err := stream.NewManager(cfg)
	if err != nil {
		log.Error("failed to start stream manager", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	spawnX, spawnY, spawnZ := mgr.SpawnPoint()
	log.Info("world streaming core started",
		"seed", cfg.Seed, "save_dir", cfg.SaveDir, "render_radius", cfg.RenderRadius,
		"spawn_x", spawnX, "spawn_y", spawnY, "spawn_z", spawnZ,
	)

	go console.New(mgr, log, cancel).Run(ctx)

	runTickLoop(ctx, mgr)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := mgr.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown did not complete cleanly", "error", err)
		os.Exit(1)
	}
	log.Info("world streaming core stopped")
}

func runTickLoop(ctx context.Context, mgr *stream.Manager) {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mgr.Tick()
			mgr.FluidTick()
		}
	}
}

func signalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			log.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}

		time.AfterFunc(30*time.Second, func() {
			fmt.Fprintln(os.Stderr, "forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
