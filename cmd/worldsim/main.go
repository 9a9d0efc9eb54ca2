package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/islandcraft/internal/config"
	"github.com/udisondev/islandcraft/internal/content"
	"github.com/udisondev/islandcraft/internal/db"
	"github.com/udisondev/islandcraft/internal/game/terrain"
	"github.com/udisondev/islandcraft/internal/model"
	"github.com/udisondev/islandcraft/internal/save"
	"github.com/udisondev/islandcraft/internal/sim"
	"github.com/udisondev/islandcraft/internal/world"
)

const ConfigPath = "config/worldsim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("ISLANDCRAFT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadApp(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("worldsim starting",
		"log_level", cfg.LogLevel,
		"world_size", cfg.World.Size,
		"storage", cfg.Storage.Driver)

	catalog, err := content.Load(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	surfaces, err := loadSurfaces(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Load(ctx)
	switch {
	case errors.Is(err, world.ErrNoSnapshot):
		slog.Info("no saved world, seeding a new island")
		snap = world.SeedSnapshot(cfg.World, surfaces)
	case err != nil:
		return fmt.Errorf("loading world: %w", err)
	}

	mgr := world.NewManager(cfg.World, model.NewFactory(catalog))
	if err := mgr.Initialize(surfaces, snap); err != nil {
		return err
	}

	loop := sim.NewLoop(mgr, store, cfg.TickRate, cfg.AutosaveInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Start(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("worldsim stopped", "ticks", loop.Ticks())
	return nil
}

func loadSurfaces(cfg config.App) (map[model.NodeIndex]terrain.Surface, error) {
	if cfg.TerrainDir == "" {
		return world.GeneratedSurfaces(cfg.World), nil
	}

	tiles, err := terrain.LoadDir(cfg.TerrainDir, cfg.World.Size, cfg.World.HeightMapResolution, cfg.World.NodeStride)
	if err != nil {
		return nil, fmt.Errorf("loading terrain: %w", err)
	}
	out := make(map[model.NodeIndex]terrain.Surface, len(tiles))
	for idx, hm := range tiles {
		out[idx] = hm
	}
	return out, nil
}

func openStore(ctx context.Context, cfg config.Storage) (world.Store, func(), error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
		return db.NewWorldRepository(database.Pool()), database.Close, nil
	default:
		slog.Info("saving to files", "dir", cfg.SaveDir)
		return save.NewFileStore(cfg.SaveDir), func() {}, nil
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
