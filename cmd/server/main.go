package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardforge/cardforge-server/internal/config"
	"github.com/cardforge/cardforge-server/internal/game"
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/watchers"
	"github.com/cardforge/cardforge-server/internal/server"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting cardforge server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	logger.Info("card catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("definitions", cat.Len()),
	)

	seed := cfg.Engine.RNGSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	engine, err := game.NewEngine(cat, engineRules(cfg.Engine),
		game.WithLogger(logger.Named("engine")),
		game.WithRandom(game.NewSeededRandom(seed)),
	)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	bus := rules.NewEventBus()
	tracker := watchers.NewTracker(nil)
	tracker.Attach(bus)

	opts := []game.ManagerOption{game.WithEventBus(bus)}
	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger.Named("replay"), cfg.Replay.Directory)
		opts = append(opts, game.WithReplayRecorder(recorder))
	}
	manager := game.NewManager(engine, logger.Named("manager"), opts...)

	// Finished matches are saved and forgotten.
	manager.Observe(func(n game.Notification) {
		if n.Snapshot.Phase != state.PhaseEnded {
			return
		}
		logger.Info("match finished",
			zap.String("match_id", n.MatchID),
			zap.String("winner", n.Snapshot.Winner),
			zap.Int("turns", n.Snapshot.Turn),
		)
		if recorder != nil {
			if err := recorder.SaveReplay(n.MatchID); err != nil {
				logger.Error("failed to save replay", zap.String("match_id", n.MatchID), zap.Error(err))
			}
		}
		manager.Remove(n.MatchID)
		tracker.Forget(n.MatchID)
	})

	wsServer := server.NewServer(cfg.Server.WebSocket, manager, logger.Named("websocket"), server.WithTracker(tracker))

	logger.Info("cardforge server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
		zap.Bool("strict_invariants", cfg.Engine.StrictInvariants),
		zap.Bool("replays", cfg.Replay.Enabled),
	)

	if err := wsServer.Run(ctx); err != nil {
		logger.Fatal("websocket server error", zap.Error(err))
	}
	logger.Info("cardforge server stopped")
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	switch cfg.Source {
	case config.CatalogSourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		stats := pool.Stat()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		return catalog.LoadPostgres(ctx, pool, cfg.Table)
	default:
		return catalog.LoadFile(cfg.Path)
	}
}

func engineRules(cfg config.EngineConfig) game.Rules {
	r := game.DefaultRules()
	r.HandCap = cfg.HandCap
	r.BoardCap = cfg.BoardCap
	r.MaxMana = cfg.MaxMana
	r.StartingHealth = cfg.StartingHealth
	r.StrictInvariants = cfg.StrictInvariants
	r.MaxTriggerIterations = cfg.MaxTriggerIterations
	r.DiscoverOptions = cfg.DiscoverOptions
	r.AdaptOptions = cfg.AdaptOptions
	return r
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
