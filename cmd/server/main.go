package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/game"
	"github.com/wordspy/wordspy/internal/infrastructure/configs"
	"github.com/wordspy/wordspy/internal/infrastructure/events"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/messaging"
	"github.com/wordspy/wordspy/internal/infrastructure/metrics"
	"github.com/wordspy/wordspy/internal/infrastructure/ratelimiter"
	"github.com/wordspy/wordspy/internal/infrastructure/tracing"
	"github.com/wordspy/wordspy/internal/infrastructure/ws"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"github.com/wordspy/wordspy/internal/persistence/memory"
	"github.com/wordspy/wordspy/internal/persistence/repository"
	"github.com/wordspy/wordspy/internal/presentation/api"
	"github.com/wordspy/wordspy/internal/presentation/handler/health"
	"github.com/wordspy/wordspy/internal/presentation/handler/play"
	"github.com/wordspy/wordspy/internal/session"
)

const (
	serviceName = "wordspy-api"
)

// @title        WordSpy API
// @version      1.0
// @description  Authoritative session core for a team word-deduction game.
// @BasePath     /api
func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	repos, auditRepo, disconnect, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer disconnect()

	publisher, closeMessaging, err := buildMessaging(cfg, auditRepo, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer closeMessaging()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(promRegistry)

	wordPool := loadWordPool(cfg, logger)

	wsCore := ws.NewCore(logger)
	go wsCore.Run()

	registry := session.NewRegistry(wsCore, m, logger, session.TimerSettings{
		Enabled:          cfg.Timer.Enabled,
		SpymasterSeconds: cfg.Timer.SpymasterSeconds,
		OperativeSeconds: cfg.Timer.OperativeSeconds,
		FirstRoundBonus:  cfg.Timer.FirstRoundBonus,
	})
	go registry.Run(ctx)

	machine := session.NewMachine(repos, registry, wsCore, publisher, m, logger, wordPool)
	coordinator := session.NewCoordinator(repos, registry, machine, wsCore, publisher, logger)

	playHandler := play.NewHandler(repos.Players, coordinator, machine, registry, wsCore, m, logger)
	wsCore.SetHandler(playHandler)

	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		RequestsPerWindow: cfg.RateLimiter.RequestsPerWindow,
		Window:            cfg.RateLimiter.Window,
		SourceHeaderKey:   cfg.RateLimiter.SourceHeaderKey,
	})

	app := &api.Application{
		Config:        cfg.HTTP,
		Logger:        logger,
		HealthHandler: healthHandler,
		PlayHandler:   playHandler,
		RateLimiter:   rl,
		Metrics:       m,
		Registry:      promRegistry,
	}

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Shutdown, "server exited", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}

func buildRepositories(ctx context.Context, cfg *configs.Config, logger logging.Logger) (session.Repositories, domain.RoomAuditRepository, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Info(logging.Internal, logging.Startup, "using in-memory storage", nil)

		return session.Repositories{
			Players:     memory.NewPlayerRepository(),
			Rooms:       memory.NewRoomRepository(),
			Memberships: memory.NewMembershipRepository(),
			Games:       memory.NewGameRepository(),
			Cards:       memory.NewCardRepository(),
			Logs:        memory.NewGameLogRepository(),
		}, memory.NewRoomAuditRepository(), func() {}, nil

	default:
		mongoCfg := &db.MongoConfig{
			URI:               cfg.Storage.MongoURI,
			Database:          cfg.Storage.Database,
			ConnectionTimeout: db.DefaultConnectionTimeout,
		}

		client, err := db.NewMongoClient(ctx, mongoCfg)
		if err != nil {
			return session.Repositories{}, nil, nil, err
		}

		database := db.GetDatabase(client, mongoCfg)

		if err := repository.EnsureIndexes(ctx, database); err != nil {
			return session.Repositories{}, nil, nil, err
		}

		auditRepo := repository.NewRoomAuditLogRepository(database)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			return session.Repositories{}, nil, nil, err
		}

		logger.Info(logging.Mongo, logging.Startup, "connected to mongodb", map[logging.ExtraKey]any{
			"database": mongoCfg.Database,
		})

		disconnect := func() {
			db.DisconnectMongo(context.Background(), client)
		}

		return session.Repositories{
			Players:     repository.NewPlayerRepository(database),
			Rooms:       repository.NewRoomRepository(database),
			Memberships: repository.NewMembershipRepository(database),
			Games:       repository.NewGameRepository(database),
			Cards:       repository.NewCardRepository(database),
			Logs:        repository.NewGameLogRepository(database),
		}, auditRepo, disconnect, nil
	}
}

func buildMessaging(cfg *configs.Config, auditRepo domain.RoomAuditRepository, logger logging.Logger) (events.Publisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return events.NopPublisher{}, func() {}, nil
	}

	rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI)
	if err != nil {
		return nil, nil, err
	}

	logger.Info(logging.RabbitMQ, logging.Startup, "connected to rabbitmq", nil)

	publisher := events.NewGamePublisher(rabbitmq)

	auditConsumer := events.NewAuditConsumer(rabbitmq, auditRepo, logger)
	if err := auditConsumer.Listen(); err != nil {
		rabbitmq.Close()
		return nil, nil, err
	}

	return publisher, func() { rabbitmq.Close() }, nil
}

func loadWordPool(cfg *configs.Config, logger logging.Logger) []string {
	if cfg.Game.WordsFile != "" {
		pool, err := game.LoadWordPool(cfg.Game.WordsFile)
		if err == nil && len(pool) >= domain.BoardSize {
			logger.Info(logging.Game, logging.Startup, "loaded word pool", map[logging.ExtraKey]any{
				"path":  cfg.Game.WordsFile,
				"words": len(pool),
			})
			return pool
		}

		if err != nil {
			logger.Warn(logging.Game, logging.Startup, "words file unavailable, falling back to built-in pool", map[logging.ExtraKey]any{
				"path":               cfg.Game.WordsFile,
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	return game.DefaultWordPool
}
