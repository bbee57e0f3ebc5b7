package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/adapters/cache"
	"github.com/comitanigiacomo/zen-producer/internal/adapters/coach"
	adapterHTTP "github.com/comitanigiacomo/zen-producer/internal/adapters/handler/http"
	"github.com/comitanigiacomo/zen-producer/internal/adapters/repository"
	"github.com/comitanigiacomo/zen-producer/internal/config"
	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
	"github.com/comitanigiacomo/zen-producer/internal/core/services"
	"github.com/comitanigiacomo/zen-producer/internal/core/workers"
)

type storage struct {
	users     domain.UserRepository
	tasks     domain.TaskRepository
	stats     domain.StatsRepository
	templates domain.TemplateRepository
	feedback  domain.FeedbackRepository
	db        *sqlx.DB
}

type application struct {
	router  *gin.Engine
	worker  *workers.PenaltyWorker
	tracker *services.TrackerService
	closers []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return &storage{
			users:     repository.NewInMemoryUserRepository(),
			tasks:     repository.NewInMemoryTaskRepository(),
			stats:     repository.NewInMemoryStatsRepository(),
			templates: repository.NewInMemoryTemplateRepository(),
			feedback:  repository.NewInMemoryFeedbackRepository(),
		}, nil
	}

	logger.Info("connecting to database", zap.String("driver", cfg.DBDriver), zap.String("host", cfg.DBHost))
	db, err := repository.Connect(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := repository.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("schema is up to date")
	}

	return &storage{
		users:     repository.NewPostgresUserRepository(db),
		tasks:     repository.NewPostgresTaskRepository(db),
		stats:     repository.NewPostgresStatsRepository(db),
		templates: repository.NewPostgresTemplateRepository(db),
		feedback:  repository.NewPostgresFeedbackRepository(db),
		db:        db,
	}, nil
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// cache and the rate limiter are then skipped.
func connectRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and rate limiting", zap.Error(err))
		return nil
	}
	logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return rdb
}

func newApplication(ctx context.Context, cfg *config.Config, migrate bool, logger *zap.Logger) (*application, error) {
	app := &application{}

	store, err := openStorage(ctx, cfg, migrate, logger)
	if err != nil {
		return nil, err
	}
	if store.db != nil {
		app.closers = append(app.closers, func() { _ = store.db.Close() })
	}

	rdb := connectRedis(ctx, cfg, logger)
	tasks := store.tasks
	if rdb != nil {
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		tasks = repository.NewCachedTaskRepository(store.tasks, rdb, cfg.CacheTTL, logger)
	}

	provider, err := coach.New(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("coach provider: %w", err)
	}
	if provider == nil {
		logger.Info("coach provider disabled, answers use the fallback message")
	}

	tracker := services.NewTrackerService(tasks, store.stats, store.templates, cfg.Location, logger)
	authService := services.NewAuthService(store.users)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTDuration, store.users)
	feedbackService := services.NewFeedbackService(store.feedback)
	coachService := services.NewCoachService(provider, tracker, cfg.CoachTimeout, logger)

	app.tracker = tracker
	app.worker = workers.NewPenaltyWorker(tracker, store.stats, cfg.PenaltyQueue, cfg.PenaltyInterval, cfg.Location, logger)
	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		TaskHandler:     adapterHTTP.NewTaskHandler(tracker),
		TemplateHandler: adapterHTTP.NewTemplateHandler(tracker),
		StatsHandler:    adapterHTTP.NewStatsHandler(tracker),
		FeedbackHandler: adapterHTTP.NewFeedbackHandler(feedbackService),
		CoachHandler:    adapterHTTP.NewCoachHandler(coachService),
		TokenService:    tokenService,
		DB:              store.db,
		Redis:           rdb,
		Logger:          logger,
		StartTime:       time.Now(),
		RateLimit:       cfg.RateLimit,
		RateWindow:      cfg.RateWindow,
	})

	return app, nil
}
