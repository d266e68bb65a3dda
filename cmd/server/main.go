package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/mindtrack/internal/config"     // Internal config loader
	"github.com/iliyamo/mindtrack/internal/database"   // MySQL pool and migrations
	"github.com/iliyamo/mindtrack/internal/handler"    // HTTP handlers
	"github.com/iliyamo/mindtrack/internal/logger"     // zerolog setup
	"github.com/iliyamo/mindtrack/internal/middleware" // rate limiter
	"github.com/iliyamo/mindtrack/internal/queue"      // activity consumer
	"github.com/iliyamo/mindtrack/internal/repository" // MySQL repositories
	"github.com/iliyamo/mindtrack/internal/router"     // Internal router setup
	queue_publisher "github.com/iliyamo/mindtrack/internal/service"
	"github.com/iliyamo/mindtrack/internal/utils" // session codec
)

func main() {
	cfg := config.Load() // Load environment config
	logger.Init(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, login/register are not rate limited")
	} else {
		defer rdb.Close()
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	evCfg := config.LoadEventsConfig()
	var events handler.EventPublisher = queue_publisher.Noop{}
	if evCfg.Enabled {
		events = queue_publisher.New(evCfg)
		if evCfg.RunConsumer {
			activityLog := queue.NewActivityLog(evCfg)
			defer activityLog.Close()
			go func() {
				if err := queue.StartActivityConsumer(ctx, evCfg, activityLog); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("activity consumer stopped")
				}
			}()
		}
	}

	codec := utils.NewSessionCodec(cfg.JWTSecret)
	auth := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), codec, events)
	tracker := handler.NewTracker(repository.NewGoalRepo(db), repository.NewJournalRepo(db), repository.NewMoodRepo(db), events)

	e := echo.New() // Create Echo instance
	router.Setup(e)
	router.RegisterRoutes(e, db) // Register application routes
	api := router.API(e, codec)
	router.RegisterAuth(api, auth, limiter)
	router.RegisterTracker(api, tracker)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
