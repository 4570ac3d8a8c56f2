package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/broker"
	"github.com/Nixie-Tech-LLC/marquee/internal/config"
	"github.com/Nixie-Tech-LLC/marquee/internal/db"
	"github.com/Nixie-Tech-LLC/marquee/internal/player"
	"github.com/Nixie-Tech-LLC/marquee/internal/redis"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
)

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg)

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		log.Info().Str("address", cfg.RedisAddress).Msg("redis etag cache enabled")
	}
	etags := redis.NewETagCache(redis.Rdb, cfg.ETagTTL)

	var notifier player.Notifier
	var bus *broker.Broker
	if cfg.MQTTBrokerURL != "" {
		client, err := broker.Dial(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.Error().Err(err).Msg("mqtt unavailable, continuing without commands")
		} else {
			bus = broker.New(client, store)
			notifier = bus
		}
	}

	players := player.NewManager(store, player.Options{
		Clock:    rotation.RealClock{},
		Assets:   InitStorage(cfg),
		Notifier: notifier,
	})

	if bus != nil {
		if err := bus.Serve(players); err != nil {
			log.Error().Err(err).Msg("mqtt subscribe failed")
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, players, etags)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	players.Close()
	if bus != nil {
		bus.Close()
	}
	if redis.Rdb != nil {
		_ = redis.Rdb.Close()
	}
	_ = db.DB.Close()
}
