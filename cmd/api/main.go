package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/youcode/ebanking-api/internal/api"
	"github.com/youcode/ebanking-api/internal/core/service"
	"github.com/youcode/ebanking-api/internal/infrastructure/config"
	"github.com/youcode/ebanking-api/internal/infrastructure/crypto"
	mongodb "github.com/youcode/ebanking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/youcode/ebanking-api/internal/infrastructure/db/redis"
	"github.com/youcode/ebanking-api/internal/infrastructure/queue"
	"github.com/youcode/ebanking-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	logg := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Repositories and index bootstrap ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := roleRepo.EnsureIndexes(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to create role indexes")
	}

	// --- Role seeding, before the server accepts traffic ---
	registry := service.NewRoleRegistry(roleRepo, logg)
	if err := registry.Ensure(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to provision roles")
	}

	// --- Services ---
	auditService := service.NewAuditService(auditRepo, logg)
	dispatcher := queue.NewDispatcher(0, auditService, logg)
	dispatcher.Start(ctx)

	userService := service.NewUserService(
		userRepo,
		roleRepo,
		crypto.NewBcryptHasher(0),
		redisdb.NewLoginThrottle(rdb),
		dispatcher,
		cfg.JWTSecret,
		cfg.TokenTTL,
		logg,
	)

	e := api.NewRouter(db, rdb, userService, auditService, cfg.JWTSecret, logg)

	go func() {
		logg.Info().Str("port", cfg.Port).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logg.Info().Msg("received interruption signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("error during server shutdown")
	}
	logg.Info().Msg("shutdown complete")
}
