package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/config"
	"restaurant_service/internal/database"
	"restaurant_service/internal/events"
	"restaurant_service/internal/handlers"
	"restaurant_service/internal/logger"
	"restaurant_service/internal/migrations"
	"restaurant_service/internal/redis"
	"restaurant_service/internal/repository"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New("restaurant-api", cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Initialize(database.Options{
		Driver:          cfg.DBDriver,
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogLevel:        cfg.LogLevel,
	})
	if err != nil {
		log.Error("startup", "", "Failed to connect to database", err)
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	err = migrations.RunMigrations(db, migrations.Admin{
		Name:     cfg.AdminName,
		Login:    cfg.AdminLogin,
		Password: cfg.AdminPassword,
	}, log)
	if err != nil {
		log.Error("startup", "", "Failed to migrate database", err)
		return err
	}

	// Redis and RabbitMQ are optional. Without them logout is a no-op and
	// kitchen events only reach the WebSocket stream.
	var (
		revoker auth.Revoker = auth.NopRevoker{}
		pinger  handlers.Pinger
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.Error("startup", "", "Failed to connect to Redis", err)
			return err
		}
		defer redisClient.Close()
		revoker, pinger = redisClient, redisClient
	}

	hub := events.NewHub(log)
	defer hub.Close()
	publisher := events.Fanout{hub}
	if cfg.AMQPURL != "" {
		amqp, err := events.Dial(cfg.AMQPURL, log)
		if err != nil {
			log.Error("startup", "", "Failed to connect to RabbitMQ", err)
			return err
		}
		defer amqp.Close()
		publisher = append(publisher, amqp)
	}

	issuer, err := auth.NewIssuer(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		return err
	}

	svc := services.New(repository.NewStore(db), issuer, revoker, publisher, log)
	router := handlers.SetupRouter(handlers.RouterDeps{
		Services:       svc,
		DB:             db,
		Redis:          pinger,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Hub:            hub,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("startup", "", fmt.Sprintf("Server starting on port %s", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown", "", "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown", "", "Server stopped with error", err)
		return err
	}
	log.Info("shutdown", "", "Server stopped")
	return nil
}
