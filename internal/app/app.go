package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	redisadapter "github.com/agrolease/agrolease-backend/internal/adapter/cache/redis"
	mongoadapter "github.com/agrolease/agrolease-backend/internal/adapter/mongo"
	natsadapter "github.com/agrolease/agrolease-backend/internal/adapter/nats"
	minioadapter "github.com/agrolease/agrolease-backend/internal/adapter/storage/minio"
	"github.com/agrolease/agrolease-backend/internal/app/config"
	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/mailer"
	"github.com/agrolease/agrolease-backend/internal/platform/logger"
	"github.com/agrolease/agrolease-backend/internal/platform/tracer"
	"github.com/agrolease/agrolease-backend/internal/port/cache"
	httpport "github.com/agrolease/agrolease-backend/internal/port/http"
	"github.com/agrolease/agrolease-backend/internal/port/http/handler"
	"github.com/agrolease/agrolease-backend/internal/usecase"
)

// Run wires every component and blocks until SIGINT/SIGTERM, then shuts the
// HTTP server and external connections down gracefully. Redis, NATS, SMTP
// and tracing are optional: failure to reach them is logged and the service
// runs without that capability. Mongo and MinIO are required.
func Run(cfg *config.Config) error {
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}
	defer logger.Sync(log)

	log.Info("Starting agrolease backend", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracer.Enabled {
		tp, err := tracer.InitTracer(ctx, &cfg.Tracer)
		if err != nil {
			log.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
					log.Warn("Failed to shut down tracer", zap.Error(shutdownErr))
				}
			}()
		}
	}

	mongoClient, err := mongoadapter.NewMongoDBConnection(&cfg.MongoDB)
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return fmt.Errorf("app.Run: %w", err)
	}
	defer func() {
		if discErr := mongoClient.Disconnect(context.Background()); discErr != nil {
			log.Warn("Failed to disconnect MongoDB client", zap.Error(discErr))
		}
	}()
	log.Info("Connected to MongoDB", zap.String("database", cfg.MongoDB.Database))

	media, err := minioadapter.NewMediaStorage(&cfg.Minio, log)
	if err != nil {
		log.Error("Failed to initialize media storage", zap.Error(err))
		return fmt.Errorf("app.Run: %w", err)
	}

	var cacheRepo cache.CacheRepository
	if redisClient, redisErr := redisadapter.NewRedisClient(&cfg.Redis, log); redisErr != nil {
		log.Warn("Redis unavailable, continuing without cache", zap.Error(redisErr))
	} else {
		cacheRepo = redisadapter.NewRedisCacheRepository(redisClient, log)
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				log.Warn("Failed to close Redis client", zap.Error(closeErr))
			}
		}()
	}

	var events usecase.EventPublisher
	if publisher, natsErr := natsadapter.NewPublisher(&cfg.NATS, log); natsErr != nil {
		log.Warn("NATS unavailable, continuing without events", zap.Error(natsErr))
	} else {
		events = publisher
		defer publisher.Close()
	}

	var welcomeMailer usecase.Mailer
	if cfg.SMTP.Host != "" {
		welcomeMailer = mailer.NewGomailSender(&cfg.SMTP)
	}

	listingRepo := mongoadapter.NewListingMongoRepository(mongoClient, cfg.MongoDB.Database)
	userRepo := mongoadapter.NewUserMongoRepository(mongoClient, cfg.MongoDB.Database, log)

	listingUC := usecase.NewListingUseCase(listingRepo, media, events, cacheRepo, log)
	userUC := usecase.NewUserUseCase(userRepo, welcomeMailer, cfg.JWT.Secret, cfg.JWT.TokenTTL, log)
	adminUC := usecase.NewAdminUseCase(userRepo, listingRepo, log)

	router := httpport.NewRouter(httpport.RouterDeps{
		Lands:     handler.NewListingHandler(listingUC, media, entity.LandSpec, cfg.HTTPServer.MaxUploadSize, cfg.HTTPServer.MaxFileSize, log),
		Equipment: handler.NewListingHandler(listingUC, media, entity.EquipmentSpec, cfg.HTTPServer.MaxUploadSize, cfg.HTTPServer.MaxFileSize, log),
		Users:     handler.NewUserHandler(userUC, log),
		Admin:     handler.NewAdminHandler(adminUC, log),
		JWTSecret: cfg.JWT.Secret,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.HTTPServer.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Error("HTTP server failed", zap.Error(err))
		return fmt.Errorf("app.Run: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.TimeoutGraceful)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
		return fmt.Errorf("app.Run: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
