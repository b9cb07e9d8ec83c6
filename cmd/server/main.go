package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"jarvis/internal/config"
	"jarvis/internal/handler"
	"jarvis/internal/logging"
	"jarvis/internal/metrics"
	"jarvis/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const serviceName = "jarvis"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting Jarvis",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)
	for _, warning := range cfg.Warnings {
		logger.Warn("configuration fallback", zap.String("detail", warning))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	provider, err := metrics.NewPrometheusProvider(serviceName, Version)
	if err != nil {
		return fmt.Errorf("failed to create metrics provider: %w", err)
	}
	m, err := metrics.New(provider.MeterProvider)
	if err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	// Generators
	generators, embedder, err := newGenerators(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// History
	store, err := newHistoryStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Initialize services
	ranker := service.NewRanker(cfg.Ranking.WeightSimilarity, cfg.Ranking.WeightRecency)
	history := service.NewHistoryService(store, embedder, ranker, logger, m)
	dispatcher := service.NewDispatcher(generators, cfg.Generator.Timeout, logger, m)
	commands := service.NewCommandService(service.NewClassifier(), dispatcher, history, logger, m)

	logger.Info("services initialized")

	// Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(logger, m))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = cfg.Server.AllowedMethods
	corsConfig.AllowHeaders = cfg.Server.AllowedHeaders
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "healthy",
			"service":         serviceName,
			"version":         Version,
			"history_backend": cfg.History.Backend,
			"generators": gin.H{
				"documents": generators.Documents != nil,
				"emails":    generators.Emails != nil,
				"images":    generators.Images != nil,
				"answers":   generators.Answers != nil,
			},
			"similar_commands": embedder != nil,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(provider.Handler()))

	handler.RegisterRoutes(router,
		handler.NewCommandHandler(commands, logger),
		handler.NewHistoryHandler(history, cfg.History.MaxItems),
	)

	// Serve static files (frontend)
	// Implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := provider.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics provider shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}
