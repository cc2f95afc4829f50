package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/captions"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/config"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/logging"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/metrics"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/middleware"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/stats"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/tracing"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/transcript"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(configPath())
	if err != nil {
		logger, _ := logging.NewDefaultLogger()
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fallback, _ := logging.NewDefaultLogger()
		fallback.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize tracing
	closer, err := tracing.Setup(cfg.Tracing.Enabled, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer closer.Close()

	// Initialize caption provider
	resolver, err := captions.NewResolver(cfg.Provider, nil)
	if err != nil {
		logger.Fatalf("Failed to initialize caption provider: %v", err)
	}

	opts := []transcript.Option{
		transcript.WithLanguages(cfg.Selection.PreferredLanguages),
		transcript.WithProviderName(cfg.Provider.Kind),
	}

	api := &API{
		logger:         logger,
		requestTimeout: cfg.Server.RequestTimeout,
	}

	// Initialize stats store
	if cfg.Stats.Enabled {
		store, err := stats.NewStore(cfg.Stats.Host, cfg.Stats.Port, cfg.Stats.Password, cfg.Stats.DB)
		if err != nil {
			logger.Fatalf("Failed to connect to stats store: %v", err)
		}
		defer store.Close()

		opts = append(opts, transcript.WithRecorder(store))
		api.stats = store
	}

	api.transcripts = transcript.NewService(resolver, logger, opts...)

	// Start metrics server
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		if api.stats != nil {
			metricsServer.AddCheck("stats", api.stats.Ping)
		}
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server failed", err)
			}
		}()
	}

	gin.SetMode(cfg.Server.Mode)
	router := setupRouter(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.WithField("addr", srv.Addr).WithField("provider", cfg.Provider.Kind).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithErr("Server forced to shutdown", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.ErrorWithErr("Metrics server forced to shutdown", err)
		}
	}

	logger.Info("Server stopped")
}

// configPath prefers CONFIG_PATH, then ./config.yaml when present
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func setupRouter(api *API) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		middleware.RequestID(),
		middleware.Logger(api.logger),
		middleware.Metrics(),
		middleware.Recovery(api.logger),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
	})

	// Health check
	router.GET("/health", api.healthCheck)

	// Original single-endpoint path
	router.POST("/api/index", api.getTranscript)

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/transcripts", api.getTranscript)
		v1.GET("/videos/:id/tracks", api.listTracks)

		if api.stats != nil {
			v1.GET("/stats", api.getStats)
		}
	}

	return router
}
