package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/hyunwkim/dailytodo/internal/config"
	"github.com/hyunwkim/dailytodo/internal/database"
	"github.com/hyunwkim/dailytodo/internal/handlers"
	"github.com/hyunwkim/dailytodo/internal/logger"
	"github.com/hyunwkim/dailytodo/internal/middleware"
	"github.com/hyunwkim/dailytodo/internal/services/insight"
	"github.com/hyunwkim/dailytodo/internal/telemetry"
)

const insightRequestTimeout = 150 * time.Second

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	configFlag := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	// Console encoding in debug mode, JSON otherwise
	newLogger := logger.NewProductionLogger
	if debugMode {
		newLogger = logger.NewDevelopmentLogger
	}
	zapLogger, err := newLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("ai_configured", cfg.AIConfigured()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Tracing is best effort. A collector outage should not keep the app down.
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "dailytodo-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		zapLogger.Fatal("failed_to_ensure_schema", zap.Error(err))
	}
	cancel()
	zapLogger.Info("schema_verified")

	todoRepo := database.NewTodoRepository(db)
	todoRepo.SetLogger(zapLogger)
	insightRepo := database.NewInsightRepository(db)

	var provider *insight.OpenAIProvider
	var generator *insight.Generator
	if cfg.AIConfigured() {
		provider = insight.NewOpenAIProvider(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)
		generator = insight.NewGenerator(todoRepo, insightRepo, provider, cfg.InsightsPromptPath, zapLogger)
	} else {
		zapLogger.Warn("ai_key_not_configured_insight_generation_disabled")
	}

	todoHandler := handlers.NewTodoHandler(todoRepo, zapLogger)
	insightHandler := handlers.NewInsightHandler(generator, zapLogger)
	aiHandler := handlers.NewAIHandler(provider, zapLogger)
	initHandler := handlers.NewInitHandler(db, zapLogger)
	healthChecker := handlers.NewHealthChecker(db)

	// Counters go to Redis when configured so limits hold across replicas;
	// otherwise the in-process store keeps single-instance deployments simple.
	var rateLimitMW func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		rateLimitMW, err = middleware.RateLimit(redisClient, cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		zapLogger.Info("connected_to_redis")
	} else {
		rateLimitMW, err = middleware.RateLimit(nil, cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		zapLogger.Info("rate_limiting_using_memory_store")
	}

	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("dailytodo-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.RequestID)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Recover(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	initRouter := apiRouter.PathPrefix("/init").Subrouter()
	initRouter.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	initRouter.HandleFunc("", initHandler.Init).Methods("GET", "POST")

	// Insight generation is synchronous and rides out provider retries, so
	// it gets a much longer deadline than the CRUD surface.
	insightsRouter := apiRouter.PathPrefix("/insights").Subrouter()
	insightsRouter.Use(middleware.Timeout(insightRequestTimeout))
	insightsRouter.HandleFunc("", insightHandler.GenerateInsights).Methods("POST")

	todosRouter := apiRouter.PathPrefix("/todos").Subrouter()
	todosRouter.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	todoHandler.RegisterRoutes(todosRouter)

	aiRouter := apiRouter.PathPrefix("/ai").Subrouter()
	aiRouter.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	aiHandler.RegisterRoutes(aiRouter)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        corsWrapper.Handler(r),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   insightRequestTimeout + 10*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
