package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/config"
	"github.com/boddenberg/pj-taxsim-go/internal/handler"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/cache"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/client"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/report"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/resilience"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/spreadsheet"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/supabase"
	"github.com/boddenberg/pj-taxsim-go/internal/port"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_supabase", cfg.UseSupabase),
		zap.String("extractor_backend", cfg.ExtractorBackend),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
		zap.Bool("dev_mode", cfg.DevMode),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "pj-taxsim")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	resultCache := cache.New[any](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("external-apis")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var simStore port.SimulationStore
	var presetStore port.PresetStore
	var authStore port.AuthStore

	if cfg.UseSupabase && cfg.SupabaseURL != "" {
		logger.Info("using Supabase as data backend",
			zap.String("supabase_url", cfg.SupabaseURL),
		)
		supabaseClient := supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			cb,
			resilienceCfg,
			logger,
		)
		simStore = supabaseClient
		presetStore = supabaseClient
		authStore = supabaseClient
	} else {
		logger.Warn("Supabase not configured, saved simulations, presets and auth unavailable")
	}

	var extractor port.LineExtractor
	switch cfg.ExtractorBackend {
	case "gemini":
		geminiClient, err := client.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cb, resilienceCfg, logger)
		if err != nil {
			logger.Fatal("failed to init Gemini client", zap.Error(err))
		}
		extractor = geminiClient
		logger.Info("text extraction enabled",
			zap.String("backend", "gemini"),
			zap.String("model", cfg.GeminiModel),
		)
	case "agent":
		extractor = client.NewAgentClient(httpClient, cfg.AgentAPIURL, cb, resilienceCfg)
		logger.Info("text extraction enabled",
			zap.String("backend", "agent"),
			zap.String("agent_url", cfg.AgentAPIURL),
		)
	default:
		logger.Warn("text extraction disabled, POST /v1/extract/text will answer 503")
	}

	var renderer port.ReportRenderer
	if cfg.GotenbergURL != "" {
		exporter, err := report.NewPDFExporter(httpClient, cfg.GotenbergURL, cb, resilienceCfg, logger)
		if err != nil {
			logger.Fatal("failed to init PDF exporter", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := exporter.Ping(pingCtx); err != nil {
			logger.Warn("gotenberg not reachable at startup", zap.Error(err))
		}
		cancel()
		renderer = exporter
		logger.Info("PDF reports enabled", zap.String("gotenberg_url", cfg.GotenbergURL))
	}

	// --- Services ---
	simSvc := service.NewSimulationService(simStore, resultCache, metrics, logger)
	extractSvc := service.NewExtractionService(extractor, spreadsheet.NewReader(logger), metrics, logger)
	ratesSvc := service.NewRatesService(presetStore, resultCache, metrics, logger)
	reportSvc := service.NewReportService(simSvc, renderer, logger)

	var authSvc *service.AuthService
	if authStore != nil {
		authSvc = service.NewAuthService(authStore, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, logger)
		logger.Info("auth service enabled")
	}

	var devSvc *service.DevToolsService
	if cfg.DevMode {
		devSvc = service.NewDevToolsService(metrics, resultCache, logger)
		logger.Info("dev tools enabled")
	}

	// --- Router ---
	router := handler.NewRouter(simSvc, extractSvc, ratesSvc, reportSvc, authSvc, devSvc, simStore, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
