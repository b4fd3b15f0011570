package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/cli"
	"github.com/kailas-cloud/findmyfood/internal/config"
	"github.com/kailas-cloud/findmyfood/internal/db"
	"github.com/kailas-cloud/findmyfood/internal/db/memory"
	dbRedis "github.com/kailas-cloud/findmyfood/internal/db/redis"
	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/domain/match"
	logpkg "github.com/kailas-cloud/findmyfood/internal/logger"
	"github.com/kailas-cloud/findmyfood/internal/metrics"
	budgetrepo "github.com/kailas-cloud/findmyfood/internal/repository/budget"
	"github.com/kailas-cloud/findmyfood/internal/repository/contentcache"
	"github.com/kailas-cloud/findmyfood/internal/repository/dataset"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
	chiTransport "github.com/kailas-cloud/findmyfood/internal/transport/chi"
	openaiGen "github.com/kailas-cloud/findmyfood/internal/transport/openai"
	dashboarduc "github.com/kailas-cloud/findmyfood/internal/usecase/dashboard"
	"github.com/kailas-cloud/findmyfood/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/findmyfood/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/findmyfood/internal/usecase/search"
	usageuc "github.com/kailas-cloud/findmyfood/internal/usecase/usage"
	"github.com/kailas-cloud/findmyfood/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	if err := config.LoadDotEnv(); err != nil {
		panic("failed to load .env: " + err.Error())
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting findmyfood API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case db.DriverValkey, db.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case db.DriverMemory:
		store = memory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterContentMetrics()
	metrics.RegisterRecommendMetrics()

	// Single budget shared by the content chain and the usage service.
	var budget *generation.Budget
	budgetCfg := cfg.Content.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := generation.BudgetActionWarn
		if budgetCfg.Action == string(generation.BudgetActionReject) {
			action = generation.BudgetActionReject
		}
		budget = generation.NewBudget(
			cfg.Content.Model, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		// Connect persistence store, loads current counters from DB.
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*Budget)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker generation.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	content := buildContentSource(cfg.Content, store, budgetChecker, logger)
	logger.Info("Content source created",
		zap.String("model", cfg.Content.Model),
		zap.Int("cache_ttl_sec", cfg.Content.CacheTTLSec),
	)

	data, err := dataset.Open(cfg.Recommend.DatasetPath)
	if err != nil {
		logger.Fatal("Failed to load rating dataset", zap.Error(err))
	}
	users, ratings := data.Stats()
	logger.Info("Rating dataset loaded",
		zap.String("source", data.Source()),
		zap.Int("users", users),
		zap.Int("ratings", ratings),
	)

	// Create use case services
	engine := recommenduc.NewEngine(
		recommenduc.WithNeighborCount(cfg.Recommend.NeighborCount),
		recommenduc.WithMinRating(cfg.Recommend.MinRating),
	)
	provider := buildRecommendProvider(cfg.Recommend, data, engine, logger)
	recommendSvc := recommenduc.New(data, provider, engine, cfg.Recommend.DefaultCount, cfg.Recommend.MaxCount)

	searchSvc := searchuc.New(content, match.NewScorer(buildBaseScorer(cfg.Match)), logger)

	dashboardSvc := dashboarduc.New(recommendSvc, content, logger,
		dashboarduc.WithRecommendationCount(cfg.Recommend.DefaultCount),
		dashboarduc.WithSuggestionCount(cfg.Recommend.SuggestionCount),
		dashboarduc.WithMemoTTL(time.Duration(cfg.Recommend.MemoTTLSec)*time.Second),
	)

	// Usage service, reads from the shared budget
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader, cfg.Content.Model)

	healthSvc := healthuc.New(store, content, data)

	// Create chi server
	server := chiTransport.NewServer(recommendSvc, searchSvc, dashboardSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// contentSource is what search, the dashboard and health need from the chain.
type contentSource interface {
	domain.ContentSource
	domain.HealthChecker
}

// buildContentSource assembles the decorator chain: OpenAI -> Cached -> Instrumented
func buildContentSource(
	cfg config.ContentConfig,
	store db.Store,
	budget generation.BudgetChecker,
	logger *zap.Logger,
) contentSource {
	// Base generator (with transport metrics built-in)
	base := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		User:        cfg.User,
		Logger:      logger,
	})

	// Cached
	var source contentSource = base
	if store != nil {
		source = contentcache.New(
			base, store, time.Duration(cfg.CacheTTLSec)*time.Second, metrics.ContentCacheTotal, logger,
		)
	}

	// Instrumented (budget + metrics), outermost so cache hits cost nothing
	return generation.NewInstrumentedSource(source, cfg.Model, budget, logger)
}

// buildRecommendProvider puts the alternate engine in front of the local one when enabled.
func buildRecommendProvider(
	cfg config.RecommendConfig,
	data *dataset.Repo,
	engine *recommenduc.Engine,
	logger *zap.Logger,
) recommenduc.Provider {
	local := recommenduc.NamedProvider{Name: "local", Provider: recommenduc.NewLocalProvider(data, engine)}
	if !cfg.Alternate.Enabled {
		return recommenduc.NewFallbackProvider(logger, local)
	}

	invoker := alternate.NewInvoker(alternateConfig(cfg, logger))
	logger.Info("Alternate recommendation engine enabled",
		zap.String("command", cfg.Alternate.Command),
		zap.Strings("args", cfg.Alternate.Args),
	)
	return recommenduc.NewFallbackProvider(logger,
		recommenduc.NamedProvider{Name: "alternate", Provider: invoker},
		local,
	)
}

// alternateConfig hands the local engine's settings to the child so either path ranks the same way.
func alternateConfig(cfg config.RecommendConfig, logger *zap.Logger) alternate.Config {
	return alternate.Config{
		Enabled:          true,
		Command:          cfg.Alternate.Command,
		Args:             cfg.Alternate.Args,
		Env:              cli.EngineEnv(cfg.DatasetPath, cfg.NeighborCount, cfg.MinRating),
		Timeout:          time.Duration(cfg.Alternate.TimeoutSec) * time.Second,
		FailureThreshold: cfg.Alternate.FailureThreshold,
		OpenTimeout:      time.Duration(cfg.Alternate.OpenTimeoutSec) * time.Second,
		Logger:           logger,
	}
}

func buildBaseScorer(cfg config.MatchConfig) match.BaseScorer {
	if cfg.BaseStrategy == "fixed" {
		return match.FixedBase(cfg.FixedBase)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative clock
	}
	return match.NewRandomBase(seed)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// One line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
