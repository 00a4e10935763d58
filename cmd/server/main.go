package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horizonfolio/internal/bot"
	"horizonfolio/internal/cache"
	"horizonfolio/internal/config"
	"horizonfolio/internal/db"
	"horizonfolio/internal/handler"
	"horizonfolio/internal/job"
	"horizonfolio/internal/logger"
	"horizonfolio/internal/portfolio"
	"horizonfolio/internal/provider"
	"horizonfolio/internal/repository"
	"horizonfolio/internal/service"
	"horizonfolio/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "horizonfolio/docs"
)

const redisKeyPrefix = "horizonfolio:"

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	loadContentFunc  = portfolio.Load
	newPrimaryFunc   = func(tracer trace.Tracer, cfg *config.Config) service.SentimentSource {
		return provider.NewCoinMarketCapProvider(tracer, provider.CoinMarketCapConfig{
			APIKey:  cfg.CoinMarketCapAPIKey,
			BaseURL: cfg.CoinMarketCapBaseURL,
			Timeout: time.Duration(cfg.UpstreamTimeoutSecs) * time.Second,
			Limiter: provider.NewPerMinuteLimiter(cfg.UpstreamRateLimitPerMin),
		})
	}
	newSecondaryFunc = func(tracer trace.Tracer, cfg *config.Config) service.SentimentSource {
		return provider.NewAlternativeMeProvider(tracer, time.Duration(cfg.UpstreamTimeoutSecs)*time.Second)
	}
	newSentimentRepoFunc   = repository.NewSentimentRepository
	newMarketDataFunc      = service.NewMarketDataService
	newCacheWarmerFunc     = job.NewCacheWarmer
	startWarmerFunc        = func(w *job.CacheWarmer, ctx context.Context) { go w.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Horizonfolio API
// @version         1.0
// @description     Portfolio content and a cached CoinMarketCap Fear & Greed proxy.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	loadEnvFunc()
	logger.Init()
	log := logger.WithComponent("server")

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)
	defer db.Close()

	tp, tracer, err := initTracerFunc(ctx, tracing.DefaultServiceName)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.WithError(err).Error("error shutting down tracer provider")
		}
	}()

	content, err := loadContentFunc(cfg.PortfolioContentPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load portfolio content")
	}

	// Redis shares the cache across replicas. Without it each process caches alone.
	var store cache.Store = cache.NewMemoryStore()
	if cache.Client != nil {
		store = cache.NewRedisStore(cache.Client, redisKeyPrefix)
	}

	marketData := newMarketDataFunc(tracer, store, newPrimaryFunc(tracer, cfg), service.MarketDataConfig{
		RevalidateWindow: time.Duration(cfg.MarketDataRevalidateSecs) * time.Second,
		UpstreamTimeout:  time.Duration(cfg.UpstreamTimeoutSecs) * time.Second,
	})
	if cfg.AlternativeFNGEnabled {
		marketData.WithSecondary(newSecondaryFunc(tracer, cfg))
	}

	var history handler.HistoryReader
	if db.Pool != nil {
		repo := newSentimentRepoFunc(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
		marketData.WithHistory(repo)
		history = repo
	}

	if cfg.CacheWarmEnabled {
		startWarmerFunc(newCacheWarmerFunc(tracer, marketData, marketData.RevalidateWindow()), ctx)
	}

	startTelegramBotFunc(cfg.TelegramBotToken, marketData, content)

	h := newHandlerFunc(tracer, marketData, history, content, cfg.AdminAPIKey)

	r := newRouterFunc()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(tracing.DefaultServiceName))
	r.Use(handler.RequestID(), handler.RequestLogger())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exiting")
}
