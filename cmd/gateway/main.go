package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"news_gateway/internal/cache"
	"news_gateway/internal/config"
	"news_gateway/internal/db"
	"news_gateway/internal/fetcher"
	"news_gateway/internal/logger"
	"news_gateway/internal/metrics"
	"news_gateway/internal/middleware"
	"news_gateway/internal/ranking"
	"news_gateway/internal/scheduler"
	"news_gateway/internal/server"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to JSON or YAML config")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.Warnf("Failed to load .env: %v", err)
	}

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}
	logger.Init(cfg.Logging.Level)
	defer logger.Log.Info("Application stopped")

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище статей
	store, err := db.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Fatalf("DB connection error: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Log.Fatalf("DB migration error: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Кеш снимка коллекции
	var (
		source      ranking.Source = store
		invalidator fetcher.Invalidator
	)
	if cfg.Cache.Enabled {
		client := cache.NewClient(cfg.Cache)
		defer client.Close()

		snapshot := cache.NewSnapshotCache(client, store, cfg.Cache.Key, cfg.Cache.CacheTTL())
		source, invalidator = snapshot, snapshot
		logger.Log.WithField("addr", cfg.Cache.Addr).Info("Snapshot cache enabled")
	}

	engine := ranking.NewEngine(source, cfg.Ranking.Rules(), ranking.WithObserver(m))

	// Дайджест по расписанию
	if cfg.Digest.Schedule != "" {
		loc, _ := cfg.Digest.Location()
		digest, err := scheduler.New(cfg.Digest.Schedule, loc, engine)
		if err != nil {
			logger.Log.Fatalf("Scheduler error: %v", err)
		}
		digest.Start()
		defer digest.Stop()
		logger.Log.WithField("next_run", digest.Next()).Info("Digest scheduler started")
	}

	// Запуск периодического опроса
	if len(cfg.Feeds.RSSFeeds) > 0 {
		opts := []fetcher.Option{fetcher.WithObserver(m)}
		if invalidator != nil {
			opts = append(opts, fetcher.WithInvalidator(invalidator))
		}
		go fetcher.StartPolling(ctx, store, cfg.Feeds.RSSFeeds, cfg.Feeds.PollEvery(), opts...)
	}

	// HTTP сервер
	mux := http.NewServeMux()
	server.NewServer(engine, store, m).Routes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logging),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Errorf("Forced shutdown: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
