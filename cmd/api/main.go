package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/petmarket/internal/cache"
	"github.com/geocoder89/petmarket/internal/config"
	"github.com/geocoder89/petmarket/internal/db"
	httpx "github.com/geocoder89/petmarket/internal/http"
	"github.com/geocoder89/petmarket/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	startCtx, cancelStart := config.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	shutdownTracer, err := observability.InitTracer(startCtx, observability.TracerConfig{
		ServiceName: cfg.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(startCtx, db.PoolConfig{
		URL:      cfg.DBURL,
		MaxConns: cfg.DBMaxConns,
		AppName:  cfg.ServiceName,
	})
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(startCtx, pool); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(startCtx, pool, cfg); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var store cache.Store = cache.New(cfg.ListCacheTTL)
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		rs := cache.NewRedisStore(rdb, "petmarket:", cfg.ListCacheTTL)
		if err := rs.Ping(startCtx); err != nil {
			log.Warn("redis unavailable at startup, cache will miss until it recovers", "addr", cfg.RedisAddr, "err", err)
		}
		store = rs
	}

	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Pool:     pool,
		Cache:    store,
		Registry: reg,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	ctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}

	if err := shutdownTracer(ctx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")
}
