package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "review_ai/internal/adapters/http_server"
	"review_ai/internal/adapters/observability"
	redisad "review_ai/internal/adapters/redis"
	"review_ai/internal/adapters/reviewapi"
	"review_ai/internal/app"
	"review_ai/internal/domain"
	"review_ai/internal/render"
	"review_ai/internal/shared"
	mysqlrepo "review_ai/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	if _, err := observability.Serve(cfg.MetricsAddr, reg); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// lookup log
	var lookups domain.LookupLog = mysqlrepo.Nop{}
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		lookups = mysqlrepo.New(db)
	}

	// cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, lookups will miss")
		}
		cache = rc
	}

	api, err := reviewapi.New(cfg.BackendBase, cfg.BackendTimeout, cfg.BackendRPS, cfg.BackendRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}

	h := &server.Handlers{
		Suggest:  app.NewSuggestService(api, cache, cfg.CacheTTL),
		Analysis: app.NewAnalysisService(api, cache, lookups, cfg.CacheTTL),
		Render:   render.MustNew(),
		Debounce: cfg.SuggestDebounce,
	}
	if err := h.Validate(); err != nil {
		log.Fatal().Err(err).Msg("handlers")
	}

	// http; requests can outlive a slow backend call by a little
	srv := server.New(cfg.BackendTimeout + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.BackendBase).Msg("web listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("web stopped")
}
