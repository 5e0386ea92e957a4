package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	httpserver "trip_planner/internal/adapters/http_server"
	"trip_planner/internal/adapters/itinerary"
	"trip_planner/internal/adapters/observability"
	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/app"
	"trip_planner/internal/domain"
	"trip_planner/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	metrics := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, metrics)

	client := itinerary.New(cfg.ItineraryURL, cfg.ItineraryRPS)
	hctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := client.Health(hctx); err != nil {
		// not fatal: the service may come up after us
		log.Warn().Err(err).Str("url", cfg.ItineraryURL).Msg("itinerary service not reachable")
	}
	cancel()

	// drafts: redis when configured, memory otherwise
	var store domain.DraftStore = app.NewMemoryDraftStore()
	if cfg.RedisAddr != "" {
		rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, redisad.WithTTL(cfg.DraftTTL))
		pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rs.Ping(pctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cancel()
		store = rs
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis draft store ok")
	}

	// live sessions idle past the draft TTL are dropped; drafts restore them
	reg := app.NewRegistry(client, store, log.Logger, app.WithIdleTTL(cfg.DraftTTL))
	go reg.RunSweeper(context.Background(), time.Minute)

	// http
	srv := httpserver.New(log.Logger, cfg.ReqTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(metrics))
	srv.MountHandlers(&httpserver.Handlers{R: reg})

	log.Info().Str("addr", cfg.HTTPAddr).Str("itinerary_url", cfg.ItineraryURL).Msg("planner API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
