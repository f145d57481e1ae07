package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/config"
	"pixel-poker/internal/game"
	"pixel-poker/internal/gateway"
	"pixel-poker/internal/logging"
	"pixel-poker/internal/mcpserver"
	"pixel-poker/internal/policy"
	"pixel-poker/internal/session"
	httptransport "pixel-poker/internal/transport/http"
)

var version = "dev"

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	if err := logging.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("logging init failed")
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := quartz.NewReal()
	engine := game.NewEngine(game.NewScorerChain(game.FastScorer{}, game.PureScorer{}), clock)

	var source policy.Source
	if cfg.Policy.GeminiAPIKey != "" {
		source = policy.NewGeminiSource(policy.GeminiConfig{
			APIKey:  cfg.Policy.GeminiAPIKey,
			Model:   cfg.Policy.GeminiModel,
			BaseURL: cfg.Policy.GeminiBaseURL,
		})
		log.Info().Str("model", cfg.Policy.GeminiModel).Msg("policy_source_gemini")
	} else {
		log.Warn().Msg("policy_source_heuristic_only")
	}
	decider, err := policy.NewService(source, policy.Config{
		Timeout:   cfg.Policy.Timeout,
		Retries:   cfg.Policy.Retries,
		CacheSize: cfg.Policy.CacheSize,
	}, policy.WithClock(clock))
	if err != nil {
		log.Fatal().Err(err).Msg("policy init failed")
	}

	sessions := session.NewManager(session.ConfigFromTable(cfg.Table), engine, decider, clock)
	sessions.StartJanitor(ctx, time.Minute)
	gw, err := gateway.NewServer(sessions, gateway.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("gateway init failed")
	}
	deps := httptransport.Deps{Sessions: sessions, Gateway: gw, Server: cfg.Server}
	if cfg.Server.MCPEnabled {
		deps.MCP = mcpserver.New(sessions, version)
	}
	r := httptransport.NewRouter(deps)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).
			Int64("small_blind", cfg.Table.SmallBlind).
			Int64("big_blind", cfg.Table.BigBlind).
			Int64("starting_stack", cfg.Table.StartingStack).
			Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
