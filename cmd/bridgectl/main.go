package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bridgectl/internal/bridge"
	"github.com/danmuck/bridgectl/internal/config"
	"github.com/danmuck/bridgectl/internal/observability"
)

func main() {
	configPath := flag.String("config", "cmd/bridgectl/config.toml", "path to the bridge config file")
	flag.Parse()

	logger := observability.InitLogger("bridge")

	cfg, err := config.LoadBridgeConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load bridge config")
	}
	log.Info().Str("path", *configPath).Msg("loaded bridge config")

	srv, err := bridge.NewServer(config.Server(cfg), bridge.DefaultCodecRegistry(), bridge.LogEndpoint{Log: logger}, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build bridge server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("node", cfg.Node).Str("addr", cfg.Addr).Msg("bridge started")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bridge stopped")
	}
}
