package config

import (
	"github.com/danmuck/bridgectl/internal/bridge"
)

// Server maps file settings onto the server's runtime config.
func Server(cfg BridgeConfig) bridge.ServerConfig {
	return bridge.ServerConfig{
		Node:             cfg.Node,
		Addr:             cfg.Addr,
		CorsOrigins:      cfg.CorsOrigins,
		DefaultCodec:     cfg.DefaultCodec,
		ReadLimit:        cfg.ReadLimitBytes,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}
}
