package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/bridgectl/internal/wire"
)

// BridgeConfig carries the launch settings for one bridge node.
type BridgeConfig struct {
	Node             string
	Addr             string
	CorsOrigins      []string
	DefaultCodec     string
	ReadLimitBytes   int64
	HandshakeTimeout time.Duration
}

type fileConfig struct {
	Node             string   `toml:"node"`
	Addr             string   `toml:"addr"`
	CorsOrigins      []string `toml:"cors_origins"`
	DefaultCodec     string   `toml:"default_codec"`
	ReadLimitBytes   int64    `toml:"read_limit_bytes"`
	HandshakeTimeout string   `toml:"handshake_timeout"`
}

// DefaultBridgeConfig returns the settings a bridge boots with when
// the config file leaves them out.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Node:             "bridge",
		Addr:             "127.0.0.1:9090",
		CorsOrigins:      []string{},
		DefaultCodec:     wire.TagJSON,
		ReadLimitBytes:   1 << 20,
		HandshakeTimeout: 10 * time.Second,
	}
}

// LoadBridgeConfig reads path and overlays its values onto the
// defaults. Keys absent from the file keep their default.
func LoadBridgeConfig(path string) (BridgeConfig, error) {
	cfg := DefaultBridgeConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return BridgeConfig{}, fmt.Errorf("load bridge config: %w", err)
	}

	if meta.IsDefined("node") {
		if node := strings.TrimSpace(raw.Node); node != "" {
			cfg.Node = node
		}
	}

	if meta.IsDefined("addr") {
		if addr := strings.TrimSpace(raw.Addr); addr != "" {
			cfg.Addr = addr
		}
	}

	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	if meta.IsDefined("default_codec") {
		cfg.DefaultCodec = strings.TrimSpace(raw.DefaultCodec)
	}

	if meta.IsDefined("read_limit_bytes") {
		cfg.ReadLimitBytes = raw.ReadLimitBytes
	}

	if meta.IsDefined("handshake_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HandshakeTimeout))
		if err != nil {
			return BridgeConfig{}, fmt.Errorf("parse handshake_timeout: %w", err)
		}
		cfg.HandshakeTimeout = d
	}

	if err := ValidateBridgeConfig(cfg); err != nil {
		return BridgeConfig{}, err
	}
	return cfg, nil
}

// ValidateBridgeConfig rejects settings the server cannot boot with.
func ValidateBridgeConfig(cfg BridgeConfig) error {
	if strings.TrimSpace(cfg.Node) == "" {
		return fmt.Errorf("bridge config missing node")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("bridge config missing addr")
	}
	if strings.TrimSpace(cfg.DefaultCodec) == "" {
		return fmt.Errorf("bridge config missing default_codec")
	}
	if cfg.ReadLimitBytes < 0 {
		return fmt.Errorf("read_limit_bytes must not be negative")
	}
	if cfg.HandshakeTimeout < 0 {
		return fmt.Errorf("handshake_timeout must not be negative")
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
