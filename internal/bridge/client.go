package bridge

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/rosbridge"
	"github.com/danmuck/bridgectl/internal/wire"
)

// DialConfig shapes an outbound bridge connection.
type DialConfig struct {
	// URL is the ws:// or wss:// endpoint.
	URL string
	// Codec is offered as the websocket subprotocol. Nil selects JSON.
	Codec wire.Codec
	// Convert is applied to message bodies. Nil selects Passthrough.
	Convert rosbridge.Converter
	// Node labels logs and metrics. Empty selects "client".
	Node string
	// HandshakeTimeout bounds the dial. Zero selects ten seconds.
	HandshakeTimeout time.Duration
	// Header carries extra handshake headers, for example auth.
	Header http.Header
}

// Dial connects to a remote bridge and pins the offered codec. A
// server that answers with a different subprotocol is rejected; one
// that answers with none is assumed to accept the offer, which is how
// rosbridge servers behave.
func Dial(ctx context.Context, cfg DialConfig, logger zerolog.Logger) (*Conn, error) {
	if cfg.Codec == nil {
		cfg.Codec = wire.JSONCodec{}
	}
	if cfg.Convert == nil {
		cfg.Convert = rosbridge.Passthrough{}
	}
	if cfg.Node == "" {
		cfg.Node = "client"
	}
	timeout := cfg.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		Subprotocols:     []string{cfg.Codec.Tag()},
	}
	ws, _, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s: %w", cfg.URL, err)
	}
	if got := ws.Subprotocol(); got != "" && got != cfg.Codec.Tag() {
		_ = ws.Close()
		return nil, fmt.Errorf("bridge: server selected subprotocol %q, offered %q", got, cfg.Codec.Tag())
	}

	conn := newConn(cfg.Node, ws, rosbridge.NewConvertingEncoding(cfg.Codec, cfg.Convert), logger)
	conn.log.Info().Str("url", cfg.URL).Msg("connected")
	return conn, nil
}

// DialRetry dials until the bridge accepts, ctx ends, or maxAttempts
// dials fail. maxAttempts <= 0 retries until ctx ends.
func DialRetry(ctx context.Context, cfg DialConfig, bo BackoffConfig, maxAttempts int, logger zerolog.Logger) (*Conn, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for attempt := 1; ; attempt++ {
		conn, err := Dial(ctx, cfg, logger)
		if err == nil {
			return conn, nil
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return nil, fmt.Errorf("bridge: dial attempts exhausted: %w", err)
		}
		delay := NextBackoffDelay(bo, attempt, rng)
		logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("bridge dial failed")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
