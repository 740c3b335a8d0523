package bridge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/testutil/testlog"
	"github.com/danmuck/bridgectl/internal/wire"
)

func TestDialRejectsUnreachableBridge(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, DialConfig{URL: "ws://127.0.0.1:1/ws"}, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected dial error")
	}
}

func TestDialRetryExhaustsAttempts(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bo := BackoffConfig{InitialDelay: time.Millisecond, Multiplier: 1.0}
	_, err := DialRetry(ctx, DialConfig{URL: "ws://127.0.0.1:1/ws"}, bo, 3, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected exhaustion error")
	}
	if !strings.Contains(err.Error(), "attempts exhausted") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDialRetryStopsOnContextCancel(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bo := BackoffConfig{InitialDelay: time.Hour, Multiplier: 1.0}
	_, err := DialRetry(ctx, DialConfig{URL: "ws://127.0.0.1:1/ws"}, bo, 0, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancel, got %v", err)
	}
}

func TestDialRetryConnectsFirstAttempt(t *testing.T) {
	testlog.Start(t)
	ep := newCaptureEndpoint()
	ts := startBridge(t, ep)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := DialRetry(ctx, DialConfig{URL: wsURL(ts), Codec: wire.CBORCodec{}}, DefaultBackoff(), 2, zerolog.Nop())
	if err != nil {
		t.Fatalf("dial retry: %v", err)
	}
	defer conn.Close()

	if conn.Tag() != wire.TagCBOR {
		t.Fatalf("unexpected codec tag: %s", conn.Tag())
	}
}
