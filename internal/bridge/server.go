package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/observability"
	"github.com/danmuck/bridgectl/internal/rosbridge"
	"github.com/danmuck/bridgectl/internal/wire"
)

var ErrNilEndpoint = errors.New("bridge: endpoint is nil")

// ServerConfig shapes one bridge server.
type ServerConfig struct {
	// Node labels logs and metrics emitted by this server.
	Node string
	// Addr is the HTTP listen address.
	Addr string
	// CorsOrigins whitelists websocket and admin origins. Empty or
	// "*" admits every origin.
	CorsOrigins []string
	// DefaultCodec is the tag used when a peer negotiates no
	// subprotocol. It leads the negotiation preference order.
	DefaultCodec string
	// ReadLimit caps incoming frame size in bytes. Zero means no cap.
	ReadLimit int64
	// HandshakeTimeout bounds the websocket upgrade.
	HandshakeTimeout time.Duration
}

// Server terminates websocket peers, negotiates a codec per
// connection, and feeds interpreted traffic into one endpoint.
type Server struct {
	cfg      ServerConfig
	registry *CodecRegistry
	endpoint rosbridge.Endpoint
	convert  rosbridge.Converter
	upgrader websocket.Upgrader
	router   *gin.Engine
	http     *http.Server
	log      zerolog.Logger
	ready    atomic.Bool

	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewServer wires the admin routes and the websocket entrypoint.
// A nil registry falls back to DefaultCodecRegistry.
func NewServer(cfg ServerConfig, registry *CodecRegistry, ep rosbridge.Endpoint, logger zerolog.Logger) (*Server, error) {
	if ep == nil {
		return nil, ErrNilEndpoint
	}
	if registry == nil {
		registry = DefaultCodecRegistry()
	}
	if cfg.Node == "" {
		cfg.Node = "bridge"
	}
	if cfg.DefaultCodec == "" {
		cfg.DefaultCodec = wire.TagJSON
	}
	if _, ok := registry.Resolve(cfg.DefaultCodec); !ok {
		return nil, fmt.Errorf("%w: default codec %q", ErrInvalidTag, cfg.DefaultCodec)
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
		endpoint: ep,
		convert:  rosbridge.Passthrough{},
		log:      logger.With().Str("node", cfg.Node).Logger(),
		conns:    make(map[string]*Conn),
	}
	s.upgrader = websocket.Upgrader{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Subprotocols:     s.subprotocols(),
		CheckOrigin:      originChecker(cfg.CorsOrigins),
	}

	observability.RegisterMetrics()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestTelemetry(cfg.Node, s.log))
	if len(cfg.CorsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "node": cfg.Node})
	})
	router.GET("/ready", func(c *gin.Context) {
		if !s.ready.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "codecs": s.registry.Tags()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", s.handleSocket)
	s.router = router

	return s, nil
}

// Handler exposes the HTTP surface, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx ends, then shuts the listener down and force
// closes remaining websocket peers, which Shutdown does not cover.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{Addr: s.cfg.Addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.ready.Store(true)
	s.log.Info().Str("addr", s.cfg.Addr).Strs("codecs", s.registry.Tags()).Msg("bridge listening")

	select {
	case <-ctx.Done():
		s.ready.Store(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeConns()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("bridge: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		s.ready.Store(false)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("bridge: serve: %w", err)
		}
		return nil
	}
}

// Conns snapshots the connected peers.
func (s *Server) Conns() []*Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	return conns
}

func (s *Server) handleSocket(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", c.ClientIP()).Msg("websocket upgrade failed")
		return
	}
	tag := ws.Subprotocol()
	if tag == "" {
		tag = s.cfg.DefaultCodec
	}
	codec, ok := s.registry.Resolve(tag)
	if !ok {
		s.log.Error().Str("subprotocol", tag).Msg("negotiated unknown codec")
		_ = ws.Close()
		return
	}
	if s.cfg.ReadLimit > 0 {
		ws.SetReadLimit(s.cfg.ReadLimit)
	}

	conn := newConn(s.cfg.Node, ws, rosbridge.NewConvertingEncoding(codec, s.convert), s.log)
	s.addConn(conn)
	observability.RecordConnectionOpened(s.cfg.Node, tag)
	conn.log.Info().Str("remote", conn.RemoteAddr()).Msg("peer connected")

	err = conn.ReadLoop(context.Background(), s.endpoint)
	s.removeConn(conn)
	observability.RecordConnectionClosed(s.cfg.Node, tag)
	_ = conn.Close()
	if err != nil {
		conn.log.Warn().Err(err).Msg("peer disconnected")
		return
	}
	conn.log.Info().Msg("peer closed")
}

func (s *Server) subprotocols() []string {
	tags := []string{s.cfg.DefaultCodec}
	for _, tag := range s.registry.Tags() {
		if tag != s.cfg.DefaultCodec {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (s *Server) addConn(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.ID()] = c
}

func (s *Server) removeConn(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c.ID())
}

func (s *Server) closeConns() {
	for _, c := range s.Conns() {
		_ = c.Close()
	}
}

func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
