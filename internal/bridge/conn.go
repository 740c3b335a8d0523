package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/observability"
	"github.com/danmuck/bridgectl/internal/rosbridge"
	"github.com/danmuck/bridgectl/internal/wire"
)

// Conn is one websocket peer speaking a negotiated codec. Endpoints
// receive the *Conn as their rosbridge.ConnectionHandle and reply
// through its Send methods, which serialize writes across goroutines.
type Conn struct {
	id      string
	node    string
	ws      *websocket.Conn
	enc     rosbridge.Encoding
	tag     string
	msgType int
	log     zerolog.Logger

	writeMu sync.Mutex
}

func newConn(node string, ws *websocket.Conn, enc rosbridge.Encoding, logger zerolog.Logger) *Conn {
	codec := enc.Codec()
	msgType := websocket.TextMessage
	if codec.Binary() {
		msgType = websocket.BinaryMessage
	}
	id := uuid.NewString()
	return &Conn{
		id:      id,
		node:    node,
		ws:      ws,
		enc:     enc,
		tag:     codec.Tag(),
		msgType: msgType,
		log:     logger.With().Str("conn", id).Str("codec", codec.Tag()).Logger(),
	}
}

func (c *Conn) ID() string { return c.id }

// Tag reports the negotiated codec tag.
func (c *Conn) Tag() string { return c.tag }

func (c *Conn) RemoteAddr() string { return c.ws.RemoteAddr().String() }

func (c *Conn) Close() error { return c.ws.Close() }

func (c *Conn) SendPublication(topic, msgType, id string, msg any) error {
	data, err := c.enc.EncodePublication(topic, msgType, id, msg)
	if err != nil {
		return err
	}
	return c.write(rosbridge.OpPublish, data)
}

func (c *Conn) SendServiceCall(service, id string, args any, cfg map[string]any) error {
	data, err := c.enc.EncodeServiceCall(service, id, args, cfg)
	if err != nil {
		return err
	}
	return c.write(rosbridge.OpCallService, data)
}

func (c *Conn) SendServiceResponse(service, svcType, id string, values any, result bool) error {
	data, err := c.enc.EncodeServiceResponse(service, svcType, id, values, result)
	if err != nil {
		return err
	}
	return c.write(rosbridge.OpServiceResponse, data)
}

func (c *Conn) SendSubscription(topic, msgType, id string, cfg map[string]any) error {
	data, err := c.enc.EncodeSubscription(topic, msgType, id, cfg)
	if err != nil {
		return err
	}
	return c.write(rosbridge.OpSubscribe, data)
}

func (c *Conn) SendTopicAdvertisement(topic, msgType, id string, cfg map[string]any) error {
	data, err := c.enc.EncodeTopicAdvertisement(topic, msgType, id, cfg)
	if err != nil {
		return err
	}
	return c.write(rosbridge.OpAdvertise, data)
}

func (c *Conn) SendServiceAdvertisement(service, svcType string) error {
	data, err := c.enc.EncodeServiceAdvertisement(service, svcType)
	if err != nil {
		return err
	}
	return c.write(rosbridge.OpAdvertiseService, data)
}

func (c *Conn) write(op rosbridge.Op, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(c.msgType, data); err != nil {
		return fmt.Errorf("bridge: write %s: %w", op, err)
	}
	observability.RecordWireMessage(c.node, "out", c.tag, string(op))
	return nil
}

// ReadLoop interprets incoming frames into ep until ctx ends or the
// peer goes away. Envelope-level failures are logged and counted while
// the connection keeps reading; only transport failures end the loop.
// A normal peer close returns nil.
func (c *Conn) ReadLoop(ctx context.Context, ep rosbridge.Endpoint) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("bridge: read: %w", err)
		}
		c.handleFrame(data, ep)
	}
}

func (c *Conn) handleFrame(data []byte, ep rosbridge.Endpoint) {
	op, err := c.enc.Interpret(data, c, ep)
	switch {
	case err != nil:
		observability.RecordProtocolError(c.node, c.tag, errorKind(err))
		c.log.Warn().Err(err).Int("bytes", len(data)).Msg("dropped envelope")
	case op == rosbridge.OpUnhandled:
		observability.RecordUnhandledOp(c.node, c.tag)
		c.log.Debug().Int("bytes", len(data)).Msg("unhandled op")
	default:
		observability.RecordWireMessage(c.node, "in", c.tag, string(op))
	}
}

func errorKind(err error) string {
	var missingOp *rosbridge.MissingOpError
	var missingField *rosbridge.MissingFieldError
	var badType *rosbridge.FieldTypeError
	switch {
	case errors.Is(err, wire.ErrMalformed):
		return "malformed"
	case errors.As(err, &missingOp):
		return "missing_op"
	case errors.As(err, &missingField):
		return "missing_field"
	case errors.As(err, &badType):
		return "bad_field_type"
	default:
		return "other"
	}
}
