package rosbridge

import (
	"fmt"

	"github.com/danmuck/bridgectl/internal/wire"
)

// Encoding binds a wire codec to the rosbridge v2 vocabulary. The zero
// value is unusable; construct one with NewEncoding or
// NewConvertingEncoding.
//
// Every error is scoped to one envelope. The transport connection the
// bytes came from stays usable, and the caller decides whether to drop
// the message or report it upstream.
type Encoding struct {
	codec   wire.Codec
	convert Converter
}

// NewEncoding binds codec with message bodies passed through as model
// values.
func NewEncoding(codec wire.Codec) Encoding {
	return NewConvertingEncoding(codec, Passthrough{})
}

// NewConvertingEncoding binds codec with convert applied to message
// bodies in both directions.
func NewConvertingEncoding(codec wire.Codec, convert Converter) Encoding {
	return Encoding{codec: codec, convert: convert}
}

// Codec exposes the bound codec, mostly so transports can pick a frame
// type from Binary.
func (e Encoding) Codec() wire.Codec {
	return e.codec
}

// Interpret decodes one envelope and dispatches it to ep. It returns
// the envelope's operation alongside any per-envelope failure:
// undecodable payloads wrap wire.ErrMalformed, an absent or non-string
// op yields a MissingOpError, and field problems yield
// MissingFieldError or FieldTypeError. An op outside the vocabulary
// returns OpUnhandled with no error and no dispatch.
func (e Encoding) Interpret(raw []byte, conn ConnectionHandle, ep Endpoint) (Op, error) {
	doc, err := e.codec.Deserialize(raw)
	if err != nil {
		return "", fmt.Errorf("rosbridge: decode envelope: %w", err)
	}
	env, ok := doc.(map[string]any)
	if !ok {
		return "", &MissingOpError{Payload: doc}
	}
	name, ok := env[keyOp].(string)
	if !ok {
		return "", &MissingOpError{Payload: env}
	}
	op, known := ParseOp(name)
	if !known {
		return OpUnhandled, nil
	}

	switch op {
	case OpPublish:
		return op, e.interpretPublish(env, conn, ep)
	case OpCallService:
		return op, e.interpretServiceCall(env, conn, ep)
	case OpServiceResponse:
		return op, e.interpretServiceResponse(env, conn, ep)
	case OpSubscribe:
		return op, e.interpretSubscribe(env, conn, ep)
	case OpUnsubscribe:
		return op, e.interpretUnsubscribe(env, conn, ep)
	case OpAdvertise:
		return op, e.interpretAdvertise(env, conn, ep)
	case OpUnadvertise:
		return op, e.interpretUnadvertise(env, conn, ep)
	case OpAdvertiseService:
		return op, e.interpretAdvertiseService(env, conn, ep)
	case OpUnadvertiseService:
		return op, e.interpretUnadvertiseService(env, conn, ep)
	}
	return op, nil
}

func (e Encoding) interpretPublish(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	topic, err := requiredString(env, OpPublish, keyTopic)
	if err != nil {
		return err
	}
	raw, err := requiredValue(env, OpPublish, keyMsg)
	if err != nil {
		return err
	}
	msg, err := e.convert.FromWire(raw)
	if err != nil {
		return fmt.Errorf("rosbridge: convert %s body: %w", OpPublish, err)
	}
	ep.ReceivePublication(conn, topic, msg)
	return nil
}

func (e Encoding) interpretServiceCall(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	service, err := requiredString(env, OpCallService, keyService)
	if err != nil {
		return err
	}
	id, err := optionalString(env, OpCallService, keyID)
	if err != nil {
		return err
	}
	raw, err := requiredValue(env, OpCallService, keyArgs)
	if err != nil {
		return err
	}
	args, err := e.convert.FromWire(raw)
	if err != nil {
		return fmt.Errorf("rosbridge: convert %s body: %w", OpCallService, err)
	}
	ep.ReceiveServiceRequest(conn, service, id, args)
	return nil
}

func (e Encoding) interpretServiceResponse(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	service, err := requiredString(env, OpServiceResponse, keyService)
	if err != nil {
		return err
	}
	id, err := optionalString(env, OpServiceResponse, keyID)
	if err != nil {
		return err
	}
	raw, err := requiredValue(env, OpServiceResponse, keyValues)
	if err != nil {
		return err
	}
	values, err := e.convert.FromWire(raw)
	if err != nil {
		return fmt.Errorf("rosbridge: convert %s body: %w", OpServiceResponse, err)
	}
	ep.ReceiveServiceResponse(conn, service, id, values)
	return nil
}

func (e Encoding) interpretSubscribe(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	topic, err := requiredString(env, OpSubscribe, keyTopic)
	if err != nil {
		return err
	}
	msgType, err := optionalString(env, OpSubscribe, keyType)
	if err != nil {
		return err
	}
	id, err := optionalString(env, OpSubscribe, keyID)
	if err != nil {
		return err
	}
	ep.ReceiveSubscription(conn, topic, msgType, id)
	return nil
}

func (e Encoding) interpretUnsubscribe(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	topic, err := requiredString(env, OpUnsubscribe, keyTopic)
	if err != nil {
		return err
	}
	id, err := optionalString(env, OpUnsubscribe, keyID)
	if err != nil {
		return err
	}
	ep.ReceiveUnsubscription(conn, topic, id)
	return nil
}

func (e Encoding) interpretAdvertise(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	topic, err := requiredString(env, OpAdvertise, keyTopic)
	if err != nil {
		return err
	}
	msgType, err := requiredString(env, OpAdvertise, keyType)
	if err != nil {
		return err
	}
	id, err := optionalString(env, OpAdvertise, keyID)
	if err != nil {
		return err
	}
	ep.ReceiveTopicAdvertisement(conn, topic, msgType, id)
	return nil
}

func (e Encoding) interpretUnadvertise(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	topic, err := requiredString(env, OpUnadvertise, keyTopic)
	if err != nil {
		return err
	}
	id, err := optionalString(env, OpUnadvertise, keyID)
	if err != nil {
		return err
	}
	ep.ReceiveTopicUnadvertisement(conn, topic, id)
	return nil
}

func (e Encoding) interpretAdvertiseService(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	service, err := requiredString(env, OpAdvertiseService, keyService)
	if err != nil {
		return err
	}
	svcType, err := requiredString(env, OpAdvertiseService, keyType)
	if err != nil {
		return err
	}
	ep.ReceiveServiceAdvertisement(conn, service, svcType)
	return nil
}

func (e Encoding) interpretUnadvertiseService(env map[string]any, conn ConnectionHandle, ep Endpoint) error {
	service, err := requiredString(env, OpUnadvertiseService, keyService)
	if err != nil {
		return err
	}
	svcType, err := optionalString(env, OpUnadvertiseService, keyType)
	if err != nil {
		return err
	}
	ep.ReceiveServiceUnadvertisement(conn, service, svcType)
	return nil
}

// EncodePublication builds a publish envelope. The id is written only
// when non-empty. The message type is accepted for call compatibility;
// a publish envelope never carries one.
func (e Encoding) EncodePublication(topic, msgType, id string, msg any) ([]byte, error) {
	body, err := e.convert.ToWire(msg)
	if err != nil {
		return nil, fmt.Errorf("rosbridge: convert %s body: %w", OpPublish, err)
	}
	env := map[string]any{
		keyOp:    string(OpPublish),
		keyTopic: topic,
		keyMsg:   body,
	}
	putID(env, id)
	return e.codec.Serialize(env)
}

// EncodeServiceCall builds a call_service envelope. cfg carries
// tuning such as fragment size and compression; it is accepted for
// call compatibility and not yet written to the envelope.
func (e Encoding) EncodeServiceCall(service, id string, args any, cfg map[string]any) ([]byte, error) {
	body, err := e.convert.ToWire(args)
	if err != nil {
		return nil, fmt.Errorf("rosbridge: convert %s body: %w", OpCallService, err)
	}
	env := map[string]any{
		keyOp:      string(OpCallService),
		keyService: service,
		keyArgs:    body,
	}
	putID(env, id)
	return e.codec.Serialize(env)
}

// EncodeServiceResponse builds a service_response envelope. The result
// flag is always written; the id only when non-empty. The service type
// is accepted for call compatibility; the envelope never carries one.
func (e Encoding) EncodeServiceResponse(service, svcType, id string, values any, result bool) ([]byte, error) {
	body, err := e.convert.ToWire(values)
	if err != nil {
		return nil, fmt.Errorf("rosbridge: convert %s body: %w", OpServiceResponse, err)
	}
	env := map[string]any{
		keyOp:      string(OpServiceResponse),
		keyService: service,
		keyValues:  body,
		keyResult:  result,
	}
	putID(env, id)
	return e.codec.Serialize(env)
}

// EncodeSubscription builds a subscribe envelope. cfg carries tuning
// such as throttle rate and queue length; it is accepted for call
// compatibility and not yet written to the envelope.
//
// TODO: fold cfg keys into the envelope once remote bridges honor them.
func (e Encoding) EncodeSubscription(topic, msgType, id string, cfg map[string]any) ([]byte, error) {
	env := map[string]any{
		keyOp:    string(OpSubscribe),
		keyTopic: topic,
		keyType:  msgType,
	}
	putID(env, id)
	return e.codec.Serialize(env)
}

// EncodeTopicAdvertisement builds an advertise envelope. cfg carries
// tuning such as queue size; it is accepted for call compatibility and
// not yet written to the envelope.
func (e Encoding) EncodeTopicAdvertisement(topic, msgType, id string, cfg map[string]any) ([]byte, error) {
	env := map[string]any{
		keyOp:    string(OpAdvertise),
		keyTopic: topic,
		keyType:  msgType,
	}
	putID(env, id)
	return e.codec.Serialize(env)
}

// EncodeServiceAdvertisement builds an advertise_service envelope. The
// envelope never carries an id; peers correlate service advertisements
// by name.
func (e Encoding) EncodeServiceAdvertisement(service, svcType string) ([]byte, error) {
	env := map[string]any{
		keyOp:      string(OpAdvertiseService),
		keyService: service,
		keyType:    svcType,
	}
	return e.codec.Serialize(env)
}

func putID(env map[string]any, id string) {
	if id != "" {
		env[keyID] = id
	}
}
