package rosbridge

// Op identifies one rosbridge v2 operation.
type Op string

const (
	OpAdvertise          Op = "advertise"
	OpUnadvertise        Op = "unadvertise"
	OpPublish            Op = "publish"
	OpSubscribe          Op = "subscribe"
	OpUnsubscribe        Op = "unsubscribe"
	OpCallService        Op = "call_service"
	OpAdvertiseService   Op = "advertise_service"
	OpUnadvertiseService Op = "unadvertise_service"
	OpServiceResponse    Op = "service_response"

	// OpUnhandled marks an envelope whose op lies outside the
	// vocabulary. Interpret returns it without dispatching and
	// without error, so peers speaking a wider dialect stay usable.
	OpUnhandled Op = "unhandled"
)

// Envelope field names shared by every operation.
const (
	keyOp      = "op"
	keyID      = "id"
	keyTopic   = "topic"
	keyType    = "type"
	keyMsg     = "msg"
	keyService = "service"
	keyArgs    = "args"
	keyValues  = "values"
	keyResult  = "result"
)

// ParseOp maps a wire op string onto the vocabulary.
func ParseOp(s string) (Op, bool) {
	switch op := Op(s); op {
	case OpAdvertise, OpUnadvertise, OpPublish, OpSubscribe, OpUnsubscribe,
		OpCallService, OpAdvertiseService, OpUnadvertiseService, OpServiceResponse:
		return op, true
	default:
		return OpUnhandled, false
	}
}
