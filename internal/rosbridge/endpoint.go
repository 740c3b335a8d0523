package rosbridge

// ConnectionHandle identifies the transport connection an envelope
// arrived on. Endpoints treat it as opaque and hand it back to the
// transport layer when replying.
type ConnectionHandle any

// Endpoint consumes interpreted rosbridge v2 traffic. Interpret calls
// exactly one method per well-formed envelope, after required fields
// are checked and with optional string fields defaulted to "".
type Endpoint interface {
	ReceivePublication(conn ConnectionHandle, topic string, msg any)
	ReceiveServiceRequest(conn ConnectionHandle, service, id string, args any)
	ReceiveServiceResponse(conn ConnectionHandle, service, id string, values any)
	ReceiveSubscription(conn ConnectionHandle, topic, msgType, id string)
	ReceiveUnsubscription(conn ConnectionHandle, topic, id string)
	ReceiveTopicAdvertisement(conn ConnectionHandle, topic, msgType, id string)
	ReceiveTopicUnadvertisement(conn ConnectionHandle, topic, id string)
	ReceiveServiceAdvertisement(conn ConnectionHandle, service, svcType string)
	ReceiveServiceUnadvertisement(conn ConnectionHandle, service, svcType string)
}
