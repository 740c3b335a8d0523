package bridge

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/rosbridge"
)

// LogEndpoint logs every interpreted operation. It backs the daemon
// when no application endpoint is wired in, and gives wirectl its
// inspect output.
type LogEndpoint struct {
	Log zerolog.Logger
}

func (l LogEndpoint) ReceivePublication(conn rosbridge.ConnectionHandle, topic string, msg any) {
	l.Log.Info().Str("topic", topic).Interface("msg", msg).Msg("publication")
}

func (l LogEndpoint) ReceiveServiceRequest(conn rosbridge.ConnectionHandle, service, id string, args any) {
	l.Log.Info().Str("service", service).Str("id", id).Interface("args", args).Msg("service request")
}

func (l LogEndpoint) ReceiveServiceResponse(conn rosbridge.ConnectionHandle, service, id string, values any) {
	l.Log.Info().Str("service", service).Str("id", id).Interface("values", values).Msg("service response")
}

func (l LogEndpoint) ReceiveSubscription(conn rosbridge.ConnectionHandle, topic, msgType, id string) {
	l.Log.Info().Str("topic", topic).Str("type", msgType).Str("id", id).Msg("subscription")
}

func (l LogEndpoint) ReceiveUnsubscription(conn rosbridge.ConnectionHandle, topic, id string) {
	l.Log.Info().Str("topic", topic).Str("id", id).Msg("unsubscription")
}

func (l LogEndpoint) ReceiveTopicAdvertisement(conn rosbridge.ConnectionHandle, topic, msgType, id string) {
	l.Log.Info().Str("topic", topic).Str("type", msgType).Str("id", id).Msg("topic advertisement")
}

func (l LogEndpoint) ReceiveTopicUnadvertisement(conn rosbridge.ConnectionHandle, topic, id string) {
	l.Log.Info().Str("topic", topic).Str("id", id).Msg("topic unadvertisement")
}

func (l LogEndpoint) ReceiveServiceAdvertisement(conn rosbridge.ConnectionHandle, service, svcType string) {
	l.Log.Info().Str("service", service).Str("type", svcType).Msg("service advertisement")
}

func (l LogEndpoint) ReceiveServiceUnadvertisement(conn rosbridge.ConnectionHandle, service, svcType string) {
	l.Log.Info().Str("service", service).Str("type", svcType).Msg("service unadvertisement")
}
