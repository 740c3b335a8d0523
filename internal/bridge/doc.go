// Package bridge owns websocket transport for rosbridge v2 peers.
//
// Ownership boundary:
// - codec negotiation through websocket subprotocols
// - connection lifecycle and frame framing
// - the admin HTTP surface (health, readiness, metrics)
//
// Bridge does not route topics or services between peers; an Endpoint
// supplied by the caller decides what interpreted traffic means.
package bridge
