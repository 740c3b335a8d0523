// Package wire owns payload serialization for the bridge.
//
// Ownership boundary:
// - the transport-neutral value model
// - the codec contract and protocol tags
// - JSON and CBOR codec implementations
//
// Wire does not interpret protocol envelopes.
package wire
