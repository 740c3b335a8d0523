// Package rosbridge owns the rosbridge v2 envelope vocabulary.
//
// Ownership boundary:
// - the nine-operation vocabulary and per-op field requirements
// - envelope interpretation into an Endpoint
// - envelope encoding from native arguments
//
// Rosbridge does not own transports or payload serialization; codecs
// come from the wire package.
package rosbridge
