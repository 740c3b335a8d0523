package bridge

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/bridgectl/internal/wire"
)

var (
	ErrCodecNil    = errors.New("bridge: codec is nil")
	ErrCodecExists = errors.New("bridge: codec tag already registered")
	ErrInvalidTag  = errors.New("bridge: invalid codec tag")
)

// CodecRegistry maps negotiation tags onto codecs. Safe for concurrent
// use.
type CodecRegistry struct {
	mu    sync.RWMutex
	byTag map[string]wire.Codec
}

func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{byTag: make(map[string]wire.Codec)}
}

// DefaultCodecRegistry returns a registry holding the JSON and CBOR
// codecs.
func DefaultCodecRegistry() *CodecRegistry {
	r := NewCodecRegistry()
	_ = r.Register(wire.JSONCodec{})
	_ = r.Register(wire.CBORCodec{})
	return r
}

// Register adds a codec under its tag. Tags travel inside the
// Sec-WebSocket-Protocol header, so they must be non-empty and free of
// separators and whitespace.
func (r *CodecRegistry) Register(c wire.Codec) error {
	if c == nil {
		return ErrCodecNil
	}
	tag := c.Tag()
	if err := validateTag(tag); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byTag[tag]; exists {
		return fmt.Errorf("%w: %s", ErrCodecExists, tag)
	}
	r.byTag[tag] = c
	return nil
}

func (r *CodecRegistry) Resolve(tag string) (wire.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byTag[tag]
	return c, ok
}

// Tags lists registered tags sorted for stable output.
func (r *CodecRegistry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.byTag))
	for tag := range r.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func validateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	if strings.ContainsAny(tag, ", \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return nil
}
