// Package encoding serializes component state and event payloads into the
// strings stored in attributes and custom event details.
package encoding

import (
	"encoding/base64"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts values to and from attribute-safe strings. Implementations
// must round-trip the value shapes used for state: primitives, slices, maps
// and structs tagged with `msgpack`.
type Codec interface {
	Serialize(v any) (string, error)
	Deserialize(s string, v any) error
}

// MsgpackCodec encodes values as base64url msgpack. It is the default codec.
type MsgpackCodec struct{}

var _ Codec = MsgpackCodec{}

// Serialize encodes v.
func (MsgpackCodec) Serialize(v any) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(packed), nil
}

// Deserialize decodes s into v, which must be a pointer.
func (MsgpackCodec) Deserialize(s string, v any) error {
	packed, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ErrInvalidFormat
	}
	return msgpack.Unmarshal(packed, v)
}
