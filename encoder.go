package elemental

import (
	"errors"

	"github.com/pthm/elemental/lib/encoding"
)

// Codec is an alias for encoding.Codec for convenience.
type Codec = encoding.Codec

// Mapper is an alias for encoding.Mapper for convenience.
type Mapper = encoding.Mapper

// FieldMapper is an alias for encoding.FieldMapper for convenience.
type FieldMapper = encoding.FieldMapper

// NewSignedCodec creates a codec whose output is HMAC-signed msgpack.
func NewSignedCodec(key []byte) (Codec, error) {
	c, err := encoding.NewSignedCodec(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewSealedCodec creates a codec whose output is AES-GCM encrypted.
func NewSealedCodec(key []byte) (Codec, error) {
	c, err := encoding.NewSealedCodec(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// IsCodecError checks if err reports malformed, tampered or undecryptable
// serialized data.
func IsCodecError(err error) bool {
	return errors.Is(err, encoding.ErrInvalidFormat) ||
		errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed)
}
