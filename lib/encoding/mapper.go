package encoding

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// FieldMapper converts the raw decoded value of a field into the value
// object its target field expects, validating it on the way.
type FieldMapper func(raw any) (any, error)

// Mapper maps top-level field names, as they appear on the wire, to
// field mappers. Fields without a mapper are decoded as is.
type Mapper map[string]FieldMapper

// DeserializeMapped decodes s with c into a generic map, runs the mapper
// over its fields and decodes the result into v. Field names follow the
// `msgpack` struct tags of v, and scalar types are converted weakly.
func DeserializeMapped(c Codec, s string, v any, m Mapper) error {
	var raw map[string]any
	if err := c.Deserialize(s, &raw); err != nil {
		return err
	}
	if raw == nil {
		return ErrNotAMap
	}
	for field, fn := range m {
		val, ok := raw[field]
		if !ok {
			continue
		}
		mapped, err := fn(val)
		if err != nil {
			return fmt.Errorf("field %q: %w", field, err)
		}
		raw[field] = mapped
	}
	return Decode(raw, v)
}

// Decode copies a generic map into v using `msgpack` struct tags.
func Decode(raw map[string]any, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "msgpack",
		WeaklyTypedInput: true,
		Result:           v,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
