package elemental

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pthm/elemental/lib/encoding"
)

// State is an immutable state value of type S.
type State[S any] struct {
	value S
}

// NewState wraps v without validation. Use StateSchema.NewState to
// validate.
func NewState[S any](v S) State[S] {
	return State[S]{value: v}
}

// Value returns the wrapped value.
func (s State[S]) Value() S {
	return s.value
}

// Equal reports whether both states hold deeply equal values.
func (s State[S]) Equal(other State[S]) bool {
	return reflect.DeepEqual(s.value, other.value)
}

// StateSchema describes the state of a stateful type.
type StateSchema[S any] struct {
	// Default is the state of a component without a state attribute.
	Default func() S
	// Validate rejects structurally inconsistent values.
	Validate func(S) error
	// Mapper converts fields of the decoded state into value objects.
	Mapper encoding.Mapper
	// Codec overrides the registry codec.
	Codec encoding.Codec
}

// NewState validates v and wraps it.
func (sc StateSchema[S]) NewState(v S) (State[S], error) {
	if err := sc.validate(v); err != nil {
		return State[S]{}, err
	}
	return State[S]{value: v}, nil
}

func (sc StateSchema[S]) validate(v S) error {
	if sc.Validate == nil {
		return nil
	}
	if err := sc.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrStateNotConsistent, err)
	}
	return nil
}

func (sc StateSchema[S]) codec(fallback encoding.Codec) encoding.Codec {
	if sc.Codec != nil {
		return sc.Codec
	}
	return fallback
}

// Deserialize decodes raw. An empty raw value yields the default state.
func (sc StateSchema[S]) Deserialize(c encoding.Codec, raw string) (State[S], error) {
	if strings.TrimSpace(raw) == "" {
		if sc.Default == nil {
			return State[S]{}, ErrMustOverrideDefaultState
		}
		return sc.NewState(sc.Default())
	}

	var v S
	var err error
	if sc.Mapper != nil {
		err = encoding.DeserializeMapped(sc.codec(c), raw, &v, sc.Mapper)
	} else {
		err = sc.codec(c).Deserialize(raw, &v)
	}
	if err != nil {
		return State[S]{}, fmt.Errorf("%w: %w", ErrStateNotConsistent, err)
	}
	return sc.NewState(v)
}

// Serialize encodes a validated state.
func (sc StateSchema[S]) Serialize(c encoding.Codec, s State[S]) (string, error) {
	if err := sc.validate(s.value); err != nil {
		return "", err
	}
	return sc.codec(c).Serialize(s.value)
}

// changedFields lists the fields among names whose values differ between
// a and b. Fields match by name or msgpack tag; S must be a struct.
func changedFields[S any](a, b S, names []string) []string {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer {
		if va.IsNil() || vb.IsNil() {
			return append([]string(nil), names...)
		}
		va, vb = va.Elem(), vb.Elem()
	}
	if va.Kind() != reflect.Struct {
		return nil
	}
	var changed []string
	for _, name := range names {
		i, ok := fieldIndex(va.Type(), name)
		if !ok {
			continue
		}
		if !reflect.DeepEqual(va.Field(i).Interface(), vb.Field(i).Interface()) {
			changed = append(changed, name)
		}
	}
	return changed
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("msgpack"), ",")
		if f.Name == name || tag == name {
			return i, true
		}
	}
	return 0, false
}
