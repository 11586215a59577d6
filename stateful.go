package elemental

import (
	"fmt"

	"go.uber.org/zap"
)

// Stateful is the base of components whose state lives, serialized, in
// the observed "state" attribute. Writing the attribute is the only way
// state changes.
type Stateful[S any] struct {
	*Component

	schema  StateSchema[S]
	changed []string
}

// DefineStateful creates a stateful component type. build wraps the base
// into the author's struct.
func DefineStateful[T Element, S any](name string, schema StateSchema[S], build func(*Stateful[S]) T, opts ...TypeOption) *Type {
	if build == nil {
		panic("elemental: DefineStateful requires a build function")
	}
	t := newType(name, opts)
	t.stateful = true
	t.build = func(c *Component) (Element, error) {
		s := &Stateful[S]{Component: c, schema: schema}
		c.state = s
		return build(s), nil
	}
	return t
}

// Schema returns the state schema.
func (s *Stateful[S]) Schema() StateSchema[S] {
	return s.schema
}

// State decodes the state attribute. A missing or empty attribute yields
// the schema default.
func (s *Stateful[S]) State() (State[S], error) {
	raw, _ := s.el.GetAttribute(StateAttribute)
	return s.schema.Deserialize(s.reg.codec, raw)
}

// UpdateState replaces the state attribute with the serialized st. A
// connected component re-renders.
func (s *Stateful[S]) UpdateState(st State[S]) error {
	raw, err := s.schema.Serialize(s.reg.codec, st)
	if err != nil {
		return err
	}
	s.el.SetAttribute(StateAttribute, raw)
	return nil
}

// Update validates v and makes it the new state.
func (s *Stateful[S]) Update(v S) error {
	st, err := s.schema.NewState(v)
	if err != nil {
		return err
	}
	return s.UpdateState(st)
}

// ChangedFields returns the observed state fields that differed in the
// last state change.
func (s *Stateful[S]) ChangedFields() []string {
	return append([]string(nil), s.changed...)
}

// StateChanged reports whether field changed in the last state change.
func (s *Stateful[S]) StateChanged(field string) bool {
	for _, f := range s.changed {
		if f == field {
			return true
		}
	}
	return false
}

func (s *Stateful[S]) setInitial(v any) error {
	switch st := v.(type) {
	case State[S]:
		return s.UpdateState(st)
	case S:
		return s.Update(st)
	}
	return fmt.Errorf("%w: initial state is %T", ErrStateNotConsistent, v)
}

func (s *Stateful[S]) stateChanged(oldValue, newValue *string) error {
	fields := s.typ.Metadata().ObservedFields
	if len(fields) == 0 {
		return nil
	}
	var oldRaw string
	if oldValue != nil {
		oldRaw = *oldValue
	}
	before, err := s.schema.Deserialize(s.reg.codec, oldRaw)
	if err != nil {
		return err
	}
	after, err := s.schema.Deserialize(s.reg.codec, *newValue)
	if err != nil {
		return err
	}
	s.changed = changedFields(before.value, after.value, fields)
	if len(s.changed) > 0 {
		s.log.Debug("state changed", zap.Strings("fields", s.changed))
	}
	return nil
}
