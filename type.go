package elemental

import (
	"slices"
	"strings"
)

// Element is implemented by every component. Authors embed *Component (or
// *Stateful[S]) in a struct and implement Render.
type Element interface {
	// Render mutates the component's document root.
	Render() error

	component() *Component
}

// ConnectedHook is implemented by components that need to act after the
// first render following connection.
type ConnectedHook interface {
	Connected() error
}

// DisconnectedHook is implemented by components that need to act after
// their listeners were torn down.
type DisconnectedHook interface {
	Disconnected() error
}

// Type describes a component type: its unique name, its parent, its
// observed attributes and its declared metadata.
type Type struct {
	name      string
	parent    *Type
	build     func(*Component) (Element, error)
	stateful  bool
	attrs     []Attribute
	listeners []ListenerSpec
	observed  []string
}

// TypeOption configures a Type.
type TypeOption func(*Type)

// Attributes adds observed attributes to the type.
func Attributes(attrs ...Attribute) TypeOption {
	return func(t *Type) {
		t.attrs = append(t.attrs, attrs...)
	}
}

// Extends makes parent the type's parent. Metadata, templates and styles
// of the parent are inherited.
func Extends(parent *Type) TypeOption {
	return func(t *Type) {
		t.parent = parent
	}
}

// Listen declares an event listener bound to the exported method named
// handler when the component is constructed.
func Listen(event, handler string, opts ...ListenOption) TypeOption {
	return func(t *Type) {
		spec := ListenerSpec{Event: event, HandlerName: handler}
		for _, opt := range opts {
			opt(&spec)
		}
		t.listeners = append(t.listeners, spec)
	}
}

// ObserveState declares state fields whose changes are reported by
// Stateful.ChangedFields.
func ObserveState(fields ...string) TypeOption {
	return func(t *Type) {
		t.observed = append(t.observed, fields...)
	}
}

// ListenerSpec is a declared listener.
type ListenerSpec struct {
	Event       string
	HandlerName string
	// AttachTo is a selector resolved against the component's document
	// root. Empty, or matching nothing, means the component itself.
	AttachTo string
	Custom   bool
	Options  []ListenerOption
}

// ListenOption configures a declared listener.
type ListenOption func(*ListenerSpec)

// On attaches the declared listener to the first element matching selector.
func On(selector string) ListenOption {
	return func(s *ListenerSpec) {
		s.AttachTo = selector
	}
}

// AsCustomEvent subscribes the declared listener on the document.
func AsCustomEvent() ListenOption {
	return func(s *ListenerSpec) {
		s.Custom = true
	}
}

// WithListenerOptions sets subscription options of the declared listener.
func WithListenerOptions(opts ...ListenerOption) ListenOption {
	return func(s *ListenerSpec) {
		s.Options = append(s.Options, opts...)
	}
}

// Define creates a component type. build wraps the base component into the
// author's struct. It panics if name is empty or build is nil.
func Define[T Element](name string, build func(*Component) T, opts ...TypeOption) *Type {
	if build == nil {
		panic("elemental: Define requires a build function")
	}
	t := newType(name, opts)
	t.build = func(c *Component) (Element, error) {
		return build(c), nil
	}
	return t
}

func newType(name string, opts []TypeOption) *Type {
	if strings.TrimSpace(name) == "" {
		panic("elemental: component type requires a name")
	}
	t := &Type{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the type's unique name.
func (t *Type) Name() string {
	return t.name
}

// Parent returns the parent type, or nil.
func (t *Type) Parent() *Type {
	return t.parent
}

// IsStateful reports whether the type carries serialized state.
func (t *Type) IsStateful() bool {
	return t.stateful
}

// Metadata holds declarations of a type and its ancestors.
type Metadata struct {
	Listeners      []ListenerSpec
	ObservedFields []string
}

// Metadata collects the type's declarations followed by its ancestors'.
func (t *Type) Metadata() Metadata {
	var md Metadata
	for cur := t; cur != nil; cur = cur.parent {
		md.Listeners = append(md.Listeners, cur.listeners...)
		for _, f := range cur.observed {
			if !slices.Contains(md.ObservedFields, f) {
				md.ObservedFields = append(md.ObservedFields, f)
			}
		}
	}
	return md
}

// ObservedAttributes returns the names of the attributes observed by the
// type and its ancestors.
func (t *Type) ObservedAttributes() []string {
	var names []string
	for _, a := range t.attributeTable() {
		names = append(names, a.Name)
	}
	return names
}

// attributeTable merges the attribute tables of the chain. Entries of a
// child replace same-named entries of its ancestors.
func (t *Type) attributeTable() []Attribute {
	var chain []*Type
	for cur := t; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	var table []Attribute
	index := map[string]int{}
	add := func(a Attribute) {
		if i, ok := index[a.Name]; ok {
			table[i] = a
			return
		}
		index[a.Name] = len(table)
		table = append(table, a)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].stateful {
			add(StringAttr(StateAttribute))
		}
		for _, a := range chain[i].attrs {
			add(a)
		}
	}
	return table
}

func (t *Type) attribute(name string) (Attribute, bool) {
	for _, a := range t.attributeTable() {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}
