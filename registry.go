package elemental

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pthm/elemental/dom"
	"github.com/pthm/elemental/lib/encoding"
	"go.uber.org/zap"
)

// Registry maps component types to custom element tag names on one
// document, owns the type's templates and styles, and gates construction
// on registration.
type Registry struct {
	mu        sync.RWMutex
	doc       *dom.Document
	codec     encoding.Codec
	log       *zap.Logger
	metrics   *Metrics
	prefix    Prefix
	tags      map[string]string // type name -> tag name
	types     map[string]*Type
	extends   map[string]string // type name -> extended built-in
	templates *TemplateController
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(reg *Registry) {
		if log != nil {
			reg.log = log
		}
	}
}

// WithMetrics records registry and component activity in m.
func WithMetrics(m *Metrics) RegistryOption {
	return func(reg *Registry) {
		reg.metrics = m
	}
}

// WithCodec sets the codec used for state and event payloads. The default
// is encoding.MsgpackCodec.
func WithCodec(c encoding.Codec) RegistryOption {
	return func(reg *Registry) {
		if c != nil {
			reg.codec = c
		}
	}
}

// WithDefaultPrefix sets the prefix used for tag names generated without
// an explicit prefix.
func WithDefaultPrefix(p Prefix) RegistryOption {
	return func(reg *Registry) {
		if !p.IsZero() {
			reg.prefix = p
		}
	}
}

// NewRegistry creates a registry defining its components on doc.
func NewRegistry(doc *dom.Document, opts ...RegistryOption) *Registry {
	if doc == nil {
		panic("elemental: NewRegistry requires a document")
	}
	reg := &Registry{
		doc:     doc,
		codec:   encoding.MsgpackCodec{},
		log:     zap.NewNop(),
		prefix:  Prefix{value: DefaultPrefix},
		tags:    make(map[string]string),
		types:   make(map[string]*Type),
		extends: make(map[string]string),
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.templates = newTemplateController(reg)
	return reg
}

// Document returns the document the registry defines components on.
func (reg *Registry) Document() *dom.Document {
	return reg.doc
}

// Codec returns the codec for state and event payloads.
func (reg *Registry) Codec() encoding.Codec {
	return reg.codec
}

// Templates returns the registry's template controller.
func (reg *Registry) Templates() *TemplateController {
	return reg.templates
}

// DefaultPrefix returns the prefix used when none is given.
func (reg *Registry) DefaultPrefix() Prefix {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.prefix
}

// SetDefaultPrefix changes the default prefix. Tag names already generated
// for registered types keep their prefix.
func (reg *Registry) SetDefaultPrefix(p Prefix) {
	if p.IsZero() {
		return
	}
	reg.mu.Lock()
	reg.prefix = p
	reg.mu.Unlock()
}

// TagName returns the tag name of t. Once t is registered the registered
// tag is returned whatever prefix is passed; otherwise the name is derived
// from prefix, or the default prefix when prefix is zero.
func (reg *Registry) TagName(t *Type, prefix Prefix) string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.tagNameLocked(t, prefix)
}

func (reg *Registry) tagNameLocked(t *Type, prefix Prefix) string {
	if tag, ok := reg.tags[t.name]; ok {
		return tag
	}
	if prefix.IsZero() {
		prefix = reg.prefix
	}
	return strings.ToLower(prefix.String()) + "-" + KebabCase(t.name)
}

// RegisteredTagName returns the tag registered for the type named name.
func (reg *Registry) RegisteredTagName(name string) (string, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	tag, ok := reg.tags[name]
	return tag, ok
}

// IsRegistered reports whether t went through Register.
func (reg *Registry) IsRegistered(t *Type) bool {
	if t == nil {
		return false
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.types[t.name] == t
}

// IsRegisteredByClassName reports whether a type named name is registered.
func (reg *Registry) IsRegisteredByClassName(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.tags[name]
	return ok
}

// IsRegisteredByTagName reports whether the document defines tag. Elements
// defined outside this registry count too.
func (reg *Registry) IsRegisteredByTagName(tag string) bool {
	return reg.doc.CustomElements().IsDefined(tag)
}

// IsTemplateRegistered reports whether t registered its own template.
func (reg *Registry) IsTemplateRegistered(t *Type) bool {
	return reg.templates.IsRegistered(t)
}

// IsTemplateRegisteredByTagName reports whether a template is registered
// under tag.
func (reg *Registry) IsTemplateRegisteredByTagName(tag string) bool {
	return reg.templates.IsRegisteredByTagName(tag)
}

// Type returns the registered type named name.
func (reg *Registry) Type(name string) (*Type, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	t, ok := reg.types[name]
	return t, ok
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	prefix      Prefix
	template    string
	hasTemplate bool
	templateID  string
	styles      []string
	extends     string
}

// WithPrefix overrides the default prefix for this registration.
func WithPrefix(p Prefix) RegisterOption {
	return func(o *registerOptions) {
		o.prefix = p
	}
}

// WithTemplate registers html as the type's template.
func WithTemplate(html string) RegisterOption {
	return func(o *registerOptions) {
		o.template = html
		o.hasTemplate = true
	}
}

// WithTemplateID copies the content of the document element with the
// given id into the type's template.
func WithTemplateID(id string) RegisterOption {
	return func(o *registerOptions) {
		o.templateID = id
	}
}

// WithStyles attaches style sheets to the type.
func WithStyles(css ...string) RegisterOption {
	return func(o *registerOptions) {
		o.styles = append(o.styles, css...)
	}
}

// WithExtends defines the type as a customized built-in extending tag.
// Not every host supports this.
func WithExtends(tag string) RegisterOption {
	return func(o *registerOptions) {
		o.extends = tag
	}
}

// Register defines t as a custom element. Its template and styles are
// stored before the definition so elements upgraded by the definition find
// them.
func (reg *Registry) Register(t *Type, opts ...RegisterOption) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrNotRegistered)
	}
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	table := t.attributeTable()
	for _, a := range table {
		if a.Parse == nil {
			return fmt.Errorf("%w: %s.%s", ErrMissingAttributeParser, t.name, a.Name)
		}
	}

	reg.mu.Lock()
	tag := reg.tagNameLocked(t, o.prefix)
	_, claimed := reg.tags[t.name]
	reg.mu.Unlock()

	log := reg.log.Named("registry").With(zap.String("name", t.name), zap.String("tag", tag))

	if claimed || reg.doc.CustomElements().IsDefined(tag) {
		return fmt.Errorf("%w: %s as <%s>", ErrAlreadyRegistered, t.name, tag)
	}
	if !dom.ValidCustomElementName(tag) {
		return fmt.Errorf("%w: %q", dom.ErrInvalidName, tag)
	}
	if o.extends != "" && !reg.doc.SupportsCustomizedBuiltins() {
		return fmt.Errorf("%w: %s extends <%s>", dom.ErrNotSupported, t.name, o.extends)
	}
	if o.extends != "" && dom.ValidCustomElementName(o.extends) {
		return fmt.Errorf("%w: %q is not a built-in element", dom.ErrNotSupported, o.extends)
	}

	if o.hasTemplate || o.templateID != "" {
		if err := reg.templates.Register(t, tag, o); err != nil {
			return err
		}
	} else if len(o.styles) > 0 {
		reg.templates.RegisterStyles(t, o.styles)
	}

	reg.mu.Lock()
	reg.tags[t.name] = tag
	reg.types[t.name] = t
	if o.extends != "" {
		reg.extends[t.name] = o.extends
	}
	reg.mu.Unlock()

	observed := make([]string, 0, len(table))
	for _, a := range table {
		observed = append(observed, a.Name)
	}

	// The lock is released: Define upgrades matching elements, whose
	// constructors read the registry.
	err := reg.doc.CustomElements().Define(tag, dom.Definition{
		Constructor:        reg.constructor(t),
		ObservedAttributes: observed,
		Extends:            o.extends,
	})
	if err != nil {
		reg.mu.Lock()
		delete(reg.tags, t.name)
		delete(reg.types, t.name)
		delete(reg.extends, t.name)
		reg.mu.Unlock()
		reg.templates.unregister(t, tag)
		return err
	}

	reg.metrics.componentRegistered()
	log.Debug("component registered", zap.Strings("observed", observed), zap.String("extends", o.extends))
	return nil
}

// MustRegister is Register that panics on error.
func (reg *Registry) MustRegister(t *Type, opts ...RegisterOption) {
	if err := reg.Register(t, opts...); err != nil {
		panic(err)
	}
}

func (reg *Registry) extendsOf(t *Type) string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.extends[t.name]
}

func (reg *Registry) constructor(t *Type) dom.Constructor {
	return func(el *dom.Node, arg any) (dom.CustomElement, error) {
		var opts Options
		switch o := arg.(type) {
		case Options:
			opts = o
		case *Options:
			if o != nil {
				opts = *o
			}
		}
		c, err := newComponent(reg, t, el, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
