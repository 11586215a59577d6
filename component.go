package elemental

import (
	"fmt"
	"slices"

	"github.com/pthm/elemental/dom"
	"go.uber.org/zap"
)

// Options configure a single component instance.
type Options struct {
	// ID is used when the element carries no usable id attribute.
	ID ID
	// NoShadow renders into the element itself instead of a shadow root.
	NoShadow bool
	// Mode of the shadow root. Default open.
	Mode dom.ShadowRootMode
	// DelegatesFocus of the shadow root. Default true.
	DelegatesFocus *bool
	// TemplateID names a document element whose content is cloned instead
	// of the registered template.
	TemplateID string
	// EventHandlers are registered at construction, before declared
	// listeners.
	EventHandlers []EventListener
	// State is the initial state of a stateful component, as S or State[S].
	State any
}

// Component is the base every component embeds. It is the custom element
// instance backing a host element.
type Component struct {
	reg  *Registry
	typ  *Type
	el   *dom.Node
	elem Element
	root *dom.Node
	opts Options
	log  *zap.Logger

	id       string
	tag      string
	template *dom.Node
	props    map[string]any
	events   *EventController
	state    stateHolder

	declared []EventListener
	pending  []EventListener
}

var _ dom.CustomElement = (*Component)(nil)

// stateHolder is implemented by Stateful.
type stateHolder interface {
	setInitial(v any) error
	stateChanged(oldValue, newValue *string) error
}

// New creates a component of type t. t must be registered with reg.
func New[T Element](reg *Registry, t *Type, opts Options) (T, error) {
	var zero T
	if !reg.IsRegistered(t) {
		return zero, fmt.Errorf("%w: %s", ErrNotRegistered, t.Name())
	}
	tag, _ := reg.RegisteredTagName(t.name)

	var (
		n   *dom.Node
		err error
	)
	if ext := reg.extendsOf(t); ext != "" {
		n, err = reg.doc.ConstructIs(ext, tag, opts)
	} else {
		n, err = reg.doc.Construct(tag, opts)
	}
	if err != nil {
		return zero, err
	}

	e, ok := From[T](n)
	if !ok {
		c, _ := n.CustomElement().(*Component)
		var built Element
		if c != nil {
			built = c.elem
		}
		return zero, fmt.Errorf("elemental: %s builds %T, not %T", t.name, built, zero)
	}
	return e, nil
}

// From returns the component backing n.
func From[T Element](n *dom.Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	c, ok := n.CustomElement().(*Component)
	if !ok || c.elem == nil {
		return zero, false
	}
	e, ok := c.elem.(T)
	return e, ok
}

func newComponent(reg *Registry, t *Type, el *dom.Node, opts Options) (_ *Component, err error) {
	if !reg.IsRegistered(t) {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t.name)
	}

	c := &Component{
		reg:   reg,
		typ:   t,
		el:    el,
		opts:  opts,
		props: make(map[string]any),
	}

	// undo reverts the changes made to el when construction fails.
	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	undo = append(undo, c.configureAttributes()...)
	c.tag = reg.TagName(t, Prefix{})
	if prev, ok := el.GetAttribute("id"); ok {
		undo = append(undo, func() { el.SetID(prev) })
	} else {
		undo = append(undo, func() { el.RemoveAttribute("id") })
	}
	c.id = c.resolveID()
	el.SetID(c.id)
	c.log = reg.log.Named("component").With(
		zap.String("name", t.name),
		zap.String("tag", c.tag),
		zap.String("id", c.id),
	)
	c.events = newEventController(c)
	undo = append(undo, c.events.Deregister)

	root, attached, err := c.documentRoot()
	if err != nil {
		return nil, err
	}
	c.root = root
	if attached {
		undo = append(undo, el.DetachShadow)
	}

	tmpl, err := reg.templates.Find(t, opts.TemplateID)
	if err != nil {
		return nil, err
	}
	if tmpl != nil {
		c.template = tmpl
		source := tmpl.Content()
		if source == nil {
			source = tmpl
		}
		for _, child := range source.ChildNodes() {
			clone := child.CloneNode(true)
			root.AppendChild(clone)
			undo = append(undo, clone.Remove)
		}
	}
	if !opts.NoShadow && reg.doc.SupportsAdoptedStyleSheets() {
		if sheets := reg.templates.Styles(t); len(sheets) > 0 {
			if err := root.AdoptStyleSheets(sheets...); err != nil {
				return nil, err
			}
		}
	}

	elem, err := t.build(c)
	if err != nil {
		return nil, err
	}
	c.elem = elem

	declared, err := c.declaredListeners()
	if err != nil {
		return nil, err
	}
	c.declared = declared
	if err := c.events.Register(declared); err != nil {
		return nil, err
	}

	if opts.State != nil {
		if c.state == nil {
			c.log.Debug("initial state ignored, component is not stateful")
		} else if err := c.state.setInitial(opts.State); err != nil {
			return nil, err
		}
	}

	c.log.Debug("component constructed", zap.Bool("template", tmpl != nil), zap.Bool("shadow", !opts.NoShadow))
	return c, nil
}

// configureAttributes creates a property for every observed attribute and
// for attributes present on the element. Observed attributes missing from
// the element are set empty, except the state attribute. It returns the
// removals that revert those additions.
func (c *Component) configureAttributes() []func() {
	var added []func()
	for _, a := range c.typ.attributeTable() {
		c.props[a.Name] = nil
		if a.Name == StateAttribute || c.el.HasAttribute(a.Name) {
			continue
		}
		c.el.SetAttribute(a.Name, "")
		name := a.Name
		added = append(added, func() { c.el.RemoveAttribute(name) })
	}
	for _, a := range c.el.Attrs() {
		if _, observed := c.typ.attribute(a.Name); observed {
			continue
		}
		c.props[a.Name] = a.Value
	}
	return added
}

func (c *Component) resolveID() string {
	if v, ok := c.el.GetAttribute("id"); ok && v != "" && v != "undefined" {
		return v
	}
	if !c.opts.ID.IsZero() {
		return c.opts.ID.String()
	}
	return RandomID().String()
}

// documentRoot returns the root templates are cloned into, and whether a
// new shadow root was attached for it.
func (c *Component) documentRoot() (*dom.Node, bool, error) {
	if c.opts.NoShadow {
		return c.el, false, nil
	}
	if existing := c.el.ShadowRoot(); existing != nil {
		existing.ReplaceChildren()
		return existing, false, nil
	}
	mode := c.opts.Mode
	if mode == "" {
		mode = dom.ShadowOpen
	}
	delegates := true
	if c.opts.DelegatesFocus != nil {
		delegates = *c.opts.DelegatesFocus
	}
	root, err := c.el.AttachShadow(dom.ShadowRootInit{Mode: mode, DelegatesFocus: delegates})
	if err != nil {
		return nil, false, err
	}
	return root, true, nil
}

// declaredListeners combines the listeners passed in Options with those
// declared on the type and its ancestors.
func (c *Component) declaredListeners() ([]EventListener, error) {
	listeners := append([]EventListener(nil), c.opts.EventHandlers...)
	for _, spec := range c.typ.Metadata().Listeners {
		var target *dom.Node
		if spec.AttachTo != "" {
			sel, err := dom.CompileSelector(spec.AttachTo)
			if err != nil {
				return nil, fmt.Errorf("elemental: listener %s on %q: %w", spec.HandlerName, spec.AttachTo, err)
			}
			target = sel.First(c.root)
		}
		listeners = append(listeners, EventListener{
			Name:           spec.Event,
			HandlerName:    spec.HandlerName,
			AttachTo:       target,
			IsCustomEvent:  spec.Custom,
			Options:        spec.Options,
			preventDefault: true,
		})
	}
	return listeners, nil
}

func (c *Component) component() *Component {
	return c
}

func (c *Component) render() error {
	c.reg.metrics.rendered(c.tag)
	if err := c.elem.Render(); err != nil {
		return fmt.Errorf("elemental: render <%s id=%q>: %w", c.tag, c.id, err)
	}
	return nil
}

// ConnectedCallback restores listeners and renders.
func (c *Component) ConnectedCallback() error {
	c.log.Debug("connected")
	if err := c.events.Register(c.declared); err != nil {
		return err
	}
	if err := c.events.Register(c.pending); err != nil {
		return err
	}
	if err := c.render(); err != nil {
		return err
	}
	if h, ok := c.elem.(ConnectedHook); ok {
		return h.Connected()
	}
	return nil
}

// DisconnectedCallback removes every listener.
func (c *Component) DisconnectedCallback() error {
	c.log.Debug("disconnected")
	c.DeregisterEventListeners()
	if h, ok := c.elem.(DisconnectedHook); ok {
		return h.Disconnected()
	}
	return nil
}

// AdoptedCallback is logged only.
func (c *Component) AdoptedCallback() error {
	c.log.Debug("adopted")
	return nil
}

// AttributeChangedCallback parses the new value into the same-named
// property and re-renders a connected component. Removals are skipped.
func (c *Component) AttributeChangedCallback(name string, oldValue, newValue *string) error {
	if newValue == nil || !c.el.HasAttribute(name) {
		c.log.Debug("attribute removed", zap.String("attribute", name))
		return nil
	}
	c.log.Debug("attribute changed",
		zap.String("attribute", name),
		zap.Stringp("old", oldValue),
		zap.String("new", *newValue),
	)

	if a, ok := c.typ.attribute(name); ok {
		v, err := a.parse(*newValue)
		if err != nil {
			return err
		}
		c.props[name] = v
	} else {
		c.props[name] = *newValue
	}

	if name == StateAttribute && c.state != nil {
		if err := c.state.stateChanged(oldValue, newValue); err != nil {
			return err
		}
	}
	if c.el.IsConnected() {
		return c.render()
	}
	return nil
}

// RegisterEventListeners subscribes listeners. They are restored on every
// connection until DeregisterEventListeners is called.
func (c *Component) RegisterEventListeners(listeners ...EventListener) error {
	if err := c.events.Register(listeners); err != nil {
		return err
	}
	for _, l := range listeners {
		if !slices.ContainsFunc(c.pending, l.same) {
			c.pending = append(c.pending, l)
		}
	}
	return nil
}

// DeregisterEventListeners removes every subscription of the component.
// Declared listeners come back on the next connection.
func (c *Component) DeregisterEventListeners() {
	c.events.Deregister()
	c.pending = nil
}

// RaiseEvent dispatches an event from the component.
func (c *Component) RaiseEvent(name string, opts ...EventOption) (bool, error) {
	return c.events.Raise(name, opts...)
}

// Query returns the first element of the document root matching selector.
func (c *Component) Query(selector string) *dom.Node {
	return c.root.QuerySelector(selector)
}

// QueryAll returns the elements of the document root matching selector.
func (c *Component) QueryAll(selector string) []*dom.Node {
	return c.root.QuerySelectorAll(selector)
}

// Element returns the host element.
func (c *Component) Element() *dom.Node { return c.el }

// Root returns the document root: the shadow root, or the host element
// when constructed with NoShadow.
func (c *Component) Root() *dom.Node { return c.root }

// Template returns the template element cloned at construction, or nil.
func (c *Component) Template() *dom.Node { return c.template }

// Registry returns the registry that constructed the component.
func (c *Component) Registry() *Registry { return c.reg }

// Type returns the component type.
func (c *Component) Type() *Type { return c.typ }

// TagName returns the registered tag name.
func (c *Component) TagName() string { return c.tag }

// ID returns the component id.
func (c *Component) ID() string { return c.id }

// Events returns the component's event controller.
func (c *Component) Events() *EventController { return c.events }

// Logger returns the component's logger.
func (c *Component) Logger() *zap.Logger { return c.log }

// IsConnected reports whether the host element is in a document.
func (c *Component) IsConnected() bool { return c.el.IsConnected() }

// Prop returns the parsed value of an attribute.
func (c *Component) Prop(name string) any {
	return c.props[name]
}

// StringProp returns a string property, or "".
func (c *Component) StringProp(name string) string {
	s, _ := c.props[name].(string)
	return s
}

// IntProp returns an int property, or 0.
func (c *Component) IntProp(name string) int {
	n, _ := c.props[name].(int)
	return n
}

// FloatProp returns a float64 property, or 0.
func (c *Component) FloatProp(name string) float64 {
	f, _ := c.props[name].(float64)
	return f
}

// BoolProp returns a bool property, or false.
func (c *Component) BoolProp(name string) bool {
	b, _ := c.props[name].(bool)
	return b
}
