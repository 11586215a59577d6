package elemental

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/pthm/elemental/dom"
	"github.com/pthm/elemental/lib/encoding"
	"go.uber.org/zap"
)

// EventListener binds an event to a handler. Either Handler or HandlerName
// must be set; HandlerName names an exported method of the component with
// signature func(*dom.Event) or func(*dom.Event) error.
type EventListener struct {
	Name        string
	HandlerName string
	Handler     func(*dom.Event)
	// AttachTo is the subscribed element. Nil means the component.
	AttachTo *dom.Node
	// IsCustomEvent subscribes on the document instead of AttachTo.
	IsCustomEvent bool
	Options       []ListenerOption

	preventDefault bool
}

// ListenerOption adjusts subscription options. Capture defaults to true.
type ListenerOption func(*dom.ListenerOptions)

// Capture sets the capture flag.
func Capture(capture bool) ListenerOption {
	return func(o *dom.ListenerOptions) {
		o.Capture = capture
	}
}

// Passive marks the listener passive.
func Passive() ListenerOption {
	return func(o *dom.ListenerOptions) {
		o.Passive = true
	}
}

// Once removes the listener after its first invocation.
func Once() ListenerOption {
	return func(o *dom.ListenerOptions) {
		o.Once = true
	}
}

// Signal removes the listener when s is aborted.
func Signal(s *dom.AbortSignal) ListenerOption {
	return func(o *dom.ListenerOptions) {
		o.Signal = s
	}
}

// same reports whether l and o subscribe the same handler to the same
// event and target.
func (l EventListener) same(o EventListener) bool {
	return l.Name == o.Name &&
		l.AttachTo == o.AttachTo &&
		l.IsCustomEvent == o.IsCustomEvent &&
		l.handlerKey() == o.handlerKey()
}

func (l EventListener) handlerKey() string {
	if l.HandlerName == "" && l.Handler != nil {
		return funcName(l.Handler)
	}
	return l.HandlerName
}

type listenerKey struct {
	target  *dom.Node
	event   string
	handler string
}

type subscription struct {
	target   dom.EventTarget
	event    string
	listener *dom.Listener
	capture  bool
}

// EventController owns the live subscriptions of one component.
type EventController struct {
	c     *Component
	log   *zap.Logger
	subs  map[listenerKey]subscription
	order []listenerKey
}

func newEventController(c *Component) *EventController {
	return &EventController{
		c:    c,
		log:  c.log.Named("events"),
		subs: make(map[listenerKey]subscription),
	}
}

// Register subscribes every listener. A listener whose target, event and
// handler name match an existing subscription is skipped. When any handler
// cannot be resolved nothing is subscribed.
func (ec *EventController) Register(listeners []EventListener) error {
	for _, l := range listeners {
		if _, _, err := ec.resolve(l); err != nil {
			return err
		}
	}
	for _, l := range listeners {
		if err := ec.register(l); err != nil {
			return err
		}
	}
	return nil
}

func (ec *EventController) register(l EventListener) error {
	fn, name, err := ec.resolve(l)
	if err != nil {
		return err
	}

	attach := l.AttachTo
	if attach == nil {
		attach = ec.c.el
	}
	key := listenerKey{target: attach, event: l.Name, handler: name}
	if _, exists := ec.subs[key]; exists {
		ec.c.reg.metrics.listenerSkipped()
		ec.log.Debug("listener already registered",
			zap.String("event", l.Name), zap.String("handler", name))
		return nil
	}

	opts := dom.ListenerOptions{Capture: true}
	for _, opt := range l.Options {
		opt(&opts)
	}
	if l.preventDefault {
		handle := fn
		fn = func(e *dom.Event) {
			e.PreventDefault()
			handle(e)
		}
	}

	var target dom.EventTarget = attach
	if l.IsCustomEvent {
		target = ec.c.el.OwnerDocument().Node()
	}
	listener := dom.NewListener(name, fn)
	target.AddEventListener(l.Name, listener, opts)

	ec.subs[key] = subscription{target: target, event: l.Name, listener: listener, capture: opts.Capture}
	ec.order = append(ec.order, key)
	ec.c.reg.metrics.listenerRegistered()
	ec.log.Debug("listener registered",
		zap.String("event", l.Name),
		zap.String("handler", name),
		zap.Bool("custom", l.IsCustomEvent),
		zap.Bool("capture", opts.Capture),
	)
	return nil
}

// resolve returns the handler of l and the name it is keyed under.
func (ec *EventController) resolve(l EventListener) (func(*dom.Event), string, error) {
	if l.Handler != nil {
		name := l.HandlerName
		if name == "" {
			name = funcName(l.Handler)
		}
		return l.Handler, name, nil
	}
	if l.HandlerName == "" {
		return nil, "", fmt.Errorf("%w: no handler for %q", ErrHandlerNotDefined, l.Name)
	}

	m := reflect.ValueOf(ec.c.elem).MethodByName(l.HandlerName)
	if !m.IsValid() {
		return nil, "", fmt.Errorf("%w: %T has no method %s", ErrHandlerNotDefined, ec.c.elem, l.HandlerName)
	}
	switch fn := m.Interface().(type) {
	case func(*dom.Event):
		return fn, l.HandlerName, nil
	case func(*dom.Event) error:
		doc := ec.c.el.OwnerDocument()
		return func(e *dom.Event) {
			if err := fn(e); err != nil {
				doc.ReportError(fmt.Errorf("elemental: %s handling %q: %w", l.HandlerName, e.Type, err))
			}
		}, l.HandlerName, nil
	}
	return nil, "", fmt.Errorf("%w: %T.%s has signature %s", ErrHandlerNotDefined, ec.c.elem, l.HandlerName, m.Type())
}

// funcName derives a handler name from a function symbol: a method value
// of Navbar.OnClick is named "OnClick".
func funcName(fn func(*dom.Event)) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return fmt.Sprintf("%p", fn)
	}
	name := f.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// Deregister removes every subscription. It is safe to call with none.
func (ec *EventController) Deregister() {
	for _, key := range ec.order {
		s := ec.subs[key]
		s.target.RemoveEventListener(s.event, s.listener, s.capture)
	}
	if len(ec.order) > 0 {
		ec.log.Debug("listeners deregistered", zap.Int("count", len(ec.order)))
	}
	ec.subs = make(map[listenerKey]subscription)
	ec.order = nil
}

// Len returns the number of live subscriptions.
func (ec *EventController) Len() int {
	return len(ec.order)
}

// Has reports whether handler is subscribed to event.
func (ec *EventController) Has(event, handler string) bool {
	for _, key := range ec.order {
		if key.event == event && key.handler == handler {
			return true
		}
	}
	return false
}

// EventOption configures a raised event.
type EventOption func(*eventOptions)

type eventOptions struct {
	custom  bool
	payload any
	init    dom.EventInit
}

// Custom raises a custom event whose detail is the serialized payload.
func Custom() EventOption {
	return func(o *eventOptions) {
		o.custom = true
	}
}

// WithPayload sets the payload of a custom event.
func WithPayload(v any) EventOption {
	return func(o *eventOptions) {
		o.payload = v
	}
}

// Bubbles overrides the bubbles flag. Default true.
func Bubbles(b bool) EventOption {
	return func(o *eventOptions) {
		o.init.Bubbles = b
	}
}

// Cancelable overrides the cancelable flag. Default true.
func Cancelable(b bool) EventOption {
	return func(o *eventOptions) {
		o.init.Cancelable = b
	}
}

// Composed overrides the composed flag. Default true.
func Composed(b bool) EventOption {
	return func(o *eventOptions) {
		o.init.Composed = b
	}
}

// Raise dispatches an event from the component. It returns false if a
// listener canceled the event.
func (ec *EventController) Raise(name string, opts ...EventOption) (bool, error) {
	o := eventOptions{init: dom.EventInit{Bubbles: true, Cancelable: true, Composed: true}}
	for _, opt := range opts {
		opt(&o)
	}

	var e *dom.Event
	if o.custom {
		var detail any
		if o.payload != nil {
			s, err := ec.c.reg.codec.Serialize(o.payload)
			if err != nil {
				return false, fmt.Errorf("elemental: event %q payload: %w", name, err)
			}
			detail = s
		}
		e = dom.NewCustomEvent(name, o.init, detail)
	} else {
		e = dom.NewEvent(name, o.init)
	}

	ec.c.reg.metrics.eventRaised(o.custom)
	ec.log.Debug("raising event", zap.String("event", name), zap.Bool("custom", o.custom))
	return ec.c.el.DispatchEvent(e), nil
}

// DecodeDetail deserializes the detail of a custom event raised with a
// payload into v.
func DecodeDetail(c encoding.Codec, e *dom.Event, v any) error {
	if e == nil || e.Detail == nil {
		return ErrNoEventDetail
	}
	s, ok := e.Detail.(string)
	if !ok {
		return fmt.Errorf("%w: detail is %T", encoding.ErrInvalidFormat, e.Detail)
	}
	return c.Deserialize(s, v)
}
