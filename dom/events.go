package dom

import "fmt"

// EventTarget is implemented by nodes and documents.
type EventTarget interface {
	AddEventListener(typ string, l *Listener, opts ListenerOptions)
	RemoveEventListener(typ string, l *Listener, capture bool)
	DispatchEvent(e *Event) bool
}

var (
	_ EventTarget = (*Node)(nil)
	_ EventTarget = (*Document)(nil)
)

// EventPhase is the current dispatch phase of an event.
type EventPhase uint8

const (
	PhaseNone EventPhase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// EventInit configures a new event.
type EventInit struct {
	Bubbles    bool
	Cancelable bool
	Composed   bool
}

// Event is a native or custom event.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool
	Composed   bool

	// Detail is the payload of a custom event.
	Detail any

	custom        bool
	target        *Node
	currentTarget *Node
	phase         EventPhase

	defaultPrevented bool
	stopped          bool
	stoppedNow       bool
	inPassive        bool
	dispatching      bool
}

// NewEvent creates a plain event.
func NewEvent(typ string, init EventInit) *Event {
	return &Event{
		Type:       typ,
		Bubbles:    init.Bubbles,
		Cancelable: init.Cancelable,
		Composed:   init.Composed,
	}
}

// NewCustomEvent creates a custom event carrying detail.
func NewCustomEvent(typ string, init EventInit, detail any) *Event {
	e := NewEvent(typ, init)
	e.Detail = detail
	e.custom = true
	return e
}

// IsCustom reports whether the event was created with NewCustomEvent.
func (e *Event) IsCustom() bool {
	return e.custom
}

// Target returns the event target, retargeted for the current listener.
func (e *Event) Target() *Node {
	return e.target
}

// CurrentTarget returns the node whose listeners are running.
func (e *Event) CurrentTarget() *Node {
	return e.currentTarget
}

// Phase returns the current dispatch phase.
func (e *Event) Phase() EventPhase {
	return e.phase
}

// PreventDefault cancels a cancelable event. It is ignored inside passive
// listeners.
func (e *Event) PreventDefault() {
	if e.Cancelable && !e.inPassive {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation also skips remaining listeners on the current node.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedNow = true
}

// Listener wraps an event handler. Listener identity is pointer identity:
// the same *Listener subscribed twice with the same type and capture flag
// is a single subscription, and removal requires the same pointer.
type Listener struct {
	Name string
	fn   func(*Event)
}

// NewListener creates a listener for fn.
func NewListener(name string, fn func(*Event)) *Listener {
	return &Listener{Name: name, fn: fn}
}

// HandleEvent invokes the handler.
func (l *Listener) HandleEvent(e *Event) {
	if l.fn != nil {
		l.fn(e)
	}
}

// ListenerOptions are the addEventListener options.
type ListenerOptions struct {
	Capture bool
	Passive bool
	Once    bool
	Signal  *AbortSignal
}

type listenerEntry struct {
	typ      string
	listener *Listener
	capture  bool
	passive  bool
	once     bool
	removed  bool
}

// AddEventListener subscribes l to events of type typ on n.
func (n *Node) AddEventListener(typ string, l *Listener, opts ListenerOptions) {
	if l == nil {
		return
	}
	if opts.Signal != nil && opts.Signal.Aborted() {
		return
	}
	for _, e := range n.listeners {
		if e.typ == typ && e.listener == l && e.capture == opts.Capture {
			return
		}
	}
	n.listeners = append(n.listeners, &listenerEntry{
		typ:      typ,
		listener: l,
		capture:  opts.Capture,
		passive:  opts.Passive,
		once:     opts.Once,
	})
	if opts.Signal != nil {
		capture := opts.Capture
		opts.Signal.onAbort(func() {
			n.RemoveEventListener(typ, l, capture)
		})
	}
}

// RemoveEventListener unsubscribes l.
func (n *Node) RemoveEventListener(typ string, l *Listener, capture bool) {
	for i, e := range n.listeners {
		if e.typ == typ && e.listener == l && e.capture == capture {
			e.removed = true
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of active listeners for typ.
func (n *Node) ListenerCount(typ string) int {
	count := 0
	for _, e := range n.listeners {
		if e.typ == typ {
			count++
		}
	}
	return count
}

// DispatchEvent dispatches e with n as target and reports whether the
// default action was not prevented. Listener panics are recovered and
// reported to the document's error handler.
func (n *Node) DispatchEvent(e *Event) bool {
	if e.dispatching {
		panic(fmt.Errorf("%w: event %q is already being dispatched", ErrNotSupported, e.Type))
	}
	e.dispatching = true
	e.stopped, e.stoppedNow = false, false

	path := n.eventPath(e.Composed)

	// capture pass, root to target
	for i := len(path) - 1; i >= 0 && !e.stopped; i-- {
		node := path[i]
		e.target = retarget(n, node)
		if node == e.target {
			e.phase = PhaseAtTarget
		} else {
			e.phase = PhaseCapturing
		}
		node.invoke(e, true)
	}
	// bubble pass, target to root
	for i := 0; i < len(path) && !e.stopped; i++ {
		node := path[i]
		e.target = retarget(n, node)
		if node == e.target {
			e.phase = PhaseAtTarget
		} else if e.Bubbles {
			e.phase = PhaseBubbling
		} else {
			continue
		}
		node.invoke(e, false)
	}

	e.target = n
	e.currentTarget = nil
	e.phase = PhaseNone
	e.dispatching = false
	return !e.defaultPrevented
}

// eventPath lists n and its ancestors. Composed events continue from a
// shadow root to its host.
func (n *Node) eventPath(composed bool) []*Node {
	var path []*Node
	for c := n; c != nil; {
		path = append(path, c)
		switch {
		case c.parent != nil:
			c = c.parent
		case c.Type == ShadowRootNode && composed:
			c = c.host
		default:
			c = nil
		}
	}
	return path
}

func (n *Node) invoke(e *Event, capture bool) {
	e.currentTarget = n
	entries := make([]*listenerEntry, len(n.listeners))
	copy(entries, n.listeners)
	for _, entry := range entries {
		if entry.removed || entry.typ != e.Type || entry.capture != capture {
			continue
		}
		if entry.once {
			n.RemoveEventListener(entry.typ, entry.listener, entry.capture)
		}
		e.inPassive = entry.passive
		n.call(entry.listener, e)
		e.inPassive = false
		if e.stoppedNow {
			return
		}
	}
}

func (n *Node) call(l *Listener, e *Event) {
	defer func() {
		if r := recover(); r != nil && n.doc != nil {
			n.doc.reportError(fmt.Errorf("dom: listener %q for %q panicked: %v", l.Name, e.Type, r))
		}
	}()
	l.HandleEvent(e)
}

// retarget returns the node of a's tree that b can observe: a itself, or
// the nearest shadow host that is not hidden from b.
func retarget(a, b *Node) *Node {
	for {
		root := a.RootNode()
		if root.Type != ShadowRootNode || shadowIncludingAncestor(root, b) {
			return a
		}
		a = root.host
	}
}

func shadowIncludingAncestor(ancestor, n *Node) bool {
	for c := n; c != nil; {
		if c == ancestor {
			return true
		}
		switch {
		case c.parent != nil:
			c = c.parent
		case c.Type == ShadowRootNode:
			c = c.host
		default:
			c = nil
		}
	}
	return false
}

// AbortController signals listener removal.
type AbortController struct {
	signal *AbortSignal
}

// NewAbortController creates a controller with a fresh signal.
func NewAbortController() *AbortController {
	return &AbortController{signal: &AbortSignal{}}
}

// Signal returns the controller's signal.
func (c *AbortController) Signal() *AbortSignal {
	return c.signal
}

// Abort aborts the signal, removing every listener registered with it.
func (c *AbortController) Abort() {
	c.signal.abort()
}

// AbortSignal is passed in ListenerOptions to tie a listener's lifetime
// to a controller.
type AbortSignal struct {
	aborted  bool
	handlers []func()
}

// Aborted reports whether the signal has been aborted.
func (s *AbortSignal) Aborted() bool {
	return s.aborted
}

func (s *AbortSignal) onAbort(fn func()) {
	s.handlers = append(s.handlers, fn)
}

func (s *AbortSignal) abort() {
	if s.aborted {
		return
	}
	s.aborted = true
	for _, fn := range s.handlers {
		fn()
	}
	s.handlers = nil
}
