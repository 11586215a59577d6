package dom

import (
	"errors"
	"fmt"
	"strings"
)

// Document is the root of a node tree and the host of a custom element
// registry.
type Document struct {
	node *Node
	html *Node
	head *Node
	body *Node

	registry *CustomElementRegistry

	adoptable          bool
	customizedBuiltins bool

	onError func(error)
	errs    []error
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithoutAdoptedStyleSheets simulates a host without constructable,
// adoptable style sheets.
func WithoutAdoptedStyleSheets() DocumentOption {
	return func(d *Document) {
		d.adoptable = false
	}
}

// WithoutCustomizedBuiltins simulates a host that rejects definitions
// extending built-in elements.
func WithoutCustomizedBuiltins() DocumentOption {
	return func(d *Document) {
		d.customizedBuiltins = false
	}
}

// WithErrorHandler sets the handler for errors returned by lifecycle
// callbacks and listeners. By default errors are collected and returned
// by Errors.
func WithErrorHandler(fn func(error)) DocumentOption {
	return func(d *Document) {
		d.onError = fn
	}
}

// NewDocument creates an empty document with html, head and body elements.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		adoptable:          true,
		customizedBuiltins: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.node = &Node{Type: DocumentNode, doc: d}
	d.registry = newCustomElementRegistry(d)

	d.html = d.newElement("html")
	d.head = d.newElement("head")
	d.body = d.newElement("body")
	d.html.children = []*Node{d.head, d.body}
	d.head.parent = d.html
	d.body.parent = d.html
	d.node.children = []*Node{d.html}
	d.html.parent = d.node
	return d
}

// Node returns the document node, which is also the document's event target.
func (d *Document) Node() *Node {
	return d.node
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Node {
	return d.html
}

// Head returns the <head> element.
func (d *Document) Head() *Node {
	return d.head
}

// Body returns the <body> element.
func (d *Document) Body() *Node {
	return d.body
}

// CustomElements returns the document's custom element registry.
func (d *Document) CustomElements() *CustomElementRegistry {
	return d.registry
}

// SupportsAdoptedStyleSheets reports whether shadow roots can adopt
// constructable style sheets.
func (d *Document) SupportsAdoptedStyleSheets() bool {
	return d.adoptable
}

// SupportsCustomizedBuiltins reports whether definitions may extend
// built-in elements.
func (d *Document) SupportsCustomizedBuiltins() bool {
	return d.customizedBuiltins
}

// CreateElement creates an element. If tag names a defined custom element,
// it is constructed immediately and a constructor error is returned with
// no element.
func (d *Document) CreateElement(tag string) (*Node, error) {
	return d.create(tag, "", nil, false)
}

// CreateElementIs creates a customized built-in element: a built-in tag
// carrying an is attribute naming the definition.
func (d *Document) CreateElementIs(tag, is string) (*Node, error) {
	return d.create(tag, is, nil, false)
}

// Construct creates a defined custom element, passing arg to its
// constructor. It fails with ErrNotSupported if tag has no definition.
func (d *Document) Construct(tag string, arg any) (*Node, error) {
	return d.create(tag, "", arg, true)
}

// ConstructIs is Construct for customized built-in elements.
func (d *Document) ConstructIs(tag, is string, arg any) (*Node, error) {
	return d.create(tag, is, arg, true)
}

// MustCreateElement is CreateElement for plain elements; it panics on error.
func (d *Document) MustCreateElement(tag string) *Node {
	n, err := d.CreateElement(tag)
	if err != nil {
		panic(err)
	}
	return n
}

func (d *Document) create(tag, is string, arg any, mustBeDefined bool) (*Node, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || strings.ContainsAny(tag, " <>/=\"'") {
		return nil, fmt.Errorf("%w: invalid tag name %q", ErrSyntax, tag)
	}
	n := d.newElement(tag)
	if is != "" {
		n.attrs = append(n.attrs, Attr{Name: "is", Value: is})
	}
	if d.registry.lookup(n) == nil {
		if mustBeDefined {
			return nil, fmt.Errorf("%w: %q is not a defined custom element", ErrNotSupported, tag)
		}
		return n, nil
	}
	if err := d.upgrade(n, arg); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *Document) newElement(tag string) *Node {
	n := &Node{Type: ElementNode, Tag: tag, doc: d}
	if tag == "template" {
		n.content = &Node{Type: FragmentNode, doc: d}
	}
	return n
}

// CreateTextNode creates a text node.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{Type: TextNode, Data: text, doc: d}
}

// CreateComment creates a comment node.
func (d *Document) CreateComment(text string) *Node {
	return &Node{Type: CommentNode, Data: text, doc: d}
}

// CreateDocumentFragment creates an empty fragment.
func (d *Document) CreateDocumentFragment() *Node {
	return &Node{Type: FragmentNode, doc: d}
}

// GetElementByID returns the first element in the document tree with the
// given id. Shadow trees and template content are not searched.
func (d *Document) GetElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	var found *Node
	d.node.walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Type == ElementNode && c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// QuerySelector returns the first element in the document tree matching selector.
func (d *Document) QuerySelector(selector string) *Node {
	return d.node.QuerySelector(selector)
}

// QuerySelectorAll returns all elements in the document tree matching selector.
func (d *Document) QuerySelectorAll(selector string) []*Node {
	return d.node.QuerySelectorAll(selector)
}

// AddEventListener subscribes a listener on the document.
func (d *Document) AddEventListener(typ string, l *Listener, opts ListenerOptions) {
	d.node.AddEventListener(typ, l, opts)
}

// RemoveEventListener unsubscribes a listener from the document.
func (d *Document) RemoveEventListener(typ string, l *Listener, capture bool) {
	d.node.RemoveEventListener(typ, l, capture)
}

// DispatchEvent dispatches e at the document.
func (d *Document) DispatchEvent(e *Event) bool {
	return d.node.DispatchEvent(e)
}

// Errors returns the errors reported by callbacks and listeners when no
// error handler is installed.
func (d *Document) Errors() []error {
	out := make([]error, len(d.errs))
	copy(out, d.errs)
	return out
}

// Err joins the collected errors, or returns nil.
func (d *Document) Err() error {
	return errors.Join(d.errs...)
}

// ReportError hands err to the error handler, or collects it. Nil errors
// are ignored.
func (d *Document) ReportError(err error) {
	d.reportError(err)
}

func (d *Document) reportError(err error) {
	if err == nil {
		return
	}
	if d.onError != nil {
		d.onError(err)
		return
	}
	d.errs = append(d.errs, err)
}

// upgrade runs the definition's constructor for n. Observed attributes
// present before construction are delivered afterwards, followed by
// connectedCallback when n is connected.
func (d *Document) upgrade(n *Node, arg any) error {
	if n.custom != nil || n.failed {
		return nil
	}
	def := d.registry.lookup(n)
	if def == nil {
		return nil
	}
	var present []Attr
	for _, a := range n.attrs {
		if def.observes(a.Name) {
			present = append(present, a)
		}
	}

	ce, err := def.Constructor(n, arg)
	if err != nil {
		n.failed = true
		return err
	}
	if ce == nil {
		n.failed = true
		return fmt.Errorf("dom: constructor for %q returned no element", def.name)
	}
	n.custom = ce
	n.def = def

	for _, a := range present {
		v := a.Value
		d.reportError(ce.AttributeChangedCallback(a.Name, nil, &v))
	}
	if n.IsConnected() && !n.attached {
		n.attached = true
		d.reportError(ce.ConnectedCallback())
	}
	return nil
}

func (d *Document) connected(n *Node) {
	n.walkShadowIncluding(func(c *Node) {
		if c.Type != ElementNode || !c.IsConnected() {
			return
		}
		if c.custom == nil {
			d.reportError(d.upgrade(c, nil))
			return
		}
		if !c.attached {
			c.attached = true
			d.reportError(c.custom.ConnectedCallback())
		}
	})
}

func (d *Document) disconnected(n *Node) {
	n.walkShadowIncluding(func(c *Node) {
		if c.custom == nil || !c.attached {
			return
		}
		c.attached = false
		d.reportError(c.custom.DisconnectedCallback())
	})
}

func (d *Document) adopt(n *Node) {
	n.walkShadowIncluding(func(c *Node) {
		c.doc = d
		if c.content != nil {
			c.content.walkShadowIncluding(func(t *Node) { t.doc = d })
		}
		if c.custom != nil {
			d.reportError(c.custom.AdoptedCallback())
		}
	})
}

func (d *Document) attributeChanged(n *Node, name string, oldValue, newValue *string) {
	if n.custom == nil || n.def == nil || !n.def.observes(name) {
		return
	}
	d.reportError(n.custom.AttributeChangedCallback(name, oldValue, newValue))
}
