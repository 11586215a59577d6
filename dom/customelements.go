package dom

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// CustomElement is the lifecycle callback contract an upgraded element's
// backing instance implements. Errors are reported to the document's error
// handler; they never abort the mutation that triggered the callback.
type CustomElement interface {
	ConnectedCallback() error
	DisconnectedCallback() error
	AdoptedCallback() error
	// AttributeChangedCallback receives nil for an absent old or new value.
	AttributeChangedCallback(name string, oldValue, newValue *string) error
}

// Constructor builds the instance backing el. arg carries the value passed
// to Document.Construct and is nil when the element is created by
// CreateElement or upgraded from markup.
type Constructor func(el *Node, arg any) (CustomElement, error)

// Definition describes a custom element.
type Definition struct {
	Constructor        Constructor
	ObservedAttributes []string
	// Extends names the built-in element a customized built-in element
	// extends. Empty for autonomous custom elements.
	Extends string
}

type definition struct {
	Definition
	name     string
	observed map[string]bool
}

func (d *definition) observes(name string) bool {
	return d.observed[name]
}

var validCustomElementName = regexp.MustCompile(`^[a-z][a-z0-9._]*-[a-z0-9._-]*$`)

var reservedNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}

// ValidCustomElementName reports whether name may be used for a custom element.
func ValidCustomElementName(name string) bool {
	return validCustomElementName.MatchString(name) && !reservedNames[name]
}

// CustomElementRegistry holds the custom element definitions of a document.
type CustomElementRegistry struct {
	doc  *Document
	defs map[string]*definition
}

func newCustomElementRegistry(doc *Document) *CustomElementRegistry {
	return &CustomElementRegistry{
		doc:  doc,
		defs: make(map[string]*definition),
	}
}

// Define registers a custom element and upgrades matching elements already
// connected to the document.
func (r *CustomElementRegistry) Define(name string, def Definition) error {
	if !ValidCustomElementName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyDefined, name)
	}
	if def.Constructor == nil {
		return errors.New("dom: custom element definition requires a constructor")
	}
	if def.Extends != "" {
		if !r.doc.customizedBuiltins {
			return fmt.Errorf("%w: customized built-in elements", ErrNotSupported)
		}
		if ValidCustomElementName(def.Extends) {
			return fmt.Errorf("%w: %q is not a built-in element", ErrNotSupported, def.Extends)
		}
	}

	d := &definition{
		Definition: def,
		name:       name,
		observed:   make(map[string]bool, len(def.ObservedAttributes)),
	}
	for _, a := range def.ObservedAttributes {
		d.observed[a] = true
	}
	r.defs[name] = d

	r.Upgrade(r.doc.node)
	return nil
}

// Get returns the definition registered under name.
func (r *CustomElementRegistry) Get(name string) (Definition, bool) {
	d, ok := r.defs[name]
	if !ok {
		return Definition{}, false
	}
	return d.Definition, true
}

// IsDefined reports whether name has a definition.
func (r *CustomElementRegistry) IsDefined(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Names returns the defined names in sorted order.
func (r *CustomElementRegistry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Upgrade upgrades every not-yet-upgraded connected element in root's
// shadow-including subtree that has a definition.
func (r *CustomElementRegistry) Upgrade(root *Node) {
	if root == nil {
		return
	}
	root.walkShadowIncluding(func(c *Node) {
		if c.Type != ElementNode || c.custom != nil || !c.IsConnected() {
			return
		}
		if err := r.doc.upgrade(c, nil); err != nil {
			r.doc.reportError(err)
		}
	})
}

// lookup finds the definition for an element: by tag for autonomous
// elements, by the is attribute for customized built-ins.
func (r *CustomElementRegistry) lookup(n *Node) *definition {
	if d, ok := r.defs[n.Tag]; ok && d.Extends == "" {
		return d
	}
	if is, ok := n.GetAttribute("is"); ok {
		if d, ok := r.defs[is]; ok && d.Extends == n.Tag {
			return d
		}
	}
	return nil
}
