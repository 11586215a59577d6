package dom

import (
	"fmt"
	"strings"
)

// ShadowRootMode controls whether a shadow root is reachable from its host.
type ShadowRootMode string

const (
	ShadowOpen   ShadowRootMode = "open"
	ShadowClosed ShadowRootMode = "closed"
)

// ShadowRootInit configures AttachShadow.
type ShadowRootInit struct {
	Mode           ShadowRootMode
	DelegatesFocus bool
}

// Elements that may host a shadow root besides autonomous custom elements.
var shadowHosts = map[string]bool{
	"article": true, "aside": true, "blockquote": true, "body": true,
	"div": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "main": true,
	"nav": true, "p": true, "section": true, "span": true,
}

// AttachShadow attaches a shadow root to the element and returns it.
// Fails with ErrNotSupported for elements that cannot host a shadow root
// or already have one.
func (n *Node) AttachShadow(init ShadowRootInit) (*Node, error) {
	if n.Type != ElementNode {
		return nil, fmt.Errorf("%w: attachShadow on %s", ErrNotSupported, n.Type)
	}
	if !strings.Contains(n.Tag, "-") && !shadowHosts[n.Tag] {
		return nil, fmt.Errorf("%w: <%s> cannot host a shadow root", ErrNotSupported, n.Tag)
	}
	if n.shadow != nil {
		return nil, fmt.Errorf("%w: <%s> already hosts a shadow root", ErrNotSupported, n.Tag)
	}
	mode := init.Mode
	if mode == "" {
		mode = ShadowOpen
	}
	root := &Node{
		Type:           ShadowRootNode,
		doc:            n.doc,
		host:           n,
		shadowMode:     mode,
		delegatesFocus: init.DelegatesFocus,
	}
	n.shadow = root
	return root, nil
}

// DetachShadow removes the element's shadow root, open or closed, undoing
// AttachShadow.
func (n *Node) DetachShadow() {
	if n.shadow == nil {
		return
	}
	n.shadow.host = nil
	n.shadow = nil
}

// ShadowRoot returns the element's open shadow root. Closed roots are not
// exposed, as on the platform.
func (n *Node) ShadowRoot() *Node {
	if n.shadow == nil || n.shadow.shadowMode == ShadowClosed {
		return nil
	}
	return n.shadow
}

// Host returns the host element of a shadow root.
func (n *Node) Host() *Node {
	return n.host
}

// Mode returns the mode of a shadow root.
func (n *Node) Mode() ShadowRootMode {
	return n.shadowMode
}

// DelegatesFocus reports the focus delegation flag of a shadow root.
func (n *Node) DelegatesFocus() bool {
	return n.delegatesFocus
}

// AdoptedStyleSheets returns the sheets adopted by a shadow root.
func (n *Node) AdoptedStyleSheets() []*StyleSheet {
	out := make([]*StyleSheet, len(n.adopted))
	copy(out, n.adopted)
	return out
}

// AdoptStyleSheets appends sheets to a shadow root's adopted list.
func (n *Node) AdoptStyleSheets(sheets ...*StyleSheet) error {
	if n.Type != ShadowRootNode {
		return fmt.Errorf("%w: adoptedStyleSheets on %s", ErrNotSupported, n.Type)
	}
	if n.doc != nil && !n.doc.adoptable {
		return fmt.Errorf("%w: adoptedStyleSheets", ErrNotSupported)
	}
	n.adopted = append(n.adopted, sheets...)
	return nil
}

// StyleSheet is a constructable style sheet.
type StyleSheet struct {
	text string
}

// NewStyleSheet creates a style sheet holding css.
func NewStyleSheet(css string) *StyleSheet {
	return &StyleSheet{text: css}
}

// ReplaceSync replaces the sheet's contents.
func (s *StyleSheet) ReplaceSync(css string) {
	s.text = css
}

// CSSText returns the sheet's contents.
func (s *StyleSheet) CSSText() string {
	return s.text
}
