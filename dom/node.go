package dom

import (
	"fmt"
	"strings"
)

// NodeType discriminates the kinds of nodes in a tree.
type NodeType uint8

const (
	ElementNode    NodeType = iota + 1 // <div>, <el-hero>, ...
	TextNode                           // character data
	CommentNode                        // <!-- -->
	DocumentNode                       // the document itself
	FragmentNode                       // DocumentFragment, template content
	ShadowRootNode                     // shadow root attached to a host element
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentNode:
		return "Document"
	case FragmentNode:
		return "DocumentFragment"
	case ShadowRootNode:
		return "ShadowRoot"
	default:
		return "Unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a node in a document tree.
//
// A single struct covers every NodeType; fields that do not apply to a
// type are left zero. Elements carry a lowercase Tag, text and comment
// nodes carry Data.
type Node struct {
	Type NodeType
	Tag  string
	Data string

	attrs    []Attr
	parent   *Node
	children []*Node
	doc      *Document

	// content of a <template> element
	content *Node

	// shadow root of a host element, and the host of a shadow root
	shadow         *Node
	host           *Node
	shadowMode     ShadowRootMode
	delegatesFocus bool
	adopted        []*StyleSheet

	listeners []*listenerEntry

	// custom element state
	custom   CustomElement
	def      *definition
	failed   bool
	attached bool // connectedCallback delivered, disconnectedCallback pending
}

// OwnerDocument returns the document the node belongs to.
func (n *Node) OwnerDocument() *Document {
	return n.doc
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Node {
	if n.parent != nil && n.parent.Type == ElementNode {
		return n.parent
	}
	return nil
}

// ChildNodes returns a snapshot of the node's children.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Children returns the element children of the node.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child node, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child node, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// HasChildNodes reports whether the node has any children.
func (n *Node) HasChildNodes() bool {
	return len(n.children) > 0
}

// Contains reports whether other is an inclusive descendant of n.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// RootNode returns the root of the node's tree. Shadow roots are roots.
func (n *Node) RootNode() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsConnected reports whether the node is in the document tree, crossing
// shadow boundaries through their hosts.
func (n *Node) IsConnected() bool {
	for c := n; c != nil; {
		if c.Type == DocumentNode {
			return c.doc != nil && c == c.doc.node
		}
		switch {
		case c.parent != nil:
			c = c.parent
		case c.Type == ShadowRootNode:
			c = c.host
		default:
			return false
		}
	}
	return false
}

// AppendChild inserts child as the last child of n and returns it.
//
// A fragment is inserted by moving all of its children. A child that already
// has a parent is moved. Inserting a node into its own subtree panics with
// ErrHierarchy, as the platform throws a HierarchyRequestError.
func (n *Node) AppendChild(child *Node) *Node {
	n.insertBefore(child, nil)
	return child
}

// PrependChild inserts child as the first child of n and returns it.
func (n *Node) PrependChild(child *Node) *Node {
	n.insertBefore(child, n.FirstChild())
	return child
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if ref != nil && ref.parent != n {
		panic(fmt.Errorf("%w: reference node is not a child", ErrHierarchy))
	}
	n.insertBefore(child, ref)
	return child
}

// RemoveChild detaches child from n and returns it.
func (n *Node) RemoveChild(child *Node) *Node {
	if child.parent != n {
		panic(fmt.Errorf("%w: node is not a child", ErrHierarchy))
	}
	n.removeChild(child)
	return child
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

// ReplaceChildren removes all children and appends nodes.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for len(n.children) > 0 {
		n.removeChild(n.children[len(n.children)-1])
	}
	for _, c := range nodes {
		n.insertBefore(c, nil)
	}
}

func (n *Node) insertBefore(child, ref *Node) {
	if child == nil {
		return
	}
	if child.Type == FragmentNode {
		for _, c := range child.ChildNodes() {
			n.insertBefore(c, ref)
		}
		return
	}
	if child.Type == DocumentNode || child.Type == ShadowRootNode {
		panic(fmt.Errorf("%w: cannot insert a %s", ErrHierarchy, child.Type))
	}
	if child.Contains(n) {
		panic(fmt.Errorf("%w: cannot insert a node into its own subtree", ErrHierarchy))
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	if n.doc != nil && child.doc != n.doc {
		n.doc.adopt(child)
	}

	idx := len(n.children)
	if ref != nil {
		for i, c := range n.children {
			if c == ref {
				idx = i
				break
			}
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	if n.doc != nil && n.IsConnected() {
		n.doc.connected(child)
	}
}

func (n *Node) removeChild(child *Node) {
	wasConnected := child.IsConnected()
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	if wasConnected && n.doc != nil {
		n.doc.disconnected(child)
	}
}

// GetAttribute returns the value of the named attribute and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attribute returns the value of the named attribute, or "" if absent.
func (n *Node) Attribute(name string) string {
	v, _ := n.GetAttribute(name)
	return v
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// AttributeNames returns attribute names in insertion order.
func (n *Node) AttributeNames() []string {
	out := make([]string, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = a.Name
	}
	return out
}

// Attrs returns a snapshot of the node's attributes.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// SetAttribute sets the named attribute, notifying an upgraded custom
// element that observes it.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	var old *string
	found := false
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			prev := n.attrs[i].Value
			old = &prev
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}
	if n.doc != nil {
		v := value
		n.doc.attributeChanged(n, name, old, &v)
	}
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			if n.doc != nil {
				prev := a.Value
				n.doc.attributeChanged(n, name, &prev, nil)
			}
			return
		}
	}
}

// ID returns the id attribute.
func (n *Node) ID() string {
	return n.Attribute("id")
}

// SetID sets the id attribute.
func (n *Node) SetID(id string) {
	n.SetAttribute("id", id)
}

// ClassName returns the class attribute.
func (n *Node) ClassName() string {
	return n.Attribute("class")
}

// SetClassName sets the class attribute.
func (n *Node) SetClassName(class string) {
	n.SetAttribute("class", class)
}

// ClassList returns the element's class tokens.
func (n *Node) ClassList() []string {
	return strings.Fields(n.ClassName())
}

// HasClass reports whether the element carries the class token.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.ClassList() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class tokens that are not already present.
func (n *Node) AddClass(classes ...string) {
	list := n.ClassList()
	changed := false
	for _, c := range classes {
		if c == "" || n.HasClass(c) {
			continue
		}
		list = append(list, c)
		changed = true
	}
	if changed {
		n.SetClassName(strings.Join(list, " "))
	}
}

// RemoveClass removes class tokens.
func (n *Node) RemoveClass(classes ...string) {
	if !n.HasAttribute("class") {
		return
	}
	drop := make(map[string]bool, len(classes))
	for _, c := range classes {
		drop[c] = true
	}
	var keep []string
	for _, c := range n.ClassList() {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	n.SetClassName(strings.Join(keep, " "))
}

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	n.walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces the node's children with a single text node.
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		n.Data = text
		return
	}
	if text == "" {
		n.ReplaceChildren()
		return
	}
	n.ReplaceChildren(&Node{Type: TextNode, Data: text, doc: n.doc})
}

// Content returns the content fragment of a <template> element.
func (n *Node) Content() *Node {
	return n.content
}

// CloneNode copies the node. Deep copies include descendants and template
// content. Listeners, shadow roots and custom element state are not copied.
func (n *Node) CloneNode(deep bool) *Node {
	c := &Node{
		Type: n.Type,
		Tag:  n.Tag,
		Data: n.Data,
		doc:  n.doc,
	}
	if n.Type == ShadowRootNode {
		c.Type = FragmentNode
	}
	if len(n.attrs) > 0 {
		c.attrs = make([]Attr, len(n.attrs))
		copy(c.attrs, n.attrs)
	}
	if n.content != nil {
		c.content = n.content.CloneNode(true)
	}
	if deep {
		for _, child := range n.children {
			cc := child.CloneNode(true)
			cc.parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}

// IsDefined reports whether the element is an upgraded custom element.
func (n *Node) IsDefined() bool {
	return n.custom != nil
}

// CustomElement returns the instance backing an upgraded custom element.
func (n *Node) CustomElement() CustomElement {
	return n.custom
}

// walk visits descendants of n in tree order, not entering shadow roots
// or template content. Returning false from fn skips the node's subtree.
func (n *Node) walk(fn func(*Node) bool) {
	for _, c := range n.children {
		if fn(c) {
			c.walk(fn)
		}
	}
}

// walkShadowIncluding visits n and its descendants in shadow-including
// tree order.
func (n *Node) walkShadowIncluding(fn func(*Node)) {
	fn(n)
	if n.shadow != nil {
		n.shadow.walkShadowIncluding(fn)
	}
	for _, c := range n.ChildNodes() {
		c.walkShadowIncluding(fn)
	}
}

// String returns a short description for debugging.
func (n *Node) String() string {
	switch n.Type {
	case ElementNode:
		if id := n.ID(); id != "" {
			return fmt.Sprintf("<%s#%s>", n.Tag, id)
		}
		return "<" + n.Tag + ">"
	case TextNode:
		return fmt.Sprintf("#text(%q)", n.Data)
	default:
		return "#" + strings.ToLower(n.Type.String())
	}
}
