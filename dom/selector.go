package dom

import (
	"fmt"
	"strings"
)

// Selector is a compiled CSS selector. The supported grammar covers
// compound selectors made of a type or universal selector, #id, .class
// and attribute selectors ([a], [a=v], [a~=v], [a|=v], [a^=v], [a$=v],
// [a*=v]), joined by descendant or child combinators, in comma-separated
// lists.
type Selector struct {
	src  string
	list []complexSelector
}

type complexSelector struct {
	parts []compoundSelector
	// combinators[i] joins parts[i] and parts[i+1]: ' ' or '>'.
	combinators []byte
}

type compoundSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrSelector
}

type attrSelector struct {
	name string
	op   string
	val  string
}

// CompileSelector parses a selector, returning an ErrSyntax error for
// unsupported or malformed input.
func CompileSelector(s string) (*Selector, error) {
	p := &selectorParser{src: s}
	list, err := p.parseList()
	if err != nil {
		return nil, fmt.Errorf("%w: selector %q: %v", ErrSyntax, s, err)
	}
	return &Selector{src: s, list: list}, nil
}

// MustCompileSelector is CompileSelector that panics on error.
func MustCompileSelector(s string) *Selector {
	sel, err := CompileSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// String returns the source of the selector.
func (s *Selector) String() string {
	return s.src
}

// Match reports whether the element matches the selector.
func (s *Selector) Match(n *Node) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	for _, c := range s.list {
		if c.matchAt(len(c.parts)-1, n) {
			return true
		}
	}
	return false
}

// First returns the first descendant of root matching s. Shadow trees and
// template content are not searched.
func (s *Selector) First(root *Node) *Node {
	var found *Node
	root.walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if s.Match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// All returns the descendants of root matching s in tree order.
func (s *Selector) All(root *Node) []*Node {
	var out []*Node
	root.walk(func(c *Node) bool {
		if s.Match(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// QuerySelector returns the first descendant matching selector, or nil
// when nothing matches or the selector is invalid.
func (n *Node) QuerySelector(selector string) *Node {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil
	}
	return sel.First(n)
}

// QuerySelectorAll returns all descendants matching selector.
func (n *Node) QuerySelectorAll(selector string) []*Node {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil
	}
	return sel.All(n)
}

// Matches reports whether the element matches selector.
func (n *Node) Matches(selector string) bool {
	sel, err := CompileSelector(selector)
	if err != nil {
		return false
	}
	return sel.Match(n)
}

func (c complexSelector) matchAt(i int, n *Node) bool {
	if !c.parts[i].match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	if c.combinators[i-1] == '>' {
		p := n.ParentElement()
		return p != nil && c.matchAt(i-1, p)
	}
	for p := n.ParentElement(); p != nil; p = p.ParentElement() {
		if c.matchAt(i-1, p) {
			return true
		}
	}
	return false
}

func (c compoundSelector) match(n *Node) bool {
	if c.tag != "" && c.tag != n.Tag {
		return false
	}
	if c.id != "" && n.ID() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !n.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !a.match(n) {
			return false
		}
	}
	return true
}

func (a attrSelector) match(n *Node) bool {
	v, ok := n.GetAttribute(a.name)
	if !ok {
		return false
	}
	switch a.op {
	case "":
		return true
	case "=":
		return v == a.val
	case "~=":
		for _, f := range strings.Fields(v) {
			if f == a.val {
				return true
			}
		}
		return false
	case "|=":
		return v == a.val || strings.HasPrefix(v, a.val+"-")
	case "^=":
		return a.val != "" && strings.HasPrefix(v, a.val)
	case "$=":
		return a.val != "" && strings.HasSuffix(v, a.val)
	case "*=":
		return a.val != "" && strings.Contains(v, a.val)
	}
	return false
}

type selectorParser struct {
	src string
	pos int
}

func (p *selectorParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *selectorParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *selectorParser) skipSpace() bool {
	start := p.pos
	for !p.eof() && isSpaceByte(p.peek()) {
		p.pos++
	}
	return p.pos > start
}

func (p *selectorParser) parseList() ([]complexSelector, error) {
	var list []complexSelector
	for {
		p.skipSpace()
		c, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		list = append(list, c)
		p.skipSpace()
		if p.eof() {
			return list, nil
		}
		if p.peek() != ',' {
			return nil, fmt.Errorf("unexpected %q at %d", p.peek(), p.pos)
		}
		p.pos++
	}
}

func (p *selectorParser) parseComplex() (complexSelector, error) {
	var c complexSelector
	first, err := p.parseCompound()
	if err != nil {
		return c, err
	}
	c.parts = append(c.parts, first)
	for {
		hadSpace := p.skipSpace()
		if p.eof() || p.peek() == ',' {
			return c, nil
		}
		comb := byte(' ')
		if p.peek() == '>' {
			p.pos++
			p.skipSpace()
			comb = '>'
		} else if !hadSpace {
			return c, fmt.Errorf("unexpected %q at %d", p.peek(), p.pos)
		}
		next, err := p.parseCompound()
		if err != nil {
			return c, err
		}
		c.combinators = append(c.combinators, comb)
		c.parts = append(c.parts, next)
	}
}

func (p *selectorParser) parseCompound() (compoundSelector, error) {
	var c compoundSelector
	start := p.pos
	if p.peek() == '*' {
		p.pos++
	} else if isIdentByte(p.peek()) {
		c.tag = strings.ToLower(p.ident())
	}
	for !p.eof() {
		switch p.peek() {
		case '#':
			p.pos++
			id := p.ident()
			if id == "" {
				return c, fmt.Errorf("empty id at %d", p.pos)
			}
			c.id = id
		case '.':
			p.pos++
			class := p.ident()
			if class == "" {
				return c, fmt.Errorf("empty class at %d", p.pos)
			}
			c.classes = append(c.classes, class)
		case '[':
			a, err := p.parseAttr()
			if err != nil {
				return c, err
			}
			c.attrs = append(c.attrs, a)
		default:
			if p.pos == start {
				return c, fmt.Errorf("expected selector at %d", p.pos)
			}
			return c, nil
		}
	}
	if p.pos == start {
		return c, fmt.Errorf("expected selector at %d", p.pos)
	}
	return c, nil
}

func (p *selectorParser) parseAttr() (attrSelector, error) {
	var a attrSelector
	p.pos++ // [
	p.skipSpace()
	a.name = strings.ToLower(p.ident())
	if a.name == "" {
		return a, fmt.Errorf("empty attribute name at %d", p.pos)
	}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return a, nil
	}
	switch {
	case p.peek() == '=':
		a.op = "="
		p.pos++
	case strings.IndexByte("~|^$*", p.peek()) >= 0 && p.pos+1 < len(p.src) && p.src[p.pos+1] == '=':
		a.op = p.src[p.pos : p.pos+2]
		p.pos += 2
	default:
		return a, fmt.Errorf("unexpected %q in attribute selector", p.peek())
	}
	p.skipSpace()
	if q := p.peek(); q == '"' || q == '\'' {
		end := strings.IndexByte(p.src[p.pos+1:], q)
		if end < 0 {
			return a, fmt.Errorf("unterminated string at %d", p.pos)
		}
		a.val = p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
	} else {
		a.val = p.ident()
		if a.val == "" {
			return a, fmt.Errorf("missing attribute value at %d", p.pos)
		}
	}
	p.skipSpace()
	if p.peek() != ']' {
		return a, fmt.Errorf("expected ] at %d", p.pos)
	}
	p.pos++
	return a, nil
}

func (p *selectorParser) ident() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b >= 0x80
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
