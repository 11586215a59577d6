package dom

import (
	"bufio"
	"io"
	"strings"
)

// SerializeOptions configures RenderHTML.
type SerializeOptions struct {
	// IncludeShadowRoots writes shadow roots as declarative
	// <template shadowrootmode> elements, with adopted style sheets as
	// leading <style> elements.
	IncludeShadowRoots bool
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

var rawTextElements = map[string]bool{
	"style":    true,
	"script":   true,
	"xmp":      true,
	"iframe":   true,
	"noembed":  true,
	"noframes": true,
}

// InnerHTML serializes the node's children, or a template's content.
// Shadow roots are not included.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	s := serializer{w: w}
	if n.content != nil {
		s.children(n.content)
	} else {
		s.children(n)
	}
	_ = w.Flush()
	return sb.String()
}

// OuterHTML serializes the node and its descendants.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	_ = RenderHTML(&sb, n, SerializeOptions{})
	return sb.String()
}

// RenderHTML writes n to w.
func RenderHTML(w io.Writer, n *Node, opts SerializeOptions) error {
	bw := bufio.NewWriter(w)
	s := serializer{w: bw, opts: opts}
	s.node(n)
	return bw.Flush()
}

type serializer struct {
	w    *bufio.Writer
	opts SerializeOptions
}

func (s serializer) node(n *Node) {
	switch n.Type {
	case ElementNode:
		s.element(n)
	case TextNode:
		if p := n.parent; p != nil && p.Type == ElementNode && rawTextElements[p.Tag] {
			s.w.WriteString(n.Data)
			return
		}
		textEscaper.WriteString(s.w, n.Data)
	case CommentNode:
		s.w.WriteString("<!--")
		s.w.WriteString(n.Data)
		s.w.WriteString("-->")
	case ShadowRootNode:
		s.shadowRoot(n)
	default:
		s.children(n)
	}
}

func (s serializer) element(n *Node) {
	s.w.WriteByte('<')
	s.w.WriteString(n.Tag)
	for _, a := range n.attrs {
		s.w.WriteByte(' ')
		s.w.WriteString(a.Name)
		s.w.WriteString(`="`)
		attrEscaper.WriteString(s.w, a.Value)
		s.w.WriteByte('"')
	}
	s.w.WriteByte('>')
	if voidElements[n.Tag] {
		return
	}
	if s.opts.IncludeShadowRoots && n.shadow != nil {
		s.shadowRoot(n.shadow)
	}
	if n.content != nil {
		s.children(n.content)
	} else {
		s.children(n)
	}
	s.w.WriteString("</")
	s.w.WriteString(n.Tag)
	s.w.WriteByte('>')
}

func (s serializer) shadowRoot(root *Node) {
	s.w.WriteString(`<template shadowrootmode="`)
	s.w.WriteString(string(root.shadowMode))
	s.w.WriteByte('"')
	if root.delegatesFocus {
		s.w.WriteString(" shadowrootdelegatesfocus")
	}
	s.w.WriteByte('>')
	for _, sheet := range root.adopted {
		s.w.WriteString("<style>")
		s.w.WriteString(sheet.text)
		s.w.WriteString("</style>")
	}
	s.children(root)
	s.w.WriteString("</template>")
}

func (s serializer) children(n *Node) {
	for _, c := range n.children {
		s.node(c)
	}
}
