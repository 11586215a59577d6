package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/wavetermdev/htmltoken"
)

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag never has children or an end tag.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

type openElement struct {
	el        *Node
	container *Node
}

// ParseFragment parses markup into a detached fragment owned by d. The
// parser is lenient: unmatched end tags are ignored and open elements are
// closed at the end of input. Template content goes into the template's
// content fragment, and <template shadowrootmode> attaches a declarative
// shadow root to its parent element. Custom elements in the result are
// upgraded when the fragment is inserted into the document.
func (d *Document) ParseFragment(markup string) (*Node, error) {
	frag := d.CreateDocumentFragment()
	stack := []openElement{{container: frag}}
	top := func() *Node { return stack[len(stack)-1].container }

	iter := htmltoken.NewTokenizer(strings.NewReader(markup))
	for {
		tokenType := iter.Next()
		token := iter.Token()
		switch tokenType {
		case htmltoken.StartTagToken, htmltoken.SelfClosingTagToken:
			tag := strings.ToLower(token.Data)
			el := d.newElement(tag)
			for _, a := range token.Attr {
				name := strings.ToLower(a.Key)
				if name == "" {
					continue
				}
				if _, exists := el.GetAttribute(name); exists {
					continue
				}
				el.attrs = append(el.attrs, Attr{Name: name, Value: a.Val})
			}
			if tag == "template" {
				if root := declarativeShadowRoot(top(), el); root != nil {
					if tokenType == htmltoken.StartTagToken {
						stack = append(stack, openElement{el: el, container: root})
					}
					continue
				}
			}
			appendParsed(top(), el)
			if tokenType == htmltoken.SelfClosingTagToken || voidElements[tag] {
				continue
			}
			container := el
			if el.content != nil {
				container = el.content
			}
			stack = append(stack, openElement{el: el, container: container})
		case htmltoken.EndTagToken:
			tag := strings.ToLower(token.Data)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].el.Tag == tag {
					stack = stack[:i]
					break
				}
			}
		case htmltoken.TextToken:
			if token.Data == "" {
				continue
			}
			appendParsed(top(), d.CreateTextNode(token.Data))
		case htmltoken.CommentToken:
			appendParsed(top(), d.CreateComment(token.Data))
		case htmltoken.DoctypeToken:
			continue
		case htmltoken.ErrorToken:
			if iter.Err() == io.EOF {
				return frag, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrSyntax, iter.Err())
		}
	}
}

// declarativeShadowRoot attaches the shadow root described by a
// <template shadowrootmode> to parent. It returns nil when tmpl is an
// ordinary template or parent cannot host one.
func declarativeShadowRoot(parent, tmpl *Node) *Node {
	mode, ok := tmpl.GetAttribute("shadowrootmode")
	if !ok || parent.Type != ElementNode {
		return nil
	}
	m := ShadowRootMode(strings.ToLower(mode))
	if m != ShadowOpen && m != ShadowClosed {
		return nil
	}
	root, err := parent.AttachShadow(ShadowRootInit{
		Mode:           m,
		DelegatesFocus: tmpl.HasAttribute("shadowrootdelegatesfocus"),
	})
	if err != nil {
		return nil
	}
	return root
}

func appendParsed(parent, child *Node) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

// SetInnerHTML replaces the node's children with parsed markup. For a
// template element the content fragment is replaced instead.
func (n *Node) SetInnerHTML(markup string) error {
	if n.doc == nil {
		return fmt.Errorf("%w: node has no owner document", ErrNotSupported)
	}
	frag, err := n.doc.ParseFragment(markup)
	if err != nil {
		return err
	}
	if n.content != nil {
		n.content.ReplaceChildren(frag)
		return nil
	}
	n.ReplaceChildren(frag)
	return nil
}
