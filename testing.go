package elemental

import (
	"bytes"
	"context"
	"strings"

	"github.com/pthm/elemental/dom"
)

// TestResult holds the rendered output of a component for testing.
//
// Provides convenience methods for asserting on HTML content, listeners
// and errors reported by the document.
type TestResult struct {
	// HTML is the host element including declarative shadow roots.
	HTML string
	// RootHTML is the content of the component's document root.
	RootHTML string
	// Listeners is the number of live event subscriptions.
	Listeners int
	// Errors are the errors collected by the document.
	Errors []error
}

// TestHost bundles a fresh document and registry so tests never share
// registrations.
type TestHost struct {
	Doc      *dom.Document
	Registry *Registry
}

// NewTestHost creates a document and a registry on it.
//
//	host := elemental.NewTestHost()
//	host.Registry.MustRegister(heroType, elemental.WithTemplate(`<p class="name"></p>`))
func NewTestHost(opts ...RegistryOption) *TestHost {
	return NewTestHostWith(dom.NewDocument(), opts...)
}

// NewTestHostWith wraps an existing document, for tests that need a host
// without adoptable style sheets or customized built-ins.
func NewTestHostWith(doc *dom.Document, opts ...RegistryOption) *TestHost {
	return &TestHost{Doc: doc, Registry: NewRegistry(doc, opts...)}
}

// Mount constructs a component and appends it to the document body, which
// connects and renders it.
//
//	hero, err := elemental.Mount[*Hero](host, heroType, elemental.Options{})
func Mount[T Element](h *TestHost, t *Type, opts Options) (T, error) {
	e, err := New[T](h.Registry, t, opts)
	if err != nil {
		return e, err
	}
	h.Doc.Body().AppendChild(e.component().el)
	return e, nil
}

// TestRender serializes a component and returns testable output.
//
//	result, err := elemental.TestRender(hero)
//	if !result.HTMLContains("I am Strange") {
//	    t.Fatal("missing expected content")
//	}
func TestRender(e Element) (*TestResult, error) {
	c := e.component()
	var buf bytes.Buffer
	if err := Markup(c.el).Render(context.Background(), &buf); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:      buf.String(),
		RootHTML:  c.root.InnerHTML(),
		Listeners: c.events.Len(),
		Errors:    c.el.OwnerDocument().Errors(),
	}, nil
}

// HasListener reports whether the component has handler subscribed to
// event.
func HasListener(e Element, event, handler string) bool {
	return e.component().events.Has(event, handler)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// RootContains checks if the document root content contains a substring.
func (r *TestResult) RootContains(substr string) bool {
	return strings.Contains(r.RootHTML, substr)
}

// HasErrors reports whether the document collected any error.
func (r *TestResult) HasErrors() bool {
	return len(r.Errors) > 0
}
