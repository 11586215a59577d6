package elemental

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pthm/elemental/dom"
)

var shadowMarkup = dom.SerializeOptions{IncludeShadowRoots: true}

// Markup renders n and its shadow trees as HTML. Shadow roots become
// declarative <template shadowrootmode> elements, so the output hydrates
// in a browser without script.
func Markup(n *dom.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return dom.RenderHTML(w, n, shadowMarkup)
	})
}

// Page renders the whole document, doctype included.
func Page(doc *dom.Document) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
			return err
		}
		return dom.RenderHTML(w, doc.DocumentElement(), shadowMarkup)
	})
}

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    elemental.Render(w, r, elemental.Page(doc))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}
