// Package dom is the in-memory host runtime that elemental components run on.
//
// It models the subset of the browser platform the component layer consumes
// at its boundary:
//
//   - a node tree (Document, elements, text, fragments, shadow roots) with
//     attribute storage, id lookup and a small CSS selector engine
//   - a custom element registry with define/upgrade semantics and the four
//     lifecycle callbacks (connected, disconnected, adopted, attribute-changed)
//   - event subscription and dispatch with capture, bubble, composed paths
//     across shadow boundaries, once/passive listeners and abort signals
//   - constructable style sheets adopted by shadow roots
//   - an HTML fragment parser and serializer
//
// # Custom Elements
//
// Definitions are registered with the document's registry:
//
//	doc := dom.NewDocument()
//	err := doc.CustomElements().Define("x-card", dom.Definition{
//	    Constructor:        newCard,
//	    ObservedAttributes: []string{"title"},
//	})
//
// Elements whose tag matches a definition are constructed when created with
// CreateElement or Construct, and upgraded when parsed markup containing the
// tag is connected to the document.
//
// # Execution Model
//
// Everything is synchronous. Callbacks run to completion inside the mutation
// that triggered them and listeners run inside DispatchEvent. Errors returned
// from lifecycle callbacks are reported to the document's error handler
// instead of aborting the mutation, mirroring how a browser reports callback
// exceptions.
package dom
