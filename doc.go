// Package elemental is an authoring layer over custom elements. A component
// type is declared once, registered with a tag name prefix, a template and
// styles, and then constructed by the host whenever its tag is created or
// parsed.
//
// # Core Concepts
//
// Components embed *Component, or *Stateful[S] for components carrying
// serialized state, and implement Render:
//
//	type Hero struct {
//	    *elemental.Stateful[HeroState]
//	}
//
//	func (h *Hero) Render() error {
//	    st, err := h.State()
//	    if err != nil {
//	        return err
//	    }
//	    h.Query(".name").SetTextContent("I am " + st.Value().Name)
//	    return nil
//	}
//
// A Type is created by Define or DefineStateful. The name is the type's
// unique key and, kebab-cased behind a prefix, its tag name:
//
//	var HeroType = elemental.DefineStateful("Hero", heroSchema,
//	    func(s *elemental.Stateful[HeroState]) *Hero { return &Hero{Stateful: s} },
//	    elemental.Attributes(elemental.StringAttr("tagline")),
//	    elemental.Listen("click", "OnButtonClick", elemental.On("button")),
//	)
//
// # Registration
//
// Types are registered with a Registry bound to a dom.Document:
//
//	reg := elemental.NewRegistry(doc, elemental.WithLogger(log))
//	err := reg.Register(HeroType,
//	    elemental.WithTemplate(`<p class="name"></p><button>Reveal</button>`),
//	    elemental.WithStyles(`p { color: red; }`),
//	)
//
// Registration stores the template before the tag is defined, so elements
// already in the document upgrade with it. A type without its own template
// clones its parent's.
//
// # Lifecycle
//
// Construction resolves the id, attaches the shadow root, clones the
// template, adopts styles and subscribes declared listeners. Connection
// renders. Every change of an observed attribute re-renders a connected
// component. Disconnection removes every listener; reconnection restores
// the declared ones.
//
// # Events
//
// Declared listeners resolve exported methods by name. Custom events are
// subscribed on the document and carry the codec-serialized payload:
//
//	h.RaiseEvent("UpdateText", elemental.Custom(), elemental.WithPayload(msg))
//
//	var msg Message
//	err := elemental.DecodeDetail(h.Registry().Codec(), e, &msg)
//
// # Rendering
//
// Markup and Page serialize components with declarative shadow roots for
// server-side output through templ.
package elemental
