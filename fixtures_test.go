package elemental

import (
	"errors"
	"fmt"

	"github.com/pthm/elemental/dom"
)

type greeter struct {
	*Component
	renders   int
	clicks    int
	connects  int
	lastEvent *dom.Event
}

func (g *greeter) Render() error {
	g.renders++
	if p := g.Query(".name"); p != nil {
		p.SetTextContent("Hello " + g.StringProp("name"))
	}
	return nil
}

func (g *greeter) Connected() error {
	g.connects++
	return nil
}

func (g *greeter) OnClick(e *dom.Event) {
	g.clicks++
	g.lastEvent = e
}

func (g *greeter) OnFail(e *dom.Event) error {
	return errors.New("handler failed")
}

func (g *greeter) NotAHandler() string {
	return "nope"
}

func newGreeterType(name string, opts ...TypeOption) *Type {
	opts = append([]TypeOption{Attributes(StringAttr("name"), IntAttr("count"))}, opts...)
	return Define(name, func(c *Component) *greeter {
		return &greeter{Component: c}
	}, opts...)
}

type counterState struct {
	Count int    `msgpack:"count"`
	Label string `msgpack:"label"`
}

var errNegativeCount = errors.New("negative count")

var counterSchema = StateSchema[counterState]{
	Default: func() counterState {
		return counterState{Label: "none"}
	},
	Validate: func(s counterState) error {
		if s.Count < 0 {
			return errNegativeCount
		}
		return nil
	},
}

type counter struct {
	*Stateful[counterState]
	renders int
	last    counterState
}

func (c *counter) Render() error {
	st, err := c.State()
	if err != nil {
		return err
	}
	c.renders++
	c.last = st.Value()
	if p := c.Query("p"); p != nil {
		p.SetTextContent(fmt.Sprintf("%s: %d", c.last.Label, c.last.Count))
	}
	return nil
}

func newCounterType(schema StateSchema[counterState], opts ...TypeOption) *Type {
	return DefineStateful("Counter", schema, func(s *Stateful[counterState]) *counter {
		return &counter{Stateful: s}
	}, opts...)
}

// registerGreeter registers a greeter type with a single .name paragraph.
func registerGreeter(h *TestHost, opts ...TypeOption) *Type {
	t := newGreeterType("Greeter", opts...)
	h.Registry.MustRegister(t, WithTemplate(`<p class="name"></p><button>Go</button>`))
	return t
}
