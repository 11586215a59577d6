package elemental

import (
	"strconv"
	"testing"

	"github.com/pthm/elemental/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnregistered(t *testing.T) {
	h := NewTestHost()
	typ := newGreeterType("Ghost")

	g, err := New[*greeter](h.Registry, typ, Options{})
	assert.True(t, IsNotRegistered(err), "got %v", err)
	assert.Nil(t, g)
	assert.Nil(t, h.Doc.QuerySelector("el-ghost"))
}

func TestNewClonesTemplateBeforeRender(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	g, err := New[*greeter](h.Registry, typ, Options{})
	require.NoError(t, err)

	assert.Equal(t, `<p class="name"></p><button>Go</button>`, g.Root().InnerHTML())
	assert.Equal(t, 0, g.renders)
	assert.False(t, g.IsConnected())
	assert.Equal(t, "el-greeter", g.TagName())
	assert.Same(t, typ, g.Type())
}

func TestNewWrongElementType(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	_, err := New[*counter](h.Registry, typ, Options{})
	assert.Error(t, err)
}

func TestComponentID(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		opts   Options
		want   string
	}{
		{"attribute wins", `<el-greeter id="attr"></el-greeter>`, Options{ID: MustID("opt")}, "attr"},
		{"option", `<el-greeter></el-greeter>`, Options{ID: MustID("opt")}, "opt"},
		{"undefined attribute", `<el-greeter id="undefined"></el-greeter>`, Options{}, ""},
		{"random", `<el-greeter></el-greeter>`, Options{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHost()
			typ := registerGreeter(h)

			c, err := newComponent(h.Registry, typ, mustParseElement(t, h.Doc, tt.markup), tt.opts)
			require.NoError(t, err)

			if tt.want != "" {
				assert.Equal(t, tt.want, c.ID())
			} else {
				_, err := NewID(c.ID())
				assert.NoError(t, err)
				assert.NotEqual(t, "undefined", c.ID())
			}
			assert.Equal(t, c.ID(), c.Element().ID())
		})
	}
}

func mustParseElement(t *testing.T, doc *dom.Document, markup string) *dom.Node {
	t.Helper()
	frag, err := doc.ParseFragment(markup)
	require.NoError(t, err)
	el := frag.FirstChild()
	require.NotNil(t, el)
	return el
}

func TestDocumentRoot(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	g, err := New[*greeter](h.Registry, typ, Options{})
	require.NoError(t, err)
	root := g.Root()
	assert.Equal(t, dom.ShadowRootNode, root.Type)
	assert.Equal(t, dom.ShadowOpen, root.Mode())
	assert.True(t, root.DelegatesFocus())

	noFocus := false
	closed, err := New[*greeter](h.Registry, typ, Options{Mode: dom.ShadowClosed, DelegatesFocus: &noFocus})
	require.NoError(t, err)
	assert.Equal(t, dom.ShadowClosed, closed.Root().Mode())
	assert.False(t, closed.Root().DelegatesFocus())
	assert.Nil(t, closed.Element().ShadowRoot(), "closed roots are hidden from the host")

	light, err := New[*greeter](h.Registry, typ, Options{NoShadow: true})
	require.NoError(t, err)
	assert.Same(t, light.Element(), light.Root())
	assert.NotNil(t, light.Element().QuerySelector(".name"))
}

func TestDeclarativeShadowRootReplaced(t *testing.T) {
	h := NewTestHost()
	frag, err := h.Doc.ParseFragment(`<el-greeter name="Bo"><template shadowrootmode="open"><p>stale</p></template></el-greeter>`)
	require.NoError(t, err)
	h.Doc.Body().AppendChild(frag)

	registerGreeter(h)

	g, ok := From[*greeter](h.Doc.QuerySelector("el-greeter"))
	require.True(t, ok)
	assert.Equal(t, `<p class="name">Hello Bo</p><button>Go</button>`, g.Root().InnerHTML())
}

func TestConnectRenders(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	g, err := New[*greeter](h.Registry, typ, Options{})
	require.NoError(t, err)
	g.Element().SetAttribute("name", "Ann")
	assert.Equal(t, 0, g.renders, "disconnected components do not render")
	assert.Equal(t, "Ann", g.StringProp("name"))

	h.Doc.Body().AppendChild(g.Element())
	assert.Equal(t, 1, g.renders)
	assert.Equal(t, 1, g.connects)
	assert.Equal(t, "Hello Ann", g.Query(".name").TextContent())

	g.Element().SetAttribute("name", "Bea")
	assert.Equal(t, 2, g.renders)
	assert.Equal(t, "Hello Bea", g.Query(".name").TextContent())
}

func TestAttributeParsing(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)
	g, err := Mount[*greeter](h, typ, Options{})
	require.NoError(t, err)

	g.Element().SetAttribute("count", "7")
	assert.Equal(t, 7, g.IntProp("count"))

	g.Element().SetAttribute("count", "")
	assert.Equal(t, 0, g.IntProp("count"))

	renders := g.renders
	g.Element().SetAttribute("count", "seven")
	require.Len(t, h.Doc.Errors(), 1)
	assert.ErrorIs(t, h.Doc.Errors()[0], strconv.ErrSyntax)
	assert.Equal(t, renders, g.renders, "a parse error skips the render")
	assert.Equal(t, 0, g.IntProp("count"))
}

func TestAttributeRemovalSkipped(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)
	g, err := Mount[*greeter](h, typ, Options{})
	require.NoError(t, err)

	g.Element().SetAttribute("name", "Ann")
	renders := g.renders
	g.Element().RemoveAttribute("name")

	assert.Equal(t, renders, g.renders)
	assert.Equal(t, "Ann", g.StringProp("name"))
}

func TestAttributeParsers(t *testing.T) {
	tests := []struct {
		attr Attribute
		raw  string
		want any
	}{
		{StringAttr("s"), "text", "text"},
		{IntAttr("i"), " 42 ", 42},
		{FloatAttr("f"), "1.5", 1.5},
		{FloatAttr("f"), "", 0.0},
		{BoolAttr("b"), "true", true},
		{BoolAttr("b"), "", false},
		{CustomAttr("c", func(raw string) (any, error) { return len(raw), nil }), "abc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.attr.Name+"="+tt.raw, func(t *testing.T) {
			got, err := tt.attr.parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := BoolAttr("b").parse("maybe")
	assert.Error(t, err)
}

func TestUnobservedAttributesBecomeProps(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	c, err := newComponent(h.Registry, typ, mustParseElement(t, h.Doc, `<el-greeter data-x="1"></el-greeter>`), Options{})
	require.NoError(t, err)
	assert.Equal(t, "1", c.Prop("data-x"))
	_, declared := c.props["name"]
	assert.True(t, declared)
	assert.Nil(t, c.Prop("name"))
}

func TestDisconnectRemovesListeners(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h, Listen("click", "OnClick"))
	g, err := Mount[*greeter](h, typ, Options{
		EventHandlers: []EventListener{{Name: "ping", HandlerName: "OnClick", IsCustomEvent: true}},
	})
	require.NoError(t, err)
	require.NoError(t, g.RegisterEventListeners(EventListener{Name: "extra", HandlerName: "OnClick"}))
	assert.Equal(t, 3, g.Events().Len())

	g.Element().Remove()
	assert.Equal(t, 0, g.Events().Len())
	g.Element().DispatchEvent(click())
	assert.Equal(t, 0, g.clicks)

	h.Doc.Body().AppendChild(g.Element())
	assert.Equal(t, 2, g.Events().Len(), "declared listeners return, explicit ones do not")
	assert.True(t, HasListener(g, "ping", "OnClick"))
	assert.False(t, HasListener(g, "extra", "OnClick"))
	g.Element().DispatchEvent(click())
	assert.Equal(t, 1, g.clicks)
	assert.Equal(t, 2, g.connects)
}

func TestAdoptedCallback(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)
	g, err := Mount[*greeter](h, typ, Options{})
	require.NoError(t, err)

	other := dom.NewDocument()
	other.Body().AppendChild(g.Element())
	assert.NoError(t, h.Doc.Err())
	assert.NoError(t, other.Err())
}

func TestNonStatefulIgnoresInitialState(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	g, err := New[*greeter](h.Registry, typ, Options{State: counterState{Count: 1}})
	require.NoError(t, err)
	assert.False(t, g.Element().HasAttribute(StateAttribute))
}

func TestMissingObservedAttributesSetEmpty(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)

	g, err := New[*greeter](h.Registry, typ, Options{})
	require.NoError(t, err)
	for _, name := range []string{"name", "count"} {
		v, ok := g.Element().GetAttribute(name)
		assert.True(t, ok, name)
		assert.Equal(t, "", v, name)
		assert.Nil(t, g.Prop(name), name)
	}

	h.Doc.Body().AppendChild(g.Element())
	assert.NoError(t, h.Doc.Err())

	kept, err := newComponent(h.Registry, typ, mustParseElement(t, h.Doc, `<el-greeter name="Ann"></el-greeter>`), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Ann", kept.Element().Attribute("name"))
}

func TestStateAttributeNotDefaulted(t *testing.T) {
	h := NewTestHost()
	typ := registerCounter(h, counterSchema)

	c, err := New[*counter](h.Registry, typ, Options{})
	require.NoError(t, err)
	assert.False(t, c.Element().HasAttribute(StateAttribute))
}

func TestFailedUpgradeLeavesElementUntouched(t *testing.T) {
	h := NewTestHost()
	registerGreeter(h, Listen("click", "Missing"))

	require.NoError(t, h.Doc.Body().SetInnerHTML(`<el-greeter id="kept"></el-greeter>`))
	assert.ErrorIs(t, h.Doc.Err(), ErrHandlerNotDefined)

	el := h.Doc.QuerySelector("el-greeter")
	require.NotNil(t, el)
	assert.Nil(t, el.ShadowRoot())
	assert.Equal(t, "kept", el.Attribute("id"))
	assert.False(t, el.HasAttribute("name"))
	_, ok := From[*greeter](el)
	assert.False(t, ok)
}

func TestFailedUpgradeRemovesGeneratedID(t *testing.T) {
	h := NewTestHost()
	registerGreeter(h, Listen("click", "Missing"))

	require.NoError(t, h.Doc.Body().SetInnerHTML(`<el-greeter></el-greeter>`))
	el := h.Doc.QuerySelector("el-greeter")
	require.NotNil(t, el)
	assert.False(t, el.HasAttribute("id"))
	assert.Nil(t, el.ShadowRoot())
}

func TestRejectedListenersNotRestored(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)
	g, err := New[*greeter](h.Registry, typ, Options{})
	require.NoError(t, err)

	err = g.RegisterEventListeners(
		EventListener{Name: "ping", HandlerName: "OnClick", IsCustomEvent: true},
		EventListener{Name: "click", HandlerName: "Missing"},
	)
	assert.ErrorIs(t, err, ErrHandlerNotDefined)
	assert.Equal(t, 0, g.Events().Len(), "a rejected batch subscribes nothing")

	h.Doc.Body().AppendChild(g.Element())
	assert.NoError(t, h.Doc.Err())
	assert.Equal(t, 1, g.renders)
}

func TestPendingListenersDeduplicated(t *testing.T) {
	h := NewTestHost()
	typ := registerGreeter(h)
	g, err := New[*greeter](h.Registry, typ, Options{})
	require.NoError(t, err)

	l := EventListener{Name: "ping", HandlerName: "OnClick", IsCustomEvent: true}
	for i := 0; i < 3; i++ {
		require.NoError(t, g.RegisterEventListeners(l))
	}
	assert.Len(t, g.pending, 1)

	h.Doc.Body().AppendChild(g.Element())
	assert.True(t, HasListener(g, "ping", "OnClick"))
	assert.Equal(t, 1, g.Events().Len())
}
