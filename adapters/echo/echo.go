// Package elementalecho provides Echo framework integration for elemental
// pages.
//
// Serve a page on an Echo instance or group:
//
//	e := echo.New()
//	elementalecho.Mount(e, func(reg *elemental.Registry) error {
//	    if err := demo.Register(reg); err != nil {
//	        return err
//	    }
//	    return demo.Populate(reg)
//	})
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	elementalecho.MountGroup(g, build)
package elementalecho

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/elemental"
	"github.com/pthm/elemental/dom"
	"go.uber.org/zap"
)

// BuildFunc registers components with reg and fills its document.
type BuildFunc func(reg *elemental.Registry) error

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	key     []byte
	path    string
	prefix  elemental.Prefix
	log     *zap.Logger
	metrics *elemental.Metrics
	docOpts []dom.DocumentOption
}

// WithKey signs serialized component state with key. The key must be at
// least 32 bytes. Without a key state is encoded unsigned.
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL path of the page. Defaults to "/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithPrefix sets the default tag name prefix of every page registry.
func WithPrefix(p elemental.Prefix) Option {
	return func(o *options) {
		o.prefix = p
	}
}

// WithLogger sets the logger handed to every page registry.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithMetrics records registrations, listeners and renders of every page.
func WithMetrics(m *elemental.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithDocumentOptions configures the document built for each request.
func WithDocumentOptions(opts ...dom.DocumentOption) Option {
	return func(o *options) {
		o.docOpts = append(o.docOpts, opts...)
	}
}

// Mount serves the page built by build on an Echo instance.
//
//	e := echo.New()
//	elementalecho.Mount(e, build, elementalecho.WithPath("/demo"))
func Mount(e *echo.Echo, build BuildFunc, opts ...Option) {
	o := newOptions(opts)
	e.GET(o.path, handler(build, o))
}

// MountGroup serves the page on an Echo group, so it shares the group's
// middleware (auth, logging, etc.).
//
//	g := e.Group("/app", authMiddleware)
//	elementalecho.MountGroup(g, build)
func MountGroup(g *echo.Group, build BuildFunc, opts ...Option) {
	o := newOptions(opts)
	g.GET(o.path, handler(build, o))
}

// Handler returns an Echo handler that builds a fresh document per request
// and renders it.
func Handler(build BuildFunc, opts ...Option) echo.HandlerFunc {
	return handler(build, newOptions(opts))
}

func newOptions(opts []Option) *options {
	o := &options{path: "/", log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.key != nil && len(o.key) < 32 {
		panic(fmt.Sprintf("elementalecho: key must be at least 32 bytes, got %d", len(o.key)))
	}
	return o
}

func handler(build BuildFunc, o *options) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := o.page(build)
		if err != nil {
			o.log.Error("build page", zap.String("path", c.Path()), zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
		}
		return Render(c, elemental.Page(doc))
	}
}

func (o *options) page(build BuildFunc) (*dom.Document, error) {
	doc := dom.NewDocument(o.docOpts...)
	regOpts := []elemental.RegistryOption{
		elemental.WithLogger(o.log),
		elemental.WithMetrics(o.metrics),
		elemental.WithDefaultPrefix(o.prefix),
	}
	if o.key != nil {
		codec, err := elemental.NewSignedCodec(o.key)
		if err != nil {
			return nil, err
		}
		regOpts = append(regOpts, elemental.WithCodec(codec))
	}
	if err := build(elemental.NewRegistry(doc, regOpts...)); err != nil {
		return nil, err
	}
	return doc, doc.Err()
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return elementalecho.Render(c, elemental.Markup(node))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
