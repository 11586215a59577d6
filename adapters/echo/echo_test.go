package elementalecho

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pthm/elemental"
	"github.com/pthm/elemental/dom"
)

type note struct {
	*elemental.Component
}

func (n *note) Render() error {
	if p := n.Query("p"); p != nil {
		p.SetTextContent("note: " + n.StringProp("text"))
	}
	return nil
}

var noteType = elemental.Define("Note", func(c *elemental.Component) *note {
	return &note{Component: c}
}, elemental.Attributes(elemental.StringAttr("text")))

func buildNote(reg *elemental.Registry) error {
	if err := reg.Register(noteType, elemental.WithTemplate(`<p></p>`), elemental.WithStyles(`p { margin: 0; }`)); err != nil {
		return err
	}
	n, err := elemental.New[*note](reg, noteType, elemental.Options{})
	if err != nil {
		return err
	}
	n.Element().SetAttribute("text", "hello")
	reg.Document().Body().AppendChild(n.Element())
	return nil
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMount(t *testing.T) {
	e := echo.New()
	Mount(e, buildNote)

	rec := get(e, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "<el-note", `shadowrootmode="open"`, "note: hello"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestMountFreshDocumentPerRequest(t *testing.T) {
	e := echo.New()
	Mount(e, buildNote)

	for i := 0; i < 2; i++ {
		if rec := get(e, "/"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}
}

func TestMountWithPathAndPrefix(t *testing.T) {
	e := echo.New()
	Mount(e, buildNote, WithPath("/page"), WithPrefix(elemental.MustPrefix("app")))

	rec := get(e, "/page")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "<app-note") {
		t.Errorf("body missing <app-note:\n%s", rec.Body.String())
	}
	if rec := get(e, "/"); rec.Code != http.StatusNotFound {
		t.Errorf("status of / = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	var hits int
	g := e.Group("/app", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hits++
			return next(c)
		}
	})
	MountGroup(g, buildNote)

	if rec := get(e, "/app/"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if hits != 1 {
		t.Errorf("group middleware hits = %d, want 1", hits)
	}
}

func TestMountWithoutAdoptedStyleSheets(t *testing.T) {
	e := echo.New()
	Mount(e, buildNote, WithDocumentOptions(dom.WithoutAdoptedStyleSheets()))

	body := get(e, "/").Body.String()
	if !strings.Contains(body, "<style>p { margin: 0; }</style>") {
		t.Errorf("styles not inlined:\n%s", body)
	}
}

func TestBuildError(t *testing.T) {
	e := echo.New()
	Mount(e, func(*elemental.Registry) error { return errors.New("boom") })

	if rec := get(e, "/"); rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestWithKey(t *testing.T) {
	e := echo.New()
	Mount(e, buildNote, WithKey(make([]byte, 32)))

	if rec := get(e, "/"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a short key")
		}
	}()
	Mount(echo.New(), buildNote, WithKey([]byte("short")))
}

func TestWithMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := elemental.NewMetrics(promReg)
	e := echo.New()
	e.GET("/", Handler(buildNote, WithMetrics(m)))

	get(e, "/")
	get(e, "/")

	n, err := testutil.GatherAndCount(promReg, "elemental_components_registered_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
}
