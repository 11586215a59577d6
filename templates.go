package elemental

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/pthm/elemental/dom"
	"go.uber.org/zap"
)

// TemplateController stores the templates and style sheets of registered
// types and resolves which template a constructing component clones.
type TemplateController struct {
	reg *Registry
	log *zap.Logger

	mu     sync.RWMutex
	owners map[string]*dom.Node         // type name -> template element
	byTag  map[string]*dom.Node         // tag name -> template element
	styles map[string][]*dom.StyleSheet // type name -> adopted sheets
	sheets map[string]*dom.StyleSheet   // content hash -> shared sheet
}

func newTemplateController(reg *Registry) *TemplateController {
	return &TemplateController{
		reg:    reg,
		log:    reg.log.Named("template"),
		owners: make(map[string]*dom.Node),
		byTag:  make(map[string]*dom.Node),
		styles: make(map[string][]*dom.StyleSheet),
		sheets: make(map[string]*dom.StyleSheet),
	}
}

// Register parses the type's template, attaches its styles and inserts the
// template element, identified by tag, at the start of the document body.
func (tc *TemplateController) Register(t *Type, tag string, o registerOptions) error {
	doc := tc.reg.doc

	var html string
	if o.templateID != "" {
		src := doc.GetElementByID(o.templateID)
		if src == nil {
			return fmt.Errorf("%w: #%s", ErrTemplateNotFound, o.templateID)
		}
		html = src.InnerHTML()
		if strings.TrimSpace(html) == "" {
			return fmt.Errorf("%w: #%s has no content", ErrTemplateNotFound, o.templateID)
		}
	} else {
		if tc.IsRegisteredByTagName(tag) || doc.GetElementByID(tag) != nil {
			return fmt.Errorf("%w: <%s>", ErrTemplateAlreadyRegistered, tag)
		}
		html = o.template
	}
	if strings.TrimSpace(html) == "" {
		return fmt.Errorf("%w: <%s>", ErrTemplateEmpty, tag)
	}

	tmpl := doc.MustCreateElement("template")
	if err := tmpl.SetInnerHTML(html); err != nil {
		return fmt.Errorf("elemental: template for <%s>: %w", tag, err)
	}
	tmpl.SetID(tag)

	if len(o.styles) > 0 {
		if doc.SupportsAdoptedStyleSheets() {
			tc.RegisterStyles(t, o.styles)
		} else {
			inlineStyles(doc, tmpl.Content(), o.styles)
		}
	}

	tc.mu.Lock()
	tc.owners[t.name] = tmpl
	tc.byTag[tag] = tmpl
	tc.mu.Unlock()

	doc.Body().PrependChild(tmpl)
	tc.log.Debug("template registered",
		zap.String("name", t.name),
		zap.String("tag", tag),
		zap.String("template_id", o.templateID),
		zap.Int("styles", len(o.styles)),
	)
	return nil
}

// unregister drops the template and styles of t and removes the template
// element stored under tag from the document.
func (tc *TemplateController) unregister(t *Type, tag string) {
	tc.mu.Lock()
	tmpl := tc.byTag[tag]
	if tc.owners[t.name] == tmpl {
		delete(tc.owners, t.name)
	}
	delete(tc.byTag, tag)
	delete(tc.styles, t.name)
	tc.mu.Unlock()

	if tmpl != nil {
		tmpl.Remove()
		tc.log.Debug("template unregistered", zap.String("name", t.name), zap.String("tag", tag))
	}
}

// inlineStyles writes css into the first <style> of content, creating it
// when missing.
func inlineStyles(doc *dom.Document, content *dom.Node, css []string) {
	text := strings.Join(css, "\n")
	if style := content.QuerySelector("style"); style != nil {
		style.SetTextContent(style.TextContent() + "\n" + text)
		return
	}
	style := doc.MustCreateElement("style")
	style.SetTextContent(text)
	content.PrependChild(style)
}

// RegisterStyles associates css with t as shared adoptable sheets. Identical
// css reuses the same sheet across types. On hosts without adoptable sheets
// the styles are dropped.
func (tc *TemplateController) RegisterStyles(t *Type, css []string) {
	if !tc.reg.doc.SupportsAdoptedStyleSheets() {
		tc.log.Debug("adopted style sheets unsupported, styles dropped", zap.String("name", t.name))
		return
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for _, c := range css {
		sum := sha256.Sum256([]byte(c))
		key := hex.EncodeToString(sum[:])
		sheet, ok := tc.sheets[key]
		if !ok {
			sheet = dom.NewStyleSheet(c)
			tc.sheets[key] = sheet
		}
		tc.styles[t.name] = append(tc.styles[t.name], sheet)
	}
}

// Styles returns the adoptable sheets of t, or of its parent when t has
// none of its own.
func (tc *TemplateController) Styles(t *Type) []*dom.StyleSheet {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	if s, ok := tc.styles[t.name]; ok {
		return s
	}
	if t.parent != nil {
		return tc.styles[t.parent.name]
	}
	return nil
}

// SheetCount returns the number of distinct cached sheets.
func (tc *TemplateController) SheetCount() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.sheets)
}

// IsRegistered reports whether t registered a template.
func (tc *TemplateController) IsRegistered(t *Type) bool {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	_, ok := tc.owners[t.name]
	return ok
}

// IsRegisteredByTagName reports whether a template is stored under tag.
func (tc *TemplateController) IsRegisteredByTagName(tag string) bool {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	_, ok := tc.byTag[tag]
	return ok
}

// Find resolves the template a component of type t clones. In order: the
// element identified by templateID, t's own registered template, its
// parent's registered template, a document element whose id is t's tag.
// A nil node without error means the component has no template.
func (tc *TemplateController) Find(t *Type, templateID string) (*dom.Node, error) {
	doc := tc.reg.doc
	if templateID != "" {
		el := doc.GetElementByID(templateID)
		if el == nil {
			return nil, fmt.Errorf("%w: #%s", ErrTemplateNotFound, templateID)
		}
		return el, nil
	}

	tc.mu.RLock()
	own, ok := tc.owners[t.name]
	var inherited *dom.Node
	if !ok && t.parent != nil {
		inherited = tc.owners[t.parent.name]
	}
	tc.mu.RUnlock()

	switch {
	case own != nil:
		return own, nil
	case inherited != nil:
		return inherited, nil
	}
	return doc.GetElementByID(tc.reg.TagName(t, Prefix{})), nil
}
