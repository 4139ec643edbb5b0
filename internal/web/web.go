// Package web holds the embedded HTML templates and the gin renderer that
// wraps every page in the shared layout.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"time"

	"github.com/gin-gonic/gin/render"

	"finance/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile = "templates/layout.html"
	layoutName = "layout"
)

// FuncMap holds the helpers available in every template.
var FuncMap = template.FuncMap{
	"usd": money.Format,
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05")
	},
}

// Renderer implements gin's render.HTMLRender with one template set per
// page, each page sharing the layout.
type Renderer struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New(path.Base(layoutFile)).Funcs(FuncMap).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		if page == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.templates[path.Base(page)] = t
	}
	return r, nil
}

// MustNewRenderer is like NewRenderer but panics on error. The templates are
// embedded, so an error here is a build defect.
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Instance returns the render for the named page, e.g. "quote.html".
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.templates[name]
	if !ok {
		panic(fmt.Sprintf("web: unknown template %q", name))
	}
	return render.HTML{Template: t, Name: layoutName, Data: data}
}

// Pages lists the names of the parsed pages.
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}
