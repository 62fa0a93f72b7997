package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"locallibrary/internal/httpx"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a view name and its payload into a response.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) error
}

// HTMLRenderer executes the embedded page templates. Every view is parsed
// together with the shared layout.
type HTMLRenderer struct {
	views map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	// Stored text was escaped when it was written.
	"safe": func(s string) template.HTML { return template.HTML(s) },
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	views := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		views[name] = t
	}
	return &HTMLRenderer{views: views}, nil
}

func (h *HTMLRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) error {
	t, ok := h.views[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// JSONRenderer writes the payload in the success envelope with the view
// name in meta.
type JSONRenderer struct{}

func (JSONRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) error {
	httpx.JSONSuccessWithRequest(r, w, status, data, map[string]interface{}{"view": view})
	return nil
}

// NegotiatingRenderer picks JSON for clients that accept it and HTML
// otherwise.
type NegotiatingRenderer struct {
	HTML Renderer
	JSON Renderer
}

func (n NegotiatingRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data any) error {
	if httpx.WantsJSON(r) {
		return n.JSON.Render(w, r, status, view, data)
	}
	return n.HTML.Render(w, r, status, view, data)
}
