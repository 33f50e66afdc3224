package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates static
var assets embed.FS

// Renderer executes the embedded page and fragment templates.
//
// Fragments are the unit of exchange with the browser: htmx swaps the
// rendered HTML into the page shell, so every handler response is one
// of the templates below.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates. A malformed template set
// fails here, at startup, rather than on the first request.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Index renders the full page shell with the device list inlined.
func (r *Renderer) Index(w io.Writer, data IndexData) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", data)
}

// DeviceList renders the device list fragment.
func (r *Renderer) DeviceList(w io.Writer, data ListData) error {
	return r.tmpl.ExecuteTemplate(w, "device_list.html", data)
}

// DeviceDetail renders the device detail fragment.
func (r *Renderer) DeviceDetail(w io.Writer, data DetailData) error {
	return r.tmpl.ExecuteTemplate(w, "device_detail.html", data)
}

// StaticHandler returns an http.Handler serving the embedded static
// assets. Mount it with the route prefix stripped.
// Panics if the embedded assets cannot be loaded (build error).
func StaticHandler() http.Handler {
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		panic(fmt.Sprintf("web: failed to load embedded static assets: %v", err))
	}
	return http.FileServer(http.FS(staticFS))
}
