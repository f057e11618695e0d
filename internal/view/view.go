// Package view renders the server-side HTML pages and serves their static assets.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/google/uuid"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageHome     = "home"
	PageRegister = "register"
	PageLogin    = "login"
	PageSecrets  = "secrets"
	PageSubmit   = "submit"
)

var pages = []string{PageHome, PageRegister, PageLogin, PageSecrets, PageSubmit}

// Secret is a secret shown on the public list. It never carries the author's name.
type Secret struct {
	ID   uuid.UUID
	Text string
}

// Data is passed to every page template.
type Data struct {
	Authenticated bool
	Username      string
	Flash         string
	Secrets       []Secret
}

// Renderer holds the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}

	for _, name := range pages {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.templates[name] = t
	}

	return r, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data Data) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// StaticHandler serves the embedded stylesheet and other assets.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
