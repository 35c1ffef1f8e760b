// Package render turns a screen description into the terminal-style HTML page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.tmpl templates/title.txt
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Screen is everything a page shows. The first Table row is the header.
type Screen struct {
	Lang      string
	Lines     []string
	Table     [][]string
	InputID   string
	Label     string
	CSRFToken string
}

type page struct {
	Screen
	Title []string
}

// Renderer executes the screen template
type Renderer struct {
	tmpl  *template.Template
	title []string
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	title, err := fs.ReadFile(templateFS, "templates/title.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read title: %w", err)
	}
	return &Renderer{
		tmpl:  tmpl,
		title: strings.Split(strings.TrimRight(string(title), "\n"), "\n"),
	}, nil
}

// Render writes the screen with the given status. Nothing is written if the
// template fails, so the caller can still send an error response.
func (r *Renderer) Render(w http.ResponseWriter, status int, s Screen) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "screen", page{Screen: s, Title: r.title}); err != nil {
		return fmt.Errorf("failed to render screen %s: %w", s.InputID, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static returns the stylesheet directory for the /static/ route
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
