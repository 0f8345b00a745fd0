// Package views holds the page templates and static assets of the site.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"folio/app/render"
)

//go:embed *.html static
var files embed.FS

// Page templates, each rendered inside the layout.
const (
	Home     = "home"
	Post     = "post"
	Page     = "page"
	Admin    = "admin"
	NotFound = "not_found"
)

// Files returns the embedded templates and assets.
func Files() fs.FS {
	return files
}

// Static returns the assets served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"richtext": render.HTML,
		"date": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
	}
}

// Load parses every page template together with the layout from fsys.
func Load(fsys fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{Home, Post, Page, Admin, NotFound} {
		t, err := template.New(name).Funcs(Funcs()).ParseFS(fsys, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// Templates parses the embedded templates.
func Templates() (map[string]*template.Template, error) {
	return Load(files)
}
