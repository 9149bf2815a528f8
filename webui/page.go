package webui

import (
	"embed"
	"html/template"
	"io"
)

const (
	DefaultDescription = "No description provided"
	DefaultCategory    = "No category provided"
)

var (
	//go:embed tmpl/*.html
	tmplFS embed.FS

	pageTmpl *template.Template
)

func init() {
	pageTmpl = template.Must(template.ParseFS(tmplFS, "tmpl/page.html"))
}

// Page is the data the page template is executed with.
type Page struct {
	Description string
	Category    string
	Fragments   []Fragment
}

// NewPage looks up the fragments for category.
func NewPage(description, category string) *Page {
	return &Page{
		Description: description,
		Category:    category,
		Fragments:   Fragments(category),
	}
}

// Render writes the full HTML document for description and category to w.
// The description is HTML escaped.
func Render(w io.Writer, description, category string) error {
	return pageTmpl.Execute(w, NewPage(description, category))
}
