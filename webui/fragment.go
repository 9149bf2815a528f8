package webui

import (
	"fmt"
	"html/template"
)

// Kind is the type of UI control a Fragment renders.
type Kind int

const (
	Title Kind = iota
	Button
	Toggle
	Slider
	Dropdown
	Scroll
	Paragraph
)

func (k Kind) String() string {
	switch k {
	case Title:
		return "text-title"
	case Button:
		return "button"
	case Toggle:
		return "toggle"
	case Slider:
		return "slider"
	case Dropdown:
		return "dropdown"
	case Scroll:
		return "scroll"
	case Paragraph:
		return "text-paragraph"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fragment is a pre-authored HTML snippet for one UI control. Content is
// trusted markup from the static table, it is not escaped.
type Fragment struct {
	Kind    Kind
	Content string
}

// HTML renders the fragment inside a div carrying the CSS class of its kind.
func (f Fragment) HTML() template.HTML {
	var inner string
	switch f.Kind {
	case Dropdown:
		inner = "<select>" + f.Content + "</select>"
	case Slider:
		inner = `<input type="range" min="1" max="100" value="50">` + f.Content
	case Toggle:
		inner = `<label><input type="checkbox">` + f.Content + "</label>"
	default:
		inner = f.Content
	}

	return template.HTML(`<div class="` + f.Kind.String() + `">` + inner + `</div>`)
}
