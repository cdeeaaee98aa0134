package render

import "github.com/gaurav-prasanna/penpipe/core"

// Editor is one of the three code panes of a pen.
type Editor struct {
	Name         string
	PreProcessor string
	Code         string
	base         string
}

// Language is the fence language: the preprocessor when one is set,
// otherwise the pane's base language.
func (e Editor) Language() string {
	if e.PreProcessor == "" || e.PreProcessor == "none" {
		return e.base
	}
	return e.PreProcessor
}

// Editors returns the non-empty panes of pen in HTML, CSS, JS order.
func Editors(pen *core.Pen) []Editor {
	all := []Editor{
		{Name: "HTML", PreProcessor: pen.HTMLPreProcessor, Code: pen.HTML, base: "html"},
		{Name: "CSS", PreProcessor: pen.CSSPreProcessor, Code: pen.CSS, base: "css"},
		{Name: "JS", PreProcessor: pen.JSPreProcessor, Code: pen.JS, base: "js"},
	}
	editors := all[:0]
	for _, e := range all {
		if e.Code != "" {
			editors = append(editors, e)
		}
	}
	return editors
}
