// Package render turns a template name and its context into a response body
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

var ErrTemplateNotFound = errors.New("template not found")

type Context map[string]any

type Renderer interface {
	Render(name string, ctx Context) (contentType string, body []byte, err error)
}

// JSONRenderer writes the context as a JSON object, "template" holds the template name
type JSONRenderer struct{}

func (JSONRenderer) Render(name string, ctx Context) (string, []byte, error) {
	out := make(map[string]any, len(ctx)+1)
	for k, v := range ctx {
		out[k] = v
	}
	out["template"] = name
	body, err := json.Marshal(out)
	if err != nil {
		return "", nil, fmt.Errorf("render %s: %w", name, err)
	}
	return ContentTypeJSON, body, nil
}

type HTMLRenderer struct {
	templates *template.Template
}

// NewHTMLRenderer parses all files matching glob. A template is looked up by its
// full name first ({{define "posts/index.html"}}), then by the file base name.
func NewHTMLRenderer(glob string) (*HTMLRenderer, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseGlob(glob)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{templates: t}, nil
}

func (h *HTMLRenderer) Render(name string, ctx Context) (string, []byte, error) {
	t := h.templates.Lookup(name)
	if t == nil {
		t = h.templates.Lookup(path.Base(name))
	}
	if t == nil {
		return "", nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	buf := bytes.Buffer{}
	if err := t.Execute(&buf, ctx); err != nil {
		return "", nil, fmt.Errorf("render %s: %w", name, err)
	}
	return ContentTypeHTML, buf.Bytes(), nil
}

var templateFuncs = template.FuncMap{
	"pages": func(n int) []int {
		r := make([]int, n)
		for i := range r {
			r[i] = i + 1
		}
		return r
	},
}
