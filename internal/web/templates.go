package web

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFiles embed.FS

// page is parsed once; a syntax error fails at startup.
var page = template.Must(template.ParseFS(templateFiles, "templates/page.html"))

// markdown renders answers. Raw HTML in the input is omitted from the output.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type pageData struct {
	Name   string
	Answer template.HTML
	Err    string
}

// renderMarkdown converts a model answer to HTML.
func renderMarkdown(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
