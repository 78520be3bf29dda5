// Package changelog renders release notes written in Markdown.
//
// Rendering is total: any string input produces output, and markup the parser
// cannot make sense of comes out as literal text.
package changelog

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// markdown is shared by both renderers: GFM tables, fenced code, and soft
// line breaks kept as breaks.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// HTML converts Markdown into an HTML fragment.
func HTML(source string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = literalHTML(source)
		}
	}()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return literalHTML(source)
	}
	return buf.String()
}

func literalHTML(source string) string {
	return "<pre>" + html.EscapeString(source) + "</pre>\n"
}
