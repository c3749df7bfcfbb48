// Package markdown converts stored post bodies from Markdown to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is shared by all conversions; goldmark.Markdown is safe for concurrent
// use and the configuration never changes after init.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Post bodies are authored by trusted site owners and may embed raw HTML.
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ToHTML renders src as HTML. Conversion is deterministic: identical input
// yields identical output.
func ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
