package main

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
	goldmark.WithExtensions(extension.GFM, extension.Footnote))

func convertMarkdown(source []byte) (string, error) {
	var buf strings.Builder
	if err := md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// converters turns expanded page bodies into HTML, keyed by content file extension.
var converters = map[string]func(source []byte) (string, error){
	".md":   convertMarkdown,
	".dj":   convertDjot,
	".html": func(source []byte) (string, error) { return string(source), nil },
}
