package main

import (
	"github.com/sivukhin/godjot/v2/djot_html"
	"github.com/sivukhin/godjot/v2/djot_parser"
)

// convertDjot renders Djot source. image_from_cdn output is valid Djot image syntax.
func convertDjot(source []byte) (string, error) {
	ast := djot_parser.BuildDjotAst(source)
	return djot_html.New().ConvertDjot(&djot_html.HtmlWriter{}, ast...).String(), nil
}
