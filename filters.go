package main

import (
	"fmt"
	"strings"
	"text/template"
)

// DefaultImageAlt is used when a template omits the alt argument of image_from_cdn.
const DefaultImageAlt = "Image"

// ImageLinkBuilder turns a path relative to a CDN base URL into a Markdown image tag.
// Neither the path nor the alt text is escaped.
type ImageLinkBuilder struct {
	BaseUrl string
}

// NewImageLinkBuilder returns a builder for assets under baseUrl, which is used verbatim.
func NewImageLinkBuilder(baseUrl string) *ImageLinkBuilder {
	return &ImageLinkBuilder{BaseUrl: baseUrl}
}

// URL returns BaseUrl + path.
func (b *ImageLinkBuilder) URL(path string) string {
	return b.BaseUrl + path
}

// Link returns exactly "![" + alt + "](" + BaseUrl + path + ")".
func (b *ImageLinkBuilder) Link(path string, alt string) string {
	return "![" + alt + "](" + b.URL(path) + ")"
}

// Filter is the template-facing variant of Link: alt is optional.
func (b *ImageLinkBuilder) Filter(path string, alt ...string) (string, error) {
	switch len(alt) {
	case 0:
		return b.Link(path, DefaultImageAlt), nil
	case 1:
		return b.Link(path, alt[0]), nil
	default:
		return "", fmt.Errorf("image_from_cdn: expected at most 2 arguments, got %d", len(alt)+1)
	}
}

// Filters maps template function names to implementations.
type Filters map[string]any

// newFilters returns the filters available to page content.
// If onImage is non-nil it receives the URL of every image link produced.
func newFilters(images *ImageLinkBuilder, onImage func(url string)) Filters {
	return Filters{
		"image_from_cdn": func(path string, alt ...string) (string, error) {
			link, err := images.Filter(path, alt...)
			if err == nil && onImage != nil {
				onImage(images.URL(path))
			}
			return link, err
		},
	}
}

// expandFilters executes page source as a text template so filter calls
// like {{ image_from_cdn "cats/cat1.png" }} are replaced before conversion.
// Pages have no template data: any field reference such as {{ .Title }} is an error.
func expandFilters(name string, source []byte, filters Filters) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(template.FuncMap(filters)).
		Parse(string(source))
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}
