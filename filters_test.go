package main

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCdnUrl = "https://cdn.example.com/blog/"

func TestImageLinkBuilderFilter(t *testing.T) {
	b := NewImageLinkBuilder(testCdnUrl)

	tests := []struct {
		name     string
		path     string
		alt      []string
		expected string
	}{
		{"default alt", "cats/cat1.png", nil, "![Image](https://cdn.example.com/blog/cats/cat1.png)"},
		{"custom alt", "cats/cat1.png", []string{"A sleepy cat"}, "![A sleepy cat](https://cdn.example.com/blog/cats/cat1.png)"},
		{"empty path", "", nil, "![Image](https://cdn.example.com/blog/)"},
		{"no escaping", "a b.png", []string{""}, "![](https://cdn.example.com/blog/a b.png)"},
		{"markdown characters kept", "x).png", []string{"[a]"}, "![[a]](https://cdn.example.com/blog/x).png)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.Filter(tc.path, tc.alt...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestImageLinkBuilderOmittedAltEqualsDefault(t *testing.T) {
	b := NewImageLinkBuilder(testCdnUrl)

	omitted, err := b.Filter("dogs/dog.jpg")
	require.NoError(t, err)
	assert.Equal(t, b.Link("dogs/dog.jpg", DefaultImageAlt), omitted)
	assert.Equal(t, "![Image](https://cdn.example.com/blog/dogs/dog.jpg)", omitted)
}

func TestImageLinkBuilderBaseUrlVerbatim(t *testing.T) {
	b := NewImageLinkBuilder("https://res.example.net/image/upload/v1/blog")
	assert.Equal(t, "![x](https://res.example.net/image/upload/v1/blogcat.png)", b.Link("cat.png", "x"))
	assert.Equal(t, "https://res.example.net/image/upload/v1/blogcat.png", b.URL("cat.png"))
}

func TestImageLinkBuilderTooManyArguments(t *testing.T) {
	b := NewImageLinkBuilder(testCdnUrl)

	_, err := b.Filter("cats/cat1.png", "alt", "extra")
	assert.Error(t, err)
}

func TestImageLinkBuilderConcurrent(t *testing.T) {
	b := NewImageLinkBuilder(testCdnUrl)
	expected := b.Link("cats/cat1.png", "cat")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, expected, b.Link("cats/cat1.png", "cat"))
		}()
	}
	wg.Wait()
}

func TestExpandFilters(t *testing.T) {
	filters := newFilters(NewImageLinkBuilder(testCdnUrl), nil)

	tests := []struct {
		source   string
		expected string
	}{
		{`{{ image_from_cdn "cats/cat1.png" }}`, "![Image](https://cdn.example.com/blog/cats/cat1.png)"},
		{`{{ image_from_cdn "cats/cat1.png" "A sleepy cat" }}`, "![A sleepy cat](https://cdn.example.com/blog/cats/cat1.png)"},
		{`{{ "cats/cat1.png" | image_from_cdn }}`, "![Image](https://cdn.example.com/blog/cats/cat1.png)"},
		{`{{ image_from_cdn "" }}`, "![Image](https://cdn.example.com/blog/)"},
		{"no filters here", "no filters here"},
	}

	for _, tc := range tests {
		got, err := expandFilters("test", []byte(tc.source), filters)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got)
	}
}

func TestExpandFiltersErrors(t *testing.T) {
	filters := newFilters(NewImageLinkBuilder(testCdnUrl), nil)

	_, err := expandFilters("test", []byte(`{{ image_from_cdn "a.png" "b" "c" }}`), filters)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "at most 2 arguments"))

	_, err = expandFilters("test", []byte(`{{ unknown_filter "a.png" }}`), filters)
	assert.Error(t, err)

	_, err = expandFilters("test", []byte("```\n{{ .Foo }}\n```"), filters)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Foo")
}

func TestNewFiltersReportsImageUrls(t *testing.T) {
	var urls []string
	filters := newFilters(NewImageLinkBuilder(testCdnUrl), func(url string) {
		urls = append(urls, url)
	})

	got, err := expandFilters("test", []byte(`{{ image_from_cdn "a.png" }} {{ "b c.png" | image_from_cdn }}`), filters)
	require.NoError(t, err)
	assert.Equal(t, "![Image](https://cdn.example.com/blog/a.png) ![Image](https://cdn.example.com/blog/b c.png)", got)
	assert.Equal(t, []string{"https://cdn.example.com/blog/a.png", "https://cdn.example.com/blog/b c.png"}, urls)

	urls = nil
	_, err = expandFilters("test", []byte(`{{ image_from_cdn "a.png" "b" "c" }}`), filters)
	require.Error(t, err)
	assert.Empty(t, urls)
}
