package main

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"os"
	"path/filepath"
	"time"
)

//go:embed sitemap.xsl
var sitemapXSL []byte

const (
	sitemapNS      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapImageNS = "http://www.google.com/schemas/sitemap-image/1.1"
	mediaRSSNS     = "http://search.yahoo.com/mrss/"

	// number of posts in feed.xml
	feedSize = 10
)

type sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	Image   string       `xml:"xmlns:image,attr"`
	Urls    []sitemapUrl `xml:"url"`
}

type sitemapUrl struct {
	Loc     string         `xml:"loc"`
	LastMod string         `xml:"lastmod"`
	Images  []sitemapImage `xml:"image:image"`
}

// sitemapImage is an image sitemap entry for one image_from_cdn URL.
type sitemapImage struct {
	Loc string `xml:"image:loc"`
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Media   string     `xml:"xmlns:media,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Generator     string    `xml:"generator"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	PubDate     string     `xml:"pubDate"`
	GUID        string     `xml:"guid"`
	Media       []rssMedia `xml:"media:content"`
}

type rssMedia struct {
	Url    string `xml:"url,attr"`
	Medium string `xml:"medium,attr"`
}

// writeXML writes the XML declaration, any extra processing instructions and v to file.
func writeXML(file string, instructions string, v any) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(instructions)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	return os.WriteFile(file, buf.Bytes(), 0644)
}

// createSitemap lists every written page together with the CDN images it shows.
func (s *Site) createSitemap() error {
	defer measure("createSitemap")()

	doc := sitemap{XMLNS: sitemapNS, Image: sitemapImageNS}
	for _, p := range s.pages {
		if !p.written {
			continue
		}
		u := sitemapUrl{Loc: p.Permalink, LastMod: p.DateModified.Format(time.RFC3339)}
		for _, img := range p.Images {
			u.Images = append(u.Images, sitemapImage{Loc: img})
		}
		doc.Urls = append(doc.Urls, u)
	}

	if err := writeXML(filepath.Join(s.OutputDir, "sitemap.xml"), `<?xml-stylesheet type="text/xsl" href="/sitemap.xsl"?>`, doc); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.OutputDir, "sitemap.xsl"), sitemapXSL, 0644)
}

// createFeed writes an RSS feed of the most recent posts, with their CDN images as Media RSS content.
func (s *Site) createFeed() error {
	defer measure("createFeed")()

	channel := rssChannel{
		Title:         s.Title,
		Link:          s.SiteUrl,
		Generator:     "cdnblog",
		LastBuildDate: time.Now().Format(time.RFC1123Z),
	}
	for _, p := range s.posts {
		if len(channel.Items) == feedSize {
			break
		}
		if !p.written {
			continue
		}

		item := rssItem{
			Title:       p.Title,
			Link:        p.Permalink,
			Description: p.Content,
			PubDate:     p.DatePublished.Format(time.RFC1123Z),
			GUID:        p.Permalink,
		}
		for _, img := range p.Images {
			item.Media = append(item.Media, rssMedia{Url: img, Medium: "image"})
		}
		channel.Items = append(channel.Items, item)
	}

	return writeXML(filepath.Join(s.OutputDir, "feed.xml"), "", rss{Version: "2.0", Media: mediaRSSNS, Channel: channel})
}
