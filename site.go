package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTemplate = "default.html"
	dateLayout      = "2006-01-02"
)

// Site is a content tree rendered into a static output directory.
type Site struct {
	Config
	RootDir   string
	OutputDir string

	pages   []*Page
	posts   []*Page
	layouts *template.Template
	images  *ImageLinkBuilder
}

// Page is a single content file and the result of rendering it.
type Page struct {
	Title         string
	Template      string
	DatePublished time.Time
	DateModified  time.Time
	Permalink     string
	UrlPath       string
	Filepath      string

	// Content is the HTML body, set by render.
	Content string
	// Images holds the distinct CDN image URLs the body links to, in order of first use.
	Images []string

	rendered bool
	written  bool
}

// frontMatterEnvelope holds the keys a page may set in TOML (+++) or YAML (---) front matter.
type frontMatterEnvelope struct {
	Title    string    `toml:"title" yaml:"title"`
	Template string    `toml:"template" yaml:"template"`
	Date     time.Time `toml:"date" yaml:"date"`
}

// parseContentPath maps a file path relative to content/ to its URL path.
// A "2006-01-02-" filename prefix is stripped and returned as the publish date.
func parseContentPath(rel string) (string, time.Time) {
	rel = filepath.ToSlash(rel)
	dir, name := path.Split(strings.TrimSuffix(rel, path.Ext(rel)))

	var date time.Time
	if len(name) > len(dateLayout)+1 && name[len(dateLayout)] == '-' {
		if d, err := time.Parse(dateLayout, name[:len(dateLayout)]); err == nil {
			date, name = d, name[len(dateLayout)+1:]
		}
	}

	if name == "index" || name == "" {
		return dir, date
	}
	return dir + name + "/", date
}

// splitFrontMatter decodes the front matter of source into v and returns the remaining body.
func splitFrontMatter(source []byte, v any) ([]byte, error) {
	return frontmatter.Parse(bytes.NewReader(source), v)
}

func parseFrontMatter(p *Page) error {
	source, err := os.ReadFile(p.Filepath)
	if err != nil {
		return err
	}

	var fm frontMatterEnvelope
	if _, err := splitFrontMatter(source, &fm); err != nil {
		return fmt.Errorf("invalid front matter in %s: %w", p.Filepath, err)
	}

	if fm.Title != "" {
		p.Title = fm.Title
	}
	if fm.Template != "" {
		p.Template = fm.Template
	}
	if !fm.Date.IsZero() {
		p.DatePublished = fm.Date
	}

	return nil
}

func (s *Site) contentDir() string {
	return filepath.Join(s.RootDir, "content")
}

func (s *Site) loadPage(file string) (*Page, error) {
	rel, err := filepath.Rel(s.contentDir(), file)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(file)
	if err != nil {
		return nil, err
	}

	urlPath, date := parseContentPath(rel)
	p := &Page{
		Filepath:      file,
		UrlPath:       urlPath,
		Permalink:     s.SiteUrl + urlPath,
		DatePublished: date,
		DateModified:  info.ModTime(),
		Template:      defaultTemplate,
	}
	if err := parseFrontMatter(p); err != nil {
		return nil, err
	}
	return p, nil
}

// readContent loads every supported file under content/. Dated pages are
// posts, kept newest first.
func (s *Site) readContent() error {
	defer measure("readContent")()

	err := filepath.WalkDir(s.contentDir(), func(file string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, ok := converters[filepath.Ext(file)]; !ok {
			log.Warn("skipping %s: unsupported content type", file)
			return nil
		}

		p, err := s.loadPage(file)
		if err != nil {
			return err
		}
		s.pages = append(s.pages, p)
		if !p.DatePublished.IsZero() {
			s.posts = append(s.posts, p)
		}
		return nil
	})

	slices.SortStableFunc(s.posts, func(a, b *Page) int {
		return b.DatePublished.Compare(a.DatePublished)
	})
	return err
}

// render expands filters in the page body and converts it to HTML,
// recording which CDN images the page links to.
func (s *Site) render(p *Page) error {
	source, err := os.ReadFile(p.Filepath)
	if err != nil {
		return err
	}
	body, err := splitFrontMatter(source, &frontMatterEnvelope{})
	if err != nil {
		return err
	}

	var images []string
	filters := newFilters(s.images, func(url string) {
		if !slices.Contains(images, url) {
			images = append(images, url)
		}
	})

	expanded, err := expandFilters(p.Filepath, body, filters)
	if err != nil {
		return err
	}

	convert, ok := converters[filepath.Ext(p.Filepath)]
	if !ok {
		return fmt.Errorf("unsupported content type: %s", p.Filepath)
	}
	content, err := convert([]byte(expanded))
	if err != nil {
		return err
	}

	p.Content, p.Images = content, images
	return nil
}

func (s *Site) writePage(p *Page, posts []*Page) error {
	layout := s.layouts.Lookup(p.Template)
	if layout == nil {
		return fmt.Errorf("no layout named %q in templates/", p.Template)
	}

	var buf bytes.Buffer
	if err := layout.Execute(&buf, map[string]any{
		"Page":    p,
		"Posts":   posts,
		"Pages":   s.pages,
		"SiteUrl": s.SiteUrl,
		"CdnUrl":  s.CdnUrl,
		"Title":   p.Title,
		"Content": template.HTML(p.Content),
	}); err != nil {
		return err
	}

	dest := filepath.Join(s.OutputDir, filepath.FromSlash(p.UrlPath), "index.html")
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, buf.Bytes(), 0644)
}

// buildPages renders all pages concurrently. A page that fails is logged
// and left out of the sitemap and feed.
func (s *Site) buildPages() {
	defer measure("buildPages")()

	// render every page first so layouts listing posts see their content
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, p := range s.pages {
		g.Go(func() error {
			if err := s.render(p); err != nil {
				log.Warn("Error rendering %s: %s", p.Filepath, err)
				return nil
			}
			p.rendered = true
			return nil
		})
	}
	_ = g.Wait()

	posts := s.renderedPosts()
	for _, p := range s.pages {
		if !p.rendered {
			continue
		}
		g.Go(func() error {
			if err := s.writePage(p, posts); err != nil {
				log.Warn("Error writing %s: %s", p.Filepath, err)
				return nil
			}
			p.written = true
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Site) renderedPosts() []*Page {
	posts := make([]*Page, 0, len(s.posts))
	for _, p := range s.posts {
		if p.rendered {
			posts = append(posts, p)
		}
	}
	return posts
}

func (s *Site) copyPublic() error {
	public := filepath.Join(s.RootDir, "public")
	if _, err := os.Stat(public); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return os.CopyFS(s.OutputDir, os.DirFS(public))
}

// func to calculate and print execution time
func measure(name string) func() {
	start := time.Now()
	return func() {
		log.Debug("%s execution time: %v", name, time.Since(start))
	}
}

// buildSite replaces outputDir with the rendered site found at rootDir.
// configFile is relative to rootDir unless absolute.
func buildSite(rootDir string, configFile string, outputDir string) error {
	start := time.Now()

	if filepath.Clean(outputDir) == "." || filepath.Clean(outputDir) == filepath.Clean(rootDir) {
		return fmt.Errorf("refusing to use %q as output directory", outputDir)
	}

	if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(rootDir, configFile)
	}
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("error reading configuration file at %s: %w", configFile, err)
	}

	s := &Site{
		Config:    cfg,
		RootDir:   rootDir,
		OutputDir: outputDir,
		images:    NewImageLinkBuilder(cfg.CdnUrl),
	}

	// layouts get CdnUrl as data, the image filter only makes sense in content
	s.layouts, err = template.ParseFS(os.DirFS(filepath.Join(rootDir, "templates")), "*.html")
	if err != nil {
		return fmt.Errorf("error reading templates/ directory: %w", err)
	}

	if err := s.readContent(); err != nil {
		return fmt.Errorf("error reading content/: %w", err)
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	s.buildPages()

	if err := s.createSitemap(); err != nil {
		log.Warn("Error creating sitemap: %s", err)
	}
	if err := s.createFeed(); err != nil {
		log.Warn("Error creating RSS feed: %s", err)
	}

	if err := s.copyPublic(); err != nil {
		return fmt.Errorf("error copying public/ directory: %w", err)
	}

	images := 0
	for _, p := range s.pages {
		images += len(p.Images)
	}
	log.Info("Built site containing %d pages linking %d CDN images in %d ms", len(s.pages), images, time.Since(start).Milliseconds())
	return nil
}
