package main

import (
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is read from config.toml at the site root.
type Config struct {
	Title   string `toml:"title"`
	SiteUrl string `toml:"url"`

	// CdnUrl is the base URL image_from_cdn prepends to image paths, as-is.
	CdnUrl string `toml:"cdn_url"`
}

func loadConfig(file string) (Config, error) {
	var c Config
	meta, err := toml.DecodeFile(file, &c)
	if err != nil {
		return c, err
	}

	for _, key := range meta.Undecoded() {
		log.Warn("unknown configuration key %q in %s", key.String(), file)
	}
	if c.CdnUrl == "" {
		log.Warn("cdn_url is not set in %s, image_from_cdn will produce relative links", file)
	}

	c.SiteUrl = strings.TrimSuffix(c.SiteUrl, "/") + "/"
	return c, nil
}
