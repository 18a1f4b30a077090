package hws

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// downloadName is the attachment filename for an export of the site.
func downloadName(cfg SiteConfig, ext string) string {
	slug := Slugify(cfg.Name)
	if slug == "" {
		slug = "page"
	}
	return slug + ext
}

// websiteJSONLD produces a Schema.org WebSite JSON-LD block for the page.
func websiteJSONLD(cfg SiteConfig, lang string) string {
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       cfg.Name,
		"url":        BuildURL(cfg.URL),
		"inLanguage": lang,
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
