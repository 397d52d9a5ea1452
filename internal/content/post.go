package content

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goccy/go-json"

	"portfolio/internal/models"
)

type frontMatter struct {
	Title       string   `yaml:"title" toml:"title"`
	Slug        string   `yaml:"slug" toml:"slug"`
	Excerpt     string   `yaml:"excerpt" toml:"excerpt"`
	Tags        []string `yaml:"tags" toml:"tags"`
	CoverImage  string   `yaml:"cover_image" toml:"cover_image"`
	Published   bool     `yaml:"published" toml:"published"`
	PublishedAt string   `yaml:"published_at" toml:"published_at"`
}

// ParsePost reads a markdown file with YAML or TOML front matter and returns
// it as a JSON blog post create payload. The slug defaults to the file name
// without extension and the markdown body becomes the post content.
func ParsePost(filename string, r io.Reader) ([]byte, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter of %s: %w", filename, err)
	}

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	payload := map[string]any{
		"slug":      slug,
		"content":   strings.TrimSpace(string(body)),
		"published": meta.Published,
	}
	if meta.Title != "" {
		payload["title"] = meta.Title
	}
	if meta.Tags != nil {
		payload["tags"] = meta.Tags
	}
	if meta.Excerpt != "" {
		payload["excerpt"] = meta.Excerpt
	}
	if meta.CoverImage != "" {
		payload["cover_image"] = meta.CoverImage
	}
	if meta.PublishedAt != "" {
		at, err := models.ParseDateTime(meta.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: published_at: %w", filename, err)
		}
		payload["published_at"] = at
	}

	return json.Marshal(payload)
}
