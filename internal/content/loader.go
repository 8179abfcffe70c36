// Package content turns a directory of markdown files into content items.
package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zhou-zzz/blog/internal/model"
)

// dateFormats are tried in order when a frontmatter date is a string.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	model.DateLayout,
}

// Loader reads markdown content from disk.
type Loader struct {
	renderer *Renderer
	logger   zerolog.Logger
}

// NewLoader returns a Loader that logs warnings to logger.
func NewLoader(renderer *Renderer, logger zerolog.Logger) *Loader {
	return &Loader{renderer: renderer, logger: logger}
}

// Load parses every .md file under dir. Files are converted concurrently; the
// result is sorted by date, newest first, with undated items last.
func (l *Loader) Load(ctx context.Context, dir string) ([]*model.ContentItem, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory '%s' not found: %w", dir, err)
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content collection walk: %w", err)
	}

	items := make([]*model.ContentItem, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file '%s': %w", path, err)
			}
			item, err := l.Parse(dir, path, src)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortByDate(items)
	return items, nil
}

// Parse builds a content item from the source of the file at path, which
// lives under root.
func (l *Loader) Parse(root, path string, src []byte) (*model.ContentItem, error) {
	log := l.logger.With().Str("path", path).Logger()

	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		log.Warn().Err(err).Msg("could not parse frontmatter, treating as pure markdown")
		body = src
		fm = nil
	}
	if fm == nil {
		fm = make(map[string]interface{})
	}

	html, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", path, err)
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get relative path for %s: %w", path, err)
	}

	item := &model.ContentItem{
		Title:       stringField(fm, "title"),
		Description: stringField(fm, "description"),
		Type:        itemType(relPath, fm),
		Tags:        tags(fm),
		Image:       stringField(fm, "image"),
		Plum:        boolField(fm, "plum"),
		SourcePath:  path,
		Permalink:   Permalink(relPath),
		ContentHTML: html,
		Frontmatter: fm,
		Summary:     stringField(fm, "summary"),
		Layout:      stringField(fm, "layout"),
	}
	if item.Title == "" {
		item.Title = TitleFromName(filepath.Base(path))
	}
	if item.Summary == "" {
		item.Summary = item.Description
	}

	date, ok := parseDate(fm["date"])
	if !ok {
		log.Warn().Interface("date", fm["date"]).Msg("could not parse date, use YYYY-MM-DD or RFC3339")
	}
	item.Date = date

	return item, nil
}

// SortByDate orders items newest first. Undated items keep their relative
// order after all dated ones.
func SortByDate(items []*model.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.IsZero() {
			return false
		}
		if items[j].Date.IsZero() {
			return true
		}
		return items[i].Date.After(items[j].Date)
	})
}

// TitleFromName derives a title from a file name: "my-first_post.md"
// becomes "My First Post".
func TitleFromName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
	return cases.Title(language.English).String(base)
}

// Permalink returns the directory-style URL for a path relative to the
// content root: "posts/hello.md" becomes "/posts/hello/".
func Permalink(relPath string) string {
	p := filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath)))
	p = "/" + strings.Trim(p, "/") + "/"
	if p == "//" {
		return "/"
	}
	return p
}

// itemType is the first directory of relPath, or "page" for top-level files.
// A frontmatter type overrides the directory.
func itemType(relPath string, fm map[string]interface{}) string {
	if t := stringField(fm, "type"); t != "" {
		return t
	}
	dir := filepath.ToSlash(filepath.Dir(relPath))
	first, _, _ := strings.Cut(dir, "/")
	if first == "." || first == "" {
		return model.TypePage
	}
	return first
}

func parseDate(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, true
	case time.Time:
		return d, true
	case string:
		for _, format := range dateFormats {
			if t, err := time.Parse(format, d); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func stringField(fm map[string]interface{}, key string) string {
	s, _ := fm[key].(string)
	return strings.TrimSpace(s)
}

func boolField(fm map[string]interface{}, key string) bool {
	b, _ := fm[key].(bool)
	return b
}

// tags accepts "tag" or "tags" as a list or a comma separated string.
func tags(fm map[string]interface{}) []string {
	raw, ok := fm["tag"]
	if !ok {
		raw = fm["tags"]
	}

	var out []string
	switch v := raw.(type) {
	case string:
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	case []interface{}:
		for _, t := range v {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, t := range v {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
