// Package theme provides the default layouts and the code highlighting
// stylesheet.
//
// Layouts are looked up in the site's layouts directory first and then in the
// embedded defaults, so a site can override any single file (for example
// single.html or partials/head.html) without copying the rest.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"sort"
)

// Layout names the builder executes.
const (
	BaseLayout       = "base.html"
	SingleLayout     = "single.html"
	SinglePostLayout = "single-post.html"
	HomeLayout       = "home.html"
	ListPostsLayout  = "list-posts.html"
	ArchiveLayout    = "archive.html"
	TagLayout        = "tag.html"

	partialsDir = "partials"
)

//go:embed layouts
var embedded embed.FS

// ErrLayoutNotFound is returned when no layer provides a layout.
var ErrLayoutNotFound = errors.New("layout not found")

// Theme resolves layout files across the user's layouts directory and the
// embedded defaults.
type Theme struct {
	layers []fs.FS
	funcs  template.FuncMap
}

// New returns a Theme that prefers files in layoutsDir. A missing layoutsDir
// leaves only the embedded defaults.
func New(layoutsDir string, funcs template.FuncMap) (*Theme, error) {
	defaults, err := fs.Sub(embedded, "layouts")
	if err != nil {
		return nil, fmt.Errorf("open embedded layouts: %w", err)
	}

	var layers []fs.FS
	if info, statErr := os.Stat(layoutsDir); statErr == nil && info.IsDir() {
		layers = append(layers, os.DirFS(layoutsDir))
	}
	layers = append(layers, defaults)

	return &Theme{layers: layers, funcs: funcs}, nil
}

// Has reports whether any layer provides the named layout.
func (t *Theme) Has(name string) bool {
	for _, layer := range t.layers {
		if _, err := fs.Stat(layer, name); err == nil {
			return true
		}
	}
	return false
}

// Base parses base.html and every partial. The result is cloned per page.
func (t *Theme) Base() (*template.Template, error) {
	tmpl := template.New(BaseLayout).Funcs(t.funcs)
	if err := t.parseInto(tmpl, BaseLayout); err != nil {
		return nil, err
	}

	partials, err := t.partials()
	if err != nil {
		return nil, err
	}
	for _, p := range partials {
		if err := t.parseInto(tmpl, path.Join(partialsDir, p)); err != nil {
			return nil, err
		}
	}
	return tmpl, nil
}

// Page returns a clone of base with the named page layout parsed into it.
func (t *Theme) Page(base *template.Template, name string) (*template.Template, error) {
	tmpl, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone template: %w", err)
	}
	if err := t.parseInto(tmpl, name); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (t *Theme) parseInto(tmpl *template.Template, name string) error {
	src, err := t.read(name)
	if err != nil {
		return err
	}
	var target *template.Template
	if tmpl.Name() == path.Base(name) {
		target = tmpl
	} else {
		target = tmpl.New(path.Base(name))
	}
	if _, err := target.Parse(string(src)); err != nil {
		return fmt.Errorf("failed to parse layout '%s': %w", name, err)
	}
	return nil
}

func (t *Theme) read(name string) ([]byte, error) {
	for _, layer := range t.layers {
		src, err := fs.ReadFile(layer, name)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read layout '%s': %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
}

// partials returns the union of partial file names across layers.
func (t *Theme) partials() ([]string, error) {
	seen := make(map[string]bool)
	for _, layer := range t.layers {
		matches, err := fs.Glob(layer, path.Join(partialsDir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("list partials: %w", err)
		}
		for _, m := range matches {
			seen[path.Base(m)] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
