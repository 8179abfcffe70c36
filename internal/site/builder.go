// Package site builds the static site: it loads content, arranges it into
// collections and writes every page into the output directory.
package site

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zhou-zzz/blog/internal/config"
	"github.com/zhou-zzz/blog/internal/content"
	"github.com/zhou-zzz/blog/internal/group"
	"github.com/zhou-zzz/blog/internal/model"
	"github.com/zhou-zzz/blog/internal/paginate"
	"github.com/zhou-zzz/blog/internal/theme"
)

// Output locations.
const (
	postsPath   = "/posts/"
	archivePath = "/archive/"
	tagsPath    = "/tags/"
	pageSegment = "page"
	indexFile   = "index.html"
)

// Builder renders a site described by a config.
type Builder struct {
	cfg    config.Config
	loader *content.Loader
	logger zerolog.Logger

	theme *theme.Theme
	base  *template.Template
	pages map[string]*template.Template

	// written maps each URL rendered in the current build to its layout.
	written map[string]string
}

// New returns a Builder for cfg. The config is normalised first.
func New(cfg config.Config, logger zerolog.Logger) *Builder {
	cfg.Normalize()
	return &Builder{
		cfg:    cfg,
		loader: content.NewLoader(content.NewRenderer(), logger),
		logger: logger,
	}
}

// Build writes the whole site and returns the data it was rendered from.
func (b *Builder) Build(ctx context.Context) (*model.SiteData, error) {
	cfg := b.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b.logger.Info().
		Str("output_dir", cfg.OutputDir).
		Str("base_url", cfg.BaseURL).
		Str("site_title", cfg.SiteTitle).
		Msg("starting build")

	if err := b.prepareOutput(); err != nil {
		return nil, err
	}
	if err := b.loadLayouts(); err != nil {
		return nil, err
	}

	items, err := b.loader.Load(ctx, cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	b.logger.Info().Int("items", len(items)).Msg("content collected")

	site, err := b.collect(items)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		fn   func(*model.SiteData) error
	}{
		{"items", b.writeItems},
		{"home", b.writeHome},
		{"posts", b.writePostLists},
		{"archive", b.writeArchive},
		{"tags", b.writeTags},
		{"highlight", b.writeHighlightCSS},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(site); err != nil {
			return nil, fmt.Errorf("write %s: %w", step.name, err)
		}
	}

	b.logger.Info().Msg("build completed")
	return site, nil
}

func (b *Builder) prepareOutput() error {
	outputDir := b.cfg.OutputDir
	b.logger.Debug().Str("dir", outputDir).Msg("cleaning output directory")
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	staticDir := b.cfg.StaticDir
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		b.logger.Debug().Str("dir", staticDir).Msg("static directory not found, skipping copy")
		return nil
	}
	if err := copyDirContents(staticDir, outputDir, b.logger); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}
	return nil
}

func (b *Builder) loadLayouts() error {
	th, err := theme.New(b.cfg.LayoutsDir, Funcs())
	if err != nil {
		return err
	}
	base, err := th.Base()
	if err != nil {
		return err
	}
	b.theme = th
	b.base = base
	b.pages = make(map[string]*template.Template)
	b.written = make(map[string]string)
	return nil
}

// collect arranges items into the site collections.
func (b *Builder) collect(items []*model.ContentItem) (*model.SiteData, error) {
	cfg := b.cfg
	site := &model.SiteData{
		Title:        cfg.SiteTitle,
		Description:  cfg.Description,
		BaseURL:      cfg.BaseURL,
		ColorMode:    colorModeClass(cfg.ColorMode),
		Config:       cfg.Params,
		ContentItems: items,
	}

	site.ContentByType = group.ByField("Type", items)
	site.Posts, _ = site.ContentByType.Get(model.TypePosts)
	site.Projects, _ = site.ContentByType.Get(model.TypeProject)

	dated := make([]*model.ContentItem, 0, len(site.Posts))
	for _, p := range site.Posts {
		if p.Date.IsZero() {
			b.logger.Warn().Str("path", p.SourcePath).Msg("post has no date, leaving it out of the archive")
			continue
		}
		dated = append(dated, p)
	}
	archive, err := group.ByYear(dated)
	if err != nil {
		return nil, fmt.Errorf("group archive by year: %w", err)
	}
	site.Archive = archive
	site.Tags = groupByTag(site.Posts)

	for _, t := range site.ContentByType.Groups() {
		b.logger.Debug().Str("type", t.Key).Int("items", len(t.Items)).Msg("content type")
	}
	return site, nil
}

type taggedItem struct {
	tag  string
	item *model.ContentItem
}

// groupByTag groups posts under each of their tags. A post with several tags
// appears in several groups. Tags sharing a slug share one page, so they are
// merged under the spelling seen first; a post lists each slug once.
func groupByTag(posts []*model.ContentItem) *group.Groups[*model.ContentItem] {
	names := make(map[string]string)
	var pairs []taggedItem
	for _, p := range posts {
		seen := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			slug := Slugify(t)
			if slug == "" {
				slug = t
			}
			if seen[slug] {
				continue
			}
			seen[slug] = true
			if _, ok := names[slug]; !ok {
				names[slug] = t
			}
			pairs = append(pairs, taggedItem{tag: names[slug], item: p})
		}
	}
	byTag := group.By(func(t taggedItem) string { return t.tag }, pairs)
	return group.Map(byTag, func(t taggedItem) *model.ContentItem { return t.item })
}

func colorModeClass(cm config.ColorMode) string {
	switch cm.Preference {
	case "", "system":
		return ""
	default:
		return cm.Preference + cm.ClassSuffix
	}
}

func (b *Builder) writeItems(site *model.SiteData) error {
	for _, item := range site.ContentItems {
		layout := b.itemLayout(item)
		data := &model.PageData{
			Site:   site,
			Head:   b.head(item.Title, item.Summary, item.Permalink, item.Image),
			Title:  item.Title,
			Item:   item,
			Layout: layout,
		}
		if err := b.render(layout, item.Permalink, data); err != nil {
			return err
		}
	}
	return nil
}

// itemLayout picks the frontmatter layout, then single-post.html for posts,
// then single.html.
func (b *Builder) itemLayout(item *model.ContentItem) string {
	layout := theme.SingleLayout
	if item.IsPost() && b.theme.Has(theme.SinglePostLayout) {
		layout = theme.SinglePostLayout
	}
	if item.Layout != "" {
		if b.theme.Has(item.Layout) {
			layout = item.Layout
		} else {
			b.logger.Warn().
				Str("layout", item.Layout).
				Str("item", item.Title).
				Str("using", layout).
				Msg("frontmatter layout not found")
		}
	}
	return layout
}

func (b *Builder) writeHome(site *model.SiteData) error {
	p := paginate.New(site.Posts, b.cfg.PageSize)
	data := &model.PageData{
		Site:  site,
		Head:  b.head("", site.Description, "/", ""),
		Items: p.Items(),
		Pager: pager(p, postsPageURL),
	}
	return b.render(theme.HomeLayout, "/", data)
}

// writePostLists writes /posts/ and /posts/page/N/ by walking the paginator
// until it stops advancing.
func (b *Builder) writePostLists(site *model.SiteData) error {
	p := paginate.New(site.Posts, b.cfg.PageSize)
	for {
		url := postsPageURL(p.CurrentPage())
		title := "Blog"
		if p.CurrentPage() > 1 {
			title = fmt.Sprintf("Blog - Page %d", p.CurrentPage())
		}
		data := &model.PageData{
			Site:  site,
			Head:  b.head(title, site.Description, url, ""),
			Title: title,
			Items: p.Items(),
			Pager: pager(p, postsPageURL),
		}
		if err := b.render(theme.ListPostsLayout, url, data); err != nil {
			return err
		}
		if !p.HasNext() {
			break
		}
		p.NextPage()
	}
	return nil
}

func (b *Builder) writeArchive(site *model.SiteData) error {
	data := &model.PageData{
		Site:   site,
		Head:   b.head("Archive", site.Description, archivePath, ""),
		Title:  "Archive",
		Groups: site.Archive.Groups(),
	}
	return b.render(theme.ArchiveLayout, archivePath, data)
}

func (b *Builder) writeTags(site *model.SiteData) error {
	for tag, items := range site.Tags.All() {
		slug := Slugify(tag)
		if slug == "" {
			b.logger.Warn().Str("tag", tag).Msg("tag has no usable characters, skipping its page")
			continue
		}
		url := tagsPath + slug + "/"
		data := &model.PageData{
			Site:  site,
			Head:  b.head("#"+tag, site.Description, url, ""),
			Title: tag,
			Tag:   tag,
			Items: items,
		}
		if err := b.render(theme.TagLayout, url, data); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) writeHighlightCSS(_ *model.SiteData) error {
	path := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(config.DefaultHighlightTo))
	h := b.cfg.Highlight
	return writeFile(path, func(w io.Writer) error {
		return theme.WriteHighlightCSS(w, theme.Highlight{Default: h.Default, Dark: h.Dark, Sepia: h.Sepia})
	})
}

// render executes layout into <outputDir><url>index.html. A URL rendered
// twice in one build is logged, and the later page wins.
func (b *Builder) render(layout, url string, data *model.PageData) error {
	tmpl, err := b.page(layout)
	if err != nil {
		return err
	}

	if prev, ok := b.written[url]; ok {
		b.logger.Warn().
			Str("url", url).
			Str("previous_layout", prev).
			Str("layout", layout).
			Msg("page URL already written, overwriting")
	}
	b.written[url] = layout

	outputPath := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(url), indexFile)
	err = writeFile(outputPath, func(w io.Writer) error {
		if err := tmpl.ExecuteTemplate(w, theme.BaseLayout, data); err != nil {
			return fmt.Errorf("failed to execute template '%s' (outputting to '%s'): %w", layout, outputPath, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Debug().Str("path", outputPath).Str("layout", layout).Msg("generated")
	return nil
}

// writeFile creates path and its parent directories, fills it with write and
// reports the first of the write and close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close '%s': %w", path, cerr)
		}
	}()
	return write(f)
}

func (b *Builder) page(layout string) (*template.Template, error) {
	if tmpl, ok := b.pages[layout]; ok {
		return tmpl, nil
	}
	tmpl, err := b.theme.Page(b.base, layout)
	if err != nil {
		return nil, err
	}
	b.pages[layout] = tmpl
	return tmpl, nil
}

func (b *Builder) head(title, description, url, image string) model.Head {
	h := b.cfg.Head
	head := model.Head{
		Title:          title,
		Description:    description,
		Viewport:       h.Viewport,
		Favicon:        h.Favicon,
		ThemeColor:     h.ThemeColor,
		StatusBarStyle: h.StatusBarStyle,
		Image:          image,
		Stylesheets:    []string{"/" + config.DefaultHighlightTo},
	}
	if head.Description == "" {
		head.Description = b.cfg.Description
	}
	if b.cfg.BaseURL != "" {
		head.Canonical = strings.TrimSuffix(b.cfg.BaseURL, "/") + url
	}
	return head
}

// postsPageURL returns /posts/ for page 1 and /posts/page/N/ after that.
func postsPageURL(page int) string {
	if page <= 1 {
		return postsPath
	}
	return postsPath + pageSegment + "/" + strconv.Itoa(page) + "/"
}

func pager[T any](p *paginate.Paginator[T], url func(int) string) *model.Pager {
	meta := p.Meta()
	pg := &model.Pager{Meta: meta}
	if meta.HasPrevious {
		pg.PrevURL = url(meta.CurrentPage - 1)
	}
	if meta.HasNext {
		pg.NextURL = url(meta.CurrentPage + 1)
	}
	return pg
}
