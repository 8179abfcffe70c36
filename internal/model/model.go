package model

import (
	"html/template"
	"time"

	"github.com/zhou-zzz/blog/internal/group"
)

// DateLayout is the date format used in URLs, archives and DateString.
const DateLayout = "2006-01-02"

// Content types with dedicated collections.
const (
	TypePosts   = "posts"
	TypeProject = "project"
	TypePage    = "page"
)

// ContentItem represents a single piece of content (e.g., blog post, project page).
type ContentItem struct {
	Title       string
	Description string
	Date        time.Time
	Type        string
	Tags        []string
	Image       string
	Plum        bool
	SourcePath  string
	Permalink   string
	ContentHTML template.HTML
	Frontmatter map[string]interface{}
	Summary     string
	Layout      string
}

// DateString returns the date as YYYY-MM-DD, or "" when the item is undated.
func (c *ContentItem) DateString() string {
	if c.Date.IsZero() {
		return ""
	}
	return c.Date.Format(DateLayout)
}

// IsPost reports whether the item belongs to the posts collection.
func (c *ContentItem) IsPost() bool {
	return c.Type == TypePosts
}

// SiteData holds all site-wide data, including configuration and content.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
	ColorMode   string
	Config      map[string]interface{}

	ContentItems  []*ContentItem
	Posts         []*ContentItem
	Projects      []*ContentItem
	ContentByType *group.Groups[*ContentItem]
	Archive       *group.Groups[*ContentItem]
	Tags          *group.Groups[*ContentItem]
}
