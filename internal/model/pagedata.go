package model

import (
	"github.com/zhou-zzz/blog/internal/group"
	"github.com/zhou-zzz/blog/internal/paginate"
)

// Head is the set of <head> tags rendered on every page.
type Head struct {
	Title          string
	Description    string
	Viewport       string
	Favicon        string
	ThemeColor     string
	StatusBarStyle string
	Canonical      string
	Image          string
	Stylesheets    []string
}

// Pager links a list page to its neighbours.
type Pager struct {
	paginate.Meta
	PrevURL string
	NextURL string
}

// PageData is the template context for a rendered page.
type PageData struct {
	Site   *SiteData
	Head   Head
	Title  string
	Item   *ContentItem
	Items  []*ContentItem
	Pager  *Pager
	Groups []group.Group[*ContentItem]
	Tag    string
	Layout string
}
