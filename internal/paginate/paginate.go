// Package paginate provides a page cursor over an in-memory, ordered slice.
//
// A Paginator holds the caller's slice, a fixed page size and the current
// page. Everything else (total pages, the visible items, navigation state) is
// derived from those three values on every call, so a refreshed collection or
// a page move is always reflected without manual synchronisation.
//
// Navigation saturates: NextPage on the last page and PrevPage on the first
// page are no-ops.
package paginate

// Defaults and limits.
const (
	DefaultPage = 1
	MinPageSize = 1
)

// Meta is a snapshot of the paginator state, shaped for templates and
// machine-readable output.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// Paginator exposes one page of a fixed collection at a time.
//
// It is not safe for concurrent use.
type Paginator[T any] struct {
	items    []T
	pageSize int
	current  int
}

// New returns a Paginator positioned on page 1.
//
// items is kept by reference; if the caller mutates it afterwards it must call
// SetItems. A pageSize below 1 is normalised to 1.
func New[T any](items []T, pageSize int) *Paginator[T] {
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	return &Paginator[T]{
		items:    items,
		pageSize: pageSize,
		current:  DefaultPage,
	}
}

// CurrentPage returns the 1-based page in view.
func (p *Paginator[T]) CurrentPage() int {
	return p.current
}

// PageSize returns the number of items per page.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// TotalItems returns the length of the underlying collection.
func (p *Paginator[T]) TotalItems() int {
	return len(p.items)
}

// TotalPages returns ceil(len(items)/pageSize); 0 for an empty collection.
func (p *Paginator[T]) TotalPages() int {
	n := len(p.items)
	if n == 0 {
		return 0
	}
	pages := n / p.pageSize
	if n%p.pageSize > 0 {
		pages++
	}
	return pages
}

// Items returns the slice of the current page. An out-of-range page yields an
// empty slice. The result shares memory with the collection but its capacity
// is clipped, so appending to it never overwrites neighbouring items.
func (p *Paginator[T]) Items() []T {
	start := (p.current - 1) * p.pageSize
	if start >= len(p.items) {
		return []T{}
	}
	end := min(start+p.pageSize, len(p.items))
	return p.items[start:end:end]
}

// HasNext reports whether NextPage would move.
func (p *Paginator[T]) HasNext() bool {
	return p.current < p.TotalPages()
}

// HasPrev reports whether PrevPage would move.
func (p *Paginator[T]) HasPrev() bool {
	return p.current > 1
}

// NextPage advances one page unless already on the last one.
func (p *Paginator[T]) NextPage() {
	if p.HasNext() {
		p.current++
	}
}

// PrevPage goes back one page unless already on the first one.
func (p *Paginator[T]) PrevPage() {
	if p.HasPrev() {
		p.current--
	}
}

// SetItems replaces the collection and pulls the current page back into
// range if the new collection is shorter.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
	p.current = min(p.current, max(p.TotalPages(), 1))
}

// Meta returns a snapshot of the current state.
func (p *Paginator[T]) Meta() Meta {
	return Meta{
		CurrentPage: p.current,
		PageSize:    p.pageSize,
		TotalPages:  p.TotalPages(),
		TotalItems:  len(p.items),
		HasPrevious: p.HasPrev(),
		HasNext:     p.HasNext(),
	}
}
