package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	p := New(seqInts(5), 2)
	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, 2, p.PageSize())
	assert.Equal(t, 5, p.TotalItems())
}

func TestNew_NonPositivePageSizeClampsToOne(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		p := New(seqInts(3), size)
		assert.Equal(t, 1, p.PageSize(), "size %d", size)
		assert.Equal(t, 3, p.TotalPages(), "size %d", size)
		assert.Equal(t, []int{1}, p.Items(), "size %d", size)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		items    int
		pageSize int
		want     int
	}{
		{name: "empty", items: 0, pageSize: 3, want: 0},
		{name: "single partial page", items: 2, pageSize: 3, want: 1},
		{name: "exact multiple", items: 9, pageSize: 3, want: 3},
		{name: "remainder", items: 10, pageSize: 3, want: 4},
		{name: "page size one", items: 7, pageSize: 1, want: 7},
		{name: "page size larger than items", items: 4, pageSize: 100, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(seqInts(tt.items), tt.pageSize)
			assert.Equal(t, tt.want, p.TotalPages())
		})
	}
}

func TestItems_TenByThree(t *testing.T) {
	p := New(seqInts(10), 3)
	require.Equal(t, 4, p.TotalPages())

	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10}}
	for i, page := range want {
		assert.Equal(t, i+1, p.CurrentPage())
		assert.Equal(t, page, p.Items())
		p.NextPage()
	}
	assert.Equal(t, 4, p.CurrentPage(), "next page saturates on the last page")
}

func TestItems_PageLengths(t *testing.T) {
	for size := 1; size <= 6; size++ {
		for n := 0; n <= 20; n++ {
			p := New(seqInts(n), size)
			total := p.TotalPages()
			for page := 1; page <= total; page++ {
				got := len(p.Items())
				assert.LessOrEqual(t, got, size)
				if page < total {
					assert.Equal(t, size, got, "n=%d size=%d page=%d", n, size, page)
				}
				p.NextPage()
			}
		}
	}
}

func TestItems_Empty(t *testing.T) {
	p := New([]string{}, 5)
	assert.Equal(t, 0, p.TotalPages())
	assert.Equal(t, 1, p.CurrentPage())
	assert.Empty(t, p.Items())
	assert.NotNil(t, p.Items())

	p.NextPage()
	p.PrevPage()
	assert.Equal(t, 1, p.CurrentPage())
}

func TestItems_NilCollection(t *testing.T) {
	var items []int
	p := New(items, 3)
	assert.Equal(t, 0, p.TotalPages())
	assert.Empty(t, p.Items())
}

func TestItems_AppendDoesNotClobberCollection(t *testing.T) {
	items := seqInts(6)
	p := New(items, 2)

	page := p.Items()
	_ = append(page, 99)

	assert.Equal(t, seqInts(6), items)
}

func TestNavigation_Saturates(t *testing.T) {
	p := New(seqInts(10), 3)

	for range 10 {
		p.PrevPage()
	}
	assert.Equal(t, 1, p.CurrentPage())

	for range p.TotalPages() {
		p.NextPage()
	}
	assert.Equal(t, p.TotalPages(), p.CurrentPage())

	for range 10 {
		p.NextPage()
	}
	assert.Equal(t, 4, p.CurrentPage())

	p.PrevPage()
	assert.Equal(t, 3, p.CurrentPage())
	assert.Equal(t, []int{7, 8, 9}, p.Items())
}

func TestHasNextHasPrev(t *testing.T) {
	p := New(seqInts(4), 2)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p.NextPage()
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestSetItems_ClampsCurrentPage(t *testing.T) {
	p := New(seqInts(10), 3)
	p.NextPage()
	p.NextPage()
	p.NextPage()
	require.Equal(t, 4, p.CurrentPage())

	p.SetItems(seqInts(4))
	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, []int{4}, p.Items())

	p.SetItems(nil)
	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, 0, p.TotalPages())
}

func TestSetItems_GrowKeepsPage(t *testing.T) {
	p := New(seqInts(3), 3)
	p.SetItems(seqInts(9))
	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, 3, p.TotalPages())

	p.NextPage()
	assert.Equal(t, []int{4, 5, 6}, p.Items())
}

func TestMeta(t *testing.T) {
	p := New(seqInts(10), 3)
	p.NextPage()

	assert.Equal(t, Meta{
		CurrentPage: 2,
		PageSize:    3,
		TotalPages:  4,
		TotalItems:  10,
		HasPrevious: true,
		HasNext:     true,
	}, p.Meta())

	empty := New([]int{}, 3).Meta()
	assert.Equal(t, 1, empty.CurrentPage)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}
