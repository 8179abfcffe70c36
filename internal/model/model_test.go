package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zhou-zzz/blog/internal/group"
)

func TestContentItem_DateString(t *testing.T) {
	item := &ContentItem{Date: time.Date(2023, 6, 1, 15, 4, 5, 0, time.UTC)}
	assert.Equal(t, "2023-06-01", item.DateString())
	assert.Empty(t, (&ContentItem{}).DateString())
}

func TestContentItem_GroupsByYear(t *testing.T) {
	items := []*ContentItem{
		{Title: "a", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "b", Date: time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "c", Date: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	g, err := group.ByYear(items)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2023", "2022"}, g.Keys())
}

func TestContentItem_IsPost(t *testing.T) {
	assert.True(t, (&ContentItem{Type: TypePosts}).IsPost())
	assert.False(t, (&ContentItem{Type: TypeProject}).IsPost())
}
