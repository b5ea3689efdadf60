package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		requested string
		number    int
		numPages  int
		next      int
		previous  int
	}{
		{"missing page", 25, "", 1, 3, 2, 0},
		{"not a number", 25, "abc", 1, 3, 2, 0},
		{"zero", 25, "0", 1, 3, 2, 0},
		{"negative", 25, "-4", 1, 3, 2, 0},
		{"middle", 25, "2", 2, 3, 3, 1},
		{"last", 25, "3", 3, 3, 0, 2},
		{"after last", 25, "99", 3, 3, 0, 2},
		{"exact multiple", 20, "2", 2, 2, 0, 1},
		{"empty collection", 0, "5", 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.count, 10, tt.requested)
			assert.Equal(t, tt.number, page.Number)
			assert.Equal(t, tt.numPages, page.NumPages)
			assert.Equal(t, tt.next, page.NextPageNumber)
			assert.Equal(t, tt.previous, page.PreviousPageNumber)
			assert.Equal(t, tt.next != 0, page.HasNext)
			assert.Equal(t, tt.previous != 0, page.HasPrevious)
		})
	}
}

func TestPaginateSplitsPosts(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	for i := 0; i < testPerPage+6; i++ {
		f.post(t, author, nil, "post")
	}

	first, err := f.svc.GlobalFeed(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, first.Posts, testPerPage)
	assert.Equal(t, int64(testPerPage+6), first.Count)
	assert.Equal(t, 2, first.NumPages)

	second, err := f.svc.GlobalFeed(f.ctx, "2")
	require.NoError(t, err)
	assert.Len(t, second.Posts, 6)

	clamped, err := f.svc.GlobalFeed(f.ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, postIDs(second), postIDs(clamped))
}

func TestPaginateEmpty(t *testing.T) {
	f := newFixture(t)
	page, err := f.svc.GlobalFeed(f.ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Empty(t, page.Posts)
	assert.NotNil(t, page.Posts)
}
