package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 45, 10, "/")

	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 5, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/?page=1", p.PrevURL)
	assert.Equal(t, "/?page=3", p.NextURL)
	assert.Equal(t, int64(10), p.Offset())
	assert.True(t, p.ShouldShow())
}

func TestBuildPaginationClampsOutOfRange(t *testing.T) {
	p := BuildPagination(99, 25, 10, "/category/travel")
	assert.Equal(t, 3, p.CurrentPage)
	assert.False(t, p.HasNext)

	p = BuildPagination(-1, 25, 10, "/")
	assert.Equal(t, 1, p.CurrentPage)
	assert.False(t, p.HasPrev)
}

func TestBuildPaginationEmpty(t *testing.T) {
	p := BuildPagination(1, 0, 10, "/")
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.ShouldShow())
	assert.Zero(t, p.Offset())
}

func TestBuildPaginationWindow(t *testing.T) {
	p := BuildPagination(10, 200, 10, "/")

	assert.Len(t, p.Pages, 5)
	assert.Equal(t, 8, p.Pages[0].Number)
	assert.Equal(t, 12, p.Pages[4].Number)
	for _, page := range p.Pages {
		assert.Equal(t, page.Number == 10, page.IsCurrent)
	}

	// Near the start the window stays anchored at page 1
	p = BuildPagination(1, 200, 10, "/")
	assert.Equal(t, 1, p.Pages[0].Number)
	assert.Equal(t, 5, p.Pages[len(p.Pages)-1].Number)
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		url  string
		want int
	}{
		{"/", 1},
		{"/?page=3", 3},
		{"/?page=0", 1},
		{"/?page=-2", 1},
		{"/?page=abc", 1},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, tc.url, nil)
		assert.Equal(t, tc.want, parsePage(r), "url %s", tc.url)
	}
}
