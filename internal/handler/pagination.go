package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

// Pagination holds pagination data for templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
	Pages       []PaginationPage
}

// PaginationPage represents a single page link in pagination.
type PaginationPage struct {
	Number    int
	URL       string
	IsCurrent bool
}

// ShouldShow returns true if pagination should be displayed.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// Offset returns the query offset for the current page.
func (p Pagination) Offset() int64 {
	return int64(p.CurrentPage-1) * int64(p.PerPage)
}

// parsePage reads the "page" query parameter, defaulting to 1.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// BuildPagination creates pagination data for templates. The current page is
// clamped into the valid range so a stale page link degrades gracefully
// instead of erroring.
func BuildPagination(currentPage int, totalItems int64, perPage int, baseURL string) Pagination {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	pageURL := func(page int) string {
		return fmt.Sprintf("%s?page=%d", baseURL, page)
	}

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
	if p.HasPrev {
		p.PrevURL = pageURL(currentPage - 1)
	}
	if p.HasNext {
		p.NextURL = pageURL(currentPage + 1)
	}

	// Show up to 5 page links around the current page
	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		if start > end-4 {
			start = end - 4
		}
		if start < 1 {
			start = 1
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PaginationPage{
			Number:    i,
			URL:       pageURL(i),
			IsCurrent: i == currentPage,
		})
	}

	return p
}
