// internal/data/pagination.go
package data

import (
	"strings"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

// Filters holds the pagination and search parameters extracted from list
// endpoint query strings.
type Filters struct {
	Page    int    // Current page number (1-indexed)
	PerPage int    // Number of records per page
	Search  string // Optional case-insensitive substring match on name/title
}

// ValidateFilters checks that the page parameters are inside sane bounds.
func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PerPage > 0, "per_page", "must be greater than zero")
	v.Check(f.PerPage <= 100, "per_page", "must be a maximum of 100")
}

// limit returns the SQL LIMIT value derived from PerPage.
func (f Filters) limit() int { return f.PerPage }

// offset returns the SQL OFFSET value derived from Page and PerPage.
func (f Filters) offset() int { return (f.Page - 1) * f.PerPage }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern returns Search with the LIKE wildcard characters escaped,
// so a search for "100%" matches the literal text instead of everything.
func (f Filters) searchPattern() string {
	return likeEscaper.Replace(f.Search)
}

// Pagination describes the position of one page inside the full result set.
// It is returned alongside every list response. NextPage and PrevPage are
// pointers so that they serialize as null when there is no such page.
type Pagination struct {
	From         int  `json:"from"`
	To           int  `json:"to"`
	PerPage      int  `json:"per_page"`
	CurrentPage  int  `json:"current_page"`
	HasMorePages bool `json:"has_more_pages"`
	NextPage     *int `json:"next_page"`
	PrevPage     *int `json:"prev_page"`
}

// BuildPagination computes the pagination descriptor for a page slice.
// It performs no range checking of its own: callers decide whether a page
// past the end of the result set is an error (the external search endpoint
// rejects it, the resource list endpoints do not).
func BuildPagination(totalItems, currentPage, perPage int) Pagination {
	totalPages := (totalItems + perPage - 1) / perPage

	p := Pagination{
		From:         (currentPage-1)*perPage + 1,
		To:           min(currentPage*perPage, totalItems),
		PerPage:      perPage,
		CurrentPage:  currentPage,
		HasMorePages: currentPage < totalPages,
	}

	if currentPage < totalPages {
		next := currentPage + 1
		p.NextPage = &next
	}
	if currentPage > 1 {
		prev := currentPage - 1
		p.PrevPage = &prev
	}

	return p
}
