package data

import (
	"testing"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestBuildPagination(t *testing.T) {
	testCases := []struct {
		name        string
		totalItems  int
		currentPage int
		perPage     int
		expected    Pagination
	}{
		{
			name:        "last partial page",
			totalItems:  23,
			currentPage: 3,
			perPage:     10,
			expected: Pagination{
				From:         21,
				To:           23,
				PerPage:      10,
				CurrentPage:  3,
				HasMorePages: false,
				NextPage:     nil,
				PrevPage:     intPtr(2),
			},
		},
		{
			name:        "first of several pages",
			totalItems:  23,
			currentPage: 1,
			perPage:     10,
			expected: Pagination{
				From:         1,
				To:           10,
				PerPage:      10,
				CurrentPage:  1,
				HasMorePages: true,
				NextPage:     intPtr(2),
				PrevPage:     nil,
			},
		},
		{
			name:        "middle page",
			totalItems:  23,
			currentPage: 2,
			perPage:     10,
			expected: Pagination{
				From:         11,
				To:           20,
				PerPage:      10,
				CurrentPage:  2,
				HasMorePages: true,
				NextPage:     intPtr(3),
				PrevPage:     intPtr(1),
			},
		},
		{
			name:        "single page holds everything",
			totalItems:  4,
			currentPage: 1,
			perPage:     10,
			expected: Pagination{
				From:         1,
				To:           4,
				PerPage:      10,
				CurrentPage:  1,
				HasMorePages: false,
				NextPage:     nil,
				PrevPage:     nil,
			},
		},
		{
			name:        "exact page boundary",
			totalItems:  20,
			currentPage: 2,
			perPage:     10,
			expected: Pagination{
				From:         11,
				To:           20,
				PerPage:      10,
				CurrentPage:  2,
				HasMorePages: false,
				NextPage:     nil,
				PrevPage:     intPtr(1),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := BuildPagination(tc.totalItems, tc.currentPage, tc.perPage)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestBuildPaginationPageSizes(t *testing.T) {
	// The number of items on a page must always equal To-From+1 and never
	// exceed the page size.
	for totalItems := 1; totalItems <= 45; totalItems += 7 {
		for perPage := 1; perPage <= 12; perPage += 3 {
			totalPages := (totalItems + perPage - 1) / perPage
			for page := 1; page <= totalPages; page++ {
				p := BuildPagination(totalItems, page, perPage)

				require.LessOrEqual(t, p.To-p.From+1, perPage)
				require.Equal(t, page*perPage < totalItems, p.HasMorePages)
				if page == totalPages {
					require.Equal(t, totalItems, p.To)
					require.Nil(t, p.NextPage)
				}
			}
		}
	}
}

func TestValidateFilters(t *testing.T) {
	testCases := []struct {
		name     string
		filters  Filters
		valid    bool
		errorKey string
	}{
		{name: "default paging", filters: Filters{Page: 1, PerPage: 10}, valid: true},
		{name: "max per_page", filters: Filters{Page: 1, PerPage: 100}, valid: true},
		{name: "zero page", filters: Filters{Page: 0, PerPage: 10}, valid: false, errorKey: "page"},
		{name: "negative page", filters: Filters{Page: -3, PerPage: 10}, valid: false, errorKey: "page"},
		{name: "page too large", filters: Filters{Page: 10_000_001, PerPage: 10}, valid: false, errorKey: "page"},
		{name: "zero per_page", filters: Filters{Page: 1, PerPage: 0}, valid: false, errorKey: "per_page"},
		{name: "per_page too large", filters: Filters{Page: 1, PerPage: 101}, valid: false, errorKey: "per_page"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := validator.New()
			ValidateFilters(v, tc.filters)

			assert.Equal(t, tc.valid, v.Valid())
			if !tc.valid {
				assert.Contains(t, v.Errors, tc.errorKey)
			}
		})
	}
}

func TestFiltersLimitOffset(t *testing.T) {
	f := Filters{Page: 3, PerPage: 25}

	assert.Equal(t, 25, f.limit())
	assert.Equal(t, 50, f.offset())
}

func TestFiltersSearchPattern(t *testing.T) {
	testCases := []struct {
		name     string
		search   string
		expected string
	}{
		{name: "plain text untouched", search: "tolkien", expected: "tolkien"},
		{name: "empty stays empty", search: "", expected: ""},
		{name: "percent is literal", search: "100% cotton", expected: `100\% cotton`},
		{name: "underscore is literal", search: "foo_bar", expected: `foo\_bar`},
		{name: "backslash is doubled", search: `a\b`, expected: `a\\b`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := Filters{Search: tc.search}
			assert.Equal(t, tc.expected, f.searchPattern())
		})
	}
}
