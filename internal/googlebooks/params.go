package googlebooks

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

// SearchParams are the validated query parameters of the search endpoint.
type SearchParams struct {
	Query string
	Page  int
	Limit int
}

// ParseSearchParams validates the raw query string of GET /api/google-books.
// Numeric parameters are parsed strictly: an unparseable value is a field
// error with a descriptive message, never silently coerced to the default.
func ParseSearchParams(qs url.Values, v *validator.Validator) SearchParams {
	params := SearchParams{
		Query: strings.TrimSpace(qs.Get("q")),
		Page:  1,
		Limit: 10,
	}

	v.Check(params.Query != "", "q", "must be provided")

	if s := qs.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			v.AddError("page", "must be a number greater than 0")
		} else {
			params.Page = n
		}
	}

	if s := qs.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 40 {
			v.AddError("limit", "must be a number between 1 and 40")
		} else {
			params.Limit = n
		}
	}

	return params
}
