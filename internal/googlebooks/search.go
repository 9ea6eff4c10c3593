package googlebooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

var isbnDigitsRX = regexp.MustCompile(`^\d{10,13}$`)

// PageRangeError reports a request for a page beyond the filtered result
// set. Handlers translate it into a 404 naming the valid range.
type PageRangeError struct {
	Page       int
	TotalPages int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("page %d does not exist, total pages: %d", e.Page, e.TotalPages)
}

// Search fans out batchCount paged requests to the provider, merges the
// batches in provider order, keeps only Spanish-edition volumes, and slices
// out the caller's page. A failing batch degrades that window to empty
// instead of failing the whole search; only an out-of-range page is an
// error.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*SearchResult, error) {
	batches := make([][]Volume, batchCount)

	var wg sync.WaitGroup
	for i := 0; i < batchCount; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			var resp volumesResponse
			err := c.getJSON(ctx, c.volumesURL(query, i*batchSize, batchSize), &resp)
			if err != nil {
				c.logger.Warn("search batch failed", "batch", i+1, "error", err)
				return
			}
			batches[i] = resp.Items
		}()
	}
	wg.Wait()

	var merged []Volume
	for _, batch := range batches {
		merged = append(merged, batch...)
	}

	filtered := filterVolumes(merged)

	totalItems := len(filtered)
	totalPages := (totalItems + limit - 1) / limit
	if page > totalPages && totalItems > 0 {
		return nil, &PageRangeError{Page: page, TotalPages: totalPages}
	}

	start := (page - 1) * limit
	end := min(start+limit, totalItems)
	var pageVolumes []Volume
	if start < totalItems {
		pageVolumes = filtered[start:end]
	}

	items := make([]Record, 0, len(pageVolumes))
	stats := LanguageStats{}
	for _, volume := range pageVolumes {
		record := mapVolume(volume)

		v := validator.New()
		ValidateRecord(v, &record)
		if !v.Valid() {
			c.logger.Warn("provider record failed validation", "isbn13", record.ISBN13, "errors", v.Errors)
			continue
		}

		switch record.Language {
		case "es":
			stats.ES++
		case "ca":
			stats.CA++
		}
		items = append(items, record)
	}

	return &SearchResult{
		TotalItems:         totalItems,
		TotalPages:         totalPages,
		CurrentPage:        page,
		ItemsPerPage:       limit,
		ItemsInCurrentPage: len(items),
		Query:              query,
		Filters: ResultFilters{
			ISBN:      []string{"978-84", "979-13"},
			Languages: allowedLanguages,
		},
		Stats: stats,
		Items: items,
	}, nil
}

// filterVolumes keeps volumes that carry an ISBN-13 with a Spanish regional
// prefix and an allowed language code, preserving order. Everything else is
// silently dropped.
func filterVolumes(volumes []Volume) []Volume {
	kept := make([]Volume, 0, len(volumes))
	for _, volume := range volumes {
		isbn := isbn13Of(volume)
		if isbn == "" {
			continue
		}
		if !hasSpanishPrefix(isbn) {
			continue
		}
		if !validator.In(volume.VolumeInfo.Language, allowedLanguages...) {
			continue
		}
		kept = append(kept, volume)
	}
	return kept
}

// isbn13Of returns the volume's ISBN_13 identifier, or "" when absent.
func isbn13Of(volume Volume) string {
	for _, id := range volume.VolumeInfo.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	return ""
}

func hasSpanishPrefix(isbn string) bool {
	clean := NormalizeISBN(isbn)
	for _, prefix := range isbnPrefixes {
		if strings.HasPrefix(clean, prefix) {
			return true
		}
	}
	return false
}

// mapVolume shapes a raw provider volume into a Record: thumbnail preferred
// over smallThumbnail, list price over retail price, absent arrays become
// empty slices.
func mapVolume(volume Volume) Record {
	info := volume.VolumeInfo

	record := Record{
		ISBN13:     isbn13Of(volume),
		Title:      info.Title,
		Authors:    info.Authors,
		Categories: info.Categories,
		Language:   info.Language,
	}
	if record.Authors == nil {
		record.Authors = []string{}
	}
	if record.Categories == nil {
		record.Categories = []string{}
	}

	if info.ImageLinks != nil {
		if info.ImageLinks.Thumbnail != "" {
			record.ImageURL = &info.ImageLinks.Thumbnail
		} else if info.ImageLinks.SmallThumbnail != "" {
			record.ImageURL = &info.ImageLinks.SmallThumbnail
		}
	}

	if info.Description != "" {
		record.Description = &info.Description
	}

	if volume.SaleInfo.ListPrice != nil {
		record.Price = &volume.SaleInfo.ListPrice.Amount
	} else if volume.SaleInfo.RetailPrice != nil {
		record.Price = &volume.SaleInfo.RetailPrice.Amount
	}

	return record
}

// ValidateRecord checks a shaped provider record before it is returned or
// imported. Records failing this in the search path are dropped, not
// surfaced as request errors.
func ValidateRecord(v *validator.Validator, record *Record) {
	v.Check(len(record.ISBN13) >= 10, "isbn13", "must be at least 10 characters long")
	if record.ImageURL != nil {
		v.Check(validator.Matches(*record.ImageURL, validator.URLRX), "imageUrl", "must be an http(s) URL")
	}
	v.Check(validator.In(record.Language, allowedLanguages...), "language", "must be one of: es, ca")
}

// ValidateISBNParam checks the :isbn13 URL parameter of the wishlist import
// endpoint: 10-17 characters, digits once hyphens are stripped, and a
// Spanish regional prefix.
func ValidateISBNParam(v *validator.Validator, isbn string) {
	v.Check(len(isbn) >= 10, "isbn13", "must have at least 10 characters")
	v.Check(len(isbn) <= 17, "isbn13", "must not exceed 17 characters")

	clean := NormalizeISBN(isbn)
	v.Check(validator.Matches(clean, isbnDigitsRX), "isbn13", "must contain only numbers (hyphens are allowed)")
	v.Check(hasSpanishPrefix(isbn), "isbn13", "must be a Spanish edition ISBN (978-84 or 979-13)")
}
