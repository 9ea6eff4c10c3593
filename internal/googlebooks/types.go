// Package googlebooks talks to the Google Books volumes API and shapes its
// results for the wishlist flows: a fanned-out search that merges, filters
// and re-paginates provider pages, plus a single-ISBN lookup.
package googlebooks

// volumesResponse is the raw provider payload for one paged request.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is one provider search hit with its nested volume/sale information.
type Volume struct {
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	SaleInfo   SaleInfo   `json:"saleInfo"`
}

type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	Language            string               `json:"language"`
	Categories          []string             `json:"categories"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

type SaleInfo struct {
	ListPrice   *Price `json:"listPrice"`
	RetailPrice *Price `json:"retailPrice"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currencyCode"`
}

// Record is the local shape of one provider hit. It is transient: nothing is
// persisted until the record goes through the wishlist importer.
type Record struct {
	ISBN13      string   `json:"isbn13"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	ImageURL    *string  `json:"imageUrl"`
	Categories  []string `json:"categories"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Language    string   `json:"language"`
}

// ResultFilters echoes the fixed regional/language filter back to the client.
type ResultFilters struct {
	ISBN      []string `json:"isbn"`
	Languages []string `json:"languages"`
}

// LanguageStats counts the records of the final page per language.
type LanguageStats struct {
	ES int `json:"es"`
	CA int `json:"ca"`
}

// SearchResult is the envelope returned by the search endpoint.
type SearchResult struct {
	TotalItems         int           `json:"totalItems"`
	TotalPages         int           `json:"totalPages"`
	CurrentPage        int           `json:"currentPage"`
	ItemsPerPage       int           `json:"itemsPerPage"`
	ItemsInCurrentPage int           `json:"itemsInCurrentPage"`
	Query              string        `json:"query"`
	Filters            ResultFilters `json:"filters"`
	Stats              LanguageStats `json:"stats"`
	Items              []Record      `json:"items"`
}
