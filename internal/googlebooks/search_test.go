package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// spanishVolume builds a volume that survives the regional filter.
func spanishVolume(n int) Volume {
	return Volume{
		VolumeInfo: VolumeInfo{
			Title:    fmt.Sprintf("Libro %d", n),
			Authors:  []string{"Carlos Ruiz Zafón"},
			Language: "es",
			IndustryIdentifiers: []IndustryIdentifier{
				{Type: "ISBN_13", Identifier: fmt.Sprintf("97884%08d", n)},
			},
		},
	}
}

// foreignVolume builds a volume the regional filter must drop.
func foreignVolume(n int) Volume {
	return Volume{
		VolumeInfo: VolumeInfo{
			Title:    fmt.Sprintf("Book %d", n),
			Language: "en",
			IndustryIdentifiers: []IndustryIdentifier{
				{Type: "ISBN_13", Identifier: fmt.Sprintf("97801%08d", n)},
			},
		},
	}
}

// newVolumesServer serves batched volume pages keyed on startIndex.
func newVolumesServer(t *testing.T, pages map[int][]Volume) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, err := strconv.Atoi(r.URL.Query().Get("startIndex"))
		require.NoError(t, err)

		resp := volumesResponse{Items: pages[start], TotalItems: 400}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestSearchFiltersAndPaginates(t *testing.T) {
	// Two provider batches: the first mixes Spanish and foreign editions,
	// the second is entirely Spanish. 25 Spanish volumes in total.
	firstBatch := make([]Volume, 0, 40)
	for n := 0; n < 40; n++ {
		if n < 15 {
			firstBatch = append(firstBatch, spanishVolume(n))
		} else {
			firstBatch = append(firstBatch, foreignVolume(n))
		}
	}
	secondBatch := make([]Volume, 0, 10)
	for n := 100; n < 110; n++ {
		secondBatch = append(secondBatch, spanishVolume(n))
	}

	server := newVolumesServer(t, map[int][]Volume{0: firstBatch, 40: secondBatch})
	defer server.Close()

	client := New(server.URL, "", testLogger())

	result, err := client.Search(context.Background(), "zafon", 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 25, result.TotalItems)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.CurrentPage)
	assert.Equal(t, 10, result.ItemsPerPage)
	assert.Equal(t, 10, result.ItemsInCurrentPage)
	assert.Equal(t, "zafon", result.Query)
	assert.Equal(t, []string{"978-84", "979-13"}, result.Filters.ISBN)
	assert.Equal(t, 10, result.Stats.ES)
	assert.Equal(t, 0, result.Stats.CA)

	// Page 2 must hold filtered items 10..19 in provider order: the last
	// five Spanish volumes of batch one, then the first five of batch two.
	require.Len(t, result.Items, 10)
	assert.Equal(t, "Libro 10", result.Items[0].Title)
	assert.Equal(t, "Libro 14", result.Items[4].Title)
	assert.Equal(t, "Libro 100", result.Items[5].Title)
	assert.Equal(t, "Libro 104", result.Items[9].Title)
}

func TestSearchLastPage(t *testing.T) {
	// 55 raw volumes of which 20 survive the filter: limit 10 gives two
	// pages, page 2 holds the last ten surviving volumes, page 3 is out of
	// range.
	raw := make([]Volume, 0, 55)
	for n := 0; n < 55; n++ {
		if n%11 < 4 {
			raw = append(raw, spanishVolume(n))
		} else {
			raw = append(raw, foreignVolume(n))
		}
	}
	server := newVolumesServer(t, map[int][]Volume{0: raw[:40], 40: raw[40:]})
	defer server.Close()

	client := New(server.URL, "", testLogger())

	result, err := client.Search(context.Background(), "zafon", 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 20, result.TotalItems)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, 10, result.ItemsInCurrentPage)
	assert.Equal(t, "Libro 24", result.Items[0].Title)
	assert.Equal(t, "Libro 47", result.Items[9].Title)

	_, err = client.Search(context.Background(), "zafon", 3, 10)
	var pageErr *PageRangeError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, 2, pageErr.TotalPages)
}

func TestSearchPageOutOfRange(t *testing.T) {
	pages := map[int][]Volume{0: {spanishVolume(1), spanishVolume(2)}}
	server := newVolumesServer(t, pages)
	defer server.Close()

	client := New(server.URL, "", testLogger())

	_, err := client.Search(context.Background(), "zafon", 5, 10)

	var pageErr *PageRangeError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, 5, pageErr.Page)
	assert.Equal(t, 1, pageErr.TotalPages)
	assert.Equal(t, "page 5 does not exist, total pages: 1", pageErr.Error())
}

func TestSearchNoMatchesIsEmptyNotError(t *testing.T) {
	server := newVolumesServer(t, map[int][]Volume{0: {foreignVolume(1)}})
	defer server.Close()

	client := New(server.URL, "", testLogger())

	result, err := client.Search(context.Background(), "nothing", 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalItems)
	assert.Empty(t, result.Items)
}

func TestSearchToleratesFailingBatch(t *testing.T) {
	// The second batch window answers 500; the search must still return the
	// volumes from the first window.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startIndex") != "0" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := volumesResponse{Items: []Volume{spanishVolume(1), spanishVolume(2)}, TotalItems: 400}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := New(server.URL, "", testLogger())

	result, err := client.Search(context.Background(), "zafon", 1, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalItems)
	assert.Len(t, result.Items, 2)
}

func TestFilterVolumes(t *testing.T) {
	noISBN := Volume{VolumeInfo: VolumeInfo{Title: "sin isbn", Language: "es"}}
	isbn10Only := Volume{VolumeInfo: VolumeInfo{
		Language:            "es",
		IndustryIdentifiers: []IndustryIdentifier{{Type: "ISBN_10", Identifier: "8401352836"}},
	}}
	wrongLanguage := Volume{VolumeInfo: VolumeInfo{
		Language:            "fr",
		IndustryIdentifiers: []IndustryIdentifier{{Type: "ISBN_13", Identifier: "9788401352836"}},
	}}
	hyphenated := Volume{VolumeInfo: VolumeInfo{
		Language:            "ca",
		IndustryIdentifiers: []IndustryIdentifier{{Type: "ISBN_13", Identifier: "978-84-0135-283-6"}},
	}}

	kept := filterVolumes([]Volume{noISBN, isbn10Only, wrongLanguage, hyphenated, spanishVolume(1)})

	require.Len(t, kept, 2)
	assert.Equal(t, "978-84-0135-283-6", isbn13Of(kept[0]))
}

func TestMapVolume(t *testing.T) {
	volume := Volume{
		VolumeInfo: VolumeInfo{
			Title:       "El nombre del viento",
			Authors:     []string{"Patrick Rothfuss"},
			Description: "Una historia",
			Language:    "es",
			Categories:  []string{"Fantasy"},
			IndustryIdentifiers: []IndustryIdentifier{
				{Type: "ISBN_10", Identifier: "8401352836"},
				{Type: "ISBN_13", Identifier: "9788401352836"},
			},
			ImageLinks: &ImageLinks{
				SmallThumbnail: "https://img.example.com/small.jpg",
				Thumbnail:      "https://img.example.com/big.jpg",
			},
		},
		SaleInfo: SaleInfo{
			ListPrice:   &Price{Amount: 21.90, Currency: "EUR"},
			RetailPrice: &Price{Amount: 18.50, Currency: "EUR"},
		},
	}

	record := mapVolume(volume)

	assert.Equal(t, "9788401352836", record.ISBN13)
	assert.Equal(t, "El nombre del viento", record.Title)
	require.NotNil(t, record.ImageURL)
	assert.Equal(t, "https://img.example.com/big.jpg", *record.ImageURL)
	require.NotNil(t, record.Price)
	assert.Equal(t, 21.90, *record.Price)
	require.NotNil(t, record.Description)
	assert.Equal(t, "Una historia", *record.Description)
}

func TestMapVolumeDefaults(t *testing.T) {
	record := mapVolume(Volume{VolumeInfo: VolumeInfo{
		Title:    "Sin extras",
		Language: "es",
		ImageLinks: &ImageLinks{
			SmallThumbnail: "https://img.example.com/small.jpg",
		},
	}})

	assert.Equal(t, "", record.ISBN13)
	assert.NotNil(t, record.Authors)
	assert.Empty(t, record.Authors)
	assert.NotNil(t, record.Categories)
	assert.Empty(t, record.Categories)
	require.NotNil(t, record.ImageURL)
	assert.Equal(t, "https://img.example.com/small.jpg", *record.ImageURL)
	assert.Nil(t, record.Price)
	assert.Nil(t, record.Description)
}

func TestValidateISBNParam(t *testing.T) {
	testCases := []struct {
		name  string
		isbn  string
		valid bool
	}{
		{name: "plain spanish isbn13", isbn: "9788401352836", valid: true},
		{name: "hyphenated spanish isbn13", isbn: "978-84-0135-283-6", valid: true},
		{name: "979-13 prefix", isbn: "9791312345678", valid: true},
		{name: "too short", isbn: "978840", valid: false},
		{name: "too long", isbn: "978-84-0135-283-6-000", valid: false},
		{name: "letters", isbn: "97884ABCDEFGH", valid: false},
		{name: "foreign prefix", isbn: "9780134190440", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := validator.New()
			ValidateISBNParam(v, tc.isbn)

			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateRecord(t *testing.T) {
	imageURL := "https://img.example.com/cover.jpg"
	badURL := "not a url"

	testCases := []struct {
		name   string
		record Record
		valid  bool
	}{
		{
			name:   "valid record",
			record: Record{ISBN13: "9788401352836", Language: "es", ImageURL: &imageURL},
			valid:  true,
		},
		{
			name:   "catalan record without image",
			record: Record{ISBN13: "9788401352836", Language: "ca"},
			valid:  true,
		},
		{
			name:   "isbn too short",
			record: Record{ISBN13: "978", Language: "es"},
			valid:  false,
		},
		{
			name:   "bad image url",
			record: Record{ISBN13: "9788401352836", Language: "es", ImageURL: &badURL},
			valid:  false,
		},
		{
			name:   "disallowed language",
			record: Record{ISBN13: "9788401352836", Language: "en"},
			valid:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := validator.New()
			ValidateRecord(v, &tc.record)

			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}
