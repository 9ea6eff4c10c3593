package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookHandlerUnknownAuthor(t *testing.T) {
	app := newTestApplication()

	app.models.Authors = &fakeAuthors{
		getFn: func(id, ownerID int64) (*data.Author, error) {
			return nil, data.ErrRecordNotFound
		},
	}

	body := `{"title": "Dune", "author": 3, "genre": [4]}`
	w := httptest.NewRecorder()
	r := app.ownerRequest(http.MethodPost, "/api/book", strings.NewReader(body), nil)

	app.createBookHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "author not found: 3")
}

func TestCreateBookHandlerUnknownGenre(t *testing.T) {
	app := newTestApplication()

	app.models.Authors = &fakeAuthors{
		getFn: func(id, ownerID int64) (*data.Author, error) {
			return &data.Author{ID: id, Name: "Herbert", OwnerID: ownerID}, nil
		},
	}
	app.models.Genres = &fakeGenres{
		getFn: func(id, ownerID int64) (*data.Genre, error) {
			if id == 7 {
				return nil, data.ErrRecordNotFound
			}
			return &data.Genre{ID: id, Name: "Fantasy", OwnerID: ownerID}, nil
		},
	}

	// Genre 4 exists, genre 7 does not; the error must name 7.
	body := `{"title": "Dune", "author": 3, "genre": [4, 7]}`
	w := httptest.NewRecorder()
	r := app.ownerRequest(http.MethodPost, "/api/book", strings.NewReader(body), nil)

	app.createBookHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "genre not found: 7")
}

func TestUpdateBookHandlerMergesPartialInput(t *testing.T) {
	app := newTestApplication()

	price := 21.90
	stored := &data.Book{
		ID:          10,
		Title:       "La sombra del viento",
		AuthorID:    2,
		GenreIDs:    []int64{4, 5},
		ImageURL:    "https://cdn.example.com/sombra.jpg",
		Description: "Barcelona, 1945",
		Price:       &price,
		IsBought:    false,
		IsFavorite:  false,
		OwnerID:     1,
	}

	var saved *data.Book
	app.models.Books = &fakeBooks{
		getFn: func(id, ownerID int64) (*data.Book, error) {
			require.Equal(t, int64(10), id)
			require.Equal(t, int64(1), ownerID)
			return stored, nil
		},
		updateFn: func(book *data.Book) error {
			saved = book
			return nil
		},
	}
	app.models.Authors = &fakeAuthors{
		getFn: func(id, ownerID int64) (*data.Author, error) {
			return &data.Author{ID: id, Name: "Carlos ruiz zafón", OwnerID: ownerID}, nil
		},
	}
	app.models.Genres = &fakeGenres{
		getFn: func(id, ownerID int64) (*data.Genre, error) {
			return &data.Genre{ID: id, Name: "Fiction", OwnerID: ownerID}, nil
		},
	}

	// Only is_favorite is specified; every other field must survive.
	w := httptest.NewRecorder()
	r := app.ownerRequest(http.MethodPut, "/api/book/10", strings.NewReader(`{"is_favorite": true}`),
		httprouter.Params{{Key: "id", Value: "10"}})

	app.updateBookHandler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, saved)
	assert.True(t, saved.IsFavorite)
	assert.Equal(t, "La sombra del viento", saved.Title)
	assert.Equal(t, int64(2), saved.AuthorID)
	assert.Equal(t, []int64{4, 5}, saved.GenreIDs)
	assert.Equal(t, "https://cdn.example.com/sombra.jpg", saved.ImageURL)
	assert.Equal(t, "Barcelona, 1945", saved.Description)
	require.NotNil(t, saved.Price)
	assert.Equal(t, 21.90, *saved.Price)
	assert.False(t, saved.IsBought)
}

func TestUpdateBookHandlerRejectsChangedUnknownReference(t *testing.T) {
	app := newTestApplication()

	stored := &data.Book{
		ID:       10,
		Title:    "La sombra del viento",
		AuthorID: 2,
		GenreIDs: []int64{4},
		OwnerID:  1,
	}

	app.models.Books = &fakeBooks{
		getFn: func(id, ownerID int64) (*data.Book, error) { return stored, nil },
	}
	app.models.Authors = &fakeAuthors{
		getFn: func(id, ownerID int64) (*data.Author, error) {
			return nil, data.ErrRecordNotFound
		},
	}

	w := httptest.NewRecorder()
	r := app.ownerRequest(http.MethodPut, "/api/book/10", strings.NewReader(`{"author": 99}`),
		httprouter.Params{{Key: "id", Value: "10"}})

	app.updateBookHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "author not found: 99")
}

func TestShowBookHandlerDispatchesFlagListings(t *testing.T) {
	testCases := []struct {
		name         string
		segment      string
		wantBought   *bool
		wantFavorite *bool
	}{
		{name: "wishlist is unbought", segment: "wishlist", wantBought: boolPtrOf(false)},
		{name: "purchased is bought", segment: "purchased", wantBought: boolPtrOf(true)},
		{name: "favorites", segment: "favorites", wantFavorite: boolPtrOf(true)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication()

			var got data.BookFilter
			app.models.Books = &fakeBooks{
				getAllFn: func(filter data.BookFilter) ([]*data.Book, data.Pagination, error) {
					got = filter
					return []*data.Book{}, data.BuildPagination(0, 1, 10), nil
				},
			}

			w := httptest.NewRecorder()
			r := app.ownerRequest(http.MethodGet, "/api/book/"+tc.segment, nil,
				httprouter.Params{{Key: "id", Value: tc.segment}})

			app.showBookHandler(w, r)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, int64(1), got.OwnerID)
			assert.Equal(t, tc.wantBought, got.IsBought)
			assert.Equal(t, tc.wantFavorite, got.IsFavorite)
		})
	}
}

func boolPtrOf(b bool) *bool { return &b }
