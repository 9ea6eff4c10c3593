// cmd/api/googlebooks.go
// This file contains the handlers that front the Google Books API:
// regional search, single-ISBN lookup, and the wishlist importer that
// turns an external record into a local book.
package main

import (
	"errors"
	"net/http"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"
	"github.com/NigelFerrefe/bookquest-bk/internal/googlebooks"
	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

const (
	fallbackAuthor = "Unknown Author"
	fallbackGenre  = "Uncategorized"
)

// searchGoogleBooksHandler handles GET /api/google-books.
// The upstream is queried in parallel batches, filtered down to Spanish
// market editions, and re-paginated locally.
func (app *applicationDependencies) searchGoogleBooksHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	params := googlebooks.ParseSearchParams(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	result, err := app.search.Search(r.Context(), params.Query, params.Page, params.Limit)
	if err != nil {
		var pageErr *googlebooks.PageRangeError
		switch {
		case errors.As(err, &pageErr):
			app.notFoundMessageResponse(w, r, "%s", pageErr.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, result, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// lookupGoogleBookHandler handles GET /api/google-books/:isbn13.
// Upstream failures surface as 502 because the client can do nothing
// about them; an ISBN with no match is a plain 404.
func (app *applicationDependencies) lookupGoogleBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := app.readNamedParam(r, "isbn13")

	v := validator.New()
	googlebooks.ValidateISBNParam(v, isbn)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	record, err := app.search.Lookup(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, googlebooks.ErrNoResults):
			app.notFoundMessageResponse(w, r, "no book found with ISBN %s", googlebooks.NormalizeISBN(isbn))
		default:
			app.badGatewayResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": record}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// addToWishlistHandler handles POST /api/google-books/:isbn13/add-to-wishlist.
// The client sends the record it got from search or lookup; the handler
// resolves (or creates) the author and genres, re-hosts the cover image,
// and inserts the book as an unbought wishlist entry.
func (app *applicationDependencies) addToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	isbn := app.readNamedParam(r, "isbn13")

	v := validator.New()
	googlebooks.ValidateISBNParam(v, isbn)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	var record googlebooks.Record
	err := app.readJSON(w, r, &record)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	googlebooks.ValidateRecord(v, &record)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if googlebooks.NormalizeISBN(record.ISBN13) != googlebooks.NormalizeISBN(isbn) {
		v.AddError("isbn13", "must match the ISBN in the URL")
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Adding the same title twice is a conflict, not an error in the body.
	_, err = app.models.Books.GetByTitle(record.Title, user.ID)
	switch {
	case err == nil:
		app.conflictResponse(w, r, "this book is already in your wishlist")
		return
	case errors.Is(err, data.ErrRecordNotFound):
		// keep going
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	authorName := fallbackAuthor
	if len(record.Authors) > 0 {
		authorName = record.Authors[0]
	}
	author, err := app.models.Authors.GetOrCreate(data.NormalizeName(authorName), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	categories := record.Categories
	if len(categories) == 0 {
		categories = []string{fallbackGenre}
	}
	genreIDs := make([]int64, 0, len(categories))
	for _, category := range categories {
		genre, err := app.models.Genres.GetOrCreate(data.NormalizeName(category), user.ID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		genreIDs = append(genreIDs, genre.ID)
	}

	// Cover re-hosting is best effort. A failed upload means the book is
	// stored without an image, not a failed request.
	var imageURL string
	if record.ImageURL != nil && *record.ImageURL != "" {
		hosted, err := app.covers.Upload(r.Context(), *record.ImageURL)
		if err != nil {
			app.logger.Warn("cover upload failed, storing book without image", "isbn13", record.ISBN13, "error", err.Error())
		} else {
			imageURL = hosted
		}
	}

	book := &data.Book{
		Title:      record.Title,
		AuthorID:   author.ID,
		GenreIDs:   genreIDs,
		ImageURL:   imageURL,
		Price:      record.Price,
		IsBought:   false,
		IsFavorite: false,
		OwnerID:    user.ID,
	}
	if record.Description != nil {
		book.Description = *record.Description
	}

	data.ValidateBook(v, book)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Books.Insert(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateTitle):
			app.conflictResponse(w, r, "this book is already in your wishlist")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	created, err := app.models.Books.Get(book.ID, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"message": "book added to wishlist",
		"book":    created,
	}
	err = app.writeJSON(w, http.StatusCreated, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
