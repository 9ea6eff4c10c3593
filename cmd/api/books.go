// cmd/api/books.go
// This file contains all HTTP request handlers for the book resource,
// including the wishlist/purchased/favorites flag listings.
package main

import (
	"errors"
	"net/http"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"
	"github.com/NigelFerrefe/bookquest-bk/internal/validator"

	"github.com/julienschmidt/httprouter"
)

// bookInput is the payload for creating a book. Optional fields are
// pointers so "absent" and "zero" stay distinguishable.
type bookInput struct {
	Title       string   `json:"title"`
	Author      int64    `json:"author"`
	Genre       []int64  `json:"genre"`
	ImageURL    *string  `json:"image_url"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsBought    *bool    `json:"is_bought"`
	IsFavorite  *bool    `json:"is_favorite"`
}

// resolveReferences checks that the author and every genre id exist for the
// owner, writing a not-found response naming the first missing id.
// Reference existence is resolved before schema validation so a bad
// reference fails with a domain-specific message instead of a generic
// format error. Returns false when a response has been written.
func (app *applicationDependencies) resolveReferences(w http.ResponseWriter, r *http.Request, authorID int64, genreIDs []int64, ownerID int64) bool {
	if _, err := app.models.Authors.Get(authorID, ownerID); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "author not found: %d", authorID)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return false
	}

	for _, genreID := range genreIDs {
		if _, err := app.models.Genres.Get(genreID, ownerID); err != nil {
			switch {
			case errors.Is(err, data.ErrRecordNotFound):
				app.notFoundMessageResponse(w, r, "genre not found: %d", genreID)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return false
		}
	}
	return true
}

// createBookHandler handles POST /api/book.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var input bookInput
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !app.resolveReferences(w, r, input.Author, input.Genre, user.ID) {
		return
	}

	book := &data.Book{
		Title:    input.Title,
		AuthorID: input.Author,
		GenreIDs: input.Genre,
		Price:    input.Price,
		OwnerID:  user.ID,
	}
	if input.ImageURL != nil {
		book.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.IsBought != nil {
		book.IsBought = *input.IsBought
	}
	if input.IsFavorite != nil {
		book.IsFavorite = *input.IsFavorite
	}

	v := validator.New()
	data.ValidateBook(v, book)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Books.Insert(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateTitle):
			app.conflictResponse(w, r, "a book with this title already exists")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "a referenced author or genre no longer exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Re-read to return the populated representation.
	created, err := app.models.Books.Get(book.ID, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": created}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /api/book.
// Supports page, per_page, and a case-insensitive substring search on title.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	app.listBooksByFlag(w, r, nil, nil)
}

// listBooksByFlag runs the shared paginated listing with optional bought and
// favorite constraints.
func (app *applicationDependencies) listBooksByFlag(w http.ResponseWriter, r *http.Request, isBought, isFavorite *bool) {
	user := app.contextGetUser(r)

	v := validator.New()
	filters := app.readFilters(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	books, pagination, err := app.models.Books.GetAll(data.BookFilter{
		OwnerID:    user.ID,
		IsBought:   isBought,
		IsFavorite: isFavorite,
		Filters:    filters,
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"data": books, "pagination": pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /api/book/:id. Because httprouter cannot
// register static segments next to a parameter, it also dispatches the
// /api/book/wishlist|purchased|favorites listings.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	boolPtr := func(b bool) *bool { return &b }

	params := httprouter.ParamsFromContext(r.Context())
	switch params.ByName("id") {
	case "wishlist":
		app.listBooksByFlag(w, r, boolPtr(false), nil)
		return
	case "purchased":
		app.listBooksByFlag(w, r, boolPtr(true), nil)
		return
	case "favorites":
		app.listBooksByFlag(w, r, nil, boolPtr(true))
		return
	}

	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PUT /api/book/:id.
// It reads a partial body, merges it over the stored record (unspecified
// fields keep their prior values), re-checks any changed references, and
// saves the result.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		Title       *string  `json:"title"`
		Author      *int64   `json:"author"`
		Genre       []int64  `json:"genre"`
		ImageURL    *string  `json:"image_url"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		IsBought    *bool    `json:"is_bought"`
		IsFavorite  *bool    `json:"is_favorite"`
	}
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Apply only the fields that were actually provided.
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.AuthorID = *input.Author
	}
	if input.Genre != nil {
		book.GenreIDs = input.Genre
	}
	if input.ImageURL != nil {
		book.ImageURL = *input.ImageURL
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Price != nil {
		book.Price = input.Price
	}
	if input.IsBought != nil {
		book.IsBought = *input.IsBought
	}
	if input.IsFavorite != nil {
		book.IsFavorite = *input.IsFavorite
	}

	if !app.resolveReferences(w, r, book.AuthorID, book.GenreIDs, user.ID) {
		return
	}

	v := validator.New()
	data.ValidateBook(v, book)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Books.Update(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateTitle):
			app.conflictResponse(w, r, "a book with this title already exists")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	updated, err := app.models.Books.Get(book.ID, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": updated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /api/book/:id.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.models.Books.Delete(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	response := envelope{
		"message": "book deleted successfully",
		"book":    envelope{"id": book.ID, "title": book.Title},
	}
	err = app.writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
