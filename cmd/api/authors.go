// cmd/api/authors.go
// This file contains all HTTP request handlers for the author resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
package main

import (
	"errors"
	"net/http"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"
	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

// createAuthorHandler handles POST /api/author.
// The name is normalized before the duplicate check so "tolkien" and
// "Tolkien" collide; duplicates within the owner's authors are a 409.
func (app *applicationDependencies) createAuthorHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	var input struct {
		Name string `json:"name"`
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	name := data.NormalizeName(input.Name)

	v := validator.New()
	data.ValidateName(v, name)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	_, err = app.models.Authors.GetByName(name, user.ID)
	switch {
	case err == nil:
		app.conflictResponse(w, r, "this author already exists")
		return
	case !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	author := &data.Author{Name: name, OwnerID: user.ID}
	err = app.models.Authors.Insert(author)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateName):
			// A concurrent create won the race; same answer as above.
			app.conflictResponse(w, r, "this author already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listAuthorsHandler handles GET /api/author.
// Supports page, per_page, and a case-insensitive substring search on name.
func (app *applicationDependencies) listAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	v := validator.New()
	filters := app.readFilters(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	authors, pagination, err := app.models.Authors.GetAll(user.ID, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"data": authors, "pagination": pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showAuthorHandler handles GET /api/author/:id.
func (app *applicationDependencies) showAuthorHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author, err := app.models.Authors.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateAuthorHandler handles PUT /api/author/:id (rename).
// The new name goes through the same normalization and duplicate check as
// creation; the record being updated is excluded from the conflict.
func (app *applicationDependencies) updateAuthorHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author, err := app.models.Authors.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	name := data.NormalizeName(input.Name)

	v := validator.New()
	data.ValidateName(v, name)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	existing, err := app.models.Authors.GetByName(name, user.ID)
	switch {
	case err == nil && existing.ID != author.ID:
		app.conflictResponse(w, r, "this author already exists")
		return
	case err != nil && !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	author.Name = name
	err = app.models.Authors.Update(author)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateName):
			app.conflictResponse(w, r, "this author already exists")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteAuthorHandler handles DELETE /api/author/:id.
// Deletion is blocked with a 409 while books still reference the author.
func (app *applicationDependencies) deleteAuthorHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author, err := app.models.Authors.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.models.Authors.Delete(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInUse):
			app.conflictResponse(w, r, "this author is still referenced by existing books")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	response := envelope{
		"message": "author deleted successfully",
		"author":  envelope{"id": author.ID, "name": author.Name},
	}
	err = app.writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listAuthorBooksHandler handles GET /api/author/:id/books.
// Returns the owner's books for one author, paginated.
func (app *applicationDependencies) listAuthorBooksHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// Reject unknown authors with a 404 rather than an empty list.
	_, err = app.models.Authors.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	v := validator.New()
	filters := app.readFilters(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	books, pagination, err := app.models.Books.GetAll(data.BookFilter{
		OwnerID:  user.ID,
		AuthorID: id,
		Filters:  filters,
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
