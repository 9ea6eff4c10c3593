// cmd/api/genres.go
// Genre handlers mirror the author handlers: same normalization, duplicate,
// and reference-blocking rules.
package main

import (
	"errors"
	"net/http"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"
	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

// createGenreHandler handles POST /api/genre.
func (app *applicationDependencies) createGenreHandler(w http.ResponseWriter, r *http.Request) {
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

	_, err = app.models.Genres.GetByName(name, user.ID)
	switch {
	case err == nil:
		app.conflictResponse(w, r, "this genre already exists")
		return
	case !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	genre := &data.Genre{Name: name, OwnerID: user.ID}
	err = app.models.Genres.Insert(genre)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateName):
			app.conflictResponse(w, r, "this genre already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"genre": genre}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listGenresHandler handles GET /api/genre.
func (app *applicationDependencies) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	v := validator.New()
	filters := app.readFilters(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	genres, pagination, err := app.models.Genres.GetAll(user.ID, filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"data": genres, "pagination": pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showGenreHandler handles GET /api/genre/:id.
func (app *applicationDependencies) showGenreHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	genre, err := app.models.Genres.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"genre": genre}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateGenreHandler handles PUT /api/genre/:id (rename).
func (app *applicationDependencies) updateGenreHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	genre, err := app.models.Genres.Get(id, user.ID)
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

	existing, err := app.models.Genres.GetByName(name, user.ID)
	switch {
	case err == nil && existing.ID != genre.ID:
		app.conflictResponse(w, r, "this genre already exists")
		return
	case err != nil && !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	genre.Name = name
	err = app.models.Genres.Update(genre)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateName):
			app.conflictResponse(w, r, "this genre already exists")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"genre": genre}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteGenreHandler handles DELETE /api/genre/:id.
func (app *applicationDependencies) deleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	genre, err := app.models.Genres.Get(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.models.Genres.Delete(id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrInUse):
			app.conflictResponse(w, r, "this genre is still referenced by existing books")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	response := envelope{
		"message": "genre deleted successfully",
		"genre":   envelope{"id": genre.ID, "name": genre.Name},
	}
	err = app.writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listGenreBooksHandler handles GET /api/genre/:id/books.
func (app *applicationDependencies) listGenreBooksHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.models.Genres.Get(id, user.ID)
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
		OwnerID: user.ID,
		GenreID: id,
		Filters: filters,
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
