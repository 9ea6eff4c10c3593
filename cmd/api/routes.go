// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/NigelFerrefe/bookquest-bk/internal/data"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the global middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → authenticate → router
//
// Everything under /api except the liveness and health endpoints requires an
// authenticated user; user profile updates additionally require the admin
// role.
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	protected := app.requireAuthenticatedUser

	// Liveness and health
	router.HandlerFunc(http.MethodGet, "/api", app.livenessHandler)
	router.HandlerFunc(http.MethodGet, "/api/health", app.healthHandler)

	// Identity
	router.HandlerFunc(http.MethodPost, "/auth/signup", app.registerUserHandler)
	router.HandlerFunc(http.MethodPost, "/auth/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodGet, "/auth/verify", protected(app.verifyHandler))

	// User profiles
	router.HandlerFunc(http.MethodGet, "/api/user/:id", protected(app.showUserHandler))
	router.HandlerFunc(http.MethodPut, "/api/user/:id", app.requireRole(data.RoleAdmin, app.updateUserHandler))
	router.HandlerFunc(http.MethodDelete, "/api/user/:id", protected(app.deleteUserHandler))

	// Authors
	router.HandlerFunc(http.MethodPost, "/api/author", protected(app.createAuthorHandler))
	router.HandlerFunc(http.MethodGet, "/api/author", protected(app.listAuthorsHandler))
	router.HandlerFunc(http.MethodGet, "/api/author/:id", protected(app.showAuthorHandler))
	router.HandlerFunc(http.MethodPut, "/api/author/:id", protected(app.updateAuthorHandler))
	router.HandlerFunc(http.MethodDelete, "/api/author/:id", protected(app.deleteAuthorHandler))
	router.HandlerFunc(http.MethodGet, "/api/author/:id/books", protected(app.listAuthorBooksHandler))

	// Genres
	router.HandlerFunc(http.MethodPost, "/api/genre", protected(app.createGenreHandler))
	router.HandlerFunc(http.MethodGet, "/api/genre", protected(app.listGenresHandler))
	router.HandlerFunc(http.MethodGet, "/api/genre/:id", protected(app.showGenreHandler))
	router.HandlerFunc(http.MethodPut, "/api/genre/:id", protected(app.updateGenreHandler))
	router.HandlerFunc(http.MethodDelete, "/api/genre/:id", protected(app.deleteGenreHandler))
	router.HandlerFunc(http.MethodGet, "/api/genre/:id/books", protected(app.listGenreBooksHandler))

	// Books. httprouter can't register /api/book/wishlist next to
	// /api/book/:id, so the flag listings are dispatched off the :id segment
	// inside showBookHandler.
	router.HandlerFunc(http.MethodPost, "/api/book", protected(app.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/api/book", protected(app.listBooksHandler))
	router.HandlerFunc(http.MethodGet, "/api/book/:id", protected(app.showBookHandler))
	router.HandlerFunc(http.MethodPut, "/api/book/:id", protected(app.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/api/book/:id", protected(app.deleteBookHandler))

	// External search + wishlist import
	router.HandlerFunc(http.MethodGet, "/api/google-books", protected(app.searchGoogleBooksHandler))
	router.HandlerFunc(http.MethodGet, "/api/google-books/:isbn13", protected(app.lookupGoogleBookHandler))
	router.HandlerFunc(http.MethodPost, "/api/google-books/:isbn13/add-to-wishlist", protected(app.addToWishlistHandler))

	// recoverPanic is outermost so it catches panics from the whole chain.
	return app.recoverPanic(app.rateLimit(app.authenticate(router)))
}
