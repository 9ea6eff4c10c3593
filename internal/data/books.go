// internal/data/books.go
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"

	"github.com/lib/pq"
)

// Book represents a tracked book. On reads the author and genre references
// are expanded ("populated") into their full records; on writes only the ids
// matter. A book lives on the wishlist while IsBought is false.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	AuthorID    int64     `json:"-"`
	Author      *Author   `json:"author,omitempty"`
	GenreIDs    []int64   `json:"-"`
	Genres      []*Genre  `json:"genre,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	IsBought    bool      `json:"is_bought"`
	IsFavorite  bool      `json:"is_favorite"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidateBook checks a book payload. Reference ids are only format-checked
// here; their existence is resolved by the handlers beforehand so a missing
// author or genre fails with a not-found naming the id, not a generic
// validation message.
func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 characters long")

	v.Check(book.AuthorID > 0, "author", "must be a valid author id")

	v.Check(len(book.GenreIDs) > 0, "genre", "at least one genre is required")
	for _, id := range book.GenreIDs {
		v.Check(id > 0, "genre", "must contain valid genre ids")
	}
	v.Check(validator.Unique(book.GenreIDs), "genre", "must not contain duplicate genre ids")

	if book.ImageURL != "" {
		v.Check(validator.Matches(book.ImageURL, validator.URLRX), "image_url", "must be a well-formed URL")
	}
	if book.Price != nil {
		v.Check(*book.Price >= 0, "price", "must not be negative")
	}
}

// BookFilter narrows a book listing. Zero-valued reference ids and nil flag
// pointers mean "no constraint".
type BookFilter struct {
	OwnerID    int64
	AuthorID   int64
	GenreID    int64
	IsBought   *bool
	IsFavorite *bool
	Filters    Filters
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB *sql.DB
}

// Insert adds a new book and its genre links in one transaction.
// Returns ErrDuplicateTitle when the title already exists for the owner, and
// ErrRecordNotFound when a referenced author or genre vanished between the
// handler's existence check and the write.
func (m BookModel) Insert(book *Book) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO books (title, author_id, image_url, description, price, is_bought, is_favorite, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING book_id, created_at, updated_at`

	err = tx.QueryRow(
		query,
		book.Title,
		book.AuthorID,
		book.ImageURL,
		book.Description,
		book.Price,
		book.IsBought,
		book.IsFavorite,
		book.OwnerID,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return translateBookError(err)
	}

	if err := insertGenreLinks(tx, book.ID, book.GenreIDs); err != nil {
		return translateBookError(err)
	}

	return tx.Commit()
}

// insertGenreLinks writes the book_genres rows for one book.
func insertGenreLinks(tx *sql.Tx, bookID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(`INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)`, bookID, genreID)
		if err != nil {
			return err
		}
	}
	return nil
}

func translateBookError(err error) error {
	switch pqCode(err) {
	case pqUniqueViolation:
		return ErrDuplicateTitle
	case pqForeignKeyViolation:
		return ErrRecordNotFound
	default:
		return err
	}
}

const bookColumns = `
	books.book_id, books.title, books.image_url, books.description, books.price,
	books.is_bought, books.is_favorite, books.owner_id, books.created_at, books.updated_at,
	authors.author_id, authors.name, authors.owner_id, authors.created_at, authors.updated_at`

// scanBook reads one joined books+authors row.
func scanBook(scanner interface{ Scan(...any) error }) (*Book, error) {
	var book Book
	var author Author

	err := scanner.Scan(
		&book.ID,
		&book.Title,
		&book.ImageURL,
		&book.Description,
		&book.Price,
		&book.IsBought,
		&book.IsFavorite,
		&book.OwnerID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&author.ID,
		&author.Name,
		&author.OwnerID,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	book.AuthorID = author.ID
	book.Author = &author
	return &book, nil
}

// Get retrieves a single populated book by id, scoped to the owner.
func (m BookModel) Get(id, ownerID int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		INNER JOIN authors ON authors.author_id = books.author_id
		WHERE books.book_id = $1 AND books.owner_id = $2`

	book, err := scanBook(m.DB.QueryRow(query, id, ownerID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.populateGenres([]*Book{book}); err != nil {
		return nil, err
	}
	return book, nil
}

// GetByTitle looks up a book by exact title (case-insensitive), scoped to
// the owner. Used by the wishlist importer to prevent duplicate imports.
func (m BookModel) GetByTitle(title string, ownerID int64) (*Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		INNER JOIN authors ON authors.author_id = books.author_id
		WHERE LOWER(books.title) = LOWER($1) AND books.owner_id = $2`

	book, err := scanBook(m.DB.QueryRow(query, title, ownerID))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetAll retrieves one page of populated books matching the filter: always
// owner-scoped, optionally narrowed to an author, a genre, the bought and
// favorite flags, and a case-insensitive title search.
func (m BookModel) GetAll(filter BookFilter) ([]*Book, Pagination, error) {
	where := `
		books.owner_id = $1
		AND ($2 = 0 OR books.author_id = $2)
		AND ($3 = 0 OR EXISTS (
			SELECT 1 FROM book_genres bg
			WHERE bg.book_id = books.book_id AND bg.genre_id = $3))
		AND ($4::boolean IS NULL OR books.is_bought = $4)
		AND ($5::boolean IS NULL OR books.is_favorite = $5)
		AND (books.title ILIKE '%' || $6 || '%' OR $6 = '')`

	args := []any{
		filter.OwnerID,
		filter.AuthorID,
		filter.GenreID,
		filter.IsBought,
		filter.IsFavorite,
		filter.Filters.searchPattern(),
	}

	var totalItems int
	err := m.DB.QueryRow(`SELECT count(*) FROM books WHERE `+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, Pagination{}, err
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		INNER JOIN authors ON authors.author_id = books.author_id
		WHERE ` + where + `
		ORDER BY books.created_at DESC, books.book_id ASC
		LIMIT $7 OFFSET $8`

	rows, err := m.DB.Query(query, append(args, filter.Filters.limit(), filter.Filters.offset())...)
	if err != nil {
		return nil, Pagination{}, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, Pagination{}, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, Pagination{}, err
	}

	if err := m.populateGenres(books); err != nil {
		return nil, Pagination{}, err
	}

	return books, BuildPagination(totalItems, filter.Filters.Page, filter.Filters.PerPage), nil
}

// populateGenres loads the genre records for a batch of books in one query.
func (m BookModel) populateGenres(books []*Book) error {
	if len(books) == 0 {
		return nil
	}

	byID := make(map[int64]*Book, len(books))
	ids := make([]int64, 0, len(books))
	for _, book := range books {
		byID[book.ID] = book
		book.Genres = []*Genre{}
		book.GenreIDs = nil
		ids = append(ids, book.ID)
	}

	query := `
		SELECT bg.book_id, g.genre_id, g.name, g.owner_id, g.created_at, g.updated_at
		FROM book_genres bg
		INNER JOIN genres g ON g.genre_id = bg.genre_id
		WHERE bg.book_id = ANY($1)
		ORDER BY g.name ASC, g.genre_id ASC`

	rows, err := m.DB.Query(query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID int64
		var genre Genre
		err := rows.Scan(&bookID, &genre.ID, &genre.Name, &genre.OwnerID, &genre.CreatedAt, &genre.UpdatedAt)
		if err != nil {
			return err
		}
		book := byID[bookID]
		book.Genres = append(book.Genres, &genre)
		book.GenreIDs = append(book.GenreIDs, genre.ID)
	}
	return rows.Err()
}

// Update saves the modified fields of book and replaces its genre links in
// one transaction. Handlers merge unspecified fields with the stored values
// before calling this, so a full write is safe.
func (m BookModel) Update(book *Book) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE books
		SET title = $1, author_id = $2, image_url = $3, description = $4, price = $5,
		    is_bought = $6, is_favorite = $7, updated_at = CURRENT_TIMESTAMP
		WHERE book_id = $8 AND owner_id = $9
		RETURNING updated_at`

	err = tx.QueryRow(
		query,
		book.Title,
		book.AuthorID,
		book.ImageURL,
		book.Description,
		book.Price,
		book.IsBought,
		book.IsFavorite,
		book.ID,
		book.OwnerID,
	).Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return translateBookError(err)
	}

	if _, err := tx.Exec(`DELETE FROM book_genres WHERE book_id = $1`, book.ID); err != nil {
		return err
	}
	if err := insertGenreLinks(tx, book.ID, book.GenreIDs); err != nil {
		return translateBookError(err)
	}

	return tx.Commit()
}

// Delete removes the book with the given id, scoped to the owner.
// The genre links go with it via ON DELETE CASCADE.
func (m BookModel) Delete(id, ownerID int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM books WHERE book_id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
