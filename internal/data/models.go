// internal/data/models.go
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Users is the user persistence surface the handlers program against.
// Implemented by UserModel; handler tests substitute fakes.
type Users interface {
	Insert(user *User) error
	Get(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetForToken(tokenPlaintext string) (*User, error)
	Update(user *User) error
	Delete(id int64) error
}

// Tokens issues and revokes authentication tokens.
type Tokens interface {
	New(userID int64, ttl time.Duration) (*Token, error)
	Insert(token *Token) error
	DeleteAllForUser(userID int64) error
}

// Authors is the author persistence surface. All reads are owner-scoped.
type Authors interface {
	Insert(author *Author) error
	Get(id, ownerID int64) (*Author, error)
	GetByName(name string, ownerID int64) (*Author, error)
	GetOrCreate(name string, ownerID int64) (*Author, error)
	GetAll(ownerID int64, filters Filters) ([]*Author, Pagination, error)
	Update(author *Author) error
	Delete(id, ownerID int64) error
}

// Genres is the genre persistence surface, shaped like Authors.
type Genres interface {
	Insert(genre *Genre) error
	Get(id, ownerID int64) (*Genre, error)
	GetByName(name string, ownerID int64) (*Genre, error)
	GetOrCreate(name string, ownerID int64) (*Genre, error)
	GetAll(ownerID int64, filters Filters) ([]*Genre, Pagination, error)
	Update(genre *Genre) error
	Delete(id, ownerID int64) error
}

// Books is the book persistence surface. Reads return populated records.
type Books interface {
	Insert(book *Book) error
	Get(id, ownerID int64) (*Book, error)
	GetByTitle(title string, ownerID int64) (*Book, error)
	GetAll(filter BookFilter) ([]*Book, Pagination, error)
	Update(book *Book) error
	Delete(id, ownerID int64) error
}

// Models groups the persistence surfaces handlers work with. The fields are
// interfaces so handler tests can run against fakes while production code
// gets the SQL-backed models from NewModels.
type Models struct {
	Users   Users
	Tokens  Tokens
	Authors Authors
	Genres  Genres
	Books   Books
}

// NewModels wires every model to the given connection pool. Called once at
// startup.
func NewModels(db *sql.DB) Models {
	return Models{
		Users:   UserModel{DB: db},
		Tokens:  TokenModel{DB: db},
		Authors: AuthorModel{DB: db},
		Genres:  GenreModel{DB: db},
		Books:   BookModel{DB: db},
	}
}

var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateName is returned when an author or genre name collides with
	// an existing record for the same owner (case-insensitive).
	ErrDuplicateName = errors.New("duplicate name")

	// ErrDuplicateTitle is returned when a book title collides with an
	// existing record for the same owner (case-insensitive).
	ErrDuplicateTitle = errors.New("duplicate title")

	// ErrDuplicateEmail is returned when a user registers with an email that
	// is already taken.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrInUse is returned when deleting an author or genre that existing
	// books still reference.
	ErrInUse = errors.New("record is referenced by existing books")
)

// Postgres error codes we translate into domain errors. The unique indexes
// close the check-then-write race: a concurrent insert that slips past the
// friendly lookup still surfaces as the same conflict.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// pqCode extracts the Postgres error code from err, or "" if err did not
// come from the driver.
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
