// internal/data/authors.go
package data

import (
	"database/sql"
	"errors"
	"time"
)

// Author represents a book author created by (and visible to) one user.
// Names are stored normalized (see NormalizeName) and are unique per owner,
// enforced by a case-insensitive index.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting author records.
type AuthorModel struct {
	DB *sql.DB
}

// Insert adds a new author record scoped to its owner.
// Returns ErrDuplicateName when the normalized name already exists for
// that owner.
func (m AuthorModel) Insert(author *Author) error {
	query := `
		INSERT INTO authors (name, owner_id)
		VALUES ($1, $2)
		RETURNING author_id, created_at, updated_at`

	err := m.DB.QueryRow(query, author.Name, author.OwnerID).
		Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// Get retrieves a single author by id, scoped to the owner.
// Returns ErrRecordNotFound if no such author exists for that owner.
func (m AuthorModel) Get(id, ownerID int64) (*Author, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT author_id, name, owner_id, created_at, updated_at
		FROM authors
		WHERE author_id = $1 AND owner_id = $2`

	var author Author
	err := m.DB.QueryRow(query, id, ownerID).Scan(
		&author.ID,
		&author.Name,
		&author.OwnerID,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &author, nil
}

// GetByName looks up an author by exact normalized name (case-insensitive),
// scoped to the owner. Used for duplicate checks before create/rename.
func (m AuthorModel) GetByName(name string, ownerID int64) (*Author, error) {
	query := `
		SELECT author_id, name, owner_id, created_at, updated_at
		FROM authors
		WHERE LOWER(name) = LOWER($1) AND owner_id = $2`

	var author Author
	err := m.DB.QueryRow(query, name, ownerID).Scan(
		&author.ID,
		&author.Name,
		&author.OwnerID,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &author, nil
}

// GetOrCreate resolves an author by normalized name, creating it when
// absent. A concurrent create that wins the race is handled by re-reading.
func (m AuthorModel) GetOrCreate(name string, ownerID int64) (*Author, error) {
	author, err := m.GetByName(name, ownerID)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	author = &Author{Name: name, OwnerID: ownerID}
	err = m.Insert(author)
	if errors.Is(err, ErrDuplicateName) {
		return m.GetByName(name, ownerID)
	}
	if err != nil {
		return nil, err
	}
	return author, nil
}

// GetAll retrieves one page of the owner's authors, optionally filtered by a
// case-insensitive substring match on the name. The total count is computed
// under the same filter so the pagination descriptor stays accurate even for
// pages past the end of the result set.
func (m AuthorModel) GetAll(ownerID int64, filters Filters) ([]*Author, Pagination, error) {
	countQuery := `
		SELECT count(*)
		FROM authors
		WHERE owner_id = $1 AND (name ILIKE '%' || $2 || '%' OR $2 = '')`

	var totalItems int
	err := m.DB.QueryRow(countQuery, ownerID, filters.searchPattern()).Scan(&totalItems)
	if err != nil {
		return nil, Pagination{}, err
	}

	query := `
		SELECT author_id, name, owner_id, created_at, updated_at
		FROM authors
		WHERE owner_id = $1 AND (name ILIKE '%' || $2 || '%' OR $2 = '')
		ORDER BY name ASC, author_id ASC
		LIMIT $3 OFFSET $4`

	rows, err := m.DB.Query(query, ownerID, filters.searchPattern(), filters.limit(), filters.offset())
	if err != nil {
		return nil, Pagination{}, err
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		var author Author
		err := rows.Scan(
			&author.ID,
			&author.Name,
			&author.OwnerID,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, Pagination{}, err
		}
		authors = append(authors, &author)
	}
	if err = rows.Err(); err != nil {
		return nil, Pagination{}, err
	}

	return authors, BuildPagination(totalItems, filters.Page, filters.PerPage), nil
}

// Update saves a renamed author. Returns ErrDuplicateName when the new name
// collides with another author of the same owner, and ErrRecordNotFound when
// the author no longer exists.
func (m AuthorModel) Update(author *Author) error {
	query := `
		UPDATE authors
		SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE author_id = $2 AND owner_id = $3
		RETURNING updated_at`

	err := m.DB.QueryRow(query, author.Name, author.ID, author.OwnerID).Scan(&author.UpdatedAt)
	if err != nil {
		switch {
		case pqCode(err) == pqUniqueViolation:
			return ErrDuplicateName
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// Delete removes the author with the given id, scoped to the owner.
// Deletion is blocked with ErrInUse while books still reference the author,
// so no dangling references are left behind.
func (m AuthorModel) Delete(id, ownerID int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM authors WHERE author_id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return ErrInUse
		}
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
