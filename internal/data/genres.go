// internal/data/genres.go
// Genres carry the same shape and invariants as authors: normalized names,
// unique per owner, deletion blocked while books reference them.
package data

import (
	"database/sql"
	"errors"
	"time"
)

// Genre represents a book genre created by (and visible to) one user.
type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenreModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting genre records.
type GenreModel struct {
	DB *sql.DB
}

// Insert adds a new genre record scoped to its owner.
// Returns ErrDuplicateName when the normalized name already exists for
// that owner.
func (m GenreModel) Insert(genre *Genre) error {
	query := `
		INSERT INTO genres (name, owner_id)
		VALUES ($1, $2)
		RETURNING genre_id, created_at, updated_at`

	err := m.DB.QueryRow(query, genre.Name, genre.OwnerID).
		Scan(&genre.ID, &genre.CreatedAt, &genre.UpdatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// Get retrieves a single genre by id, scoped to the owner.
func (m GenreModel) Get(id, ownerID int64) (*Genre, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT genre_id, name, owner_id, created_at, updated_at
		FROM genres
		WHERE genre_id = $1 AND owner_id = $2`

	var genre Genre
	err := m.DB.QueryRow(query, id, ownerID).Scan(
		&genre.ID,
		&genre.Name,
		&genre.OwnerID,
		&genre.CreatedAt,
		&genre.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetByName looks up a genre by exact normalized name (case-insensitive),
// scoped to the owner.
func (m GenreModel) GetByName(name string, ownerID int64) (*Genre, error) {
	query := `
		SELECT genre_id, name, owner_id, created_at, updated_at
		FROM genres
		WHERE LOWER(name) = LOWER($1) AND owner_id = $2`

	var genre Genre
	err := m.DB.QueryRow(query, name, ownerID).Scan(
		&genre.ID,
		&genre.Name,
		&genre.OwnerID,
		&genre.CreatedAt,
		&genre.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetOrCreate resolves a genre by normalized name, creating it when absent.
func (m GenreModel) GetOrCreate(name string, ownerID int64) (*Genre, error) {
	genre, err := m.GetByName(name, ownerID)
	if err == nil {
		return genre, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	genre = &Genre{Name: name, OwnerID: ownerID}
	err = m.Insert(genre)
	if errors.Is(err, ErrDuplicateName) {
		return m.GetByName(name, ownerID)
	}
	if err != nil {
		return nil, err
	}
	return genre, nil
}

// GetAll retrieves one page of the owner's genres, optionally filtered by a
// case-insensitive substring match on the name.
func (m GenreModel) GetAll(ownerID int64, filters Filters) ([]*Genre, Pagination, error) {
	countQuery := `
		SELECT count(*)
		FROM genres
		WHERE owner_id = $1 AND (name ILIKE '%' || $2 || '%' OR $2 = '')`

	var totalItems int
	err := m.DB.QueryRow(countQuery, ownerID, filters.searchPattern()).Scan(&totalItems)
	if err != nil {
		return nil, Pagination{}, err
	}

	query := `
		SELECT genre_id, name, owner_id, created_at, updated_at
		FROM genres
		WHERE owner_id = $1 AND (name ILIKE '%' || $2 || '%' OR $2 = '')
		ORDER BY name ASC, genre_id ASC
		LIMIT $3 OFFSET $4`

	rows, err := m.DB.Query(query, ownerID, filters.searchPattern(), filters.limit(), filters.offset())
	if err != nil {
		return nil, Pagination{}, err
	}
	defer rows.Close()

	genres := []*Genre{}
	for rows.Next() {
		var genre Genre
		err := rows.Scan(
			&genre.ID,
			&genre.Name,
			&genre.OwnerID,
			&genre.CreatedAt,
			&genre.UpdatedAt,
		)
		if err != nil {
			return nil, Pagination{}, err
		}
		genres = append(genres, &genre)
	}
	if err = rows.Err(); err != nil {
		return nil, Pagination{}, err
	}

	return genres, BuildPagination(totalItems, filters.Page, filters.PerPage), nil
}

// Update saves a renamed genre.
func (m GenreModel) Update(genre *Genre) error {
	query := `
		UPDATE genres
		SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE genre_id = $2 AND owner_id = $3
		RETURNING updated_at`

	err := m.DB.QueryRow(query, genre.Name, genre.ID, genre.OwnerID).Scan(&genre.UpdatedAt)
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

// Delete removes the genre with the given id, scoped to the owner.
// Returns ErrInUse while books still reference the genre.
func (m GenreModel) Delete(id, ownerID int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM genres WHERE genre_id = $1 AND owner_id = $2`, id, ownerID)
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
