// internal/data/users.go
package data

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"time"
	"unicode"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user account can hold. Every account defaults to RoleUser;
// profile updates require RoleAdmin.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AnonymousUser represents an unauthenticated request. It is placed on the
// request context when no valid bearer token is present.
var AnonymousUser = &User{}

// User represents an application account. The password hash is never
// serialized into API responses.
type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	Role      string    `json:"role"`
}

// IsAnonymous reports whether the user is the unauthenticated sentinel.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// password wraps the bcrypt hash of a user password, keeping the plaintext
// around only long enough for validation.
type password struct {
	plaintext *string
	hash      []byte
}

// Set hashes the plaintext password with bcrypt and stores both values.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintextPassword
	p.hash = hash
	return nil
}

// Matches reports whether the plaintext password matches the stored hash.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// ValidatePasswordPlaintext enforces the password policy: minimum length,
// at least one upper-case letter and at least one digit.
func ValidatePasswordPlaintext(v *validator.Validator, plaintext string) {
	v.Check(plaintext != "", "password", "must be provided")
	v.Check(len(plaintext) >= 8, "password", "must be at least 8 characters long")
	v.Check(len(plaintext) <= 72, "password", "must not be more than 72 characters long")

	var hasUpper, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	v.Check(hasUpper, "password", "must contain at least one upper-case letter")
	v.Check(hasDigit, "password", "must contain at least one digit")
}

// ValidateUser checks a user record prior to insert or update.
func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Name != "", "name", "must be provided")
	v.Check(len(user.Name) <= 250, "name", "must not be more than 250 characters long")

	v.Check(user.Email != "", "email", "must be provided")
	v.Check(validator.Matches(user.Email, validator.EmailRX), "email", "must be a valid email address")

	v.Check(validator.In(user.Role, RoleAdmin, RoleUser), "role", "must be either admin or user")

	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}

	// A user without a hash at this point is a programming error, not a
	// client error.
	if user.Password.hash == nil {
		panic("missing password hash for user")
	}
}

// UserModel wraps a *sql.DB connection and provides methods for managing
// user records.
type UserModel struct {
	DB *sql.DB
}

// Insert adds a new user record. Returns ErrDuplicateEmail when the email
// is already registered (case-insensitive).
func (m UserModel) Insert(user *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`

	err := m.DB.QueryRow(query, user.Name, user.Email, user.Password.hash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Get retrieves a user by id. The password hash is loaded so that callers
// can re-validate, but it never reaches API responses.
func (m UserModel) Get(id int64) (*User, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT user_id, created_at, name, email, password_hash, role
		FROM users
		WHERE user_id = $1`

	var user User
	err := m.DB.QueryRow(query, id).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Role,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address (case-insensitive).
func (m UserModel) GetByEmail(email string) (*User, error) {
	query := `
		SELECT user_id, created_at, name, email, password_hash, role
		FROM users
		WHERE LOWER(email) = LOWER($1)`

	var user User
	err := m.DB.QueryRow(query, email).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Role,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// GetForToken retrieves the user that owns an unexpired authentication token.
func (m UserModel) GetForToken(tokenPlaintext string) (*User, error) {
	tokenHash := sha256.Sum256([]byte(tokenPlaintext))

	query := `
		SELECT users.user_id, users.created_at, users.name, users.email, users.password_hash, users.role
		FROM users
		INNER JOIN tokens ON users.user_id = tokens.user_id
		WHERE tokens.hash = $1 AND tokens.expiry > $2`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var user User
	err := m.DB.QueryRowContext(ctx, query, tokenHash[:], time.Now()).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Role,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// Update saves the modified fields of user back to the database.
func (m UserModel) Update(user *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, role = $4
		WHERE user_id = $5`

	_, err := m.DB.Exec(query, user.Name, user.Email, user.Password.hash, user.Role, user.ID)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Delete removes the user with the given id.
// Returns ErrRecordNotFound if no matching record exists.
func (m UserModel) Delete(id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.Exec(`DELETE FROM users WHERE user_id = $1`, id)
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
