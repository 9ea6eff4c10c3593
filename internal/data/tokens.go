// internal/data/tokens.go
package data

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"time"
)

// Token is a stateful bearer credential. Only the SHA-256 hash is stored;
// the plaintext is returned to the client once at login and never again.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	UserID    int64     `json:"-"`
	Expiry    time.Time `json:"expiry"`
}

// generateToken creates a token with 128 bits of entropy, base32-encoded
// for transport (26 characters, no padding).
func generateToken(userID int64, ttl time.Duration) (*Token, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, err
	}

	token := &Token{
		UserID: userID,
		Expiry: time.Now().Add(ttl),
	}
	token.Plaintext = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)

	hash := sha256.Sum256([]byte(token.Plaintext))
	token.Hash = hash[:]

	return token, nil
}

// TokenModel wraps a *sql.DB connection and provides methods for managing
// authentication tokens.
type TokenModel struct {
	DB *sql.DB
}

// New generates a token for the given user and persists it.
func (m TokenModel) New(userID int64, ttl time.Duration) (*Token, error) {
	token, err := generateToken(userID, ttl)
	if err != nil {
		return nil, err
	}
	return token, m.Insert(token)
}

// Insert stores the hashed token.
func (m TokenModel) Insert(token *Token) error {
	query := `
		INSERT INTO tokens (hash, user_id, expiry)
		VALUES ($1, $2, $3)`

	_, err := m.DB.Exec(query, token.Hash, token.UserID, token.Expiry)
	return err
}

// DeleteAllForUser invalidates every token held by a user, e.g. after the
// account is deleted.
func (m TokenModel) DeleteAllForUser(userID int64) error {
	_, err := m.DB.Exec(`DELETE FROM tokens WHERE user_id = $1`, userID)
	return err
}
