// Package validator accumulates field-level validation errors for request
// payloads. Handlers collect every failing field in one pass and return the
// whole map to the client, instead of stopping at the first problem.
package validator

import (
	"regexp"
	"strings"
)

var (
	// EmailRX is the email format check applied to user accounts.
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

	// URLRX matches absolute http(s) URLs, used for cover image links.
	URLRX = regexp.MustCompile(`^https?://\S+$`)
)

// Validator maps field names to error messages. An empty map means valid.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether no field has failed so far.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records a failure for key. The first failure recorded for a
// field wins; later ones for the same field are ignored.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check records message under key when ok is false, e.g.
//
//	v.Check(book.Title != "", "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// NotBlank reports whether value contains any non-whitespace character.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// In reports whether value equals one of the permitted values.
func In(value string, permitted ...string) bool {
	for _, p := range permitted {
		if value == p {
			return true
		}
	}
	return false
}

// Matches reports whether value matches the compiled pattern.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// Unique reports whether all values are distinct. Used to reject duplicate
// genre ids on a book.
func Unique[T comparable](values []T) bool {
	seen := make(map[T]struct{}, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			return false
		}
		seen[value] = struct{}{}
	}
	return true
}
