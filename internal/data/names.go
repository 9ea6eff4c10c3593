// internal/data/names.go
package data

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NigelFerrefe/bookquest-bk/internal/validator"
)

// NormalizeName canonicalizes an author or genre name: first letter upper
// case, the remainder lower case. It must be applied before any uniqueness
// check or persist so that "tolkien", "TOLKIEN" and "Tolkien" all collapse
// to the same record. The function is idempotent.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}

// ValidateName checks an already-normalized author or genre name.
// Normalization and validation are deliberately separate steps so each can
// be tested on its own.
func ValidateName(v *validator.Validator, name string) {
	v.Check(validator.NotBlank(name), "name", "must be provided")
	v.Check(len(name) <= 250, "name", "must not be more than 250 characters long")
}
