// file: internal/server/validators.go
// version: 2.1.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents a validation error with code
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// isbnShape matches an ISBN-10 or ISBN-13 once hyphens and spaces are
// removed: digits, with X allowed only as the check digit. Checksums are
// left to the remote service.
var isbnShape = regexp.MustCompile(`^[0-9]{9,12}[0-9Xx]$`)

var isbnSeparators = strings.NewReplacer("-", "", " ", "")

// ValidateISBN rejects values that cannot be an ISBN in any notation.
func ValidateISBN(isbn string) error {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return ValidationError{
			Field:   "isbn",
			Message: "isbn is required",
			Code:    "ISBN_REQUIRED",
		}
	}
	if !isbnShape.MatchString(isbnSeparators.Replace(isbn)) {
		return ValidationError{
			Field:   "isbn",
			Message: fmt.Sprintf("%q is not an isbn", isbn),
			Code:    "ISBN_INVALID",
		}
	}
	return nil
}

// ValidateISBNList checks the size of a batch and every entry in it.
func ValidateISBNList(isbns []string, maxLength int) error {
	if len(isbns) == 0 {
		return ValidationError{
			Field:   "isbns",
			Message: "at least one isbn is required",
			Code:    "ISBNS_TOO_SHORT",
		}
	}
	if maxLength > 0 && len(isbns) > maxLength {
		return ValidationError{
			Field:   "isbns",
			Message: fmt.Sprintf("isbns must not have more than %d items", maxLength),
			Code:    "ISBNS_TOO_LONG",
		}
	}
	for _, isbn := range isbns {
		if err := ValidateISBN(isbn); err != nil {
			return err
		}
	}
	return nil
}
