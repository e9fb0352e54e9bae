package service

import (
	"regexp"
	"strings"

	"libroflow/internal/errors"
)

// ISBNValidator validates ISBN-10 and ISBN-13 identifiers.
type ISBNValidator struct{}

// NewISBNValidator creates a new ISBN validator.
func NewISBNValidator() *ISBNValidator {
	return &ISBNValidator{}
}

var isbnCleaner = regexp.MustCompile(`[\s-]`)

// Validate checks the check digit of an ISBN. An empty ISBN is accepted so
// that partially filled records can still be saved.
func (v *ISBNValidator) Validate(isbn string) error {
	if isbn == "" {
		return nil
	}

	cleaned := isbnCleaner.ReplaceAllString(isbn, "")
	switch len(cleaned) {
	case 10:
		if !v.validateISBN10(cleaned) {
			return errors.ErrInvalidISBN
		}
	case 13:
		if !v.validateISBN13(cleaned) {
			return errors.ErrInvalidISBN
		}
	default:
		return errors.ErrInvalidISBN
	}
	return nil
}

// validateISBN10 validates the weighted mod-11 check digit. The last
// position may be 'X' (value 10).
func (v *ISBNValidator) validateISBN10(isbn string) bool {
	sum := 0
	for i, r := range isbn {
		var val int
		switch {
		case r >= '0' && r <= '9':
			val = int(r - '0')
		case (r == 'X' || r == 'x') && i == 9:
			val = 10
		default:
			return false
		}
		sum += val * (10 - i)
	}
	return sum%11 == 0
}

// validateISBN13 validates the alternating 1/3 weighted mod-10 check digit.
func (v *ISBNValidator) validateISBN13(isbn string) bool {
	if strings.ContainsFunc(isbn, func(r rune) bool { return r < '0' || r > '9' }) {
		return false
	}
	sum := 0
	for i, r := range isbn {
		val := int(r - '0')
		if i%2 == 1 {
			val *= 3
		}
		sum += val
	}
	return sum%10 == 0
}
