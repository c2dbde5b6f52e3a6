package auth

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tendant/gymdesk/pkg/domain"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup and control characters from free text entered
// by staff. Entities are decoded so the stored value is plain text.
func SanitizeText(input string) string {
	cleaned := removeControlChars(input)
	cleaned = html.UnescapeString(strictPolicy.Sanitize(cleaned))
	return strings.TrimSpace(cleaned)
}

// SanitizeOptional sanitizes an optional field. Values that are blank after
// sanitizing become nil.
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}
	cleaned := SanitizeText(*input)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// ValidateStringLength checks the rune length of value and returns a
// ValidationError for field when it is out of range.
func ValidateStringLength(field, value string, min, max int) error {
	length := len([]rune(value))

	if min > 0 && length < min {
		return domain.NewValidationError(field, fmt.Sprintf("must be at least %d characters long", min))
	}

	if max > 0 && length > max {
		return domain.NewValidationError(field, fmt.Sprintf("must be at most %d characters long", max))
	}

	return nil
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep newline, carriage return, and tab
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
