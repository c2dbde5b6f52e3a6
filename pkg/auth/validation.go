package auth

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/tendant/gymdesk/pkg/domain"
)

const maxEmailLength = 254 // RFC 5321

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()./-]{4,32}$`)

// ValidateEmail validates an email address for format and length.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if len(email) > maxEmailLength {
		return domain.NewValidationError("email", "is too long")
	}

	addr, err := mail.ParseAddress(NormalizeEmail(email))
	if err != nil || addr.Address != NormalizeEmail(email) {
		return domain.NewValidationError("email", "is not a valid address")
	}
	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePhone accepts digits with common separators and an optional
// leading plus sign.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(phone)) {
		return domain.NewValidationError("phone", "is not a valid phone number")
	}
	return nil
}
