package validation

import (
	"fmt"
	"strings"
	"unicode"

	"zapbot/internal/constants"
	"zapbot/internal/errors"
)

// ValidatePhoneNumber validates phone number format and length
func ValidatePhoneNumber(phone string) error {
	if phone == "" {
		return errors.New(errors.ErrCodeInvalidInput, "phone number cannot be empty")
	}

	// Strip common prefixes and gateway suffixes before validating
	cleaned := strings.TrimPrefix(phone, "+")
	cleaned = strings.TrimSuffix(cleaned, "@c.us")
	cleaned = strings.TrimSuffix(cleaned, "@s.whatsapp.net")

	if len(cleaned) < constants.MinPhoneNumberLength {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("phone number must be at least %d digits", constants.MinPhoneNumberLength))
	}

	if len(cleaned) > constants.MaxPhoneNumberLength {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("phone number too long (max %d digits)", constants.MaxPhoneNumberLength))
	}

	for _, char := range cleaned {
		if !unicode.IsDigit(char) {
			return errors.New(errors.ErrCodeInvalidInput, "phone number must contain only digits")
		}
	}

	return nil
}

// SanitizeText trims a raw inbound message and drops control characters
// that could corrupt the flat-file lead record.
func SanitizeText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(cleaned)
}
