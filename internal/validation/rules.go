// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/luhn"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string has non-whitespace content.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// DigitString validates an exact-length string of ASCII digits.
type DigitString struct {
	Length int
}

// Validate checks the value is a digit string of the configured length.
func (d DigitString) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_digit_string_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) != d.Length || !luhn.IsDigits(s) {
		return validation.NewError(
			"validation_digit_string",
			fmt.Sprintf("must be a %d-digit string", d.Length),
		)
	}
	return nil
}

// MonthString validates a zero-padded month between 01 and 12.
var MonthString = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_month_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) != 2 || !luhn.IsDigits(s) || s < "01" || s > "12" {
		return validation.NewError("validation_month", "must be a zero-padded month between 01 and 12")
	}
	return nil
})

// LuhnCardNumber validates a 16-digit card number with a correct Luhn checksum.
var LuhnCardNumber = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_card_number_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) != 16 || !luhn.IsDigits(s) {
		return validation.NewError("validation_card_number", "must be a 16-digit string")
	}
	if !luhn.Valid(s) {
		return validation.NewError("validation_card_number_luhn", "fails the luhn checksum")
	}
	return nil
})
