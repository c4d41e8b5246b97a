// Package domain defines the core card inventory entities and types.
package domain

import (
	"fmt"
	"strings"

	"github.com/allisson/cardvault/internal/errors"
	"github.com/allisson/cardvault/internal/luhn"
)

// CardType identifies the card network a synthetic record claims to belong to.
type CardType string

// Supported card networks.
const (
	CardTypeVisa       CardType = "VISA"
	CardTypeMastercard CardType = "MASTERCARD"
	CardTypeDiscover   CardType = "DISCOVER"
	CardTypeJCB        CardType = "JCB"
)

// CardTypes lists all supported card networks.
var CardTypes = []CardType{CardTypeVisa, CardTypeMastercard, CardTypeDiscover, CardTypeJCB}

// ParseCardType normalizes a card type string (case-insensitive) to a CardType.
func ParseCardType(s string) (CardType, error) {
	switch CardType(strings.ToUpper(strings.TrimSpace(s))) {
	case CardTypeVisa:
		return CardTypeVisa, nil
	case CardTypeMastercard:
		return CardTypeMastercard, nil
	case CardTypeDiscover:
		return CardTypeDiscover, nil
	case CardTypeJCB:
		return CardTypeJCB, nil
	default:
		return "", errors.Wrap(ErrUnsupportedCardType, s)
	}
}

// Card represents a synthetic payment card record. The card number is the
// primary key of the inventory store and is immutable once persisted.
type Card struct {
	CardType      CardType
	CardNumber    string
	ExpireMonth   string
	ExpireYear    string
	CVV           string
	FormattedInfo string
}

// FormatInfo builds the canonical pipe-separated serialization of the card
// fields: "<number>|<month>|<year>|<cvv>".
func FormatInfo(number, month, year, cvv string) string {
	return fmt.Sprintf("%s|%s|%s|%s", number, month, year, cvv)
}

// RefreshFormattedInfo recomputes FormattedInfo from the other fields.
// Must be called after any mutation so the redundant serialization stays
// consistent with the record.
func (c *Card) RefreshFormattedInfo() {
	c.FormattedInfo = FormatInfo(c.CardNumber, c.ExpireMonth, c.ExpireYear, c.CVV)
}

// Validate checks the structural invariants of a card record: a 16-digit
// Luhn-valid number, a 01-12 month, a 4-digit year, a 3-digit CVV, a known
// card type and a consistent formatted_info.
func (c *Card) Validate() error {
	if len(c.CardNumber) != 16 || !luhn.IsDigits(c.CardNumber) {
		return errors.Wrap(errors.ErrInvalidInput, "card_number must be a 16-digit string")
	}
	if !luhn.Valid(c.CardNumber) {
		return errors.Wrap(errors.ErrInvalidInput, "card_number fails the luhn checksum")
	}
	if _, err := ParseCardType(string(c.CardType)); err != nil {
		return err
	}
	if err := ValidateExpireMonth(c.ExpireMonth); err != nil {
		return err
	}
	if err := ValidateExpireYear(c.ExpireYear); err != nil {
		return err
	}
	if err := ValidateCVV(c.CVV); err != nil {
		return err
	}
	if c.FormattedInfo != FormatInfo(c.CardNumber, c.ExpireMonth, c.ExpireYear, c.CVV) {
		return errors.Wrap(errors.ErrInvalidInput, "formatted_info does not match card fields")
	}
	return nil
}

// ValidateExpireMonth checks for a zero-padded month in 01-12.
func ValidateExpireMonth(month string) error {
	if len(month) != 2 || !luhn.IsDigits(month) {
		return errors.Wrap(errors.ErrInvalidInput, "expire_month must be a 2-digit string")
	}
	if month < "01" || month > "12" {
		return errors.Wrap(errors.ErrInvalidInput, "expire_month must be between 01 and 12")
	}
	return nil
}

// ValidateExpireYear checks for a 4-digit year string.
func ValidateExpireYear(year string) error {
	if len(year) != 4 || !luhn.IsDigits(year) {
		return errors.Wrap(errors.ErrInvalidInput, "expire_year must be a 4-digit string")
	}
	return nil
}

// ValidateCVV checks for a 3-digit CVV string.
func ValidateCVV(cvv string) error {
	if len(cvv) != 3 || !luhn.IsDigits(cvv) {
		return errors.Wrap(errors.ErrInvalidInput, "cvv must be a 3-digit string")
	}
	return nil
}
