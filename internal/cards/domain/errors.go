package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

// Domain-specific errors for card inventory operations.
var (
	// ErrCardNotFound indicates the requested card number does not exist.
	ErrCardNotFound = errors.Wrap(errors.ErrNotFound, "card not found")

	// ErrCardAlreadyExists indicates a card with the same number is already stored.
	ErrCardAlreadyExists = errors.Wrap(errors.ErrConflict, "card already exists")

	// ErrNoCardsFound indicates a random sample query matched no records.
	ErrNoCardsFound = errors.Wrap(errors.ErrNotFound, "no cards in inventory")

	// ErrUnsupportedCardType indicates an unknown card network was requested.
	ErrUnsupportedCardType = errors.Wrap(errors.ErrInvalidInput, "unsupported card type")

	// ErrNoFieldsToUpdate indicates a partial update carried an empty field set.
	ErrNoFieldsToUpdate = errors.Wrap(errors.ErrInvalidInput, "no fields to update")

	// ErrCardNumberImmutable indicates an update payload tried to change the card number.
	ErrCardNumberImmutable = errors.Wrap(errors.ErrInvalidInput, "card_number cannot be updated")
)
