// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/cards/usecase"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// CardRequest represents one card record in insert payloads. formatted_info
// is accepted for compatibility with existing callers but always recomputed
// server-side.
type CardRequest struct {
	CardType      string `json:"card_type"`
	CardNumber    string `json:"card_number"`
	ExpireMonth   string `json:"expire_month"`
	ExpireYear    string `json:"expire_year"`
	CVV           string `json:"cvv"`
	FormattedInfo string `json:"formatted_info"`
}

// Validate checks if the card request is valid.
func (r *CardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CardType, validation.Required, customValidation.NotBlank),
		validation.Field(&r.CardNumber, validation.Required, customValidation.LuhnCardNumber),
		validation.Field(&r.ExpireMonth, validation.Required, customValidation.MonthString),
		validation.Field(&r.ExpireYear, validation.Required, customValidation.DigitString{Length: 4}),
		validation.Field(&r.CVV, validation.Required, customValidation.DigitString{Length: 3}),
	)
}

// ToDomain maps the request to a domain card. The card type is normalized
// when it parses; an unknown type is carried as-is so domain validation can
// reject it with a precise error.
func (r *CardRequest) ToDomain() *domain.Card {
	cardType := domain.CardType(r.CardType)
	if parsed, err := domain.ParseCardType(r.CardType); err == nil {
		cardType = parsed
	}

	card := &domain.Card{
		CardType:    cardType,
		CardNumber:  r.CardNumber,
		ExpireMonth: r.ExpireMonth,
		ExpireYear:  r.ExpireYear,
		CVV:         r.CVV,
	}
	card.RefreshFormattedInfo()
	return card
}

// SaveCardsRequest contains the payload of a batch insert.
type SaveCardsRequest struct {
	Cards []CardRequest `json:"cards"`
}

// Validate checks if the save cards request is valid. Per-record field
// problems are not validated here: a batch never fails as a whole because of
// one bad record.
func (r *SaveCardsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Cards, validation.NotNil),
	)
}

// ToDomain maps the batch payload to domain cards.
func (r *SaveCardsRequest) ToDomain() []*domain.Card {
	cards := make([]*domain.Card, 0, len(r.Cards))
	for i := range r.Cards {
		cards = append(cards, r.Cards[i].ToDomain())
	}
	return cards
}

// UpdateCardRequest contains the partial update payload. Nil fields keep
// their stored values. card_number is bound only so its presence can be
// rejected: the card number is the record key and cannot change.
type UpdateCardRequest struct {
	CardType    *string `json:"card_type"`
	CardNumber  *string `json:"card_number"`
	ExpireMonth *string `json:"expire_month"`
	ExpireYear  *string `json:"expire_year"`
	CVV         *string `json:"cvv"`
}

// Validate checks the provided fields of the update request.
func (r *UpdateCardRequest) Validate() error {
	if r.CardNumber != nil {
		return domain.ErrCardNumberImmutable
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.CardType, validation.By(optional(r.CardType, customValidation.NotBlank))),
		validation.Field(&r.ExpireMonth, validation.By(optional(r.ExpireMonth, customValidation.MonthString))),
		validation.Field(&r.ExpireYear, validation.By(optional(r.ExpireYear, customValidation.DigitString{Length: 4}))),
		validation.Field(&r.CVV, validation.By(optional(r.CVV, customValidation.DigitString{Length: 3}))),
	)
}

// optional applies a string rule to a *string field only when it is set.
func optional(field *string, rule validation.Rule) func(value interface{}) error {
	return func(value interface{}) error {
		if field == nil {
			return nil
		}
		return rule.Validate(*field)
	}
}

// ToUpdateFields maps the request to the usecase field set.
func (r *UpdateCardRequest) ToUpdateFields() usecase.UpdateFields {
	return usecase.UpdateFields{
		CardType:    r.CardType,
		ExpireMonth: r.ExpireMonth,
		ExpireYear:  r.ExpireYear,
		CVV:         r.CVV,
	}
}
