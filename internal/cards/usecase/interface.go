// Package usecase implements business logic orchestration for the card
// inventory. Use cases coordinate the repositories and domain logic behind
// card insertion, sampling, updates and stats.
package usecase

import (
	"context"

	"github.com/allisson/cardvault/internal/cards/domain"
)

// CardRepository defines the interface for card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByNumber(ctx context.Context, cardNumber string) (*domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, cardNumber string) error
	Count(ctx context.Context, cardType *domain.CardType) (int, error)
	GetByOffset(ctx context.Context, cardType *domain.CardType, offset int) (*domain.Card, error)
	CountByType(ctx context.Context) ([]domain.TypeCount, error)
}

// UpdateFields carries the optional fields of a partial card update. Nil means
// the field keeps its stored value. The card number itself is immutable and
// has no slot here.
type UpdateFields struct {
	CardType    *string
	ExpireMonth *string
	ExpireYear  *string
	CVV         *string
}

// Empty reports whether no field is set.
func (u UpdateFields) Empty() bool {
	return u.CardType == nil && u.ExpireMonth == nil && u.ExpireYear == nil && u.CVV == nil
}

// CardUseCase defines the interface for card inventory business logic.
type CardUseCase interface {
	// InsertOne validates and stores a single card record.
	InsertOne(ctx context.Context, card *domain.Card) error
	// InsertBatch stores each card independently and partitions the batch
	// into saved and duplicate card numbers. A failing record never aborts
	// the rest of the batch.
	InsertBatch(ctx context.Context, cards []*domain.Card) (*domain.BatchResult, error)
	// Delete removes a card by its card number.
	Delete(ctx context.Context, cardNumber string) error
	// Update applies a partial update to a stored card and returns the
	// merged record.
	Update(ctx context.Context, cardNumber string, fields UpdateFields) (*domain.Card, error)
	// SampleRandom returns one card drawn uniformly at random, optionally
	// restricted to a card type.
	SampleRandom(ctx context.Context, cardType *domain.CardType) (*domain.Card, error)
	// Stats returns the total record count plus per-type counts.
	Stats(ctx context.Context) (*domain.Stats, error)
}
