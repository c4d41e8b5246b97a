package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// sampleAttempts bounds the count-then-offset retry loop in SampleRandom.
// A retry only happens when records vanish between the count and the fetch.
const sampleAttempts = 3

// randSource is the subset of math/rand/v2 used for sampling offsets.
type randSource interface {
	IntN(n int) int
}

// globalRand defers to the shared math/rand/v2 generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// cardUseCase implements the CardUseCase interface for the card inventory.
type cardUseCase struct {
	txManager database.TxManager
	cardRepo  CardRepository
	rand      randSource
}

// Option customizes a cardUseCase.
type Option func(*cardUseCase)

// WithRand replaces the random source used for sampling offsets.
func WithRand(r randSource) Option {
	return func(u *cardUseCase) {
		u.rand = r
	}
}

// NewCardUseCase creates a new card use case instance with the provided dependencies.
func NewCardUseCase(txManager database.TxManager, cardRepo CardRepository, opts ...Option) CardUseCase {
	u := &cardUseCase{
		txManager: txManager,
		cardRepo:  cardRepo,
		rand:      globalRand{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// InsertOne validates and stores a single card record. Returns
// domain.ErrCardAlreadyExists when the card number is already stored.
func (u *cardUseCase) InsertOne(ctx context.Context, card *domain.Card) error {
	card.RefreshFormattedInfo()
	if err := card.Validate(); err != nil {
		return err
	}
	return u.cardRepo.Create(ctx, card)
}

// InsertBatch stores each card independently. Records that are already present
// land in Duplicates; so do records the storage rejects, but those are logged
// with the batch id so faults stay distinguishable from plain duplicates.
func (u *cardUseCase) InsertBatch(ctx context.Context, cards []*domain.Card) (*domain.BatchResult, error) {
	batchID := uuid.Must(uuid.NewV7())
	result := &domain.BatchResult{
		Saved:      []string{},
		Duplicates: []string{},
	}

	for _, card := range cards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := u.InsertOne(ctx, card)
		switch {
		case err == nil:
			result.Saved = append(result.Saved, card.CardNumber)
		case apperrors.Is(err, apperrors.ErrConflict):
			result.Duplicates = append(result.Duplicates, card.CardNumber)
		default:
			slog.Error(
				"batch insert record failed",
				"batch_id", batchID.String(),
				"card_number", card.CardNumber,
				"error", err,
			)
			result.Duplicates = append(result.Duplicates, card.CardNumber)
		}
	}

	return result, nil
}

// Delete removes a card by its card number.
func (u *cardUseCase) Delete(ctx context.Context, cardNumber string) error {
	return u.cardRepo.Delete(ctx, cardNumber)
}

// Update applies a partial update to a stored card inside a transaction:
// read, merge the provided fields, recompute formatted_info, validate the
// merged record and write it back.
func (u *cardUseCase) Update(
	ctx context.Context,
	cardNumber string,
	fields UpdateFields,
) (*domain.Card, error) {
	if fields.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	var updated *domain.Card
	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		card, err := u.cardRepo.GetByNumber(txCtx, cardNumber)
		if err != nil {
			return err
		}

		if fields.CardType != nil {
			cardType, err := domain.ParseCardType(*fields.CardType)
			if err != nil {
				return err
			}
			card.CardType = cardType
		}
		if fields.ExpireMonth != nil {
			card.ExpireMonth = *fields.ExpireMonth
		}
		if fields.ExpireYear != nil {
			card.ExpireYear = *fields.ExpireYear
		}
		if fields.CVV != nil {
			card.CVV = *fields.CVV
		}
		card.RefreshFormattedInfo()

		if err := card.Validate(); err != nil {
			return err
		}
		if err := u.cardRepo.Update(txCtx, card); err != nil {
			return err
		}

		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// SampleRandom draws one card uniformly at random from the current
// population, optionally restricted to a card type. The count and the fetch
// are separate statements, so a concurrent delete can strand the offset; in
// that case the draw is retried against a fresh count.
func (u *cardUseCase) SampleRandom(ctx context.Context, cardType *domain.CardType) (*domain.Card, error) {
	for attempt := 0; attempt < sampleAttempts; attempt++ {
		count, err := u.cardRepo.Count(ctx, cardType)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, noCardsError(cardType)
		}

		card, err := u.cardRepo.GetByOffset(ctx, cardType, u.rand.IntN(count))
		if err != nil {
			if apperrors.Is(err, domain.ErrCardNotFound) {
				continue
			}
			return nil, err
		}
		return card, nil
	}

	return nil, noCardsError(cardType)
}

// Stats returns the total record count plus per-type counts, largest group first.
func (u *cardUseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	total, err := u.cardRepo.Count(ctx, nil)
	if err != nil {
		return nil, err
	}

	byType, err := u.cardRepo.CountByType(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		Total:  total,
		ByType: byType,
	}, nil
}

// noCardsError names the filter in the error so callers can tell an empty
// inventory from an empty type slice.
func noCardsError(cardType *domain.CardType) error {
	if cardType != nil {
		return apperrors.Wrap(domain.ErrNoCardsFound, fmt.Sprintf("no %s cards available", *cardType))
	}
	return domain.ErrNoCardsFound
}
