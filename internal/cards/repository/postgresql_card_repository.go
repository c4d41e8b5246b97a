// Package repository provides data persistence implementations for card records.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/database"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

// PostgreSQLCardRepository handles card persistence for PostgreSQL.
type PostgreSQLCardRepository struct {
	db *sql.DB
}

// NewPostgreSQLCardRepository creates a new PostgreSQLCardRepository.
func NewPostgreSQLCardRepository(db *sql.DB) *PostgreSQLCardRepository {
	return &PostgreSQLCardRepository{
		db: db,
	}
}

// Create inserts a new card. Returns domain.ErrCardAlreadyExists when the
// card number is already stored; the row is untouched in that case.
func (r *PostgreSQLCardRepository) Create(ctx context.Context, card *domain.Card) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO credit_cards (card_type, card_number, expire_month, expire_year, cvv, formatted_info)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx, query,
		card.CardType, card.CardNumber, card.ExpireMonth, card.ExpireYear, card.CVV, card.FormattedInfo,
	)
	if err != nil {
		// Check for unique constraint violation (duplicate card number)
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrCardAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create card")
	}
	return nil
}

// GetByNumber retrieves a card by its card number.
func (r *PostgreSQLCardRepository) GetByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	var card domain.Card
	querier := database.GetTx(ctx, r.db)

	query := `SELECT card_type, card_number, expire_month, expire_year, cvv, formatted_info
			  FROM credit_cards WHERE card_number = $1`

	err := querier.QueryRowContext(ctx, query, cardNumber).Scan(
		&card.CardType, &card.CardNumber, &card.ExpireMonth, &card.ExpireYear, &card.CVV, &card.FormattedInfo,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card by number")
	}

	return &card, nil
}

// Update rewrites the mutable fields of an existing card. The card number is
// the key and is never changed.
func (r *PostgreSQLCardRepository) Update(ctx context.Context, card *domain.Card) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE credit_cards
			  SET card_type = $1, expire_month = $2, expire_year = $3, cvv = $4, formatted_info = $5
			  WHERE card_number = $6`

	result, err := querier.ExecContext(
		ctx, query,
		card.CardType, card.ExpireMonth, card.ExpireYear, card.CVV, card.FormattedInfo, card.CardNumber,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update card")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read update result")
	}
	if rows == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// Delete removes a card by its card number.
func (r *PostgreSQLCardRepository) Delete(ctx context.Context, cardNumber string) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM credit_cards WHERE card_number = $1`, cardNumber)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete card")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read delete result")
	}
	if rows == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}

// Count returns the number of stored cards, optionally filtered by card type.
func (r *PostgreSQLCardRepository) Count(ctx context.Context, cardType *domain.CardType) (int, error) {
	querier := database.GetTx(ctx, r.db)

	var count int
	var err error
	if cardType != nil {
		err = querier.QueryRowContext(
			ctx, `SELECT COUNT(*) FROM credit_cards WHERE card_type = $1`, *cardType,
		).Scan(&count)
	} else {
		err = querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM credit_cards`).Scan(&count)
	}
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count cards")
	}
	return count, nil
}

// GetByOffset returns the card at the given offset in card-number order,
// optionally filtered by card type. Returns domain.ErrCardNotFound when the
// offset falls outside the current population (e.g. after concurrent deletes).
func (r *PostgreSQLCardRepository) GetByOffset(
	ctx context.Context,
	cardType *domain.CardType,
	offset int,
) (*domain.Card, error) {
	querier := database.GetTx(ctx, r.db)

	var card domain.Card
	var err error
	if cardType != nil {
		query := `SELECT card_type, card_number, expire_month, expire_year, cvv, formatted_info
				  FROM credit_cards WHERE card_type = $1
				  ORDER BY card_number OFFSET $2 LIMIT 1`
		err = querier.QueryRowContext(ctx, query, *cardType, offset).Scan(
			&card.CardType, &card.CardNumber, &card.ExpireMonth, &card.ExpireYear, &card.CVV, &card.FormattedInfo,
		)
	} else {
		query := `SELECT card_type, card_number, expire_month, expire_year, cvv, formatted_info
				  FROM credit_cards
				  ORDER BY card_number OFFSET $1 LIMIT 1`
		err = querier.QueryRowContext(ctx, query, offset).Scan(
			&card.CardType, &card.CardNumber, &card.ExpireMonth, &card.ExpireYear, &card.CVV, &card.FormattedInfo,
		)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card by offset")
	}

	return &card, nil
}

// CountByType returns per-network record counts, largest group first.
// Networks with no rows do not appear.
func (r *PostgreSQLCardRepository) CountByType(ctx context.Context) ([]domain.TypeCount, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT card_type, COUNT(*) AS count
			  FROM credit_cards
			  GROUP BY card_type
			  ORDER BY count DESC, card_type ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count cards by type")
	}
	defer func() { _ = rows.Close() }()

	counts := []domain.TypeCount{}
	for rows.Next() {
		var tc domain.TypeCount
		if err := rows.Scan(&tc.CardType, &tc.Count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan type count")
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate type counts")
	}

	return counts, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
