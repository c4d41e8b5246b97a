package usecase

import (
	"context"
	"time"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/metrics"
)

// cardUseCaseWithMetrics decorates CardUseCase with metrics instrumentation.
type cardUseCaseWithMetrics struct {
	next    CardUseCase
	metrics metrics.BusinessMetrics
}

// NewCardUseCaseWithMetrics wraps a CardUseCase with metrics recording.
func NewCardUseCaseWithMetrics(useCase CardUseCase, m metrics.BusinessMetrics) CardUseCase {
	return &cardUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *cardUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "cards", operation, status)
	c.metrics.RecordDuration(ctx, "cards", operation, time.Since(start), status)
}

// InsertOne records metrics for single card insert operations.
func (c *cardUseCaseWithMetrics) InsertOne(ctx context.Context, card *domain.Card) error {
	start := time.Now()
	err := c.next.InsertOne(ctx, card)
	c.record(ctx, "card_insert", start, err)
	return err
}

// InsertBatch records metrics for batch insert operations.
func (c *cardUseCaseWithMetrics) InsertBatch(
	ctx context.Context,
	cards []*domain.Card,
) (*domain.BatchResult, error) {
	start := time.Now()
	result, err := c.next.InsertBatch(ctx, cards)
	c.record(ctx, "card_insert_batch", start, err)
	return result, err
}

// Delete records metrics for card deletion operations.
func (c *cardUseCaseWithMetrics) Delete(ctx context.Context, cardNumber string) error {
	start := time.Now()
	err := c.next.Delete(ctx, cardNumber)
	c.record(ctx, "card_delete", start, err)
	return err
}

// Update records metrics for partial card update operations.
func (c *cardUseCaseWithMetrics) Update(
	ctx context.Context,
	cardNumber string,
	fields UpdateFields,
) (*domain.Card, error) {
	start := time.Now()
	card, err := c.next.Update(ctx, cardNumber, fields)
	c.record(ctx, "card_update", start, err)
	return card, err
}

// SampleRandom records metrics for random sampling operations.
func (c *cardUseCaseWithMetrics) SampleRandom(
	ctx context.Context,
	cardType *domain.CardType,
) (*domain.Card, error) {
	start := time.Now()
	card, err := c.next.SampleRandom(ctx, cardType)
	c.record(ctx, "card_sample", start, err)
	return card, err
}

// Stats records metrics for stats operations.
func (c *cardUseCaseWithMetrics) Stats(ctx context.Context) (*domain.Stats, error) {
	start := time.Now()
	stats, err := c.next.Stats(ctx)
	c.record(ctx, "card_stats", start, err)
	return stats, err
}
