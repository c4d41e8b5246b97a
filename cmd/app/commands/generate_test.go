package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/cards/generator"
	"github.com/allisson/cardvault/internal/cards/usecase"
	"github.com/allisson/cardvault/internal/luhn"
)

type mockCardUseCase struct {
	mock.Mock
}

func (m *mockCardUseCase) InsertOne(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardUseCase) InsertBatch(ctx context.Context, cards []*domain.Card) (*domain.BatchResult, error) {
	args := m.Called(ctx, cards)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *mockCardUseCase) Delete(ctx context.Context, cardNumber string) error {
	args := m.Called(ctx, cardNumber)
	return args.Error(0)
}

func (m *mockCardUseCase) Update(ctx context.Context, cardNumber string, fields usecase.UpdateFields) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardUseCase) SampleRandom(ctx context.Context, cardType *domain.CardType) (*domain.Card, error) {
	args := m.Called(ctx, cardType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *mockCardUseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// seqRand yields a fixed sequence of values modulo the requested bound.
type seqRand struct {
	values []int
	pos    int
}

func (s *seqRand) IntN(n int) int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v % n
}

func newTestGenerator(t *testing.T) *generator.Generator {
	t.Helper()

	gen, err := generator.NewGenerator(
		generator.DefaultBinTables(),
		generator.WithRand(&seqRand{values: []int{0, 1, 2, 3, 4, 5, 6}}),
		generator.WithNow(func() time.Time {
			return time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		}),
	)
	require.NoError(t, err)
	return gen
}

func TestGenerateCards(t *testing.T) {
	t.Run("text format writes one line per card", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)

		err := generateCards(context.Background(), gen, nil, 3, "visa", "text", IOTuple{Writer: &buf})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.True(t, strings.HasPrefix(line, "VISA 4"), line)
			assert.Contains(t, line, "exp=")
			assert.Contains(t, line, "cvv=")
		}
	})

	t.Run("pipe format writes formatted info", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)

		err := generateCards(context.Background(), gen, nil, 2, "jcb", "pipe", IOTuple{Writer: &buf})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			parts := strings.Split(line, "|")
			require.Len(t, parts, 4)
			assert.True(t, luhn.Valid(parts[0]), parts[0])
			assert.Len(t, parts[0], 16)
		}
	})

	t.Run("json format encodes api field names", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)

		err := generateCards(context.Background(), gen, nil, 2, "mastercard", "json", IOTuple{Writer: &buf})
		require.NoError(t, err)

		var cards []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &cards))
		require.Len(t, cards, 2)
		for _, card := range cards {
			assert.Equal(t, "MASTERCARD", card["card_type"])
			assert.Len(t, card["card_number"], 16)
			assert.NotEmpty(t, card["formatted_info"])
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)

		err := generateCards(context.Background(), gen, nil, 1, "visa", "yaml", IOTuple{Writer: &buf})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported output format")
	})

	t.Run("unsupported card type", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)

		err := generateCards(context.Background(), gen, nil, 1, "amex", "text", IOTuple{Writer: &buf})
		require.Error(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("save persists batch and reports partition", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)
		useCase := new(mockCardUseCase)
		useCase.On("InsertBatch", mock.Anything, mock.MatchedBy(func(cards []*domain.Card) bool {
			return len(cards) == 3
		})).Return(&domain.BatchResult{
			Saved:      []string{"1", "2"},
			Duplicates: []string{"3"},
		}, nil)

		err := generateCards(context.Background(), gen, useCase, 3, "mixed", "pipe", IOTuple{Writer: &buf})
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "saved: 2, duplicates: 1")
		useCase.AssertExpectations(t)
	})

	t.Run("save failure", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)
		useCase := new(mockCardUseCase)
		useCase.On("InsertBatch", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		err := generateCards(context.Background(), gen, useCase, 1, "visa", "text", IOTuple{Writer: &buf})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save cards")
	})

	t.Run("zero count writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		gen := newTestGenerator(t)

		err := generateCards(context.Background(), gen, nil, 0, "mixed", "text", IOTuple{Writer: &buf})
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
