package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardvault/internal/cards/domain"
	cardsUseCase "github.com/allisson/cardvault/internal/cards/usecase"
)

// mockCardUseCase is a mock implementation of usecase.CardUseCase for handler tests.
type mockCardUseCase struct {
	mock.Mock
}

func (m *mockCardUseCase) InsertOne(ctx context.Context, card *domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardUseCase) InsertBatch(
	ctx context.Context,
	cards []*domain.Card,
) (*domain.BatchResult, error) {
	args := m.Called(ctx, cards)
	result, _ := args.Get(0).(*domain.BatchResult)
	return result, args.Error(1)
}

func (m *mockCardUseCase) Delete(ctx context.Context, cardNumber string) error {
	args := m.Called(ctx, cardNumber)
	return args.Error(0)
}

func (m *mockCardUseCase) Update(
	ctx context.Context,
	cardNumber string,
	fields cardsUseCase.UpdateFields,
) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber, fields)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardUseCase) SampleRandom(
	ctx context.Context,
	cardType *domain.CardType,
) (*domain.Card, error) {
	args := m.Called(ctx, cardType)
	card, _ := args.Get(0).(*domain.Card)
	return card, args.Error(1)
}

func (m *mockCardUseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*domain.Stats)
	return stats, args.Error(1)
}

var _ cardsUseCase.CardUseCase = (*mockCardUseCase)(nil)

func setupRouter(uc cardsUseCase.CardUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)
	handler := NewCardHandler(uc, logger)

	router := gin.New()
	router.POST("/save-cards", handler.SaveCardsHandler)
	router.POST("/add-card", handler.AddCardHandler)
	router.DELETE("/card/:cardNumber", handler.DeleteCardHandler)
	router.GET("/random-card", handler.RandomCardHandler)
	router.PUT("/card/:cardNumber", handler.UpdateCardHandler)
	router.GET("/card-stats", handler.CardStatsHandler)
	return router
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func storedCard() *domain.Card {
	card := &domain.Card{
		CardType:    domain.CardTypeVisa,
		CardNumber:  "4532015112830366",
		ExpireMonth: "07",
		ExpireYear:  "2030",
		CVV:         "123",
	}
	card.RefreshFormattedInfo()
	return card
}

func TestSaveCardsHandler(t *testing.T) {
	t.Run("partitions batch", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("InsertBatch", mock.Anything, mock.AnythingOfType("[]*domain.Card")).
			Return(&domain.BatchResult{
				Saved:      []string{"4532015112830366"},
				Duplicates: []string{"5555555555554444"},
			}, nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "POST", "/save-cards", gin.H{
			"cards": []gin.H{
				{"card_type": "VISA", "card_number": "4532015112830366", "expire_month": "07", "expire_year": "2030", "cvv": "123"},
				{"card_type": "MASTERCARD", "card_number": "5555555555554444", "expire_month": "01", "expire_year": "2029", "cvv": "456"},
			},
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Success bool `json:"success"`
			Results struct {
				Saved      []string `json:"saved"`
				Duplicates []string `json:"duplicates"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, []string{"4532015112830366"}, response.Results.Saved)
		assert.Equal(t, []string{"5555555555554444"}, response.Results.Duplicates)
		uc.AssertExpectations(t)
	})

	t.Run("missing cards field", func(t *testing.T) {
		router := setupRouter(&mockCardUseCase{})
		recorder := performRequest(router, "POST", "/save-cards", gin.H{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		router := setupRouter(&mockCardUseCase{})
		request := httptest.NewRequest("POST", "/save-cards", bytes.NewReader([]byte("{not-json")))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestAddCardHandler(t *testing.T) {
	validPayload := gin.H{
		"card_type":    "VISA",
		"card_number":  "4532015112830366",
		"expire_month": "07",
		"expire_year":  "2030",
		"cvv":          "123",
	}

	t.Run("success", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("InsertOne", mock.Anything, mock.MatchedBy(func(card *domain.Card) bool {
			return card.CardNumber == "4532015112830366" && card.CardType == domain.CardTypeVisa
		})).Return(nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "POST", "/add-card", validPayload)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Success    bool   `json:"success"`
			CardNumber string `json:"card_number"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "4532015112830366", response.CardNumber)
		uc.AssertExpectations(t)
	})

	t.Run("duplicate returns conflict", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("InsertOne", mock.Anything, mock.Anything).Return(domain.ErrCardAlreadyExists).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "POST", "/add-card", validPayload)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"success":false`)
	})

	t.Run("luhn failure rejected before usecase", func(t *testing.T) {
		uc := &mockCardUseCase{}
		router := setupRouter(uc)

		payload := gin.H{
			"card_type":    "VISA",
			"card_number":  "4532015112830367",
			"expire_month": "07",
			"expire_year":  "2030",
			"cvv":          "123",
		}
		recorder := performRequest(router, "POST", "/add-card", payload)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		uc.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	})
}

func TestDeleteCardHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("Delete", mock.Anything, "4532015112830366").Return(nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "DELETE", "/card/4532015112830366", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"deleted_card":"4532015112830366"`)
	})

	t.Run("not found", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("Delete", mock.Anything, "4000000000000000").Return(domain.ErrCardNotFound).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "DELETE", "/card/4000000000000000", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestRandomCardHandler(t *testing.T) {
	t.Run("unfiltered", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("SampleRandom", mock.Anything, (*domain.CardType)(nil)).Return(storedCard(), nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "GET", "/random-card", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Success bool `json:"success"`
			Card    struct {
				CardNumber    string `json:"card_number"`
				FormattedInfo string `json:"formatted_info"`
			} `json:"card"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "4532015112830366", response.Card.CardNumber)
		assert.Equal(t, "4532015112830366|07|2030|123", response.Card.FormattedInfo)
	})

	t.Run("type filter is case-insensitive", func(t *testing.T) {
		uc := &mockCardUseCase{}
		visa := domain.CardTypeVisa
		uc.On("SampleRandom", mock.Anything, &visa).Return(storedCard(), nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "GET", "/random-card?type=visa", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		uc.AssertExpectations(t)
	})

	t.Run("unsupported type", func(t *testing.T) {
		router := setupRouter(&mockCardUseCase{})
		recorder := performRequest(router, "GET", "/random-card?type=AMEX", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("empty inventory", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("SampleRandom", mock.Anything, (*domain.CardType)(nil)).
			Return(nil, domain.ErrNoCardsFound).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "GET", "/random-card", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestUpdateCardHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		uc := &mockCardUseCase{}
		updated := storedCard()
		updated.CVV = "999"
		updated.RefreshFormattedInfo()

		cvv := "999"
		uc.On("Update", mock.Anything, "4532015112830366", cardsUseCase.UpdateFields{CVV: &cvv}).
			Return(updated, nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "PUT", "/card/4532015112830366", gin.H{"cvv": "999"})

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Success     bool `json:"success"`
			UpdatedCard struct {
				CVV string `json:"cvv"`
			} `json:"updated_card"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "999", response.UpdatedCard.CVV)
	})

	t.Run("card_number in payload rejected", func(t *testing.T) {
		uc := &mockCardUseCase{}
		router := setupRouter(uc)

		recorder := performRequest(router, "PUT", "/card/4532015112830366", gin.H{
			"card_number": "4111111111111111",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		uc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty field set rejected", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("Update", mock.Anything, "4532015112830366", cardsUseCase.UpdateFields{}).
			Return(nil, domain.ErrNoFieldsToUpdate).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "PUT", "/card/4532015112830366", gin.H{})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("invalid month rejected before usecase", func(t *testing.T) {
		uc := &mockCardUseCase{}
		router := setupRouter(uc)

		recorder := performRequest(router, "PUT", "/card/4532015112830366", gin.H{"expire_month": "13"})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		uc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown card", func(t *testing.T) {
		uc := &mockCardUseCase{}
		cvv := "999"
		uc.On("Update", mock.Anything, "4000000000000000", cardsUseCase.UpdateFields{CVV: &cvv}).
			Return(nil, domain.ErrCardNotFound).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "PUT", "/card/4000000000000000", gin.H{"cvv": "999"})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestCardStatsHandler(t *testing.T) {
	t.Run("reports totals", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("Stats", mock.Anything).Return(&domain.Stats{
			Total: 5,
			ByType: []domain.TypeCount{
				{CardType: domain.CardTypeVisa, Count: 3},
				{CardType: domain.CardTypeJCB, Count: 2},
			},
		}, nil).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "GET", "/card-stats", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			Success bool `json:"success"`
			Stats   struct {
				Total  int `json:"total"`
				ByType []struct {
					CardType string `json:"card_type"`
					Count    int    `json:"count"`
				} `json:"by_type"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, 5, response.Stats.Total)
		require.Len(t, response.Stats.ByType, 2)
		assert.Equal(t, "VISA", response.Stats.ByType[0].CardType)
	})

	t.Run("storage failure stays generic", func(t *testing.T) {
		uc := &mockCardUseCase{}
		uc.On("Stats", mock.Anything).Return(nil, assert.AnError).Once()

		router := setupRouter(uc)
		recorder := performRequest(router, "GET", "/card-stats", nil)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "an internal error occurred")
	})
}
