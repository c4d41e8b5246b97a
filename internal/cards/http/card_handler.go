// Package http provides HTTP handlers for the card inventory endpoints.
// Request and response envelopes stay compatible with the original API:
// every body carries a "success" flag.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/cards/http/dto"
	cardsUseCase "github.com/allisson/cardvault/internal/cards/usecase"
	"github.com/allisson/cardvault/internal/httputil"
	customValidation "github.com/allisson/cardvault/internal/validation"
)

// CardHandler handles HTTP requests for card inventory operations.
type CardHandler struct {
	cardUseCase cardsUseCase.CardUseCase
	logger      *slog.Logger
}

// NewCardHandler creates a new card handler with required dependencies.
func NewCardHandler(cardUseCase cardsUseCase.CardUseCase, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cardUseCase: cardUseCase,
		logger:      logger,
	}
}

// SaveCardsHandler stores a batch of cards.
// POST /save-cards - Returns 200 with the saved/duplicates partition. A bad
// record never fails the batch; it lands in duplicates.
func (h *CardHandler) SaveCardsHandler(c *gin.Context) {
	var req dto.SaveCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.cardUseCase.InsertBatch(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBatchResultToResponse(result))
}

// AddCardHandler stores a single card.
// POST /add-card - Returns 200 with the card number, 409 when it already exists.
func (h *CardHandler) AddCardHandler(c *gin.Context) {
	var req dto.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	card := req.ToDomain()
	if err := h.cardUseCase.InsertOne(c.Request.Context(), card); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AddCardResponse{
		Success:    true,
		CardNumber: card.CardNumber,
	})
}

// DeleteCardHandler removes a card by its number.
// DELETE /card/:cardNumber - Returns 200 with the deleted number, 404 when absent.
func (h *CardHandler) DeleteCardHandler(c *gin.Context) {
	cardNumber := c.Param("cardNumber")

	if err := h.cardUseCase.Delete(c.Request.Context(), cardNumber); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteCardResponse{
		Success:     true,
		DeletedCard: cardNumber,
	})
}

// RandomCardHandler draws one card uniformly at random.
// GET /random-card?type=visa - The type filter is case-insensitive and
// optional. Returns 404 when no record matches.
func (h *CardHandler) RandomCardHandler(c *gin.Context) {
	var cardType *domain.CardType
	if typeParam := c.Query("type"); typeParam != "" {
		parsed, err := domain.ParseCardType(typeParam)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		cardType = &parsed
	}

	card, err := h.cardUseCase.SampleRandom(c.Request.Context(), cardType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RandomCardResponse{
		Success: true,
		Card:    dto.MapCardToResponse(card),
	})
}

// UpdateCardHandler applies a partial update to a stored card.
// PUT /card/:cardNumber - Returns 200 with the merged record. An empty field
// set and any attempt to change card_number are rejected with 400.
func (h *CardHandler) UpdateCardHandler(c *gin.Context) {
	cardNumber := c.Param("cardNumber")

	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	card, err := h.cardUseCase.Update(c.Request.Context(), cardNumber, req.ToUpdateFields())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateCardResponse{
		Success:     true,
		UpdatedCard: dto.MapCardToResponse(card),
	})
}

// CardStatsHandler reports inventory counts.
// GET /card-stats - Returns the total plus per-type counts, largest group first.
func (h *CardHandler) CardStatsHandler(c *gin.Context) {
	stats, err := h.cardUseCase.Stats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatsToResponse(stats))
}
