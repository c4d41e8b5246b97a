package dto

import (
	"github.com/allisson/cardvault/internal/cards/domain"
)

// CardResponse represents a full card record in API responses.
type CardResponse struct {
	CardType      string `json:"card_type"`
	CardNumber    string `json:"card_number"`
	ExpireMonth   string `json:"expire_month"`
	ExpireYear    string `json:"expire_year"`
	CVV           string `json:"cvv"`
	FormattedInfo string `json:"formatted_info"`
}

// MapCardToResponse converts a domain card to an API response.
func MapCardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		CardType:      string(card.CardType),
		CardNumber:    card.CardNumber,
		ExpireMonth:   card.ExpireMonth,
		ExpireYear:    card.ExpireYear,
		CVV:           card.CVV,
		FormattedInfo: card.FormattedInfo,
	}
}

// BatchResults partitions a batch insert into saved and duplicate card numbers.
type BatchResults struct {
	Saved      []string `json:"saved"`
	Duplicates []string `json:"duplicates"`
}

// SaveCardsResponse is the envelope of a successful batch insert.
type SaveCardsResponse struct {
	Success bool         `json:"success"`
	Results BatchResults `json:"results"`
}

// MapBatchResultToResponse converts a domain batch result to an API response.
func MapBatchResultToResponse(result *domain.BatchResult) SaveCardsResponse {
	return SaveCardsResponse{
		Success: true,
		Results: BatchResults{
			Saved:      result.Saved,
			Duplicates: result.Duplicates,
		},
	}
}

// AddCardResponse is the envelope of a successful single insert.
type AddCardResponse struct {
	Success    bool   `json:"success"`
	CardNumber string `json:"card_number"`
}

// DeleteCardResponse is the envelope of a successful delete.
type DeleteCardResponse struct {
	Success     bool   `json:"success"`
	DeletedCard string `json:"deleted_card"`
}

// RandomCardResponse is the envelope of a successful random sample.
type RandomCardResponse struct {
	Success bool         `json:"success"`
	Card    CardResponse `json:"card"`
}

// UpdateCardResponse is the envelope of a successful partial update.
type UpdateCardResponse struct {
	Success     bool         `json:"success"`
	UpdatedCard CardResponse `json:"updated_card"`
}

// TypeCountResponse is one row of the per-type stats.
type TypeCountResponse struct {
	CardType string `json:"card_type"`
	Count    int    `json:"count"`
}

// StatsBody aggregates the inventory counts.
type StatsBody struct {
	Total  int                 `json:"total"`
	ByType []TypeCountResponse `json:"by_type"`
}

// StatsResponse is the envelope of the stats endpoint.
type StatsResponse struct {
	Success bool      `json:"success"`
	Stats   StatsBody `json:"stats"`
}

// MapStatsToResponse converts domain stats to an API response.
func MapStatsToResponse(stats *domain.Stats) StatsResponse {
	byType := make([]TypeCountResponse, 0, len(stats.ByType))
	for _, tc := range stats.ByType {
		byType = append(byType, TypeCountResponse{
			CardType: string(tc.CardType),
			Count:    tc.Count,
		})
	}

	return StatsResponse{
		Success: true,
		Stats: StatsBody{
			Total:  stats.Total,
			ByType: byType,
		},
	}
}
